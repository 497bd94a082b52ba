package sheets

import (
	"context"
	"fmt"

	"bjxgj-exporter/lib/scrapers/bjxgj"
)

// studentInfo maps the record's attached header list and detail list
// into a table by position: detail entry j of a student fills the
// column named by header j. A student whose info list is shorter than
// the header list just yields a row missing the trailing columns.
func (n Normalizer) studentInfo(ctx context.Context, rec bjxgj.Record) (Table, error) {
	_, span := tracer.Start(ctx, "normalizer:studentInfo")
	defer span.End()

	if len(rec.InfoNames) == 0 || len(rec.StudentInfos) == 0 {
		return Table{}, fmt.Errorf(
			"%w: %q carries no header or detail list", ErrMalformedSheet, rec.Title,
		)
	}

	columns := newColumnSet(IdentityColumn)
	for _, header := range rec.InfoNames {
		columns.add(header)
	}

	rows := make([]map[string]string, 0, len(rec.StudentInfos))
	for _, student := range rec.StudentInfos {
		row := map[string]string{IdentityColumn: student.Name}
		for j, info := range student.Infos {
			if j >= len(rec.InfoNames) {
				break
			}
			row[rec.InfoNames[j]] = info.NewestValue
		}
		rows = append(rows, row)
	}

	return Table{
		Columns: columns.list(),
		Rows:    rows,
		Name:    fmt.Sprintf("%s_%s", rec.Title, n.className(rec.Cls)),
	}, nil
}
