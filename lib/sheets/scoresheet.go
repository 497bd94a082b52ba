package sheets

import (
	"context"
	"fmt"

	"bjxgj-exporter/lib/scrapers/bjxgj"

	"go.opentelemetry.io/otel/attribute"
)

// sentinel cell recorded for a student whose score fetch failed, the
// student keeps their row so row count always matches the roster
const scoreErrorMarker = "错误"

// scoreSheet builds one row per rostered student with one column per
// subject. The column set is the order-preserving union of every
// subject seen across all students; a student without a given subject
// just leaves that cell empty.
//
// Fetches are sequential on purpose: the progress indicator stays
// accurate and the backend sees at most one request in flight.
func (n Normalizer) scoreSheet(ctx context.Context, rec bjxgj.Record) (Table, error) {
	ctx, span := tracer.Start(ctx, "normalizer:scoreSheet")
	defer span.End()

	names, err := n.Gateway.ClassRoster(ctx, rec.Cls)
	if err != nil {
		return Table{}, fmt.Errorf("fetch class roster: %w", err)
	}
	span.SetAttributes(attribute.Int("roster_size", len(names)))

	columns := newColumnSet(IdentityColumn)
	rows := make([]map[string]string, 0, len(names))

	for i, name := range names {
		detail, err := n.Gateway.StudentScore(ctx, name, rec.Score)
		if err != nil {
			detail = []bjxgj.ScoreEntry{{Subject: scoreErrorMarker, Score: scoreErrorMarker}}
		}
		if n.OnScoreProgress != nil {
			n.OnScoreProgress(i+1, len(names), name, err)
		}

		row := map[string]string{IdentityColumn: name}
		for _, entry := range detail {
			columns.add(entry.Subject)
			row[entry.Subject] = entry.Score
		}
		rows = append(rows, row)
	}

	return Table{
		Columns: columns.list(),
		Rows:    rows,
		Name: fmt.Sprintf(
			"%s_%s_%s_%d人",
			rec.Title, n.className(rec.Cls), rec.CreatorName, len(names),
		),
	}, nil
}
