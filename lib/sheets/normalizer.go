package sheets

import (
	"context"
	"fmt"

	"bjxgj-exporter/lib/scrapers/bjxgj"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("sheets")

// Kind is the closed set of record kinds the pipeline understands.
type Kind int

const (
	KindUnsupported Kind = iota
	KindRosterDump
	KindScoreSheet
	KindStudentInfo
)

func KindOf(recordType int) Kind {
	switch recordType {
	case bjxgj.TypeRosterDump:
		return KindRosterDump
	case bjxgj.TypeScoreSheet:
		return KindScoreSheet
	case bjxgj.TypeStudentInfo:
		return KindStudentInfo
	}
	return KindUnsupported
}

func (k Kind) String() string {
	switch k {
	case KindRosterDump:
		return "成员名单"
	case KindScoreSheet:
		return "成绩单"
	case KindStudentInfo:
		return "学生信息"
	}
	return "未知"
}

var (
	// the record kind is not one the pipeline knows, callers skip the
	// record and continue with its siblings
	ErrUnsupportedKind = fmt.Errorf("unsupported record kind")
	// the record is structurally broken (missing attached lists), the
	// whole table is rejected but siblings are unaffected
	ErrMalformedSheet = fmt.Errorf("malformed sheet record")
)

// Gateway is the slice of the backend the normalizers need. The session
// tokens live behind the implementation so the pipeline itself never
// touches credentials.
type Gateway interface {
	ClassRoster(ctx context.Context, cid string) ([]string, error)
	ClassMembers(ctx context.Context, cid string) ([]bjxgj.Member, error)
	StudentScore(ctx context.Context, name, scoreID string) ([]bjxgj.ScoreEntry, error)
}

// ScoreProgressFunc is called after each per-student score fetch.
// index is 1-based, err is the per-student failure (already recovered
// from, the student still gets a row).
type ScoreProgressFunc func(index, total int, name string, err error)

type Normalizer struct {
	Gateway Gateway
	// class id -> class display name, used only for naming
	Classes map[string]string

	OnScoreProgress ScoreProgressFunc
}

// Normalize turns one raw record into a table, dispatching on the
// record's declared kind.
func (n Normalizer) Normalize(ctx context.Context, rec bjxgj.Record) (Table, error) {
	ctx, span := tracer.Start(ctx, "normalizer:Normalize")
	defer span.End()
	span.SetAttributes(
		attribute.Int("record_type", rec.Type),
		attribute.String("record_id", rec.ID),
	)

	var table Table
	var err error
	switch KindOf(rec.Type) {
	case KindRosterDump:
		table, err = n.rosterDump(ctx, rec)
	case KindScoreSheet:
		table, err = n.scoreSheet(ctx, rec)
	case KindStudentInfo:
		table, err = n.studentInfo(ctx, rec)
	default:
		err = fmt.Errorf("%w: type %d", ErrUnsupportedKind, rec.Type)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "normalization failed")
		return Table{}, err
	}
	return table, nil
}

func (n Normalizer) className(cid string) string {
	if name, ok := n.Classes[cid]; ok {
		return name
	}
	return "未知班级"
}
