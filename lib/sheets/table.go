package sheets

// IdentityColumn is the first column of every normalized table.
const IdentityColumn = "姓名"

// Table is the uniform row/column model every record kind is reduced
// to before export. Rows may omit declared columns (empty cell) but
// never introduce undeclared ones.
type Table struct {
	Columns []string
	Rows    []map[string]string
	// suggested base file name for the export sink
	Name string
}

// columnSet is an insertion-ordered deduplicating set of column names.
// Column order is first-seen order, never sorted.
type columnSet struct {
	order []string
	seen  map[string]struct{}
}

func newColumnSet(initial ...string) *columnSet {
	s := &columnSet{seen: map[string]struct{}{}}
	for _, col := range initial {
		s.add(col)
	}
	return s
}

func (s *columnSet) add(col string) {
	if _, ok := s.seen[col]; ok {
		return
	}
	s.seen[col] = struct{}{}
	s.order = append(s.order, col)
}

func (s *columnSet) list() []string {
	return s.order
}
