package query

// Sort is one allow-listed ordering. Text orderings compare lowercased.
type Sort struct {
	Expr string
	Text bool
}

// Sorts is the sortBy allow-list of one collection.
type Sorts struct {
	pk     string
	fields map[string]Sort
}

// NewSorts registers fields under their public sortBy names. pk is the
// qualified primary key column, used for "id" and as the tie-breaker.
func NewSorts(pk string, fields map[string]Sort) *Sorts {
	s := &Sorts{pk: pk, fields: map[string]Sort{DefaultSortBy: {Expr: pk}}}
	for k, v := range fields {
		s.fields[k] = v
	}
	return s
}

// Key returns sortBy when it is allow-listed and "id" otherwise.
func (s *Sorts) Key(sortBy string) string {
	if _, ok := s.fields[sortBy]; ok {
		return sortBy
	}
	return DefaultSortBy
}

// Text wraps expr as a text ordering.
func Text(expr string) Sort { return Sort{Expr: expr, Text: true} }

// Column wraps expr as a plain ordering.
func Column(expr string) Sort { return Sort{Expr: expr} }

func (s *Sorts) sort(key string) Sort {
	return s.fields[s.Key(key)]
}
