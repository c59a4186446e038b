package store

import (
	"context"
	"fmt"
	"strings"
)

// Filter selects catalog rows. Zero-valued fields match everything.
type Filter struct {
	Scene        string
	Name         string
	GraphDigest  string
	RasterDigest string
	Format       string

	// Newest orders by descending seq. The default is oldest first.
	Newest bool

	// Limit caps the number of rows. Zero or less means no limit.
	Limit int
}

// compile converts f into parameterized SQL. Values are never
// interpolated, and every query ends in a total order: seq, then id.
func (f Filter) compile() (string, []any) {
	var (
		conds  []string
		params []any
	)
	eq := func(column, value string) {
		if value == "" {
			return
		}
		conds = append(conds, column+" = ?")
		params = append(params, value)
	}
	eq("scene", f.Scene)
	eq("name", f.Name)
	eq("graph_digest", f.GraphDigest)
	eq("raster_digest", f.RasterDigest)
	eq("format", f.Format)

	var b strings.Builder
	b.WriteString("SELECT " + renderColumns + " FROM renders")
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	dir := "ASC"
	if f.Newest {
		dir = "DESC"
	}
	fmt.Fprintf(&b, " ORDER BY seq %s, id COLLATE BINARY ASC", dir)
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, f.Limit)
	}
	return b.String(), params
}

// FindRenders returns every row matching f.
func (s *Store) FindRenders(ctx context.Context, f Filter) ([]Render, error) {
	query, params := f.compile()
	return s.queryRenders(ctx, query, params...)
}
