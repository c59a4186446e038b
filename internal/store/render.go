package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/noisegraph/internal/ir"
)

// Render is one catalog row.
type Render struct {
	ID  string
	Seq int64

	// Scene and Name are empty for ad-hoc CLI renders.
	Scene string
	Name  string

	Expr         string
	Root         ir.Index
	GraphDigest  string
	RasterDigest string

	Mode   string
	Format string
	Width  int
	Height int
	Domain [4]float64

	Output    string
	Elapsed   time.Duration
	CreatedAt time.Time

	EngineVersion string
	IRVersion     string
}

const renderColumns = `id, seq, scene, name, expr, root, graph_digest, raster_digest,
	mode, format, width, height, domain_x, domain_y, domain_w, domain_h,
	output, elapsed_ms, engine_version, ir_version, created_at`

// RecordRender appends r to the catalog and returns it with ID, Seq,
// CreatedAt and version fields filled in. Recording an existing ID leaves
// the stored row unchanged and returns it.
func (s *Store) RecordRender(ctx context.Context, r Render) (Render, error) {
	if r.ID == "" {
		r.ID = s.ids.Generate()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if r.EngineVersion == "" {
		r.EngineVersion = ir.EngineVersion
	}
	if r.IRVersion == "" {
		r.IRVersion = ir.IRVersion
	}
	r.Seq = s.clock.Next()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO renders (`+renderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.ID, r.Seq, r.Scene, r.Name, r.Expr, int64(r.Root), r.GraphDigest, r.RasterDigest,
		r.Mode, r.Format, r.Width, r.Height, r.Domain[0], r.Domain[1], r.Domain[2], r.Domain[3],
		r.Output, r.Elapsed.Milliseconds(), r.EngineVersion, r.IRVersion,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Render{}, fmt.Errorf("record render: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return s.ReadRender(ctx, r.ID)
	}
	return r, nil
}

// ReadRender retrieves a single render by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRender(ctx context.Context, id string) (Render, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+renderColumns+` FROM renders WHERE id = ?`, id)
	return scanRender(row)
}

// ListRenders returns the most recent renders, newest first. A limit of
// zero or less returns every row.
func (s *Store) ListRenders(ctx context.Context, limit int) ([]Render, error) {
	return s.FindRenders(ctx, Filter{Newest: true, Limit: limit})
}

// RendersForGraph returns every render of the graph with the given digest,
// oldest first.
func (s *Store) RendersForGraph(ctx context.Context, graphDigest string) ([]Render, error) {
	return s.FindRenders(ctx, Filter{GraphDigest: graphDigest})
}

// RendersForScene returns every render recorded for a scene, oldest first.
func (s *Store) RendersForScene(ctx context.Context, scene string) ([]Render, error) {
	return s.FindRenders(ctx, Filter{Scene: scene})
}

func (s *Store) queryRenders(ctx context.Context, query string, args ...any) ([]Render, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query renders: %w", err)
	}
	defer rows.Close()

	renders := []Render{}
	for rows.Next() {
		r, err := scanRender(rows)
		if err != nil {
			return nil, err
		}
		renders = append(renders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate renders: %w", err)
	}
	return renders, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRender(sc scanner) (Render, error) {
	var (
		r         Render
		root      int64
		elapsedMS int64
		created   string
	)
	err := sc.Scan(
		&r.ID, &r.Seq, &r.Scene, &r.Name, &r.Expr, &root, &r.GraphDigest, &r.RasterDigest,
		&r.Mode, &r.Format, &r.Width, &r.Height, &r.Domain[0], &r.Domain[1], &r.Domain[2], &r.Domain[3],
		&r.Output, &elapsedMS, &r.EngineVersion, &r.IRVersion, &created,
	)
	if err == sql.ErrNoRows {
		return Render{}, err
	}
	if err != nil {
		return Render{}, fmt.Errorf("scan render: %w", err)
	}
	r.Root = ir.Index(root)
	r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Render{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return r, nil
}
