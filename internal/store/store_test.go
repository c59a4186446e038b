package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/noisegraph/internal/testutil"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// createTestStore opens a fresh catalog in a temp directory.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRender(name string) Render {
	return Render{
		Scene:        "demo",
		Name:         name,
		Expr:         "fbm(gradient, quintic, 4, 2, 7)",
		Root:         42,
		GraphDigest:  "g-" + name,
		RasterDigest: "r-" + name,
		Mode:         "xy",
		Format:       "rgba8",
		Width:        64,
		Height:       32,
		Domain:       [4]float64{-1, -1, 2, 2},
		Output:       name + ".png",
		Elapsed:      1500 * time.Millisecond,
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}

	v, err := s.schemaVersion(context.Background())
	if err != nil {
		t.Fatalf("schemaVersion() failed: %v", err)
	}
	if v != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", v, currentSchemaVersion)
	}
}

func TestRecordAndRead_RoundTrip(t *testing.T) {
	s := createTestStore(t, WithNow(func() time.Time { return fixedTime }))
	ctx := context.Background()

	rec, err := s.RecordRender(ctx, testRender("tile"))
	if err != nil {
		t.Fatalf("RecordRender() failed: %v", err)
	}
	if rec.Seq != 1 {
		t.Errorf("Seq = %d, want 1", rec.Seq)
	}
	parsed, err := uuid.Parse(rec.ID)
	if err != nil {
		t.Fatalf("ID %q is not a UUID: %v", rec.ID, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("ID version = %d, want 7", parsed.Version())
	}

	got, err := s.ReadRender(ctx, rec.ID)
	if err != nil {
		t.Fatalf("ReadRender() failed: %v", err)
	}
	if !got.CreatedAt.Equal(fixedTime) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, fixedTime)
	}
	got.CreatedAt = rec.CreatedAt
	if got != rec {
		t.Errorf("ReadRender() = %+v\nwant %+v", got, rec)
	}
}

func TestReadRender_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRender(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReadRender() error = %v, want sql.ErrNoRows", err)
	}
}

func TestRecordRender_Idempotent(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("same", "same")))
	ctx := context.Background()

	first, err := s.RecordRender(ctx, testRender("a"))
	if err != nil {
		t.Fatalf("first RecordRender() failed: %v", err)
	}
	second, err := s.RecordRender(ctx, testRender("b"))
	if err != nil {
		t.Fatalf("second RecordRender() failed: %v", err)
	}
	if second.Name != "a" || second.Seq != first.Seq {
		t.Errorf("duplicate ID returned %+v, want stored row %+v", second, first)
	}

	all, err := s.ListRenders(ctx, 0)
	if err != nil {
		t.Fatalf("ListRenders() failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("len(ListRenders()) = %d, want 1", len(all))
	}
}

func TestListRenders_NewestFirst(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator()))
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three"} {
		if _, err := s.RecordRender(ctx, testRender(name)); err != nil {
			t.Fatalf("RecordRender(%s) failed: %v", name, err)
		}
	}

	got, err := s.ListRenders(ctx, 2)
	if err != nil {
		t.Fatalf("ListRenders() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "three" || got[1].Name != "two" {
		t.Errorf("order = [%s %s], want [three two]", got[0].Name, got[1].Name)
	}
	if got[0].ID != "run-3" {
		t.Errorf("ID = %q, want run-3", got[0].ID)
	}

	empty := createTestStore(t)
	none, err := empty.ListRenders(ctx, 10)
	if err != nil {
		t.Fatalf("ListRenders() on empty store failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("empty catalog returned %v, want empty non-nil slice", none)
	}
}

func TestRendersForGraphAndScene(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	a := testRender("a")
	b := testRender("b")
	b.GraphDigest = a.GraphDigest
	c := testRender("c")
	c.Scene = "other"
	for _, r := range []Render{a, b, c} {
		if _, err := s.RecordRender(ctx, r); err != nil {
			t.Fatalf("RecordRender() failed: %v", err)
		}
	}

	byGraph, err := s.RendersForGraph(ctx, a.GraphDigest)
	if err != nil {
		t.Fatalf("RendersForGraph() failed: %v", err)
	}
	if len(byGraph) != 2 || byGraph[0].Name != "a" || byGraph[1].Name != "b" {
		t.Errorf("RendersForGraph() = %v, want [a b] oldest first", names(byGraph))
	}

	byScene, err := s.RendersForScene(ctx, "other")
	if err != nil {
		t.Fatalf("RendersForScene() failed: %v", err)
	}
	if len(byScene) != 1 || byScene[0].Name != "c" {
		t.Errorf("RendersForScene() = %v, want [c]", names(byScene))
	}
}

func TestOpen_ResumesSeq(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s1.RecordRender(ctx, testRender("x")); err != nil {
			t.Fatalf("RecordRender() failed: %v", err)
		}
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	rec, err := s2.RecordRender(ctx, testRender("y"))
	if err != nil {
		t.Fatalf("RecordRender() after reopen failed: %v", err)
	}
	if rec.Seq != 4 {
		t.Errorf("Seq after reopen = %d, want 4", rec.Seq)
	}
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	want := []string{"a", "b", "run-3"}
	for i, w := range want {
		if got := g.Generate(); got != w {
			t.Errorf("Generate() #%d = %q, want %q", i+1, got, w)
		}
	}
}

func TestClock(t *testing.T) {
	c := NewClockAt(10)
	if got := c.Next(); got != 11 {
		t.Errorf("Next() = %d, want 11", got)
	}
	if got := c.Current(); got != 11 {
		t.Errorf("Current() = %d, want 11", got)
	}
}

func names(rs []Render) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestRecordRender_UsesClock(t *testing.T) {
	clock := testutil.NewStepClock(fixedTime, time.Second)
	s := createTestStore(t, WithNow(clock.Now))
	ctx := context.Background()

	first, err := s.RecordRender(ctx, testRender("a"))
	if err != nil {
		t.Fatalf("RecordRender() failed: %v", err)
	}
	second, err := s.RecordRender(ctx, testRender("b"))
	if err != nil {
		t.Fatalf("RecordRender() failed: %v", err)
	}
	if !first.CreatedAt.Equal(fixedTime) {
		t.Errorf("first CreatedAt = %v, want %v", first.CreatedAt, fixedTime)
	}
	if got := second.CreatedAt.Sub(first.CreatedAt); got != time.Second {
		t.Errorf("CreatedAt step = %v, want 1s", got)
	}
}
