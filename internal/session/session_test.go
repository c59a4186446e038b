package session

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noisegraph/internal/engine"
	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/mapping"
)

func TestCompileAndEvaluate(t *testing.T) {
	s := New()
	defer s.Close()

	idx, err := s.Compile("1 + 2 * 3")
	require.NoError(t, err)
	v, err := s.EvaluateScalar(engine.Coord{0, 0}, idx)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	_, err = s.EvaluateColor(engine.Coord{0, 0}, idx)
	assert.True(t, ir.IsTypeMismatch(err))

	_, err = s.EvaluateScalar(engine.Coord{0, 0, 0, 0, 0}, idx)
	assert.True(t, engine.IsInvalidCoordinate(err))
}

func TestDefineAndBuilders(t *testing.T) {
	s := New()
	defer s.Close()

	base, err := s.Define("base", "fbm(simplex, quintic, 2, 1, 4)")
	require.NoError(t, err)
	got, ok := s.Lookup("base")
	require.True(t, ok)
	assert.Equal(t, base, got)
	assert.Contains(t, s.Bindings(), "base")

	k := s.Kernel()
	half := k.Point5()
	scaled, err := k.Multiply(base, half)
	require.NoError(t, err)
	require.NoError(t, s.Bind("scaled", scaled))

	idx, err := s.Compile("scaled * 2 - base")
	require.NoError(t, err)
	v, err := s.EvaluateScalar(engine.Coord{0.3, 0.7}, idx)
	require.NoError(t, err)
	assert.InDelta(t, 0, v, 1e-12)

	d1, err := s.Digest(base)
	require.NoError(t, err)
	d2, err := s.Digest(base)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestGenerateToFile(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(WithLogger(logger), WithWorkers(2))
	defer s.Close()

	idx, err := s.Compile("gradient_basis(quintic, seed(3))")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "noise.png")
	r, err := s.GenerateToFile(context.Background(), idx, mapping.SeamlessXY, mapping.DefaultDomain, 12, 10, mapping.RGBA8, path)
	require.NoError(t, err)
	assert.Len(t, r.Pix, 12*10*4)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Contains(t, logs.String(), "saved raster")

	_, err = s.GenerateToFile(context.Background(), idx, mapping.SeamlessNone, mapping.DefaultDomain, 4, 4, mapping.Gray8, filepath.Join(t.TempDir(), "x.nope"))
	assert.True(t, ir.IsIOError(err))
}

func TestNormalizeOption(t *testing.T) {
	s := New(WithNormalize(true))
	defer s.Close()

	idx, err := s.Compile("x * 100")
	require.NoError(t, err)
	r, err := s.Generate(context.Background(), idx, mapping.SeamlessNone, mapping.Rect{X: 0, Y: 0, W: 1, H: 1}, 2, 1, mapping.Gray8)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 255}, r.Pix)
}

func TestSilentByDefault(t *testing.T) {
	s := New()
	defer s.Close()
	assert.False(t, s.logger.Enabled(context.Background(), slog.LevelError))
}

func TestCloseRacesGenerate(t *testing.T) {
	s := New(WithWorkers(2))
	idx, err := s.Compile("x + y")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Generate(context.Background(), idx, mapping.SeamlessNone, mapping.DefaultDomain, 16, 16, mapping.Gray8)
			errs <- err
		}()
	}
	s.Close()
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	r, err := s.Generate(context.Background(), idx, mapping.SeamlessNone, mapping.DefaultDomain, 4, 4, mapping.Gray8)
	require.NoError(t, err, "generating after Close runs inline")
	assert.Len(t, r.Pix, 16)
	s.Close()
}
