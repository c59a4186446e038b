package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/noisegraph/internal/config"
	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/mapping"
	"github.com/roach88/noisegraph/internal/session"
	"github.com/roach88/noisegraph/internal/store"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Output      string
	Width       int
	Height      int
	Mode        string
	Domain      string // x,y,w,h
	PixelFormat string
	Normalize   bool
	Workers     int
	Database    string
	Preview     string // WxH
	Binds       []string
}

// RenderResult describes one produced raster.
type RenderResult struct {
	Expr         string   `json:"expr"`
	Root         ir.Index `json:"root"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Mode         string   `json:"mode"`
	Format       string   `json:"format"`
	GraphDigest  string   `json:"graph_digest"`
	RasterDigest string   `json:"raster_digest"`
	Output       string   `json:"output,omitempty"`
	Preview      string   `json:"preview,omitempty"`
	RunID        string   `json:"run_id,omitempty"`
	ElapsedMS    int64    `json:"elapsed_ms"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <expr>",
		Short: "Render an expression to an image",
		Long: `Render an expression over a rectangular domain.

Seamless modes lift each pixel onto a cylinder, torus or sphere so the
image tiles along the chosen axes. The output format is chosen from the
file extension (.png, .jpg, .bmp, .tif). Without -o only the digests are
printed.

Unset flags fall back to the config file, then to built-in defaults.

Examples:
  noisegraph render "fbm(gradient, quintic, 6, 2, 1)" -o clouds.png
  noisegraph render "ridged_multifractal(simplex, quintic, 5, 2, 3)" --mode xy -o tile.png --normalize
  noisegraph render "x" --domain 0,0,1,1 --width 4 --height 2 --pixel-format gray8
  noisegraph render "billow(value, linear, 4, 3, 5)" -o big.tif --preview 128x128 --db catalog.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	def := config.Default()
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output image path")
	cmd.Flags().IntVar(&opts.Width, "width", def.Width, "image width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", def.Height, "image height in pixels")
	cmd.Flags().StringVar(&opts.Mode, "mode", def.DefaultMode, "seamless mode (none|x|y|xy|spherical)")
	cmd.Flags().StringVar(&opts.Domain, "domain", "", "domain rectangle x,y,w,h (default -1,-1,2,2)")
	cmd.Flags().StringVar(&opts.PixelFormat, "pixel-format", def.DefaultFormat, "pixel format (gray8|gray16|rgb8|rgba8|rgba16|rgbaf32)")
	cmd.Flags().BoolVar(&opts.Normalize, "normalize", false, "rescale scalar output to its observed range")
	cmd.Flags().IntVar(&opts.Workers, "workers", def.Workers, "render workers (0 = one per CPU)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this catalog database")
	cmd.Flags().StringVar(&opts.Preview, "preview", "", "also write a scaled preview of size WxH")
	cmd.Flags().StringArrayVar(&opts.Binds, "bind", nil, "define name=expr before rendering (repeatable)")

	return cmd
}

// renderSettings is the merged view of flags and config.
type renderSettings struct {
	spec     mapping.Spec
	workers  int
	database string
}

// resolveRenderSettings applies flags over cfg. Only flags the user set
// override the config.
func resolveRenderSettings(opts *RenderOptions, cfg config.Config, cmd *cobra.Command) (renderSettings, error) {
	changed := cmd.Flags().Changed
	s := renderSettings{
		spec: mapping.Spec{
			Domain: cfg.Domain,
			Width:  cfg.Width,
			Height: cfg.Height,
		},
		workers:  cfg.Workers,
		database: cfg.Database,
	}

	modeName, formatName := cfg.DefaultMode, cfg.DefaultFormat
	if changed("mode") {
		modeName = opts.Mode
	}
	if changed("pixel-format") {
		formatName = opts.PixelFormat
	}
	if changed("width") {
		s.spec.Width = opts.Width
	}
	if changed("height") {
		s.spec.Height = opts.Height
	}
	if changed("workers") {
		s.workers = opts.Workers
	}
	if changed("db") {
		s.database = opts.Database
	}
	if opts.Domain != "" {
		r, err := parseRect(opts.Domain)
		if err != nil {
			return s, err
		}
		s.spec.Domain = r
	}

	var err error
	if s.spec.Mode, err = mapping.ParseMode(modeName); err != nil {
		return s, err
	}
	if s.spec.Format, err = mapping.ParseFormat(formatName); err != nil {
		return s, err
	}
	if s.spec.Width <= 0 || s.spec.Height <= 0 {
		return s, fmt.Errorf("width and height must be positive, got %dx%d", s.spec.Width, s.spec.Height)
	}
	if s.workers < 0 {
		return s, fmt.Errorf("workers must be >= 0, got %d", s.workers)
	}
	return s, nil
}

func runRender(opts *RenderOptions, expr string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	cfg, err := opts.Config()
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load config", err)
	}
	settings, err := resolveRenderSettings(opts, cfg, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, "invalid render settings", err)
	}
	var previewW, previewH int
	if opts.Preview != "" {
		if opts.Output == "" {
			return formatter.Fail(ExitCommandError, "invalid render settings", fmt.Errorf("--preview needs -o"))
		}
		if previewW, previewH, err = parseSize(opts.Preview); err != nil {
			return formatter.Fail(ExitCommandError, "invalid --preview", err)
		}
	}

	sess := session.New(
		session.WithLogger(logger),
		session.WithWorkers(settings.workers),
		session.WithNormalize(opts.Normalize),
	)
	defer sess.Close()

	if _, err := defineBindings(sess, opts.Binds); err != nil {
		return formatter.Fail(ExitFailure, "compile failed", err)
	}
	c, err := compileExpr(sess, "", expr)
	if err != nil {
		return formatter.Fail(ExitFailure, "compile failed", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	raster, err := sess.Render(ctx, c.Root, settings.spec)
	if err != nil {
		return formatter.Fail(ExitFailure, "render failed", err)
	}
	elapsed := time.Since(start)

	result := RenderResult{
		Expr:         expr,
		Root:         c.Root,
		Width:        raster.Width,
		Height:       raster.Height,
		Mode:         settings.spec.Mode.String(),
		Format:       raster.Format.String(),
		GraphDigest:  c.Graph,
		RasterDigest: raster.Digest(),
		ElapsedMS:    elapsed.Milliseconds(),
	}

	if opts.Output != "" {
		if err := raster.Save(opts.Output); err != nil {
			return formatter.Fail(ExitCommandError, "failed to write image", err)
		}
		result.Output = opts.Output
		logger.Info("wrote image", "path", opts.Output, "size", raster.Header())
	}

	if previewW > 0 {
		img, err := raster.Resize(previewW, previewH)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to scale preview", err)
		}
		path := previewPath(opts.Output)
		if err := mapping.SaveImage(path, img); err != nil {
			return formatter.Fail(ExitCommandError, "failed to write preview", err)
		}
		result.Preview = path
	}

	if settings.database != "" {
		id, err := recordRun(ctx, settings, result, elapsed, logger)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to record run", err)
		}
		result.RunID = id
	}

	return outputRenderSuccess(formatter, result)
}

// previewPath derives "tile.preview.png" from "tile.png".
func previewPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".preview" + ext
}

func recordRun(ctx context.Context, s renderSettings, r RenderResult, elapsed time.Duration, logger *slog.Logger) (string, error) {
	st, err := store.Open(s.database)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	d := s.spec.Domain
	rec, err := st.RecordRender(ctx, store.Render{
		Expr:         r.Expr,
		Root:         r.Root,
		GraphDigest:  r.GraphDigest,
		RasterDigest: r.RasterDigest,
		Mode:         r.Mode,
		Format:       r.Format,
		Width:        r.Width,
		Height:       r.Height,
		Domain:       [4]float64{d.X, d.Y, d.W, d.H},
		Output:       r.Output,
		Elapsed:      elapsed,
	})
	if err != nil {
		return "", err
	}
	logger.Debug("render recorded", "id", rec.ID, "seq", rec.Seq, "db", s.database)
	return rec.ID, nil
}

func outputRenderSuccess(formatter *OutputFormatter, r RenderResult) error {
	if formatter.Format == "json" {
		return formatter.Success(r)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Rendered %dx%d %s (mode %s) in %dms\n", r.Width, r.Height, r.Format, r.Mode, r.ElapsedMS)
	fmt.Fprintf(w, "  graph:  %s\n", r.GraphDigest)
	fmt.Fprintf(w, "  raster: %s\n", r.RasterDigest)
	if r.Output != "" {
		fmt.Fprintf(w, "  wrote %s\n", r.Output)
	}
	if r.Preview != "" {
		fmt.Fprintf(w, "  preview %s\n", r.Preview)
	}
	if r.RunID != "" {
		fmt.Fprintf(w, "  recorded run %s\n", r.RunID)
	}
	return nil
}
