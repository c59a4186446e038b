package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/noisegraph/internal/harness"
	"github.com/roach88/noisegraph/internal/scene"
	"github.com/roach88/noisegraph/internal/store"
)

// SceneOptions holds flags for the scene command.
type SceneOptions struct {
	*RootOptions
	Database string
	OutDir   string
	DryRun   bool
	Workers  int
	Golden   bool // compare against <scene>.golden
	Update   bool // regenerate golden files
}

// SceneReport is the outcome of one scene file.
type SceneReport struct {
	Name    string                 `json:"name"`
	File    string                 `json:"file"`
	Pass    bool                   `json:"pass"`
	Renders []harness.RenderResult `json:"renders,omitempty"`
	Probes  int                    `json:"probes"`
	Errors  []string               `json:"errors,omitempty"`
}

// SceneSummary holds the outcome of every scene file.
type SceneSummary struct {
	Scenes []SceneReport `json:"scenes"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// NewSceneCommand creates the scene command.
func NewSceneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SceneOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scene <file.yaml|file.cue>...",
		Short: "Run the renders and probes in scene files",
		Long: `Run every render and probe in one or more scene files.

Relative output paths resolve against --out, or else the scene file's
directory. Probe mismatches and unexpected raster digests fail the scene.

With --golden each scene's result snapshot is compared with a .golden
file next to the scene; --update rewrites it.

Exit codes:
  0 - All scenes passed
  1 - One or more scenes failed
  2 - Command error (unreadable files, database errors, etc.)

Examples:
  noisegraph scene scenes/terrain.yaml
  noisegraph scene scenes/*.cue --out build --db catalog.db
  noisegraph scene scenes/terrain.yaml --golden --update`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenes(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record every render in this catalog database")
	cmd.Flags().StringVar(&opts.OutDir, "out", "", "directory for relative render outputs")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "render without writing output files")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "render workers (0 = config, then one per CPU)")
	cmd.Flags().BoolVar(&opts.Golden, "golden", false, "compare results with <scene>.golden")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files (implies --golden)")

	return cmd
}

func runScenes(opts *SceneOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	cfg, err := opts.Config()
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load config", err)
	}

	hopts := []harness.Option{harness.WithLogger(logger)}
	workers := cfg.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	hopts = append(hopts, harness.WithWorkers(workers))
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return formatter.Fail(ExitCommandError, "failed to create output directory", err)
		}
		hopts = append(hopts, harness.WithOutputDir(opts.OutDir))
	}
	if opts.DryRun {
		hopts = append(hopts, harness.DryRun())
	}

	database := cfg.Database
	if opts.Database != "" {
		database = opts.Database
	}
	if database != "" {
		st, err := store.Open(database)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		hopts = append(hopts, harness.WithStore(st))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	h := harness.New(hopts...)
	summary := SceneSummary{Scenes: make([]SceneReport, 0, len(files)), Total: len(files)}
	for _, file := range files {
		report := runSceneFile(ctx, h, opts, file)
		summary.Scenes = append(summary.Scenes, report)
		if report.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			break
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	} else {
		outputSceneText(formatter, summary)
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scene(s) failed", summary.Failed, summary.Total))
	}
	return nil
}

// runSceneFile loads and runs one scene. Failures are reported on the
// returned report rather than aborting the remaining scenes.
func runSceneFile(ctx context.Context, h *harness.Harness, opts *SceneOptions, file string) SceneReport {
	report := SceneReport{Name: filepath.Base(file), File: file}

	sc, err := scene.Load(file)
	if err != nil {
		report.Errors = []string{fmt.Sprintf("load failed: %v", err)}
		return report
	}
	report.Name = sc.Name

	result, err := h.Run(ctx, sc)
	if err != nil {
		report.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return report
	}
	report.Pass = result.Pass
	report.Renders = result.Renders
	report.Probes = len(result.Probes)
	report.Errors = result.Errors

	if opts.Golden || opts.Update {
		if err := checkSceneGolden(file, result, opts.Update); err != nil {
			report.Pass = false
			report.Errors = append(report.Errors, err.Error())
		}
	}
	return report
}

// goldenFilePath returns the snapshot path for a scene file.
func goldenFilePath(sceneFile string) string {
	return strings.TrimSuffix(sceneFile, filepath.Ext(sceneFile)) + ".golden"
}

func checkSceneGolden(sceneFile string, result *harness.Result, update bool) error {
	path := goldenFilePath(sceneFile)
	got := harness.Snapshot(result)
	if update {
		if err := os.WriteFile(path, got, 0o644); err != nil {
			return fmt.Errorf("failed to update golden file: %w", err)
		}
		return nil
	}
	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(want, got) {
		return fmt.Errorf("result differs from %s (run with --update to accept)", path)
	}
	return nil
}

func outputSceneText(formatter *OutputFormatter, summary SceneSummary) {
	w := formatter.Writer
	for _, s := range summary.Scenes {
		if s.Pass {
			fmt.Fprintf(w, "✓ %s (%d render(s), %d probe(s))\n", s.Name, len(s.Renders), s.Probes)
		} else {
			fmt.Fprintf(w, "✗ %s\n", s.Name)
		}
		for _, r := range s.Renders {
			line := fmt.Sprintf("    %s %dx%d %s %s", r.Name, r.Width, r.Height, r.Format, short(r.RasterDigest))
			if r.Output != "" {
				line += " -> " + r.Output
			}
			fmt.Fprintln(w, line)
		}
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", strings.TrimRight(e, "\n"))
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d passed, %d failed, %d total\n", summary.Passed, summary.Failed, summary.Total)
}
