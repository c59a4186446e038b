package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/noisegraph/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Scene    string // optional - only renders from this scene
	Graph    string // optional - only renders of this graph digest
	Pixel    string // optional - only renders in this pixel format
}

// HistoryEntry is one catalog row as reported by the CLI.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Seq          int64     `json:"seq"`
	Scene        string    `json:"scene,omitempty"`
	Name         string    `json:"name,omitempty"`
	Expr         string    `json:"expr"`
	Size         string    `json:"size"`
	Mode         string    `json:"mode"`
	GraphDigest  string    `json:"graph_digest"`
	RasterDigest string    `json:"raster_digest"`
	Output       string    `json:"output,omitempty"`
	ElapsedMS    int64     `json:"elapsed_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded renders",
		Long: `List renders recorded in a catalog database, newest first.

Examples:
  noisegraph history --db catalog.db
  noisegraph history --db catalog.db --limit 5 --format json
  noisegraph history --db catalog.db --scene terrain`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to catalog database (default from config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of renders to list")
	cmd.Flags().StringVar(&opts.Scene, "scene", "", "only list renders from this scene")
	cmd.Flags().StringVar(&opts.Graph, "graph", "", "only list renders of this graph digest")
	cmd.Flags().StringVar(&opts.Pixel, "pixel-format", "", "only list renders in this pixel format")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database := opts.Database
	if database == "" {
		cfg, err := opts.Config()
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to load config", err)
		}
		database = cfg.Database
	}
	if database == "" {
		return formatter.Fail(ExitCommandError, "no database", fmt.Errorf("pass --db or set database in the config"))
	}
	if opts.Limit <= 0 {
		return formatter.Fail(ExitCommandError, "invalid --limit", fmt.Errorf("must be positive, got %d", opts.Limit))
	}

	st, err := store.Open(database)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	renders, err := st.FindRenders(ctx, store.Filter{
		Scene:       opts.Scene,
		GraphDigest: opts.Graph,
		Format:      opts.Pixel,
		Newest:      true,
		Limit:       opts.Limit,
	})
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to query renders", err)
	}

	entries := make([]HistoryEntry, 0, len(renders))
	for _, r := range renders {
		entries = append(entries, HistoryEntry{
			ID:           r.ID,
			Seq:          r.Seq,
			Scene:        r.Scene,
			Name:         r.Name,
			Expr:         r.Expr,
			Size:         fmt.Sprintf("%dx%d %s", r.Width, r.Height, r.Format),
			Mode:         r.Mode,
			GraphDigest:  r.GraphDigest,
			RasterDigest: r.RasterDigest,
			Output:       r.Output,
			ElapsedMS:    r.Elapsed.Milliseconds(),
			CreatedAt:    r.CreatedAt,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No renders recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tSIZE\tMODE\tRASTER\tSOURCE\tOUTPUT")
	for _, e := range entries {
		source := e.Expr
		if e.Scene != "" {
			source = e.Scene + "/" + e.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", e.Seq, e.Size, e.Mode, short(e.RasterDigest), source, e.Output)
	}
	return tw.Flush()
}
