package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/noisegraph/internal/compiler"
	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/session"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Dump  bool     // print the node listing
	Binds []string // name=expr, defined before the roots
}

// CompiledExpr describes one compiled expression.
type CompiledExpr struct {
	Name  string   `json:"name,omitempty"`
	Expr  string   `json:"expr"`
	Root  ir.Index `json:"root"`
	Kind  string   `json:"kind"`
	Graph string   `json:"graph_digest"`
}

// CompilationResult holds every compiled binding and root.
type CompilationResult struct {
	Bindings []CompiledExpr `json:"bindings,omitempty"`
	Roots    []CompiledExpr `json:"roots"`
	Nodes    int            `json:"nodes"`
	Dump     []string       `json:"dump,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <expr>...",
		Short: "Compile expressions into a noise graph",
		Long: `Compile one or more expressions into a single kernel and print the
root node of each.

Bindings given with --bind are compiled first, in order, and may be used
by name in later bindings and in the expressions.

Examples:
  noisegraph compile "sin(x * 2) + y"
  noisegraph compile --bind base="fbm(gradient, quintic, 4, 2, 7)" "base * 0.5" --dump
  noisegraph compile "color(1, 0, 0.5, 1)" --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "print the node listing")
	cmd.Flags().StringArrayVar(&opts.Binds, "bind", nil, "define name=expr before compiling (repeatable)")

	return cmd
}

func runCompile(opts *CompileOptions, exprs []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	sess := session.New(session.WithLogger(logger))
	defer sess.Close()

	result := &CompilationResult{}

	bindings, err := defineBindings(sess, opts.Binds)
	if err != nil {
		return formatter.Fail(ExitFailure, "compile failed", err)
	}
	result.Bindings = bindings

	for _, expr := range exprs {
		formatter.VerboseLog("Compiling: %s", expr)
		c, err := compileExpr(sess, "", expr)
		if err != nil {
			return formatter.Fail(ExitFailure, "compile failed", err)
		}
		result.Roots = append(result.Roots, c)
	}

	result.Nodes = sess.Kernel().Len()
	if opts.Dump {
		var buf bytes.Buffer
		if err := sess.Kernel().Dump(&buf); err != nil {
			return formatter.Fail(ExitCommandError, "dump failed", err)
		}
		result.Dump = strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	}

	return outputCompileSuccess(formatter, result)
}

// defineBindings compiles name=expr flags in order.
func defineBindings(sess *session.Session, binds []string) ([]CompiledExpr, error) {
	var out []CompiledExpr
	for _, b := range binds {
		name, expr, err := parseBinding(b)
		if err != nil {
			return nil, err
		}
		c, err := compileExpr(sess, name, expr)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", name, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// compileExpr compiles expr, binding it to name when name is non-empty.
func compileExpr(sess *session.Session, name, expr string) (CompiledExpr, error) {
	var (
		idx ir.Index
		err error
	)
	if name != "" {
		idx, err = sess.Define(name, expr)
	} else {
		idx, err = sess.Compile(expr)
	}
	if err != nil {
		return CompiledExpr{}, compiler.WrapErrorWithSource(err, expr)
	}
	kind, err := sess.Executor().Kind(idx)
	if err != nil {
		return CompiledExpr{}, err
	}
	digest, err := sess.Digest(idx)
	if err != nil {
		return CompiledExpr{}, err
	}
	return CompiledExpr{Name: name, Expr: expr, Root: idx, Kind: kind.String(), Graph: digest}, nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d expression(s) into %d node(s)\n\n",
		len(result.Bindings)+len(result.Roots), result.Nodes)

	if len(result.Bindings) > 0 {
		fmt.Fprintln(w, "Bindings:")
		for _, b := range result.Bindings {
			fmt.Fprintf(w, "  %s = $%d (%s) %s\n", b.Name, b.Root, b.Kind, short(b.Graph))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Roots:")
	for _, r := range result.Roots {
		fmt.Fprintf(w, "  $%d (%s) %s  %s\n", r.Root, r.Kind, short(r.Graph), r.Expr)
	}

	if len(result.Dump) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Nodes:")
		for _, line := range result.Dump {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}

// short abbreviates a digest for text output.
func short(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
