package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	templating "github.com/goliatone/go-templating"
	"github.com/goliatone/go-templating/internal/varsfile"
	"github.com/goliatone/go-templating/pkg/engine"
	"github.com/goliatone/go-templating/pkg/loader/pongo"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// engineFlags are shared by the commands that build an engine.
type engineFlags struct {
	dir      string
	ext      string
	varsFile string
	maxDepth int
	verbose  bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "dir", "d", ".", "Template directory")
	cmd.Flags().StringVar(&f.ext, "ext", ".tpl", "Template file extension")
	cmd.Flags().StringVar(&f.varsFile, "vars", "", "Variables file (JSON, JSONC or YAML)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 64, "Maximum layout/partial depth, 0 disables the limit")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
}

func (f *engineFlags) logger() *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (f *engineFlags) vars() (map[string]any, error) {
	if f.varsFile == "" {
		return map[string]any{}, nil
	}
	return varsfile.Load(f.varsFile)
}

func (f *engineFlags) build(logger *slog.Logger, options ...engine.Option) (*engine.Engine, error) {
	options = append([]engine.Option{
		engine.WithLogger(logger),
		engine.WithMaxDepth(f.maxDepth),
	}, options...)
	return templating.NewWithLoader(
		[]pongo.Option{pongo.WithBaseDir(f.dir), pongo.WithExtension(f.ext)},
		options...,
	)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "tplrender",
		Short: "Render templates with sections, layouts and partials",
		Long: `tplrender renders pongo2 templates that can declare sections,
extend a parent layout and include partials.

Render a single template to stdout or a file, or serve a template
directory over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
