package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phanxgames/quill"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Version is the current version of the quill CLI.
const Version = "0.1.0"

// globalFlags holds flags shared by every subcommand.
type globalFlags struct {
	debug  bool
	shapes string
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var gf globalFlags
	cmd := &cobra.Command{
		Use:   "quill",
		Short: "quill - canvas interaction engine tools",
		Long: `quill drives the canvas interaction engine headlessly.

Use it to replay recorded input scripts against a shape document and to
inspect how the hit tester ranks shapes under a point.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if gf.debug {
				quill.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
					&slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&gf.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&gf.shapes, "shapes", "", "YAML shape document")

	cmd.AddCommand(NewReplayCommand(&gf))
	cmd.AddCommand(NewHitCommand(&gf))
	return cmd
}

// document is the YAML layout of a shape file.
type document struct {
	Shapes    []*quill.Shape       `yaml:"shapes"`
	Selection []string             `yaml:"selection,omitempty"`
	View      *quill.ViewTransform `yaml:"view,omitempty"`
}

// loadDocument reads a shape document. An empty path yields an empty one.
func loadDocument(path string) (*document, error) {
	if path == "" {
		return &document{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shapes: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse shapes: %w", err)
	}
	seen := make(map[string]bool, len(doc.Shapes))
	for i, s := range doc.Shapes {
		if s == nil || s.ID == "" {
			return nil, fmt.Errorf("failed to parse shapes: shape %d has no id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("failed to parse shapes: duplicate id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return &doc, nil
}

// newEditor builds an editor over doc using the environment configuration.
func newEditor(doc *document) (*quill.Editor, error) {
	cfg, err := quill.LoadConfig()
	if err != nil {
		return nil, err
	}
	store := quill.NewMemoryStore(doc.Shapes...)
	sel := quill.NewSelection()
	for _, id := range doc.Selection {
		if _, ok := store.NodeByID(id); ok {
			sel.AddToSelection(id)
		}
	}
	ed := quill.NewEditor(cfg, store, sel)
	if doc.View != nil {
		ed.Coords().SetTransform(*doc.View)
		ed.Reindex()
	}
	return ed, nil
}

// writeYAML encodes v to the command's output.
func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return enc.Close()
}
