package main

import (
	"fmt"

	"github.com/phanxgames/quill"
	"github.com/spf13/cobra"
)

type rankedHit struct {
	ID       string  `yaml:"id"`
	Priority float64 `yaml:"priority"`
	Distance float64 `yaml:"distance"`
	Area     float64 `yaml:"area"`
}

type hitReport struct {
	Best    string      `yaml:"best,omitempty"`
	Ranked  []rankedHit `yaml:"ranked,omitempty"`
	Mode    string      `yaml:"mode,omitempty"`
	Matches []string    `yaml:"matches,omitempty"`
}

// NewHitCommand creates the hit command.
func NewHitCommand(gf *globalFlags) *cobra.Command {
	var (
		x, y, w, h float64
		mode       string
	)
	cmd := &cobra.Command{
		Use:   "hit",
		Short: "Show which shapes a world point or rectangle hits",
		Long: `Run a hit query in world coordinates against a shape document.

Without --w/--h the point (x, y) is ranked and the best shape is printed.
With a width and height the rectangle is matched using --mode
(intersects, contains or center).

Examples:
  quill hit --shapes doc.yaml --x 120 --y 80
  quill hit --shapes doc.yaml --x 0 --y 0 --w 300 --h 200 --mode contains`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(gf.shapes)
			if err != nil {
				return err
			}
			ed, err := newEditor(doc)
			if err != nil {
				return err
			}
			all := ed.Store().AllNodes()

			if w > 0 || h > 0 {
				m, err := quill.ParseHitMode(mode)
				if err != nil {
					return fmt.Errorf("invalid --mode: %w", err)
				}
				r := quill.Rect{X: x, Y: y, Width: w, Height: h}
				return writeYAML(cmd, hitReport{
					Mode:    m.String(),
					Matches: ed.Hits().FindInRectangle(r, all, m),
				})
			}

			p := quill.Vec2{X: x, Y: y}
			var rep hitReport
			if id, ok := ed.Hits().FindBestAtPoint(p, all); ok {
				rep.Best = id
			}
			for _, np := range ed.Hits().Rank(p, all) {
				rep.Ranked = append(rep.Ranked, rankedHit{
					ID: np.ShapeID, Priority: np.Priority, Distance: np.Distance, Area: np.Area,
				})
			}
			return writeYAML(cmd, rep)
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "World X")
	cmd.Flags().Float64Var(&y, "y", 0, "World Y")
	cmd.Flags().Float64Var(&w, "w", 0, "Rectangle width (enables rectangle query)")
	cmd.Flags().Float64Var(&h, "h", 0, "Rectangle height (enables rectangle query)")
	cmd.Flags().StringVar(&mode, "mode", "intersects", "Rectangle match mode")
	return cmd
}
