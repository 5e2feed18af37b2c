package main

import (
	"github.com/phanxgames/quill"
	"github.com/spf13/cobra"
)

// replayReport is the YAML printed after a replay.
type replayReport struct {
	Frames    int                 `yaml:"frames"`
	Tool      string              `yaml:"tool"`
	State     string              `yaml:"state"`
	View      quill.ViewTransform `yaml:"view"`
	Selection []string            `yaml:"selection"`
	Shapes    []*quill.Shape      `yaml:"shapes"`
	Stats     replayStats         `yaml:"stats"`
}

type replayStats struct {
	Events             int `yaml:"events"`
	Handled            int `yaml:"handled"`
	Faults             int `yaml:"faults"`
	Transitions        int `yaml:"transitions"`
	InvalidTransitions int `yaml:"invalidTransitions"`
	Renders            int `yaml:"renders"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(gf *globalFlags) *cobra.Command {
	var (
		keymap    string
		maxFrames int
	)
	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay an input script against a shape document",
		Long: `Replay an input script headlessly and print the resulting document.

The script is a YAML list of steps (press, move, release, click, drag,
wheel, key, tool, wait) executed one frame at a time.

Examples:
  quill replay --shapes doc.yaml script.yaml
  quill replay --shapes doc.yaml --keymap keys.yaml script.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(gf.shapes)
			if err != nil {
				return err
			}
			runner, err := quill.LoadScript(args[0])
			if err != nil {
				return err
			}
			ed, err := newEditor(doc)
			if err != nil {
				return err
			}
			if keymap != "" {
				km, err := quill.LoadKeymap(keymap)
				if err != nil {
					return err
				}
				ed.SetKeymap(km)
			}

			frames, err := quill.RunScript(ed, runner, 1.0/60, maxFrames)
			if err != nil {
				return err
			}
			st := ed.Stats()
			return writeYAML(cmd, replayReport{
				Frames:    frames,
				Tool:      ed.Tool().String(),
				State:     ed.State().String(),
				View:      ed.Coords().Transform(),
				Selection: ed.Selection().SelectedIDs(),
				Shapes:    ed.Store().AllNodes(),
				Stats: replayStats{
					Events:             st.Events,
					Handled:            st.Handled,
					Faults:             st.Faults,
					Transitions:        st.Transitions,
					InvalidTransitions: st.InvalidTransitions,
					Renders:            st.Renders,
				},
			})
		},
	}
	cmd.Flags().StringVar(&keymap, "keymap", "", "YAML keymap overriding the default bindings")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 10000, "Fail if the script runs longer than this")
	return cmd
}
