package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	tikzio "github.com/okrause/tikzcanvas/pkg/io"
	"github.com/okrause/tikzcanvas/pkg/tikz"
)

// newConvertCmd creates the convert command: JSON graph in, canonical TikZ
// document out.
func newConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert [graph.json]",
		Short: "Generate a TikZ document from a JSON graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := tikzio.ImportJSON(args[0])
			if err != nil {
				return err
			}

			doc := tikz.Generate(g)
			if output == "" {
				cmd.Print(doc)
				return nil
			}
			if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
				return apperr.Wrap(apperr.CodeInternal, err, "writing %s", output)
			}
			printSuccess("generated %d nodes", g.Len())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
