package cli

import (
	"context"
	"errors"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/buildinfo"
)

// Execute runs the tikzcanvas CLI and returns an error if any command
// fails. This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:           "tikzcanvas",
		Short:         "tikzcanvas edits TikZ diagrams as text and canvas at once",
		Long:          `tikzcanvas is a diagram editor core for a TikZ subset: it parses node/connection documents, projects them onto a pixel canvas, and writes drag operations surgically back into the source text.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newParseCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newServeCmd())

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		printError("%s", apperr.UserMessage(err))
	}
	return err
}
