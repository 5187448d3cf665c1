package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/redline/internal/core/gitio"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/stores"
)

// ExportCmd renders the current repository's review as markdown without
// opening the TUI.
type ExportCmd struct {
	flags *Flags

	// flags
	out   string
	clip  bool
	plain bool
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export the saved review as markdown",
		UsageText: "redline export [--out <path> | --clipboard] [--plain]",
		Description: `Renders the saved review session for the current repository as a
numbered markdown report. Writes to stdout by default; when stdout is a
terminal the markdown is rendered unless --plain is given.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "write the report to a file",
				Destination: &cmd.out,
			},
			&cli.BoolFlag{
				Name:        "clipboard",
				Usage:       "copy the report to the system clipboard",
				Destination: &cmd.clip,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print raw markdown even on a terminal",
				Destination: &cmd.plain,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	repo, err := gitio.Discover(cwd)
	if err != nil {
		return err
	}

	store := stores.NewSessionStore(cmd.flags.Config.DataDir)
	session, ok, err := store.Load(repo.Root)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no saved review session for %s", repo.Root)
	}

	md, err := review.GenerateMarkdown(session)
	if errors.Is(err, review.ErrNoComments) {
		fmt.Fprintln(os.Stderr, "The saved session has no comments to export")
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case cmd.out != "":
		if err := os.WriteFile(cmd.out, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote report to %s\n", cmd.out)
		return nil

	case cmd.clip:
		if err := clipboard.WriteAll(md); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Copied report to clipboard")
		return nil

	default:
		if !cmd.plain && term.IsTerminal(int(os.Stdout.Fd())) {
			rendered, err := glamour.Render(md, "dark")
			if err == nil {
				fmt.Print(rendered)
				return nil
			}
			// Fall through to raw markdown if rendering fails.
		}
		fmt.Print(md)
		return nil
	}
}
