package commands

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/core/gitio"
	"github.com/colonyops/redline/internal/stores"
	"github.com/colonyops/redline/pkg/iojson"
)

// SessionsCmd lists and removes stored review sessions.
type SessionsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewSessionsCmd creates a new sessions command
func NewSessionsCmd(flags *Flags) *SessionsCmd {
	return &SessionsCmd{flags: flags}
}

// Register adds the sessions command to the application
func (cmd *SessionsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "sessions",
		Usage:     "List saved review sessions",
		UsageText: "redline sessions [--json]",
		Description: `Displays a table of saved sessions across all repositories: the
working tree, base revision, file and comment counts, and when each was
last saved.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:      "rm",
				Usage:     "Remove the saved session for the current repository",
				UsageText: "redline sessions rm",
				Action:    cmd.runRm,
			},
		},
	})

	return app
}

func (cmd *SessionsCmd) run(ctx context.Context, c *cli.Command) error {
	store := stores.NewSessionStore(cmd.flags.Config.DataDir)
	infos, err := store.List()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.Write(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(os.Stderr, "No saved sessions")
		return nil
	}

	slices.SortFunc(infos, func(a, b stores.SessionInfo) int {
		return strings.Compare(a.RepoRoot, b.RepoRoot)
	})

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "REPO\tBASE\tFILES\tREVIEWED\tCOMMENTS\tSAVED")
	for _, info := range infos {
		base := info.BaseRevision
		if len(base) > 7 {
			base = base[:7]
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			info.RepoRoot, base, info.Files, info.Reviewed, info.Comments,
			info.SavedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func (cmd *SessionsCmd) runRm(ctx context.Context, c *cli.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	repo, err := gitio.Discover(cwd)
	if err != nil {
		return err
	}

	store := stores.NewSessionStore(cmd.flags.Config.DataDir)
	if _, ok, err := store.Load(repo.Root); err != nil {
		return err
	} else if !ok {
		fmt.Fprintf(os.Stderr, "No saved session for %s\n", repo.Root)
		return nil
	}

	if err := store.Delete(repo.Root); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Removed session for %s\n", repo.Root)
	return nil
}
