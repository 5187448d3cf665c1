package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redline/internal/core/gitio"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/stores"
	"github.com/colonyops/redline/internal/tui"
	"github.com/colonyops/redline/pkg/executil"
)

// ReviewCmd opens the interactive review TUI. It is also the root command's
// default action.
type ReviewCmd struct {
	flags *Flags

	// flags
	staged bool
	base   string
}

// NewReviewCmd creates a new review command
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Flags returns the review flags so the root command can register them for
// the default action.
func (cmd *ReviewCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "staged",
			Usage:       "review only staged changes",
			Destination: &cmd.staged,
		},
		&cli.StringFlag{
			Name:        "base",
			Usage:       "review changes against a base revision (three-dot diff)",
			Destination: &cmd.base,
		},
	}
}

// Register adds the review command to the application
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Review pending changes in the current repository",
		UsageText: "redline review [--staged | --base <rev>]",
		Description: `Opens an interactive diff viewer over the repository's pending changes.
Reviewed state and comments persist per working tree and survive restarts,
as long as HEAD has not moved.`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})

	return app
}

func (cmd *ReviewCmd) diffOptions() gitio.DiffOptions {
	switch {
	case cmd.base != "":
		return gitio.DiffOptions{Mode: gitio.DiffBranch, Base: cmd.base}
	case cmd.staged:
		return gitio.DiffOptions{Mode: gitio.DiffStaged}
	default:
		return gitio.DiffOptions{Mode: gitio.DiffUncommitted}
	}
}

func (cmd *ReviewCmd) Run(ctx context.Context, c *cli.Command) error {
	if cmd.staged && cmd.base != "" {
		return fmt.Errorf("--staged and --base are mutually exclusive")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	repo, err := gitio.Discover(cwd)
	if errors.Is(err, gitio.ErrNotARepository) {
		return fmt.Errorf("%s is not inside a git repository", cwd)
	}
	if err != nil {
		return err
	}

	cfg := cmd.flags.Config
	opts := cmd.diffOptions()
	provider := gitio.NewProvider(repo.Root, cfg.GitPath, &executil.RealExecutor{}, cfg.Exclude, opts)

	files, err := provider.Changes(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No %s to review\n", opts.Describe())
		return nil
	}

	store := stores.NewSessionStore(cfg.DataDir)
	session, ok, err := store.Load(repo.Root)
	if err != nil {
		return err
	}
	switch {
	case !ok:
		session = review.NewSession(repo.Head)
	case session.BaseRevision != repo.Head:
		// HEAD moved since the session was saved; line anchors are no
		// longer trustworthy, so start over.
		log.Info().
			Str("stored", session.BaseRevision).
			Str("head", repo.Head).
			Msg("discarding stale session")
		if err := store.Delete(repo.Root); err != nil {
			return err
		}
		session = review.NewSession(repo.Head)
	}

	log.Info().
		Str("root", repo.Root).
		Str("branch", repo.Branch).
		Int("files", len(files)).
		Str("diff", opts.Describe()).
		Msg("starting review")

	return tui.Run(tui.Options{
		Log:      log.Logger,
		Config:   cfg,
		Repo:     repo,
		Provider: provider,
		Store:    store,
		Session:  session,
		Files:    files,
	})
}
