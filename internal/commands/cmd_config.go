package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// ConfigCmd inspects and validates the effective configuration.
type ConfigCmd struct {
	flags *Flags
}

// NewConfigCmd creates a new config command
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Inspect the effective configuration",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Print the effective configuration as YAML",
				UsageText: "redline config show",
				Action:    cmd.runShow,
			},
			{
				Name:      "check",
				Usage:     "Validate the configuration, including file access and glob syntax",
				UsageText: "redline config check",
				Action:    cmd.runCheck,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runShow(ctx context.Context, c *cli.Command) error {
	out, err := yaml.Marshal(cmd.flags.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = fmt.Fprint(c.Root().Writer, string(out))
	return err
}

func (cmd *ConfigCmd) runCheck(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.Root().Writer, "Configuration OK")
	return err
}
