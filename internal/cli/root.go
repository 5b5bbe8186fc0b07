// Package cli is the robobak command tree. Running the binary without a
// subcommand performs one backup, which is what the scheduled task does.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/semmidev/robobak/internal/app"
	"github.com/semmidev/robobak/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	debug      bool
	dryRun     bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "robobak",
		Short:         "Incremental robocopy backups of user directories and files",
		Long:          `Mirrors the directories and files listed in backup.json into <backup_directory>\<user>\<computer> with robocopy.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			return application.Run(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: backup.json next to the executable)")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "D", false, "log robocopy output")
	cmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "list what would be copied without copying")

	cmd.AddCommand(newInstallCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))

	return cmd
}

// loadConfig reads the configuration and applies flags the user set explicitly.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := o.configPath
	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = o.dryRun
	}

	return cfg, nil
}

func (o *rootOptions) newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	application, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize app: %w", err)
	}
	return application, nil
}

func defaultConfigPath() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable: %w", err)
	}
	return filepath.Join(filepath.Dir(executable), config.FileName), nil
}
