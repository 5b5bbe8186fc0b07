package cli

import (
	"github.com/semmidev/robobak/internal/app"
	"github.com/spf13/cobra"
)

func newInstallCmd(root *rootOptions) *cobra.Command {
	var opts app.InstallOptions

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register robobak with the Windows Task Scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			return application.Install(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "replace an existing task with the same name")
	// --dry-run is taken by the backup itself.
	cmd.Flags().BoolVar(&opts.DryRun, "render-only", false, "write the task definition without registering it")

	return cmd
}
