package cli

import (
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Stay running and back up on the configured cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			return application.Serve(cmd.Context())
		},
	}
}
