package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"github.com/semmidev/robobak/internal/usecase"
	"github.com/spf13/cobra"
)

func newStatusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show resolved backup targets and what the backup tree holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			report, err := application.Status(cmd.Context())
			if err != nil {
				return err
			}

			printStatus(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func printStatus(w io.Writer, report *usecase.StatusReport) {
	fmt.Fprintf(w, "Backup directory: %s\n\n", report.Root)

	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true
	table.AddRow("KIND", "SOURCE", "DESTINATION", "LAST COPY")

	for _, ts := range report.Targets {
		table.AddRow(ts.Target.Kind, ts.Target.Object(), ts.Target.Destination, lastCopy(ts))
	}
	fmt.Fprintln(w, table)

	if len(report.Entries) == 0 {
		fmt.Fprintln(w, "\nThe backup directory is empty.")
		return
	}

	fmt.Fprintln(w)
	entries := uitable.New()
	entries.AddRow("ENTRY", "MODIFIED")
	for _, e := range report.Entries {
		entries.AddRow(e.Path, humanize.Time(e.ModTime))
	}
	fmt.Fprintln(w, entries)
}

func lastCopy(ts usecase.TargetStatus) string {
	switch {
	case ts.Err != nil:
		return "error: " + ts.Err.Error()
	case !ts.Mirror.Exists:
		return "never"
	default:
		return humanize.Time(ts.Mirror.ModTime)
	}
}
