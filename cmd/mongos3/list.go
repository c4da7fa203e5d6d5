package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/semmidev/mongos3/internal/domain"
	"github.com/spf13/cobra"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups in S3, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return fail("List", err)
			}
			defer a.Shutdown()

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
			s.Suffix = " Listing backups..."
			s.Start()
			ids, err := a.RunList(cmd.Context())
			s.Stop()
			if err != nil {
				return fail("List", err)
			}

			renderBackups(os.Stdout, ids, time.Now())
			return nil
		},
	}
}

func renderBackups(w io.Writer, ids []string, now time.Time) {
	if len(ids) == 0 {
		fmt.Fprintln(w, "No backups found.")
		return
	}

	fmt.Fprintf(w, "Found %d backup(s):\n", len(ids))

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "Backup", "Created"})
	for i, id := range ids {
		created := "-"
		if t, err := domain.ParseBackupTime(id); err == nil {
			created = fmt.Sprintf("%s (%s)", t.Format("2006-01-02 15:04:05 UTC"), humanize.RelTime(t, now, "ago", "from now"))
		}
		tw.AppendRow(table.Row{i + 1, id, created})
	}
	fmt.Fprintln(w, tw.Render())
}
