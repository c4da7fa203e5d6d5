package main

import (
	"github.com/semmidev/mongos3/internal/usecase"
	"github.com/spf13/cobra"
)

func newRestoreCmd(opts *globalOptions) *cobra.Command {
	var restoreOpts usecase.RestoreOptions

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Download a backup from S3 and load it with mongorestore",
		Long: "Download a backup from S3 and load it with mongorestore.\n" +
			"Without --backup the most recent backup is restored.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return fail("Restore", err)
			}
			defer a.Shutdown()

			return fail("Restore", a.RunRestore(cmd.Context(), restoreOpts))
		},
	}

	cmd.Flags().StringVar(&restoreOpts.BackupID, "backup", "", "backup to restore, e.g. mydb-2024-01-01T00-00-00-000Z")
	cmd.Flags().BoolVar(&restoreOpts.Drop, "drop", false, "drop each collection before restoring it")
	cmd.Flags().BoolVar(&restoreOpts.KeepLocal, "keep-local", false, "keep the downloaded files after restoring")
	return cmd
}
