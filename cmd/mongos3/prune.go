package main

import (
	"github.com/spf13/cobra"
)

func newPruneCmd(opts *globalOptions) *cobra.Command {
	var (
		keep   int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest backups from S3",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return fail("Prune", err)
			}
			defer a.Shutdown()

			if !cmd.Flags().Changed("keep") {
				keep = a.Retention()
			}
			return fail("Prune", a.RunPrune(cmd.Context(), keep, dryRun))
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "number of newest backups to keep (defaults to BACKUP_RETENTION)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without deleting")
	return cmd
}
