package main

import (
	"github.com/spf13/cobra"
)

func newScheduleCmd(opts *globalOptions) *cobra.Command {
	var (
		spec      string
		keepLocal bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run backups on a cron schedule until interrupted",
		Example: `  # every day at 03:00:00
  mongos3 schedule --cron "0 0 3 * * *"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return fail("Schedule", err)
			}
			defer a.Shutdown()

			return fail("Schedule", a.RunSchedule(cmd.Context(), spec, keepLocal))
		},
	}

	cmd.Flags().StringVar(&spec, "cron", "", "cron spec with seconds, e.g. \"0 0 3 * * *\"")
	cmd.Flags().BoolVar(&keepLocal, "keep-local", false, "keep local dumps after uploading")
	_ = cmd.MarkFlagRequired("cron")
	return cmd
}
