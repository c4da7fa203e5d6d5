package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newDumpCmd(opts *globalOptions) *cobra.Command {
	var keepLocal bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the database and upload it to S3",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), opts, keepLocal)
		},
	}

	cmd.Flags().BoolVar(&keepLocal, "keep-local", false, "keep the local dump after uploading")
	return cmd
}

func runDump(ctx context.Context, opts *globalOptions, keepLocal bool) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return fail("Backup", err)
	}
	defer a.Shutdown()

	return fail("Backup", a.RunDump(ctx, keepLocal))
}
