package main

import (
	"context"
	"fmt"
	"os"

	"github.com/semmidev/mongos3/internal/app"
	"github.com/semmidev/mongos3/internal/config"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	configFile string
	bucket     string
	prefix     string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var keepLocal bool

	cmd := &cobra.Command{
		Use:   "mongos3",
		Short: "mongos3 - back up MongoDB to S3 and restore it",
		Long: "mongos3 runs mongodump, uploads the dump to an S3 bucket and can list and restore\n" +
			"those backups with mongorestore. Without a subcommand it runs a backup.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), opts, keepLocal)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.bucket, "bucket", "", "S3 bucket name (overrides S3_BUCKET)")
	cmd.PersistentFlags().StringVar(&opts.prefix, "prefix", "", "S3 key prefix (overrides S3_PREFIX)")
	cmd.Flags().BoolVar(&keepLocal, "keep-local", false, "keep the local dump after uploading")

	cmd.AddCommand(newDumpCmd(opts))
	cmd.AddCommand(newRestoreCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newPruneCmd(opts))
	cmd.AddCommand(newScheduleCmd(opts))

	return cmd
}

func loadConfig(opts *globalOptions) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		File:   opts.configFile,
		Lookup: os.LookupEnv,
		Overrides: config.Overrides{
			Bucket: opts.bucket,
			Prefix: opts.prefix,
		},
	})
}

func newApp(ctx context.Context, opts *globalOptions) (*app.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg, app.Options{Out: os.Stdout})
	if err != nil {
		return nil, fmt.Errorf("initialize app: %w", err)
	}
	return a, nil
}
