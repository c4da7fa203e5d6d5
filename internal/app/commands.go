package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/semmidev/mongos3/internal/infrastructure/scheduler"
	"github.com/semmidev/mongos3/internal/usecase"
)

func (a *App) RunDump(ctx context.Context, keepLocal bool) error {
	a.printConfig("MongoDB Backup to S3")

	out, err := a.dump(ctx, keepLocal)
	if err != nil {
		a.notify(ctx, fmt.Sprintf("❌ Backup of %s failed: %v", a.config.MongoDB.Database, err))
		return err
	}

	location := s3Location(out.Upload.Bucket, out.Upload.Key)
	fmt.Fprintf(a.out, "\n✨ Backup completed successfully in %s\n", formatDuration(out.Duration))
	fmt.Fprintf(a.out, "   Files:    %d (%s)\n", out.Upload.TotalFiles, humanize.IBytes(uint64(out.Upload.TotalSize)))
	fmt.Fprintf(a.out, "   Location: %s\n", location)
	if out.KeptLocal {
		fmt.Fprintf(a.out, "   Local:    %s\n", out.LocalPath)
	}

	a.notify(ctx, fmt.Sprintf("✅ Backup of %s completed\n📁 %s\n📊 %d files, %s\n🕐 %s",
		out.Dump.DatabaseName, location, out.Upload.TotalFiles,
		humanize.IBytes(uint64(out.Upload.TotalSize)), formatDuration(out.Duration)))

	return nil
}

func (a *App) dump(ctx context.Context, keepLocal bool) (usecase.DumpOutput, error) {
	ws, err := a.workspace(backupsDir)
	if err != nil {
		return usecase.DumpOutput{}, err
	}

	uploader := usecase.NewUploader(a.store, a.config.S3.Prefix, a.logger)
	return usecase.NewDump(a.db, uploader, ws, a.logger).Execute(ctx, keepLocal)
}

func (a *App) RunRestore(ctx context.Context, opts usecase.RestoreOptions) error {
	a.printConfig("MongoDB Restore from S3")

	ws, err := a.workspace(restoresDir)
	if err != nil {
		return err
	}

	downloader := usecase.NewDownloader(a.store, a.config.S3.Prefix, a.logger)
	out, err := usecase.NewRestore(a.lister, downloader, a.db, ws, a.logger).Execute(ctx, opts)
	if err != nil {
		a.notify(ctx, fmt.Sprintf("❌ Restore of %s failed: %v", a.config.MongoDB.Database, err))
		return err
	}

	fmt.Fprintf(a.out, "\n✨ Restore completed successfully in %s\n", formatDuration(out.Duration))
	fmt.Fprintf(a.out, "   Backup:   %s\n", out.BackupID)
	fmt.Fprintf(a.out, "   Files:    %d\n", out.Download.TotalFiles)
	fmt.Fprintf(a.out, "   Database: %s\n", out.Restore.DatabaseName)
	if out.KeptLocal {
		fmt.Fprintf(a.out, "   Local:    %s\n", out.LocalPath)
	}

	a.notify(ctx, fmt.Sprintf("✅ Restore of %s completed from %s (%s)",
		out.Restore.DatabaseName, out.BackupID, formatDuration(out.Duration)))

	return nil
}

// RunList returns backup identifiers, newest first.
func (a *App) RunList(ctx context.Context) ([]string, error) {
	a.printConfig("MongoDB Backups in S3")
	return a.lister.Execute(ctx)
}

func (a *App) RunPrune(ctx context.Context, keep int, dryRun bool) error {
	a.printConfig("Prune MongoDB backups in S3")

	result, err := a.pruner.Execute(ctx, keep, dryRun)
	if len(result.Deleted) > 0 {
		verb := "Deleted"
		if dryRun {
			verb = "Would delete"
		}
		fmt.Fprintf(a.out, "\n%s %d backup(s), %d object(s):\n", verb, len(result.Deleted), result.Objects)
		for _, id := range result.Deleted {
			fmt.Fprintf(a.out, "   - %s\n", id)
		}
	} else if err == nil {
		fmt.Fprintf(a.out, "\nNothing to prune, %d backup(s) kept.\n", len(result.Kept))
	}

	return err
}

// RunSchedule runs a dump on every tick of spec until ctx is cancelled,
// pruning afterwards when a retention is configured.
func (a *App) RunSchedule(ctx context.Context, spec string, keepLocal bool) error {
	sched := scheduler.New(a.logger)

	err := sched.AddJob("backup", spec, func(ctx context.Context) error {
		if err := a.RunDump(ctx, keepLocal); err != nil {
			return err
		}
		if a.config.Backup.Retention > 0 {
			if _, err := a.pruner.Execute(ctx, a.config.Backup.Retention, false); err != nil {
				return fmt.Errorf("retention: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.logger.Infof("Scheduled backups of %s: %s", a.config.MongoDB.Database, spec)
	if a.config.Backup.Retention > 0 {
		a.logger.Infof("Keeping the %d newest backup(s)", a.config.Backup.Retention)
	}

	sched.Run(ctx)
	a.logger.Infof("Scheduler stopped")
	return nil
}

func (a *App) printConfig(title string) {
	cfg := a.config
	fmt.Fprintf(a.out, "📦 %s\n", title)
	fmt.Fprintf(a.out, "   Database: %s\n", cfg.MongoDB.Database)
	fmt.Fprintf(a.out, "   Bucket:   %s\n", cfg.S3.Bucket)
	fmt.Fprintf(a.out, "   Prefix:   %s\n", cfg.S3.Prefix)
	fmt.Fprintf(a.out, "   Region:   %s\n", cfg.AWS.Region)
	if cfg.AWS.Endpoint != "" {
		fmt.Fprintf(a.out, "   Endpoint: %s\n", cfg.AWS.Endpoint)
	}
	fmt.Fprintln(a.out)
}

func s3Location(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
