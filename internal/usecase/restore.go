package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/semmidev/mongos3/internal/domain"
)

// maxCandidates is how many backups are shown when picking the newest one.
const maxCandidates = 10

type Restore struct {
	lister     *Lister
	downloader *Downloader
	restorer   domain.Restorer
	workspace  Workspace
	logger     Logger
}

type RestoreOptions struct {
	// BackupID selects the backup; empty means the most recent one.
	BackupID  string
	Drop      bool
	KeepLocal bool
}

type RestoreOutput struct {
	BackupID  string
	Download  domain.DownloadResult
	Restore   domain.RestoreResult
	LocalPath string
	KeptLocal bool
	Duration  time.Duration
}

func NewRestore(lister *Lister, downloader *Downloader, restorer domain.Restorer, workspace Workspace, logger Logger) *Restore {
	return &Restore{
		lister:     lister,
		downloader: downloader,
		restorer:   restorer,
		workspace:  workspace,
		logger:     logger,
	}
}

func (uc *Restore) Execute(ctx context.Context, opts RestoreOptions) (RestoreOutput, error) {
	start := time.Now()

	backupID := opts.BackupID
	if backupID == "" {
		latest, err := uc.latestBackup(ctx)
		if err != nil {
			return RestoreOutput{}, err
		}
		backupID = latest
	}
	if backupID == "." || backupID == ".." || strings.ContainsAny(backupID, `/\`) {
		return RestoreOutput{}, fmt.Errorf("invalid backup identifier %q", backupID)
	}

	download, err := uc.downloader.Execute(ctx, backupID, uc.workspace.GetPath(backupID))
	if err != nil {
		return RestoreOutput{}, fmt.Errorf("download: %w", err)
	}

	if opts.Drop {
		uc.logger.Warnf("⚠️  --drop is set: existing collections in %s will be dropped before restore", uc.restorer.GetName())
	}

	uc.logger.Infof("[%s] Starting mongorestore from %s...", uc.restorer.GetName(), download.LocalPath)
	restored, err := uc.restorer.Restore(ctx, download.LocalPath, opts.Drop)
	if err != nil {
		return RestoreOutput{}, fmt.Errorf("restore: %w", err)
	}

	out := RestoreOutput{
		BackupID:  backupID,
		Download:  download,
		Restore:   restored,
		LocalPath: download.LocalPath,
		KeptLocal: opts.KeepLocal,
	}

	if opts.KeepLocal {
		uc.logger.Infof("Downloaded backup kept at %s", download.LocalPath)
	} else {
		if err := uc.workspace.Remove(backupID); err != nil {
			return RestoreOutput{}, fmt.Errorf("cleanup: %w", err)
		}
		uc.logger.Infof("Removed downloaded backup %s", download.LocalPath)
	}

	out.Duration = time.Since(start)
	return out, nil
}

func (uc *Restore) latestBackup(ctx context.Context) (string, error) {
	ids, err := uc.lister.Execute(ctx)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("%w in %s", domain.ErrNoBackups, s3URL(uc.lister.store.Bucket(), uc.lister.prefix))
	}

	uc.logger.Infof("Found %d backup(s):", len(ids))
	for i, id := range ids {
		if i == maxCandidates {
			uc.logger.Infof("  ... and %d more", len(ids)-maxCandidates)
			break
		}
		uc.logger.Infof("  %d. %s", i+1, id)
	}
	uc.logger.Infof("Using most recent backup: %s", ids[0])

	return ids[0], nil
}
