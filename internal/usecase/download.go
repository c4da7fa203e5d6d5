package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/semmidev/mongos3/internal/domain"
)

type Downloader struct {
	store  domain.ObjectStore
	prefix string
	logger Logger
}

type remoteFile struct {
	key   string
	local string
}

func NewDownloader(store domain.ObjectStore, prefix string, logger Logger) *Downloader {
	return &Downloader{store: store, prefix: prefix, logger: logger}
}

// Execute downloads every object of the backup into targetDir, keeping the
// layout relative to the backup folder and overwriting existing files.
// Nothing is written locally when the backup does not exist.
func (uc *Downloader) Execute(ctx context.Context, backupID, targetDir string) (domain.DownloadResult, error) {
	bucket := uc.store.Bucket()
	key := backupKey(uc.prefix, backupID)
	folder := key + keySeparator

	objects, err := uc.store.ListObjects(ctx, folder)
	if err != nil {
		return domain.DownloadResult{}, fmt.Errorf("failed to list backup objects: %w", err)
	}

	var files []remoteFile
	for _, obj := range objects {
		rel := strings.TrimPrefix(obj.Key, folder)
		if rel == "" || strings.HasSuffix(rel, keySeparator) {
			continue
		}
		local, err := localPathFor(targetDir, rel)
		if err != nil {
			return domain.DownloadResult{}, err
		}
		files = append(files, remoteFile{key: obj.Key, local: local})
	}

	if len(files) == 0 {
		return domain.DownloadResult{}, fmt.Errorf("%w at %s", domain.ErrBackupNotFound, s3URL(bucket, key))
	}

	uc.logger.Infof("Downloading %d file(s) from %s", len(files), s3URL(bucket, key))

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return domain.DownloadResult{}, fmt.Errorf("failed to create restore directory: %w", err)
	}

	result := domain.DownloadResult{
		LocalPath: targetDir,
		Bucket:    bucket,
		Key:       key,
	}

	for _, f := range files {
		written, err := uc.downloadFile(ctx, f)
		if err != nil {
			return domain.DownloadResult{}, err
		}
		if !written {
			continue
		}
		result.TotalFiles++
		uc.logger.Infof("Downloaded: %d/%d files", result.TotalFiles, len(files))
	}

	return result, nil
}

// downloadFile reports false when the object has no body to write.
func (uc *Downloader) downloadFile(ctx context.Context, f remoteFile) (bool, error) {
	body, err := uc.store.Open(ctx, f.key)
	if err != nil {
		return false, fmt.Errorf("failed to download %s: %w", f.key, err)
	}
	if body == nil {
		uc.logger.Warnf("Skipping %s: object has no content stream", f.key)
		return false, nil
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(f.local), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", f.local, err)
	}

	file, err := os.Create(f.local)
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", f.local, err)
	}

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		return false, fmt.Errorf("failed to write %s: %w", f.local, err)
	}
	if err := file.Close(); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", f.local, err)
	}

	return true, nil
}
