package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/semmidev/mongos3/internal/domain"
)

const backupContentType = "application/gzip"

type Uploader struct {
	store  domain.ObjectStore
	prefix string
	logger Logger
}

type localFile struct {
	path string
	// rel is slash-separated and relative to the dump directory.
	rel  string
	size int64
}

func NewUploader(store domain.ObjectStore, prefix string, logger Logger) *Uploader {
	return &Uploader{store: store, prefix: prefix, logger: logger}
}

// Execute uploads every regular file under the dump directory to
// <prefix>/<database>-<timestamp>/<relative path>, one file at a time.
// The first failure aborts the upload.
func (uc *Uploader) Execute(ctx context.Context, dump domain.DumpResult) (domain.UploadResult, error) {
	files, err := collectFiles(dump.OutputPath)
	if err != nil {
		return domain.UploadResult{}, err
	}

	key := backupKey(uc.prefix, dump.BackupID())
	uc.logger.Infof("Uploading %d file(s) to %s", len(files), s3URL(uc.store.Bucket(), key))

	result := domain.UploadResult{
		Bucket: uc.store.Bucket(),
		Key:    key,
	}

	for _, f := range files {
		if err := uc.uploadFile(ctx, dump, key, f); err != nil {
			return domain.UploadResult{}, err
		}
		result.TotalFiles++
		result.TotalSize += f.size
	}

	uc.logger.Infof("Uploaded %d file(s), %s", result.TotalFiles, humanize.IBytes(uint64(result.TotalSize)))
	return result, nil
}

func (uc *Uploader) uploadFile(ctx context.Context, dump domain.DumpResult, key string, f localFile) error {
	uc.logger.Infof("Uploading %s (%s)", f.rel, humanize.IBytes(uint64(f.size)))

	err := uc.store.Upload(ctx, domain.UploadInput{
		LocalPath:   f.path,
		Key:         key + keySeparator + f.rel,
		ContentType: backupContentType,
		Metadata: map[string]string{
			"database":      dump.DatabaseName,
			"timestamp":     dump.Timestamp,
			"original-path": f.rel,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", f.rel, err)
	}
	return nil
}

// collectFiles walks root and returns its regular files in lexical order.
func collectFiles(root string) ([]localFile, error) {
	var files []localFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, localFile{
			path: path,
			rel:  filepath.ToSlash(rel),
			size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read dump directory: %w", err)
	}

	return files, nil
}
