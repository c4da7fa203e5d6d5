package usecase

import (
	"fmt"
	"path/filepath"
	"strings"
)

const keySeparator = "/"

// backupKey returns the key prefix of a backup folder, without a trailing separator.
func backupKey(prefix, backupID string) string {
	if prefix == "" {
		return backupID
	}
	return prefix + keySeparator + backupID
}

// folderPrefix returns prefix with a trailing separator, so listings under it
// never match siblings that merely share the same leading characters.
func folderPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return strings.TrimSuffix(prefix, keySeparator) + keySeparator
}

func s3URL(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}

// localPathFor maps an object key relative to a backup folder onto a path
// under dir, rejecting keys that would land outside it.
func localPathFor(dir, rel string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(rel))
	within, err := filepath.Rel(dir, target)
	if err != nil {
		return "", fmt.Errorf("invalid object path %q: %w", rel, err)
	}
	if within == "." || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("object path %q escapes %s", rel, dir)
	}
	return target, nil
}
