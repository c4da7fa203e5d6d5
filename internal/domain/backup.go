package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNoBackups      = errors.New("no backups found")
	ErrBackupNotFound = errors.New("no backup found")
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

var timestampReplacer = strings.NewReplacer(":", "-", ".", "-")

// NewTimestamp renders t as a fixed-width, zero-padded UTC label that is safe in
// keys and file names, e.g. 2024-02-01T09-05-03-007Z. Lexicographic order of
// labels equals chronological order.
func NewTimestamp(t time.Time) string {
	return timestampReplacer.Replace(t.UTC().Format(timestampLayout))
}

func BackupID(database, timestamp string) string {
	return database + "-" + timestamp
}

var backupTimePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})T(\d{2})-(\d{2})-(\d{2})-(\d{3})Z$`)

// ParseBackupTime extracts the creation time from the timestamp suffix of a backup identifier.
func ParseBackupTime(backupID string) (time.Time, error) {
	m := backupTimePattern.FindStringSubmatch(backupID)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid backup identifier %q: no timestamp found", backupID)
	}
	return time.Parse(timestampLayout, fmt.Sprintf("%sT%s:%s:%s.%sZ", m[1], m[2], m[3], m[4], m[5]))
}

type DumpResult struct {
	OutputPath   string
	DatabaseName string
	Timestamp    string
}

func (d DumpResult) BackupID() string {
	return BackupID(d.DatabaseName, d.Timestamp)
}

type UploadResult struct {
	Bucket     string
	Key        string
	TotalFiles int
	TotalSize  int64
}

type DownloadResult struct {
	LocalPath  string
	TotalFiles int
	Bucket     string
	Key        string
}

type RestoreResult struct {
	DatabaseName string
	SourcePath   string
}
