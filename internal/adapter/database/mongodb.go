package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/semmidev/mongos3/internal/config"
	"github.com/semmidev/mongos3/internal/domain"
	"github.com/semmidev/mongos3/internal/infrastructure/process"
)

type CommandRunner interface {
	Run(ctx context.Context, c process.Command) error
}

type MongoDBDatabase struct {
	uri         string
	database    string
	dumpPath    string
	restorePath string
	runner      CommandRunner
	now         func() time.Time
}

func NewMongoDB(cfg *config.Config, runner CommandRunner) *MongoDBDatabase {
	return &MongoDBDatabase{
		uri:         cfg.MongoDB.URI,
		database:    cfg.MongoDB.Database,
		dumpPath:    cfg.Tools.MongodumpPath,
		restorePath: cfg.Tools.MongorestorePath,
		runner:      runner,
		now:         time.Now,
	}
}

// Dump writes a gzip-compressed mongodump of the database into a new
// <backupDir>/<database>-<timestamp> directory.
func (m *MongoDBDatabase) Dump(ctx context.Context, backupDir string) (domain.DumpResult, error) {
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return domain.DumpResult{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	timestamp := domain.NewTimestamp(m.now())
	outputPath := filepath.Join(backupDir, domain.BackupID(m.database, timestamp))

	args := []string{
		"--uri", m.uri,
		"--db", m.database,
		"--out", outputPath,
		"--gzip",
	}

	err := m.runner.Run(ctx, process.Command{
		Name: "mongodump",
		Path: m.dumpPath,
		Args: args,
		Hint: "Please install MongoDB Database Tools or set MONGODUMP_PATH",
	})
	if err != nil {
		return domain.DumpResult{}, err
	}

	return domain.DumpResult{
		OutputPath:   outputPath,
		DatabaseName: m.database,
		Timestamp:    timestamp,
	}, nil
}

// Restore loads <sourceDir>/<database> with mongorestore. drop makes
// mongorestore drop each collection before restoring it.
func (m *MongoDBDatabase) Restore(ctx context.Context, sourceDir string, drop bool) (domain.RestoreResult, error) {
	args := []string{
		"--uri", m.uri,
		"--db", m.database,
		"--gzip",
		filepath.Join(sourceDir, m.database),
	}
	if drop {
		args = append(args, "--drop")
	}

	err := m.runner.Run(ctx, process.Command{
		Name: "mongorestore",
		Path: m.restorePath,
		Args: args,
		Hint: "Please install MongoDB Database Tools or set MONGORESTORE_PATH",
	})
	if err != nil {
		return domain.RestoreResult{}, err
	}

	return domain.RestoreResult{
		DatabaseName: m.database,
		SourcePath:   sourceDir,
	}, nil
}

func (m *MongoDBDatabase) GetName() string {
	return m.database
}
