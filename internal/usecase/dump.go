package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/semmidev/mongos3/internal/domain"
)

type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// Workspace is a local working directory such as <cwd>/backups.
type Workspace interface {
	BasePath() string
	GetPath(name string) string
	Remove(name string) error
}

type Dump struct {
	dumper    domain.Dumper
	uploader  *Uploader
	workspace Workspace
	logger    Logger
}

type DumpOutput struct {
	Dump      domain.DumpResult
	Upload    domain.UploadResult
	LocalPath string
	KeptLocal bool
	Duration  time.Duration
}

func NewDump(dumper domain.Dumper, uploader *Uploader, workspace Workspace, logger Logger) *Dump {
	return &Dump{
		dumper:    dumper,
		uploader:  uploader,
		workspace: workspace,
		logger:    logger,
	}
}

// Execute dumps the database into the workspace, uploads the result and,
// unless keepLocal is set, removes the local copy. On failure local files
// are left in place for inspection.
func (uc *Dump) Execute(ctx context.Context, keepLocal bool) (DumpOutput, error) {
	start := time.Now()
	dbName := uc.dumper.GetName()

	uc.logger.Infof("[%s] Starting mongodump...", dbName)
	dump, err := uc.dumper.Dump(ctx, uc.workspace.BasePath())
	if err != nil {
		return DumpOutput{}, fmt.Errorf("dump: %w", err)
	}
	uc.logger.Infof("[%s] Dump written to %s", dbName, dump.OutputPath)

	upload, err := uc.uploader.Execute(ctx, dump)
	if err != nil {
		return DumpOutput{}, fmt.Errorf("upload: %w", err)
	}

	out := DumpOutput{
		Dump:      dump,
		Upload:    upload,
		LocalPath: dump.OutputPath,
		KeptLocal: keepLocal,
	}

	if keepLocal {
		uc.logger.Infof("[%s] Local backup kept at %s", dbName, dump.OutputPath)
	} else {
		if err := uc.workspace.Remove(filepath.Base(dump.OutputPath)); err != nil {
			return DumpOutput{}, fmt.Errorf("cleanup: %w", err)
		}
		uc.logger.Infof("[%s] Removed local dump %s", dbName, dump.OutputPath)
	}

	out.Duration = time.Since(start)
	uc.logger.Infof("[%s] Backup completed in %s: %d file(s), %s",
		dbName, out.Duration.Round(time.Millisecond), upload.TotalFiles, humanize.IBytes(uint64(upload.TotalSize)))

	return out, nil
}
