package domain

import "context"

type Dumper interface {
	Dump(ctx context.Context, backupDir string) (DumpResult, error)
	GetName() string
}

type Restorer interface {
	Restore(ctx context.Context, sourceDir string, drop bool) (RestoreResult, error)
	GetName() string
}
