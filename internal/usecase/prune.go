package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/semmidev/mongos3/internal/domain"
)

var ErrInvalidRetention = errors.New("retention must keep at least one backup")

type Prune struct {
	lister *Lister
	store  domain.ObjectStore
	prefix string
	logger Logger
}

type PruneResult struct {
	Kept    []string
	Deleted []string
	Objects int
	DryRun  bool
}

func NewPrune(lister *Lister, store domain.ObjectStore, prefix string, logger Logger) *Prune {
	return &Prune{
		lister: lister,
		store:  store,
		prefix: prefix,
		logger: logger,
	}
}

// Execute keeps the newest keep backups and deletes every object of the
// older ones. A failed backup does not stop the others; all failures are
// returned together.
func (uc *Prune) Execute(ctx context.Context, keep int, dryRun bool) (PruneResult, error) {
	if keep < 1 {
		return PruneResult{}, fmt.Errorf("%w, got %d", ErrInvalidRetention, keep)
	}

	uc.logger.Infof("Starting prune, keeping %d newest backup(s)", keep)

	ids, err := uc.lister.Execute(ctx)
	if err != nil {
		return PruneResult{}, err
	}

	result := PruneResult{DryRun: dryRun}
	if len(ids) <= keep {
		result.Kept = ids
		uc.logger.Infof("Nothing to prune: %d backup(s) found", len(ids))
		return result, nil
	}
	result.Kept = ids[:keep]

	var errs []error
	for _, id := range ids[keep:] {
		count, err := uc.pruneBackup(ctx, id, dryRun)
		if err != nil {
			uc.logger.Errorf("Failed to delete backup %s: %v", id, err)
			errs = append(errs, err)
			continue
		}
		result.Deleted = append(result.Deleted, id)
		result.Objects += count
	}

	if dryRun {
		uc.logger.Infof("Dry run: %d backup(s) would be deleted", len(result.Deleted))
	} else {
		uc.logger.Infof("Deleted %d old backup(s), %d object(s)", len(result.Deleted), result.Objects)
	}

	return result, errors.Join(errs...)
}

func (uc *Prune) pruneBackup(ctx context.Context, backupID string, dryRun bool) (int, error) {
	objects, err := uc.store.ListObjects(ctx, backupKey(uc.prefix, backupID)+keySeparator)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", backupID, err)
	}

	keys := lo.Map(objects, func(obj domain.ObjectInfo, _ int) string { return obj.Key })

	age := "unknown age"
	if created, err := domain.ParseBackupTime(backupID); err == nil {
		age = humanize.Time(created)
	}

	if dryRun {
		uc.logger.Infof("Would delete %s (%s, %d object(s))", backupID, age, len(keys))
		return len(keys), nil
	}

	uc.logger.Infof("Deleting %s (%s, %d object(s))", backupID, age, len(keys))
	if err := uc.store.Delete(ctx, keys); err != nil {
		return 0, fmt.Errorf("delete %s: %w", backupID, err)
	}

	return len(keys), nil
}
