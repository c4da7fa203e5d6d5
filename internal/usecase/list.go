package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/semmidev/mongos3/internal/domain"
)

type Lister struct {
	store  domain.ObjectStore
	prefix string
}

func NewLister(store domain.ObjectStore, prefix string) *Lister {
	return &Lister{store: store, prefix: prefix}
}

// Execute returns the backup identifiers under the prefix, newest first.
// No backups is an empty result, not an error.
func (uc *Lister) Execute(ctx context.Context) ([]string, error) {
	base := folderPrefix(uc.prefix)

	folders, err := uc.store.ListFolders(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	ids := lo.Map(folders, func(folder string, _ int) string {
		return strings.TrimSuffix(strings.TrimPrefix(folder, base), keySeparator)
	})
	ids = lo.Uniq(lo.Compact(ids))

	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}
