package importer

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jask/ynab4import/internal/ledger"
	"github.com/jask/ynab4import/internal/logger"
	"github.com/jask/ynab4import/internal/ynab4"
)

// importableGroup reports whether a master category becomes a ledger group:
// an expense group that is live and still has a live subcategory.
func importableGroup(m ynab4.MasterCategory) bool {
	return m.Type == ynab4.MasterTypeOutflow && !m.IsTombstone && m.HasActiveSubCategory()
}

// ImportCategories creates category groups and their categories. Groups are
// created one after another in legacy order so the ledger keeps that order;
// each group's categories are then filled in concurrently with the others,
// strictly one at a time within a group.
func (im *Importer) ImportCategories(ctx context.Context, masters []ynab4.MasterCategory) (int, error) {
	log := logger.FromContext(ctx)
	sorted := slices.Clone(masters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortableIndex < sorted[j].SortableIndex
	})

	var created atomic.Int64
	groups := make([]string, 0, len(sorted))
	live := make([]ynab4.MasterCategory, 0, len(sorted))
	for _, m := range sorted {
		if !importableGroup(m) {
			log.Debug().Str("master", m.Name).Str("type", m.Type).Msg("skipping master category")
			continue
		}
		groupID, err := im.Ledger.CreateCategoryGroup(ctx, ledger.NewCategoryGroup{Name: m.Name, IsIncome: false})
		if err != nil {
			return int(created.Load()), fmt.Errorf("create category group %q: %w", m.Name, err)
		}
		im.Registry.Set(m.EntityID, groupID)
		created.Add(1)
		groups = append(groups, groupID)
		live = append(live, m)
	}

	g, gctx := errgroup.WithContext(ctx)
	im.limit(g)
	for i, m := range live {
		g.Go(func() error {
			n, err := im.importSubCategories(gctx, m, groups[i])
			created.Add(int64(n))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return int(created.Load()), err
	}

	log.Info().Int64("created", created.Load()).Msg("categories imported")
	return int(created.Load()), nil
}

func (im *Importer) importSubCategories(ctx context.Context, m ynab4.MasterCategory, groupID string) (int, error) {
	subs := slices.Clone(m.SubCategories)
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SortableIndex < subs[j].SortableIndex
	})
	// The ledger inserts every new category above the existing ones, so
	// creating in descending sortableIndex order leaves the group ascending.
	// Each insert depends on the previous one: this loop must stay sequential.
	slices.Reverse(subs)

	created := 0
	for _, sc := range subs {
		if sc.IsTombstone {
			continue
		}
		id, err := im.Ledger.CreateCategory(ctx, ledger.NewCategory{
			Name:    categoryName(m, sc),
			GroupID: groupID,
		})
		if err != nil {
			return created, fmt.Errorf("create category %q in %q: %w", sc.Name, m.Name, err)
		}
		im.Registry.Set(sc.EntityID, id)
		created++
	}
	return created, nil
}

// categoryName strips the archive decoration YNAB4 puts on hidden
// subcategories ("Master ` Name ` 3" -> "Name").
func categoryName(m ynab4.MasterCategory, sc ynab4.SubCategory) string {
	if m.Name != ynab4.HiddenCategoriesName {
		return sc.Name
	}
	parts := strings.Split(sc.Name, " ` ")
	if len(parts) < 3 {
		return sc.Name
	}
	return parts[1]
}
