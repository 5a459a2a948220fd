package ledger

import (
	"context"
	"strings"

	"cebim/internal/core"
	"cebim/internal/log"
)

// Categories returns the category list in insertion order.
func (s *Service) Categories(ctx context.Context) []core.Category {
	var cats []core.Category
	s.readJSON(ctx, categoriesKey, &cats)
	return cats
}

// AddCategory creates a category with a fresh time-based identifier.
// A name that trims to empty is rejected with no mutation and no write.
func (s *Service) AddCategory(ctx context.Context, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cats := s.Categories(ctx)
	cat := core.Category{ID: s.ids.Next(), Name: name}
	if err := s.saveJSON(ctx, categoriesKey, append(cats, cat)); err != nil {
		return core.Category{}, err
	}
	s.changed()
	s.logger.InfoContext(ctx, "Category added",
		log.FieldOperation, log.OpCreate,
		log.FieldCategoryID, cat.ID,
		log.FieldCategoryName, cat.Name)
	return cat, nil
}

// RenameCategory renames in place and propagates the new name into every
// transaction's denormalized categoryName in the same operation. An
// unknown id returns core.ErrNotFound; callers holding a stale reference
// treat that as a no-op.
func (s *Service) RenameCategory(ctx context.Context, id, newName string) (core.Category, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return core.Category{}, core.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cats := s.Categories(ctx)
	idx := categoryIndex(cats, id)
	if idx < 0 {
		return core.Category{}, core.ErrNotFound
	}
	cats[idx].Name = newName
	if err := s.saveJSON(ctx, categoriesKey, cats); err != nil {
		return core.Category{}, err
	}

	txs := s.categoryTransactions(ctx, id)
	if len(txs) > 0 {
		for i := range txs {
			txs[i].CategoryName = newName
		}
		if err := s.saveJSON(ctx, transactionsKey(id), txs); err != nil {
			return core.Category{}, err
		}
	}

	s.changed()
	s.logger.InfoContext(ctx, "Category renamed",
		log.FieldOperation, log.OpRename,
		log.FieldCategoryID, id,
		log.FieldCategoryName, newName)
	return cats[idx], nil
}

// RemoveCategory deletes the category together with its transaction
// snapshot; the cascade leaves no orphans. A missing id is a silent no-op.
func (s *Service) RemoveCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := s.Categories(ctx)
	idx := categoryIndex(cats, id)
	if idx < 0 {
		s.logger.Debug("Remove of unknown category ignored", log.FieldCategoryID, id)
		return nil
	}

	// Transactions go first: a category without a transaction snapshot is
	// just empty, a transaction snapshot without its category is an orphan.
	if err := s.deleteKey(ctx, transactionsKey(id)); err != nil {
		return err
	}
	cats = append(cats[:idx], cats[idx+1:]...)
	if err := s.saveJSON(ctx, categoriesKey, cats); err != nil {
		return err
	}

	s.changed()
	s.logger.InfoContext(ctx, "Category removed",
		log.FieldOperation, log.OpDelete,
		log.FieldCategoryID, id)
	return nil
}

func categoryIndex(cats []core.Category, id string) int {
	for i, c := range cats {
		if c.ID == id {
			return i
		}
	}
	return -1
}
