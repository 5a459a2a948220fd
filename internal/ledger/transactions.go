package ledger

import (
	"context"
	"strings"

	"cebim/internal/core"
	"cebim/internal/log"
)

func (s *Service) categoryTransactions(ctx context.Context, categoryID string) []core.Transaction {
	var txs []core.Transaction
	s.readJSON(ctx, transactionsKey(categoryID), &txs)
	return txs
}

// CategoryTransactions returns one category's transactions in insertion
// order.
func (s *Service) CategoryTransactions(ctx context.Context, categoryID string) []core.Transaction {
	return s.categoryTransactions(ctx, categoryID)
}

// Transactions concatenates every category's snapshot, in category order.
// This is an O(categories) fan-out read with no cross-category index:
// data is partitioned per category for isolation, not performance.
func (s *Service) Transactions(ctx context.Context) []core.Transaction {
	var all []core.Transaction
	for _, c := range s.Categories(ctx) {
		all = append(all, s.categoryTransactions(ctx, c.ID)...)
	}
	return all
}

// AddTransaction records a signed monetary event under an existing
// category. The amount is a positive magnitude; the sign is carried by
// typ. Invalid input creates no record and issues no write.
func (s *Service) AddTransaction(ctx context.Context, categoryID string, amount core.Money, description string, typ core.TransactionType) (core.Transaction, error) {
	tx := core.Transaction{
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Type:        typ,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cats := s.Categories(ctx)
	idx := categoryIndex(cats, categoryID)
	if idx < 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	tx.ID = s.ids.Next()
	tx.Date = s.now()
	tx.CategoryID = categoryID
	tx.CategoryName = cats[idx].Name

	txs := append(s.categoryTransactions(ctx, categoryID), tx)
	if err := s.saveJSON(ctx, transactionsKey(categoryID), txs); err != nil {
		return core.Transaction{}, err
	}

	s.changed()
	s.logger.InfoContext(ctx, "Transaction added",
		log.FieldOperation, log.OpCreate,
		log.FieldTransactionID, tx.ID,
		log.FieldCategoryID, categoryID,
		log.FieldAmountCents, tx.Amount.Cents,
		"type", string(tx.Type))
	return tx, nil
}

// RemoveTransaction deletes one transaction wherever it lives. A stale or
// unknown id is a silent no-op.
func (s *Service) RemoveTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.Categories(ctx) {
		txs := s.categoryTransactions(ctx, c.ID)
		for i, tx := range txs {
			if tx.ID != id {
				continue
			}
			txs = append(txs[:i], txs[i+1:]...)
			if err := s.saveJSON(ctx, transactionsKey(c.ID), txs); err != nil {
				return err
			}
			s.changed()
			s.logger.InfoContext(ctx, "Transaction removed",
				log.FieldOperation, log.OpDelete,
				log.FieldTransactionID, id,
				log.FieldCategoryID, c.ID)
			return nil
		}
	}
	s.logger.Debug("Remove of unknown transaction ignored", log.FieldTransactionID, id)
	return nil
}
