// Package ledger persists canonical transactions to a workspace CSV. It is
// the durable side of the existing-transaction store the import engine
// matches against.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Service reads and writes the workspace transaction ledger.
type Service struct {
	root string
}

// NewService creates a ledger Service rooted at a workspace directory.
func NewService(root string) *Service {
	return &Service{root: root}
}

// All reads every stored transaction. A missing ledger file reads as empty.
func (s *Service) All() ([]model.Transaction, error) {
	f, err := os.Open(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	return txns, nil
}

// Append adds new transactions to the ledger, creating the file with a
// header on first use.
func (s *Service) Append(txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path()), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(s.path()); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(s.path(), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendTransactions(f, txns); err != nil {
		return fmt.Errorf("appending transactions: %w", err)
	}
	return nil
}

// Update replaces stored transactions by ID, rewriting the ledger. Used to
// persist the updated-existing half of a reconciliation result. Unknown IDs
// are an error: an update must target a stored transaction.
func (s *Service) Update(updated []model.Transaction) error {
	if len(updated) == 0 {
		return nil
	}

	all, err := s.All()
	if err != nil {
		return err
	}

	index := make(map[string]int, len(all))
	for i, tx := range all {
		index[tx.ID] = i
	}
	for _, tx := range updated {
		i, ok := index[tx.ID]
		if !ok {
			return fmt.Errorf("updating ledger: unknown transaction %s", tx.ID)
		}
		all[i] = tx
	}

	f, err := os.Create(s.path())
	if err != nil {
		return fmt.Errorf("rewriting ledger: %w", err)
	}
	defer f.Close()
	if err := WriteTransactions(f, all); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}

func (s *Service) path() string {
	return filepath.Join(s.root, "ledger", "transactions.csv")
}
