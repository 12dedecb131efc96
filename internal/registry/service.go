// Package registry loads the read-only account and category registries the
// import engine consults.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Service provides in-memory lookup over the workspace registries.
type Service struct {
	accounts   []model.Account
	categories []model.Category
	accByID    map[string]model.Account
}

// NewService creates a Service from in-memory registries.
func NewService(accounts []model.Account, categories []model.Category) *Service {
	byID := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Service{accounts: accounts, categories: categories, accByID: byID}
}

// Load reads accounts.csv and categories.csv from a workspace root. Missing
// files load as empty registries.
func Load(root string) (*Service, error) {
	accounts, err := loadAccounts(filepath.Join(root, "accounts.csv"))
	if err != nil {
		return nil, err
	}
	categories, err := loadCategories(filepath.Join(root, "categories.csv"))
	if err != nil {
		return nil, err
	}
	return NewService(accounts, categories), nil
}

// Accounts returns all registered accounts.
func (s *Service) Accounts() []model.Account { return s.accounts }

// Categories returns all registered categories.
func (s *Service) Categories() []model.Category { return s.categories }

// Account returns an account by ID.
func (s *Service) Account(id string) (model.Account, bool) {
	a, ok := s.accByID[id]
	return a, ok
}

// Save writes both registries back to the workspace root.
func (s *Service) Save(root string) error {
	af, err := os.Create(filepath.Join(root, "accounts.csv"))
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer af.Close()
	if err := WriteAccounts(af, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}

	cf, err := os.Create(filepath.Join(root, "categories.csv"))
	if err != nil {
		return fmt.Errorf("creating categories file: %w", err)
	}
	defer cf.Close()
	if err := WriteCategories(cf, s.categories); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}
	return nil
}

func loadAccounts(path string) ([]model.Account, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadAccounts(f)
}

func loadCategories(path string) ([]model.Category, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadCategories(f)
}
