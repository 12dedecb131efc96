package registry

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

const (
	accountFields     = 5
	colAccID          = 0
	colAccName        = 1
	colAccDesc        = 2
	colAccInstitution = 3
	colAccLastFour    = 4

	categoryFields = 2
	colCatID       = 0
	colCatName     = 1
)

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = accountFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for _, rec := range records[1:] {
		accounts = append(accounts, model.Account{
			ID:          rec[colAccID],
			Name:        rec[colAccName],
			Description: rec[colAccDesc],
			Institution: rec[colAccInstitution],
			LastFour:    rec[colAccLastFour],
		})
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"id", "name", "description", "institution", "last_four"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range accounts {
		row := make([]string, accountFields)
		row[colAccID] = a.ID
		row[colAccName] = a.Name
		row[colAccDesc] = a.Description
		row[colAccInstitution] = a.Institution
		row[colAccLastFour] = a.LastFour
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadCategories reads categories.csv.
func ReadCategories(r io.Reader) ([]model.Category, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = categoryFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading categories CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var categories []model.Category
	for _, rec := range records[1:] {
		categories = append(categories, model.Category{
			ID:   rec[colCatID],
			Name: rec[colCatName],
		})
	}
	return categories, nil
}

// WriteCategories writes categories.csv.
func WriteCategories(w io.Writer, categories []model.Category) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"id", "name"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, c := range categories {
		if err := cw.Write([]string{c.ID, c.Name}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
