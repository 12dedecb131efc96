package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "id,date,timestamp,amount,kind,category_id,category_raw,memo,merchant,tag,account_id,counterpart_account_id,linked_transaction_id,content_hash,installment_months"

const (
	numFields          = 15
	colID              = 0
	colDate            = 1
	colTimestamp       = 2
	colAmount          = 3
	colKind            = 4
	colCategoryID      = 5
	colCategoryRaw     = 6
	colMemo            = 7
	colMerchant        = 8
	colTag             = 9
	colAccountID       = 10
	colCounterpartAcct = 11
	colLinkedID        = 12
	colContentHash     = 13
	colInstallments    = 14
)

const dateFormat = "2006-01-02"

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = tx.ID
	row[colDate] = tx.Date.Format(dateFormat)
	row[colTimestamp] = tx.Timestamp.UTC().Format(time.RFC3339)
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colKind] = string(tx.Kind)
	row[colCategoryID] = tx.Category.ID
	row[colCategoryRaw] = tx.Category.Raw
	row[colMemo] = tx.Memo
	row[colMerchant] = tx.Merchant
	row[colTag] = tx.Tag
	row[colAccountID] = tx.AccountID
	row[colCounterpartAcct] = tx.CounterpartAccountID
	row[colLinkedID] = tx.LinkedTransactionID
	row[colContentHash] = tx.ContentHash
	if tx.InstallmentMonths != 0 {
		row[colInstallments] = strconv.Itoa(tx.InstallmentMonths)
	}
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	installments := 0
	if record[colInstallments] != "" {
		installments, err = strconv.Atoi(record[colInstallments])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing installment_months %q: %w", record[colInstallments], err)
		}
	}

	return model.Transaction{
		ID:        record[colID],
		Date:      date,
		Timestamp: ts.UTC(),
		Amount:    amount,
		Kind:      model.Kind(record[colKind]),
		Category: model.CategoryRef{
			ID:  record[colCategoryID],
			Raw: record[colCategoryRaw],
		},
		Memo:                 record[colMemo],
		Merchant:             record[colMerchant],
		Tag:                  record[colTag],
		AccountID:            record[colAccountID],
		CounterpartAccountID: record[colCounterpartAcct],
		LinkedTransactionID:  record[colLinkedID],
		ContentHash:          record[colContentHash],
		InstallmentMonths:    installments,
	}, nil
}

// ReadTransactions reads a transactions CSV, header row included.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, tx)
	}
	return txns, nil
}

// WriteTransactions writes a transactions CSV with header.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(headerFields()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range txns {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendTransactions writes rows without a header.
func AppendTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, tx := range txns {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("appending row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func headerFields() []string {
	return []string{
		"id", "date", "timestamp", "amount", "kind", "category_id", "category_raw",
		"memo", "merchant", "tag", "account_id", "counterpart_account_id",
		"linked_transaction_id", "content_hash", "installment_months",
	}
}
