package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/auditlog"
	"github.com/bankfeed-dev/bankfeed/internal/config"
	"github.com/bankfeed-dev/bankfeed/internal/importer"
	"github.com/bankfeed-dev/bankfeed/internal/ledger"
	"github.com/bankfeed-dev/bankfeed/internal/logging"
	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/preset"
	"github.com/bankfeed-dev/bankfeed/internal/reconcile"
	"github.com/bankfeed-dev/bankfeed/internal/registry"
)

// mappingFlags collects the column-index flags for an explicit mapping.
// All default to unmapped; giving none means "use the matching preset".
type mappingFlags struct {
	date, memo, amount  int
	amountIn, amountOut int
	account, category   int
	merchant, tag, inst int
	presetName          string
}

func (f mappingFlags) given() bool {
	return f.date != model.Unmapped || f.memo != model.Unmapped ||
		f.amount != model.Unmapped || f.amountIn != model.Unmapped ||
		f.amountOut != model.Unmapped
}

func (f mappingFlags) toMapping() model.ColumnMapping {
	m := model.NewColumnMapping()
	m.Date = f.date
	m.Memo = f.memo
	m.Amount = f.amount
	m.AmountIn = f.amountIn
	m.AmountOut = f.amountOut
	m.Account = f.account
	m.Category = f.category
	m.Merchant = f.merchant
	m.Tag = f.tag
	m.Installment = f.inst
	return m
}

func newImportCommand() *cobra.Command {
	var accountID string
	var flags mappingFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank export file into the workspace ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(workspaceDir(cmd), args[0], accountID, flags)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "destination account ID (empty = resolve per row from the account column)")
	cmd.Flags().IntVar(&flags.date, "col-date", model.Unmapped, "date column index")
	cmd.Flags().IntVar(&flags.memo, "col-memo", model.Unmapped, "description column index")
	cmd.Flags().IntVar(&flags.amount, "col-amount", model.Unmapped, "signed amount column index")
	cmd.Flags().IntVar(&flags.amountIn, "col-deposit", model.Unmapped, "deposit amount column index")
	cmd.Flags().IntVar(&flags.amountOut, "col-withdrawal", model.Unmapped, "withdrawal amount column index")
	cmd.Flags().IntVar(&flags.account, "col-account", model.Unmapped, "account reference column index")
	cmd.Flags().IntVar(&flags.category, "col-category", model.Unmapped, "category column index")
	cmd.Flags().IntVar(&flags.merchant, "col-merchant", model.Unmapped, "merchant column index")
	cmd.Flags().IntVar(&flags.tag, "col-tag", model.Unmapped, "tag column index")
	cmd.Flags().IntVar(&flags.inst, "col-installment", model.Unmapped, "installment months column index")
	cmd.Flags().StringVar(&flags.presetName, "preset-name", "", "name for the saved preset")

	return cmd
}

func runImport(root, file, accountID string, flags mappingFlags) error {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return err
	}
	reg, err := registry.Load(root)
	if err != nil {
		return err
	}
	if accountID != "" {
		if _, ok := reg.Account(accountID); !ok {
			return fmt.Errorf("unknown account %q", accountID)
		}
	}

	buf, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	pipe := &importer.Pipeline{
		Presets:    preset.NewStore(preset.NewFileKV(filepath.Join(root, "presets"))),
		Accounts:   reg.Accounts(),
		Categories: reg.Categories(),
		Options: reconcile.Options{
			Window:          cfg.Import.TransferWindow(),
			SkipSameAccount: cfg.Import.SkipSameAccount,
		},
		Log: logging.New(),
	}

	req := importer.Request{
		Buffer:            buf,
		FileName:          filepath.Base(file),
		TargetAccountID:   accountID,
		FallbackAccountID: cfg.Import.FallbackAccount,
		PresetName:        flags.presetName,
	}
	if flags.given() {
		m := flags.toMapping()
		req.Mapping = &m
	}

	store := ledger.NewService(root)
	existing, err := store.All()
	if err != nil {
		return err
	}

	res, err := pipe.Run(req, existing)
	if err != nil {
		return err
	}

	if err := store.Append(res.NewTransactions); err != nil {
		return err
	}
	if err := store.Update(res.UpdatedExisting); err != nil {
		return err
	}

	if err := auditlog.Append(root, auditlog.Entry{
		Timestamp:  time.Now().UTC(),
		BatchID:    res.BatchID,
		File:       filepath.Base(file),
		RowsRead:   res.RowsRead,
		Imported:   len(res.NewTransactions),
		Rejected:   len(res.Rejected),
		Duplicates: res.Duplicates,
		Transfers:  res.TransfersLinked(),
	}); err != nil {
		return err
	}

	fmt.Printf("Imported %d transaction(s) from %s (%d rejected, %d duplicate(s), %d transfer(s) linked, %d existing updated)\n",
		len(res.NewTransactions), filepath.Base(file),
		len(res.Rejected), res.Duplicates, res.TransfersLinked(), len(res.UpdatedExisting))
	for _, rej := range res.Rejected {
		fmt.Printf("  row %d skipped: %s\n", rej.Row, rej.Reason)
	}
	return nil
}
