package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketfin/pocketfin/internal/errs"
	"github.com/pocketfin/pocketfin/internal/finance"
)

func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres store tests")
	}
	return dsn
}

func mustOpen(t *testing.T, dsn string) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func truncateAll(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = s.pool.Exec(ctx, `truncate table transactions, wallets, users cascade`)
}

func TestStore_WalletsAndTransactions(t *testing.T) {
	dsn := getTestDSN(t)
	s := mustOpen(t, dsn)
	defer s.Close()
	truncateAll(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.Ready(ctx); err != nil {
		t.Fatalf("ready: %v", err)
	}

	user, wallet, err := s.SeedDev(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if user.ID == uuid.Nil || wallet.ID == uuid.Nil {
		t.Fatalf("unexpected seed: %+v %+v", user, wallet)
	}

	// Wallet round trip: amounts survive the numeric/text mapping exactly.
	bal, _ := decimal.NewFromString("123.45")
	inc, _ := decimal.NewFromString("200.45")
	exp, _ := decimal.NewFromString("77")
	if err := s.UpdateWalletBalances(ctx, wallet.ID, bal, inc, exp); err != nil {
		t.Fatalf("update balances: %v", err)
	}
	got, err := s.Wallet(ctx, user.ID, wallet.ID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if !got.Balance.Equal(bal) || !got.TotalIncome.Equal(inc) || !got.TotalExpenses.Equal(exp) {
		t.Fatalf("balance round trip lost precision: %+v", got)
	}

	// UpdateWallet touches name/image only.
	got.Name = "Renamed"
	got.Balance = decimal.NewFromInt(99999)
	if _, err := s.UpdateWallet(ctx, got); err != nil {
		t.Fatalf("update wallet: %v", err)
	}
	reread, err := s.Wallet(ctx, user.ID, wallet.ID)
	if err != nil {
		t.Fatalf("reread wallet: %v", err)
	}
	if reread.Name != "Renamed" || !reread.Balance.Equal(bal) {
		t.Fatalf("update leaked into balance fields: %+v", reread)
	}

	// Transactions: upsert (insert then update), window query, earliest.
	tx := finance.Transaction{
		ID: uuid.New(), UserID: user.ID, WalletID: wallet.ID,
		Type: finance.TypeExpense, Amount: decimal.NewFromInt(40),
		Category: "groceries", Date: time.Now().UTC().AddDate(0, 0, -1),
	}
	if _, err := s.UpsertTransaction(ctx, tx); err != nil {
		t.Fatalf("insert tx: %v", err)
	}
	tx.Description = "weekly shop"
	if _, err := s.UpsertTransaction(ctx, tx); err != nil {
		t.Fatalf("update tx: %v", err)
	}
	gotTx, err := s.Transaction(ctx, user.ID, tx.ID)
	if err != nil {
		t.Fatalf("get tx: %v", err)
	}
	if gotTx.Description != "weekly shop" || !gotTx.Amount.Equal(tx.Amount) {
		t.Fatalf("upsert did not update in place: %+v", gotTx)
	}

	now := time.Now().UTC()
	window, err := s.TransactionsInWindow(ctx, user.ID, now.AddDate(0, 0, -7), now)
	if err != nil || len(window) != 1 {
		t.Fatalf("window query: %v (%d rows)", err, len(window))
	}
	earliest, err := s.EarliestTransaction(ctx, user.ID)
	if err != nil || earliest.ID != tx.ID {
		t.Fatalf("earliest: %v %+v", err, earliest)
	}

	// Cascade primitives.
	ids, err := s.TransactionIDsByWallet(ctx, wallet.ID, 10)
	if err != nil || len(ids) != 1 {
		t.Fatalf("ids by wallet: %v (%d)", err, len(ids))
	}
	if err := s.DeleteTransactions(ctx, ids); err != nil {
		t.Fatalf("delete batch: %v", err)
	}
	if _, err := s.Transaction(ctx, user.ID, tx.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after batch delete, got %v", err)
	}

	if err := s.DeleteWallet(ctx, wallet.ID); err != nil {
		t.Fatalf("delete wallet: %v", err)
	}
	if _, err := s.Wallet(ctx, user.ID, wallet.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after wallet delete, got %v", err)
	}
}
