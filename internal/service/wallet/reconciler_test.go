package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketfin/pocketfin/internal/errs"
	"github.com/pocketfin/pocketfin/internal/finance"
	"github.com/pocketfin/pocketfin/internal/storage/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedWallet(t *testing.T, store *memory.Store, balance, income, expenses string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	store.SeedUser(finance.User{ID: userID, Name: "Tester"})
	w := finance.Wallet{
		ID: uuid.New(), UserID: userID, Name: "Cash",
		Balance:       dec(balance),
		TotalIncome:   dec(income),
		TotalExpenses: dec(expenses),
		Created:       time.Now().UTC(),
	}
	store.SeedWallet(w)
	return userID, w.ID
}

func requireWallet(t *testing.T, store *memory.Store, userID, walletID uuid.UUID, balance, income, expenses string) {
	t.Helper()
	w, err := store.Wallet(context.Background(), userID, walletID)
	if err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	if !w.Balance.Equal(dec(balance)) || !w.TotalIncome.Equal(dec(income)) || !w.TotalExpenses.Equal(dec(expenses)) {
		t.Fatalf("wallet figures = {%s %s %s}, want {%s %s %s}",
			w.Balance, w.TotalIncome, w.TotalExpenses, balance, income, expenses)
	}
	// Balance must always equal income minus expenses.
	if !w.Balance.Equal(w.TotalIncome.Sub(w.TotalExpenses)) {
		t.Fatalf("balance %s != totalIncome %s - totalExpenses %s", w.Balance, w.TotalIncome, w.TotalExpenses)
	}
}

func TestApplyNew_IncomeThenExpense(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "0", "0", "0")
	r := NewReconciler(store, store, false)
	ctx := context.Background()

	if err := r.ApplyNew(ctx, userID, walletID, dec("100"), finance.TypeIncome); err != nil {
		t.Fatalf("apply income: %v", err)
	}
	requireWallet(t, store, userID, walletID, "100", "100", "0")

	if err := r.ApplyNew(ctx, userID, walletID, dec("40"), finance.TypeExpense); err != nil {
		t.Fatalf("apply expense: %v", err)
	}
	requireWallet(t, store, userID, walletID, "60", "100", "40")
}

func TestApplyNew_InsufficientBalance(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "60", "100", "40")
	r := NewReconciler(store, store, false)

	err := r.ApplyNew(context.Background(), userID, walletID, dec("1000"), finance.TypeExpense)
	if !errors.Is(err, errs.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	// Rejected before any write: figures untouched.
	requireWallet(t, store, userID, walletID, "60", "100", "40")
}

func TestApplyNew_ExactBalanceAllowed(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "60", "100", "40")
	r := NewReconciler(store, store, false)

	if err := r.ApplyNew(context.Background(), userID, walletID, dec("60"), finance.TypeExpense); err != nil {
		t.Fatalf("expense to exactly zero should pass: %v", err)
	}
	requireWallet(t, store, userID, walletID, "0", "100", "100")
}

func TestApplyNew_InvalidInput(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "0", "0", "0")
	r := NewReconciler(store, store, false)
	ctx := context.Background()

	if err := r.ApplyNew(ctx, userID, walletID, dec("0"), finance.TypeIncome); !errors.Is(err, errs.ErrInvalidTransaction) {
		t.Fatalf("zero amount: expected ErrInvalidTransaction, got %v", err)
	}
	if err := r.ApplyNew(ctx, userID, walletID, dec("-5"), finance.TypeIncome); !errors.Is(err, errs.ErrInvalidTransaction) {
		t.Fatalf("negative amount: expected ErrInvalidTransaction, got %v", err)
	}
	if err := r.ApplyNew(ctx, userID, walletID, dec("5"), finance.TransactionType("transfer")); !errors.Is(err, errs.ErrInvalidTransaction) {
		t.Fatalf("bad type: expected ErrInvalidTransaction, got %v", err)
	}
}

func TestApplyNew_WalletNotFound(t *testing.T) {
	store := memory.New()
	userID, _ := seedWallet(t, store, "0", "0", "0")
	r := NewReconciler(store, store, false)

	err := r.ApplyNew(context.Background(), userID, uuid.New(), dec("10"), finance.TypeIncome)
	if !errors.Is(err, errs.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}
}

func TestRevertAndReapply_SameWalletCanGoNegative(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "60", "100", "40")
	r := NewReconciler(store, store, false)

	old := finance.Transaction{
		ID: uuid.New(), UserID: userID, WalletID: walletID,
		Type: finance.TypeExpense, Amount: dec("40"),
	}
	// Editing the 40 expense up to 200 drains past zero; the edit path takes
	// no sufficiency check by default.
	if err := r.RevertAndReapply(context.Background(), old, dec("200"), finance.TypeExpense, walletID); err != nil {
		t.Fatalf("edit: %v", err)
	}
	requireWallet(t, store, userID, walletID, "-100", "100", "200")
}

func TestRevertAndReapply_StrictEditsRejects(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "60", "100", "40")
	r := NewReconciler(store, store, true)

	old := finance.Transaction{
		ID: uuid.New(), UserID: userID, WalletID: walletID,
		Type: finance.TypeExpense, Amount: dec("40"),
	}
	err := r.RevertAndReapply(context.Background(), old, dec("200"), finance.TypeExpense, walletID)
	if !errors.Is(err, errs.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance under strict edits, got %v", err)
	}
	// The revert was already persisted; only the reapply was rejected.
	requireWallet(t, store, userID, walletID, "100", "100", "0")
}

func TestRevertAndReapply_MoveBetweenWallets(t *testing.T) {
	store := memory.New()
	userID, sourceID := seedWallet(t, store, "60", "100", "40")
	target := finance.Wallet{
		ID: uuid.New(), UserID: userID, Name: "Savings",
		Balance: dec("500"), TotalIncome: dec("500"), TotalExpenses: dec("0"),
		Created: time.Now().UTC(),
	}
	store.SeedWallet(target)
	r := NewReconciler(store, store, false)

	old := finance.Transaction{
		ID: uuid.New(), UserID: userID, WalletID: sourceID,
		Type: finance.TypeExpense, Amount: dec("40"),
	}
	if err := r.RevertAndReapply(context.Background(), old, dec("40"), finance.TypeExpense, target.ID); err != nil {
		t.Fatalf("move: %v", err)
	}
	requireWallet(t, store, userID, sourceID, "100", "100", "0")
	requireWallet(t, store, userID, target.ID, "460", "500", "40")
}

func TestRevertAndReapply_TypeFlip(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "100", "100", "0")
	r := NewReconciler(store, store, false)

	old := finance.Transaction{
		ID: uuid.New(), UserID: userID, WalletID: walletID,
		Type: finance.TypeIncome, Amount: dec("100"),
	}
	// income 100 becomes expense 100: revert leaves {0,0,0}, reapply as expense
	// drives the balance negative, allowed on the edit path.
	if err := r.RevertAndReapply(context.Background(), old, dec("100"), finance.TypeExpense, walletID); err != nil {
		t.Fatalf("flip: %v", err)
	}
	requireWallet(t, store, userID, walletID, "-100", "0", "100")
}

func TestRevertOnDelete_Income(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "100", "100", "0")
	r := NewReconciler(store, store, false)

	tx := finance.Transaction{
		ID: uuid.New(), UserID: userID, WalletID: walletID,
		Type: finance.TypeIncome, Amount: dec("100"),
	}
	if err := r.RevertOnDelete(context.Background(), tx); err != nil {
		t.Fatalf("revert: %v", err)
	}
	requireWallet(t, store, userID, walletID, "0", "0", "0")
}

func TestRevertOnDelete_IncomeOverdrawRejected(t *testing.T) {
	store := memory.New()
	// 100 income already 60 spent: deleting the income would leave -60.
	userID, walletID := seedWallet(t, store, "40", "100", "60")
	r := NewReconciler(store, store, false)

	tx := finance.Transaction{
		ID: uuid.New(), UserID: userID, WalletID: walletID,
		Type: finance.TypeIncome, Amount: dec("100"),
	}
	err := r.RevertOnDelete(context.Background(), tx)
	if !errors.Is(err, errs.ErrDeleteWouldOverdraw) {
		t.Fatalf("expected ErrDeleteWouldOverdraw, got %v", err)
	}
	requireWallet(t, store, userID, walletID, "40", "100", "60")
}

func TestRevertOnDelete_Expense(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "60", "100", "40")
	r := NewReconciler(store, store, false)

	tx := finance.Transaction{
		ID: uuid.New(), UserID: userID, WalletID: walletID,
		Type: finance.TypeExpense, Amount: dec("40"),
	}
	if err := r.RevertOnDelete(context.Background(), tx); err != nil {
		t.Fatalf("revert: %v", err)
	}
	requireWallet(t, store, userID, walletID, "100", "100", "0")
}
