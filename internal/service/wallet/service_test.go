package wallet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pocketfin/pocketfin/internal/errs"
	"github.com/pocketfin/pocketfin/internal/finance"
	"github.com/pocketfin/pocketfin/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type fakeUploader struct {
	calls int
	fail  bool
}

func (f *fakeUploader) Upload(_ context.Context, localPath, folder string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	return "https://img.example/" + folder + "/" + localPath, nil
}

func TestCreate_ZeroesBalanceFields(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, nil, 25, testLogger())
	userID := uuid.New()
	store.SeedUser(finance.User{ID: userID})

	w, err := svc.Create(context.Background(), finance.Wallet{
		UserID: userID, Name: "Cash",
		Balance: dec("999"), TotalIncome: dec("999"), TotalExpenses: dec("999"),
	}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	// Client-supplied balance figures are discarded.
	requireWallet(t, store, userID, w.ID, "0", "0", "0")
}

func TestCreate_Invalid(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, nil, 25, testLogger())

	if _, err := svc.Create(context.Background(), finance.Wallet{Name: "Cash"}, ""); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("missing user: expected ErrInvalid, got %v", err)
	}
	if _, err := svc.Create(context.Background(), finance.Wallet{UserID: uuid.New()}, ""); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("missing name: expected ErrInvalid, got %v", err)
	}
}

func TestCreate_WithImage(t *testing.T) {
	store := memory.New()
	up := &fakeUploader{}
	svc := New(store, store, store, up, 25, testLogger())
	userID := uuid.New()

	w, err := svc.Create(context.Background(), finance.Wallet{UserID: userID, Name: "Cash"}, "cover.png")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.ImageURL != "https://img.example/wallets/cover.png" {
		t.Fatalf("unexpected image url %q", w.ImageURL)
	}
	if up.calls != 1 {
		t.Fatalf("expected 1 upload, got %d", up.calls)
	}
}

func TestCreate_UploadFailureAborts(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, &fakeUploader{fail: true}, 25, testLogger())
	userID := uuid.New()

	_, err := svc.Create(context.Background(), finance.Wallet{UserID: userID, Name: "Cash"}, "cover.png")
	if !errors.Is(err, errs.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	wallets, _ := store.WalletsByUserID(context.Background(), userID)
	if len(wallets) != 0 {
		t.Fatalf("wallet should not be persisted after failed upload")
	}
}

func TestUpdate_RenameKeepsBalances(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "60", "100", "40")
	svc := New(store, store, store, nil, 25, testLogger())

	name := "Groceries"
	w, err := svc.Update(context.Background(), userID, walletID, &name, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if w.Name != "Groceries" {
		t.Fatalf("name not updated: %q", w.Name)
	}
	requireWallet(t, store, userID, walletID, "60", "100", "40")
}

func TestDelete_CascadesTransactionsInBatches(t *testing.T) {
	store := memory.New()
	userID, walletID := seedWallet(t, store, "0", "0", "0")
	// 7 transactions with a batch size of 3 forces three delete rounds.
	for i := 0; i < 7; i++ {
		store.SeedTransaction(finance.Transaction{
			ID: uuid.New(), UserID: userID, WalletID: walletID,
			Type: finance.TypeIncome, Amount: dec("1"), Date: time.Now().UTC(),
		})
	}
	other := finance.Wallet{ID: uuid.New(), UserID: userID, Name: "Other", Created: time.Now().UTC()}
	store.SeedWallet(other)
	keep := finance.Transaction{
		ID: uuid.New(), UserID: userID, WalletID: other.ID,
		Type: finance.TypeIncome, Amount: dec("1"), Date: time.Now().UTC(),
	}
	store.SeedTransaction(keep)

	svc := New(store, store, store, nil, 3, testLogger())
	if err := svc.Delete(context.Background(), userID, walletID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.Wallet(context.Background(), userID, walletID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("wallet should be gone, got %v", err)
	}
	txs, _ := store.TransactionsByUser(context.Background(), userID)
	if len(txs) != 1 || txs[0].ID != keep.ID {
		t.Fatalf("expected only the other wallet's transaction to survive, got %d", len(txs))
	}
}

func TestDelete_WalletNotFound(t *testing.T) {
	store := memory.New()
	userID, _ := seedWallet(t, store, "0", "0", "0")
	svc := New(store, store, store, nil, 25, testLogger())

	if err := svc.Delete(context.Background(), userID, uuid.New()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
