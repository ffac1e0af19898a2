package memory

// Package memory provides a simple in-memory implementation used for
// development and tests. It keeps code paths easy to follow while allowing a
// real database to be plugged in behind the same interfaces.
import (
	"context"
	"sort"
	"sync"

	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketfin/pocketfin/internal/errs"
	"github.com/pocketfin/pocketfin/internal/finance"
)

// Store is an in-memory implementation of the repository and writer
// interfaces used by the services. It is guarded by an RWMutex for concurrent
// reads/writes.
type Store struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]finance.User
	wallets      map[uuid.UUID]finance.Wallet
	transactions map[uuid.UUID]finance.Transaction
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		users:        make(map[uuid.UUID]finance.User),
		wallets:      make(map[uuid.UUID]finance.Wallet),
		transactions: make(map[uuid.UUID]finance.Transaction),
	}
}

// Seed helpers for local dev/tests.
func (s *Store) SeedUser(u finance.User) { s.mu.Lock(); s.users[u.ID] = u; s.mu.Unlock() }
func (s *Store) SeedWallet(w finance.Wallet) {
	s.mu.Lock()
	s.wallets[w.ID] = w
	s.mu.Unlock()
}
func (s *Store) SeedTransaction(tx finance.Transaction) {
	s.mu.Lock()
	s.transactions[tx.ID] = tx
	s.mu.Unlock()
}

func (s *Store) Reset() {
	s.mu.Lock()
	s.users = map[uuid.UUID]finance.User{}
	s.wallets = map[uuid.UUID]finance.Wallet{}
	s.transactions = map[uuid.UUID]finance.Transaction{}
	s.mu.Unlock()
}

// --- Users ---

func (s *Store) User(_ context.Context, userID uuid.UUID) (finance.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return finance.User{}, errs.ErrNotFound
	}
	return u, nil
}

// --- Wallets ---

func (s *Store) Wallet(_ context.Context, userID, walletID uuid.UUID) (finance.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[walletID]
	if !ok || w.UserID != userID {
		return finance.Wallet{}, errs.ErrNotFound
	}
	return w, nil
}

func (s *Store) WalletsByUserID(_ context.Context, userID uuid.UUID) ([]finance.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]finance.Wallet, 0)
	for _, w := range s.wallets {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	return out, nil
}

func (s *Store) CreateWallet(_ context.Context, w finance.Wallet) (finance.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[w.ID] = w
	return w, nil
}

func (s *Store) UpdateWallet(_ context.Context, w finance.Wallet) (finance.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.wallets[w.ID]
	if !ok {
		return finance.Wallet{}, errs.ErrNotFound
	}
	// Balance fields stay reconciler-owned even on a full-document update.
	w.Balance, w.TotalIncome, w.TotalExpenses = cur.Balance, cur.TotalIncome, cur.TotalExpenses
	s.wallets[w.ID] = w
	return w, nil
}

// UpdateWalletBalances merges only the three balance fields, mirroring a
// document-store partial update.
func (s *Store) UpdateWalletBalances(_ context.Context, walletID uuid.UUID, balance, totalIncome, totalExpenses decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return errs.ErrNotFound
	}
	w.Balance = balance
	w.TotalIncome = totalIncome
	w.TotalExpenses = totalExpenses
	s.wallets[walletID] = w
	return nil
}

func (s *Store) DeleteWallet(_ context.Context, walletID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[walletID]; !ok {
		return errs.ErrNotFound
	}
	delete(s.wallets, walletID)
	return nil
}

// --- Transactions ---

func (s *Store) Transaction(_ context.Context, userID, txID uuid.UUID) (finance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[txID]
	if !ok || tx.UserID != userID {
		return finance.Transaction{}, errs.ErrNotFound
	}
	return tx, nil
}

func (s *Store) TransactionsByUser(_ context.Context, userID uuid.UUID) ([]finance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]finance.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (s *Store) TransactionsByWallet(_ context.Context, userID, walletID uuid.UUID) ([]finance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]finance.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.UserID == userID && tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

// TransactionIDsByWallet returns up to limit transaction ids referencing the
// wallet, for the cascading delete loop.
func (s *Store) TransactionIDsByWallet(_ context.Context, walletID uuid.UUID, limit int) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uuid.UUID, 0, limit)
	for id, tx := range s.transactions {
		if tx.WalletID != walletID {
			continue
		}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) UpsertTransaction(_ context.Context, tx finance.Transaction) (finance.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = tx
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, txID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[txID]; !ok {
		return errs.ErrNotFound
	}
	delete(s.transactions, txID)
	return nil
}

// DeleteTransactions removes a batch atomically with respect to readers.
func (s *Store) DeleteTransactions(_ context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.transactions, id)
	}
	return nil
}

func (s *Store) TransactionsInWindow(_ context.Context, userID uuid.UUID, from, to time.Time) ([]finance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]finance.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.UserID != userID {
			continue
		}
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		out = append(out, tx)
	}
	sortByDateDesc(out)
	return out, nil
}

func (s *Store) EarliestTransaction(_ context.Context, userID uuid.UUID) (finance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		found    bool
		earliest finance.Transaction
	)
	for _, tx := range s.transactions {
		if tx.UserID != userID {
			continue
		}
		if !found || tx.Date.Before(earliest.Date) {
			earliest = tx
			found = true
		}
	}
	if !found {
		return finance.Transaction{}, errs.ErrNotFound
	}
	return earliest, nil
}

func sortByDateDesc(txs []finance.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Date.Equal(txs[j].Date) {
			return txs[i].ID.String() < txs[j].ID.String()
		}
		return txs[i].Date.After(txs[j].Date)
	})
}
