package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction as money coming in or going out.
type TransactionType string

const (
	// TypeIncome increases the owning wallet's balance.
	TypeIncome TransactionType = "income"
	// TypeExpense decreases the owning wallet's balance.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// User captures the owner of wallets and transactions. The push fields drive
// the best-effort notification side effect on transaction saves.
type User struct {
	ID                   uuid.UUID
	Name                 string
	PushToken            string
	NotificationsEnabled bool
}

// Wallet is a named balance-holding account belonging to one user.
//
// Balance, TotalIncome and TotalExpenses are derived running figures owned by
// the reconciler; nothing else in the codebase writes them. Balance equals
// the sum of income amounts minus the sum of expense amounts over the wallet's
// live transactions.
type Wallet struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	ImageURL      string
	Balance       decimal.Decimal
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Created       time.Time
}

// Transaction is a single income or expense event against exactly one wallet.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	WalletID    uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description string
	ImageURL    string
}
