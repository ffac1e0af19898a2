package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketfin/pocketfin/internal/finance"
)

type postWalletRequest struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	ImagePath string    `json:"image_path"`
}

type patchWalletRequest struct {
	Name      *string `json:"name"`
	ImagePath string  `json:"image_path"`
}

type walletResponse struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Name          string          `json:"name"`
	ImageURL      string          `json:"image_url"`
	Balance       decimal.Decimal `json:"balance"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Created       time.Time       `json:"created"`
}

func toWalletResponse(w finance.Wallet) walletResponse {
	return walletResponse{
		ID:            w.ID,
		UserID:        w.UserID,
		Name:          w.Name,
		ImageURL:      w.ImageURL,
		Balance:       w.Balance,
		TotalIncome:   w.TotalIncome,
		TotalExpenses: w.TotalExpenses,
		Created:       w.Created,
	}
}

// postTransactionRequest covers both create (no id) and update (id present).
type postTransactionRequest struct {
	ID          uuid.UUID               `json:"id"`
	UserID      uuid.UUID               `json:"user_id"`
	WalletID    uuid.UUID               `json:"wallet_id"`
	Type        finance.TransactionType `json:"type"`
	Amount      decimal.Decimal         `json:"amount"`
	Category    string                  `json:"category"`
	Date        time.Time               `json:"date"`
	Description string                  `json:"description"`
	ImagePath   string                  `json:"image_path"`
}

type transactionResponse struct {
	ID          uuid.UUID               `json:"id"`
	UserID      uuid.UUID               `json:"user_id"`
	WalletID    uuid.UUID               `json:"wallet_id"`
	Type        finance.TransactionType `json:"type"`
	Amount      decimal.Decimal         `json:"amount"`
	Category    string                  `json:"category"`
	Date        time.Time               `json:"date"`
	Description string                  `json:"description"`
	ImageURL    string                  `json:"image_url"`
}

func toTransactionResponse(tx finance.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		WalletID:    tx.WalletID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Date:        tx.Date,
		Description: tx.Description,
		ImageURL:    tx.ImageURL,
	}
}

func toTransactionDomain(req postTransactionRequest) finance.Transaction {
	return finance.Transaction{
		ID:          req.ID,
		UserID:      req.UserID,
		WalletID:    req.WalletID,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
		Description: req.Description,
	}
}
