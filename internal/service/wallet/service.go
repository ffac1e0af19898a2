package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketfin/pocketfin/internal/errs"
	"github.com/pocketfin/pocketfin/internal/finance"
	"github.com/pocketfin/pocketfin/internal/media"
)

// Repo defines read operations needed by the service.
type Repo interface {
	BalanceReader
	WalletsByUserID(ctx context.Context, userID uuid.UUID) ([]finance.Wallet, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	BalanceWriter
	CreateWallet(ctx context.Context, w finance.Wallet) (finance.Wallet, error)
	UpdateWallet(ctx context.Context, w finance.Wallet) (finance.Wallet, error)
	DeleteWallet(ctx context.Context, walletID uuid.UUID) error
}

// Purger is the transaction-side access the cascading delete needs.
type Purger interface {
	TransactionIDsByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]uuid.UUID, error)
	DeleteTransactions(ctx context.Context, ids []uuid.UUID) error
}

// Service exposes wallet lifecycle operations. Balance fields are never
// client-writable; they belong to the Reconciler.
type Service interface {
	Create(ctx context.Context, w finance.Wallet, imagePath string) (finance.Wallet, error)
	Get(ctx context.Context, userID, walletID uuid.UUID) (finance.Wallet, error)
	List(ctx context.Context, userID uuid.UUID) ([]finance.Wallet, error)
	Update(ctx context.Context, userID, walletID uuid.UUID, name *string, imagePath string) (finance.Wallet, error)
	Delete(ctx context.Context, userID, walletID uuid.UUID) error
}

type service struct {
	repo      Repo
	writer    Writer
	purger    Purger
	uploader  media.Uploader
	batchSize int
	log       *slog.Logger
}

// New constructs the wallet service. uploader may be nil when image uploads
// are disabled; batchSize bounds each cascading-delete round.
func New(repo Repo, writer Writer, purger Purger, uploader media.Uploader, batchSize int, log *slog.Logger) Service {
	if batchSize < 1 {
		batchSize = 25
	}
	return &service{repo: repo, writer: writer, purger: purger, uploader: uploader, batchSize: batchSize, log: log}
}

func (s *service) Create(ctx context.Context, w finance.Wallet, imagePath string) (finance.Wallet, error) {
	if w.UserID == uuid.Nil || w.Name == "" {
		return finance.Wallet{}, errs.ErrInvalid
	}
	if imagePath != "" {
		url, err := s.upload(ctx, imagePath)
		if err != nil {
			return finance.Wallet{}, err
		}
		w.ImageURL = url
	}
	w.ID = uuid.New()
	w.Balance = decimal.Zero
	w.TotalIncome = decimal.Zero
	w.TotalExpenses = decimal.Zero
	w.Created = time.Now().UTC()
	return s.writer.CreateWallet(ctx, w)
}

func (s *service) Get(ctx context.Context, userID, walletID uuid.UUID) (finance.Wallet, error) {
	if userID == uuid.Nil || walletID == uuid.Nil {
		return finance.Wallet{}, errs.ErrInvalid
	}
	return s.repo.Wallet(ctx, userID, walletID)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]finance.Wallet, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrInvalid
	}
	return s.repo.WalletsByUserID(ctx, userID)
}

// Update changes name and/or image. Balance fields are deliberately not part
// of the patch surface.
func (s *service) Update(ctx context.Context, userID, walletID uuid.UUID, name *string, imagePath string) (finance.Wallet, error) {
	w, err := s.repo.Wallet(ctx, userID, walletID)
	if err != nil {
		return finance.Wallet{}, err
	}
	if name != nil {
		w.Name = *name
	}
	if imagePath != "" {
		url, err := s.upload(ctx, imagePath)
		if err != nil {
			return finance.Wallet{}, err
		}
		w.ImageURL = url
	}
	return s.writer.UpdateWallet(ctx, w)
}

// Delete removes the wallet's transactions in bounded batches and then the
// wallet itself. Transactions go first so a crash mid-loop cannot leave
// records pointing at a wallet that no longer exists. Batches are atomic
// individually, not across each other, and there is no rollback. No other
// wallet is reconciled: the transactions are destroyed, not moved.
func (s *service) Delete(ctx context.Context, userID, walletID uuid.UUID) error {
	if _, err := s.repo.Wallet(ctx, userID, walletID); err != nil {
		return err
	}
	for {
		ids, err := s.purger.TransactionIDsByWallet(ctx, walletID, s.batchSize)
		if err != nil {
			return fmt.Errorf("query wallet transactions: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		if err := s.purger.DeleteTransactions(ctx, ids); err != nil {
			return fmt.Errorf("delete transaction batch: %w", err)
		}
		s.log.Info("deleted transaction batch", "wallet_id", walletID, "count", len(ids))
	}
	return s.writer.DeleteWallet(ctx, walletID)
}

func (s *service) upload(ctx context.Context, imagePath string) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("%w: no uploader configured", errs.ErrUploadFailed)
	}
	url, err := s.uploader.Upload(ctx, imagePath, "wallets")
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrUploadFailed, err)
	}
	return url, nil
}
