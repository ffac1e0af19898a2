package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketfin/pocketfin/internal/errs"
	"github.com/pocketfin/pocketfin/internal/finance"
	"github.com/pocketfin/pocketfin/internal/media"
	"github.com/pocketfin/pocketfin/internal/notify"
)

// Repo defines read operations needed by the service.
type Repo interface {
	Transaction(ctx context.Context, userID, txID uuid.UUID) (finance.Transaction, error)
	TransactionsByUser(ctx context.Context, userID uuid.UUID) ([]finance.Transaction, error)
	TransactionsByWallet(ctx context.Context, userID, walletID uuid.UUID) ([]finance.Transaction, error)
	User(ctx context.Context, userID uuid.UUID) (finance.User, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	UpsertTransaction(ctx context.Context, tx finance.Transaction) (finance.Transaction, error)
	DeleteTransaction(ctx context.Context, txID uuid.UUID) error
}

// Reconciler applies the wallet-balance side effect of a mutation.
type Reconciler interface {
	ApplyNew(ctx context.Context, userID, walletID uuid.UUID, amount decimal.Decimal, typ finance.TransactionType) error
	RevertAndReapply(ctx context.Context, old finance.Transaction, newAmount decimal.Decimal, newType finance.TransactionType, newWalletID uuid.UUID) error
	RevertOnDelete(ctx context.Context, tx finance.Transaction) error
}

// Service orchestrates transaction persistence and its side effects.
type Service interface {
	// Save creates the transaction when tx.ID is nil, otherwise updates it.
	// imagePath, when set, is a local file uploaded before persisting.
	Save(ctx context.Context, tx finance.Transaction, imagePath string) (finance.Transaction, error)
	Delete(ctx context.Context, userID, txID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, walletID *uuid.UUID) ([]finance.Transaction, error)
}

type service struct {
	repo     Repo
	writer   Writer
	recon    Reconciler
	uploader media.Uploader
	sender   notify.Sender
	log      *slog.Logger
}

// New wires the transaction service. uploader and sender may be nil when the
// matching side effect is disabled.
func New(repo Repo, writer Writer, recon Reconciler, uploader media.Uploader, sender notify.Sender, log *slog.Logger) Service {
	return &service{repo: repo, writer: writer, recon: recon, uploader: uploader, sender: sender, log: log}
}

func validate(tx finance.Transaction) error {
	switch {
	case tx.UserID == uuid.Nil:
		return fmt.Errorf("%w: user is required", errs.ErrInvalidTransaction)
	case tx.WalletID == uuid.Nil:
		return fmt.Errorf("%w: wallet is required", errs.ErrInvalidTransaction)
	case !tx.Type.Valid():
		return fmt.Errorf("%w: type must be income or expense", errs.ErrInvalidTransaction)
	case tx.Amount.Sign() <= 0:
		return fmt.Errorf("%w: amount must be positive", errs.ErrInvalidTransaction)
	}
	return nil
}

func (s *service) Save(ctx context.Context, tx finance.Transaction, imagePath string) (finance.Transaction, error) {
	if err := validate(tx); err != nil {
		return finance.Transaction{}, err
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now().UTC()
	}

	if tx.ID != uuid.Nil {
		old, err := s.repo.Transaction(ctx, tx.UserID, tx.ID)
		if errors.Is(err, errs.ErrNotFound) {
			return finance.Transaction{}, errs.ErrTransactionNotFound
		}
		if err != nil {
			return finance.Transaction{}, fmt.Errorf("load transaction: %w", err)
		}
		// Balance math only runs when something balance-affecting changed;
		// a description or category edit touches no wallet.
		if old.Type != tx.Type || !old.Amount.Equal(tx.Amount) || old.WalletID != tx.WalletID {
			if err := s.recon.RevertAndReapply(ctx, old, tx.Amount, tx.Type, tx.WalletID); err != nil {
				return finance.Transaction{}, err
			}
		}
		if tx.ImageURL == "" {
			tx.ImageURL = old.ImageURL
		}
	} else {
		if err := s.recon.ApplyNew(ctx, tx.UserID, tx.WalletID, tx.Amount, tx.Type); err != nil {
			return finance.Transaction{}, err
		}
		tx.ID = uuid.New()
	}

	if imagePath != "" {
		// A failed upload aborts the save. The balance mutation above is not
		// rolled back; the wallet stays adjusted until the client retries.
		if s.uploader == nil {
			return finance.Transaction{}, fmt.Errorf("%w: no uploader configured", errs.ErrUploadFailed)
		}
		url, err := s.uploader.Upload(ctx, imagePath, "transactions")
		if err != nil {
			return finance.Transaction{}, fmt.Errorf("%w: %v", errs.ErrUploadFailed, err)
		}
		tx.ImageURL = url
	}

	saved, err := s.writer.UpsertTransaction(ctx, tx)
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("persist transaction: %w", err)
	}

	s.notifyOwner(ctx, saved)
	return saved, nil
}

// notifyOwner sends a best-effort push to the transaction's owner. Nothing
// here may fail the save.
func (s *service) notifyOwner(ctx context.Context, tx finance.Transaction) {
	if s.sender == nil {
		return
	}
	user, err := s.repo.User(ctx, tx.UserID)
	if err != nil {
		s.log.Warn("skipping notification, user lookup failed", "user_id", tx.UserID, "error", err)
		return
	}
	if !user.NotificationsEnabled || user.PushToken == "" {
		return
	}
	title := "Transaction recorded"
	body := fmt.Sprintf("%s of %s saved to your wallet", tx.Type, tx.Amount.StringFixed(2))
	if err := s.sender.Send(ctx, user.PushToken, title, body); err != nil {
		s.log.Error("failed to send push notification", "user_id", tx.UserID, "error", err)
	}
}

func (s *service) Delete(ctx context.Context, userID, txID uuid.UUID) error {
	tx, err := s.repo.Transaction(ctx, userID, txID)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.ErrTransactionNotFound
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}
	// Wallet first, document second: a crash in between over-corrects the
	// wallet but never orphans the transaction record.
	if err := s.recon.RevertOnDelete(ctx, tx); err != nil {
		return err
	}
	if err := s.writer.DeleteTransaction(ctx, txID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, walletID *uuid.UUID) ([]finance.Transaction, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrInvalid
	}
	if walletID != nil {
		return s.repo.TransactionsByWallet(ctx, userID, *walletID)
	}
	return s.repo.TransactionsByUser(ctx, userID)
}
