package postgres

// Package postgres provides a pgx-backed storage implementation satisfying
// the repository and writer interfaces used by the services.
//
// It is intentionally small and explicit: mapping between the domain entities
// and SQL rows, plus the statements the reconciler and cascade delete need.
// Amounts travel as text on the wire and numeric in the schema so decimals
// stay exact.

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketfin/pocketfin/internal/errs"
	"github.com/pocketfin/pocketfin/internal/finance"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string and makes
// sure the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		create table if not exists users (
			id uuid primary key,
			name text not null default '',
			push_token text not null default '',
			notifications_enabled boolean not null default false
		);
		create table if not exists wallets (
			id uuid primary key,
			user_id uuid not null,
			name text not null,
			image_url text not null default '',
			balance numeric not null default 0,
			total_income numeric not null default 0,
			total_expenses numeric not null default 0,
			created timestamptz not null default now()
		);
		create index if not exists wallets_user_idx on wallets (user_id, created desc);
		create table if not exists transactions (
			id uuid primary key,
			user_id uuid not null,
			wallet_id uuid not null,
			type text not null,
			amount numeric not null,
			category text not null default '',
			date timestamptz not null,
			description text not null default '',
			image_url text not null default ''
		);
		create index if not exists transactions_user_date_idx on transactions (user_id, date desc);
		create index if not exists transactions_wallet_idx on transactions (wallet_id);
	`)
	return err
}

// --- Users ---

func (s *Store) User(ctx context.Context, userID uuid.UUID) (finance.User, error) {
	var u finance.User
	err := s.pool.QueryRow(ctx, `
		select id, name, push_token, notifications_enabled
		from users where id = $1
	`, userID).Scan(&u.ID, &u.Name, &u.PushToken, &u.NotificationsEnabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.User{}, errs.ErrNotFound
	}
	if err != nil {
		return finance.User{}, err
	}
	return u, nil
}

// CreateUser inserts a user row; used by dev seeding.
func (s *Store) CreateUser(ctx context.Context, u finance.User) (finance.User, error) {
	_, err := s.pool.Exec(ctx, `
		insert into users (id, name, push_token, notifications_enabled)
		values ($1, $2, $3, $4)
	`, u.ID, u.Name, u.PushToken, u.NotificationsEnabled)
	if err != nil {
		return finance.User{}, err
	}
	return u, nil
}

// --- Wallets ---

const walletCols = `id, user_id, name, image_url, balance::text, total_income::text, total_expenses::text, created`

func scanWallet(row pgx.Row) (finance.Wallet, error) {
	var (
		w                 finance.Wallet
		balance, inc, exp string
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.ImageURL, &balance, &inc, &exp, &w.Created); err != nil {
		return finance.Wallet{}, err
	}
	var err error
	if w.Balance, err = decimal.NewFromString(balance); err != nil {
		return finance.Wallet{}, err
	}
	if w.TotalIncome, err = decimal.NewFromString(inc); err != nil {
		return finance.Wallet{}, err
	}
	if w.TotalExpenses, err = decimal.NewFromString(exp); err != nil {
		return finance.Wallet{}, err
	}
	return w, nil
}

func (s *Store) Wallet(ctx context.Context, userID, walletID uuid.UUID) (finance.Wallet, error) {
	row := s.pool.QueryRow(ctx, `
		select `+walletCols+` from wallets where id = $1 and user_id = $2
	`, walletID, userID)
	w, err := scanWallet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Wallet{}, errs.ErrNotFound
	}
	return w, err
}

func (s *Store) WalletsByUserID(ctx context.Context, userID uuid.UUID) ([]finance.Wallet, error) {
	rows, err := s.pool.Query(ctx, `
		select `+walletCols+` from wallets where user_id = $1 order by created desc
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]finance.Wallet, 0)
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) CreateWallet(ctx context.Context, w finance.Wallet) (finance.Wallet, error) {
	_, err := s.pool.Exec(ctx, `
		insert into wallets (id, user_id, name, image_url, balance, total_income, total_expenses, created)
		values ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8)
	`, w.ID, w.UserID, w.Name, w.ImageURL, w.Balance.String(), w.TotalIncome.String(), w.TotalExpenses.String(), w.Created)
	if err != nil {
		return finance.Wallet{}, err
	}
	return w, nil
}

// UpdateWallet persists the client-editable fields only; balances belong to
// UpdateWalletBalances.
func (s *Store) UpdateWallet(ctx context.Context, w finance.Wallet) (finance.Wallet, error) {
	tag, err := s.pool.Exec(ctx, `
		update wallets set name = $2, image_url = $3 where id = $1
	`, w.ID, w.Name, w.ImageURL)
	if err != nil {
		return finance.Wallet{}, err
	}
	if tag.RowsAffected() == 0 {
		return finance.Wallet{}, errs.ErrNotFound
	}
	return w, nil
}

func (s *Store) UpdateWalletBalances(ctx context.Context, walletID uuid.UUID, balance, totalIncome, totalExpenses decimal.Decimal) error {
	tag, err := s.pool.Exec(ctx, `
		update wallets set balance = $2::numeric, total_income = $3::numeric, total_expenses = $4::numeric
		where id = $1
	`, walletID, balance.String(), totalIncome.String(), totalExpenses.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteWallet(ctx context.Context, walletID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `delete from wallets where id = $1`, walletID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Transactions ---

const txCols = `id, user_id, wallet_id, type, amount::text, category, date, description, image_url`

func scanTx(row pgx.Row) (finance.Transaction, error) {
	var (
		tx     finance.Transaction
		amount string
	)
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.WalletID, &tx.Type, &amount, &tx.Category, &tx.Date, &tx.Description, &tx.ImageURL); err != nil {
		return finance.Transaction{}, err
	}
	var err error
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return finance.Transaction{}, err
	}
	return tx, nil
}

func (s *Store) Transaction(ctx context.Context, userID, txID uuid.UUID) (finance.Transaction, error) {
	row := s.pool.QueryRow(ctx, `
		select `+txCols+` from transactions where id = $1 and user_id = $2
	`, txID, userID)
	tx, err := scanTx(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Transaction{}, errs.ErrNotFound
	}
	return tx, err
}

func (s *Store) queryTxs(ctx context.Context, sql string, args ...any) ([]finance.Transaction, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]finance.Transaction, 0)
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *Store) TransactionsByUser(ctx context.Context, userID uuid.UUID) ([]finance.Transaction, error) {
	return s.queryTxs(ctx, `
		select `+txCols+` from transactions where user_id = $1 order by date desc
	`, userID)
}

func (s *Store) TransactionsByWallet(ctx context.Context, userID, walletID uuid.UUID) ([]finance.Transaction, error) {
	return s.queryTxs(ctx, `
		select `+txCols+` from transactions where user_id = $1 and wallet_id = $2 order by date desc
	`, userID, walletID)
}

func (s *Store) TransactionsInWindow(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]finance.Transaction, error) {
	return s.queryTxs(ctx, `
		select `+txCols+` from transactions
		where user_id = $1 and date >= $2 and date <= $3
		order by date desc
	`, userID, from, to)
}

func (s *Store) EarliestTransaction(ctx context.Context, userID uuid.UUID) (finance.Transaction, error) {
	row := s.pool.QueryRow(ctx, `
		select `+txCols+` from transactions where user_id = $1 order by date asc limit 1
	`, userID)
	tx, err := scanTx(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Transaction{}, errs.ErrNotFound
	}
	return tx, err
}

func (s *Store) TransactionIDsByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		select id from transactions where wallet_id = $1 limit $2
	`, walletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) UpsertTransaction(ctx context.Context, tx finance.Transaction) (finance.Transaction, error) {
	_, err := s.pool.Exec(ctx, `
		insert into transactions (id, user_id, wallet_id, type, amount, category, date, description, image_url)
		values ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
		on conflict (id) do update set
			wallet_id = excluded.wallet_id,
			type = excluded.type,
			amount = excluded.amount,
			category = excluded.category,
			date = excluded.date,
			description = excluded.description,
			image_url = excluded.image_url
	`, tx.ID, tx.UserID, tx.WalletID, tx.Type, tx.Amount.String(), tx.Category, tx.Date, tx.Description, tx.ImageURL)
	if err != nil {
		return finance.Transaction{}, err
	}
	return tx, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, txID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `delete from transactions where id = $1`, txID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteTransactions removes one batch atomically inside a transaction.
func (s *Store) DeleteTransactions(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	dbTx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = dbTx.Rollback(ctx) }()
	if _, err := dbTx.Exec(ctx, `delete from transactions where id = any($1)`, ids); err != nil {
		return err
	}
	return dbTx.Commit(ctx)
}

// SeedDev inserts a user and one wallet for quick local testing.
func (s *Store) SeedDev(ctx context.Context) (finance.User, finance.Wallet, error) {
	user := finance.User{ID: uuid.New(), Name: "Dev User"}
	if _, err := s.CreateUser(ctx, user); err != nil {
		return finance.User{}, finance.Wallet{}, err
	}
	wallet := finance.Wallet{
		ID:            uuid.New(),
		UserID:        user.ID,
		Name:          "Cash",
		Balance:       decimal.Zero,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		Created:       time.Now().UTC(),
	}
	if _, err := s.CreateWallet(ctx, wallet); err != nil {
		return finance.User{}, finance.Wallet{}, err
	}
	return user, wallet, nil
}
