package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketfin/pocketfin/internal/errs"
	"github.com/pocketfin/pocketfin/internal/finance"
)

// Period selects the aggregation window and bucket granularity.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ParsePeriod validates a client-supplied period string.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return Period(s), nil
	}
	return "", fmt.Errorf("%w: unknown period %q", errs.ErrInvalid, s)
}

// Point is one chart entry. Buckets emit two points each: income (labelled)
// followed by expense (unlabelled), in bucket order.
type Point struct {
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

// Result is the chart-ready series plus the flat list of transactions that
// fed it, ordered date descending.
type Result struct {
	Stats        []Point               `json:"stats"`
	Transactions []finance.Transaction `json:"transactions"`
}

// Reader defines the read-only store access the aggregator needs.
type Reader interface {
	// TransactionsInWindow returns a user's transactions with from <= date <= to,
	// ordered by date descending.
	TransactionsInWindow(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]finance.Transaction, error)
	// EarliestTransaction returns the user's oldest transaction, or errs.ErrNotFound.
	EarliestTransaction(ctx context.Context, userID uuid.UUID) (finance.Transaction, error)
}

// Service derives time-bucketed income/expense series from the transaction set.
type Service interface {
	FetchPeriodStats(ctx context.Context, userID uuid.UUID, period Period) (Result, error)
}

type service struct {
	repo Reader
	now  func() time.Time
}

func New(repo Reader) Service {
	return &service{repo: repo, now: time.Now}
}

type bucket struct {
	key     string
	label   string
	income  decimal.Decimal
	expense decimal.Decimal
}

func (s *service) FetchPeriodStats(ctx context.Context, userID uuid.UUID, period Period) (Result, error) {
	if userID == uuid.Nil {
		return Result{}, errs.ErrInvalid
	}
	today := s.now().UTC()

	var (
		from    time.Time
		buckets []bucket
		keyFn   func(time.Time) string
	)
	switch period {
	case PeriodWeekly:
		from = today.AddDate(0, 0, -7)
		for d := 6; d >= 0; d-- {
			day := today.AddDate(0, 0, -d)
			buckets = append(buckets, bucket{key: day.Format("2006-01-02"), label: day.Format("Mon")})
		}
		keyFn = func(t time.Time) string { return t.Format("2006-01-02") }
	case PeriodMonthly:
		from = today.AddDate(0, -12, 0)
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		for m := 11; m >= 0; m-- {
			month := first.AddDate(0, -m, 0)
			buckets = append(buckets, bucket{key: month.Format("2006-01"), label: month.Format("Jan 06")})
		}
		keyFn = func(t time.Time) string { return t.Format("2006-01") }
	case PeriodYearly:
		startYear := today.Year()
		earliest, err := s.repo.EarliestTransaction(ctx, userID)
		switch {
		case err == nil:
			if y := earliest.Date.Year(); y < startYear {
				startYear = y
			}
		case errors.Is(err, errs.ErrNotFound):
			// no transactions yet: the range degenerates to the current year
		default:
			return Result{}, fmt.Errorf("find earliest transaction: %w", err)
		}
		from = time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		for y := startYear; y <= today.Year(); y++ {
			label := strconv.Itoa(y)
			buckets = append(buckets, bucket{key: label, label: label})
		}
		keyFn = func(t time.Time) string { return strconv.Itoa(t.Year()) }
	default:
		return Result{}, fmt.Errorf("%w: unknown period %q", errs.ErrInvalid, period)
	}

	txs, err := s.repo.TransactionsInWindow(ctx, userID, from, today)
	if err != nil {
		return Result{}, fmt.Errorf("query transactions: %w", err)
	}

	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b.key] = i
	}
	for _, tx := range txs {
		i, ok := index[keyFn(tx.Date)]
		if !ok {
			continue
		}
		switch tx.Type {
		case finance.TypeIncome:
			buckets[i].income = buckets[i].income.Add(tx.Amount)
		case finance.TypeExpense:
			buckets[i].expense = buckets[i].expense.Add(tx.Amount)
		}
	}

	series := make([]Point, 0, 2*len(buckets))
	for _, b := range buckets {
		series = append(series,
			Point{Value: b.income.InexactFloat64(), Label: b.label},
			Point{Value: b.expense.InexactFloat64()},
		)
	}
	return Result{Stats: series, Transactions: txs}, nil
}
