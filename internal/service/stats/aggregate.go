package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pocketfin/pocketfin/internal/finance"
)

// noData marks string metrics that have nothing to report.
const noData = "—"

// SummaryMetrics is the derived overview the client shows above the charts.
// Values are display-ready floats; the underlying sums use exact decimals.
type SummaryMetrics struct {
	TotalIncome          float64 `json:"total_income"`
	TotalExpenses        float64 `json:"total_expenses"`
	NetBalance           float64 `json:"net_balance"`
	AvgTransactionAmount float64 `json:"avg_transaction_amount"`
	HighestExpense       float64 `json:"highest_expense"`
	AvgDailySpending     float64 `json:"avg_daily_spending"`
	MostActiveDay        string  `json:"most_active_day"`
	TopSpendingCategory  string  `json:"top_spending_category"`
	TopIncomeSource      string  `json:"top_income_source"`
	ExpenseToIncomeRatio float64 `json:"expense_to_income_ratio"`
}

// Summary computes overview metrics over an arbitrary transaction list. Pure:
// no store access, deterministic for a given input order (ties in the
// first-encountered winners resolve by input order).
func Summary(txs []finance.Transaction) SummaryMetrics {
	if len(txs) == 0 {
		return SummaryMetrics{MostActiveDay: noData, TopSpendingCategory: noData, TopIncomeSource: noData}
	}

	totalIncome, totalExpenses, highestExpense := decimal.Zero, decimal.Zero, decimal.Zero
	dailySpend := map[string]decimal.Decimal{}

	dayCounts := map[string]int{}
	var dayOrder []string

	catTotals := map[finance.TransactionType]map[string]decimal.Decimal{
		finance.TypeIncome:  {},
		finance.TypeExpense: {},
	}
	catOrder := map[finance.TransactionType][]string{}

	for _, tx := range txs {
		day := tx.Date.Format("2006-01-02")
		if _, seen := dayCounts[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		dayCounts[day]++

		switch tx.Type {
		case finance.TypeIncome:
			totalIncome = totalIncome.Add(tx.Amount)
		case finance.TypeExpense:
			totalExpenses = totalExpenses.Add(tx.Amount)
			if tx.Amount.GreaterThan(highestExpense) {
				highestExpense = tx.Amount
			}
			dailySpend[day] = dailySpend[day].Add(tx.Amount)
		}

		if tx.Category != "" && tx.Type.Valid() {
			if _, seen := catTotals[tx.Type][tx.Category]; !seen {
				catOrder[tx.Type] = append(catOrder[tx.Type], tx.Category)
			}
			catTotals[tx.Type][tx.Category] = catTotals[tx.Type][tx.Category].Add(tx.Amount)
		}
	}

	count := decimal.NewFromInt(int64(len(txs)))
	avgTx := totalIncome.Add(totalExpenses).Div(count)

	avgDaily := decimal.Zero
	if n := len(dailySpend); n > 0 {
		avgDaily = totalExpenses.Div(decimal.NewFromInt(int64(n)))
	}

	// Most active day: stable sort by count descending keeps first-encountered
	// order among ties.
	days := make([]string, len(dayOrder))
	copy(days, dayOrder)
	sort.SliceStable(days, func(i, j int) bool { return dayCounts[days[i]] > dayCounts[days[j]] })
	mostActiveDay := days[0]

	ratio := 0.0
	if totalIncome.Sign() > 0 {
		ratio = totalExpenses.Div(totalIncome).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return SummaryMetrics{
		TotalIncome:          totalIncome.InexactFloat64(),
		TotalExpenses:        totalExpenses.InexactFloat64(),
		NetBalance:           totalIncome.Sub(totalExpenses).InexactFloat64(),
		AvgTransactionAmount: avgTx.InexactFloat64(),
		HighestExpense:       highestExpense.InexactFloat64(),
		AvgDailySpending:     avgDaily.InexactFloat64(),
		MostActiveDay:        mostActiveDay,
		TopSpendingCategory:  topCategory(catTotals[finance.TypeExpense], catOrder[finance.TypeExpense]),
		TopIncomeSource:      topCategory(catTotals[finance.TypeIncome], catOrder[finance.TypeIncome]),
		ExpenseToIncomeRatio: ratio,
	}
}

// topCategory returns the category with the largest summed amount; ties keep
// the first-encountered category. Empty input yields the no-data marker.
func topCategory(totals map[string]decimal.Decimal, order []string) string {
	if len(order) == 0 {
		return noData
	}
	best := order[0]
	for _, c := range order[1:] {
		if totals[c].GreaterThan(totals[best]) {
			best = c
		}
	}
	return best
}

// CategoryTotal is one slice of the per-category breakdown.
type CategoryTotal struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// GroupByCategory sums amounts per category value for the given type. The
// result preserves first-encountered category order.
func GroupByCategory(txs []finance.Transaction, typ finance.TransactionType) []CategoryTotal {
	totals := map[string]decimal.Decimal{}
	var order []string
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryTotal{Name: name, Amount: totals[name].InexactFloat64()})
	}
	return out
}
