package core

import (
	"sort"
	"strings"
	"time"
)

// Filter values. "all" disables the corresponding predicate.
const (
	FilterAll = "all"

	DateRangeToday = "today"
	DateRangeWeek  = "week"
	DateRangeMonth = "month"
	DateRangeYear  = "year"

	SortNewest = "newest"
	SortOldest = "oldest"
)

// Filters are the five client-held view parameters applied to a
// transaction collection.
type Filters struct {
	Type      string `json:"type"`
	Category  string `json:"category"`
	Search    string `json:"search"`
	DateRange string `json:"dateRange"`
	Sort      string `json:"sort"`
}

// DefaultFilters returns the view parameters a fresh client starts with.
func DefaultFilters() Filters {
	return Filters{
		Type:      FilterAll,
		Category:  FilterAll,
		Search:    "",
		DateRange: FilterAll,
		Sort:      SortNewest,
	}
}

// CategoryAmount is an expense total aggregated by category name.
type CategoryAmount struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
}

// MonthlyBucket accumulates income and expense totals for one calendar month.
type MonthlyBucket struct {
	Month   string `json:"month"` // "YYYY-MM"
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
}

// BudgetSummary is everything a dashboard needs, derived from a raw
// transaction collection plus the active filters.
//
// TotalIncome, TotalExpenses and Balance are global: they ignore the
// filters entirely and always cover the whole collection.
type BudgetSummary struct {
	TotalIncome       Money            `json:"totalIncome"`
	TotalExpenses     Money            `json:"totalExpenses"`
	Balance           Money            `json:"balance"`
	Filtered          []Transaction    `json:"filteredTransactions"`
	CategoryBreakdown []CategoryAmount `json:"categoryBreakdown"`
	MonthlyData       []MonthlyBucket  `json:"monthlyData"`
}

// Summarize derives the presentation-ready aggregates from txs.
//
// It is pure: txs is never mutated, and the result is fully determined by
// (txs, f, now). Date-range predicates are evaluated against now so callers
// control the clock.
func Summarize(txs []Transaction, f Filters, now time.Time) BudgetSummary {
	s := BudgetSummary{
		Filtered:          filterTransactions(txs, f, now),
		CategoryBreakdown: categoryBreakdown(txs),
		MonthlyData:       monthlyData(txs),
	}
	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			s.TotalIncome.Cents += t.Amount.Cents
		case TypeExpense:
			s.TotalExpenses.Cents += t.Amount.Cents
		}
	}
	s.Balance.Cents = s.TotalIncome.Cents - s.TotalExpenses.Cents
	return s
}

func filterTransactions(txs []Transaction, f Filters, now time.Time) []Transaction {
	search := strings.ToLower(f.Search)
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Type != "" && f.Type != FilterAll && string(t.Type) != f.Type {
			continue
		}
		if f.Category != "" && f.Category != FilterAll && t.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if !inDateRange(t.CreatedAt, f.DateRange, now) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Sort == SortOldest {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func inDateRange(created time.Time, dateRange string, now time.Time) bool {
	switch dateRange {
	case DateRangeToday:
		y1, m1, d1 := created.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case DateRangeWeek:
		// Within the last 7 days, inclusive.
		return !created.Before(now.AddDate(0, 0, -7)) && !created.After(now)
	case DateRangeMonth:
		return created.Year() == now.Year() && created.Month() == now.Month()
	case DateRangeYear:
		return created.Year() == now.Year()
	default:
		return true
	}
}

// categoryBreakdown sums expense amounts per category, most expensive first.
// Ties keep the order categories were first seen in txs, so the output is
// stable for a given input.
func categoryBreakdown(txs []Transaction) []CategoryAmount {
	sums := make(map[string]int64)
	var order []string
	for _, t := range txs {
		if t.Type != TypeExpense {
			continue
		}
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		sums[t.Category] += t.Amount.Cents
	}

	out := make([]CategoryAmount, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryAmount{Category: cat, Amount: Money{Cents: sums[cat]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

const maxMonthlyBuckets = 6

// monthlyData buckets every transaction by calendar month of creation and
// keeps the most recent maxMonthlyBuckets buckets, chronologically ascending.
func monthlyData(txs []Transaction) []MonthlyBucket {
	buckets := make(map[string]*MonthlyBucket)
	for _, t := range txs {
		key := t.CreatedAt.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyBucket{Month: key}
			buckets[key] = b
		}
		if t.Type == TypeIncome {
			b.Income.Cents += t.Amount.Cents
		} else {
			b.Expense.Cents += t.Amount.Cents
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxMonthlyBuckets {
		keys = keys[len(keys)-maxMonthlyBuckets:]
	}

	out := make([]MonthlyBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	return out
}
