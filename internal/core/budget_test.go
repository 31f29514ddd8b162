package core

import (
	"testing"
	"time"
)

func mkTx(id int64, typ TransactionType, category, description string, cents int64, created time.Time) Transaction {
	return Transaction{
		ID:          id,
		UserID:      1,
		Type:        typ,
		Category:    category,
		Description: description,
		Amount:      Money{Cents: cents},
		CreatedAt:   created,
	}
}

func TestSummarizeTotals(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{
		mkTx(1, TypeIncome, "Salary", "March salary", 100000, now.AddDate(0, 0, -1)),
		mkTx(2, TypeExpense, "Food & Dining", "Groceries", 30000, now),
	}

	s := Summarize(txs, DefaultFilters(), now)

	if s.TotalIncome.Cents != 100000 {
		t.Errorf("TotalIncome = %d, want 100000", s.TotalIncome.Cents)
	}
	if s.TotalExpenses.Cents != 30000 {
		t.Errorf("TotalExpenses = %d, want 30000", s.TotalExpenses.Cents)
	}
	if s.Balance.Cents != 70000 {
		t.Errorf("Balance = %d, want 70000", s.Balance.Cents)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	now := time.Now()
	s := Summarize(nil, DefaultFilters(), now)

	if s.TotalIncome.Cents != 0 || s.TotalExpenses.Cents != 0 || s.Balance.Cents != 0 {
		t.Errorf("empty collection should yield zero totals, got %+v", s)
	}
	if len(s.Filtered) != 0 {
		t.Errorf("Filtered = %v, want empty", s.Filtered)
	}
	if len(s.CategoryBreakdown) != 0 {
		t.Errorf("CategoryBreakdown = %v, want empty", s.CategoryBreakdown)
	}
	if len(s.MonthlyData) != 0 {
		t.Errorf("MonthlyData = %v, want empty", s.MonthlyData)
	}
}

func TestTotalsIgnoreFilters(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{
		mkTx(1, TypeIncome, "Salary", "Salary", 50000, now),
		mkTx(2, TypeExpense, "Food & Dining", "Lunch", 1500, now),
		mkTx(3, TypeExpense, "Transport", "Bus pass", 4000, now),
	}

	f := DefaultFilters()
	f.Type = string(TypeExpense)
	f.Category = "Transport"
	s := Summarize(txs, f, now)

	if len(s.Filtered) != 1 || s.Filtered[0].ID != 3 {
		t.Fatalf("Filtered = %v, want only tx 3", s.Filtered)
	}
	// Headline totals always cover the whole collection.
	if s.TotalIncome.Cents != 50000 || s.TotalExpenses.Cents != 5500 {
		t.Errorf("totals = %d/%d, want 50000/5500", s.TotalIncome.Cents, s.TotalExpenses.Cents)
	}
}

func TestFilterChain(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{
		mkTx(1, TypeExpense, "Food & Dining", "Morning coffee", 450, now.AddDate(0, 0, -1)),
		mkTx(2, TypeExpense, "Food & Dining", "Dinner out", 3500, now.AddDate(0, 0, -2)),
		mkTx(3, TypeIncome, "Salary", "Coffee shop wages", 80000, now.AddDate(0, 0, -3)),
		mkTx(4, TypeExpense, "Shopping", "New coffee maker", 6000, now.AddDate(0, -2, 0)),
	}

	tests := []struct {
		name    string
		mutate  func(*Filters)
		wantIDs []int64
	}{
		{
			name:    "default keeps everything newest first",
			mutate:  func(f *Filters) {},
			wantIDs: []int64{1, 2, 3, 4},
		},
		{
			name:    "type filter",
			mutate:  func(f *Filters) { f.Type = string(TypeIncome) },
			wantIDs: []int64{3},
		},
		{
			name:    "category filter",
			mutate:  func(f *Filters) { f.Category = "Food & Dining" },
			wantIDs: []int64{1, 2},
		},
		{
			name:    "search is case-insensitive",
			mutate:  func(f *Filters) { f.Search = "COFFEE" },
			wantIDs: []int64{1, 3, 4},
		},
		{
			name: "search and type combine",
			mutate: func(f *Filters) {
				f.Search = "coffee"
				f.Type = string(TypeExpense)
			},
			wantIDs: []int64{1, 4},
		},
		{
			name:    "week range drops older rows",
			mutate:  func(f *Filters) { f.DateRange = DateRangeWeek },
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "oldest sort reverses order",
			mutate:  func(f *Filters) { f.Sort = SortOldest },
			wantIDs: []int64{4, 3, 2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilters()
			tt.mutate(&f)

			s := Summarize(txs, f, now)

			if len(s.Filtered) != len(tt.wantIDs) {
				t.Fatalf("got %d transactions, want %d: %v", len(s.Filtered), len(tt.wantIDs), s.Filtered)
			}
			for i, want := range tt.wantIDs {
				if s.Filtered[i].ID != want {
					t.Errorf("Filtered[%d].ID = %d, want %d", i, s.Filtered[i].ID, want)
				}
			}
		})
	}
}

func TestDateRangePredicates(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		created   time.Time
		dateRange string
		want      bool
	}{
		{"today matches same day", now.Add(-3 * time.Hour), DateRangeToday, true},
		{"today rejects yesterday", now.AddDate(0, 0, -1), DateRangeToday, false},
		{"week includes boundary", now.AddDate(0, 0, -7), DateRangeWeek, true},
		{"week rejects eight days ago", now.AddDate(0, 0, -8), DateRangeWeek, false},
		{"week rejects future", now.Add(time.Hour), DateRangeWeek, false},
		{"month matches same calendar month", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), DateRangeMonth, true},
		{"month rejects previous month", time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), DateRangeMonth, false},
		{"year matches same year", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), DateRangeYear, true},
		{"year rejects previous year", time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), DateRangeYear, false},
		{"all matches everything", time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC), FilterAll, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inDateRange(tt.created, tt.dateRange, now); got != tt.want {
				t.Errorf("inDateRange(%v, %q) = %v, want %v", tt.created, tt.dateRange, got, tt.want)
			}
		})
	}
}

func TestCategoryBreakdown(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{
		mkTx(1, TypeExpense, "Food & Dining", "Lunch", 2000, now),
		mkTx(2, TypeExpense, "Transport", "Taxi", 5000, now),
		mkTx(3, TypeExpense, "Food & Dining", "Dinner", 4000, now),
		mkTx(4, TypeIncome, "Salary", "Salary", 100000, now),
		mkTx(5, TypeExpense, "Shopping", "Socks", 1000, now),
	}

	got := Summarize(txs, DefaultFilters(), now).CategoryBreakdown

	want := []CategoryAmount{
		{Category: "Food & Dining", Amount: Money{Cents: 6000}},
		{Category: "Transport", Amount: Money{Cents: 5000}},
		{Category: "Shopping", Amount: Money{Cents: 1000}},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d: %v", len(got), len(want), got)
	}
	var sum int64
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("breakdown[%d] = %+v, want %+v", i, got[i], want[i])
		}
		sum += got[i].Amount.Cents
	}
	if sum != 12000 {
		t.Errorf("breakdown sum = %d, want total expenses 12000", sum)
	}
}

func TestCategoryBreakdownTieOrderStable(t *testing.T) {
	now := time.Now()
	txs := []Transaction{
		mkTx(1, TypeExpense, "Utilities", "Power", 3000, now),
		mkTx(2, TypeExpense, "Healthcare", "Pharmacy", 3000, now),
	}

	got := categoryBreakdown(txs)

	if len(got) != 2 || got[0].Category != "Utilities" || got[1].Category != "Healthcare" {
		t.Errorf("tied categories should keep first-seen order, got %v", got)
	}
}

func TestMonthlyData(t *testing.T) {
	mk := func(id int64, typ TransactionType, cents int64, year int, month time.Month) Transaction {
		return mkTx(id, typ, "Other", "x", cents, time.Date(year, month, 10, 0, 0, 0, 0, time.UTC))
	}

	// Eight distinct months; only the latest six survive.
	txs := []Transaction{
		mk(1, TypeExpense, 100, 2025, time.August),
		mk(2, TypeExpense, 200, 2025, time.September),
		mk(3, TypeIncome, 300, 2025, time.October),
		mk(4, TypeExpense, 400, 2025, time.November),
		mk(5, TypeIncome, 500, 2025, time.December),
		mk(6, TypeExpense, 600, 2026, time.January),
		mk(7, TypeIncome, 700, 2026, time.February),
		mk(8, TypeExpense, 800, 2026, time.March),
		mk(9, TypeIncome, 900, 2026, time.March),
	}

	got := monthlyData(txs)

	if len(got) != 6 {
		t.Fatalf("got %d buckets, want 6: %v", len(got), got)
	}
	if got[0].Month != "2025-10" || got[5].Month != "2026-03" {
		t.Errorf("bucket range = %s..%s, want 2025-10..2026-03", got[0].Month, got[5].Month)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Month <= got[i-1].Month {
			t.Errorf("buckets not ascending: %s after %s", got[i].Month, got[i-1].Month)
		}
	}
	last := got[5]
	if last.Income.Cents != 900 || last.Expense.Cents != 800 {
		t.Errorf("2026-03 = income %d / expense %d, want 900/800", last.Income.Cents, last.Expense.Cents)
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{
		mkTx(1, TypeExpense, "Food & Dining", "Older", 100, now.AddDate(0, 0, -2)),
		mkTx(2, TypeExpense, "Food & Dining", "Newer", 200, now),
	}

	Summarize(txs, DefaultFilters(), now)

	if txs[0].ID != 1 || txs[1].ID != 2 {
		t.Errorf("input slice reordered: %v", txs)
	}
}

func TestDefaultFilters(t *testing.T) {
	f := DefaultFilters()
	want := Filters{Type: FilterAll, Category: FilterAll, Search: "", DateRange: FilterAll, Sort: SortNewest}
	if f != want {
		t.Errorf("DefaultFilters() = %+v, want %+v", f, want)
	}
}
