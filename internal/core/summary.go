package core

// MonthlySummary is the derived balance picture for one calendar month.
// OpeningBalance is fixed at zero: each month is an independent ledger with
// no carry-over from the prior month's closing balance.
type MonthlySummary struct {
	OpeningBalance Money
	CurrentBalance Money
	Forecast       Money
	Income         Money
	Expenses       Money
}

// CategoryAmount is one expense category and its monthly total.
type CategoryAmount struct {
	Category string
	Amount   Money
}

// BalancePoint is one step of the running-balance progression, one per
// transaction in date order.
type BalancePoint struct {
	Date    Date
	Balance Money
}

// ComparisonRow is one month of a multi-month income/expense comparison.
type ComparisonRow struct {
	Label    string
	Income   Money
	Expenses Money
}
