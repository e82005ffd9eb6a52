// Package sheets defines the optional report mirror: a destination that
// receives consolidated range rows whenever a range export runs, so a shared
// spreadsheet tracks the same figures as the local files.
package sheets

import (
	"context"

	"financas/internal/core"
)

// RangeRow is one month of a consolidated report.
type RangeRow struct {
	Label    string
	Income   core.Money
	Expenses core.Money
	Balance  core.Money
	Forecast core.Money
}

// ReportWriter appends consolidated rows for one user.
type ReportWriter interface {
	AppendRangeRows(ctx context.Context, userName string, rows []RangeRow) error
}
