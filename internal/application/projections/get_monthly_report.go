package projections

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainPayment "gymdesk/internal/domain/payment"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidYear is returned for report years outside the supported range.
var ErrInvalidYear = errors.New("report year must be between 2000 and 9999")

// GetMonthlyReportQuery carries query parameters.
type GetMonthlyReportQuery struct {
	Year int // zero means the current year
}

// MonthRevenue is one row of the monthly report.
type MonthRevenue struct {
	Month     int     `json:"month"`
	Name      string  `json:"name"`
	Total     float64 `json:"total"`
	Formatted string  `json:"formatted"`
}

// GetMonthlyReportResult carries the query result.
type GetMonthlyReportResult struct {
	Year           int            `json:"year"`
	Months         []MonthRevenue `json:"months"`
	Total          float64        `json:"total"`
	FormattedTotal string         `json:"formattedTotal"`
}

// GetMonthlyReportDeps holds dependencies for GetMonthlyReport.
type GetMonthlyReportDeps struct {
	PaymentStore PaymentStore
	Language     language.Tag     // optional, defaults to English
	Now          func() time.Time // optional, defaults to time.Now
}

// QueryGetMonthlyReport totals payments per calendar month for one year.
// PRE: Year is zero or within [2000, 9999]
// POST: Months has exactly 12 rows, January first; Total is their sum
// INVARIANT: Payments are bucketed by their date in the local time zone of Now
func QueryGetMonthlyReport(ctx context.Context, query GetMonthlyReportQuery, deps GetMonthlyReportDeps) (GetMonthlyReportResult, error) {
	now := nowFunc(deps.Now)()
	year := query.Year
	if year == 0 {
		year = now.Year()
	}
	if year < 2000 || year > 9999 {
		return GetMonthlyReportResult{}, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	loc := now.Location()
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(1, 0, 0)
	payments, err := deps.PaymentStore.ListBetween(ctx, from, to)
	if err != nil {
		return GetMonthlyReportResult{}, fmt.Errorf("list payments for %d: %w", year, err)
	}
	for i := range payments {
		payments[i].Date = payments[i].Date.In(loc)
	}

	lang := deps.Language
	if lang == language.Und {
		lang = language.English
	}
	p := message.NewPrinter(lang)

	result := GetMonthlyReportResult{Year: year}
	for _, mt := range domainPayment.SumByMonth(payments, year) {
		result.Months = append(result.Months, MonthRevenue{
			Month:     int(mt.Month),
			Name:      mt.Month.String(),
			Total:     mt.Total,
			Formatted: FormatCurrency(p, mt.Total),
		})
		result.Total += mt.Total
	}
	result.FormattedTotal = FormatCurrency(p, result.Total)
	return result, nil
}

// FormatCurrency renders an amount with two decimals and locale digit grouping.
func FormatCurrency(p *message.Printer, amount float64) string {
	return p.Sprintf("$%.2f", amount)
}
