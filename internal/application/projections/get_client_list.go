package projections

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"gymdesk/internal/adapters/storage/client"
	"gymdesk/internal/application/listutil"
	"gymdesk/internal/domain/access"
	domainClient "gymdesk/internal/domain/client"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxClientScan bounds how many rows a filtered listing reads before paging.
const maxClientScan = 10000

// GetClientListQuery carries query parameters.
type GetClientListQuery struct {
	Search  string // matched against name, cedula, email and phone; accents ignored
	Status  string // stored administrative status, empty for all
	Sort    string
	Dir     string
	Page    int
	PerPage int
}

// ClientListRow is one client with the badge computed for today.
type ClientListRow struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Cedula         string  `json:"cedula"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone"`
	MembershipType string  `json:"membershipType"`
	EndDate        string  `json:"endDate"`
	Status         string  `json:"status"`
	Debt           float64 `json:"debt"`
	Badge          string  `json:"badge"`
	DaysPastDue    *int    `json:"daysPastDue,omitempty"`
}

// GetClientListResult carries the query result.
type GetClientListResult struct {
	Clients   []ClientListRow   `json:"clients"`
	Page      listutil.PageInfo `json:"page"`
	GraceDays int               `json:"graceDays"`
}

// GetClientListDeps holds dependencies for GetClientList.
type GetClientListDeps struct {
	ClientStore ClientStore
	GraceDays   GraceDaysProvider
	Now         func() time.Time // optional, defaults to time.Now
}

// QueryGetClientList lists clients with a status badge computed by the access evaluator.
// PRE: Valid query parameters
// POST: Returns one page of matching clients; Page.Total counts all matches
// INVARIANT: A client whose end date cannot be read gets BadgeUnknown, never a grant or deny badge
func QueryGetClientList(ctx context.Context, query GetClientListQuery, deps GetClientListDeps) (GetClientListResult, error) {
	today := nowFunc(deps.Now)()

	graceDays, err := deps.GraceDays.GraceDays(ctx)
	if err != nil {
		return GetClientListResult{}, fmt.Errorf("read grace days: %w", err)
	}

	filter := client.ListFilter{Status: query.Status, Sort: query.Sort, Dir: query.Dir}
	search := foldForSearch(query.Search)

	var matches []domainClient.Client
	var total int
	if search == "" {
		// Unfiltered listings page in SQL.
		total, err = deps.ClientStore.Count(ctx, filter)
		if err != nil {
			return GetClientListResult{}, err
		}
		info := listutil.NewPageInfo(query.Page, query.PerPage, total)
		filter.Limit = info.PerPage
		filter.Offset = info.Offset()
		matches, err = deps.ClientStore.List(ctx, filter)
		if err != nil {
			return GetClientListResult{}, err
		}
		return GetClientListResult{Clients: toRows(matches, graceDays, today), Page: info, GraceDays: graceDays}, nil
	}

	filter.Limit = maxClientScan
	all, err := deps.ClientStore.List(ctx, filter)
	if err != nil {
		return GetClientListResult{}, err
	}
	for _, c := range all {
		if matchesSearch(c, search) {
			matches = append(matches, c)
		}
	}
	total = len(matches)
	info := listutil.NewPageInfo(query.Page, query.PerPage, total)
	start, end := info.Bounds()

	return GetClientListResult{
		Clients:   toRows(matches[start:end], graceDays, today),
		Page:      info,
		GraceDays: graceDays,
	}, nil
}

func toRows(clients []domainClient.Client, graceDays int, today time.Time) []ClientListRow {
	rows := make([]ClientListRow, 0, len(clients))
	for _, c := range clients {
		row := ClientListRow{
			ID:             c.ID,
			Name:           c.FullName(),
			Cedula:         c.Cedula,
			Email:          c.Email,
			Phone:          c.Phone,
			MembershipType: c.MembershipType,
			EndDate:        c.EndDate,
			Status:         c.Status,
			Debt:           c.Debt,
			Badge:          access.BadgeUnknown,
		}
		if d, err := access.Evaluate(c, graceDays, today); err == nil {
			row.Badge = d.Badge()
			days := d.DaysPastDue
			row.DaysPastDue = &days
		}
		rows = append(rows, row)
	}
	return rows
}

func matchesSearch(c domainClient.Client, folded string) bool {
	for _, field := range []string{c.FullName(), c.Cedula, c.Email, c.Phone} {
		if field != "" && strings.Contains(foldForSearch(field), folded) {
			return true
		}
	}
	return false
}

// foldForSearch lowercases s and strips combining marks so "José" matches "jose".
func foldForSearch(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
