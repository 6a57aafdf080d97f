package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/labasubagia22/money-app-api/internal/domain"
	"github.com/shopspring/decimal"
)

// catalog is an in-memory snapshot of a user's categories, keyed by id.
// It is rebuilt per query; categories are immutable while it lives.
type catalog map[uuid.UUID]*domain.Category

// buildCatalog indexes categories by id. A category with an unknown type is
// a configuration error and fails the whole query rather than defaulting a
// sign.
func buildCatalog(categories []*domain.Category) (catalog, error) {
	cat := make(catalog, len(categories))
	for _, c := range categories {
		if !c.Type.Valid() {
			return nil, fmt.Errorf("category %s has type %q: %w", c.ID, c.Type, domain.ErrInvalidCategoryType)
		}
		cat[c.ID] = c
	}
	return cat, nil
}

// enrich joins a cash flow to its category. The second return value reports
// whether the join matched; a dangling category id drops the entry, it never
// produces a null-category row.
func enrich(cf *domain.CashFlow, cat catalog) (*domain.CashFlowDetail, bool) {
	category, ok := cat[cf.CategoryID]
	if !ok {
		return nil, false
	}
	return &domain.CashFlowDetail{
		CashFlow:     *cf,
		CategoryName: category.Name,
		CategoryType: category.Type,
		SignedAmount: domain.SignedAmount(cf.Amount, category.Type),
	}, true
}

// enrichAll enriches every cash flow, silently excluding entries whose
// category id does not resolve.
func enrichAll(cashFlows []*domain.CashFlow, cat catalog) []*domain.CashFlowDetail {
	details := make([]*domain.CashFlowDetail, 0, len(cashFlows))
	for _, cf := range cashFlows {
		if detail, ok := enrich(cf, cat); ok {
			details = append(details, detail)
		}
	}
	return details
}

// inRange reports whether the date falls inside the inclusive window.
// Bounds must already be normalized to start-of-day / end-of-day.
func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// summarize reduces a user's cash flows to the four facet sums. Facets
// overlap: every enriched entry counts toward the all-time balance, entries
// inside the window also count toward the in-range balance and exactly one
// of the income/expense facets. Empty facets sum to exact zero.
func summarize(cashFlows []*domain.CashFlow, cat catalog, start, end time.Time) *domain.CashFlowSummary {
	summary := &domain.CashFlowSummary{
		Balance:        decimal.Zero,
		BalanceInRange: decimal.Zero,
		IncomeInRange:  decimal.Zero,
		ExpenseInRange: decimal.Zero,
	}

	for _, detail := range enrichAll(cashFlows, cat) {
		summary.Balance = summary.Balance.Add(detail.SignedAmount)

		if !inRange(detail.Date, start, end) {
			continue
		}
		summary.BalanceInRange = summary.BalanceInRange.Add(detail.SignedAmount)
		if detail.CategoryType == domain.CategoryTypeIncome {
			summary.IncomeInRange = summary.IncomeInRange.Add(detail.SignedAmount)
		} else {
			summary.ExpenseInRange = summary.ExpenseInRange.Add(detail.SignedAmount)
		}
	}

	return summary
}

// sortDetails orders listing results by date descending, breaking ties by
// name ascending.
func sortDetails(details []*domain.CashFlowDetail) {
	sort.SliceStable(details, func(i, j int) bool {
		if !details[i].Date.Equal(details[j].Date) {
			return details[i].Date.After(details[j].Date)
		}
		return details[i].Name < details[j].Name
	})
}
