// Package ranking defines the leaderboard time filters and their ordering
// semantics.
package ranking

import (
	"strings"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
)

// TimeFilter selects which accumulation window a leaderboard query orders by.
type TimeFilter string

const (
	FilterDaily   TimeFilter = "daily"
	FilterWeekly  TimeFilter = "weekly"
	FilterMonthly TimeFilter = "monthly"
	FilterAllTime TimeFilter = "alltime"
)

// DefaultLimit is the page size for top queries.
const DefaultLimit = 50

// ParseTimeFilter normalizes a query-string filter value. An empty value
// defaults to the all-time board.
func ParseTimeFilter(value string) (TimeFilter, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "":
		return FilterAllTime, nil
	case string(FilterDaily), string(FilterWeekly), string(FilterMonthly), string(FilterAllTime):
		return TimeFilter(normalized), nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeBoardInvalidFilter, "unknown time filter", map[string]string{
			"filter": value,
		})
	}
}

// SortColumn maps the filter to the board entry column it orders by.
func (f TimeFilter) SortColumn() string {
	switch f {
	case FilterDaily:
		return "steps_today"
	case FilterWeekly:
		return "steps_week"
	case FilterMonthly:
		return "steps_month"
	default:
		return "total_xp"
	}
}
