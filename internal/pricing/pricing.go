// internal/pricing/pricing.go
package pricing

import (
	"fmt"

	"leadcredit/internal/util"

	"github.com/shopspring/decimal"
)

// ExclusivePremium is the additional price of an exclusive allocation.
const ExclusivePremium int64 = 10

// MaxCompetitionLevel is the loosest sharing level a buyer can request.
const MaxCompetitionLevel = 4

type band struct {
	upTo    decimal.Decimal // inclusive upper bound
	credits int64
}

var (
	firstBandLimit = decimal.NewFromInt(20000)

	bands = []band{
		{upTo: decimal.NewFromInt(30000), credits: 2},
		{upTo: decimal.NewFromInt(50000), credits: 3},
		{upTo: decimal.NewFromInt(100000), credits: 4},
	}
)

// BasePrice returns the base credits for a project value. The first band is
// open on its upper edge (< 20000), every following band is closed.
func BasePrice(projectValue decimal.Decimal) int64 {
	if projectValue.LessThan(firstBandLimit) {
		return 1
	}
	for _, b := range bands {
		if projectValue.LessThanOrEqual(b.upTo) {
			return b.credits
		}
	}
	return 5
}

// AdditionalPrice returns the competition surcharge. Lower levels allow fewer
// co-buyers and cost more.
func AdditionalPrice(level int, exclusive bool) (int64, error) {
	if exclusive {
		return ExclusivePremium, nil
	}
	switch level {
	case 4:
		return 1, nil
	case 3:
		return 2, nil
	case 2:
		return 3, nil
	case 1:
		return 4, nil
	}
	return 0, fmt.Errorf("pricing: level %d: %w", level, util.ErrInvalidCompetitionLevel)
}

// TotalCost is BasePrice plus AdditionalPrice.
func TotalCost(projectValue decimal.Decimal, level int, exclusive bool) (int64, error) {
	extra, err := AdditionalPrice(level, exclusive)
	if err != nil {
		return 0, err
	}
	return BasePrice(projectValue) + extra, nil
}

// Describe returns a human readable label for a competition choice.
func Describe(level int, exclusive bool) string {
	if exclusive {
		return "Exclusive (only your company)"
	}
	switch level {
	case 4:
		return "Shared with up to 4 other companies"
	case 3:
		return "Shared with up to 3 other companies"
	case 2:
		return "Shared with up to 2 other companies"
	case 1:
		return "Shared with 1 other company"
	}
	return "Invalid level"
}
