// Package analytics derives dashboard views from a catalog snapshot. Every
// function is a pure read; none of them mutate the snapshot.
package analytics

import (
	"fmt"
	"strings"
	"time"

	"pricetrack/internal/catalog"
)

// Timeframe is a lookback window ending today.
type Timeframe string

const (
	Week    Timeframe = "week"
	Month   Timeframe = "month"
	Quarter Timeframe = "quarter"
)

// ParseTimeframe accepts week, month or quarter in any case.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case Week, Month, Quarter:
		return tf, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q (want week, month or quarter)", s)
	}
}

// Start returns the first day of the window: 7 days, 1 month or 3 months
// before the UTC day of now.
func (tf Timeframe) Start(now time.Time) catalog.Date {
	today := catalog.DateOf(now)
	switch tf {
	case Week:
		return today.AddDays(-7)
	case Quarter:
		return today.AddMonths(-3)
	default:
		return today.AddMonths(-1)
	}
}
