package attendance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Standing buckets a percentage the way the dashboard colours it.
type Standing string

const (
	StandingGood    Standing = "good"
	StandingWarning Standing = "warning"
	StandingLow     Standing = "low"
)

// StandingFor buckets a percentage: good from 85, warning from 75, low below.
func StandingFor(percent float64) Standing {
	switch {
	case percent >= 85:
		return StandingGood
	case percent >= 75:
		return StandingWarning
	default:
		return StandingLow
	}
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(percent float64) string {
	return decimal.NewFromFloat(percent).StringFixed(2)
}

// ParsePercent reads a percentage string such as "78.85" or "78.85 %".
func ParsePercent(s string) (float64, error) {
	raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	f, _ := d.Float64()
	return f, nil
}
