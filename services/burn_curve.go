package services

import "time"

// Time-of-day burn curve. A flat baseline-per-day multiple overestimates
// how much has been burned mid-day, so today only contributes the fraction
// of the baseline accumulated by the current local time: a slow ramp
// before morning, a steady climb through the day, a plateau late at night.
const (
	morningHour  = 7.0
	plateauHour  = 23.0
	morningShare = 0.05
	plateauShare = 0.97
)

// burnFraction reports which share of the daily baseline has been burned
// by local time t. Pure function of t; callers inject the clock.
func burnFraction(t time.Time) float64 {
	h := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
	switch {
	case h < morningHour:
		return h / morningHour * morningShare
	case h < plateauHour:
		return morningShare + (h-morningHour)/(plateauHour-morningHour)*(plateauShare-morningShare)
	default:
		return plateauShare
	}
}

// totalBurned scales the daily baseline over a day span: every full prior
// day counts whole, today counts by burnFraction.
func totalBurned(baseline float64, days int, now time.Time) float64 {
	if days < 1 {
		days = 1
	}
	return baseline*float64(days-1) + baseline*burnFraction(now)
}
