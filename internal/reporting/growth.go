package reporting

import "math"

// Round2 rounds to two decimal places, the precision every derived
// percentage in the report is published with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Growth computes the period-over-period percentage change. When the
// previous period is zero the result signals direction without dividing:
// 100 when the current period has any activity, otherwise 0.
func Growth(current, previous float64) float64 {
	if previous > 0 {
		return Round2((current - previous) / previous * 100)
	}
	if current > 0 {
		return 100
	}
	return 0
}

// SoldPercentage is tickets sold over total tickets as a percentage. An
// event with zero total tickets reads as 0%, never NaN or Inf.
func SoldPercentage(sold, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(sold) / float64(total) * 100)
}
