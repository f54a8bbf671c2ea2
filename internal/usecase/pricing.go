package usecase

import (
	"math"
	"time"
)

func durationHours(start, end time.Time) float64 {
	return end.Sub(start).Seconds() / 3600
}

// calcTotalPrice rounds to two decimal places to avoid currency drift.
func calcTotalPrice(pricePerHour float64, start, end time.Time) float64 {
	return math.Round(pricePerHour*durationHours(start, end)*100) / 100
}
