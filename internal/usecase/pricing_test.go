package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalcTotalPrice(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		pricePerHour float64
		duration     time.Duration
		want         float64
	}{
		{"two full hours", 2.50, 2 * time.Hour, 5.00},
		{"ninety minutes", 2.50, 90 * time.Minute, 3.75},
		{"fractional rate rounds", 3.33, 30 * time.Minute, 1.67},
		{"free lot", 0, 4 * time.Hour, 0},
		{"long stay", 1.25, 10 * time.Hour, 12.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calcTotalPrice(tt.pricePerHour, base, base.Add(tt.duration))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationHours(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 1.5, durationHours(base, base.Add(90*time.Minute)))
}
