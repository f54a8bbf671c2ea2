package response

import "time"

// OccupancyIngestResult summarizes how one detection report was reconciled.
type OccupancyIngestResult struct {
	ParkingLotID string    `json:"parking_lot_id"`
	Applied      int       `json:"applied"`
	Advisory     int       `json:"advisory"`
	Skipped      int       `json:"skipped"`
	CapturedAt   time.Time `json:"captured_at"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// SweepStatus exposes the expiry sweep's health.
type SweepStatus struct {
	Runs        int64     `json:"runs"`
	Failures    int64     `json:"failures"`
	LastRun     time.Time `json:"last_run"`
	LastExpired int       `json:"last_expired"`
	LastError   string    `json:"last_error,omitempty"`
}
