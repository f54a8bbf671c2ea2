package usecase

import (
	"context"
	"sync"
	"time"

	"smart-parking/internal/dto/response"
	"smart-parking/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpiryWorker runs the pending-booking expiry sweep on a cron schedule.
type ExpiryWorker struct {
	booking BookingService
	cron    *cron.Cron
	spec    string
	log     *zap.Logger

	mu          sync.Mutex
	runs        int64
	failures    int64
	lastRun     time.Time
	lastExpired int
	lastError   string
}

func NewExpiryWorker(booking BookingService, config *utils.Config, log *zap.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		booking: booking,
		cron:    cron.New(),
		spec:    config.Parking.ExpirySweepSpec,
		log:     log.With(zap.String("worker", "expiry")),
	}
}

func (w *ExpiryWorker) Start() error {
	_, err := w.cron.AddFunc(w.spec, w.sweep)
	if err != nil {
		return err
	}

	w.cron.Start()
	w.log.Info("Expiry sweep scheduled", zap.String("spec", w.spec))
	return nil
}

func (w *ExpiryWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.log.Info("Expiry sweep stopped")
}

func (w *ExpiryWorker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := w.booking.ExpireStale(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.runs++
	w.lastRun = time.Now()
	w.lastExpired = expired
	if err != nil {
		w.failures++
		w.lastError = err.Error()
		w.log.Error("Expiry sweep failed", zap.Error(err))
		return
	}
	w.lastError = ""
}

func (w *ExpiryWorker) Status() response.SweepStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return response.SweepStatus{
		Runs:        w.runs,
		Failures:    w.failures,
		LastRun:     w.lastRun,
		LastExpired: w.lastExpired,
		LastError:   w.lastError,
	}
}
