package repository

import (
	"smart-parking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Lot     ParkingLotRepository
	Slot    ParkingSlotRepository
	Booking BookingRepository
	Review  SafetyReviewRepository
	Tx      TxRunner
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newWithQuerier(db, log)
	repo.Tx = &txRunner{db: db, log: log.With(zap.String("repository", "tx"))}
	return repo
}

// newWithQuerier binds every repository to the given querier, which is either
// the pool or an open transaction.
func newWithQuerier(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(q, log),
		Session: NewSessionRepository(q, log),
		Lot:     NewParkingLotRepository(q, log),
		Slot:    NewParkingSlotRepository(q, log),
		Booking: NewBookingRepository(q, log),
		Review:  NewSafetyReviewRepository(q, log),
	}
}
