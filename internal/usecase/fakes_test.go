package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"smart-parking/internal/data/entity"
	"smart-parking/internal/data/repository"
	"smart-parking/internal/events"
	"smart-parking/pkg/utils"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the database. The tx mutex
// serializes units of work the way row locks do, so concurrency tests see
// the same interleavings the real storage would allow.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	lots     map[uuid.UUID]entity.ParkingLot
	slots    map[uuid.UUID]entity.ParkingSlot
	bookings map[uuid.UUID]entity.Booking
	reviews  map[uuid.UUID]entity.SafetyReview
	users    map[uuid.UUID]entity.User
	sessions map[uuid.UUID]entity.Session
}

func newMemStore() *memStore {
	return &memStore{
		lots:     make(map[uuid.UUID]entity.ParkingLot),
		slots:    make(map[uuid.UUID]entity.ParkingSlot),
		bookings: make(map[uuid.UUID]entity.Booking),
		reviews:  make(map[uuid.UUID]entity.SafetyReview),
		users:    make(map[uuid.UUID]entity.User),
		sessions: make(map[uuid.UUID]entity.Session),
	}
}

func (s *memStore) repo() *repository.Repository {
	return &repository.Repository{
		User:    &memUserRepo{s},
		Session: &memSessionRepo{s},
		Lot:     &memLotRepo{s},
		Slot:    &memSlotRepo{s},
		Booking: &memBookingRepo{s},
		Review:  &memReviewRepo{s},
		Tx:      &memTxRunner{s},
	}
}

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) WithinTx(_ context.Context, fn func(r *repository.Repository) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	r := t.s.repo()
	r.Tx = nestedMemTx{r}
	return fn(r)
}

type nestedMemTx struct{ repo *repository.Repository }

func (n nestedMemTx) WithinTx(_ context.Context, fn func(r *repository.Repository) error) error {
	return fn(n.repo)
}

// ---------- lot ----------

type memLotRepo struct{ s *memStore }

func (r *memLotRepo) Create(_ context.Context, lot *entity.ParkingLot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lots[lot.ID] = *lot
	return nil
}

func (r *memLotRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ParkingLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if lot, ok := r.s.lots[id]; ok {
		cp := lot
		return &cp, nil
	}
	return nil, nil
}

func (r *memLotRepo) FindAll(_ context.Context, onlyActive bool, limit, offset int) ([]*entity.ParkingLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var lots []*entity.ParkingLot
	for _, lot := range r.s.lots {
		if onlyActive && !lot.IsActive {
			continue
		}
		cp := lot
		lots = append(lots, &cp)
	}
	sort.Slice(lots, func(i, j int) bool { return lots[i].CreatedAt.After(lots[j].CreatedAt) })

	if offset >= len(lots) {
		return nil, nil
	}
	lots = lots[offset:]
	if limit < len(lots) {
		lots = lots[:limit]
	}
	return lots, nil
}

func (r *memLotRepo) Count(_ context.Context, onlyActive bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, lot := range r.s.lots {
		if onlyActive && !lot.IsActive {
			continue
		}
		count++
	}
	return count, nil
}

func (r *memLotRepo) Update(_ context.Context, lot *entity.ParkingLot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.lots[lot.ID]
	if !ok {
		return errNotFoundRow
	}

	existing.Name = lot.Name
	existing.Address = lot.Address
	existing.City = lot.City
	existing.Latitude = lot.Latitude
	existing.Longitude = lot.Longitude
	existing.PricePerHour = lot.PricePerHour
	existing.Description = lot.Description
	existing.CameraURL = lot.CameraURL
	existing.ImageURL = lot.ImageURL
	existing.IsActive = lot.IsActive
	existing.UpdatedAt = lot.UpdatedAt
	r.s.lots[lot.ID] = existing
	return nil
}

func (r *memLotRepo) RefreshSlotCounts(_ context.Context, lotID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lot, ok := r.s.lots[lotID]
	if !ok {
		return errNotFoundRow
	}

	total, available := 0, 0
	for _, slot := range r.s.slots {
		if slot.ParkingLotID != lotID {
			continue
		}
		total++
		if slot.Status == entity.SlotStatusAvailable {
			available++
		}
	}
	lot.TotalSlots = total
	lot.AvailableSlots = available
	r.s.lots[lotID] = lot
	return nil
}

func (r *memLotRepo) RefreshSafetyRating(_ context.Context, lotID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lot, ok := r.s.lots[lotID]
	if !ok {
		return errNotFoundRow
	}

	count, sum := 0, 0
	for _, review := range r.s.reviews {
		if review.ParkingLotID != lotID {
			continue
		}
		count++
		sum += review.Rating
	}
	lot.TotalReviews = count
	lot.SafetyRating = 0
	if count > 0 {
		lot.SafetyRating = float64(sum) / float64(count)
	}
	r.s.lots[lotID] = lot
	return nil
}

// ---------- slot ----------

type memSlotRepo struct{ s *memStore }

func (r *memSlotRepo) Create(_ context.Context, slot *entity.ParkingSlot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.slots[slot.ID] = *slot
	return nil
}

func (r *memSlotRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ParkingSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if slot, ok := r.s.slots[id]; ok {
		cp := slot
		return &cp, nil
	}
	return nil, nil
}

func (r *memSlotRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.ParkingSlot, error) {
	return r.FindByID(ctx, id)
}

func (r *memSlotRepo) FindByNumber(_ context.Context, lotID uuid.UUID, slotNumber string) (*entity.ParkingSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, slot := range r.s.slots {
		if slot.ParkingLotID == lotID && slot.SlotNumber == slotNumber {
			cp := slot
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSlotRepo) FindByNumberForUpdate(ctx context.Context, lotID uuid.UUID, slotNumber string) (*entity.ParkingSlot, error) {
	return r.FindByNumber(ctx, lotID, slotNumber)
}

func (r *memSlotRepo) FindByLotID(_ context.Context, lotID uuid.UUID, status *entity.SlotStatus) ([]*entity.ParkingSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var slots []*entity.ParkingSlot
	for _, slot := range r.s.slots {
		if slot.ParkingLotID != lotID {
			continue
		}
		if status != nil && slot.Status != *status {
			continue
		}
		cp := slot
		slots = append(slots, &cp)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].SlotNumber < slots[j].SlotNumber })
	return slots, nil
}

func (r *memSlotRepo) CountByStatus(_ context.Context, lotID uuid.UUID, status entity.SlotStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, slot := range r.s.slots {
		if slot.ParkingLotID == lotID && slot.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *memSlotRepo) SetStatus(_ context.Context, slotID uuid.UUID, status entity.SlotStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[slotID]
	if !ok {
		return errNotFoundRow
	}
	slot.Status = status
	slot.UpdatedAt = time.Now()
	r.s.slots[slotID] = slot
	return nil
}

func (r *memSlotRepo) UpdateLastDetected(_ context.Context, slotID uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[slotID]
	if !ok {
		return errNotFoundRow
	}
	slot.LastDetectedAt = &at
	r.s.slots[slotID] = slot
	return nil
}

// ---------- booking ----------

type memBookingRepo struct{ s *memStore }

func (r *memBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if booking, ok := r.s.bookings[id]; ok {
		cp := booking
		return &cp, nil
	}
	return nil, nil
}

func (r *memBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *memBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var bookings []*entity.Booking
	for _, booking := range r.s.bookings {
		if booking.UserID != userID {
			continue
		}
		if status != nil && booking.Status != *status {
			continue
		}
		cp := booking
		bookings = append(bookings, &cp)
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })

	if offset >= len(bookings) {
		return nil, nil
	}
	bookings = bookings[offset:]
	if limit < len(bookings) {
		bookings = bookings[:limit]
	}
	return bookings, nil
}

func (r *memBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID, status *entity.BookingStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, booking := range r.s.bookings {
		if booking.UserID != userID {
			continue
		}
		if status != nil && booking.Status != *status {
			continue
		}
		count++
	}
	return count, nil
}

func (r *memBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.bookings[booking.ID]
	if !ok {
		return errNotFoundRow
	}
	existing.Status = booking.Status
	existing.ActualStartTime = booking.ActualStartTime
	existing.ActualEndTime = booking.ActualEndTime
	existing.PaymentStatus = booking.PaymentStatus
	existing.UpdatedAt = booking.UpdatedAt
	r.s.bookings[booking.ID] = existing
	return nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	booking, ok := r.s.bookings[bookingID]
	if !ok {
		return errNotFoundRow
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()
	r.s.bookings[bookingID] = booking
	return nil
}

func nonTerminal(status entity.BookingStatus) bool {
	switch status {
	case entity.BookingStatusPending, entity.BookingStatusConfirmed, entity.BookingStatusActive:
		return true
	}
	return false
}

func (r *memBookingRepo) FindConflicting(_ context.Context, slotID uuid.UUID, startTime, endTime time.Time, excludeID *uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, booking := range r.s.bookings {
		if booking.SlotID == nil || *booking.SlotID != slotID {
			continue
		}
		if !nonTerminal(booking.Status) {
			continue
		}
		if excludeID != nil && booking.ID == *excludeID {
			continue
		}
		if booking.StartTime.Before(endTime) && booking.EndTime.After(startTime) {
			cp := booking
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) FindActiveClaim(_ context.Context, slotID uuid.UUID, at time.Time) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, booking := range r.s.bookings {
		if booking.SlotID == nil || *booking.SlotID != slotID {
			continue
		}
		if !nonTerminal(booking.Status) {
			continue
		}
		if booking.Status == entity.BookingStatusActive || booking.EndTime.After(at) {
			cp := booking
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) FindExpiredPending(_ context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var ids []uuid.UUID
	for _, booking := range r.s.bookings {
		if booking.Status == entity.BookingStatusPending && booking.CreatedAt.Before(cutoff) {
			ids = append(ids, booking.ID)
		}
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// ---------- review ----------

type memReviewRepo struct{ s *memStore }

func (r *memReviewRepo) Create(_ context.Context, review *entity.SafetyReview) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *memReviewRepo) FindByUserAndLot(_ context.Context, userID, lotID uuid.UUID) (*entity.SafetyReview, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, review := range r.s.reviews {
		if review.UserID == userID && review.ParkingLotID == lotID {
			cp := review
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memReviewRepo) FindByLotID(_ context.Context, lotID uuid.UUID, limit, offset int) ([]*entity.SafetyReview, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var reviews []*entity.SafetyReview
	for _, review := range r.s.reviews {
		if review.ParkingLotID != lotID {
			continue
		}
		cp := review
		reviews = append(reviews, &cp)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })

	if offset >= len(reviews) {
		return nil, nil
	}
	reviews = reviews[offset:]
	if limit < len(reviews) {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (r *memReviewRepo) CountByLotID(_ context.Context, lotID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, review := range r.s.reviews {
		if review.ParkingLotID == lotID {
			count++
		}
	}
	return count, nil
}

// ---------- user / session ----------

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user, ok := r.s.users[id]; ok {
		cp := user
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			cp := user
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return errNotFoundRow
	}
	existing.Username = user.Username
	existing.Phone = user.Phone
	existing.Role = user.Role
	existing.IsActive = user.IsActive
	existing.UpdatedAt = user.UpdatedAt
	r.s.users[user.ID] = existing
	return nil
}

type memSessionRepo struct{ s *memStore }

func (r *memSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *memSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, session := range r.s.sessions {
		if session.Token.String() == token && session.RevokedAt == nil && session.ExpiresAt.After(time.Now()) {
			cp := session
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) Revoke(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, session := range r.s.sessions {
		if session.Token.String() == token && session.RevokedAt == nil {
			now := time.Now()
			session.RevokedAt = &now
			r.s.sessions[id] = session
		}
	}
	return nil
}

func (r *memSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, session := range r.s.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			now := time.Now()
			session.RevokedAt = &now
			r.s.sessions[id] = session
		}
	}
	return nil
}

// ---------- helpers ----------

type rowError string

func (e rowError) Error() string { return string(e) }

const errNotFoundRow = rowError("row not found")

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *capturePublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.Type, len(p.events))
	for i, ev := range p.events {
		types[i] = ev.Type
	}
	return types
}

func testConfig() *utils.Config {
	return &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
		Parking: utils.ParkingConfig{
			MinBookingDurationMinutes: 30,
			BookingExpiryMinutes:      15,
			ExpirySweepSpec:           "@every 1m",
		},
		Detection: utils.DetectionConfig{StaleReportSeconds: 300},
	}
}

func seedLot(s *memStore, active bool, pricePerHour float64, ownerID *uuid.UUID) entity.ParkingLot {
	lot := entity.ParkingLot{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:         "Central Garage",
		Address:      "Main St 1",
		City:         "Springfield",
		PricePerHour: pricePerHour,
		IsActive:     active,
		OwnerID:      ownerID,
	}
	s.lots[lot.ID] = lot
	return lot
}

func seedSlot(s *memStore, lotID uuid.UUID, number string, status entity.SlotStatus) entity.ParkingSlot {
	slot := entity.ParkingSlot{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ParkingLotID: lotID,
		SlotNumber:   number,
		Status:       status,
	}
	s.slots[slot.ID] = slot
	return slot
}

func seedBooking(s *memStore, userID, lotID uuid.UUID, slotID *uuid.UUID, status entity.BookingStatus, start, end time.Time) entity.Booking {
	booking := entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		BookingCode:   utils.GenerateBookingCode(),
		UserID:        userID,
		ParkingLotID:  lotID,
		SlotID:        slotID,
		Status:        status,
		StartTime:     start,
		EndTime:       end,
		PricePerHour:  2.0,
		TotalPrice:    calcTotalPrice(2.0, start, end),
		PaymentStatus: entity.PaymentStatusPending,
	}
	s.bookings[booking.ID] = booking
	return booking
}
