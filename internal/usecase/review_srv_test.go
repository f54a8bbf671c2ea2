package usecase

import (
	"context"
	"testing"

	"smart-parking/internal/data/entity"
	"smart-parking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReviewFixture(t *testing.T) (*memStore, ReviewService) {
	t.Helper()
	store := newMemStore()
	svc := NewReviewService(store.repo(), zap.NewNop())
	return store, svc
}

func TestCreateReviewUpdatesRating(t *testing.T) {
	store, svc := newReviewFixture(t)
	lot := seedLot(store, true, 2.00, nil)

	first := Actor{ID: uuid.New(), Role: entity.RoleUser}
	_, err := svc.CreateReview(context.Background(), first, lot.ID.String(), &request.CreateReviewRequest{
		Rating:      5,
		HasLighting: true,
		HasSecurity: true,
	})
	require.NoError(t, err)

	second := Actor{ID: uuid.New(), Role: entity.RoleUser}
	_, err = svc.CreateReview(context.Background(), second, lot.ID.String(), &request.CreateReviewRequest{
		Rating: 2,
	})
	require.NoError(t, err)

	storedLot := store.lots[lot.ID]
	assert.Equal(t, 2, storedLot.TotalReviews)
	assert.Equal(t, 3.5, storedLot.SafetyRating)
}

func TestCreateReviewOncePerUser(t *testing.T) {
	store, svc := newReviewFixture(t)
	lot := seedLot(store, true, 2.00, nil)
	actor := Actor{ID: uuid.New(), Role: entity.RoleUser}

	_, err := svc.CreateReview(context.Background(), actor, lot.ID.String(), &request.CreateReviewRequest{Rating: 4})
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), actor, lot.ID.String(), &request.CreateReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	store, svc := newReviewFixture(t)
	lot := seedLot(store, true, 2.00, nil)
	actor := Actor{ID: uuid.New(), Role: entity.RoleUser}

	_, err := svc.CreateReview(context.Background(), actor, lot.ID.String(), &request.CreateReviewRequest{Rating: 6})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListReviewsUnknownLot(t *testing.T) {
	_, svc := newReviewFixture(t)

	_, err := svc.ListReviews(context.Background(), uuid.New().String(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	assert.ErrorIs(t, err, ErrNotFound)
}
