package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/richxcame/restaurant-backoffice/internal/receipts"
	"github.com/richxcame/restaurant-backoffice/internal/reservations"
	"github.com/richxcame/restaurant-backoffice/internal/reviews"
	"github.com/richxcame/restaurant-backoffice/internal/scoring"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/eventbus"
	"github.com/richxcame/restaurant-backoffice/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	receipts     *receipts.MemoryRepository
	reviews      *reviews.MemoryRepository
	reservations *reservations.MemoryRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		receipts:     receipts.NewMemoryRepository(),
		reviews:      reviews.NewMemoryRepository().WithClock(func() time.Time { return fixedNow }),
		reservations: reservations.NewMemoryRepository(),
	}

	_, err := f.receipts.Create(ctx, &receipts.NewReceipt{Filename: "a.jpg", TrustScore: 0.9, Status: scoring.StatusVerified})
	require.NoError(t, err)
	_, err = f.receipts.Create(ctx, &receipts.NewReceipt{Filename: "b.jpg", TrustScore: 0.5, Status: scoring.StatusFlagged})
	require.NoError(t, err)
	_, err = f.reviews.Create(ctx, &reviews.NewReview{CustomerName: "A", Rating: 5, Content: "great"})
	require.NoError(t, err)
	_, err = f.reservations.Create(ctx, &reservations.NewReservation{CustomerName: "A", PartySize: 2, Date: "2024-06-01", Time: "19:00"})
	require.NoError(t, err)
	return f
}

func (f fixture) service(cache Cache) *Service {
	svc := NewService(f.receipts, f.reviews, f.reservations, cache)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func expectedStats() Stats {
	return Stats{
		ReceiptsProcessed:  2,
		TrustScore:         0.7,
		AverageReviewScore: 5,
		TotalReviews:       1,
		TodayReservations:  1,
		ReviewsLastWeek:    1,
		FlaggedReceipts:    1,
		PendingReplies:     1,
		GeneratedAt:        fixedNow,
	}
}

func TestStats_WithoutCache(t *testing.T) {
	svc := newFixture(t).service(nil)

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, expectedStats().ReceiptsProcessed, stats.ReceiptsProcessed)
	assert.InDelta(t, 0.7, stats.TrustScore, 1e-9)
	assert.Equal(t, 1, stats.FlaggedReceipts)
	assert.NoError(t, svc.Invalidate(context.Background()))
}

func TestStats_CacheMissComputesAndStores(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	svc := newFixture(t).service(redis.NewFromClient(db)).WithTTL(time.Minute)

	computed := Compute(mustList(t, svc))
	payload, err := json.Marshal(&computed)
	require.NoError(t, err)

	redisMock.ExpectGet(CacheKey).RedisNil()
	redisMock.ExpectSet(CacheKey, payload, time.Minute).SetVal("OK")

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, computed, *stats)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestStats_CacheHit(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	svc := newFixture(t).service(redis.NewFromClient(db))

	redisMock.ExpectGet(CacheKey).SetVal(`{"receipts_processed":42,"trust_score":0.8,"total_reviews":7}`)

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, stats.ReceiptsProcessed)
	assert.Equal(t, 7, stats.TotalReviews)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestStats_CacheErrorsAreNotFatal(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	svc := newFixture(t).service(redis.NewFromClient(db))

	computed := Compute(mustList(t, svc))
	payload, err := json.Marshal(&computed)
	require.NoError(t, err)

	redisMock.ExpectGet(CacheKey).SetErr(errors.New("connection refused"))
	redisMock.ExpectSet(CacheKey, payload, DefaultTTL).SetErr(errors.New("connection refused"))

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.ReceiptsProcessed)
}

// failingRepo fails every List
type failingRepo struct {
	reviews.RepositoryInterface
}

func (failingRepo) List(ctx context.Context) ([]reviews.Review, error) {
	return nil, errors.New("db down")
}

func TestStats_RepositoryError(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.receipts, failingRepo{}, f.reservations, nil)

	_, err := svc.Stats(context.Background())

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

func mustList(t *testing.T, svc *Service) ([]receipts.Receipt, []reviews.Review, []reservations.Reservation, time.Time) {
	t.Helper()
	ctx := context.Background()
	rcpts, err := svc.receipts.List(ctx)
	require.NoError(t, err)
	revs, err := svc.reviews.List(ctx)
	require.NoError(t, err)
	bookings, err := svc.reservations.List(ctx)
	require.NoError(t, err)
	return rcpts, revs, bookings, svc.now()
}

// ========================================
// INVALIDATION TESTS
// ========================================

// MockSubscriber implements Subscriber for testing
type MockSubscriber struct {
	mock.Mock
	handlers map[string]eventbus.Handler
}

func (m *MockSubscriber) Subscribe(ctx context.Context, subject, queue string, handler eventbus.Handler) error {
	if m.handlers == nil {
		m.handlers = make(map[string]eventbus.Handler)
	}
	m.handlers[subject] = handler
	return m.Called(ctx, subject, queue).Error(0)
}

func TestSubscribeInvalidation(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	svc := newFixture(t).service(redis.NewFromClient(db))
	ctx := context.Background()

	sub := new(MockSubscriber)
	for _, subject := range InvalidationSubjects {
		sub.On("Subscribe", ctx, subject, InvalidationQueue).Return(nil)
	}

	require.NoError(t, svc.SubscribeInvalidation(ctx, sub))
	sub.AssertExpectations(t)

	event, err := eventbus.NewEvent(eventbus.SubjectReviewCreated, "reviews", eventbus.ReviewCreatedData{ReviewID: 1})
	require.NoError(t, err)

	redisMock.ExpectDel(CacheKey).SetVal(1)
	require.NoError(t, sub.handlers["reviews.>"](ctx, event))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestSubscribeInvalidation_Error(t *testing.T) {
	svc := newFixture(t).service(nil)
	ctx := context.Background()

	sub := new(MockSubscriber)
	sub.On("Subscribe", ctx, "receipts.>", InvalidationQueue).Return(errors.New("nats closed"))

	err := svc.SubscribeInvalidation(ctx, sub)
	assert.Error(t, err)
}
