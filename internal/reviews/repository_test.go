package reviews

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/richxcame/restaurant-backoffice/internal/sentiment"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewColumnNames = []string{
	"id", "customer_name", "rating", "content", "sentiment", "ai_reply", "has_replied", "created_at",
}

func newMockRepo(t *testing.T, dialect database.Dialect) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(database.Wrap(db, dialect))
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t, database.DialectPostgres)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")+`.*\$7\)\s+RETURNING id`).
		WithArgs("Mike R.", 4, "Waited too long.", "mixed", sentiment.MixedReply, false, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	review, err := repo.Create(ctx, &NewReview{
		CustomerName: "Mike R.",
		Rating:       4,
		Content:      "Waited too long.",
		Sentiment:    sentiment.Mixed,
		AIReply:      strPtr(sentiment.MixedReply),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), review.ID)
	assert.Equal(t, fixedNow, review.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateWithoutSentiment(t *testing.T) {
	repo, mock := newMockRepo(t, database.DialectSQLite)
	ctx := context.Background()
	backdated := fixedNow.Add(-48 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs("Jennifer L.", 5, "Amazing cocktails", nil, nil, true, backdated).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	review, err := repo.Create(ctx, &NewReview{
		CustomerName: "Jennifer L.",
		Rating:       5,
		Content:      "Amazing cocktails",
		HasReplied:   true,
		CreatedAt:    backdated,
	})

	require.NoError(t, err)
	assert.Equal(t, backdated, review.CreatedAt)
	assert.Nil(t, review.AIReply)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get(t *testing.T) {
	repo, mock := newMockRepo(t, database.DialectSQLite)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(reviewColumnNames).AddRow(
			int64(2), "Jennifer L.", 5, "Amazing cocktails", "positive", nil, true, fixedNow,
		))

	review, err := repo.Get(ctx, 2)

	require.NoError(t, err)
	assert.Equal(t, sentiment.Positive, review.Sentiment)
	assert.Nil(t, review.AIReply)
	assert.True(t, review.HasReplied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t, database.DialectPostgres)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(reviewColumnNames))

	_, err := repo.Get(context.Background(), 9)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRepository_UpdateReply(t *testing.T) {
	repo, mock := newMockRepo(t, database.DialectPostgres)
	ctx := context.Background()
	replied := true
	custom := "See you soon!"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET ai_reply = $1, has_replied = $2 WHERE id = $3")).
		WithArgs(custom, true, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(reviewColumnNames).AddRow(
			int64(3), "Sam", 3, "It was okay", "mixed", custom, true, fixedNow,
		))

	review, err := repo.Update(ctx, 3, Patch{AIReply: &custom, HasReplied: &replied})

	require.NoError(t, err)
	assert.Equal(t, custom, *review.AIReply)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateMissing(t *testing.T) {
	repo, mock := newMockRepo(t, database.DialectSQLite)
	replied := true

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET has_replied = ? WHERE id = ?")).
		WithArgs(true, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), 42, Patch{HasReplied: &replied})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t, database.DialectSQLite)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews ORDER BY created_at DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows(reviewColumnNames).
			AddRow(int64(2), "B", 5, "great", "positive", sentiment.PositiveReply, false, fixedNow).
			AddRow(int64(1), "A", 1, "bad", nil, nil, false, fixedNow.Add(-time.Hour)))

	reviews, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, int64(2), reviews[0].ID)
	assert.Equal(t, sentiment.Sentiment(""), reviews[1].Sentiment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	clock := fixedNow
	repo := NewMemoryRepository().WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	first, err := repo.Create(ctx, &NewReview{CustomerName: "A", Rating: 2, Content: "bad", AIReply: strPtr("sorry")})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &NewReview{CustomerName: "B", Rating: 5, Content: "great"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	// Mutating the returned copy must not leak into the store
	*first.AIReply = "changed"
	stored, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "sorry", *stored.AIReply)

	replied := true
	updated, err := repo.Update(ctx, 1, Patch{HasReplied: &replied})
	require.NoError(t, err)
	assert.True(t, updated.HasReplied)
	assert.Equal(t, "sorry", *updated.AIReply)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].ID)

	_, err = repo.Get(ctx, 3)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = repo.Update(ctx, 3, Patch{HasReplied: &replied})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
