package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/restaurant-backoffice/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter() (*gin.Engine, *MemoryRepository) {
	repo := NewMemoryRepository().WithClock(func() time.Time { return fixedNow })
	svc := newTestService(repo, nil)
	h := NewHandler(svc)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r, repo
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env
}

func TestCreateReview_Endpoint(t *testing.T) {
	router, _ := setupRouter()

	rec := doJSON(router, http.MethodPost, "/api/reviews", gin.H{
		"customer_name": "Jennifer L.",
		"rating":        5,
		"content":       "Amazing cocktails and the staff was incredibly helpful!",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var review Review
	decode(t, rec, &review)
	assert.Equal(t, int64(1), review.ID)
	assert.Equal(t, sentiment.Positive, review.Sentiment)
	require.NotNil(t, review.AIReply)
	assert.Equal(t, sentiment.PositiveReply, *review.AIReply)
	assert.False(t, review.HasReplied)
}

func TestCreateReview_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
	}{
		{"rating out of range", gin.H{"customer_name": "A", "rating": 7, "content": "ok"}},
		{"missing content", gin.H{"customer_name": "A", "rating": 3}},
		{"missing name", gin.H{"rating": 3, "content": "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := setupRouter()

			rec := doJSON(router, http.MethodPost, "/api/reviews", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			all, _ := repo.List(context.Background())
			assert.Empty(t, all)
		})
	}
}

func TestReplyFlow_Endpoints(t *testing.T) {
	router, repo := setupRouter()
	ctx := context.Background()

	_, err := repo.Create(ctx, &NewReview{CustomerName: "A", Rating: 2, Content: "bad", AIReply: strPtr(sentiment.NegativeReply)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &NewReview{CustomerName: "B", Rating: 5, Content: "great", AIReply: strPtr(sentiment.PositiveReply)})
	require.NoError(t, err)

	rec := doJSON(router, http.MethodPatch, "/api/reviews/1/reply", gin.H{
		"use_ai_reply": false,
		"custom_reply": "We are sorry, please come back.",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var replied Review
	decode(t, rec, &replied)
	assert.True(t, replied.HasReplied)
	assert.Equal(t, "We are sorry, please come back.", *replied.AIReply)

	rec = doJSON(router, http.MethodGet, "/api/reviews/needing-reply", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []Review
	decode(t, rec, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].ID)
}

func TestReplyToReview_Errors(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		body         gin.H
		expectedCode int
	}{
		{"bad id", "/api/reviews/abc/reply", gin.H{"use_ai_reply": true}, http.StatusBadRequest},
		{"unknown review", "/api/reviews/99/reply", gin.H{"use_ai_reply": true}, http.StatusNotFound},
		{"no reply chosen", "/api/reviews/1/reply", gin.H{"use_ai_reply": false}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := setupRouter()
			_, err := repo.Create(context.Background(), &NewReview{CustomerName: "A", Rating: 3, Content: "fine"})
			require.NoError(t, err)

			rec := doJSON(router, http.MethodPatch, tt.path, tt.body)

			assert.Equal(t, tt.expectedCode, rec.Code)
			env := decode(t, rec, nil)
			assert.False(t, env.Success)
		})
	}
}

func TestGetReview_Endpoint(t *testing.T) {
	router, repo := setupRouter()
	_, err := repo.Create(context.Background(), &NewReview{CustomerName: "A", Rating: 3, Content: "fine"})
	require.NoError(t, err)

	rec := doJSON(router, http.MethodGet, "/api/reviews/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/api/reviews/2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWeeklySummary_Endpoint(t *testing.T) {
	router, repo := setupRouter()
	ctx := context.Background()

	_, err := repo.Create(ctx, &NewReview{CustomerName: "A", Rating: 5, Content: "great", CreatedAt: fixedNow.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &NewReview{CustomerName: "B", Rating: 1, Content: "old", CreatedAt: fixedNow.Add(-30 * 24 * time.Hour)})
	require.NoError(t, err)

	rec := doJSON(router, http.MethodGet, "/api/analytics/weekly-summary", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Summary             string   `json:"summary"`
		ReviewCount         int      `json:"review_count"`
		AverageRating       float64  `json:"average_rating"`
		AreasForImprovement []string `json:"areas_for_improvement"`
	}
	decode(t, rec, &summary)
	assert.Equal(t, 1, summary.ReviewCount)
	assert.Equal(t, 5.0, summary.AverageRating)
	assert.Equal(t, []string{"Keep up the excellent work!"}, summary.AreasForImprovement)
}
