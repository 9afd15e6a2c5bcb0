package reservations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
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
	repo := NewMemoryRepository()
	svc := newTestService(repo, nil, nil)
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

func TestCreateReservation_Endpoint(t *testing.T) {
	router, _ := setupRouter()

	rec := doJSON(router, http.MethodPost, "/api/reservations", gin.H{
		"customer_name":    "Johnson Party",
		"party_size":       4,
		"reservation_date": "2024-06-01",
		"reservation_time": "6:30 PM",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		ID                  int64  `json:"id"`
		CustomerName        string `json:"customer_name"`
		Status              Status `json:"status"`
		NoShowCount         int    `json:"no_show_count"`
		ConfirmationMessage string `json:"confirmation_message"`
	}
	decode(t, rec, &body)
	assert.Equal(t, int64(1), body.ID)
	assert.Equal(t, "Johnson Party", body.CustomerName)
	assert.Equal(t, StatusConfirmed, body.Status)
	assert.Equal(t,
		"Dear Johnson Party, your reservation for 4 people on 2024-06-01 at 6:30 PM has been confirmed. We look forward to welcoming you to our restaurant!",
		body.ConfirmationMessage)
}

func TestCreateReservation_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
	}{
		{"missing date", gin.H{"customer_name": "A", "party_size": 2, "reservation_time": "19:00"}},
		{"bad time", gin.H{"customer_name": "A", "party_size": 2, "reservation_date": "2024-06-01", "reservation_time": "soon"}},
		{"zero party", gin.H{"customer_name": "A", "party_size": 0, "reservation_date": "2024-06-01", "reservation_time": "19:00"}},
		{"bad email", gin.H{"customer_name": "A", "party_size": 2, "reservation_date": "2024-06-01", "reservation_time": "19:00", "email": "nope"}},
		{"unknown status", gin.H{"customer_name": "A", "party_size": 2, "reservation_date": "2024-06-01", "reservation_time": "19:00", "status": "seated"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := setupRouter()

			rec := doJSON(router, http.MethodPost, "/api/reservations", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			all, _ := repo.List(context.Background())
			assert.Empty(t, all)
		})
	}
}

func TestUpdateReservation_NoShowCounts(t *testing.T) {
	router, repo := setupRouter()
	_, err := repo.Create(context.Background(), &NewReservation{CustomerName: "Davis Couple", PartySize: 2, Date: "2024-06-01", Time: "7:00 PM"})
	require.NoError(t, err)

	var r Reservation
	for _, status := range []string{"no-show", "no-show", "confirmed", "no-show"} {
		rec := doJSON(router, http.MethodPatch, "/api/reservations/1", gin.H{"status": status})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		decode(t, rec, &r)
	}

	assert.Equal(t, StatusNoShow, r.Status)
	assert.Equal(t, 2, r.NoShowCount)
}

func TestUpdateReservation_IgnoresClientNoShowCount(t *testing.T) {
	router, repo := setupRouter()
	_, err := repo.Create(context.Background(), &NewReservation{CustomerName: "A", PartySize: 2, Date: "2024-06-01", Time: "19:00", NoShowCount: 3})
	require.NoError(t, err)

	rec := doJSON(router, http.MethodPatch, "/api/reservations/1", gin.H{"is_vip": true, "no_show_count": 0})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var r Reservation
	decode(t, rec, &r)
	assert.True(t, r.IsVIP)
	assert.Equal(t, 3, r.NoShowCount)
}

func TestUpdateReservation_Errors(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		body         gin.H
		expectedCode int
	}{
		{"bad id", "/api/reservations/x", gin.H{"is_vip": true}, http.StatusBadRequest},
		{"unknown", "/api/reservations/42", gin.H{"is_vip": true}, http.StatusNotFound},
		{"empty body", "/api/reservations/1", gin.H{}, http.StatusBadRequest},
		{"bad status", "/api/reservations/1", gin.H{"status": "noShow"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := setupRouter()
			_, err := repo.Create(context.Background(), &NewReservation{CustomerName: "A", PartySize: 2, Date: "2024-06-01", Time: "19:00"})
			require.NoError(t, err)

			rec := doJSON(router, http.MethodPatch, tt.path, tt.body)

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestTodayReservations_Endpoint(t *testing.T) {
	router, repo := setupRouter()
	ctx := context.Background()
	for _, in := range []NewReservation{
		{CustomerName: "Miller Group", PartySize: 6, Date: "2024-06-01", Time: "8:00 PM"},
		{CustomerName: "Tomorrow", PartySize: 2, Date: "2024-06-02", Time: "6:00 PM"},
		{CustomerName: "Johnson Party", PartySize: 4, Date: "2024-06-01", Time: "6:30 PM"},
	} {
		in := in
		_, err := repo.Create(ctx, &in)
		require.NoError(t, err)
	}

	rec := doJSON(router, http.MethodGet, "/api/reservations/today", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var today []Reservation
	decode(t, rec, &today)
	require.Len(t, today, 2)
	assert.Equal(t, "Johnson Party", today[0].CustomerName)
	assert.Equal(t, "Miller Group", today[1].CustomerName)
}

func TestGetReservation_Endpoint(t *testing.T) {
	router, repo := setupRouter()
	_, err := repo.Create(context.Background(), &NewReservation{CustomerName: "A", PartySize: 2, Date: "2024-06-01", Time: "19:00"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/api/reservations/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, "/api/reservations/2", nil).Code)
}
