package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"itinerary-api/internal/models"
	"itinerary-api/internal/repositories"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *TripRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	repo, err := NewTripRepository(Options{URL: server.URL, Key: "service-key", Timeout: time.Second}, logger)
	require.NoError(t, err)
	return repo
}

func TestNewTripRepositoryRequiresCredentials(t *testing.T) {
	_, err := NewTripRepository(Options{Key: "k"}, nil)
	assert.Error(t, err)

	_, err = NewTripRepository(Options{URL: "https://example.supabase.co"}, nil)
	assert.Error(t, err)

	_, err = NewTripRepository(Options{URL: "not a url", Key: "k"}, nil)
	assert.Error(t, err)
}

func TestListTrips(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/trips", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "eq.u1", r.URL.Query().Get("user_id"))
		assert.True(t, strings.HasPrefix(r.URL.Query().Get("order"), "created_at.desc"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":2,"user_id":"u1","destination":"Kyoto","start_date":"2025-04-01","end_date":null,"itinerary":{"days":[]},"created_at":"2025-03-02T10:00:00+00:00"},
			{"id":1,"user_id":"u1","destination":null,"start_date":null,"end_date":null,"itinerary":"Day 1","created_at":"2025-03-01T10:00:00+00:00"}
		]`)
	})

	trips, err := repo.ListTrips(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, trips, 2)

	assert.Equal(t, models.RecordID("2"), trips[0].ID)
	require.NotNil(t, trips[0].Destination)
	assert.Equal(t, "Kyoto", *trips[0].Destination)
	assert.Nil(t, trips[0].EndDate)
	assert.JSONEq(t, `{"days":[]}`, string(trips[0].Itinerary))
	assert.True(t, trips[0].CreatedAt.After(trips[1].CreatedAt))
	assert.JSONEq(t, `"Day 1"`, string(trips[1].Itinerary))
}

func TestListTripsEscapesUserID(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.a&b=c", r.URL.Query().Get("user_id"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		fmt.Fprint(w, `[]`)
	})

	trips, err := repo.ListTrips(context.Background(), "a&b=c")
	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

func TestListTripsStoreError(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code":"42P01","message":"relation \"public.trips\" does not exist","details":null,"hint":null}`)
	})

	_, err := repo.ListTrips(context.Background(), "u1")
	require.Error(t, err)

	storeErr, ok := repositories.AsStoreError(err)
	require.True(t, ok)
	assert.Equal(t, "42P01", storeErr.Code)
	assert.Equal(t, `relation "public.trips" does not exist`, repositories.Message(err))
}

func TestListTripsNonJSONError(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := repo.ListTrips(context.Background(), "u1")
	require.Error(t, err)

	_, ok := repositories.AsStoreError(err)
	assert.True(t, ok)
	assert.NotEmpty(t, repositories.Message(err))
}

func TestListTripsConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	repo, err := NewTripRepository(Options{URL: url, Key: "k", Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, err = repo.ListTrips(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, repositories.IsConnection(err))
}

func TestInsertTrip(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/trips", r.URL.Path)
		assert.Contains(t, r.Header.Get("Prefer"), "return=representation")
		assert.Contains(t, r.Header.Values("Accept"), "application/vnd.pgrst.object+json")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"user_id":"u1","destination":"Lisbon","start_date":null,"end_date":null,"itinerary":{"days":[{"day":1}]}}`, string(body))

		var row map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(body, &row))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"id":"9b2d","user_id":"u1","destination":"Lisbon","start_date":null,"end_date":null,"itinerary":%s,"created_at":"2025-05-01T08:30:00.123456+00:00"}`, row["itinerary"])
	})

	input := models.NewTripInput("u1", "Lisbon", "", "", json.RawMessage(`{"days":[{"day":1}]}`))
	trip, err := repo.InsertTrip(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.RecordID("9b2d"), trip.ID)
	assert.Equal(t, "u1", trip.UserID)
	assert.Nil(t, trip.StartDate)
	assert.JSONEq(t, `{"days":[{"day":1}]}`, string(trip.Itinerary))
	assert.False(t, trip.CreatedAt.IsZero())
}

func TestInsertTripValidation(t *testing.T) {
	called := false
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := repo.InsertTrip(context.Background(), models.NewTripInput("u1", "", "", "", nil))
	require.Error(t, err)
	assert.True(t, repositories.IsValidation(err))
	assert.False(t, called)
}

func TestInsertTripStoreError(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"code":"42501","message":"permission denied for table trips","details":null,"hint":null}`)
	})

	_, err := repo.InsertTrip(context.Background(), models.NewTripInput("u1", "", "", "", json.RawMessage(`{}`)))
	require.Error(t, err)
	assert.Equal(t, "permission denied for table trips", repositories.Message(err))

	storeErr, ok := repositories.AsStoreError(err)
	require.True(t, ok)
	assert.Equal(t, "42501", storeErr.Code)
}

func TestInsertTripEmptyResponse(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	_, err := repo.InsertTrip(context.Background(), models.NewTripInput("u1", "", "", "", json.RawMessage(`{}`)))
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrEmptyResult)
}

func TestHealthCheck(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `[]`)
	})

	assert.NoError(t, repo.HealthCheck(context.Background()))
}

func TestListTripsTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	repo, err := NewTripRepository(Options{URL: server.URL, Key: "k", Timeout: 20 * time.Millisecond}, nil)
	require.NoError(t, err)

	_, err = repo.ListTrips(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrTimeout)
}
