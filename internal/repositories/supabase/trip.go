// Package supabase implements the trip store on top of the Supabase REST (PostgREST) API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"itinerary-api/internal/models"
	"itinerary-api/internal/repositories"

	"github.com/sirupsen/logrus"
	"github.com/supabase-community/postgrest-go"
)

const (
	tripsTable = "trips"
	restPath   = "/rest/v1"
)

// postgrest-go reports store rejections as "(code) message"
var storeErrorPattern = regexp.MustCompile(`^\(([^)]*)\) (.*)$`)

// Options configures the Supabase trip repository
type Options struct {
	URL     string
	Key     string
	Timeout time.Duration
}

// TripRepository reads and writes the trips table through PostgREST
type TripRepository struct {
	client  *postgrest.Client
	timeout time.Duration
	logger  *logrus.Logger
}

// NewTripRepository creates a new Supabase trip repository
func NewTripRepository(opts Options, logger *logrus.Logger) (*TripRepository, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if strings.TrimSpace(opts.Key) == "" {
		return nil, fmt.Errorf("supabase service key is required")
	}
	if _, err := url.ParseRequestURI(opts.URL); err != nil {
		return nil, fmt.Errorf("invalid supabase URL: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}

	client := postgrest.NewClient(strings.TrimSuffix(opts.URL, "/")+restPath, "public", map[string]string{
		"apikey": opts.Key,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", client.ClientError)
	}
	client.TokenAuth(opts.Key)

	return &TripRepository{
		client:  client,
		timeout: opts.Timeout,
		logger:  logger,
	}, nil
}

// ListTrips returns all trips for userID ordered by created_at descending
func (r *TripRepository) ListTrips(ctx context.Context, userID string) ([]*models.Trip, error) {
	query := r.client.From(tripsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false})

	body, err := r.execute(ctx, "list", query)
	if err != nil {
		return nil, err
	}

	trips := make([]*models.Trip, 0)
	if err := json.Unmarshal(body, &trips); err != nil {
		return nil, repositories.NewRepositoryError("list", tripsTable, userID, fmt.Errorf("failed to decode rows: %w", err))
	}

	return trips, nil
}

// InsertTrip inserts one row and returns the stored representation
func (r *TripRepository) InsertTrip(ctx context.Context, input *models.TripInput) (*models.Trip, error) {
	if err := input.Validate(); err != nil {
		return nil, repositories.ValidationError(tripsTable, input.UserID, err)
	}

	query := r.client.From(tripsTable).
		Insert(input, false, "", "representation", "").
		Single()

	body, err := r.execute(ctx, "insert", query)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, repositories.NewRepositoryError("insert", tripsTable, input.UserID, repositories.ErrEmptyResult)
	}

	var trip models.Trip
	if err := json.Unmarshal(body, &trip); err != nil {
		return nil, repositories.NewRepositoryError("insert", tripsTable, input.UserID, fmt.Errorf("failed to decode row: %w", err))
	}

	return &trip, nil
}

// HealthCheck verifies that the trips table is reachable with the configured key
func (r *TripRepository) HealthCheck(ctx context.Context) error {
	query := r.client.From(tripsTable).
		Select("id", "", false).
		Limit(1, "")

	_, err := r.execute(ctx, "health", query)
	return err
}

type executeResult struct {
	body []byte
	err  error
}

// execute runs the query and returns the body of a successful response.
// postgrest-go takes no context, so the call is abandoned when ctx ends.
func (r *TripRepository) execute(ctx context.Context, operation string, query *postgrest.FilterBuilder) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	done := make(chan executeResult, 1)
	start := time.Now()
	go func() {
		body, _, err := query.Execute()
		done <- executeResult{body: body, err: err}
	}()

	var res executeResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = executeResult{err: ctx.Err()}
	}

	fields := logrus.Fields{
		"operation": operation,
		"table":     tripsTable,
		"duration":  time.Since(start),
	}

	if res.err != nil {
		err := r.classify(operation, res.err)
		fields["error"] = res.err.Error()
		r.logger.WithFields(fields).Error("Store request failed")
		return nil, err
	}

	r.logger.WithFields(fields).Debug("Store request executed")
	return res.body, nil
}

func (r *TripRepository) classify(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return repositories.NewRepositoryError(operation, tripsTable, "", fmt.Errorf("%w: %v", repositories.ErrTimeout, err))
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return repositories.ConnectionError(tripsTable, err)
	}

	return decodeStoreError(err)
}

// decodeStoreError converts a store rejection into a StoreError keeping the store's message
func decodeStoreError(err error) *repositories.StoreError {
	text := strings.TrimSpace(err.Error())
	if m := storeErrorPattern.FindStringSubmatch(text); m != nil {
		return &repositories.StoreError{Code: m[1], Message: m[2]}
	}
	return &repositories.StoreError{Message: text}
}
