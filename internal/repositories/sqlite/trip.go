// Package sqlite implements the trip store on a local SQLite database.
package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"itinerary-api/internal/models"
	"itinerary-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const tripsTable = "trips"

// tripRow is the on-disk shape of a trip; itinerary is stored as JSON text
type tripRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Destination *string   `db:"destination"`
	StartDate   *string   `db:"start_date"`
	EndDate     *string   `db:"end_date"`
	Itinerary   string    `db:"itinerary"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *tripRow) toModel() *models.Trip {
	return &models.Trip{
		ID:          models.RecordID(r.ID),
		UserID:      r.UserID,
		Destination: r.Destination,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Itinerary:   json.RawMessage(r.Itinerary),
		CreatedAt:   r.CreatedAt,
	}
}

// TripRepository implements repositories.TripRepository for SQLite
type TripRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
	now    func() time.Time
}

// NewTripRepository creates a new SQLite trip repository
func NewTripRepository(db *sqlx.DB, logger *logrus.Logger) *TripRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &TripRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// ListTrips returns all trips for userID, newest first
func (r *TripRepository) ListTrips(ctx context.Context, userID string) ([]*models.Trip, error) {
	query := `
		SELECT id, user_id, destination, start_date, end_date, itinerary, created_at
		FROM trips
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC`

	start := time.Now()
	var rows []tripRow
	err := r.db.SelectContext(ctx, &rows, query, userID)
	r.logQuery("list", query, []interface{}{userID}, time.Since(start), err)
	if err != nil {
		return nil, repositories.NewRepositoryError("list", tripsTable, userID, err)
	}

	trips := make([]*models.Trip, 0, len(rows))
	for i := range rows {
		trips = append(trips, rows[i].toModel())
	}
	return trips, nil
}

// InsertTrip stores a new trip and returns it with its generated id and timestamp
func (r *TripRepository) InsertTrip(ctx context.Context, input *models.TripInput) (*models.Trip, error) {
	if err := input.Validate(); err != nil {
		return nil, repositories.ValidationError(tripsTable, input.UserID, err)
	}

	row := tripRow{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		Destination: input.Destination,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Itinerary:   string(input.Itinerary),
		CreatedAt:   r.now().UTC(),
	}

	query := `
		INSERT INTO trips (id, user_id, destination, start_date, end_date, itinerary, created_at)
		VALUES (:id, :user_id, :destination, :start_date, :end_date, :itinerary, :created_at)`

	start := time.Now()
	_, err := r.db.NamedExecContext(ctx, query, &row)
	r.logQuery("insert", query, []interface{}{row.ID, row.UserID}, time.Since(start), err)
	if err != nil {
		return nil, repositories.NewRepositoryError("insert", tripsTable, row.ID, err)
	}

	return row.toModel(), nil
}

// logQuery logs a query with its execution time
func (r *TripRepository) logQuery(operation string, query string, args []interface{}, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     tripsTable,
		"query":     query,
		"args":      args,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}
