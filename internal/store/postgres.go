package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/migrations"
)

// db is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx, so integration
// tests can run inside a transaction that is rolled back afterwards.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the full itinerary as a JSONB document next to a few
// indexed columns.
type PostgresStore struct {
	db db
}

func NewPostgresStore(db db) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, it *models.Itinerary) error {
	const q = `
		INSERT INTO itineraries (id, status, destination, start_date, end_date, total_cost, currency, document)
		VALUES (@id, @status, @destination, @start_date, @end_date, @total_cost, @currency, @document)
		ON CONFLICT (id) DO NOTHING`

	doc, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("store.PostgresStore.Save: encode: %w", err)
	}

	args := pgx.NamedArgs{
		"id":          it.ID,
		"status":      string(it.Status),
		"destination": it.Destination.City,
		"start_date":  it.StartDate.Time(),
		"end_date":    it.EndDate.Time(),
		"total_cost":  it.TotalCost.Minor(),
		"currency":    it.TotalCost.Currency(),
		"document":    doc,
	}

	tag, err := s.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("store.PostgresStore.Save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store.PostgresStore.Save: %s: %w", it.ID, models.ErrAlreadyExists)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	const q = `SELECT document FROM itineraries WHERE id = @id`

	var doc []byte
	err := s.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store.PostgresStore.Get: %w", err)
	}

	var it models.Itinerary
	if err := json.Unmarshal(doc, &it); err != nil {
		return nil, fmt.Errorf("store.PostgresStore.Get: decode: %w", err)
	}
	return &it, nil
}

// Migrate applies every pending migration embedded in the migrations package.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("store.Migrate: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("store.Migrate: up: %w", err)
	}
	return nil
}
