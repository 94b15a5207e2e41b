package repository

import (
	"context"
	"errors"
	"fmt"

	"location-dedup/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the snapshot table of the remote address database. geom is derived from the plain
// coordinate columns so bulk COPY never has to encode PostGIS types.
const Schema = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS customer_locations (
		id VARCHAR(64) PRIMARY KEY,
		customer_name VARCHAR(255) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		city VARCHAR(255) NOT NULL DEFAULT '',
		postal_code VARCHAR(32) NOT NULL DEFAULT '',
		country VARCHAR(128) NOT NULL DEFAULT '',
		country_code VARCHAR(8) NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		geom GEOGRAPHY(POINT, 4326) GENERATED ALWAYS AS (
			CASE WHEN latitude IS NULL OR longitude IS NULL THEN NULL
			ELSE ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography END
		) STORED,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS customer_locations_geom_idx ON customer_locations USING GIST (geom);
`

const selectColumns = `
	id,
	customer_name,
	address,
	city,
	postal_code,
	country,
	country_code,
	latitude,
	longitude,
	created_at,
	updated_at
`

// Repository reads the PostgreSQL snapshot of customer locations
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ExistingLocations returns every location in the snapshot
func (r *Repository) ExistingLocations(ctx context.Context) ([]models.Location, error) {
	sql := `SELECT` + selectColumns + `FROM customer_locations ORDER BY customer_name, id`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list locations: %w", err)
	}
	return collect(rows)
}

// FindLocationsWithin returns the locations within radiusKm of the given coordinates, nearest first
func (r *Repository) FindLocationsWithin(ctx context.Context, lat, lon, radiusKm float64) ([]models.Location, error) {
	sql := `SELECT` + selectColumns + `
		FROM customer_locations
		WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography
	`

	rows, err := r.db.Query(ctx, sql, lat, lon, radiusKm*1000)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}
	return collect(rows)
}

// FindLocationByID returns a single location, or nil when it does not exist
func (r *Repository) FindLocationByID(ctx context.Context, id string) (*models.Location, error) {
	sql := `SELECT` + selectColumns + `FROM customer_locations WHERE id = $1`

	loc, err := scanLocation(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to load location %s: %w", id, err)
	}
	return &loc, nil
}

// Count returns the number of locations in the snapshot
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customer_locations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count locations: %w", err)
	}
	return count, nil
}

// EnsureSchema creates the snapshot table and its indexes if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// ReplaceSnapshot swaps the whole snapshot for locs in one transaction using COPY
func (r *Repository) ReplaceSnapshot(ctx context.Context, locs []models.Location) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE customer_locations`); err != nil {
		return 0, fmt.Errorf("repository: failed to truncate snapshot: %w", err)
	}

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"customer_locations"},
		[]string{"id", "customer_name", "address", "city", "postal_code", "country", "country_code", "latitude", "longitude"},
		pgx.CopyFromSlice(len(locs), func(i int) ([]any, error) {
			l := locs[i]
			if !l.HasCoordinates() {
				l.Latitude, l.Longitude = nil, nil
			}
			return []any{l.ID, l.Name, l.Address, l.City, l.PostalCode, l.Country, l.CountryCode, l.Latitude, l.Longitude}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy locations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit snapshot: %w", err)
	}
	return n, nil
}

func collect(rows pgx.Rows) ([]models.Location, error) {
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return locations, nil
}

func scanLocation(row pgx.Row) (models.Location, error) {
	var loc models.Location
	err := row.Scan(
		&loc.ID,
		&loc.Name,
		&loc.Address,
		&loc.City,
		&loc.PostalCode,
		&loc.Country,
		&loc.CountryCode,
		&loc.Latitude,
		&loc.Longitude,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	return loc, err
}
