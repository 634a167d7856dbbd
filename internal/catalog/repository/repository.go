// Package repository provides data access for catalog entries.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEntryNotFound = errors.New("catalog entry not found")
	ErrDuplicateApp  = errors.New("catalog entry for app already exists")
)

const uniqueViolation = "23505"

// Entry represents a catalog entry stored in the database.
type Entry struct {
	ID          uuid.UUID
	AppID       int
	Title       string
	ImageURL    string
	DownloadURL string
	Multiplayer bool
	Torrent     bool
	Summary     *string
	ReleaseDate *string
	Developers  []string
	Publishers  []string
	Genres      []string
	Platforms   []string
	AddedBy     string
	CreatedAt   time.Time
}

const entryColumns = `id, app_id, title, image_url, download_url, is_multiplayer, is_torrent,
	summary, release_date, developers, publishers, genres, platforms, added_by, created_at`

// Repository provides data access for catalog entries.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create persists a new entry and fills in its generated fields.
func (r *Repository) Create(ctx context.Context, entry *Entry) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO catalog_entries (app_id, title, image_url, download_url, is_multiplayer, is_torrent,
			summary, release_date, developers, publishers, genres, platforms, added_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`, entry.AppID, entry.Title, entry.ImageURL, entry.DownloadURL, entry.Multiplayer, entry.Torrent,
		entry.Summary, entry.ReleaseDate, entry.Developers, entry.Publishers, entry.Genres,
		entry.Platforms, entry.AddedBy,
	).Scan(&entry.ID, &entry.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateApp
	}
	return err
}

// List returns all entries, newest first.
func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM catalog_entries
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetByID returns one entry.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Entry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM catalog_entries
		WHERE id = $1
	`, id)

	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	}
	return e, err
}

// Delete removes an entry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (Entry, error) {
	row := r.pool.QueryRow(ctx, `
		DELETE FROM catalog_entries
		WHERE id = $1
		RETURNING `+entryColumns+`
	`, id)

	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	}
	return e, err
}

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(
		&e.ID, &e.AppID, &e.Title, &e.ImageURL, &e.DownloadURL, &e.Multiplayer, &e.Torrent,
		&e.Summary, &e.ReleaseDate, &e.Developers, &e.Publishers, &e.Genres,
		&e.Platforms, &e.AddedBy, &e.CreatedAt,
	)
	return e, err
}
