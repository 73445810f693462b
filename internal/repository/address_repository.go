package repository

import (
	"context"
	"fmt"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// addressRepository implements AddressRepository using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

const addressColumns = `
	id, user_id, name, address_line1, address_line2, city, state,
	postal_code, country, phone, type, is_default, created_at, updated_at`

func scanAddress(row pgx.Row) (*model.Address, error) {
	var a model.Address
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.AddressLine1, &a.AddressLine2,
		&a.City, &a.State, &a.PostalCode, &a.Country, &a.Phone,
		&a.Type, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an address owned by the given user.
func (r *addressRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`

	addr, err := scanAddress(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}
	return addr, nil
}

// GetDefault retrieves the user's default address matching the type, with
// "both" addresses satisfying either specific type.
func (r *addressRepository) GetDefault(ctx context.Context, userID string, addrType model.AddressType) (*model.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1 AND is_default = TRUE AND (type = $2 OR type = 'both')
		ORDER BY updated_at DESC
		LIMIT 1
	`

	addr, err := scanAddress(r.pool.QueryRow(ctx, query, userID, addrType))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query default address")
		return nil, fmt.Errorf("failed to query default address: %w", err)
	}
	return addr, nil
}

// List retrieves all of the user's addresses.
func (r *addressRepository) List(ctx context.Context, userID string) ([]model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	var addresses []model.Address
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan address row")
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, *addr)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating address rows")
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// Create inserts an address. A default insert and the unsetting of
// overlapping defaults happen in one transaction so "at most one default
// per type" holds at every point in time.
func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if address.IsDefault {
		if err := r.unsetOverlappingDefaults(ctx, tx, address.UserID, address.Type); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO addresses (
			id, user_id, name, address_line1, address_line2, city, state,
			postal_code, country, phone, type, is_default, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = tx.Exec(ctx, query,
		address.ID, address.UserID, address.Name, address.AddressLine1, address.AddressLine2,
		address.City, address.State, address.PostalCode, address.Country, address.Phone,
		address.Type, address.IsDefault, address.CreatedAt, address.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", address.UserID).Msg("failed to create address")
		return fmt.Errorf("failed to create address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit address creation: %w", err)
	}

	r.logger.Debug().Str("address_id", address.ID.String()).Msg("address created")
	return nil
}

// SetDefault makes the address the sole default for its type.
func (r *addressRepository) SetDefault(ctx context.Context, id uuid.UUID, userID string) (*model.Address, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var addrType model.AddressType
	err = tx.QueryRow(ctx, `SELECT type FROM addresses WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID).
		Scan(&addrType)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to lock address")
		return nil, fmt.Errorf("failed to lock address: %w", err)
	}

	if err := r.unsetOverlappingDefaults(ctx, tx, userID, addrType); err != nil {
		return nil, err
	}

	query := `
		UPDATE addresses
		SET is_default = TRUE, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + addressColumns

	addr, err := scanAddress(tx.QueryRow(ctx, query, id, userID))
	if err != nil {
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to set default address")
		return nil, fmt.Errorf("failed to set default address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit default address change: %w", err)
	}

	r.logger.Debug().
		Str("address_id", id.String()).
		Str("type", string(addrType)).
		Msg("default address set")
	return addr, nil
}

// unsetOverlappingDefaults clears is_default on every address whose type
// competes with the given one. A "both" address overlaps everything.
func (r *addressRepository) unsetOverlappingDefaults(ctx context.Context, tx pgx.Tx, userID string, addrType model.AddressType) error {
	query := `
		UPDATE addresses
		SET is_default = FALSE, updated_at = now()
		WHERE user_id = $1
		  AND is_default = TRUE
		  AND (type = $2 OR type = 'both' OR $2 = 'both')
	`

	if _, err := tx.Exec(ctx, query, userID, addrType); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to unset overlapping defaults")
		return fmt.Errorf("failed to unset overlapping defaults: %w", err)
	}
	return nil
}
