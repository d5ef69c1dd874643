package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grattalab/scratch-win-system/internal/model"
	"github.com/grattalab/scratch-win-system/internal/service"
)

// CampaignRepository provides data access for campaigns using pgx.
// Prize lists and required-field lists are stored as JSONB; declaration
// order of prizes survives the round trip because JSON arrays are ordered.
type CampaignRepository struct {
	pool PoolInterface
}

// NewCampaignRepository creates a new CampaignRepository with the given pool.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// NewCampaignRepositoryWithPool creates a CampaignRepository with a custom
// pool interface. Primarily used for testing.
func NewCampaignRepositoryWithPool(pool PoolInterface) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// Insert inserts a new campaign.
// Returns service.ErrCampaignExists if the slug is taken within the store.
func (r *CampaignRepository) Insert(ctx context.Context, c *model.Campaign) error {
	prizes, err := json.Marshal(c.Prizes)
	if err != nil {
		return fmt.Errorf("marshal prizes: %w", err)
	}
	fields, err := json.Marshal(c.RequiredFields)
	if err != nil {
		return fmt.Errorf("marshal required fields: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO campaigns (id, store_id, name, slug, description, required_fields, prizes,
		                        active, start_date, end_date, max_plays_per_day, max_total_plays,
		                        max_plays_per_user, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)`,
		c.ID, c.StoreID, c.Name, c.Slug, c.Description, fields, prizes,
		c.Active, c.StartDate, c.EndDate, c.MaxPlaysPerDay, c.MaxTotalPlays,
		c.MaxPlaysPerUser, c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCampaignExists
		}
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

const campaignColumns = `id, store_id, name, slug, description, required_fields, prizes,
	active, start_date, end_date, max_plays_per_day, max_total_plays,
	max_plays_per_user, created_at, updated_at`

func scanCampaign(row pgx.Row) (*model.Campaign, error) {
	var c model.Campaign
	var prizes, fields []byte
	err := row.Scan(
		&c.ID, &c.StoreID, &c.Name, &c.Slug, &c.Description, &fields, &prizes,
		&c.Active, &c.StartDate, &c.EndDate, &c.MaxPlaysPerDay, &c.MaxTotalPlays,
		&c.MaxPlaysPerUser, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(prizes, &c.Prizes); err != nil {
		return nil, fmt.Errorf("unmarshal prizes: %w", err)
	}
	if err := json.Unmarshal(fields, &c.RequiredFields); err != nil {
		return nil, fmt.Errorf("unmarshal required fields: %w", err)
	}
	return &c, nil
}

// GetBySlug retrieves a campaign by store id and campaign slug.
// Returns nil, nil if not found.
func (r *CampaignRepository) GetBySlug(ctx context.Context, storeID, slug string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE store_id = $1 AND slug = $2`

	c, err := scanCampaign(r.pool.QueryRow(ctx, query, storeID, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get campaign by slug %s/%s: %w", storeID, slug, err)
	}
	return c, nil
}

// GetByID retrieves a campaign by id.
// Returns nil, nil if not found.
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	c, err := scanCampaign(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get campaign by id %s: %w", id, err)
	}
	return c, nil
}

// ListByStore retrieves all campaigns belonging to a store, newest first.
func (r *CampaignRepository) ListByStore(ctx context.Context, storeID string) ([]model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE store_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns for store %s: %w", storeID, err)
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns rows: %w", err)
	}
	return campaigns, nil
}
