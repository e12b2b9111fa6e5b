package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickstore/platform/pkg/pg"
	"github.com/quickstore/platform/pkg/tenant"
)

const storeColumns = `id, merchant_id, name, status, subdomain, custom_domain, custom_domain_verified, created_at`

// StoreRepository persists storefront records. It satisfies tenant.Provider
// for host-based resolution and exposes the mutations the merchant API needs.
type StoreRepository struct {
	pool *pgxpool.Pool
}

// NewStoreRepository creates a repository. Panics on a nil pool to fail fast
// during initialization.
func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	if pool == nil {
		panic("storage: pgx pool is required")
	}
	return &StoreRepository{pool: pool}
}

// FindBySubdomain retrieves a store by its exact platform subdomain.
func (r *StoreRepository) FindBySubdomain(ctx context.Context, subdomain string) (*tenant.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE subdomain = $1`
	return r.findOne(ctx, query, strings.ToLower(subdomain))
}

// FindByCustomDomain retrieves a store by its exact custom domain. The
// verification flag is returned as stored; enforcement happens upstream.
func (r *StoreRepository) FindByCustomDomain(ctx context.Context, domain string) (*tenant.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE custom_domain = $1`
	return r.findOne(ctx, query, strings.ToLower(domain))
}

// GetByID retrieves a store by primary key.
func (r *StoreRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// ListByMerchant returns all stores owned by the merchant, newest first.
func (r *StoreRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]tenant.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE merchant_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, merchantID)
	if err != nil {
		return nil, errors.Join(tenant.ErrLookupFailed, err)
	}
	defer rows.Close()

	var stores []tenant.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, errors.Join(tenant.ErrLookupFailed, err)
		}
		stores = append(stores, *store)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(tenant.ErrLookupFailed, err)
	}

	return stores, nil
}

// CountByMerchant reports how many stores the merchant owns, used to enforce
// plan store limits before creation.
func (r *StoreRepository) CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stores WHERE merchant_id = $1`, merchantID).Scan(&count)
	if err != nil {
		return 0, errors.Join(tenant.ErrLookupFailed, err)
	}
	return count, nil
}

// Create inserts a new store in draft status. Returns ErrSubdomainTaken when
// the subdomain is already assigned to another store.
func (r *StoreRepository) Create(ctx context.Context, merchantID uuid.UUID, name, subdomain string) (*tenant.Store, error) {
	query := `
		INSERT INTO stores (id, merchant_id, name, status, subdomain, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + storeColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), merchantID, name, tenant.StatusDraft, strings.ToLower(subdomain), time.Now().UTC(),
	)

	store, err := scanStore(row)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, ErrSubdomainTaken
		}
		return nil, errors.Join(tenant.ErrLookupFailed, err)
	}
	return store, nil
}

// SetStatus transitions a store's publication status.
func (r *StoreRepository) SetStatus(ctx context.Context, id uuid.UUID, status tenant.Status) (*tenant.Store, error) {
	query := `UPDATE stores SET status = $2 WHERE id = $1 RETURNING ` + storeColumns
	return r.findOne(ctx, query, id, status)
}

// SetCustomDomain attaches an unverified custom domain, or detaches it when
// domain is empty. Verification is a separate step so an attached-but-pending
// domain never routes.
func (r *StoreRepository) SetCustomDomain(ctx context.Context, id uuid.UUID, domain string) (*tenant.Store, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		query := `UPDATE stores SET custom_domain = NULL, custom_domain_verified = FALSE WHERE id = $1 RETURNING ` + storeColumns
		return r.findOne(ctx, query, id)
	}

	query := `UPDATE stores SET custom_domain = $2, custom_domain_verified = FALSE WHERE id = $1 RETURNING ` + storeColumns
	store, err := r.findOne(ctx, query, id, domain)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, ErrCustomDomainTaken
		}
		return nil, err
	}
	return store, nil
}

// MarkCustomDomainVerified flips the verification flag after ownership checks
// pass.
func (r *StoreRepository) MarkCustomDomainVerified(ctx context.Context, id uuid.UUID) (*tenant.Store, error) {
	query := `UPDATE stores SET custom_domain_verified = TRUE WHERE id = $1 AND custom_domain IS NOT NULL RETURNING ` + storeColumns
	return r.findOne(ctx, query, id)
}

func (r *StoreRepository) findOne(ctx context.Context, query string, args ...any) (*tenant.Store, error) {
	store, err := scanStore(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenant.ErrStoreNotFound
		}
		if pg.IsDuplicateKeyError(err) {
			return nil, err // callers translate duplicates per column
		}
		return nil, errors.Join(tenant.ErrLookupFailed, err)
	}
	return store, nil
}

func scanStore(row pgx.Row) (*tenant.Store, error) {
	var (
		store        tenant.Store
		customDomain *string
	)
	if err := row.Scan(
		&store.ID,
		&store.MerchantID,
		&store.Name,
		&store.Status,
		&store.Domain.Subdomain,
		&customDomain,
		&store.Domain.CustomDomainVerified,
		&store.CreatedAt,
	); err != nil {
		return nil, err
	}
	if customDomain != nil {
		store.Domain.CustomDomain = *customDomain
	}
	return &store, nil
}
