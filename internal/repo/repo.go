package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/repo/interfaces"
)

const adColumns = `id, project_name, project_id, source, source_url, type, click_count, cost, score, created_at, updated_at`

type AdRepo struct {
	db *sqlx.DB
}

func NewAdRepo(db *sqlx.DB) interfaces.AdRepo {
	return &AdRepo{db: db}
}

func (r *AdRepo) ListAds(ctx context.Context, skip, limit int) ([]models.AdEntry, error) {
	query := `SELECT ` + adColumns + `
		FROM ads_data
		ORDER BY id
		OFFSET $1 LIMIT $2
	`

	ads := []models.AdEntry{}
	if err := r.db.SelectContext(ctx, &ads, query, skip, limit); err != nil {
		return nil, fmt.Errorf("select ads: %w", err)
	}

	return ads, nil
}

func (r *AdRepo) GetAllAds(ctx context.Context) ([]models.AdEntry, error) {
	query := `SELECT ` + adColumns + ` FROM ads_data ORDER BY id`

	ads := []models.AdEntry{}
	if err := r.db.SelectContext(ctx, &ads, query); err != nil {
		return nil, fmt.Errorf("select all ads: %w", err)
	}

	return ads, nil
}

func (r *AdRepo) GetAdByID(ctx context.Context, id int64) (*models.AdEntry, error) {
	query := `SELECT ` + adColumns + ` FROM ads_data WHERE id = $1`

	var ad models.AdEntry
	if err := r.db.GetContext(ctx, &ad, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ad by id: %w", err)
	}

	return &ad, nil
}

func (r *AdRepo) CreateAd(ctx context.Context, entry *models.AdEntry) error {
	query := `
	INSERT INTO ads_data (
		project_name, project_id, source, source_url, type, click_count, cost, score
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		entry.ProjectName,
		entry.ProjectID,
		entry.Source,
		entry.SourceURL,
		entry.Type,
		entry.ClickCount,
		entry.Cost,
		entry.Score,
	)
	if err := row.Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return fmt.Errorf("insert ad: %w", err)
	}

	return nil
}

// CreateAdsBatch bulk loads entries with COPY inside one transaction. Ids and
// timestamps are assigned by the database and not written back.
func (r *AdRepo) CreateAdsBatch(ctx context.Context, entries []models.AdEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"ads_data",
		"project_name", "project_id", "source", "source_url", "type", "click_count", "cost", "score",
	))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}

	for _, entry := range entries {
		_, err = stmt.ExecContext(ctx,
			entry.ProjectName,
			entry.ProjectID,
			entry.Source,
			entry.SourceURL,
			entry.Type,
			entry.ClickCount,
			entry.Cost,
			entry.Score,
		)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("exec copy: %w", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("finalize copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *AdRepo) UpdateAd(ctx context.Context, entry *models.AdEntry) (bool, error) {
	query := `
	UPDATE ads_data SET
		project_name = $2,
		project_id = $3,
		source = $4,
		source_url = $5,
		type = $6,
		click_count = $7,
		cost = $8,
		score = $9,
		updated_at = NOW()
	WHERE id = $1
	RETURNING created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		entry.ID,
		entry.ProjectName,
		entry.ProjectID,
		entry.Source,
		entry.SourceURL,
		entry.Type,
		entry.ClickCount,
		entry.Cost,
		entry.Score,
	)
	if err := row.Scan(&entry.CreatedAt, &entry.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("update ad: %w", err)
	}

	return true, nil
}

func (r *AdRepo) DeleteAd(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ads_data WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete ad: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete ad rows affected: %w", err)
	}

	return n > 0, nil
}

func (r *AdRepo) RescoreAll(ctx context.Context, fn interfaces.RescoreFunc) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ads []models.AdEntry
	if err := tx.SelectContext(ctx, &ads, `SELECT `+adColumns+` FROM ads_data ORDER BY id FOR UPDATE`); err != nil {
		return 0, fmt.Errorf("select ads for rescore: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `UPDATE ads_data SET score = $2, updated_at = NOW() WHERE id = $1`)
	if err != nil {
		return 0, fmt.Errorf("prepare rescore: %w", err)
	}
	defer stmt.Close()

	var updated int64
	for _, ad := range ads {
		score := fn(ad)
		if score == ad.Score {
			continue
		}
		if _, err := stmt.ExecContext(ctx, ad.ID, score); err != nil {
			return 0, fmt.Errorf("rescore ad %d: %w", ad.ID, err)
		}
		updated++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return updated, nil
}
