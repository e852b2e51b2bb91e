package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/insights-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/domain"
)

const (
	adDimensionTable = "dim_ad"

	dimensionUpsertBatchSize = 500
)

type AdDimensionRepository interface {
	EnsureTable(ctx context.Context) error
	UpsertBatch(ctx context.Context, dimensions []domain.AdDimension) (int64, error)
}

type adDimensionRepository struct {
	conn    *postgres.Connection
	dataset string
}

func NewAdDimensionRepository(conn *postgres.Connection, warehouse config.Warehouse) AdDimensionRepository {
	return &adDimensionRepository{
		conn:    conn,
		dataset: warehouse.Dataset,
	}
}

func (r *adDimensionRepository) qualifiedTable() string {
	return fmt.Sprintf("%s.%s", pq.QuoteIdentifier(r.dataset), pq.QuoteIdentifier(adDimensionTable))
}

// EnsureTable garante a tabela dimensional de anúncios
func (r *adDimensionRepository) EnsureTable(ctx context.Context) error {
	schemaSQL := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pq.QuoteIdentifier(r.dataset))
	if _, err := r.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("erro ao criar schema: %w", err)
	}

	tableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			ad_global_id TEXT PRIMARY KEY,
			account_global_id TEXT NOT NULL,
			campaign_global_id TEXT,
			adset_global_id TEXT,
			name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			effective_status TEXT,
			synced_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, r.qualifiedTable())
	if _, err := r.conn.ExecContext(ctx, tableSQL); err != nil {
		return fmt.Errorf("erro ao criar tabela dim_ad: %w", err)
	}

	return nil
}

// UpsertBatch insere ou atualiza as dimensões de anúncios pelo id global
func (r *adDimensionRepository) UpsertBatch(ctx context.Context, dimensions []domain.AdDimension) (int64, error) {
	if len(dimensions) == 0 {
		return 0, nil
	}

	for start := 0; start < len(dimensions); start += dimensionUpsertBatchSize {
		end := start + dimensionUpsertBatchSize
		if end > len(dimensions) {
			end = len(dimensions)
		}
		if err := r.upsertSlice(ctx, dimensions[start:end]); err != nil {
			return 0, err
		}
	}

	return int64(len(dimensions)), nil
}

func (r *adDimensionRepository) upsertSlice(ctx context.Context, dimensions []domain.AdDimension) error {
	builder := squirrel.StatementBuilder.
		Insert(r.qualifiedTable()).
		Columns(
			"ad_global_id", "account_global_id", "campaign_global_id", "adset_global_id",
			"name", "status", "effective_status",
		)

	for _, dimension := range dimensions {
		builder = builder.Values(
			dimension.AdGlobalID,
			dimension.AccountGlobalID,
			dimension.CampaignGlobalID,
			dimension.AdsetGlobalID,
			dimension.Name,
			dimension.Status,
			dimension.EffectiveStatus,
		)
	}

	query := builder.Suffix(`
		ON CONFLICT (ad_global_id) DO UPDATE SET
			account_global_id = EXCLUDED.account_global_id,
			campaign_global_id = EXCLUDED.campaign_global_id,
			adset_global_id = EXCLUDED.adset_global_id,
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			effective_status = EXCLUDED.effective_status,
			synced_at = NOW()
	`).PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}
