package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insights-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/domain"
)

const (
	insightFactTable = "fct_ad_insights_daily"

	// Limite de linhas por INSERT no staging para não estourar o máximo de
	// parâmetros do Postgres (65535)
	stagingInsertBatchSize = 500
)

// naturalKeyExprs é a chave natural da tabela fato. Ids nulos comparam como
// string vazia para que o merge trate NULL como igual a NULL.
const naturalKeyExprs = "date, level, account_global_id, " +
	"COALESCE(campaign_global_id, ''), COALESCE(adset_global_id, ''), COALESCE(ad_global_id, '')"

type InsightFactRepository interface {
	EnsureDestination(ctx context.Context) error
	DestinationTable() string
	Load(ctx context.Context, records []domain.InsightRecord) (int64, error)
}

type insightFactRepository struct {
	conn    *postgres.Connection
	project string
	dataset string
}

func NewInsightFactRepository(conn *postgres.Connection, warehouse config.Warehouse) InsightFactRepository {
	return &insightFactRepository{
		conn:    conn,
		project: warehouse.Project,
		dataset: warehouse.Dataset,
	}
}

// DestinationTable retorna o identificador completo da tabela fato no
// formato {project}.{dataset}.{table}
func (r *insightFactRepository) DestinationTable() string {
	return fmt.Sprintf("%s.%s.%s", r.project, r.dataset, insightFactTable)
}

// qualifiedFactTable retorna o nome da tabela fato qualificado pelo schema
func (r *insightFactRepository) qualifiedFactTable() string {
	return fmt.Sprintf("%s.%s", pq.QuoteIdentifier(r.dataset), pq.QuoteIdentifier(insightFactTable))
}

// EnsureDestination garante schema, tabela fato e índice único da chave
// natural. Todas as operações são idempotentes.
func (r *insightFactRepository) EnsureDestination(ctx context.Context) error {
	schemaSQL := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pq.QuoteIdentifier(r.dataset))
	if _, err := r.conn.ExecContext(ctx, schemaSQL); err != nil {
		return domain.NewLoadError(fmt.Errorf("erro ao criar schema: %w", err), r.dataset, "ensure")
	}

	tableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			date DATE NOT NULL,
			level TEXT NOT NULL,
			account_global_id TEXT NOT NULL,
			campaign_global_id TEXT,
			adset_global_id TEXT,
			ad_global_id TEXT,
			impressions BIGINT NOT NULL DEFAULT 0,
			clicks BIGINT NOT NULL DEFAULT 0,
			spend NUMERIC(18, 6) NOT NULL DEFAULT 0,
			conversions DOUBLE PRECISION,
			ctr DOUBLE PRECISION,
			frequency DOUBLE PRECISION,
			raw_metrics JSONB,
			synced_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, r.qualifiedFactTable())
	if _, err := r.conn.ExecContext(ctx, tableSQL); err != nil {
		return domain.NewLoadError(fmt.Errorf("erro ao criar tabela fato: %w", err), insightFactTable, "ensure")
	}

	indexSQL := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_%s_natural_key ON %s (%s)",
		insightFactTable, r.qualifiedFactTable(), naturalKeyExprs,
	)
	if _, err := r.conn.ExecContext(ctx, indexSQL); err != nil {
		return domain.NewLoadError(fmt.Errorf("erro ao criar índice da chave natural: %w", err), insightFactTable, "ensure")
	}

	return nil
}

// Load carrega um lote de registros na tabela fato via staging com merge
// atômico: cria uma tabela de staging com nome único, insere o lote em
// batches dentro de uma transação, executa um único merge pela chave
// natural e derruba o staging em qualquer caminho de saída. Recarregar um
// lote idêntico converge para o mesmo estado no destino.
func (r *insightFactRepository) Load(ctx context.Context, records []domain.InsightRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	stagingName := fmt.Sprintf("%s_stg_%s", insightFactTable, strings.ReplaceAll(uuid.NewString(), "-", ""))
	qualifiedStaging := fmt.Sprintf("%s.%s", pq.QuoteIdentifier(r.dataset), pq.QuoteIdentifier(stagingName))

	createSQL := fmt.Sprintf("CREATE TABLE %s (LIKE %s INCLUDING DEFAULTS)", qualifiedStaging, r.qualifiedFactTable())
	if _, err := r.conn.ExecContext(ctx, createSQL); err != nil {
		return 0, domain.NewLoadError(fmt.Errorf("erro ao criar tabela de staging: %w", err), stagingName, "stage")
	}

	// Garantir a limpeza do staging em qualquer caminho de saída, inclusive
	// falha de merge. Erro do próprio drop é registrado sem sobrepor o erro
	// principal do load.
	defer func() {
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", qualifiedStaging)
		if _, err := r.conn.ExecContext(context.WithoutCancel(ctx), dropSQL); err != nil {
			logrus.WithFields(logrus.Fields{
				"staging_table": stagingName,
				"error":         err.Error(),
			}).Warn("Erro ao derrubar tabela de staging")
		}
	}()

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(records); start += stagingInsertBatchSize {
			end := start + stagingInsertBatchSize
			if end > len(records) {
				end = len(records)
			}
			if err := r.stageBatch(ctx, tx, qualifiedStaging, records[start:end]); err != nil {
				return err
			}
		}
		return r.merge(ctx, tx, qualifiedStaging)
	})
	if err != nil {
		return 0, err
	}

	return int64(len(records)), nil
}

// stageBatch insere uma fatia do lote na tabela de staging
func (r *insightFactRepository) stageBatch(ctx context.Context, tx *sql.Tx, staging string, records []domain.InsightRecord) error {
	builder := squirrel.StatementBuilder.
		Insert(staging).
		Columns(
			"date", "level",
			"account_global_id", "campaign_global_id", "adset_global_id", "ad_global_id",
			"impressions", "clicks", "spend", "conversions", "ctr", "frequency",
			"raw_metrics",
		)

	for _, record := range records {
		var rawJSON []byte
		if record.RawMetrics != nil {
			var err error
			rawJSON, err = json.Marshal(record.RawMetrics)
			if err != nil {
				return domain.NewLoadError(fmt.Errorf("erro ao serializar raw_metrics para JSON: %w", err), staging, "stage")
			}
		}

		builder = builder.Values(
			record.Date,
			record.Level,
			record.AccountGlobalID,
			record.CampaignGlobalID,
			record.AdsetGlobalID,
			record.AdGlobalID,
			record.Impressions,
			record.Clicks,
			record.Spend,
			record.Conversions,
			record.CTR,
			record.Frequency,
			rawJSON,
		)
	}

	sqlQuery, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return domain.NewLoadError(fmt.Errorf("erro ao construir a query: %w", err), staging, "stage")
	}

	if _, err = tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return domain.NewLoadError(fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code), staging, "stage")
		}
		return domain.NewLoadError(fmt.Errorf("erro ao inserir lote no staging: %w", err), staging, "stage")
	}

	return nil
}

// merge aplica o staging na tabela fato em um único comando atômico:
// linhas com chave natural existente têm as métricas atualizadas, as demais
// são inseridas. O staging é deduplicado pela chave natural antes do merge.
func (r *insightFactRepository) merge(ctx context.Context, tx *sql.Tx, staging string) error {
	mergeSQL := fmt.Sprintf(`
		INSERT INTO %[1]s (
			date, level,
			account_global_id, campaign_global_id, adset_global_id, ad_global_id,
			impressions, clicks, spend, conversions, ctr, frequency,
			raw_metrics, synced_at
		)
		SELECT DISTINCT ON (%[3]s)
			date, level,
			account_global_id, campaign_global_id, adset_global_id, ad_global_id,
			impressions, clicks, spend, conversions, ctr, frequency,
			raw_metrics, NOW()
		FROM %[2]s
		ORDER BY %[3]s
		ON CONFLICT (%[3]s) DO UPDATE SET
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			spend = EXCLUDED.spend,
			conversions = EXCLUDED.conversions,
			ctr = EXCLUDED.ctr,
			frequency = EXCLUDED.frequency,
			raw_metrics = EXCLUDED.raw_metrics,
			synced_at = EXCLUDED.synced_at
	`, r.qualifiedFactTable(), staging, naturalKeyExprs)

	if _, err := tx.ExecContext(ctx, mergeSQL); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return domain.NewLoadError(fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code), insightFactTable, "merge")
		}
		return domain.NewLoadError(fmt.Errorf("erro ao executar merge: %w", err), insightFactTable, "merge")
	}

	return nil
}
