package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/insights-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/domain"
)

const (
	syncRunsTable = "sync_runs"
)

type SyncRunRepository interface {
	EnsureTable(ctx context.Context) error
	Create(ctx context.Context, run *domain.SyncRun) error
	Finish(ctx context.Context, id string, status domain.SyncRunStatus, rowsLoaded int64, errorMessage *string) error
	ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error)
}

type syncRunRepository struct {
	conn    *postgres.Connection
	dataset string
}

func NewSyncRunRepository(conn *postgres.Connection, warehouse config.Warehouse) SyncRunRepository {
	return &syncRunRepository{
		conn:    conn,
		dataset: warehouse.Dataset,
	}
}

func (r *syncRunRepository) qualifiedTable() string {
	return fmt.Sprintf("%s.%s", pq.QuoteIdentifier(r.dataset), pq.QuoteIdentifier(syncRunsTable))
}

// EnsureTable garante a tabela de histórico de execuções
func (r *syncRunRepository) EnsureTable(ctx context.Context) error {
	schemaSQL := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pq.QuoteIdentifier(r.dataset))
	if _, err := r.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("erro ao criar schema: %w", err)
	}

	tableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			platform TEXT NOT NULL,
			account_id TEXT NOT NULL,
			levels TEXT[] NOT NULL DEFAULT '{}',
			since DATE,
			until DATE,
			date_preset TEXT,
			status TEXT NOT NULL,
			rows_loaded BIGINT NOT NULL DEFAULT 0,
			destination_table TEXT NOT NULL DEFAULT '',
			error_message TEXT,
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			finished_at TIMESTAMPTZ
		)`, r.qualifiedTable())
	if _, err := r.conn.ExecContext(ctx, tableSQL); err != nil {
		return fmt.Errorf("erro ao criar tabela de execuções: %w", err)
	}

	return nil
}

func (r *syncRunRepository) Create(ctx context.Context, run *domain.SyncRun) error {
	levels := make([]string, 0, len(run.Levels))
	for _, level := range run.Levels {
		levels = append(levels, string(level))
	}

	var preset *string
	if run.DatePreset != nil {
		value := string(*run.DatePreset)
		preset = &value
	}

	query := squirrel.StatementBuilder.
		Insert(r.qualifiedTable()).
		Columns(
			"id", "platform", "account_id", "levels",
			"since", "until", "date_preset",
			"status", "destination_table", "started_at",
		).
		Values(
			run.ID,
			run.Platform,
			run.AccountID,
			pq.Array(levels),
			run.Since,
			run.Until,
			preset,
			run.Status,
			run.DestinationTable,
			run.StartedAt,
		).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao registrar execução: %w", err)
	}

	return nil
}

func (r *syncRunRepository) Finish(ctx context.Context, id string, status domain.SyncRunStatus, rowsLoaded int64, errorMessage *string) error {
	query := squirrel.StatementBuilder.
		Update(r.qualifiedTable()).
		Set("status", status).
		Set("rows_loaded", rowsLoaded).
		Set("error_message", errorMessage).
		Set("finished_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("erro ao finalizar execução: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("execução %s não encontrada", id)
	}

	return nil
}

func (r *syncRunRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := squirrel.
		Select(
			"id", "platform", "account_id", "levels",
			"since", "until", "date_preset",
			"status", "rows_loaded", "destination_table", "error_message",
			"started_at", "finished_at",
		).
		From(r.qualifiedTable()).
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.SyncRun, 0)
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear execução: %w", err)
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return runs, nil
}

func (r *syncRunRepository) scanRun(rows *sql.Rows) (*domain.SyncRun, error) {
	run := &domain.SyncRun{}

	var levels []string
	var since, until, finishedAt sql.NullTime
	var preset, errorMessage sql.NullString

	err := rows.Scan(
		&run.ID,
		&run.Platform,
		&run.AccountID,
		pq.Array(&levels),
		&since,
		&until,
		&preset,
		&run.Status,
		&run.RowsLoaded,
		&run.DestinationTable,
		&errorMessage,
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Levels = make([]domain.Level, 0, len(levels))
	for _, level := range levels {
		run.Levels = append(run.Levels, domain.Level(level))
	}

	if since.Valid {
		run.Since = &since.Time
	}
	if until.Valid {
		run.Until = &until.Time
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	if preset.Valid {
		value := domain.DatePreset(preset.String)
		run.DatePreset = &value
	}
	if errorMessage.Valid {
		run.ErrorMessage = &errorMessage.String
	}

	return run, nil
}
