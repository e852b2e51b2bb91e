package domain

import (
	"time"
)

// SyncRequest carrega a configuração de uma sincronização de insights.
// Level define o nível único (com fallback opcional); quando Levels é
// informado, cada nível listado roda incondicionalmente e o fallback é
// ignorado.
type SyncRequest struct {
	Platform       Platform   `json:"platform"`
	AccountID      string     `json:"account_id"`
	Level          Level      `json:"level"`
	Levels         []Level    `json:"levels,omitempty"`
	FallbackLevels bool       `json:"fallback_levels"`
	DatePreset     DatePreset `json:"date_preset,omitempty"`
	Since          string     `json:"since,omitempty"`
	Until          string     `json:"until,omitempty"`
	ChunkDays      int        `json:"chunk_days"`
	Retries        int        `json:"retries"`
	BackoffSeconds float64    `json:"backoff_seconds"`
	RetryJitter    bool       `json:"retry_jitter"`
	RateLimitRPS   float64    `json:"rate_limit_rps"`
	PageSize       int        `json:"page_size"`
}

// SyncRunStatus representa o estado de uma execução de sincronização
type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "running"
	SyncRunStatusSucceeded SyncRunStatus = "succeeded"
	SyncRunStatusFailed    SyncRunStatus = "failed"
)

// SyncRun é o registro histórico de uma execução de sincronização mantido
// na tabela sync_runs para acompanhamento operacional
type SyncRun struct {
	ID               string        `json:"id"`
	Platform         Platform      `json:"platform"`
	AccountID        string        `json:"account_id"`
	Levels           []Level       `json:"levels"`
	Since            *time.Time    `json:"since"`
	Until            *time.Time    `json:"until"`
	DatePreset       *DatePreset   `json:"date_preset"`
	Status           SyncRunStatus `json:"status"`
	RowsLoaded       int64         `json:"rows_loaded"`
	DestinationTable string        `json:"destination_table"`
	ErrorMessage     *string       `json:"error_message"`
	StartedAt        time.Time     `json:"started_at"`
	FinishedAt       *time.Time    `json:"finished_at"`
}

// SyncRunSummary agrega estatísticas sobre as execuções recentes
type SyncRunSummary struct {
	TotalRuns          int     `json:"total_runs"`
	Succeeded          int     `json:"succeeded"`
	Failed             int     `json:"failed"`
	TotalRowsLoaded    int64   `json:"total_rows_loaded"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
}
