package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	"github.com/vfg2006/insights-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/insights-sync-api/pkg/apiErrors"
	"github.com/vfg2006/insights-sync-api/pkg/log"
)

// SyncInsightsRequest é o corpo aceito pelo disparo manual de sincronização.
// Os campos booleanos são ponteiros para distinguir omissão de false: quando
// omitidos, herdam os padrões do pipeline definidos na config.
type SyncInsightsRequest struct {
	Platform       string   `json:"platform"`
	AccountID      string   `json:"account_id"`
	Level          string   `json:"level"`
	Levels         []string `json:"levels"`
	FallbackLevels *bool    `json:"fallback_levels"`
	DatePreset     string   `json:"date_preset"`
	Since          string   `json:"since"`
	Until          string   `json:"until"`
	ChunkDays      int      `json:"chunk_days"`
	Retries        int      `json:"retries"`
	BackoffSeconds float64  `json:"backoff_seconds"`
	RetryJitter    *bool    `json:"retry_jitter"`
	RateLimitRPS   float64  `json:"rate_limit_rps"`
	PageSize       int      `json:"page_size"`
}

// toDomain converte o corpo da requisição aplicando os padrões da config aos
// campos booleanos omitidos. Os campos numéricos zerados são herdados pelo
// próprio serviço de sincronização.
func (r SyncInsightsRequest) toDomain(cfg *config.Config) domain.SyncRequest {
	request := domain.SyncRequest{
		Platform:       domain.Platform(r.Platform),
		AccountID:      r.AccountID,
		Level:          domain.Level(r.Level),
		FallbackLevels: cfg.Sync.FallbackLevels,
		DatePreset:     domain.DatePreset(r.DatePreset),
		Since:          r.Since,
		Until:          r.Until,
		ChunkDays:      r.ChunkDays,
		Retries:        r.Retries,
		BackoffSeconds: r.BackoffSeconds,
		RetryJitter:    cfg.Sync.RetryJitter,
		RateLimitRPS:   r.RateLimitRPS,
		PageSize:       r.PageSize,
	}

	for _, level := range r.Levels {
		request.Levels = append(request.Levels, domain.Level(level))
	}

	if r.FallbackLevels != nil {
		request.FallbackLevels = *r.FallbackLevels
	}
	if r.RetryJitter != nil {
		request.RetryJitter = *r.RetryJitter
	}

	return request
}

// SyncInsights dispara manualmente uma sincronização de insights e aguarda a
// conclusão, respondendo com o total de linhas carregadas
func SyncInsights(service syncing.Syncer, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req SyncInsightsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		logger.WithFields(log.Fields{
			"platform":   req.Platform,
			"account_id": req.AccountID,
			"level":      req.Level,
		}).Info("insights: manual sync requested")

		result, err := service.SyncInsights(r.Context(), req.toDomain(cfg))
		if err != nil {
			handleSyncError(w, logger, err)
			return
		}

		logger.WithFields(log.Fields{
			"account_id":        req.AccountID,
			"rows_loaded":       result.RowsLoaded,
			"destination_table": result.DestinationTable,
		}).Info("insights: manual sync finished")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("insights: failed to encode response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// handleSyncError traduz os erros do pipeline para as respostas padronizadas da API
func handleSyncError(w http.ResponseWriter, logger log.Logger, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		logger.WithError(err).Warn("insights: sync request rejected")

		code := apiErrors.ErrInvalidRequest
		if errors.Is(err, domain.ErrUnknownPlatform) {
			code = apiErrors.ErrSyncUnknownPlatform
		}

		apiErrors.WriteError(w, code, validationErr.Error(), map[string]any{
			"field": validationErr.Field,
		})
		return
	}

	var retriesErr *domain.ExhaustedRetriesError
	if errors.As(err, &retriesErr) {
		logger.WithError(err).Error("insights: sync exhausted retries")
		apiErrors.WriteError(w, apiErrors.ErrSyncExhaustedRetries, retriesErr.Error(), map[string]any{
			"attempts": retriesErr.Attempts,
		})
		return
	}

	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		logger.WithError(err).Error("insights: upstream platform error")
		apiErrors.WriteError(w, apiErrors.ErrExternalService, fetchErr.Error(), map[string]any{
			"platform":    fetchErr.Platform,
			"status_code": fetchErr.StatusCode,
		})
		return
	}

	var loadErr *domain.LoadError
	if errors.As(err, &loadErr) {
		logger.WithError(err).Error("insights: warehouse load error")
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, loadErr.Error(), map[string]any{
			"table": loadErr.Table,
		})
		return
	}

	logger.WithError(err).Error("insights: sync failed")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao sincronizar insights", nil)
}
