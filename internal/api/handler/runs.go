package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vfg2006/insights-sync-api/infrastructure/repository"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	"github.com/vfg2006/insights-sync-api/pkg/apiErrors"
	"github.com/vfg2006/insights-sync-api/pkg/log"
	"github.com/vfg2006/insights-sync-api/pkg/utils"
)

// SyncRunsResponse lista as execuções recentes com um resumo agregado
type SyncRunsResponse struct {
	Runs    []*domain.SyncRun     `json:"runs"`
	Summary domain.SyncRunSummary `json:"summary"`
}

// ListSyncRuns retorna as execuções de sincronização mais recentes
func ListSyncRuns(runRepo repository.SyncRunRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				logger.WithField("limit", raw).Warn("insights: invalid limit parameter")
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
				return
			}
			limit = parsed
		}

		runs, err := runRepo.ListRecent(r.Context(), limit)
		if err != nil {
			logger.WithError(err).Error("insights: failed to list sync runs")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar execuções de sincronização", nil)
			return
		}

		response := SyncRunsResponse{
			Runs:    runs,
			Summary: summarizeRuns(runs),
		}

		logger.WithFields(log.Fields{
			"runs":      len(runs),
			"succeeded": response.Summary.Succeeded,
			"failed":    response.Summary.Failed,
		}).Debug("insights: listed recent sync runs")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.WithError(err).Error("insights: failed to encode response")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// summarizeRuns agrega o resultado das execuções listadas. A média de duração
// considera apenas execuções finalizadas.
func summarizeRuns(runs []*domain.SyncRun) domain.SyncRunSummary {
	summary := domain.SyncRunSummary{
		TotalRuns: len(runs),
	}

	var durationTotal float64
	finished := 0

	for _, run := range runs {
		switch run.Status {
		case domain.SyncRunStatusSucceeded:
			summary.Succeeded++
		case domain.SyncRunStatusFailed:
			summary.Failed++
		}

		summary.TotalRowsLoaded += run.RowsLoaded

		if run.FinishedAt != nil {
			durationTotal += run.FinishedAt.Sub(run.StartedAt).Seconds()
			finished++
		}
	}

	if finished > 0 {
		summary.AvgDurationSeconds = utils.RoundWithTwoDecimalPlace(durationTotal / float64(finished))
	}

	return summary
}
