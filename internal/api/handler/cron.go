package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insights-sync-api/internal/scheduler"
	"github.com/vfg2006/insights-sync-api/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeInsights   = "insights"
	CronJobTypeDimensions = "dimensions"
	CronJobTypeAll        = "all"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	InsightsSyncService     *scheduler.InsightsSyncService
	DimensionRefreshService *scheduler.DimensionRefreshService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Obter o tipo de cron job da URL
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		// Validar o tipo de cron job
		switch cronType {
		case CronJobTypeInsights:
			// Executar sincronização de insights
			if services.InsightsSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização de insights não disponível", nil)
				return
			}
			services.InsightsSyncService.TriggerManualSync()

		case CronJobTypeDimensions:
			// Executar atualização de dimensões
			if services.DimensionRefreshService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de atualização de dimensões não disponível", nil)
				return
			}
			services.DimensionRefreshService.TriggerManualRefresh()

		case CronJobTypeAll:
			// Executar ambas as rotinas
			if services.InsightsSyncService != nil {
				services.InsightsSyncService.TriggerManualSync()
			}
			if services.DimensionRefreshService != nil {
				services.DimensionRefreshService.TriggerManualRefresh()
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: insights, dimensions, all", nil)
			return
		}

		// Responder com sucesso
		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{
			"insights":   services.InsightsSyncService.GetStatus(),
			"dimensions": services.DimensionRefreshService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
