package handler

import (
	"net/http"

	"github.com/vfg2006/insights-sync-api/infrastructure/repository"
	"github.com/vfg2006/insights-sync-api/internal/api/handler/router"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/usecases/syncing"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sync(service syncing.Syncer, runRepo repository.SyncRunRepository, cfg *config.Config) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sync/insights",
			Method:  http.MethodPost,
			Handler: SyncInsights(service, cfg),
		},
		{
			Path:    "/v1/sync/runs",
			Method:  http.MethodGet,
			Handler: ListSyncRuns(runRepo),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
