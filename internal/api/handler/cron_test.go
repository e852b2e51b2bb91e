package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	repomocks "github.com/vfg2006/insights-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/scheduler"
	syncmocks "github.com/vfg2006/insights-sync-api/internal/usecases/syncing/mocks"
	"github.com/vfg2006/insights-sync-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

// cronTestServices monta os agendadores reais sem contas configuradas, de
// forma que o disparo manual retorne sem tocar a plataforma
func cronTestServices(t *testing.T) CronJobServices {
	ctrl := gomock.NewController(t)

	mockSyncer := syncmocks.NewMockSyncer(ctrl)
	mockLister := syncmocks.NewMockAdDimensionLister(ctrl)
	mockRepo := repomocks.NewMockAdDimensionRepository(ctrl)

	cfg := &config.Config{}

	return CronJobServices{
		InsightsSyncService:     scheduler.NewInsightsSyncService(mockSyncer, cfg),
		DimensionRefreshService: scheduler.NewDimensionRefreshService(mockLister, mockRepo, cfg),
	}
}

func cronRequest(cronType string) *http.Request {
	request := httptest.NewRequest(http.MethodPost, "/v1/cron/"+cronType+"/run", nil)
	ctx := context.WithValue(request.Context(), httprouter.ParamsKey, httprouter.Params{
		{Key: "type", Value: cronType},
	})
	return request.WithContext(ctx)
}

func TestRunCronJob(t *testing.T) {
	tests := []struct {
		name       string
		cronType   string
		services   func(t *testing.T) CronJobServices
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Dispara a sincronização de insights",
			cronType:   CronJobTypeInsights,
			services:   cronTestServices,
			wantStatus: http.StatusOK,
		},
		{
			name:       "Dispara a atualização de dimensões",
			cronType:   CronJobTypeDimensions,
			services:   cronTestServices,
			wantStatus: http.StatusOK,
		},
		{
			name:       "Dispara todas as rotinas",
			cronType:   CronJobTypeAll,
			services:   cronTestServices,
			wantStatus: http.StatusOK,
		},
		{
			name:       "Tipo inválido responde 400",
			cronType:   "ranking",
			services:   cronTestServices,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name:     "Serviço indisponível responde 500",
			cronType: CronJobTypeInsights,
			services: func(t *testing.T) CronJobServices {
				return CronJobServices{}
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiErrors.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			RunCronJob(tt.services(t))(recorder, cronRequest(tt.cronType))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantCode != "" {
				var apiErr apiErrors.APIError
				assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&apiErr))
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}

			var response map[string]any
			assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
			assert.Equal(t, tt.cronType, response["type"])
		})
	}
}

func TestGetCronStatus(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil)

	GetCronStatus(cronTestServices(t))(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var status map[string]any
	assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&status))
	assert.Contains(t, status, "insights")
	assert.Contains(t, status, "dimensions")
}
