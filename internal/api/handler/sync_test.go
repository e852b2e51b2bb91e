package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	syncmocks "github.com/vfg2006/insights-sync-api/internal/usecases/syncing/mocks"
	"github.com/vfg2006/insights-sync-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func handlerTestConfig() *config.Config {
	return &config.Config{
		Sync: config.Sync{
			Level:          "ad",
			FallbackLevels: true,
			ChunkDays:      30,
			Retries:        3,
			BackoffSeconds: 2.0,
			RetryJitter:    true,
			PageSize:       500,
		},
	}
}

func TestSyncInsights(t *testing.T) {
	t.Run("Dispara a sincronização e responde com o resultado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSyncer := syncmocks.NewMockSyncer(ctrl)

		var captured domain.SyncRequest
		mockSyncer.EXPECT().
			SyncInsights(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req domain.SyncRequest) (*domain.SyncResult, error) {
				captured = req
				return &domain.SyncResult{
					RowsLoaded:       42,
					DestinationTable: "warehouse.paid_social.fct_ad_insights_daily",
				}, nil
			})

		body := `{"platform":"meta","account_id":"act_123456789","level":"ad","since":"2024-01-01","until":"2024-01-31"}`
		request := httptest.NewRequest(http.MethodPost, "/v1/sync/insights", strings.NewReader(body))
		recorder := httptest.NewRecorder()

		SyncInsights(mockSyncer, handlerTestConfig())(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var result domain.SyncResult
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
		assert.Equal(t, int64(42), result.RowsLoaded)
		assert.Equal(t, "warehouse.paid_social.fct_ad_insights_daily", result.DestinationTable)

		// Booleanos omitidos no corpo herdam os padrões da config
		assert.Equal(t, domain.PlatformMeta, captured.Platform)
		assert.Equal(t, "act_123456789", captured.AccountID)
		assert.True(t, captured.FallbackLevels)
		assert.True(t, captured.RetryJitter)
	})

	t.Run("Booleanos explícitos no corpo não são sobrescritos pelos padrões", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSyncer := syncmocks.NewMockSyncer(ctrl)

		var captured domain.SyncRequest
		mockSyncer.EXPECT().
			SyncInsights(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req domain.SyncRequest) (*domain.SyncResult, error) {
				captured = req
				return &domain.SyncResult{RowsLoaded: 0}, nil
			})

		body := `{"account_id":"act_123456789","fallback_levels":false,"retry_jitter":false}`
		request := httptest.NewRequest(http.MethodPost, "/v1/sync/insights", strings.NewReader(body))
		recorder := httptest.NewRecorder()

		SyncInsights(mockSyncer, handlerTestConfig())(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.False(t, captured.FallbackLevels)
		assert.False(t, captured.RetryJitter)
	})

	t.Run("Corpo ilegível responde 400 sem chamar o serviço", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSyncer := syncmocks.NewMockSyncer(ctrl)

		request := httptest.NewRequest(http.MethodPost, "/v1/sync/insights", strings.NewReader("not-json"))
		recorder := httptest.NewRecorder()

		SyncInsights(mockSyncer, handlerTestConfig())(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var apiErr apiErrors.APIError
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&apiErr))
		assert.Equal(t, apiErrors.ErrInvalidRequest, apiErr.Code)
	})

	t.Run("Erro de validação responde 400 com o campo envolvido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSyncer := syncmocks.NewMockSyncer(ctrl)
		mockSyncer.EXPECT().
			SyncInsights(gomock.Any(), gomock.Any()).
			Return(nil, domain.NewValidationError(domain.ErrAccountIDRequired, "account_id", ""))

		request := httptest.NewRequest(http.MethodPost, "/v1/sync/insights", strings.NewReader(`{}`))
		recorder := httptest.NewRecorder()

		SyncInsights(mockSyncer, handlerTestConfig())(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var apiErr apiErrors.APIError
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&apiErr))
		assert.Equal(t, apiErrors.ErrInvalidRequest, apiErr.Code)

		details, ok := apiErr.Details.(map[string]any)
		if assert.True(t, ok) {
			assert.Equal(t, "account_id", details["field"])
		}
	})

	t.Run("Plataforma sem adapter responde com código próprio", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSyncer := syncmocks.NewMockSyncer(ctrl)
		mockSyncer.EXPECT().
			SyncInsights(gomock.Any(), gomock.Any()).
			Return(nil, domain.NewValidationError(domain.ErrUnknownPlatform, "platform", "tiktok"))

		body := `{"platform":"tiktok","account_id":"act_123456789"}`
		request := httptest.NewRequest(http.MethodPost, "/v1/sync/insights", strings.NewReader(body))
		recorder := httptest.NewRecorder()

		SyncInsights(mockSyncer, handlerTestConfig())(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var apiErr apiErrors.APIError
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&apiErr))
		assert.Equal(t, apiErrors.ErrSyncUnknownPlatform, apiErr.Code)
	})

	t.Run("Tentativas esgotadas respondem 502", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fetchErr := domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, 500, "boom")

		mockSyncer := syncmocks.NewMockSyncer(ctrl)
		mockSyncer.EXPECT().
			SyncInsights(gomock.Any(), gomock.Any()).
			Return(nil, domain.NewExhaustedRetriesError(fetchErr, 4))

		body := `{"account_id":"act_123456789"}`
		request := httptest.NewRequest(http.MethodPost, "/v1/sync/insights", strings.NewReader(body))
		recorder := httptest.NewRecorder()

		SyncInsights(mockSyncer, handlerTestConfig())(recorder, request)

		assert.Equal(t, http.StatusBadGateway, recorder.Code)

		var apiErr apiErrors.APIError
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&apiErr))
		assert.Equal(t, apiErrors.ErrSyncExhaustedRetries, apiErr.Code)

		details, ok := apiErr.Details.(map[string]any)
		if assert.True(t, ok) {
			assert.Equal(t, float64(4), details["attempts"])
		}
	})
}
