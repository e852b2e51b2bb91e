package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	repomocks "github.com/vfg2006/insights-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	"github.com/vfg2006/insights-sync-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func finishedRun(id string, status domain.SyncRunStatus, rows int64, duration time.Duration) *domain.SyncRun {
	startedAt := time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)
	finishedAt := startedAt.Add(duration)

	return &domain.SyncRun{
		ID:         id,
		Platform:   domain.PlatformMeta,
		AccountID:  "act_123456789",
		Levels:     []domain.Level{domain.LevelAd},
		Status:     status,
		RowsLoaded: rows,
		StartedAt:  startedAt,
		FinishedAt: &finishedAt,
	}
}

func TestListSyncRuns(t *testing.T) {
	t.Run("Lista execuções recentes com resumo agregado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		runs := []*domain.SyncRun{
			finishedRun("abc123", domain.SyncRunStatusSucceeded, 100, 60*time.Second),
			finishedRun("def456", domain.SyncRunStatusSucceeded, 50, 30*time.Second),
			finishedRun("ghi789", domain.SyncRunStatusFailed, 0, 10*time.Second),
		}

		mockRepo := repomocks.NewMockSyncRunRepository(ctrl)
		mockRepo.EXPECT().
			ListRecent(gomock.Any(), 0).
			Return(runs, nil)

		request := httptest.NewRequest(http.MethodGet, "/v1/sync/runs", nil)
		recorder := httptest.NewRecorder()

		ListSyncRuns(mockRepo)(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response SyncRunsResponse
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Len(t, response.Runs, 3)
		assert.Equal(t, 3, response.Summary.TotalRuns)
		assert.Equal(t, 2, response.Summary.Succeeded)
		assert.Equal(t, 1, response.Summary.Failed)
		assert.Equal(t, int64(150), response.Summary.TotalRowsLoaded)
		assert.Equal(t, 33.33, response.Summary.AvgDurationSeconds)
	})

	t.Run("Repassa o limit informado na query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockSyncRunRepository(ctrl)
		mockRepo.EXPECT().
			ListRecent(gomock.Any(), 5).
			Return([]*domain.SyncRun{}, nil)

		request := httptest.NewRequest(http.MethodGet, "/v1/sync/runs?limit=5", nil)
		recorder := httptest.NewRecorder()

		ListSyncRuns(mockRepo)(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Limit inválido responde 400 sem consultar o banco", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockSyncRunRepository(ctrl)

		request := httptest.NewRequest(http.MethodGet, "/v1/sync/runs?limit=abc", nil)
		recorder := httptest.NewRecorder()

		ListSyncRuns(mockRepo)(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var apiErr apiErrors.APIError
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&apiErr))
		assert.Equal(t, apiErrors.ErrInvalidFormat, apiErr.Code)
	})

	t.Run("Erro do repositório responde 500", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockSyncRunRepository(ctrl)
		mockRepo.EXPECT().
			ListRecent(gomock.Any(), 0).
			Return(nil, errors.New("connection refused"))

		request := httptest.NewRequest(http.MethodGet, "/v1/sync/runs", nil)
		recorder := httptest.NewRecorder()

		ListSyncRuns(mockRepo)(recorder, request)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)

		var apiErr apiErrors.APIError
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&apiErr))
		assert.Equal(t, apiErrors.ErrDatabaseOperation, apiErr.Code)
	})
}

func TestSummarizeRuns(t *testing.T) {
	t.Run("Sem execuções o resumo fica zerado", func(t *testing.T) {
		summary := summarizeRuns(nil)

		assert.Equal(t, 0, summary.TotalRuns)
		assert.Equal(t, 0.0, summary.AvgDurationSeconds)
	})

	t.Run("Execuções em andamento não entram na média de duração", func(t *testing.T) {
		running := &domain.SyncRun{
			ID:        "run123",
			Status:    domain.SyncRunStatusRunning,
			StartedAt: time.Now(),
		}

		summary := summarizeRuns([]*domain.SyncRun{
			running,
			finishedRun("abc123", domain.SyncRunStatusSucceeded, 10, 20*time.Second),
		})

		assert.Equal(t, 2, summary.TotalRuns)
		assert.Equal(t, 1, summary.Succeeded)
		assert.Equal(t, 0, summary.Failed)
		assert.Equal(t, 20.0, summary.AvgDurationSeconds)
	})
}
