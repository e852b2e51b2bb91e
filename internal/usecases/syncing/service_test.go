package syncing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	repomocks "github.com/vfg2006/insights-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	"github.com/vfg2006/insights-sync-api/internal/usecases/syncing"
	syncmocks "github.com/vfg2006/insights-sync-api/internal/usecases/syncing/mocks"
	"go.uber.org/mock/gomock"
)

const destinationTable = "warehouse.paid_social.fct_ad_insights_daily"

func testConfig() *config.Config {
	return &config.Config{
		Sync: config.Sync{
			Level:          "ad",
			FallbackLevels: true,
			ChunkDays:      30,
			Retries:        3,
			BackoffSeconds: 0.001, // Backoff mínimo para os testes não dormirem de verdade
			RetryJitter:    false,
			RateLimitRPS:   0,
			PageSize:       500,
		},
	}
}

func fetchAtLevel(level domain.Level) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		req, ok := x.(domain.FetchRequest)
		if !ok {
			return false
		}
		return req.Level == level
	})
}

func insightRecords(level domain.Level, accountID string, firstDay time.Time, count int) []domain.InsightRecord {
	records := make([]domain.InsightRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, domain.InsightRecord{
			Date:            firstDay.AddDate(0, 0, i),
			Level:           level,
			AccountGlobalID: domain.GlobalEntityID(domain.PlatformMeta, domain.LevelAccount, accountID),
			Impressions:     int64(100 * (i + 1)),
			Clicks:          int64(10 * (i + 1)),
			Spend:           float64(5 * (i + 1)),
		})
	}
	return records
}

func TestService_SyncInsights(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFetcher := syncmocks.NewMockInsightFetcher(ctrl)
	mockFetcher.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	mockFactRepo := repomocks.NewMockInsightFactRepository(ctrl)
	mockFactRepo.EXPECT().DestinationTable().Return(destinationTable).AnyTimes()

	mockRunRepo := repomocks.NewMockSyncRunRepository(ctrl)

	service := syncing.NewService(
		testConfig(),
		syncing.NewAdapterRegistry(mockFetcher),
		mockFactRepo,
		mockRunRepo,
	)

	firstDay := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		request  domain.SyncRequest
		setup    func()
		validate func(t *testing.T, result *domain.SyncResult, err error)
	}{
		{
			name: "Conta sem prefixo é normalizada e as linhas carregadas são reportadas",
			request: domain.SyncRequest{
				AccountID:      "123456789",
				Level:          domain.LevelAd,
				FallbackLevels: true,
				Since:          "2024-01-01",
				Until:          "2024-01-05",
			},
			setup: func() {
				mockFactRepo.EXPECT().EnsureDestination(gomock.Any()).Return(nil)
				mockRunRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

				records := insightRecords(domain.LevelAd, "act_123456789", firstDay, 5)

				// Intervalo de 5 dias cabe em um único chunk
				mockFetcher.EXPECT().
					FetchInsights(gomock.Any(), gomock.Cond(func(x any) bool {
						req, ok := x.(domain.FetchRequest)
						if !ok {
							return false
						}
						return req.AccountID == "act_123456789" &&
							req.Level == domain.LevelAd &&
							req.PageSize == 500 &&
							req.Preset == nil &&
							req.Range != nil &&
							req.Range.Since.Equal(firstDay) &&
							req.Range.Until.Equal(firstDay.AddDate(0, 0, 4))
					})).
					Return(records, nil)

				mockFactRepo.EXPECT().Load(gomock.Any(), records).Return(int64(5), nil)

				mockRunRepo.EXPECT().
					Finish(gomock.Any(), gomock.Any(), domain.SyncRunStatusSucceeded, int64(5), gomock.Nil()).
					Return(nil)
			},
			validate: func(t *testing.T, result *domain.SyncResult, err error) {
				assert.NoError(t, err)
				assert.Equal(t, int64(5), result.RowsLoaded)
				assert.Equal(t, destinationTable, result.DestinationTable)
			},
		},
		{
			name: "Cascata cai de ad para adset quando o nível não carrega linhas",
			request: domain.SyncRequest{
				AccountID:      "act_123456789",
				Level:          domain.LevelAd,
				FallbackLevels: true,
				Since:          "2024-01-01",
				Until:          "2024-01-05",
			},
			setup: func() {
				mockFactRepo.EXPECT().EnsureDestination(gomock.Any()).Return(nil)
				mockRunRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

				// Nível ad não retorna nada
				mockFetcher.EXPECT().
					FetchInsights(gomock.Any(), fetchAtLevel(domain.LevelAd)).
					Return([]domain.InsightRecord{}, nil)
				mockFactRepo.EXPECT().Load(gomock.Any(), gomock.Len(0)).Return(int64(0), nil)

				// Nível adset retorna cinco linhas; campaign nunca é consultado
				records := insightRecords(domain.LevelAdset, "act_123456789", firstDay, 5)
				mockFetcher.EXPECT().
					FetchInsights(gomock.Any(), fetchAtLevel(domain.LevelAdset)).
					Return(records, nil)
				mockFactRepo.EXPECT().Load(gomock.Any(), records).Return(int64(5), nil)

				mockRunRepo.EXPECT().
					Finish(gomock.Any(), gomock.Any(), domain.SyncRunStatusSucceeded, int64(5), gomock.Nil()).
					Return(nil)
			},
			validate: func(t *testing.T, result *domain.SyncResult, err error) {
				assert.NoError(t, err)
				assert.Equal(t, int64(5), result.RowsLoaded)
			},
		},
		{
			name: "Fallback desabilitado aceita zero linhas sem cascata",
			request: domain.SyncRequest{
				AccountID:      "act_123456789",
				Level:          domain.LevelAd,
				FallbackLevels: false,
				Since:          "2024-01-01",
				Until:          "2024-01-05",
			},
			setup: func() {
				mockFactRepo.EXPECT().EnsureDestination(gomock.Any()).Return(nil)
				mockRunRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

				mockFetcher.EXPECT().
					FetchInsights(gomock.Any(), fetchAtLevel(domain.LevelAd)).
					Return([]domain.InsightRecord{}, nil)
				mockFactRepo.EXPECT().Load(gomock.Any(), gomock.Len(0)).Return(int64(0), nil)

				mockRunRepo.EXPECT().
					Finish(gomock.Any(), gomock.Any(), domain.SyncRunStatusSucceeded, int64(0), gomock.Nil()).
					Return(nil)
			},
			validate: func(t *testing.T, result *domain.SyncResult, err error) {
				assert.NoError(t, err)
				assert.Equal(t, int64(0), result.RowsLoaded)
			},
		},
		{
			name: "Lista explícita de níveis roda todos e soma as contagens",
			request: domain.SyncRequest{
				AccountID: "act_123456789",
				Levels:    []domain.Level{domain.LevelCampaign, domain.LevelAd},
				Since:     "2024-01-01",
				Until:     "2024-01-05",
			},
			setup: func() {
				mockFactRepo.EXPECT().EnsureDestination(gomock.Any()).Return(nil)
				mockRunRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

				// Campaign carrega zero linhas e mesmo assim ad roda em seguida:
				// a lista explícita ignora o fallback
				mockFetcher.EXPECT().
					FetchInsights(gomock.Any(), fetchAtLevel(domain.LevelCampaign)).
					Return([]domain.InsightRecord{}, nil)
				mockFactRepo.EXPECT().Load(gomock.Any(), gomock.Len(0)).Return(int64(0), nil)

				records := insightRecords(domain.LevelAd, "act_123456789", firstDay, 3)
				mockFetcher.EXPECT().
					FetchInsights(gomock.Any(), fetchAtLevel(domain.LevelAd)).
					Return(records, nil)
				mockFactRepo.EXPECT().Load(gomock.Any(), records).Return(int64(3), nil)

				mockRunRepo.EXPECT().
					Finish(gomock.Any(), gomock.Any(), domain.SyncRunStatusSucceeded, int64(3), gomock.Nil()).
					Return(nil)
			},
			validate: func(t *testing.T, result *domain.SyncResult, err error) {
				assert.NoError(t, err)
				assert.Equal(t, int64(3), result.RowsLoaded)
			},
		},
		{
			name: "Preset lifetime roda como um único chunk lógico",
			request: domain.SyncRequest{
				AccountID:      "act_123456789",
				Level:          domain.LevelAd,
				FallbackLevels: false,
				DatePreset:     domain.DatePresetLifetime,
			},
			setup: func() {
				mockFactRepo.EXPECT().EnsureDestination(gomock.Any()).Return(nil)
				mockRunRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

				records := insightRecords(domain.LevelAd, "act_123456789", firstDay, 2)
				mockFetcher.EXPECT().
					FetchInsights(gomock.Any(), gomock.Cond(func(x any) bool {
						req, ok := x.(domain.FetchRequest)
						if !ok {
							return false
						}
						return req.Range == nil &&
							req.Preset != nil &&
							*req.Preset == domain.DatePresetLifetime
					})).
					Return(records, nil)
				mockFactRepo.EXPECT().Load(gomock.Any(), records).Return(int64(2), nil)

				mockRunRepo.EXPECT().
					Finish(gomock.Any(), gomock.Any(), domain.SyncRunStatusSucceeded, int64(2), gomock.Nil()).
					Return(nil)
			},
			validate: func(t *testing.T, result *domain.SyncResult, err error) {
				assert.NoError(t, err)
				assert.Equal(t, int64(2), result.RowsLoaded)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			result, err := service.SyncInsights(context.Background(), tt.request)

			tt.validate(t, result, err)
		})
	}
}

func TestService_SyncInsights_ChunksLongRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFetcher := syncmocks.NewMockInsightFetcher(ctrl)
	mockFetcher.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	mockFactRepo := repomocks.NewMockInsightFactRepository(ctrl)
	mockFactRepo.EXPECT().DestinationTable().Return(destinationTable).AnyTimes()
	mockFactRepo.EXPECT().EnsureDestination(gomock.Any()).Return(nil)

	mockRunRepo := repomocks.NewMockSyncRunRepository(ctrl)
	mockRunRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	mockRunRepo.EXPECT().
		Finish(gomock.Any(), gomock.Any(), domain.SyncRunStatusSucceeded, int64(3), gomock.Nil()).
		Return(nil)

	service := syncing.NewService(
		testConfig(),
		syncing.NewAdapterRegistry(mockFetcher),
		mockFactRepo,
		mockRunRepo,
	)

	// 91 dias com chunks de 30: 30 + 30 + 30 + 1
	var fetched []domain.DateRange
	mockFetcher.EXPECT().
		FetchInsights(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.FetchRequest) ([]domain.InsightRecord, error) {
			fetched = append(fetched, *req.Range)
			return insightRecords(req.Level, req.AccountID, req.Range.Since, 1), nil
		}).
		Times(4)
	mockFactRepo.EXPECT().Load(gomock.Any(), gomock.Any()).Return(int64(1), nil).Times(3)
	mockFactRepo.EXPECT().Load(gomock.Any(), gomock.Any()).Return(int64(0), nil)

	result, err := service.SyncInsights(context.Background(), domain.SyncRequest{
		AccountID:      "act_123456789",
		Level:          domain.LevelAd,
		FallbackLevels: false,
		Since:          "2024-01-01",
		Until:          "2024-03-31",
		ChunkDays:      30,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), result.RowsLoaded)

	// Chunks em ordem cronológica, contíguos, truncados no fim do intervalo
	if assert.Len(t, fetched, 4) {
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), fetched[0].Since)
		assert.Equal(t, time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC), fetched[0].Until)
		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), fetched[1].Since)
		assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), fetched[3].Since)
		assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), fetched[3].Until)
	}
}

func TestService_SyncInsights_RetriesTransientFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFetcher := syncmocks.NewMockInsightFetcher(ctrl)
	mockFetcher.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	mockFactRepo := repomocks.NewMockInsightFactRepository(ctrl)
	mockFactRepo.EXPECT().DestinationTable().Return(destinationTable).AnyTimes()
	mockFactRepo.EXPECT().EnsureDestination(gomock.Any()).Return(nil)

	mockRunRepo := repomocks.NewMockSyncRunRepository(ctrl)
	mockRunRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	mockRunRepo.EXPECT().
		Finish(gomock.Any(), gomock.Any(), domain.SyncRunStatusSucceeded, int64(2), gomock.Nil()).
		Return(nil)

	service := syncing.NewService(
		testConfig(),
		syncing.NewAdapterRegistry(mockFetcher),
		mockFactRepo,
		mockRunRepo,
	)

	firstDay := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := insightRecords(domain.LevelAd, "act_123456789", firstDay, 2)
	fetchErr := domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, 500, "internal error")

	// Primeira tentativa falha no fetch, a segunda completa fetch+load
	gomock.InOrder(
		mockFetcher.EXPECT().
			FetchInsights(gomock.Any(), gomock.Any()).
			Return(nil, fetchErr),
		mockFetcher.EXPECT().
			FetchInsights(gomock.Any(), gomock.Any()).
			Return(records, nil),
	)
	mockFactRepo.EXPECT().Load(gomock.Any(), records).Return(int64(2), nil)

	result, err := service.SyncInsights(context.Background(), domain.SyncRequest{
		AccountID:      "act_123456789",
		Level:          domain.LevelAd,
		FallbackLevels: false,
		Since:          "2024-01-01",
		Until:          "2024-01-02",
		Retries:        2,
		BackoffSeconds: 0.001,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.RowsLoaded)
}

func TestService_SyncInsights_ExhaustsRetriesAndFailsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFetcher := syncmocks.NewMockInsightFetcher(ctrl)
	mockFetcher.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	mockFactRepo := repomocks.NewMockInsightFactRepository(ctrl)
	mockFactRepo.EXPECT().DestinationTable().Return(destinationTable).AnyTimes()
	mockFactRepo.EXPECT().EnsureDestination(gomock.Any()).Return(nil)

	mockRunRepo := repomocks.NewMockSyncRunRepository(ctrl)
	mockRunRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	mockRunRepo.EXPECT().
		Finish(gomock.Any(), gomock.Any(), domain.SyncRunStatusFailed, int64(0), gomock.Not(gomock.Nil())).
		Return(nil)

	service := syncing.NewService(
		testConfig(),
		syncing.NewAdapterRegistry(mockFetcher),
		mockFactRepo,
		mockRunRepo,
	)

	fetchErr := domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, 503, "unavailable")

	// Retries 2: tentativa inicial mais duas retentativas, todas falham
	mockFetcher.EXPECT().
		FetchInsights(gomock.Any(), gomock.Any()).
		Return(nil, fetchErr).
		Times(3)

	result, err := service.SyncInsights(context.Background(), domain.SyncRequest{
		AccountID:      "act_123456789",
		Level:          domain.LevelAd,
		FallbackLevels: false,
		Since:          "2024-01-01",
		Until:          "2024-01-02",
		Retries:        2,
		BackoffSeconds: 0.001,
	})

	assert.Nil(t, result)

	var exhausted *domain.ExhaustedRetriesError
	if assert.ErrorAs(t, err, &exhausted) {
		assert.Equal(t, 3, exhausted.Attempts)
	}
}

func TestService_SyncInsights_ValidationErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFetcher := syncmocks.NewMockInsightFetcher(ctrl)
	mockFetcher.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	mockFactRepo := repomocks.NewMockInsightFactRepository(ctrl)
	mockRunRepo := repomocks.NewMockSyncRunRepository(ctrl)

	service := syncing.NewService(
		testConfig(),
		syncing.NewAdapterRegistry(mockFetcher),
		mockFactRepo,
		mockRunRepo,
	)

	tests := []struct {
		name        string
		request     domain.SyncRequest
		expectedErr error
	}{
		{
			name:        "Conta ausente deve falhar",
			request:     domain.SyncRequest{Level: domain.LevelAd},
			expectedErr: domain.ErrAccountIDRequired,
		},
		{
			name: "Plataforma sem adapter registrado deve falhar",
			request: domain.SyncRequest{
				Platform:  domain.PlatformReddit,
				AccountID: "act_123456789",
				Level:     domain.LevelAd,
			},
			expectedErr: domain.ErrUnknownPlatform,
		},
		{
			name: "Apenas since informado deve falhar antes de qualquer fetch",
			request: domain.SyncRequest{
				AccountID: "act_123456789",
				Level:     domain.LevelAd,
				Since:     "2024-01-01",
			},
			expectedErr: domain.ErrIncompleteDateBounds,
		},
		{
			name: "Nível desconhecido deve falhar",
			request: domain.SyncRequest{
				AccountID: "act_123456789",
				Level:     domain.Level("keyword"),
			},
		},
		{
			name: "Nível desconhecido na lista explícita deve falhar",
			request: domain.SyncRequest{
				AccountID: "act_123456789",
				Levels:    []domain.Level{domain.LevelAd, domain.Level("keyword")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Nenhum fetch, load ou bookkeeping acontece em erro de validação
			result, err := service.SyncInsights(context.Background(), tt.request)

			assert.Nil(t, result)
			assert.Error(t, err)

			var validationErr *domain.ValidationError
			assert.ErrorAs(t, err, &validationErr)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}
}
