package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	repomocks "github.com/vfg2006/insights-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	syncmocks "github.com/vfg2006/insights-sync-api/internal/usecases/syncing/mocks"
	"go.uber.org/mock/gomock"
)

func adDimensions(accountID string, count int) []domain.AdDimension {
	dimensions := make([]domain.AdDimension, 0, count)
	for i := 0; i < count; i++ {
		dimensions = append(dimensions, domain.AdDimension{
			AdGlobalID:      domain.GlobalEntityID(domain.PlatformMeta, "ad", string(rune('a'+i))),
			AccountGlobalID: domain.GlobalEntityID(domain.PlatformMeta, "account", accountID),
			Name:            "Anúncio de teste",
			Status:          "ACTIVE",
			SyncedAt:        time.Now(),
		})
	}
	return dimensions
}

func TestDimensionRefreshService_refreshAccount(t *testing.T) {
	tests := []struct {
		name  string
		setup func(lister *syncmocks.MockAdDimensionLister, repo *repomocks.MockAdDimensionRepository)
	}{
		{
			name: "Lista os anúncios da conta e grava na tabela dimensional",
			setup: func(lister *syncmocks.MockAdDimensionLister, repo *repomocks.MockAdDimensionRepository) {
				dimensions := adDimensions("act_123456789", 2)

				lister.EXPECT().
					ListAds(gomock.Any(), "act_123456789").
					Return(dimensions, nil)

				repo.EXPECT().
					UpsertBatch(gomock.Any(), dimensions).
					Return(int64(2), nil)
			},
		},
		{
			name: "Erro ao listar anúncios não grava nada",
			setup: func(lister *syncmocks.MockAdDimensionLister, repo *repomocks.MockAdDimensionRepository) {
				lister.EXPECT().
					ListAds(gomock.Any(), "act_123456789").
					Return(nil, domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, 500, "boom"))
			},
		},
		{
			name: "Conta sem anúncios não grava nada",
			setup: func(lister *syncmocks.MockAdDimensionLister, repo *repomocks.MockAdDimensionRepository) {
				lister.EXPECT().
					ListAds(gomock.Any(), "act_123456789").
					Return([]domain.AdDimension{}, nil)
			},
		},
		{
			name: "Erro ao gravar é registrado sem propagar",
			setup: func(lister *syncmocks.MockAdDimensionLister, repo *repomocks.MockAdDimensionRepository) {
				dimensions := adDimensions("act_123456789", 1)

				lister.EXPECT().
					ListAds(gomock.Any(), "act_123456789").
					Return(dimensions, nil)

				repo.EXPECT().
					UpsertBatch(gomock.Any(), dimensions).
					Return(int64(0), domain.NewLoadError(domain.ErrWarehouseLoad, "dim_ad", "upsert"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLister := syncmocks.NewMockAdDimensionLister(ctrl)
			mockRepo := repomocks.NewMockAdDimensionRepository(ctrl)
			tt.setup(mockLister, mockRepo)

			service := &DimensionRefreshService{
				lister:        mockLister,
				dimensionRepo: mockRepo,
			}

			service.refreshAccount(context.Background(), "act_123456789")
		})
	}
}

func TestDimensionRefreshService_processAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLister := syncmocks.NewMockAdDimensionLister(ctrl)
	mockRepo := repomocks.NewMockAdDimensionRepository(ctrl)

	calls := &accountCalls{}
	mockLister.EXPECT().
		ListAds(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, accountID string) ([]domain.AdDimension, error) {
			calls.add(accountID)
			return adDimensions(accountID, 1), nil
		}).
		Times(3)

	mockRepo.EXPECT().
		UpsertBatch(gomock.Any(), gomock.Any()).
		Return(int64(1), nil).
		Times(3)

	service := &DimensionRefreshService{
		config: DimensionRefreshConfig{
			MaxConcurrentJobs: 2,
		},
		lister:        mockLister,
		dimensionRepo: mockRepo,
	}

	service.processAccounts(context.Background(), []string{"act_1", "act_2", "act_3"})

	assert.ElementsMatch(t, []string{"act_1", "act_2", "act_3"}, calls.list())
}
