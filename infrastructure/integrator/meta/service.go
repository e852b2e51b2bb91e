package meta

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insights-sync-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/domain"
)

// MetaIntegrator é o adapter da plataforma Meta: busca insights e anúncios
// na Graph API e os normaliza para o formato do warehouse
type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// Platform identifica o adapter no registro de plataformas
func (s *MetaIntegrator) Platform() domain.Platform {
	return domain.PlatformMeta
}

// FetchInsights busca todas as páginas de insights da janela pedida e
// devolve as linhas já normalizadas. Uma falha em qualquer página descarta
// o que foi acumulado: a próxima tentativa recomeça da primeira página.
func (s *MetaIntegrator) FetchInsights(ctx context.Context, req domain.FetchRequest) ([]domain.InsightRecord, error) {
	params := metaclient.InsightParams{
		Level:      req.Level,
		Range:      req.Range,
		DatePreset: req.Preset,
		PageSize:   req.PageSize,
	}

	rows, err := s.Client.GetInsights(ctx, req.AccountID, params)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": req.AccountID,
			"level":      req.Level,
			"error":      err.Error(),
		}).Error("insights: failed to get insights from API")
		return nil, err
	}

	records := make([]domain.InsightRecord, 0, len(rows))
	for i := range rows {
		records = append(records, FactoryInsightRecord(&rows[i], req.Level, req.AccountID))
	}

	logrus.WithFields(logrus.Fields{
		"account_id": req.AccountID,
		"level":      req.Level,
		"records":    len(records),
	}).Debug("insights: successfully normalized insight rows")

	return records, nil
}

// ListAds busca todos os anúncios da conta para a tabela dimensional
func (s *MetaIntegrator) ListAds(ctx context.Context, accountID string) ([]domain.AdDimension, error) {
	ads, err := s.Client.GetAdsByAccountID(ctx, accountID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("insights: failed to get ads from API")
		return nil, err
	}

	syncedAt := time.Now()
	dimensions := make([]domain.AdDimension, 0, len(ads))
	for i := range ads {
		dimensions = append(dimensions, FactoryAdDimension(&ads[i], accountID, syncedAt))
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"ads":        len(dimensions),
	}).Debug("insights: successfully listed ads for account")

	return dimensions, nil
}
