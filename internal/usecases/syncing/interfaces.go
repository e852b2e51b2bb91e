package syncing

import (
	"context"

	"github.com/vfg2006/insights-sync-api/internal/domain"
)

// InsightFetcher é a fronteira com o adapter de plataforma: busca todas as
// páginas de insights de uma requisição e devolve as linhas normalizadas.
// Uma busca que falha recomeça da primeira página na próxima tentativa;
// falhas upstream chegam como *domain.FetchError.
type InsightFetcher interface {
	Platform() domain.Platform
	FetchInsights(ctx context.Context, req domain.FetchRequest) ([]domain.InsightRecord, error)
}

// AdDimensionLister lista os anúncios de uma conta para propagação na
// tabela dimensional dim_ad
type AdDimensionLister interface {
	ListAds(ctx context.Context, accountID string) ([]domain.AdDimension, error)
}

// Syncer orquestra uma sincronização completa de insights: resolução de
// datas, chunking, rate limit, retries e carga idempotente no warehouse
type Syncer interface {
	SyncInsights(ctx context.Context, req domain.SyncRequest) (*domain.SyncResult, error)
}

// AdapterRegistry mapeia cada plataforma para seu adapter de insights,
// selecionado na construção do serviço
type AdapterRegistry struct {
	fetchers map[domain.Platform]InsightFetcher
}

// NewAdapterRegistry cria o registro com os adapters informados
func NewAdapterRegistry(fetchers ...InsightFetcher) *AdapterRegistry {
	registry := &AdapterRegistry{
		fetchers: make(map[domain.Platform]InsightFetcher, len(fetchers)),
	}

	for _, fetcher := range fetchers {
		registry.fetchers[fetcher.Platform()] = fetcher
	}

	return registry
}

// Resolve retorna o adapter da plataforma ou um erro de validação quando
// nenhum adapter foi registrado para ela
func (r *AdapterRegistry) Resolve(platform domain.Platform) (InsightFetcher, error) {
	fetcher, ok := r.fetchers[platform]
	if !ok {
		return nil, domain.NewValidationError(domain.ErrUnknownPlatform, "platform", string(platform))
	}
	return fetcher, nil
}
