package syncing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insights-sync-api/infrastructure/repository"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	"github.com/vfg2006/insights-sync-api/pkg/utils"
)

const (
	minPageSize     = 1
	maxPageSize     = 1000
	defaultPageSize = 500
)

// Service orquestra a sincronização de insights: resolve datas, fatia o
// intervalo em chunks, aplica rate limit e retries por chunk e carrega os
// registros no warehouse via staging idempotente. Uma invocação é
// estritamente sequencial; invocações independentes podem rodar em
// paralelo porque cada uma cria suas próprias tabelas de staging.
type Service struct {
	cfg      *config.Config
	registry *AdapterRegistry
	factRepo repository.InsightFactRepository
	runRepo  repository.SyncRunRepository
}

// NewService cria o serviço de sincronização de insights
func NewService(
	cfg *config.Config,
	registry *AdapterRegistry,
	factRepo repository.InsightFactRepository,
	runRepo repository.SyncRunRepository,
) Syncer {
	return &Service{
		cfg:      cfg,
		registry: registry,
		factRepo: factRepo,
		runRepo:  runRepo,
	}
}

// SyncInsights executa uma sincronização completa. Erros de validação
// saem antes de qualquer trabalho de rede ou warehouse; esgotado o
// orçamento de retries de um chunk, a sincronização inteira aborta sem
// sucesso parcial.
func (s *Service) SyncInsights(ctx context.Context, req domain.SyncRequest) (*domain.SyncResult, error) {
	req, err := s.withDefaults(req)
	if err != nil {
		return nil, err
	}

	fetcher, err := s.registry.Resolve(req.Platform)
	if err != nil {
		return nil, err
	}

	resolved, err := resolveDates(req.DatePreset, req.Since, req.Until)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"platform":   req.Platform,
		"account_id": req.AccountID,
		"levels":     requestedLevels(req),
		"window":     describeWindow(resolved),
		"chunk_days": req.ChunkDays,
		"retries":    req.Retries,
		"rps":        req.RateLimitRPS,
		"page_size":  req.PageSize,
	}).Info("Iniciando sincronização de insights")

	if err := s.factRepo.EnsureDestination(ctx); err != nil {
		return nil, err
	}

	runID := s.createRun(ctx, req, resolved)

	limiter := newRateLimiter(req.RateLimitRPS)
	policy := retryPolicy{
		retries: req.Retries,
		backoff: time.Duration(req.BackoffSeconds * float64(time.Second)),
		jitter:  req.RetryJitter,
	}

	var rowsLoaded int64
	if len(req.Levels) > 0 {
		// Lista explícita de níveis: cada nível roda incondicionalmente e
		// as contagens são somadas, sem fallback
		for _, level := range req.Levels {
			levelRows, err := s.runLevel(ctx, fetcher, level, resolved, req, limiter, policy)
			rowsLoaded += levelRows
			if err != nil {
				s.finishRun(ctx, runID, domain.SyncRunStatusFailed, rowsLoaded, err)
				return nil, err
			}
		}
	} else {
		rowsLoaded, err = s.runWithFallback(ctx, fetcher, resolved, req, limiter, policy)
		if err != nil {
			s.finishRun(ctx, runID, domain.SyncRunStatusFailed, rowsLoaded, err)
			return nil, err
		}
	}

	result := &domain.SyncResult{
		RowsLoaded:       rowsLoaded,
		DestinationTable: s.factRepo.DestinationTable(),
	}

	s.finishRun(ctx, runID, domain.SyncRunStatusSucceeded, rowsLoaded, nil)

	logrus.WithFields(logrus.Fields{
		"account_id":  req.AccountID,
		"rows_loaded": result.RowsLoaded,
		"table":       result.DestinationTable,
	}).Info("Sincronização de insights concluída")

	return result, nil
}

// runWithFallback processa um único nível com cascata opcional: quando o
// nível solicitado carrega zero linhas, o fallback está habilitado e o
// nível participa da ordem padrão (ad -> adset -> campaign), a cascata
// avança para o próximo nível menos granular e reexecuta o pipeline
// inteiro; para na primeira carga com linhas ou no fim da ordem.
func (s *Service) runWithFallback(
	ctx context.Context,
	fetcher InsightFetcher,
	resolved domain.ResolvedDates,
	req domain.SyncRequest,
	limiter *rateLimiter,
	policy retryPolicy,
) (int64, error) {
	var total int64
	level := req.Level

	for {
		levelRows, err := s.runLevel(ctx, fetcher, level, resolved, req, limiter, policy)
		total += levelRows
		if err != nil {
			return total, err
		}

		if !req.FallbackLevels || levelRows > 0 {
			return total, nil
		}

		index := fallbackIndex(level)
		if index < 0 || index+1 >= len(fallbackOrder) {
			logrus.WithFields(logrus.Fields{
				"account_id": req.AccountID,
				"level":      level,
			}).Info("Nenhuma linha carregada e cascata de níveis esgotada")
			return total, nil
		}

		next := fallbackOrder[index+1]
		logrus.WithFields(logrus.Fields{
			"account_id": req.AccountID,
			"level":      level,
			"next_level": next,
		}).Info("Nível sem linhas carregadas, caindo para o próximo nível da cascata")
		level = next
	}
}

// runLevel processa todos os chunks de um nível, em ordem cronológica,
// com exatamente uma requisição em voo por vez. Cada chunk é uma unidade
// fetch+load retentável: uma falha no meio da paginação ou do merge
// descarta o buffer e recomeça o chunk da primeira página.
func (s *Service) runLevel(
	ctx context.Context,
	fetcher InsightFetcher,
	level domain.Level,
	resolved domain.ResolvedDates,
	req domain.SyncRequest,
	limiter *rateLimiter,
	policy retryPolicy,
) (int64, error) {
	chunks := []*domain.DateRange{nil}
	if resolved.Range != nil {
		concrete := chunkRange(*resolved.Range, req.ChunkDays)
		chunks = make([]*domain.DateRange, 0, len(concrete))
		for i := range concrete {
			chunks = append(chunks, &concrete[i])
		}
	}

	var levelRows int64
	for _, chunk := range chunks {
		fetchReq := domain.FetchRequest{
			Level:     level,
			AccountID: req.AccountID,
			Range:     chunk,
			Preset:    resolved.Preset,
			PageSize:  req.PageSize,
		}

		var chunkRows int64
		err := policy.run(unitLabel(req.AccountID, level, chunk), func() error {
			limiter.Wait()

			records, err := fetcher.FetchInsights(ctx, fetchReq)
			if err != nil {
				return err
			}

			loaded, err := s.factRepo.Load(ctx, records)
			if err != nil {
				return err
			}

			chunkRows = loaded
			return nil
		})
		if err != nil {
			return levelRows, err
		}

		levelRows += chunkRows

		logrus.WithFields(logrus.Fields{
			"account_id": req.AccountID,
			"level":      level,
			"chunk":      chunkLabel(chunk),
			"rows":       chunkRows,
		}).Debug("Chunk carregado no warehouse")
	}

	return levelRows, nil
}

// withDefaults valida a requisição e preenche os campos zerados com os
// padrões de configuração do pipeline
func (s *Service) withDefaults(req domain.SyncRequest) (domain.SyncRequest, error) {
	if req.AccountID == "" {
		return req, domain.NewValidationError(domain.ErrAccountIDRequired, "account_id", "")
	}
	req.AccountID = normalizeAccountID(req.AccountID)

	if req.Platform == "" {
		req.Platform = domain.PlatformMeta
	} else if _, err := domain.ParsePlatform(string(req.Platform)); err != nil {
		return req, domain.NewValidationError(err, "platform", "")
	}

	if len(req.Levels) > 0 {
		for _, level := range req.Levels {
			if _, err := domain.ParseLevel(string(level)); err != nil {
				return req, domain.NewValidationError(err, "levels", "")
			}
		}
	} else {
		if req.Level == "" {
			req.Level = domain.Level(s.cfg.Sync.Level)
		}
		if _, err := domain.ParseLevel(string(req.Level)); err != nil {
			return req, domain.NewValidationError(err, "level", "")
		}
	}

	if req.ChunkDays <= 0 {
		req.ChunkDays = s.cfg.Sync.ChunkDays
	}
	if req.Retries <= 0 {
		req.Retries = s.cfg.Sync.Retries
	}
	if req.BackoffSeconds <= 0 {
		req.BackoffSeconds = s.cfg.Sync.BackoffSeconds
	}
	if req.RateLimitRPS <= 0 {
		req.RateLimitRPS = s.cfg.Sync.RateLimitRPS
	}

	if req.PageSize <= 0 {
		req.PageSize = s.cfg.Sync.PageSize
	}
	if req.PageSize < minPageSize || req.PageSize > maxPageSize {
		clamped := req.PageSize
		if clamped < minPageSize {
			clamped = defaultPageSize
		}
		if clamped > maxPageSize {
			clamped = maxPageSize
		}
		logrus.WithFields(logrus.Fields{
			"page_size": req.PageSize,
			"clamped":   clamped,
		}).Warn("Tamanho de página fora do intervalo 1-1000, ajustado")
		req.PageSize = clamped
	}

	return req, nil
}

// createRun registra o início da execução na tabela sync_runs. Falha de
// bookkeeping não interrompe a sincronização, apenas gera aviso.
func (s *Service) createRun(ctx context.Context, req domain.SyncRequest, resolved domain.ResolvedDates) string {
	runID, err := utils.GenerateID()
	if err != nil {
		logrus.WithError(err).Warn("Erro ao gerar identificador da execução de sincronização")
		return ""
	}

	run := &domain.SyncRun{
		ID:               runID,
		Platform:         req.Platform,
		AccountID:        req.AccountID,
		Levels:           requestedLevels(req),
		Status:           domain.SyncRunStatusRunning,
		DestinationTable: s.factRepo.DestinationTable(),
		StartedAt:        time.Now(),
	}
	if resolved.Range != nil {
		run.Since = &resolved.Range.Since
		run.Until = &resolved.Range.Until
	}
	if resolved.Preset != nil {
		run.DatePreset = resolved.Preset
	}

	if err := s.runRepo.Create(ctx, run); err != nil {
		logrus.WithError(err).WithField("run_id", runID).Warn("Erro ao registrar execução de sincronização")
		return ""
	}

	return runID
}

// finishRun atualiza o desfecho da execução na tabela sync_runs
func (s *Service) finishRun(ctx context.Context, runID string, status domain.SyncRunStatus, rows int64, syncErr error) {
	if runID == "" {
		return
	}

	var errorMessage *string
	if syncErr != nil {
		message := syncErr.Error()
		errorMessage = &message
	}

	if err := s.runRepo.Finish(ctx, runID, status, rows, errorMessage); err != nil {
		logrus.WithError(err).WithField("run_id", runID).Warn("Erro ao finalizar execução de sincronização")
	}
}

// requestedLevels retorna os níveis pedidos na requisição já normalizada
func requestedLevels(req domain.SyncRequest) []domain.Level {
	if len(req.Levels) > 0 {
		return req.Levels
	}
	return []domain.Level{req.Level}
}

func describeWindow(resolved domain.ResolvedDates) string {
	if resolved.Range != nil {
		return resolved.Range.String()
	}
	if resolved.Preset != nil {
		return string(*resolved.Preset)
	}
	return ""
}

func chunkLabel(chunk *domain.DateRange) string {
	if chunk == nil {
		return "preset"
	}
	return chunk.String()
}

func unitLabel(accountID string, level domain.Level, chunk *domain.DateRange) string {
	return fmt.Sprintf("%s/%s/%s", accountID, level, chunkLabel(chunk))
}
