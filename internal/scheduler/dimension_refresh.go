package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insights-sync-api/infrastructure/repository"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/usecases/syncing"
)

// DimensionRefreshConfig representa a configuração do agendador de dimensões
type DimensionRefreshConfig struct {
	CronSchedule        string
	AccountIDs          []string
	RequestDelaySeconds int
	MaxConcurrentJobs   int
	RefreshEnabled      bool
}

// DimensionRefreshService gerencia a atualização periódica da tabela
// dimensional de anúncios a partir da plataforma
type DimensionRefreshService struct {
	scheduler              *gocron.Scheduler
	config                 DimensionRefreshConfig
	lister                 syncing.AdDimensionLister
	dimensionRepo          repository.AdDimensionRepository
	refreshRunning         bool
	refreshMutex           sync.Mutex
	lastRefreshStartedAt   time.Time
	lastRefreshCompletedAt time.Time
}

// NewDimensionRefreshService cria uma nova instância do serviço de atualização de dimensões
func NewDimensionRefreshService(
	lister syncing.AdDimensionLister,
	dimensionRepo repository.AdDimensionRepository,
	appConfig *config.Config,
) *DimensionRefreshService {
	// A atualização de dimensões cobre as mesmas contas da carga de insights
	refreshConfig := DimensionRefreshConfig{
		CronSchedule:        appConfig.DimensionRefresh.CronSchedule,
		AccountIDs:          appConfig.InsightsSync.AccountIDs,
		RequestDelaySeconds: appConfig.DimensionRefresh.RequestDelaySeconds,
		MaxConcurrentJobs:   appConfig.DimensionRefresh.MaxConcurrentJobs,
		RefreshEnabled:      appConfig.DimensionRefresh.Enabled,
	}

	// Criar o agendador
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         refreshConfig.CronSchedule,
		"accounts":              len(refreshConfig.AccountIDs),
		"request_delay_seconds": refreshConfig.RequestDelaySeconds,
		"max_concurrent_jobs":   refreshConfig.MaxConcurrentJobs,
		"refresh_enabled":       refreshConfig.RefreshEnabled,
	}).Info("Configuração do agendador de atualização de dimensões carregada")

	return &DimensionRefreshService{
		scheduler:      scheduler,
		config:         refreshConfig,
		lister:         lister,
		dimensionRepo:  dimensionRepo,
		refreshRunning: false,
	}
}

// Start inicia o agendador
func (s *DimensionRefreshService) Start(ctx context.Context) error {
	if !s.config.RefreshEnabled {
		logrus.Info("Atualização agendada de dimensões desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de atualização de dimensões")

	// Agendar a atualização de dimensões
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.refreshAllAccounts()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar atualização de dimensões: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de atualização de dimensões")
		s.scheduler.Stop()
	}()

	return nil
}

// refreshAllAccounts atualiza as dimensões de anúncios de todas as contas configuradas
func (s *DimensionRefreshService) refreshAllAccounts() {
	s.refreshMutex.Lock()
	if s.refreshRunning {
		s.refreshMutex.Unlock()
		logrus.Info("Atualização de dimensões já em andamento, ignorando")
		return
	}
	s.refreshRunning = true
	s.refreshMutex.Unlock()

	startTime := time.Now()
	s.lastRefreshStartedAt = startTime

	defer func() {
		s.refreshMutex.Lock()
		s.refreshRunning = false
		s.refreshMutex.Unlock()
	}()

	accounts := s.configuredAccounts()
	if len(accounts) == 0 {
		logrus.Info("Nenhuma conta configurada para atualização de dimensões")
		return
	}

	logrus.WithField("accounts", len(accounts)).Info("Iniciando atualização de dimensões para todas as contas configuradas")

	s.processAccounts(context.Background(), accounts)

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
		"accounts": len(accounts),
	}).Info("Atualização de dimensões concluída")

	s.lastRefreshCompletedAt = time.Now()
}

// configuredAccounts filtra entradas vazias da lista de contas configurada
func (s *DimensionRefreshService) configuredAccounts() []string {
	accounts := make([]string, 0, len(s.config.AccountIDs))
	for _, accountID := range s.config.AccountIDs {
		accountID = strings.TrimSpace(accountID)
		if accountID == "" {
			continue
		}
		accounts = append(accounts, accountID)
	}
	return accounts
}

// processAccounts atualiza cada conta com concorrência limitada. Uma conta
// que falha não interrompe as demais.
func (s *DimensionRefreshService) processAccounts(ctx context.Context, accounts []string) {
	// Criar um canal para controlar o número de workers concorrentes
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for _, accountID := range accounts {
		wg.Add(1)
		semaphore <- struct{}{} // Adquirir semáforo

		go func(account string) {
			defer func() {
				<-semaphore // Liberar semáforo
				wg.Done()
			}()

			s.refreshAccount(ctx, account)

			// Aguardar antes da próxima requisição para evitar sobrecarga na API
			time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
		}(accountID)
	}

	// Aguardar todos os workers terminarem
	wg.Wait()
}

// refreshAccount lista os anúncios da conta na plataforma e propaga na dim_ad
func (s *DimensionRefreshService) refreshAccount(ctx context.Context, accountID string) {
	logrus.WithField("account_id", accountID).Info("Atualizando dimensões de anúncios para conta")

	dimensions, err := s.lister.ListAds(ctx, accountID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("Erro ao listar anúncios da conta na plataforma")
		return
	}

	if len(dimensions) == 0 {
		logrus.WithField("account_id", accountID).Info("Nenhum anúncio encontrado para conta")
		return
	}

	upserted, err := s.dimensionRepo.UpsertBatch(ctx, dimensions)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("Erro ao gravar dimensões de anúncios no banco de dados")
		return
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"ads":        upserted,
	}).Info("Dimensões de anúncios atualizadas com sucesso para conta")
}

// TriggerManualRefresh inicia manualmente uma atualização de dimensões
func (s *DimensionRefreshService) TriggerManualRefresh() {
	s.refreshMutex.Lock()
	if s.refreshRunning {
		s.refreshMutex.Unlock()
		logrus.Info("Atualização de dimensões já em andamento, ignorando solicitação manual")
		return
	}
	s.refreshMutex.Unlock()

	logrus.Info("Iniciando atualização manual de dimensões")
	go s.refreshAllAccounts()
}

// GetStatus retorna o status atual do agendador
func (s *DimensionRefreshService) GetStatus() map[string]any {
	return map[string]any{
		"refresh_enabled":           s.config.RefreshEnabled,
		"refresh_cron":              s.config.CronSchedule,
		"refresh_accounts":          len(s.config.AccountIDs),
		"refresh_max_concurrent":    s.config.MaxConcurrentJobs,
		"refresh_request_delay_s":   s.config.RequestDelaySeconds,
		"last_refresh_started_at":   s.lastRefreshStartedAt,
		"last_refresh_completed_at": s.lastRefreshCompletedAt,
	}
}
