package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	"github.com/vfg2006/insights-sync-api/internal/usecases/syncing"
)

// InsightsSyncConfig representa a configuração do agendador de insights
type InsightsSyncConfig struct {
	CronSchedule        string
	AccountIDs          []string
	DatePreset          string
	RequestDelaySeconds int
	MaxConcurrentJobs   int
	SyncEnabled         bool
}

// InsightsSyncService gerencia o agendamento e execução da carga incremental
// de insights para as contas configuradas
type InsightsSyncService struct {
	scheduler           *gocron.Scheduler
	config              InsightsSyncConfig
	appConfig           *config.Config
	syncer              syncing.Syncer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewInsightsSyncService cria uma nova instância do serviço de sincronização agendada
func NewInsightsSyncService(
	syncer syncing.Syncer,
	appConfig *config.Config,
) *InsightsSyncService {
	// Criar a configuração com base na config global
	syncConfig := InsightsSyncConfig{
		CronSchedule:        appConfig.InsightsSync.CronSchedule,
		AccountIDs:          appConfig.InsightsSync.AccountIDs,
		DatePreset:          appConfig.InsightsSync.DatePreset,
		RequestDelaySeconds: appConfig.InsightsSync.RequestDelaySeconds,
		MaxConcurrentJobs:   appConfig.InsightsSync.MaxConcurrentJobs,
		SyncEnabled:         appConfig.InsightsSync.Enabled,
	}

	// Criar o agendador
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"accounts":              len(syncConfig.AccountIDs),
		"date_preset":           syncConfig.DatePreset,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"max_concurrent_jobs":   syncConfig.MaxConcurrentJobs,
		"sync_enabled":          syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de sincronização de insights carregada")

	return &InsightsSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		appConfig:   appConfig,
		syncer:      syncer,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *InsightsSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização agendada de insights desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de insights")

	// Agendar a sincronização de insights
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllAccounts()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de insights: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de insights")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllAccounts sincroniza os insights de todas as contas configuradas
func (s *InsightsSyncService) syncAllAccounts() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de insights já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	accounts := s.configuredAccounts()
	if len(accounts) == 0 {
		logrus.Info("Nenhuma conta configurada para sincronização de insights")
		return
	}

	logrus.WithFields(logrus.Fields{
		"accounts":    len(accounts),
		"date_preset": s.config.DatePreset,
	}).Info("Iniciando sincronização de insights para todas as contas configuradas")

	s.processAccounts(context.Background(), accounts)

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
		"accounts": len(accounts),
	}).Info("Sincronização de insights concluída")

	s.lastSyncCompletedAt = time.Now()
}

// configuredAccounts filtra entradas vazias da lista de contas configurada
func (s *InsightsSyncService) configuredAccounts() []string {
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

// processAccounts sincroniza cada conta com concorrência limitada. Uma conta
// que falha não interrompe as demais.
func (s *InsightsSyncService) processAccounts(ctx context.Context, accounts []string) {
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

			s.syncAccount(ctx, account)

			// Aguardar antes da próxima requisição para evitar sobrecarga na API
			time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
		}(accountID)
	}

	// Aguardar todos os workers terminarem
	wg.Wait()
}

// syncAccount dispara a sincronização de uma conta com os padrões da config
func (s *InsightsSyncService) syncAccount(ctx context.Context, accountID string) {
	request := domain.SyncRequest{
		Platform:       domain.PlatformMeta,
		AccountID:      accountID,
		Level:          domain.Level(s.appConfig.Sync.Level),
		FallbackLevels: s.appConfig.Sync.FallbackLevels,
		DatePreset:     domain.DatePreset(s.config.DatePreset),
		ChunkDays:      s.appConfig.Sync.ChunkDays,
		Retries:        s.appConfig.Sync.Retries,
		BackoffSeconds: s.appConfig.Sync.BackoffSeconds,
		RetryJitter:    s.appConfig.Sync.RetryJitter,
		RateLimitRPS:   s.appConfig.Sync.RateLimitRPS,
		PageSize:       s.appConfig.Sync.PageSize,
	}

	logrus.WithFields(logrus.Fields{
		"account_id":  accountID,
		"date_preset": s.config.DatePreset,
	}).Info("Sincronizando insights para conta")

	result, err := s.syncer.SyncInsights(ctx, request)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("Erro ao sincronizar insights para conta")
		return
	}

	logrus.WithFields(logrus.Fields{
		"account_id":        accountID,
		"rows_loaded":       result.RowsLoaded,
		"destination_table": result.DestinationTable,
	}).Info("Insights sincronizados com sucesso para conta")
}

// TriggerManualSync inicia manualmente uma sincronização de insights
func (s *InsightsSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de insights já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de insights")
	go s.syncAllAccounts()
}

// GetStatus retorna o status atual do agendador
func (s *InsightsSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_accounts":          len(s.config.AccountIDs),
		"sync_date_preset":       s.config.DatePreset,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
