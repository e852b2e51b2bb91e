package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insights-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/insights-sync-api/infrastructure/integrator/meta"
	"github.com/vfg2006/insights-sync-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/insights-sync-api/infrastructure/repository"
	"github.com/vfg2006/insights-sync-api/internal/api"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/scheduler"
	"github.com/vfg2006/insights-sync-api/internal/usecases/syncing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	factRepo := repository.NewInsightFactRepository(pgConn, cfg.Warehouse)
	dimensionRepo := repository.NewAdDimensionRepository(pgConn, cfg.Warehouse)
	runRepo := repository.NewSyncRunRepository(pgConn, cfg.Warehouse)

	// Garante schema, tabelas e índice da chave natural antes de aceitar cargas
	ensureWarehouse(ctx, factRepo, dimensionRepo, runRepo)

	metaClient := metaclient.NewClient(cfg)
	metaIntegrator := meta.New(cfg, metaClient)

	registry := syncing.NewAdapterRegistry(metaIntegrator)
	syncService := syncing.NewService(cfg, registry, factRepo, runRepo)

	// Inicializa os agendadores de sincronização
	insightsSyncService := scheduler.NewInsightsSyncService(syncService, cfg)
	dimensionRefreshService := scheduler.NewDimensionRefreshService(metaIntegrator, dimensionRepo, cfg)

	// Inicia os agendadores em background
	if err := insightsSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de insights")
	} else {
		logrus.Info("Agendador de sincronização de insights iniciado com sucesso")
	}

	if err := dimensionRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de atualização de dimensões")
	} else {
		logrus.Info("Agendador de atualização de dimensões iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		syncService,
		runRepo,
		insightsSyncService,
		dimensionRefreshService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// ensureWarehouse prepara as tabelas do warehouse na inicialização. Todas as
// operações são idempotentes
func ensureWarehouse(
	ctx context.Context,
	factRepo repository.InsightFactRepository,
	dimensionRepo repository.AdDimensionRepository,
	runRepo repository.SyncRunRepository,
) {
	if err := factRepo.EnsureDestination(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao preparar a tabela fato no warehouse")
	}

	if err := dimensionRepo.EnsureTable(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao preparar a tabela de dimensões no warehouse")
	}

	if err := runRepo.EnsureTable(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao preparar a tabela de execuções no warehouse")
	}

	logrus.Info("Tabelas do warehouse preparadas com sucesso")
}
