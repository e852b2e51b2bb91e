package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App              App              `mapstructure:",squash"`
	Server           Server           `mapstructure:",squash"`
	Database         Database         `mapstructure:",squash"`
	Warehouse        Warehouse        `mapstructure:",squash"`
	Meta             Meta             `mapstructure:",squash"`
	Sync             Sync             `mapstructure:",squash"`
	InsightsSync     InsightsSync     `mapstructure:",squash"`
	DimensionRefresh DimensionRefresh `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Warehouse identifica o destino dos insights. Project é o banco lógico e
// Dataset o schema onde ficam fct_ad_insights_daily, dim_ad e sync_runs.
type Warehouse struct {
	Project string `mapstructure:"warehouse_project_id"`
	Dataset string `mapstructure:"warehouse_dataset"`
}

type Meta struct {
	BaseURL     string `mapstructure:"meta_base_url"`
	URL         string `mapstructure:"meta_url"`
	Version     string `mapstructure:"meta_version"`
	AccessToken string `mapstructure:"meta_access_token"`
}

// Sync define os padrões do pipeline de sincronização usados quando a
// requisição não informa valores próprios
type Sync struct {
	Level          string  `mapstructure:"sync_level"`
	FallbackLevels bool    `mapstructure:"sync_fallback_levels"`
	ChunkDays      int     `mapstructure:"sync_chunk_days"`
	Retries        int     `mapstructure:"sync_retries"`
	BackoffSeconds float64 `mapstructure:"sync_backoff_seconds"`
	RetryJitter    bool    `mapstructure:"sync_retry_jitter"`
	RateLimitRPS   float64 `mapstructure:"sync_rate_limit_rps"`
	PageSize       int     `mapstructure:"sync_page_size"`
}

type InsightsSync struct {
	CronSchedule        string   `mapstructure:"insights_sync_cron"`
	AccountIDs          []string `mapstructure:"insights_sync_account_ids"`
	DatePreset          string   `mapstructure:"insights_sync_date_preset"`
	RequestDelaySeconds int      `mapstructure:"insights_sync_request_delay_seconds"`
	MaxConcurrentJobs   int      `mapstructure:"insights_sync_max_concurrent_jobs"`
	Enabled             bool     `mapstructure:"insights_sync_enabled"`
}

type DimensionRefresh struct {
	CronSchedule        string `mapstructure:"dimension_refresh_cron"`
	RequestDelaySeconds int    `mapstructure:"dimension_refresh_request_delay_seconds"`
	MaxConcurrentJobs   int    `mapstructure:"dimension_refresh_max_concurrent_jobs"`
	Enabled             bool   `mapstructure:"dimension_refresh_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/warehouse")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("WAREHOUSE_PROJECT_ID", "warehouse")
	viper.SetDefault("WAREHOUSE_DATASET", "paid_social")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL

	// Defaults do pipeline de sincronização
	viper.SetDefault("SYNC_LEVEL", "ad")           // Nível mais granular por padrão
	viper.SetDefault("SYNC_FALLBACK_LEVELS", true) // Cair para adset/campaign quando o nível não retornar linhas
	viper.SetDefault("SYNC_CHUNK_DAYS", 30)        // Tamanho máximo de cada chunk de datas
	viper.SetDefault("SYNC_RETRIES", 3)            // Tentativas além da inicial por chunk
	viper.SetDefault("SYNC_BACKOFF_SECONDS", 2.0)  // Base do backoff exponencial
	viper.SetDefault("SYNC_RETRY_JITTER", true)    // Jitter de ±10% no backoff
	viper.SetDefault("SYNC_RATE_LIMIT_RPS", 0.0)   // 0 desabilita o rate limit
	viper.SetDefault("SYNC_PAGE_SIZE", 500)        // Tamanho de página da API (1-1000)

	// Defaults da sincronização agendada de insights
	viper.SetDefault("INSIGHTS_SYNC_CRON", "0 3 * * *")          // Todos os dias às 3h da manhã
	viper.SetDefault("INSIGHTS_SYNC_ACCOUNT_IDS", "")            // Lista de contas separadas por vírgula
	viper.SetDefault("INSIGHTS_SYNC_DATE_PRESET", "last_7d")     // Janela padrão da carga noturna
	viper.SetDefault("INSIGHTS_SYNC_REQUEST_DELAY_SECONDS", 2)   // 2 segundos entre contas
	viper.SetDefault("INSIGHTS_SYNC_MAX_CONCURRENT_JOBS", 3)     // 3 contas em paralelo
	viper.SetDefault("INSIGHTS_SYNC_ENABLED", false)             // Habilitar sincronização agendada

	// Defaults da atualização agendada de dimensões
	viper.SetDefault("DIMENSION_REFRESH_CRON", "0 5 * * *")        // Todos os dias às 5h da manhã
	viper.SetDefault("DIMENSION_REFRESH_REQUEST_DELAY_SECONDS", 2) // 2 segundos entre contas
	viper.SetDefault("DIMENSION_REFRESH_MAX_CONCURRENT_JOBS", 3)   // 3 contas em paralelo
	viper.SetDefault("DIMENSION_REFRESH_ENABLED", false)           // Habilitar atualização agendada

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Info("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
