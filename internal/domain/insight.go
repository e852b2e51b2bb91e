package domain

import (
	"fmt"
	"time"
)

// Platform identifica a plataforma de anúncios de origem dos insights
type Platform string

const (
	PlatformMeta      Platform = "meta"
	PlatformReddit    Platform = "reddit"
	PlatformPinterest Platform = "pinterest"
	PlatformTikTok    Platform = "tiktok"
	PlatformX         Platform = "x"
)

// ParsePlatform valida e converte uma string para Platform
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformMeta, PlatformReddit, PlatformPinterest, PlatformTikTok, PlatformX:
		return Platform(s), nil
	}
	return "", fmt.Errorf("plataforma desconhecida: %q", s)
}

// Level representa o nível de agregação dos insights na hierarquia de anúncios
type Level string

const (
	LevelAccount  Level = "account"
	LevelCampaign Level = "campaign"
	LevelAdset    Level = "adset"
	LevelAd       Level = "ad"
)

// ParseLevel valida e converte uma string para Level
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelAccount, LevelCampaign, LevelAdset, LevelAd:
		return Level(s), nil
	}
	return "", fmt.Errorf("nível de agregação desconhecido: %q", s)
}

// DatePreset representa uma janela de datas relativa resolvida no momento do sync
type DatePreset string

const (
	DatePresetToday     DatePreset = "today"
	DatePresetYesterday DatePreset = "yesterday"
	DatePresetLast3D    DatePreset = "last_3d"
	DatePresetLast7D    DatePreset = "last_7d"
	DatePresetLast14D   DatePreset = "last_14d"
	DatePresetLast28D   DatePreset = "last_28d"
	DatePresetThisMonth DatePreset = "this_month"
	DatePresetLastMonth DatePreset = "last_month"
	// DatePresetLifetime não resolve para datas concretas: é repassado à
	// plataforma como token nativo e processado como um único chunk lógico
	DatePresetLifetime DatePreset = "lifetime"
)

// ParseDatePreset valida e converte uma string para DatePreset
func ParseDatePreset(s string) (DatePreset, error) {
	switch DatePreset(s) {
	case DatePresetToday, DatePresetYesterday, DatePresetLast3D, DatePresetLast7D,
		DatePresetLast14D, DatePresetLast28D, DatePresetThisMonth, DatePresetLastMonth,
		DatePresetLifetime:
		return DatePreset(s), nil
	}
	return "", fmt.Errorf("date preset desconhecido: %q", s)
}

// DateRange é um intervalo de datas de calendário com extremos inclusivos.
// Invariante: Since <= Until.
type DateRange struct {
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

// Days retorna o total de dias cobertos pelo intervalo (extremos inclusos)
func (r DateRange) Days() int {
	return int(r.Until.Sub(r.Since).Hours()/24) + 1
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Since.Format(time.DateOnly), r.Until.Format(time.DateOnly))
}

// ResolvedDates é o resultado da resolução de datas de uma requisição de sync.
// Exatamente um dos campos fica populado: Range para datas concretas ou
// Preset para tokens nativos da plataforma (lifetime).
type ResolvedDates struct {
	Range  *DateRange
	Preset *DatePreset
}

// GlobalEntityID monta o identificador global `{platform}:{entity}:{native_id}`
// usado como chave estável de dedup/join entre plataformas
func GlobalEntityID(platform Platform, entity Level, nativeID string) string {
	return fmt.Sprintf("%s:%s:%s", platform, entity, nativeID)
}

// FetchRequest descreve uma busca de insights em uma plataforma. Exatamente
// um entre Range e Preset fica populado; AccountID já chega normalizado com
// o prefixo da plataforma (act_ no Meta).
type FetchRequest struct {
	Level     Level
	AccountID string
	Range     *DateRange
	Preset    *DatePreset
	PageSize  int
}

// InsightRecord é a linha normalizada de métricas diárias retornada pelos
// adapters de plataforma e consumida pelo loader do warehouse
type InsightRecord struct {
	Date             time.Time      `json:"date"`
	Level            Level          `json:"level"`
	AccountGlobalID  string         `json:"account_global_id"`
	CampaignGlobalID *string        `json:"campaign_global_id"`
	AdsetGlobalID    *string        `json:"adset_global_id"`
	AdGlobalID       *string        `json:"ad_global_id"`
	Impressions      int64          `json:"impressions"`
	Clicks           int64          `json:"clicks"`
	Spend            float64        `json:"spend"`
	Conversions      *float64       `json:"conversions"`
	CTR              *float64       `json:"ctr"`
	Frequency        *float64       `json:"frequency"`
	RawMetrics       map[string]any `json:"raw_metrics"`
}

// AdDimension é a linha dimensional de um anúncio mantida em dim_ad para
// enriquecer consultas sobre a tabela fato
type AdDimension struct {
	AdGlobalID       string    `json:"ad_global_id"`
	AccountGlobalID  string    `json:"account_global_id"`
	CampaignGlobalID *string   `json:"campaign_global_id"`
	AdsetGlobalID    *string   `json:"adset_global_id"`
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	EffectiveStatus  *string   `json:"effective_status"`
	SyncedAt         time.Time `json:"synced_at"`
}

// SyncResult resume uma sincronização bem sucedida
type SyncResult struct {
	RowsLoaded       int64  `json:"rows_loaded"`
	DestinationTable string `json:"destination_table"`
}
