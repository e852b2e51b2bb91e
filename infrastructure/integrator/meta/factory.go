package meta

import (
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/insights-sync-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	"github.com/vfg2006/insights-sync-api/pkg/utils"
)

// FactoryInsightRecord normaliza uma linha da Graph API para o formato do
// warehouse: contagens ilegíveis viram zero, taxas ilegíveis viram nulas,
// conversões somam os valores numéricos de actions e os ids nativos viram
// identificadores globais prefixados pela plataforma
func FactoryInsightRecord(row *metadomain.InsightRow, level domain.Level, accountID string) domain.InsightRecord {
	record := domain.InsightRecord{
		Date:            parseRowDate(row.DateStart),
		Level:           level,
		AccountGlobalID: domain.GlobalEntityID(domain.PlatformMeta, domain.LevelAccount, accountID),
		Impressions:     safeInt(row.Impressions, "impressions"),
		Clicks:          safeInt(row.Clicks, "clicks"),
		Spend:           safeSpend(row.Spend),
		Conversions:     sumConversions(row.Actions),
		CTR:             safeFloat(row.CTR, "ctr"),
		Frequency:       safeFloat(row.Frequency, "frequency"),
		RawMetrics:      rawMetrics(row),
	}

	if row.CampaignID != "" {
		id := domain.GlobalEntityID(domain.PlatformMeta, domain.LevelCampaign, row.CampaignID)
		record.CampaignGlobalID = &id
	}
	if row.AdsetID != "" {
		id := domain.GlobalEntityID(domain.PlatformMeta, domain.LevelAdset, row.AdsetID)
		record.AdsetGlobalID = &id
	}
	if row.AdID != "" {
		id := domain.GlobalEntityID(domain.PlatformMeta, domain.LevelAd, row.AdID)
		record.AdGlobalID = &id
	}

	return record
}

// FactoryAdDimension normaliza um anúncio da Graph API para a linha
// dimensional de dim_ad
func FactoryAdDimension(ad *metadomain.Ad, accountID string, syncedAt time.Time) domain.AdDimension {
	dimension := domain.AdDimension{
		AdGlobalID:      domain.GlobalEntityID(domain.PlatformMeta, domain.LevelAd, ad.ID),
		AccountGlobalID: domain.GlobalEntityID(domain.PlatformMeta, domain.LevelAccount, accountID),
		Name:            ad.Name,
		Status:          ad.Status,
		SyncedAt:        syncedAt,
	}

	if ad.EffectiveStatus != "" {
		status := ad.EffectiveStatus
		dimension.EffectiveStatus = &status
	}
	if ad.CampaignID != "" {
		id := domain.GlobalEntityID(domain.PlatformMeta, domain.LevelCampaign, ad.CampaignID)
		dimension.CampaignGlobalID = &id
	}
	if ad.AdsetID != "" {
		id := domain.GlobalEntityID(domain.PlatformMeta, domain.LevelAdset, ad.AdsetID)
		dimension.AdsetGlobalID = &id
	}

	return dimension
}

// parseRowDate converte a data da linha; valor ilegível cai para a data
// corrente em vez de derrubar a carga inteira
func parseRowDate(value string) time.Time {
	date, err := utils.ParseDate(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"date_value": value,
		}).Warn("insights: error parsing row date, using current date")
		return utils.StartOfDay(time.Now().UTC())
	}
	return date
}

func safeInt(value string, metric string) int64 {
	if value == "" {
		return 0
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"metric": metric,
			"value":  value,
		}).Warn("insights: error converting metric to integer")
		return 0
	}

	return parsed
}

func safeFloat(value string, metric string) *float64 {
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"metric": metric,
			"value":  value,
		}).Warn("insights: error converting metric to float")
		return nil
	}

	return &parsed
}

func safeSpend(value string) float64 {
	if value == "" {
		return 0
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"spend_value": value,
		}).Warn("insights: error converting spend to float")
		return 0
	}

	return parsed
}

// sumConversions soma os valores numéricos de actions; sem nenhuma ação
// parseável o total fica nulo para não se passar por zero observado
func sumConversions(actions []metadomain.Action) *float64 {
	var total float64
	counted := 0

	for i := range actions {
		action := actions[i]

		value, err := strconv.ParseFloat(action.Value, 64)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"action_type":  action.ActionType,
				"action_value": action.Value,
			}).Warn("insights: error converting action value to float")
			continue
		}

		total += value
		counted++
	}

	if counted == 0 {
		return nil
	}

	return &total
}

// rawMetrics preserva os valores originais da plataforma como vieram,
// para auditoria e reprocessamento
func rawMetrics(row *metadomain.InsightRow) map[string]any {
	metrics := map[string]any{
		"date_start":  row.DateStart,
		"date_stop":   row.DateStop,
		"impressions": row.Impressions,
		"clicks":      row.Clicks,
		"spend":       row.Spend,
		"ctr":         row.CTR,
		"frequency":   row.Frequency,
	}

	if len(row.Actions) > 0 {
		actions := make(map[string]string, len(row.Actions))
		for i := range row.Actions {
			actions[row.Actions[i].ActionType] = row.Actions[i].Value
		}
		metrics["actions"] = actions
	}

	return metrics
}
