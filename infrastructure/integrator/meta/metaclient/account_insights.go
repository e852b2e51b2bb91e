package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/insights-sync-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/insights-sync-api/internal/domain"
)

type ResponseInsights struct {
	Data   []metadomain.InsightRow `json:"data"`
	Paging metadomain.Paging       `json:"paging"`
}

// insightFields são os campos diários pedidos à Graph API; os ids da
// hierarquia vêm preenchidos conforme o nível solicitado
const insightFields = "date_start,date_stop,impressions,clicks,spend,ctr,frequency," +
	"ad_id,adset_id,campaign_id,actions"

// GetInsights busca os insights diários da conta no nível pedido,
// atravessando todas as páginas antes de retornar
func (c *MetaClient) GetInsights(ctx context.Context, accountID string, insightParams InsightParams) ([]metadomain.InsightRow, error) {
	baseURL := fmt.Sprintf("%s/%s/insights", c.Cfg.Meta.URL, accountID)

	params := url.Values{}
	params.Add("level", string(insightParams.Level))
	params.Add("fields", insightFields)
	params.Add("time_increment", "1")
	params.Add("limit", strconv.Itoa(insightParams.PageSize))

	switch {
	case insightParams.Range != nil:
		timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}",
			insightParams.Range.Since.Format(time.DateOnly),
			insightParams.Range.Until.Format(time.DateOnly))
		params.Add("time_range", timeRange)
	case insightParams.DatePreset != nil:
		params.Add("date_preset", string(*insightParams.DatePreset))
	}

	params.Add("access_token", c.Cfg.Meta.AccessToken)

	requestURL := baseURL + "?" + params.Encode()

	rows := make([]metadomain.InsightRow, 0)
	pages := 0

	// O cursor next da Graph API já carrega todos os parâmetros originais,
	// então a URL é seguida como veio, sem reanexar nada
	for requestURL != "" {
		body, err := c.doGet(ctx, requestURL)
		if err != nil {
			return nil, err
		}

		var response ResponseInsights
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar JSON")
			return nil, domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, 0, err.Error())
		}

		rows = append(rows, response.Data...)
		pages++

		requestURL = response.Paging.Next
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"level":      insightParams.Level,
		"pages":      pages,
		"rows":       len(rows),
	}).Debug("Todas as páginas de insights retornadas pela Graph API")

	return rows, nil
}
