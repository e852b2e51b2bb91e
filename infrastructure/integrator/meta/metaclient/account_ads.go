package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/insights-sync-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/insights-sync-api/internal/domain"
)

type ResponseAds struct {
	Data   []metadomain.Ad   `json:"data"`
	Paging metadomain.Paging `json:"paging"`
}

const (
	adFields    = "id,name,status,effective_status,campaign_id,adset_id"
	adsPageSize = 500
)

// GetAdsByAccountID busca todos os anúncios da conta, atravessando todas
// as páginas antes de retornar
func (c *MetaClient) GetAdsByAccountID(ctx context.Context, accountID string) ([]metadomain.Ad, error) {
	baseURL := fmt.Sprintf("%s/%s/ads", c.Cfg.Meta.URL, accountID)

	params := url.Values{}
	params.Add("fields", adFields)
	params.Add("limit", strconv.Itoa(adsPageSize))
	params.Add("access_token", c.Cfg.Meta.AccessToken)

	requestURL := baseURL + "?" + params.Encode()

	ads := make([]metadomain.Ad, 0)
	for requestURL != "" {
		body, err := c.doGet(ctx, requestURL)
		if err != nil {
			return nil, err
		}

		var response ResponseAds
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar JSON")
			return nil, domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, 0, err.Error())
		}

		ads = append(ads, response.Data...)

		requestURL = response.Paging.Next
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"ads":        len(ads),
	}).Debug("Todas as páginas de anúncios retornadas pela Graph API")

	return ads, nil
}
