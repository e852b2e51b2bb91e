package metaclient

import (
	"context"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/insights-sync-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/insights-sync-api/internal/config"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	"github.com/vfg2006/insights-sync-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// requestTimeout limita cada chamada à Graph API; uma busca paginada faz
// várias chamadas e cada página tem seu próprio timeout
const requestTimeout = 60 * time.Second

type Client interface {
	GetInsights(ctx context.Context, accountID string, params InsightParams) ([]metadomain.InsightRow, error)
	GetAdsByAccountID(ctx context.Context, accountID string) ([]metadomain.Ad, error)
}

// InsightParams parametriza uma busca de insights: nível de agregação,
// janela (intervalo concreto ou preset nativo) e tamanho de página
type InsightParams struct {
	Level      domain.Level
	Range      *domain.DateRange
	DatePreset *domain.DatePreset
	PageSize   int
}

type MetaClient struct {
	Cfg        *config.Config
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	client := &MetaClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
	return client
}

// doGet executa um GET na Graph API e devolve o corpo em caso de sucesso
func (c *MetaClient) doGet(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, 0, err.Error())
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return nil, domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, 0, err.Error())
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

// handleResponse lê o corpo e converte respostas non-2xx em FetchError com
// os detalhes da Graph API quando o corpo de erro é decodificável
func (c *MetaClient) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logrus.WithError(err).Error("Erro ao ler o corpo da resposta")
		return nil, domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, resp.StatusCode, err.Error())
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return body, nil
	}

	var errorResponse metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResponse); err == nil && errorResponse.Error.Message != "" {
		fields := logrus.Fields{
			"status_code": resp.StatusCode,
			"error_type":  errorResponse.Error.Type,
			"error_code":  errorResponse.Error.Code,
			"fbtrace_id":  errorResponse.Error.FBTraceID,
		}
		if errorResponse.IsRateLimited() {
			logrus.WithFields(fields).Warn("Limite de requisições da Graph API atingido")
		} else {
			logrus.WithFields(fields).Error("Graph API retornou erro")
		}
		return nil, domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, resp.StatusCode, errorResponse.Error.Message)
	}

	logrus.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"body":        utils.PrettyJson(body),
	}).Error("Graph API retornou erro não estruturado")

	return nil, domain.NewFetchError(domain.ErrUpstreamRequest, domain.PlatformMeta, resp.StatusCode, string(body))
}
