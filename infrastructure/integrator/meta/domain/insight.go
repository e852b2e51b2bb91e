package metadomain

// Action é um evento de conversão reportado pela Graph API; Value chega
// como string e é convertido durante a normalização
type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// InsightRow é uma linha diária de métricas como a Graph API retorna:
// campos numéricos chegam como strings e os ids da hierarquia só vêm
// preenchidos até o nível solicitado
type InsightRow struct {
	AccountID   string   `json:"account_id"`
	Actions     []Action `json:"actions"`
	AdID        string   `json:"ad_id"`
	AdsetID     string   `json:"adset_id"`
	CampaignID  string   `json:"campaign_id"`
	Clicks      string   `json:"clicks"`
	CTR         string   `json:"ctr"`
	DateStart   string   `json:"date_start"`
	DateStop    string   `json:"date_stop"`
	Frequency   string   `json:"frequency"`
	Impressions string   `json:"impressions"`
	Spend       string   `json:"spend"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Paging carrega os cursores de paginação; Next é a URL completa da
// próxima página, já com todos os parâmetros originais
type Paging struct {
	Cursors  Cursors `json:"cursors"`
	Next     string  `json:"next"`
	Previous string  `json:"previous"`
}
