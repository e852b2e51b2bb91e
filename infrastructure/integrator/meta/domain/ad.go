package metadomain

// Ad é a entidade de anúncio retornada por /{account}/ads com os ids da
// hierarquia usados na tabela dimensional
type Ad struct {
	AdsetID         string `json:"adset_id"`
	CampaignID      string `json:"campaign_id"`
	EffectiveStatus string `json:"effective_status"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
}
