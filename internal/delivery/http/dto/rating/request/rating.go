package request

type CreateRatingRequest struct {
	ContractID string `json:"contract_id" binding:"required"`
	Score      int    `json:"score" binding:"required"`
	Comment    string `json:"comment"`
}
