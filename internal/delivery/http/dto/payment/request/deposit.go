package request

type DepositRequest struct {
	ContractID string `json:"contract_id" binding:"required"`
	Amount     int64  `json:"amount" binding:"required"`
}
