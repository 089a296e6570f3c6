package request

type WithdrawRequest struct {
	Amount        int64  `json:"amount" binding:"required"`
	Currency      string `json:"currency" binding:"required"`
	RecipientCode string `json:"recipient_code" binding:"required"`
}
