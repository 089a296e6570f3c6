package response

import (
	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type DepositResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
}

func FromDeposit(tx *domain.EscrowTransaction) DepositResponse {
	return DepositResponse{
		Reference:        tx.Reference,
		AuthorizationURL: tx.AuthorizationURL,
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		Status:           string(tx.Status),
	}
}

type WebhookAck struct {
	Status string `json:"status"`
}
