package escrowdto

type DepositInput struct {
	ContractID     string
	Amount         int64
	IdempotencyKey string
}
