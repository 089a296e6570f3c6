package walletdto

type WithdrawalInput struct {
	Amount        int64
	Currency      string
	RecipientCode string
}
