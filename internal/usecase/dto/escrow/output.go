package escrowdto

import "github.com/LavaJover/freelink-contract-service/internal/domain"

type DepositOutput struct {
	Transaction *domain.EscrowTransaction
	// Replayed - запрос с тем же Idempotency-Key уже обрабатывался
	Replayed bool
}
