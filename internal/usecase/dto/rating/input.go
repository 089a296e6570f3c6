package ratingdto

type CreateRatingInput struct {
	ContractID string
	Score      int
	Comment    string
}
