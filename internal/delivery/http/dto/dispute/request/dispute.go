package request

type RaiseDisputeRequest struct {
	ContractID  string `json:"contract_id"`
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type ResolveDisputeRequest struct {
	Resolution      string `json:"resolution" binding:"required"`
	ResolutionNotes string `json:"resolution_notes"`
}
