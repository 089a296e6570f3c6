package domain

import "time"

type DisputeStatus string

const (
	DisputeOpen               DisputeStatus = "open"
	DisputeUnderReview        DisputeStatus = "under_review"
	DisputeResolvedClient     DisputeStatus = "resolved_client"
	DisputeResolvedFreelancer DisputeStatus = "resolved_freelancer"
	DisputeResolvedCompromise DisputeStatus = "resolved_compromise"
	DisputeClosed             DisputeStatus = "closed"
)

func (s DisputeStatus) IsActive() bool {
	return s == DisputeOpen || s == DisputeUnderReview
}

func (s DisputeStatus) IsResolution() bool {
	switch s {
	case DisputeResolvedClient, DisputeResolvedFreelancer, DisputeResolvedCompromise, DisputeClosed:
		return true
	}
	return false
}

type DisputeReason string

const (
	ReasonQuality       DisputeReason = "quality"
	ReasonDeadline      DisputeReason = "deadline"
	ReasonPayment       DisputeReason = "payment"
	ReasonCommunication DisputeReason = "communication"
	ReasonScope         DisputeReason = "scope"
	ReasonOther         DisputeReason = "other"
)

func (r DisputeReason) Valid() bool {
	switch r {
	case ReasonQuality, ReasonDeadline, ReasonPayment, ReasonCommunication, ReasonScope, ReasonOther:
		return true
	}
	return false
}

type Dispute struct {
	ID              string
	ContractID      string
	RaisedBy        string
	Reason          DisputeReason
	Description     string
	Status          DisputeStatus
	ResolutionNotes string
	ResolvedBy      string
	ResolvedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Comments []*DisputeComment
}

type DisputeComment struct {
	ID        string
	DisputeID string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

type DisputeFilter struct {
	PartyID string
	Status  *DisputeStatus
	Page    int
	Limit   int
}
