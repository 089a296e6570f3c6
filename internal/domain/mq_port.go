package domain

import (
	"context"
	"time"
)

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

type ContractEvent struct {
	Event        string    `json:"event"`
	ContractID   string    `json:"contract_id"`
	JobID        string    `json:"job_id"`
	ClientID     string    `json:"client_id"`
	FreelancerID string    `json:"freelancer_id"`
	ActorID      string    `json:"actor_id"`
	Status       string    `json:"status"`
	Amount       int64     `json:"amount,omitempty"`
	Currency     string    `json:"currency"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type DisputeEvent struct {
	Event      string    `json:"event"`
	DisputeID  string    `json:"dispute_id"`
	ContractID string    `json:"contract_id"`
	RaisedBy   string    `json:"raised_by"`
	ActorID    string    `json:"actor_id"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher - уведомления для сервиса нотификаций. Публикация best-effort, после коммита
type EventPublisher interface {
	PublishContractEvent(ctx context.Context, event ContractEvent) error
	PublishDisputeEvent(ctx context.Context, event DisputeEvent) error
}
