package publisher

import (
	"context"
	"encoding/json"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

// EventPublisher сериализует доменные события в JSON и отправляет в свои топики.
// Ключ сообщения - id контракта, чтобы события одного контракта шли по порядку
type EventPublisher struct {
	port          domain.PublisherPort
	contractTopic string
	disputeTopic  string
}

func NewEventPublisher(port domain.PublisherPort, contractTopic, disputeTopic string) *EventPublisher {
	return &EventPublisher{
		port:          port,
		contractTopic: contractTopic,
		disputeTopic:  disputeTopic,
	}
}

func (p *EventPublisher) PublishContractEvent(ctx context.Context, event domain.ContractEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.port.Publish(ctx, p.contractTopic, domain.Message{Key: []byte(event.ContractID), Value: v})
}

func (p *EventPublisher) PublishDisputeEvent(ctx context.Context, event domain.DisputeEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.port.Publish(ctx, p.disputeTopic, domain.Message{Key: []byte(event.ContractID), Value: v})
}
