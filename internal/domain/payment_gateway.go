package domain

import (
	"context"
	"time"
)

type GatewayEventType string

const (
	ChargeSuccess    GatewayEventType = "charge.success"
	ChargeFailed     GatewayEventType = "charge.failed"
	ChargePending    GatewayEventType = "charge.pending"
	TransferSuccess  GatewayEventType = "transfer.success"
	TransferFailed   GatewayEventType = "transfer.failed"
	TransferReversed GatewayEventType = "transfer.reversed"
)

func (t GatewayEventType) IsTransfer() bool {
	return t == TransferSuccess || t == TransferFailed || t == TransferReversed
}

// GatewayEvent - входящее подтверждение от платежного шлюза (вебхук или verify)
type GatewayEvent struct {
	Type          GatewayEventType
	Reference     string
	Amount        int64
	Currency      string
	GatewayStatus string
	TransferCode  string
	Message       string
	OccurredAt    time.Time
}

type ChargeRequest struct {
	Reference   string
	Email       string
	Amount      int64
	Currency    string
	CallbackURL string
	Metadata    map[string]string
}

type ChargeSession struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

type TransferRequest struct {
	Reference     string
	RecipientCode string
	Amount        int64
	Currency      string
	Reason        string
}

type TransferResult struct {
	Reference    string
	TransferCode string
	Status       string
}

// PaymentGateway - внешний платежный провайдер. Ошибки возвращаются как *PaymentError
type PaymentGateway interface {
	InitializeCharge(ctx context.Context, req ChargeRequest) (*ChargeSession, error)
	VerifyCharge(ctx context.Context, reference string) (*GatewayEvent, error)
	InitiateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}
