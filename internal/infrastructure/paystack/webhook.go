package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

const SignatureHeader = "X-Paystack-Signature"

// VerifySignature проверяет HMAC-SHA512 тела вебхука секретным ключом
func (c *Client) VerifySignature(body []byte, signature string) bool {
	return VerifySignature(c.secretKey, body, signature)
}

func (c *Client) SignatureHeader() string {
	return SignatureHeader
}

func (c *Client) ParseWebhook(body []byte) (*domain.GatewayEvent, error) {
	return ParseWebhook(body)
}

func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}

func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference       string `json:"reference"`
		Amount          int64  `json:"amount"`
		Currency        string `json:"currency"`
		Status          string `json:"status"`
		TransferCode    string `json:"transfer_code"`
		GatewayResponse string `json:"gateway_response"`
		Reason          string `json:"reason"`
	} `json:"data"`
}

// ParseWebhook разбирает тело вебхука. Неизвестные типы событий возвращаются как есть,
// решение об их обработке принимает usecase
func ParseWebhook(body []byte) (*domain.GatewayEvent, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	if payload.Event == "" || payload.Data.Reference == "" {
		return nil, fmt.Errorf("webhook without event or reference")
	}

	message := payload.Data.GatewayResponse
	if message == "" {
		message = payload.Data.Reason
	}
	return &domain.GatewayEvent{
		Type:          domain.GatewayEventType(payload.Event),
		Reference:     payload.Data.Reference,
		Amount:        payload.Data.Amount,
		Currency:      payload.Data.Currency,
		GatewayStatus: payload.Data.Status,
		TransferCode:  payload.Data.TransferCode,
		Message:       message,
		OccurredAt:    time.Now(),
	}, nil
}
