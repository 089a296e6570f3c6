package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

// Client - HTTP клиент Paystack. Суммы передаются в минимальных единицах валюты
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency,omitempty"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status          string `json:"status"`
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	GatewayResponse string `json:"gateway_response"`
}

type transferRequest struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reason    string `json:"reason,omitempty"`
	Reference string `json:"reference"`
	Currency  string `json:"currency,omitempty"`
}

type transferData struct {
	TransferCode string `json:"transfer_code"`
	Reference    string `json:"reference"`
	Status       string `json:"status"`
}

func (c *Client) InitializeCharge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeSession, error) {
	var data initializeData
	err := c.do(ctx, "initialize", http.MethodPost, "/transaction/initialize", initializeRequest{
		Email:       req.Email,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.AuthorizationURL == "" {
		return nil, &domain.PaymentError{Op: "initialize", Message: "gateway returned no authorization url"}
	}
	reference := data.Reference
	if reference == "" {
		reference = req.Reference
	}
	return &domain.ChargeSession{
		Reference:        reference,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
	}, nil
}

func (c *Client) VerifyCharge(ctx context.Context, reference string) (*domain.GatewayEvent, error) {
	var data verifyData
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.do(ctx, "verify", http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	if data.Reference == "" {
		data.Reference = reference
	}
	return &domain.GatewayEvent{
		Type:          chargeEventType(data.Status),
		Reference:     data.Reference,
		Amount:        data.Amount,
		Currency:      data.Currency,
		GatewayStatus: data.Status,
		Message:       data.GatewayResponse,
		OccurredAt:    time.Now(),
	}, nil
}

func (c *Client) InitiateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	var data transferData
	err := c.do(ctx, "transfer", http.MethodPost, "/transfer", transferRequest{
		Source:    "balance",
		Amount:    req.Amount,
		Recipient: req.RecipientCode,
		Reason:    req.Reason,
		Reference: req.Reference,
		Currency:  req.Currency,
	}, &data)
	if err != nil {
		return nil, err
	}
	return &domain.TransferResult{
		Reference:    req.Reference,
		TransferCode: data.TransferCode,
		Status:       data.Status,
	}, nil
}

// chargeEventType переводит статус транзакции Paystack в тип события
func chargeEventType(status string) domain.GatewayEventType {
	switch status {
	case "success":
		return domain.ChargeSuccess
	case "failed", "abandoned", "reversed":
		return domain.ChargeFailed
	default:
		return domain.ChargePending
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		requestBodyBytes, err := json.Marshal(body)
		if err != nil {
			return &domain.PaymentError{Op: op, Message: "encode request: " + err.Error()}
		}
		reader = bytes.NewReader(requestBodyBytes)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &domain.PaymentError{Op: op, Message: "build request: " + err.Error()}
	}
	request.Header.Set("Authorization", "Bearer "+c.secretKey)
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return &domain.PaymentError{Op: op, Message: "gateway unreachable", Err: err}
	}
	defer response.Body.Close()

	responseBodyBytes, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return &domain.PaymentError{Op: op, Message: "read response", StatusCode: response.StatusCode, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(responseBodyBytes, &env); err != nil {
		return &domain.PaymentError{
			Op:         op,
			Message:    fmt.Sprintf("unexpected response (status %d)", response.StatusCode),
			StatusCode: response.StatusCode,
			Err:        err,
		}
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 || !env.Status {
		message := env.Message
		if message == "" {
			message = http.StatusText(response.StatusCode)
		}
		return &domain.PaymentError{Op: op, Message: message, StatusCode: response.StatusCode}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &domain.PaymentError{Op: op, Message: "decode response data", StatusCode: response.StatusCode, Err: err}
		}
	}
	return nil
}
