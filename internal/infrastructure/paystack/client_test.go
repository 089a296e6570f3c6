package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

func TestInitializeCharge(t *testing.T) {
	var got initializeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk_test" {
			t.Errorf("missing bearer token")
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{"authorization_url":"https://checkout/abc","access_code":"abc","reference":"ref-1"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", time.Second)
	session, err := client.InitializeCharge(context.Background(), domain.ChargeRequest{
		Reference: "ref-1",
		Email:     "client@example.com",
		Amount:    500,
		Currency:  "GHS",
	})
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if session.AuthorizationURL != "https://checkout/abc" || session.Reference != "ref-1" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if got.Amount != 500 || got.Email != "client@example.com" || got.Currency != "GHS" {
		t.Fatalf("unexpected request body: %+v", got)
	}
}

func TestInitializeChargeGatewayRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad", time.Second).InitializeCharge(context.Background(), domain.ChargeRequest{Reference: "r"})
	var paymentErr *domain.PaymentError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("expected PaymentError, got %v", err)
	}
	if paymentErr.Message != "Invalid key" {
		t.Fatalf("unexpected message %q", paymentErr.Message)
	}
}

func TestInitializeChargeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "sk", time.Second).InitializeCharge(context.Background(), domain.ChargeRequest{Reference: "r"})
	var paymentErr *domain.PaymentError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("expected PaymentError, got %v", err)
	}
}

func TestVerifyChargeMapsStatus(t *testing.T) {
	cases := map[string]domain.GatewayEventType{
		"success":   domain.ChargeSuccess,
		"failed":    domain.ChargeFailed,
		"abandoned": domain.ChargeFailed,
		"ongoing":   domain.ChargePending,
	}
	for status, want := range cases {
		status, want := status, want
		t.Run(status, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/transaction/verify/ref-9" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				_, _ = w.Write([]byte(`{"status":true,"data":{"status":"` + status + `","reference":"ref-9","amount":700,"currency":"GHS"}}`))
			}))
			defer srv.Close()

			event, err := NewClient(srv.URL, "sk", time.Second).VerifyCharge(context.Background(), "ref-9")
			if err != nil {
				t.Fatalf("verify failed: %v", err)
			}
			if event.Type != want || event.Amount != 700 || event.Reference != "ref-9" {
				t.Fatalf("unexpected event: %+v", event)
			}
		})
	}
}

func TestInitiateTransfer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req transferRequest
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		if req.Recipient != "RCP_1" || req.Source != "balance" {
			t.Errorf("unexpected transfer request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"status":true,"data":{"transfer_code":"TRF_1","status":"pending"}}`))
	}))
	defer srv.Close()

	result, err := NewClient(srv.URL, "sk", time.Second).InitiateTransfer(context.Background(), domain.TransferRequest{
		Reference:     "wd-1",
		RecipientCode: "RCP_1",
		Amount:        300,
		Currency:      "GHS",
	})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if result.TransferCode != "TRF_1" || result.Reference != "wd-1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestInitiateTransferErrorOutcome(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		timeout  time.Duration
		rejected bool
	}{
		{
			name: "explicit rejection",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"status":false,"message":"Insufficient balance"}`))
			},
			timeout:  time.Second,
			rejected: true,
		},
		{
			name: "gateway 5xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"status":false,"message":"upstream error"}`))
			},
			timeout: time.Second,
		},
		{
			name: "html error page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`<html>down</html>`))
			},
			timeout: time.Second,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				_, _ = w.Write([]byte(`{"status":true,"data":{"transfer_code":"TRF_1"}}`))
			},
			timeout: 20 * time.Millisecond,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, "sk", tt.timeout).InitiateTransfer(context.Background(), domain.TransferRequest{
				Reference: "wd-1", RecipientCode: "RCP_1", Amount: 300, Currency: "GHS",
			})
			var paymentErr *domain.PaymentError
			if !errors.As(err, &paymentErr) {
				t.Fatalf("expected PaymentError, got %v", err)
			}
			if paymentErr.Rejected() != tt.rejected {
				t.Fatalf("Rejected() = %v, want %v (%v)", paymentErr.Rejected(), tt.rejected, err)
			}
		})
	}
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"r1","amount":100}}`)
	sig := Sign("secret", body)

	if !VerifySignature("secret", body, sig) {
		t.Fatal("valid signature rejected")
	}
	if VerifySignature("other", body, sig) {
		t.Fatal("signature with wrong secret accepted")
	}
	if VerifySignature("secret", append(body, ' '), sig) {
		t.Fatal("tampered body accepted")
	}
	if VerifySignature("secret", body, "not-hex") || VerifySignature("secret", body, "") {
		t.Fatal("malformed signature accepted")
	}
}

func TestParseWebhook(t *testing.T) {
	event, err := ParseWebhook([]byte(`{"event":"transfer.success","data":{"reference":"wd-1","amount":300,"currency":"GHS","status":"success","transfer_code":"TRF_1"}}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if event.Type != domain.TransferSuccess || !event.Type.IsTransfer() || event.TransferCode != "TRF_1" {
		t.Fatalf("unexpected event: %+v", event)
	}

	if _, err := ParseWebhook([]byte(`{"event":"charge.success","data":{}}`)); err == nil {
		t.Fatal("webhook without reference accepted")
	}
	if _, err := ParseWebhook([]byte(`not json`)); err == nil {
		t.Fatal("garbage accepted")
	}
}
