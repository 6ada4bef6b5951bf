package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ola-fintech/microcredit/internal/config"
)

func TestProviderGatewaySendSMS(t *testing.T) {
	var got smsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(smsResponse{Reference: "ref-42", Status: "sent"})
	}))
	defer srv.Close()

	g := NewProviderGateway(config.Config{
		SMSGatewayURL:   srv.URL,
		SMSGatewayToken: "token-123",
		SMSSender:       "OlaFintech",
	})

	delivery, err := g.SendSMS(context.Background(), "+573001112233", "your code is 123456")
	if err != nil {
		t.Fatalf("send sms: %v", err)
	}
	if delivery.ProviderRef != "ref-42" || delivery.Channel != ChannelSMS {
		t.Fatalf("unexpected delivery: %+v", delivery)
	}
	if got.To != "+573001112233" || got.From != "OlaFintech" || got.Body != "your code is 123456" {
		t.Fatalf("unexpected request payload: %+v", got)
	}
}

func TestProviderGatewaySendSMSRejected(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		payload smsResponse
	}{
		{"http error", http.StatusBadGateway, smsResponse{Error: "upstream down"}},
		{"provider failure", http.StatusOK, smsResponse{Status: "failed", Error: "invalid number"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(tc.payload)
			}))
			defer srv.Close()

			g := NewProviderGateway(config.Config{SMSGatewayURL: srv.URL})
			if _, err := g.SendSMS(context.Background(), "+573001112233", "body"); err == nil {
				t.Fatal("expected an error when the provider rejects the message")
			}
		})
	}
}

func TestProviderGatewaySendSMSUnreachable(t *testing.T) {
	g := NewProviderGateway(config.Config{SMSGatewayURL: "http://127.0.0.1:1"})
	if _, err := g.SendSMS(context.Background(), "+573001112233", "body"); err == nil {
		t.Fatal("expected a transport error")
	}
}
