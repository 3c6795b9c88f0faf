package bank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akylbek/payment-system/payment-gateway/internal/models"
	"github.com/akylbek/payment-system/payment-gateway/internal/result"
)

func testCommand() models.PaymentCommand {
	return models.PaymentCommand{
		CardNumber:  "4242424242424242",
		ExpiryMonth: 6,
		ExpiryYear:  2027,
		Currency:    "usd",
		Amount:      100,
		CVV:         "123",
	}
}

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, "payments", 2*time.Second, nil)
}

func TestAuthorizedResponse(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payments" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authorized": true, "authorization_code": "AUTH123"}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).ProcessPayment(context.Background(), testCommand())
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if res.IsFailure() {
		t.Fatalf("unexpected failure: %v", res.Err())
	}
	if !res.Data().Authorized || res.Data().AuthorizationCode != "AUTH123" {
		t.Fatalf("unexpected response: %+v", res.Data())
	}

	// Wire shape: MM/YYYY expiry and upper-cased currency.
	if captured["expiry_date"] != "06/2027" {
		t.Fatalf("expected expiry_date 06/2027, got %v", captured["expiry_date"])
	}
	if captured["currency"] != "USD" {
		t.Fatalf("expected upper-cased currency, got %v", captured["currency"])
	}
	if captured["card_number"] != "4242424242424242" || captured["cvv"] != "123" {
		t.Fatalf("unexpected card fields: %v", captured)
	}
	if captured["amount"] != float64(100) {
		t.Fatalf("expected amount 100, got %v", captured["amount"])
	}
}

func TestDeclinedResponseWithNullCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"authorized": false, "authorization_code": null}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).ProcessPayment(context.Background(), testCommand())
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if res.IsFailure() {
		t.Fatalf("unexpected failure: %v", res.Err())
	}
	if res.Data().Authorized || res.Data().AuthorizationCode != "" {
		t.Fatalf("unexpected response: %+v", res.Data())
	}
}

func TestBadRequestIsUnexpectedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"missing cvv"}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).ProcessPayment(context.Background(), testCommand())
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if res.IsSuccess() {
		t.Fatalf("expected failure")
	}
	e := res.Err()
	if e.Kind != result.Unexpected || e.Code != http.StatusBadRequest {
		t.Fatalf("unexpected error: %+v", e)
	}
	if !strings.Contains(e.Message, "missing cvv") {
		t.Fatalf("expected body in message, got %q", e.Message)
	}
}

func TestServiceUnavailableIsTransientFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"bank down"}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).ProcessPayment(context.Background(), testCommand())
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	e := res.Err()
	if e == nil || e.Kind != result.Transient || e.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected error: %+v", e)
	}
	if !strings.Contains(e.Message, "bank down") {
		t.Fatalf("expected body in message, got %q", e.Message)
	}
}

func TestOtherStatusIsFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ProcessPayment(context.Background(), testCommand())
	if err == nil {
		t.Fatalf("expected a fault for status 502")
	}
}

func TestUnparsableSuccessBodyIsFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ProcessPayment(context.Background(), testCommand())
	if err == nil {
		t.Fatalf("expected a fault for an unparsable bank body")
	}
}

func TestCancellationAbortsCall(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := newTestClient(srv.URL).ProcessPayment(ctx, testCommand())
	if err == nil {
		t.Fatalf("expected a fault after cancellation")
	}
}
