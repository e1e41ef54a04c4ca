package kalshi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/pkg/types"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	return NewClient(Config{
		BaseURL:      baseURL,
		ReadDelay:    time.Millisecond,
		MaxRetries:   3,
		RetryBackoff: 5 * time.Millisecond,
		Logger:       logger,
	})
}

func TestListEvents_Pagination(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trade-api/v2/events" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("series_ticker") != "KXHIGHNY" {
			t.Errorf("missing series_ticker param")
		}
		if r.URL.Query().Get("with_nested_markets") != "true" {
			t.Errorf("missing with_nested_markets param")
		}

		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.Write([]byte(`{"events":[{"event_ticker":"E1","mutually_exclusive":true}],"cursor":"next-page"}`))
			return
		}
		if cursor := r.URL.Query().Get("cursor"); cursor != "next-page" {
			t.Errorf("expected cursor next-page, got %q", cursor)
		}
		w.Write([]byte(`{"events":[{"event_ticker":"E2","mutually_exclusive":false}],"cursor":""}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	events, err := client.ListEvents(context.Background(), "KXHIGHNY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events across pages, got %d", len(events))
	}
	if events[0].Ticker != "E1" || events[1].Ticker != "E2" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestGetOrderbook_DecodesTuples(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trade-api/v2/markets/KXHIGHNY-B54/orderbook" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"orderbook":{"yes":[[28,100]],"no":[[68,40]]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	ob, err := client.GetOrderbook(context.Background(), "KXHIGHNY-B54", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ob.Yes) != 1 || ob.Yes[0].PriceCents != 28 {
		t.Errorf("unexpected yes side: %+v", ob.Yes)
	}
	if len(ob.No) != 1 || ob.No[0].Quantity != 40 {
		t.Errorf("unexpected no side: %+v", ob.No)
	}
}

func TestDoGet_RetriesRateLimitWithRetryAfter(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"orderbook":{"yes":[[50,10]],"no":null}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	ob, err := client.GetOrderbook(context.Background(), "B1", 0)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(ob.Yes) != 1 {
		t.Errorf("unexpected book: %+v", ob)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDoGet_ExhaustedRetriesIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.GetOrderbook(context.Background(), "B1", 0)
	var transportErr *types.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestCreateOrder_VenueRejectionNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"insufficient_balance","message":"not enough funds"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.CreateOrder(context.Background(), types.OrderRequest{
		Ticker: "B1", Side: types.SideYes, Action: types.ActionBuy,
		Type: types.OrderTypeLimit, Count: 5, YesPriceCents: 30,
	})

	var venueErr *types.VenueError
	if !errors.As(err, &venueErr) {
		t.Fatalf("expected VenueError, got %v", err)
	}
	if venueErr.Code != "insufficient_balance" {
		t.Errorf("unexpected code %q", venueErr.Code)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("rejection must not be retried, got %d calls", calls)
	}
}

func TestSignedRequestsCarryAuthHeaders(t *testing.T) {
	key := generateTestKey(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerAccessKey) != "key-1" {
			t.Errorf("missing access key header")
		}
		if r.Header.Get(headerAccessTimestamp) == "" {
			t.Errorf("missing timestamp header")
		}
		if r.Header.Get(headerAccessSignature) == "" {
			t.Errorf("missing signature header")
		}
		w.Write([]byte(`{"order":{"order_id":"o1","status":"resting","count":5,"remaining_count":5}}`))
	}))
	defer server.Close()

	logger, _ := zap.NewDevelopment()
	client := NewClient(Config{
		BaseURL:   server.URL,
		Signer:    NewSigner("key-1", key),
		ReadDelay: time.Millisecond,
		Logger:    logger,
	})

	order, err := client.GetOrder(context.Background(), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderID != "o1" || order.Status != types.OrderStatusResting {
		t.Errorf("unexpected order: %+v", order)
	}
}

func TestCancelOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if r.URL.Path != "/trade-api/v2/portfolio/orders/o7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"order":{"order_id":"o7","status":"canceled","count":5,"remaining_count":5}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	order, err := client.CancelOrder(context.Background(), "o7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != types.OrderStatusCanceled {
		t.Errorf("unexpected status %q", order.Status)
	}
}

func TestReadThrottle_SpacesRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orderbook":{"yes":null,"no":null}}`))
	}))
	defer server.Close()

	logger, _ := zap.NewDevelopment()
	client := NewClient(Config{
		BaseURL:   server.URL,
		ReadDelay: 50 * time.Millisecond,
		Logger:    logger,
	})

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.GetOrderbook(context.Background(), "B1", 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("three reads finished in %v, throttle not applied", elapsed)
	}
}
