package kalshi

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsPath         = "/trade-api/ws/v2"
	wsDialTimeout  = 10 * time.Second
	wsPingInterval = 10 * time.Second
	wsPongTimeout  = 15 * time.Second
)

// FeedConfig holds websocket feed configuration.
type FeedConfig struct {
	URL               string // ws scheme base, without path
	Signer            *Signer
	Tickers           []string
	Logger            *zap.Logger
	ReconnectInitial  time.Duration
	ReconnectMax      time.Duration
	BackoffMultiplier float64
	UpdateBufferSize  int
}

// Feed is a market-data subscription over the venue websocket. It delivers
// the tickers of brackets whose books changed, letting the scanner rescan
// ahead of its fixed interval. Losing the feed degrades latency, not
// correctness: the interval scan still covers everything.
type Feed struct {
	url     string
	signer  *Signer
	tickers []string
	logger  *zap.Logger

	reconnectInitial time.Duration
	reconnectMax     time.Duration
	backoffMult      float64

	updates chan string

	mu   sync.Mutex
	conn *websocket.Conn
	wg   sync.WaitGroup
}

// NewFeed creates a feed for the given market tickers.
func NewFeed(cfg FeedConfig) *Feed {
	initial := cfg.ReconnectInitial
	if initial == 0 {
		initial = time.Second
	}
	maxDelay := cfg.ReconnectMax
	if maxDelay == 0 {
		maxDelay = 30 * time.Second
	}
	mult := cfg.BackoffMultiplier
	if mult == 0 {
		mult = 2.0
	}
	bufSize := cfg.UpdateBufferSize
	if bufSize == 0 {
		bufSize = 256
	}

	return &Feed{
		url:              cfg.URL,
		signer:           cfg.Signer,
		tickers:          cfg.Tickers,
		logger:           cfg.Logger,
		reconnectInitial: initial,
		reconnectMax:     maxDelay,
		backoffMult:      mult,
		updates:          make(chan string, bufSize),
	}
}

// Updates returns the channel of changed market tickers.
func (f *Feed) Updates() <-chan string {
	return f.updates
}

// Start connects and runs the read loop until the context is canceled,
// reconnecting with jittered exponential backoff on failure.
func (f *Feed) Start(ctx context.Context) error {
	if err := f.connect(ctx); err != nil {
		return fmt.Errorf("initial feed connect: %w", err)
	}

	f.wg.Add(1)
	go f.run(ctx)
	return nil
}

// Close tears down the connection and waits for the read loop to exit.
func (f *Feed) Close() error {
	f.mu.Lock()
	if f.conn != nil {
		f.conn.Close()
	}
	f.mu.Unlock()
	f.wg.Wait()
	return nil
}

func (f *Feed) run(ctx context.Context) {
	defer f.wg.Done()
	defer close(f.updates)

	for {
		err := f.readLoop(ctx)
		if ctx.Err() != nil {
			f.logger.Info("feed-stopping")
			return
		}
		f.logger.Warn("feed-connection-lost", zap.Error(err))

		if err := f.reconnect(ctx); err != nil {
			f.logger.Error("feed-reconnect-abandoned", zap.Error(err))
			return
		}
	}
}

func (f *Feed) connect(ctx context.Context) error {
	header := http.Header{}
	if f.signer != nil {
		signed, err := f.signer.Headers(http.MethodGet, wsPath, time.Now())
		if err != nil {
			return err
		}
		for k, v := range signed {
			header.Set(k, v)
		}
	}

	dialer := websocket.Dialer{HandshakeTimeout: wsDialTimeout}
	conn, _, err := dialer.DialContext(ctx, f.url+wsPath, header)
	if err != nil {
		return fmt.Errorf("dial feed: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})

	sub := map[string]any{
		"id":  1,
		"cmd": "subscribe",
		"params": map[string]any{
			"channels":       []string{"ticker_v2"},
			"market_tickers": f.tickers,
		},
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return fmt.Errorf("subscribe: %w", err)
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	f.logger.Info("feed-connected", zap.Int("tickers", len(f.tickers)))
	return nil
}

func (f *Feed) readLoop(ctx context.Context) error {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()

	pingTicker := time.NewTicker(wsPingInterval)
	defer pingTicker.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-ctx.Done():
				conn.Close()
				return
			case <-done:
				return
			case <-pingTicker.C:
				deadline := time.Now().Add(wsPingInterval)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg struct {
			Type string `json:"type"`
			Msg  struct {
				MarketTicker string `json:"market_ticker"`
			} `json:"msg"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			f.logger.Debug("feed-message-undecodable", zap.Error(err))
			continue
		}
		if msg.Msg.MarketTicker == "" {
			continue
		}

		FeedMessagesTotal.WithLabelValues(msg.Type).Inc()

		select {
		case f.updates <- msg.Msg.MarketTicker:
		default:
			// Backpressure: the scanner will catch the change on its next
			// interval pass anyway.
			FeedDroppedUpdatesTotal.Inc()
		}
	}
}

// reconnect retries connect with jittered exponential backoff until it
// succeeds or the context ends.
func (f *Feed) reconnect(ctx context.Context) error {
	backoff := f.reconnectInitial
	for {
		jitter := 1.0 + rand.Float64()*0.2
		wait := time.Duration(float64(backoff) * jitter)

		f.logger.Info("feed-reconnecting", zap.Duration("backoff", wait))
		FeedReconnectsTotal.Inc()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		if err := f.connect(ctx); err != nil {
			f.logger.Warn("feed-reconnect-failed", zap.Error(err))
			backoff = time.Duration(float64(backoff) * f.backoffMult)
			if backoff > f.reconnectMax {
				backoff = f.reconnectMax
			}
			continue
		}
		return nil
	}
}
