package socialfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"MarketSentinel/internal/domain/models"
	drepo "MarketSentinel/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a SignalSource backed by a social/news WebSocket feed.
type Client struct {
	apiKey         string
	websocketURL   string
	channels       []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a websocket-backed SignalSource.
func New(apiKey, websocketURL string, channels []string, reconnectDelay, pingInterval time.Duration) drepo.SignalSource {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		channels:       channels,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("socialfeed: connected")
	return nil
}

// Subscribe subscribes to the configured channels.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("feed not connected")
	}
	for _, ch := range c.channels {
		msg := map[string]string{"type": "subscribe", "channel": ch}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", ch, err)
		}
		log.Printf("socialfeed: subscribed %s", ch)
	}
	return nil
}

type feedItem struct {
	Channel    string   `json:"channel"`
	Source     string   `json:"source"`
	Text       string   `json:"text"`
	Timestamp  string   `json:"timestamp"`
	Verified   bool     `json:"verified"`
	Engagement int64    `json:"engagement"`
	Actual     *float64 `json:"actual"`
	Consensus  *float64 `json:"consensus"`
	Previous   *float64 `json:"previous"`
	Indicator  string   `json:"indicator"`
	Sentiment  *float64 `json:"sentiment"`
}

type feedMessage struct {
	Type string     `json:"type"`
	Data []feedItem `json:"data"`
}

// Read streams RawSignals and errors until the context ends or the
// connection drops.
func (c *Client) Read(ctx context.Context) (<-chan *models.RawSignal, <-chan error) {
	signals := make(chan *models.RawSignal, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(signals)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("feed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("feed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-signal frames
					continue
				}
				if m.Type != "signal" {
					continue
				}
				for _, d := range m.Data {
					s := &models.RawSignal{
						Channel:       models.Channel(d.Channel),
						Source:        d.Source,
						Text:          d.Text,
						Timestamp:     d.Timestamp,
						Verified:      d.Verified,
						Engagement:    d.Engagement,
						Actual:        d.Actual,
						Consensus:     d.Consensus,
						Previous:      d.Previous,
						Indicator:     d.Indicator,
						SentimentBase: d.Sentiment,
					}
					select {
					case signals <- s:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return signals, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
