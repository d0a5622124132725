// Package messaging bridges out-of-process events into the gateway over
// NATS. The payment service publishes match unlock approvals here; the
// gateway turns them into room broadcasts.
package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectMatchUnlocked carries admin-approved payment unlocks.
const SubjectMatchUnlocked = "match.unlocked"

// MatchUnlocked is the payload published by the payment service.
type MatchUnlocked struct {
	MatchID string `json:"match_id"`
}

// Client wraps the NATS connection for the gateway's subscriptions.
type Client struct {
	conn *nats.Conn
}

// Config holds NATS connection settings.
type Config struct {
	URL           string
	Name          string
	ReconnectWait time.Duration
	MaxReconnects int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:           url,
		Name:          "pairlink-chat",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1,
	}
}

// NewClient connects to NATS and returns a ready client. It returns an
// error if the initial connection fails.
func NewClient(config Config) (*Client, error) {
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[nats] disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[nats] reconnected to %s", nc.ConnectedUrl())
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	log.Printf("[nats] connected to %s", nc.ConnectedUrl())
	return &Client{conn: nc}, nil
}

// SubscribeMatchUnlocked registers a handler for unlock approvals.
// Malformed payloads are logged and skipped.
func (c *Client) SubscribeMatchUnlocked(handler func(matchID string)) error {
	_, err := c.conn.Subscribe(SubjectMatchUnlocked, func(msg *nats.Msg) {
		var evt MatchUnlocked
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			log.Printf("[nats] bad %s payload: %v", SubjectMatchUnlocked, err)
			return
		}
		handler(evt.MatchID)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", SubjectMatchUnlocked, err)
	}
	return nil
}

// Close drains and closes the connection.
func (c *Client) Close() {
	if err := c.conn.Drain(); err != nil {
		log.Printf("[nats] connection drain: %v", err)
	}
}
