package natsbus

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Client is a thin NATS connection wrapper for publishing and tailing events.
type Client struct {
	conn *nats.Conn
}

// Connect dials url. Reconnects are unlimited so a broker restart does not
// silently stop fan-out.
func Connect(url, name string) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Publish sends data on subject. Delivery is at-most-once.
func (c *Client) Publish(subject string, data []byte) error {
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Subscribe calls handler for every message on subject until the client closes.
func (c *Client) Subscribe(subject string, handler func(data []byte)) error {
	_, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Drain()
}
