// internal/publish/mqtt.go
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/bot-status/internal/status"
)

// Config is minimal broker config.
type Config struct {
	Broker   string
	Topic    string
	ClientID string
	Username string
	Password string
	Timeout  time.Duration
}

// token is the subset of mqtt.Token the publisher waits on.
type token interface {
	WaitTimeout(time.Duration) bool
	Error() error
}

// client is the subset of mqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) token
	Disconnect(quiesce uint)
}

// pahoClient adapts mqtt.Client, whose Publish returns mqtt.Token.
type pahoClient struct {
	c mqtt.Client
}

func (p pahoClient) Publish(topic string, qos byte, retained bool, payload interface{}) token {
	return p.c.Publish(topic, qos, retained, payload)
}

func (p pahoClient) Disconnect(quiesce uint) { p.c.Disconnect(quiesce) }

// Publisher sends the status report as a retained JSON message,
// so a late subscriber immediately sees the last known state.
type Publisher struct {
	cli     client
	topic   string
	timeout time.Duration
}

// NewMQTT connects to the broker.
func NewMQTT(cfg Config) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("publish: broker required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("publish: topic required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(cfg.Timeout)

	c := mqtt.NewClient(opts)
	if tok := c.Connect(); tok.WaitTimeout(cfg.Timeout) && tok.Error() != nil {
		return nil, fmt.Errorf("publish: connect %s: %w", cfg.Broker, tok.Error())
	}

	return &Publisher{
		cli:     pahoClient{c: c},
		topic:   cfg.Topic,
		timeout: cfg.Timeout,
	}, nil
}

// Publish implements syncer.Sink.
func (p *Publisher) Publish(snap status.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("publish: encode: %w", err)
	}

	tok := p.cli.Publish(p.topic, 1, true, payload)
	if !tok.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish: %s: timed out after %s", p.topic, p.timeout)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("publish: %s: %w", p.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() error {
	p.cli.Disconnect(250)
	return nil
}
