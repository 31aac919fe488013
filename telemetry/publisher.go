// Package telemetry forwards decoded link conditions to an MQTT broker.
//
// It is an optional sink behind the decoder: each decoded condition is
// published on a topic derived from the broker URL's path prefix, one
// message per condition change.
package telemetry

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/arloliu/go-uartlink/logger"
)

// DefaultConnectTimeout bounds the initial broker connection.
const DefaultConnectTimeout = 3 * time.Second

// DefaultPublishTimeout bounds each publish token wait.
const DefaultPublishTimeout = 3 * time.Second

var (
	// ErrInvalidBrokerURL indicates a broker URL that is not of the form
	// mqtt://host:port/prefix.
	ErrInvalidBrokerURL = errors.New("telemetry: invalid broker URL")

	// ErrPublishTimeout indicates that the broker did not acknowledge a
	// publish in time.
	ErrPublishTimeout = errors.New("telemetry: publish timed out")
)

// Event is one decoded condition change to publish.
type Event struct {
	// Condition is the decoded condition name from the code table.
	Condition string
	// Code is the raw byte that carried the condition on the wire.
	Code byte
}

// ParseBrokerURL splits an mqtt://host:port/prefix URL into the broker
// server address (tcp://host:port) and the topic prefix.
func ParseBrokerURL(raw string) (server string, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q: %w", ErrInvalidBrokerURL, raw, err)
	}
	if u.Scheme != "mqtt" && u.Scheme != "tcp" {
		return "", "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBrokerURL, u.Scheme)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("%w: missing host in %q", ErrInvalidBrokerURL, raw)
	}

	prefix = strings.Trim(u.Path, "/")

	return "tcp://" + u.Host, prefix, nil
}

// Publisher publishes link events to an MQTT broker.
type Publisher struct {
	client paho.Client
	prefix string
	qos    byte
	logger logger.Logger

	connectTimeout time.Duration
	publishTimeout time.Duration
}

// NewPublisher creates a Publisher for the given broker URL
// (mqtt://host:port/prefix) and connects to the broker.
func NewPublisher(brokerURL string, opts ...Option) (*Publisher, error) {
	server, prefix, err := ParseBrokerURL(brokerURL)
	if err != nil {
		return nil, err
	}

	p := &Publisher{
		prefix:         prefix,
		qos:            1,
		logger:         logger.GetLogger(),
		connectTimeout: DefaultConnectTimeout,
		publishTimeout: DefaultPublishTimeout,
	}

	for _, opt := range opts {
		if err := opt.apply(p); err != nil {
			return nil, err
		}
	}

	clientOpts := paho.NewClientOptions().
		AddBroker(server).
		SetClientID(fmt.Sprintf("uartlink-%d", time.Now().UnixNano())).
		SetAutoReconnect(true)

	p.client = paho.NewClient(clientOpts)

	token := p.client.Connect()
	if !token.WaitTimeout(p.connectTimeout) {
		return nil, fmt.Errorf("telemetry: connect to %s timed out", server)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("telemetry: connect to %s: %w", server, err)
	}

	p.logger.Info("telemetry publisher connected", "broker", server, "prefix", prefix)

	return p, nil
}

// Publish publishes one event on <prefix>/<condition> with the raw code byte
// as payload.
func (p *Publisher) Publish(ev Event) error {
	topic := ev.Condition
	if p.prefix != "" {
		topic = p.prefix + "/" + ev.Condition
	}

	token := p.client.Publish(topic, p.qos, false, []byte{ev.Code})
	if !token.WaitTimeout(p.publishTimeout) {
		return fmt.Errorf("%w: topic %s", ErrPublishTimeout, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("telemetry: publish to %s: %w", topic, err)
	}

	p.logger.Debug("event published", "topic", topic, "code", ev.Code)

	return nil
}

// Close disconnects from the broker, allowing in-flight work a short grace
// period.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

// Option is a functional option for configuring a Publisher.
type Option interface {
	apply(*Publisher) error
}

type optFunc func(*Publisher) error

func (f optFunc) apply(p *Publisher) error { return f(p) }

// WithLogger sets the logger for the publisher.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(p *Publisher) error {
		if l == nil {
			return errors.New("telemetry: logger must not be nil")
		}
		p.logger = l

		return nil
	})
}

// WithQoS sets the MQTT quality-of-service level (0, 1, or 2). Default 1.
func WithQoS(qos byte) Option {
	return optFunc(func(p *Publisher) error {
		if qos > 2 {
			return fmt.Errorf("telemetry: QoS %d out of range [0, 2]", qos)
		}
		p.qos = qos

		return nil
	})
}

// WithConnectTimeout sets the broker connection timeout.
func WithConnectTimeout(d time.Duration) Option {
	return optFunc(func(p *Publisher) error {
		if d <= 0 {
			return errors.New("telemetry: connect timeout must be positive")
		}
		p.connectTimeout = d

		return nil
	})
}

// WithPublishTimeout sets the per-publish acknowledgement timeout.
func WithPublishTimeout(d time.Duration) Option {
	return optFunc(func(p *Publisher) error {
		if d <= 0 {
			return errors.New("telemetry: publish timeout must be positive")
		}
		p.publishTimeout = d

		return nil
	})
}
