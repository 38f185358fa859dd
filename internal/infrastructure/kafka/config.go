package kafka

import (
	"crypto/tls"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/config"
)

// clientID identifies this service to the brokers.
const clientID = "credit-risk-pipeline"

// Config holds Kafka connection parameters.
type Config struct {
	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// TLS enables TLS for Kafka connections.
	TLS         bool
	SASLEnabled bool
}

// FromSettings maps the service configuration to connection parameters.
func FromSettings(s config.KafkaConfig) Config {
	return Config{
		Brokers:       s.Brokers,
		TLS:           s.TLS,
		SASLEnabled:   s.SASLEnabled,
		SASLMechanism: s.SASLMechanism,
		SASLUsername:  s.SASLUsername,
		SASLPassword:  s.SASLPassword,
	}
}

func (c Config) secured() bool {
	return c.TLS || c.SASLEnabled
}

func (c Config) tlsConfig() *tls.Config {
	if !c.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

func (c Config) saslMechanism() (sasl.Mechanism, error) {
	if !c.SASLEnabled {
		return nil, nil
	}
	switch c.SASLMechanism {
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, c.SASLUsername, c.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, c.SASLUsername, c.SASLPassword)
	case "PLAIN", "":
		return plain.Mechanism{
			Username: c.SASLUsername,
			Password: c.SASLPassword,
		}, nil
	default:
		return nil, fmt.Errorf("kafka: unsupported SASL mechanism %q", c.SASLMechanism)
	}
}

// transport builds the writer transport, or nil when the defaults suffice.
func (c Config) transport() (*kafkago.Transport, error) {
	if !c.secured() {
		return nil, nil
	}
	mechanism, err := c.saslMechanism()
	if err != nil {
		return nil, err
	}
	return &kafkago.Transport{
		ClientID: clientID,
		TLS:      c.tlsConfig(),
		SASL:     mechanism,
	}, nil
}

// dialer builds the reader dialer, or nil when the defaults suffice.
func (c Config) dialer() (*kafkago.Dialer, error) {
	if !c.secured() {
		return nil, nil
	}
	mechanism, err := c.saslMechanism()
	if err != nil {
		return nil, err
	}
	return &kafkago.Dialer{
		ClientID:      clientID,
		Timeout:       10 * time.Second,
		DualStack:     true,
		TLS:           c.tlsConfig(),
		SASLMechanism: mechanism,
	}, nil
}
