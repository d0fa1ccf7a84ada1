package queue

import "os"

// Config addresses a single Kafka (or Redpanda-compatible) topic.
type Config struct {
	BootstrapServers string
	Topic            string
	ClientID         string
}

func (c Config) FromEnv() Config {
	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		c.BootstrapServers = v
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Topic = v
	}
	if v := os.Getenv("KAFKA_CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	return c
}

// GroupID is the consumer group every worker process joins, derived the
// same way the original did: "<client-id>-group".
func (c Config) GroupID() string {
	return c.ClientID + "-group"
}

func (c Config) Validate() error {
	if c.BootstrapServers == "" {
		return errMissing("KAFKA_BOOTSTRAP_SERVERS")
	}
	if c.Topic == "" {
		return errMissing("KAFKA_TOPIC")
	}
	if c.ClientID == "" {
		return errMissing("KAFKA_CLIENT_ID")
	}
	return nil
}

type configError struct{ field string }

func (e *configError) Error() string { return "queue: missing required configuration: " + e.field }

func errMissing(field string) error { return &configError{field: field} }
