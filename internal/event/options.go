package event

import "github.com/rs/zerolog"

type busConfig struct {
	log zerolog.Logger
}

// Option configures a Bus at construction.
type Option func(*busConfig)

// WithLogger sets the logger the bus writes lifecycle events to. The default
// discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(cfg *busConfig) { cfg.log = log }
}

type subConfig struct {
	once         bool
	activeOnly   bool
	skipInFlight bool
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subConfig)

// WithOnce removes the subscription after its first successful delivery. A
// delivery whose handler returns an error does not consume it.
func WithOnce() SubscribeOption {
	return func(cfg *subConfig) { cfg.once = true }
}

// WithActiveOnly skips deliveries while the oracle reports the host alive
// but inactive. Skipped deliveries are lost, not queued.
func WithActiveOnly() SubscribeOption {
	return func(cfg *subConfig) { cfg.activeOnly = true }
}

// WithSkipInFlight keeps the subscription out of the emit pass that is in
// flight when it is created. It affects at most one delivery and only
// applies when subscribing from inside a handler for the same message type;
// otherwise it is a no-op.
func WithSkipInFlight() SubscribeOption {
	return func(cfg *subConfig) { cfg.skipInFlight = true }
}
