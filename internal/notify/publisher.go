package notify

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/recipebook/internal/config"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
)

const flushTimeout = 5 * time.Second

// Publisher sends revalidation events.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the configured NATS server.
func NewPublisher(cfg config.NotifyConfig, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := connect(cfg.NATSURL, logger)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends ev and waits until the server acknowledged the flush.
func (p *Publisher) Publish(ev Event) error {
	if _, err := ev.Route(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal event").Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return derrors.WrapError(err, derrors.CategoryNotify, "failed to publish event").
			WithContext("subject", p.subject).
			Build()
	}
	if err := p.conn.FlushTimeout(flushTimeout); err != nil {
		return derrors.WrapError(err, derrors.CategoryNotify, "failed to flush event").
			WithContext("subject", p.subject).
			Build()
	}
	return nil
}

// Close closes the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
