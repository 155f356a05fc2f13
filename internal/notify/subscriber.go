package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/recipebook/internal/config"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/logfields"
)

const handleTimeout = 10 * time.Second

// Invalidator marks routes stale; implemented by generation.Scheduler.
type Invalidator interface {
	Invalidate(ctx context.Context, path string) (bool, error)
}

// Subscriber invalidates routes named by messages on a NATS subject.
type Subscriber struct {
	conn   *nats.Conn
	sub    *nats.Subscription
	target Invalidator
	logger *slog.Logger
}

// NewSubscriber returns a subscriber without a connection; Start connects it.
func NewSubscriber(target Invalidator, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{target: target, logger: logger}
}

// Start connects to NATS and subscribes to cfg.Subject, joining cfg.Queue when set
// so that only one instance of a group handles each message.
func (s *Subscriber) Start(cfg config.NotifyConfig) error {
	conn, err := connect(cfg.NATSURL, s.logger)
	if err != nil {
		return err
	}

	var sub *nats.Subscription
	if cfg.Queue != "" {
		sub, err = conn.QueueSubscribe(cfg.Subject, cfg.Queue, s.onMessage)
	} else {
		sub, err = conn.Subscribe(cfg.Subject, s.onMessage)
	}
	if err != nil {
		conn.Close()
		return derrors.WrapError(err, derrors.CategoryNotify, "failed to subscribe").
			WithContext("subject", cfg.Subject).
			Build()
	}

	s.conn = conn
	s.sub = sub
	s.logger.Info("Listening for revalidation events",
		slog.String("url", cfg.NATSURL),
		logfields.Subject(cfg.Subject),
		slog.String("queue", cfg.Queue))
	return nil
}

func (s *Subscriber) onMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()
	if err := s.Handle(ctx, msg.Data); err != nil {
		s.logger.Warn("Revalidation event rejected", logfields.Subject(msg.Subject), logfields.Error(err))
	}
}

// Handle applies one message payload.
func (s *Subscriber) Handle(ctx context.Context, data []byte) error {
	ev, err := DecodeEvent(data)
	if err != nil {
		return err
	}
	path, err := ev.Route()
	if err != nil {
		return err
	}
	cached, err := s.target.Invalidate(ctx, path)
	if err != nil {
		return err
	}
	s.logger.Debug("Revalidation event applied", logfields.Route(path), slog.Bool("cached", cached))
	return nil
}

// Close drains the subscription and closes the connection.
func (s *Subscriber) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Drain()
	s.conn = nil
	s.sub = nil
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryNotify, "failed to drain NATS connection").Build()
	}
	return nil
}

func connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("recipebook"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", logfields.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNotify, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}
	return conn, nil
}
