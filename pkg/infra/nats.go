package infra

import (
	"time"

	"github.com/fystack/megasena-analyzer/pkg/common/config"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/nats-io/nats.go"
)

func GetNATSConnection(cfg config.NATSConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("megasena-analyzer"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("Disconnected from NATS", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.ErrorHandler(NatsErrHandler),
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	return nats.Connect(url, opts...)
}

func NatsErrHandler(_ *nats.Conn, sub *nats.Subscription, natsErr error) {
	logger.Error("NATS error", "err", natsErr)
	if natsErr == nats.ErrSlowConsumer && sub != nil {
		pending, _, err := sub.Pending()
		if err != nil {
			logger.Error("Error getting pending messages", "err", err)
			return
		}
		logger.Error("Falling behind with pending messages on subject", "pending", pending, "subject", sub.Subject)
	}
}
