// Package natssync keeps a collex.CollectionController in sync with a NATS
// subject: whenever a message arrives (e.g. announcing that the backing
// store changed), the controller's Refresh is re-run so filter/sort/group
// results reflect the new item set.
package natssync

import (
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/wayneeseguin/collex"
)

// Config describes how to reach NATS and which subject to watch.
type Config struct {
	URL                string
	Subject            string
	Timeout            time.Duration
	Retries            int
	RetryInterval      time.Duration
	TLS                bool
	InsecureSkipVerify bool
}

func buildOptions(cfg Config, onError func(error)) []nats.Option {
	opts := []nats.Option{
		nats.Timeout(cfg.Timeout),
		nats.MaxReconnects(cfg.Retries),
		nats.ReconnectWait(cfg.RetryInterval),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil && onError != nil {
				onError(err)
			}
		}),
	}
	if cfg.TLS {
		opts = append(opts, nats.Secure(&tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}))
	}
	return opts
}

func connectWithRetry(cfg Config, onError func(error)) (*nats.Conn, error) {
	opts := buildOptions(cfg, onError)
	var conn *nats.Conn
	var err error
	interval := cfg.RetryInterval
	for attempt := 0; attempt <= cfg.Retries; attempt++ {
		if attempt > 0 {
			time.Sleep(interval)
		}
		conn, err = nats.Connect(cfg.URL, opts...)
		if err == nil {
			return conn, nil
		}
	}
	return nil, fmt.Errorf("natssync: failed to connect to NATS after %d attempts: %s", cfg.Retries+1, err)
}

// Syncer subscribes to a NATS subject and refreshes a controller each time a
// message is received, until Close is called.
type Syncer[T any, K comparable] struct {
	mu     sync.Mutex
	conn   *nats.Conn
	sub    *nats.Subscription
	onErr  func(error)
	closed bool
}

// Start connects to NATS per cfg and subscribes to cfg.Subject, calling
// controller.Refresh on every message. onErr, if non-nil, receives both
// connection and refresh errors; it must not block.
func Start[T any, K comparable](cfg Config, controller *collex.CollectionController[T, K], onErr func(error)) (*Syncer[T, K], error) {
	conn, err := connectWithRetry(cfg, onErr)
	if err != nil {
		return nil, err
	}

	s := &Syncer[T, K]{conn: conn, onErr: onErr}

	sub, err := conn.Subscribe(cfg.Subject, func(msg *nats.Msg) {
		if err := controller.Refresh(); err != nil && onErr != nil {
			onErr(err)
		}
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("natssync: subscribing to %q: %s", cfg.Subject, err)
	}
	s.sub = sub
	return s, nil
}

// Close unsubscribes and closes the underlying NATS connection. Safe to call
// more than once.
func (s *Syncer[T, K]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}
	if s.conn != nil {
		s.conn.Close()
	}
}
