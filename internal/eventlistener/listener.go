// internal/eventlistener/listener.go
package eventlistener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pumpstream/internal/events"
)

const (
	initialBackoff   = 200 * time.Millisecond
	maxBackoff       = 30 * time.Second
	defaultDedupSize = 4096
	defaultDedupTTL  = 2 * time.Minute
)

// Metrics is the subset of the metrics collector the listener reports to.
type Metrics interface {
	ObserveDispatch(program string, st events.Stats)
	IncDropped(program, reason string)
	IncReconnect(program string)
	SetSubscribed(program string, up bool)
}

type nopMetrics struct{}

func (nopMetrics) ObserveDispatch(string, events.Stats) {}
func (nopMetrics) IncDropped(string, string)            {}
func (nopMetrics) IncReconnect(string)                  {}
func (nopMetrics) SetSubscribed(string, bool)           {}

// Config describes one program subscription.
type Config struct {
	Name    string
	Program solana.PublicKey
	Kinds   events.KindSet

	IncludeFailed bool
	DedupSize     int
	DedupTTL      time.Duration

	// ReconnectMaxElapsed bounds one reconnect attempt series; 0 retries forever.
	ReconnectMaxElapsed time.Duration
	InitialBackoff      time.Duration
	MaxBackoff          time.Duration
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = c.Program.Short(4)
	}
	if c.DedupSize <= 0 {
		c.DedupSize = defaultDedupSize
	}
	if c.DedupTTL <= 0 {
		c.DedupTTL = defaultDedupTTL
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = initialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = maxBackoff
	}
}

// Listener keeps a log subscription alive and feeds every transaction to a dispatcher.
// Run must be called from a single goroutine; the handler may be shared between listeners.
type Listener struct {
	cfg        Config
	source     LogSource
	handler    events.Handler
	dispatcher *events.Dispatcher
	seen       *expirable.LRU[solana.Signature, struct{}]
	metrics    Metrics
	totals     events.Stats
	logger     *zap.Logger
}

// Option configures a Listener.
type Option func(*Listener)

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(l *Listener) {
		if m != nil {
			l.metrics = m
		}
	}
}

// New creates a listener for cfg.Program.
func New(cfg Config, source LogSource, handler events.Handler, logger *zap.Logger, opts ...Option) *Listener {
	cfg.applyDefaults()
	l := &Listener{
		cfg:        cfg,
		source:     source,
		handler:    handler,
		dispatcher: events.NewDispatcher(),
		seen:       expirable.NewLRU[solana.Signature, struct{}](cfg.DedupSize, nil, cfg.DedupTTL),
		metrics:    nopMetrics{},
		logger:     logger.With(zap.String("program", cfg.Name)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run subscribes and dispatches until ctx is cancelled.
// It returns nil on cancellation and an error only when reconnecting gave up.
func (l *Listener) Run(ctx context.Context) error {
	first := true
	for {
		stream, err := l.subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("subscribe %s: %w", l.cfg.Name, err)
		}
		if !first {
			l.metrics.IncReconnect(l.cfg.Name)
		}
		first = false

		l.metrics.SetSubscribed(l.cfg.Name, true)
		received, err := l.consume(ctx, stream)
		stream.Close()
		l.metrics.SetSubscribed(l.cfg.Name, false)

		if ctx.Err() != nil {
			l.logger.Info("Listener stopped",
				zap.Int("lines", l.totals.Lines),
				zap.Int("decoded", l.totals.Decoded),
				zap.Int("skipped", l.totals.Skipped),
				zap.Int("delivered", l.totals.Delivered),
				zap.Duration("dispatch_time", l.totals.Elapsed))
			return nil
		}
		l.logger.Warn("Log stream interrupted, reconnecting",
			zap.Int("received", received),
			zap.Error(err))

		// Поток умер сразу: не долбим сервер без паузы.
		if received == 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(l.cfg.InitialBackoff):
			}
		}
	}
}

func (l *Listener) subscribe(ctx context.Context) (LogStream, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = l.cfg.InitialBackoff
	policy.MaxInterval = l.cfg.MaxBackoff

	notify := func(err error, d time.Duration) {
		l.logger.Warn("Subscribe failed, retrying", zap.Error(err), zap.Duration("backoff", d))
	}

	operation := func() (LogStream, error) {
		stream, err := l.source.Subscribe(ctx, l.cfg.Program)
		if err != nil && ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return stream, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxElapsedTime(l.cfg.ReconnectMaxElapsed),
		backoff.WithNotify(notify))
}

func (l *Listener) consume(ctx context.Context, stream LogStream) (int, error) {
	received := 0
	for {
		n, err := stream.Recv(ctx)
		if err != nil {
			return received, err
		}
		received++
		l.handle(n)
	}
}

func (l *Listener) handle(n Notification) {
	if n.Failed && !l.cfg.IncludeFailed {
		l.metrics.IncDropped(l.cfg.Name, "failed")
		return
	}

	if len(n.Signature) == solana.SignatureLength {
		sig := solana.SignatureFromBytes(n.Signature)
		if l.seen.Contains(sig) {
			l.metrics.IncDropped(l.cfg.Name, "duplicate")
			return
		}
		l.seen.Add(sig, struct{}{})
	}

	st, err := l.dispatcher.Process(n.Record, l.cfg.Kinds, l.handler)
	if err != nil {
		if errors.Is(err, events.ErrSignatureParse) {
			l.metrics.IncDropped(l.cfg.Name, "bad_signature")
		}
		l.logger.Warn("Transaction skipped",
			zap.Uint64("slot", n.Slot),
			zap.String("signature", base58.Encode(n.Signature)),
			zap.Error(err))
		return
	}
	l.totals.Add(st)
	l.metrics.ObserveDispatch(l.cfg.Name, st)
}

// Totals returns the dispatch counters accumulated since New.
// Call it only after Run has returned.
func (l *Listener) Totals() events.Stats {
	return l.totals
}
