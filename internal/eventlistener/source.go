// internal/eventlistener/source.go
package eventlistener

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pumpstream/internal/events"
)

// ErrStreamClosed is returned by LogStream.Recv when the server side ended the subscription.
var ErrStreamClosed = errors.New("log stream closed")

// Notification is one transaction pushed by the log subscription.
type Notification struct {
	events.Record
	// Failed is set when the transaction itself errored on chain.
	Failed bool
}

// LogStream yields notifications of a single subscription.
type LogStream interface {
	Recv(ctx context.Context) (Notification, error)
	Close()
}

// LogSource opens log subscriptions for a program.
type LogSource interface {
	Subscribe(ctx context.Context, program solana.PublicKey) (LogStream, error)
}

// WSSource subscribes through the RPC websocket API (logsSubscribe with a mentions filter).
type WSSource struct {
	url            string
	commitment     rpc.CommitmentType
	connectTimeout time.Duration
	logger         *zap.Logger
}

// NewWSSource creates a websocket log source.
func NewWSSource(url string, commitment rpc.CommitmentType, connectTimeout time.Duration, logger *zap.Logger) *WSSource {
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	return &WSSource{
		url:            url,
		commitment:     commitment,
		connectTimeout: connectTimeout,
		logger:         logger,
	}
}

// Subscribe opens a dedicated connection for program.
func (s *WSSource) Subscribe(ctx context.Context, program solana.PublicKey) (LogStream, error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()

	client, err := ws.Connect(dialCtx, s.url)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", s.url, err)
	}

	sub, err := client.LogsSubscribeMentions(program, s.commitment)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("logsSubscribe %s: %w", program, err)
	}

	s.logger.Debug("Subscribed",
		zap.String("program", program.String()),
		zap.String("commitment", string(s.commitment)))

	return &wsStream{client: client, sub: sub}, nil
}

type wsStream struct {
	client *ws.Client
	sub    *ws.LogSubscription
	once   sync.Once
}

func (w *wsStream) Recv(ctx context.Context) (Notification, error) {
	res, err := w.sub.Recv(ctx)
	if err != nil {
		if errors.Is(err, ws.ErrSubscriptionClosed) {
			return Notification{}, ErrStreamClosed
		}
		return Notification{}, err
	}
	if res == nil {
		return Notification{}, ErrStreamClosed
	}

	// txIndex в logsSubscribe не приходит.
	return Notification{
		Record: events.Record{
			Slot:      res.Context.Slot,
			Signature: res.Value.Signature[:],
			Logs:      res.Value.Logs,
		},
		Failed: res.Value.Err != nil,
	}, nil
}

func (w *wsStream) Close() {
	w.once.Do(func() {
		w.sub.Unsubscribe()
		w.client.Close()
	})
}
