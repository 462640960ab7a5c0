// Package export пишет сделки из потока событий в CSV.
package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pumpstream/internal/events"
)

const DefaultFlushInterval = time.Second

// Headers are the CSV columns, one row per trade.
var Headers = []string{
	"timestamp", "slot", "signature", "kind", "program_key", "mint", "user",
	"side", "quote_amount", "base_amount", "fee", "ix_name",
}

// Options filter which trades are written. Zero values match everything.
type Options struct {
	Mint       solana.PublicKey // только для bonding-curve trade, у AMM событий mint'а нет
	Side       string           // "buy" или "sell"
	FlushEvery time.Duration
}

// TradeExporter is an events.Handler that appends trade, buy and sell events to a CSV file.
type TradeExporter struct {
	events.NopHandler

	writer *SafeCSVWriter
	opts   Options
	logger *zap.Logger
}

// NewTradeExporter opens (or appends to) path.
func NewTradeExporter(path string, opts Options, logger *zap.Logger) (*TradeExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = DefaultFlushInterval
	}
	opts.Side = strings.ToLower(opts.Side)

	w, err := NewSafeCSVWriter(path, Headers, opts.FlushEvery, logger.Named("csv"))
	if err != nil {
		return nil, err
	}
	return &TradeExporter{writer: w, opts: opts, logger: logger.Named("export")}, nil
}

// Kinds returns the event kinds the exporter writes.
func (te *TradeExporter) Kinds() events.KindSet {
	return events.NewKindSet(events.KindTrade, events.KindBuy, events.KindSell)
}

func (te *TradeExporter) Close() error { return te.writer.Close() }

func (te *TradeExporter) Stats() (records, flushes uint64) { return te.writer.GetStats() }

func (te *TradeExporter) OnTrade(ev *events.TradeEvent, ctx events.EventContext) {
	side := "sell"
	if ev.IsBuy {
		side = "buy"
	}
	if !te.opts.Mint.IsZero() && !ev.Mint.Equals(te.opts.Mint) {
		return
	}
	te.write(row{
		ts:    ev.Timestamp,
		ctx:   ctx,
		kind:  events.KindTrade,
		key:   ev.Mint,
		mint:  ev.Mint,
		user:  ev.User,
		side:  side,
		quote: ev.SolAmount,
		base:  ev.TokenAmount,
		fee:   ev.Fee + ev.CreatorFee,
		ix:    ev.IxName,
	})
}

func (te *TradeExporter) OnBuy(ev *events.BuyEvent, ctx events.EventContext) {
	if !te.opts.Mint.IsZero() {
		return
	}
	te.write(row{
		ts:    ev.Timestamp,
		ctx:   ctx,
		kind:  events.KindBuy,
		key:   ev.Pool,
		user:  ev.User,
		side:  "buy",
		quote: ev.UserQuoteAmountIn,
		base:  ev.BaseAmountOut,
		fee:   ev.LpFee + ev.ProtocolFee + ev.CoinCreatorFee,
		ix:    ev.IxName,
	})
}

func (te *TradeExporter) OnSell(ev *events.SellEvent, ctx events.EventContext) {
	if !te.opts.Mint.IsZero() {
		return
	}
	te.write(row{
		ts:    ev.Timestamp,
		ctx:   ctx,
		kind:  events.KindSell,
		key:   ev.Pool,
		user:  ev.User,
		side:  "sell",
		quote: ev.UserQuoteAmountOut,
		base:  ev.BaseAmountIn,
		fee:   ev.LpFee + ev.ProtocolFee + ev.CoinCreatorFee,
	})
}

type row struct {
	ts          int64
	ctx         events.EventContext
	kind        events.Kind
	key         solana.PublicKey // mint для bonding curve, pool для AMM
	mint        solana.PublicKey
	user        solana.PublicKey
	side        string
	quote, base uint64
	fee         uint64
	ix          string
}

func (te *TradeExporter) write(r row) {
	if te.opts.Side != "" && te.opts.Side != r.side {
		return
	}

	mint := ""
	if !r.mint.IsZero() {
		mint = r.mint.String()
	}

	record := []string{
		time.Unix(r.ts, 0).UTC().Format(time.RFC3339),
		strconv.FormatUint(r.ctx.Slot, 10),
		r.ctx.Signature.String(),
		r.kind.String(),
		r.key.String(),
		mint,
		r.user.String(),
		r.side,
		strconv.FormatUint(r.quote, 10),
		strconv.FormatUint(r.base, 10),
		strconv.FormatUint(r.fee, 10),
		r.ix,
	}
	if err := te.writer.WriteRecord(record); err != nil {
		te.logger.Warn("Failed to export trade",
			zap.String("signature", r.ctx.Signature.String()),
			zap.Error(err))
	}
}
