// internal/events/logging.go
package events

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	solDecimals   = 9
	tokenDecimals = 6
)

// LamportsToSOL renders a lamport amount as SOL.
func LamportsToSOL(v uint64) decimal.Decimal {
	return decimal.NewFromUint64(v).Shift(-solDecimals)
}

// TokenUnits renders a raw pump token amount with its fixed 6 decimals.
func TokenUnits(v uint64) decimal.Decimal {
	return decimal.NewFromUint64(v).Shift(-tokenDecimals)
}

// LoggingHandler logs every event it receives.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a handler that writes events to logger at info level.
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger.Named("events")}
}

func ctxFields(ctx EventContext) []zap.Field {
	return []zap.Field{
		zap.Uint64("slot", ctx.Slot),
		zap.Uint64("tx_index", ctx.TxIndex),
		zap.String("signature", ctx.Signature.String()),
		zap.Duration("elapsed", ctx.Elapsed),
	}
}

func (l *LoggingHandler) OnCreate(ev *CreateEvent, ctx EventContext) {
	l.logger.Info("Token created", append(ctxFields(ctx),
		zap.String("name", ev.Name),
		zap.String("symbol", ev.Symbol),
		zap.String("uri", ev.Uri),
		zap.String("mint", ev.Mint.String()),
		zap.String("creator", ev.Creator.String()),
		zap.Bool("mayhem", ev.IsMayhemMode))...)
}

func (l *LoggingHandler) OnCreateV2(ev *CreateV2Event, ctx EventContext) {
	l.logger.Info("Token created (v2)", append(ctxFields(ctx),
		zap.String("name", ev.Name),
		zap.String("symbol", ev.Symbol),
		zap.String("mint", ev.Mint.String()),
		zap.String("token_program", ev.TokenProgram.String()),
		zap.Bool("mayhem", ev.IsMayhemMode))...)
}

func (l *LoggingHandler) OnComplete(ev *CompleteEvent, ctx EventContext) {
	l.logger.Info("Bonding curve complete", append(ctxFields(ctx),
		zap.String("mint", ev.Mint.String()),
		zap.String("bonding_curve", ev.BondingCurve.String()),
		zap.String("user", ev.User.String()))...)
}

func (l *LoggingHandler) OnTrade(ev *TradeEvent, ctx EventContext) {
	side := "sell"
	if ev.IsBuy {
		side = "buy"
	}
	l.logger.Info("Bonding curve trade", append(ctxFields(ctx),
		zap.String("side", side),
		zap.String("mint", ev.Mint.String()),
		zap.String("user", ev.User.String()),
		zap.String("sol", LamportsToSOL(ev.SolAmount).String()),
		zap.String("tokens", TokenUnits(ev.TokenAmount).String()),
		zap.String("fee_sol", LamportsToSOL(ev.Fee).String()),
		zap.String("ix", ev.IxName))...)
}

func (l *LoggingHandler) OnBuy(ev *BuyEvent, ctx EventContext) {
	l.logger.Info("AMM buy", append(ctxFields(ctx),
		zap.String("pool", ev.Pool.String()),
		zap.String("user", ev.User.String()),
		zap.Uint64("base_amount_out", ev.BaseAmountOut),
		zap.Uint64("quote_amount_in", ev.QuoteAmountIn),
		zap.Uint64("protocol_fee", ev.ProtocolFee))...)
}

func (l *LoggingHandler) OnSell(ev *SellEvent, ctx EventContext) {
	l.logger.Info("AMM sell", append(ctxFields(ctx),
		zap.String("pool", ev.Pool.String()),
		zap.String("user", ev.User.String()),
		zap.Uint64("base_amount_in", ev.BaseAmountIn),
		zap.Uint64("quote_amount_out", ev.QuoteAmountOut),
		zap.Uint64("protocol_fee", ev.ProtocolFee))...)
}

func (l *LoggingHandler) OnCreatePool(ev *CreatePoolEvent, ctx EventContext) {
	l.logger.Info("Pool created", append(ctxFields(ctx),
		zap.String("pool", ev.Pool.String()),
		zap.Uint16("index", ev.Index),
		zap.String("base_mint", ev.BaseMint.String()),
		zap.String("quote_mint", ev.QuoteMint.String()),
		zap.String("coin_creator", ev.CoinCreator.String()))...)
}
