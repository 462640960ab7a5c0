// =============================
// File: internal/dex/dex.go
// =============================
package dex

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pumpstream/internal/dex/pumpfun"
	"github.com/rovshanmuradov/pumpstream/internal/dex/pumpswap"
	"github.com/rovshanmuradov/pumpstream/internal/types"
)

// TradeBuilder: единая точка построения инструкций для обеих программ.
// Состояния нет, методы можно вызывать конкурентно.
type TradeBuilder struct {
	logger *zap.Logger
}

// NewTradeBuilder creates a builder that logs every produced instruction at debug level.
func NewTradeBuilder(logger *zap.Logger) *TradeBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TradeBuilder{logger: logger.Named("trade_builder")}
}

// BondingCurveBuy builds a 16-account bonding-curve buy.
func (b *TradeBuilder) BondingCurveBuy(
	user, mint solana.PublicKey,
	amount, maxSolCost uint64,
	trackVolume types.OptionBool,
	mayhem bool,
) (*solana.GenericInstruction, error) {
	start := time.Now()
	ix, err := pumpfun.BuildBuyInstruction(user, mint, amount, maxSolCost, trackVolume, mayhem)
	return b.done(OperationBondingCurveBuy, start, ix, err)
}

// BondingCurveSell builds a 14-account bonding-curve sell.
func (b *TradeBuilder) BondingCurveSell(
	user, mint solana.PublicKey,
	amount, minSolOutput uint64,
	mayhem bool,
) (*solana.GenericInstruction, error) {
	start := time.Now()
	ix, err := pumpfun.BuildSellInstruction(user, mint, amount, minSolOutput, mayhem)
	return b.done(OperationBondingCurveSell, start, ix, err)
}

// AmmBuy builds an AMM buy; a non-core quote mint turns it into a sell on the wire.
func (b *TradeBuilder) AmmBuy(
	user, pool, baseMint, quoteMint, coinCreator, protocolFeeRecipient solana.PublicKey,
	baseAmountOut, maxQuoteAmountIn uint64,
	trackVolume types.OptionBool,
	mayhem bool,
) (*solana.GenericInstruction, error) {
	start := time.Now()
	ix, err := pumpswap.BuildBuyInstruction(pumpswap.BuyParams{
		User: user,
		Pool: pumpswap.PoolKeys{
			Pool:                 pool,
			BaseMint:             baseMint,
			QuoteMint:            quoteMint,
			CoinCreator:          coinCreator,
			ProtocolFeeRecipient: protocolFeeRecipient,
		},
		BaseAmountOut:    baseAmountOut,
		MaxQuoteAmountIn: maxQuoteAmountIn,
		TrackVolume:      trackVolume,
		Mayhem:           mayhem,
	})
	return b.done(OperationAmmBuy, start, ix, err)
}

// AmmSell builds an AMM sell; a non-core quote mint turns it into a buy on the wire.
func (b *TradeBuilder) AmmSell(
	user, pool, baseMint, quoteMint, coinCreator, protocolFeeRecipient solana.PublicKey,
	baseAmountIn, minQuoteAmountOut uint64,
	mayhem bool,
) (*solana.GenericInstruction, error) {
	start := time.Now()
	ix, err := pumpswap.BuildSellInstruction(pumpswap.SellParams{
		User: user,
		Pool: pumpswap.PoolKeys{
			Pool:                 pool,
			BaseMint:             baseMint,
			QuoteMint:            quoteMint,
			CoinCreator:          coinCreator,
			ProtocolFeeRecipient: protocolFeeRecipient,
		},
		BaseAmountIn:      baseAmountIn,
		MinQuoteAmountOut: minQuoteAmountOut,
		Mayhem:            mayhem,
	})
	return b.done(OperationAmmSell, start, ix, err)
}

// Build dispatches a Task to the matching operation.
func (b *TradeBuilder) Build(task *Task) (*solana.GenericInstruction, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}

	switch task.Operation {
	case OperationBondingCurveBuy:
		return b.BondingCurveBuy(task.User, task.Mint, task.Amount1, task.Amount2, task.TrackVolume, task.Mayhem)
	case OperationBondingCurveSell:
		return b.BondingCurveSell(task.User, task.Mint, task.Amount1, task.Amount2, task.Mayhem)
	case OperationAmmBuy:
		return b.AmmBuy(task.User, task.Pool, task.BaseMint, task.QuoteMint, task.CoinCreator,
			task.ProtocolFeeRecipient, task.Amount1, task.Amount2, task.TrackVolume, task.Mayhem)
	case OperationAmmSell:
		return b.AmmSell(task.User, task.Pool, task.BaseMint, task.QuoteMint, task.CoinCreator,
			task.ProtocolFeeRecipient, task.Amount1, task.Amount2, task.Mayhem)
	default:
		return nil, fmt.Errorf("operation %s is not supported", task.Operation)
	}
}

func (b *TradeBuilder) done(op OperationType, start time.Time, ix *solana.GenericInstruction, err error) (*solana.GenericInstruction, error) {
	if err != nil {
		b.logger.Error("Failed to build instruction",
			zap.String("operation", string(op)),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b.logger.Debug("Instruction built",
		zap.String("operation", string(op)),
		zap.String("program", ix.ProgramID().String()),
		zap.Int("accounts", len(ix.Accounts())),
		zap.Int("data_len", len(ix.DataBytes)),
		zap.Duration("elapsed", time.Since(start)))

	return ix, nil
}
