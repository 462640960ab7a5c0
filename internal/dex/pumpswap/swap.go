// =============================
// File: internal/dex/pumpswap/swap.go
// =============================
package pumpswap

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/types"
)

// BuyParams описывает покупку базового токена за котируемый.
type BuyParams struct {
	User             solana.PublicKey
	Pool             PoolKeys
	BaseAmountOut    uint64
	MaxQuoteAmountIn uint64
	TrackVolume      types.OptionBool
	Mayhem           bool
}

// SellParams описывает продажу базового токена за котируемый.
type SellParams struct {
	User              solana.PublicKey
	Pool              PoolKeys
	BaseAmountIn      uint64
	MinQuoteAmountOut uint64
	Mayhem            bool
}

// resolveIsBuy decides which selector goes on the wire.
// The AMM names sides from the pool's point of view: when the quote mint is not a core
// asset (WSOL/USDC) the pool is inverted and the caller's intent flips.
func resolveIsBuy(wantBuy bool, quoteMint solana.PublicKey) bool {
	if protocol.IsCoreAsset(quoteMint) {
		return wantBuy
	}
	return !wantBuy
}

// BuildBuyInstruction builds the AMM buy.
//
// Core quote mint: buy ‖ baseAmountOut ‖ maxQuoteAmountIn ‖ trackVolume, 23 accounts.
// Otherwise the call becomes a sell: sell ‖ maxQuoteAmountIn ‖ baseAmountOut, 21 accounts.
func BuildBuyInstruction(p BuyParams) (*solana.GenericInstruction, error) {
	params, err := deriveSwapAccounts(p.User, p.Pool, types.ModeFromMayhem(p.Mayhem))
	if err != nil {
		return nil, err
	}

	params.IsBuy = resolveIsBuy(true, p.Pool.QuoteMint)
	if params.IsBuy {
		params.Amount1 = p.BaseAmountOut
		params.Amount2 = p.MaxQuoteAmountIn
		params.TrackVolume = p.TrackVolume
	} else {
		params.Amount1 = p.MaxQuoteAmountIn
		params.Amount2 = p.BaseAmountOut
	}

	return createSwapInstruction(params), nil
}

// BuildSellInstruction builds the AMM sell.
//
// Core quote mint: sell ‖ baseAmountIn ‖ minQuoteAmountOut, 21 accounts.
// Otherwise the call becomes a buy: buy ‖ minQuoteAmountOut ‖ baseAmountIn ‖ [0], 23 accounts.
func BuildSellInstruction(p SellParams) (*solana.GenericInstruction, error) {
	params, err := deriveSwapAccounts(p.User, p.Pool, types.ModeFromMayhem(p.Mayhem))
	if err != nil {
		return nil, err
	}

	params.IsBuy = resolveIsBuy(false, p.Pool.QuoteMint)
	if params.IsBuy {
		params.Amount1 = p.MinQuoteAmountOut
		params.Amount2 = p.BaseAmountIn
		params.TrackVolume = types.Absent
	} else {
		params.Amount1 = p.BaseAmountIn
		params.Amount2 = p.MinQuoteAmountOut
	}

	return createSwapInstruction(params), nil
}
