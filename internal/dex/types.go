// ==========================================
// File: internal/dex/types.go
// ==========================================
package dex

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/types"
)

// OperationType defines an instruction the builder can produce.
type OperationType string

const (
	OperationBondingCurveBuy  OperationType = "bonding-curve-buy"
	OperationBondingCurveSell OperationType = "bonding-curve-sell"
	OperationAmmBuy           OperationType = "amm-buy"
	OperationAmmSell          OperationType = "amm-sell"
)

// Operations lists every supported operation, in CLI order.
var Operations = []OperationType{
	OperationBondingCurveBuy,
	OperationBondingCurveSell,
	OperationAmmBuy,
	OperationAmmSell,
}

// ParseOperation maps a name to an OperationType.
func ParseOperation(s string) (OperationType, error) {
	op := OperationType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Operations {
		if op == known {
			return op, nil
		}
	}
	return "", fmt.Errorf("operation %q is not supported", s)
}

// Task represents an instruction request. Fields irrelevant to the operation are ignored.
//
// Amount1/Amount2 follow the argument order of the named operation:
//   - bonding-curve-buy:  amount, maxSolCost
//   - bonding-curve-sell: amount, minSolOutput
//   - amm-buy:            baseAmountOut, maxQuoteAmountIn
//   - amm-sell:           baseAmountIn, minQuoteAmountOut
type Task struct {
	Operation OperationType
	User      solana.PublicKey
	Mint      solana.PublicKey

	Pool                 solana.PublicKey
	BaseMint             solana.PublicKey
	QuoteMint            solana.PublicKey
	CoinCreator          solana.PublicKey
	ProtocolFeeRecipient solana.PublicKey

	Amount1     uint64
	Amount2     uint64
	TrackVolume types.OptionBool
	Mayhem      bool
}
