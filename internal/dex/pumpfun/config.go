// =============================
// File: internal/dex/pumpfun/config.go
// =============================
package pumpfun

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
)

// Known PumpFun protocol addresses
var (
	// Program ID for Pump.fun protocol
	PumpFunProgramID = protocol.PumpProgramID

	// Event authority for the Pump.fun protocol
	PumpFunEventAuth = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")
)

// FeeConfigSeed is the fixed secondary seed of the bonding curve's fee_config account
// under the fee program.
var FeeConfigSeed = [32]byte{
	1, 86, 224, 246, 147, 102, 90, 207, 68, 219, 21, 104, 191, 23, 91, 170,
	81, 137, 203, 151, 245, 210, 255, 59, 101, 93, 43, 182, 253, 109, 24, 176,
}

// Account list sizes expected by the program.
const (
	BuyAccountsLen  = 16
	SellAccountsLen = 14
)
