// =============================
// File: internal/dex/pumpswap/config.go
// =============================
package pumpswap

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/blockchain/pda"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
)

var (
	PumpSwapProgramID        = protocol.PumpAMMProgramID
	SystemProgramID          = solana.SystemProgramID
	AssociatedTokenProgramID = solana.SPLAssociatedTokenAccountProgramID
)

// FeeConfigSeed: фиксированный второй seed fee_config аккаунта AMM в fee-программе.
var FeeConfigSeed = [32]byte{
	12, 20, 222, 252, 130, 94, 198, 118, 148, 37, 8, 24, 187, 101, 64, 101,
	244, 41, 141, 49, 86, 213, 113, 180, 212, 248, 9, 12, 24, 233, 168, 99,
}

// Размеры списка аккаунтов: 19 базовых + 2 volume accumulator (только buy) + 2 fee config.
const (
	skeletonAccountsLen = 19
	BuyAccountsLen      = 23
	SellAccountsLen     = 21
)

// CanonicalPoolIndex is the index used by pools created on token migration.
const CanonicalPoolIndex uint16 = 0

// DerivePoolAddress вычисляет адрес пула по (index, creator, base, quote).
func DerivePoolAddress(index uint16, creator, baseMint, quoteMint solana.PublicKey) (solana.PublicKey, error) {
	return pda.Pool(PumpSwapProgramID, index, creator, baseMint, quoteMint)
}

// DeriveGlobalConfigAddress вычисляет PDA для глобального аккаунта конфигурации.
func DeriveGlobalConfigAddress() (solana.PublicKey, error) {
	return pda.GlobalConfig(PumpSwapProgramID)
}
