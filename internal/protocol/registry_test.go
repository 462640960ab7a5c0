package protocol

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpstream/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry(zaptest.NewLogger(t))

	assert.Equal(t, []string{NamePump, NamePumpAMM, NameFees}, r.List())

	p, err := r.Get("PUMP")
	require.NoError(t, err)
	assert.Equal(t, PumpProgramID, p.ID)

	amm, ok := r.Lookup(PumpAMMProgramID)
	require.True(t, ok)
	assert.Equal(t, TypeAMM, amm.Type)

	assert.Len(t, r.GetByType(TypeBondingCurve), 1)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewDefaultRegistry(zaptest.NewLogger(t))

	err := r.Register(Program{Name: NamePump, ID: solana.SystemProgramID})
	assert.Error(t, err)

	err = r.Register(Program{Name: "other", ID: PumpProgramID})
	assert.Error(t, err)
}

func TestRegistryResolve(t *testing.T) {
	r := NewDefaultRegistry(zaptest.NewLogger(t))

	p, err := r.Resolve(NamePumpAMM)
	require.NoError(t, err)
	assert.Equal(t, PumpAMMProgramID, p.ID)

	p, err = r.Resolve(PumpProgramID.String())
	require.NoError(t, err)
	assert.Equal(t, NamePump, p.Name)

	p, err = r.Resolve(solana.SystemProgramID.String())
	require.NoError(t, err)
	assert.Equal(t, solana.SystemProgramID, p.ID)

	_, err = r.Resolve("definitely-not-a-program")
	assert.Error(t, err)
}

func TestFeeAccounts(t *testing.T) {
	fee, tokenProgram := FeeAccounts(types.ModeNormal)
	assert.Equal(t, FeeRecipient, fee)
	assert.Equal(t, solana.TokenProgramID, tokenProgram)

	fee, tokenProgram = FeeAccounts(types.ModeMayhem)
	assert.Equal(t, MayhemFeeRecipient, fee)
	assert.Equal(t, solana.Token2022ProgramID, tokenProgram)
}

func TestIsCoreAsset(t *testing.T) {
	assert.True(t, IsCoreAsset(WSOLMint))
	assert.True(t, IsCoreAsset(USDCMint))
	assert.False(t, IsCoreAsset(PumpProgramID))
}
