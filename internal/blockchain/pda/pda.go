// =============================
// File: internal/blockchain/pda/pda.go
// =============================
package pda

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ErrDerivation is matched by every *DerivationError.
var ErrDerivation = errors.New("program address derivation failed")

// DerivationError reports a failed program-derived address search.
type DerivationError struct {
	Seeds   [][]byte
	Program solana.PublicKey
	Err     error
}

func (e *DerivationError) Error() string {
	parts := make([]string, 0, len(e.Seeds))
	for _, s := range e.Seeds {
		parts = append(parts, fmt.Sprintf("%x", s))
	}
	return fmt.Sprintf("derive address under %s with seeds [%s]: %v",
		e.Program, strings.Join(parts, ","), e.Err)
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDerivation) work for wrapped derivation errors.
func (e *DerivationError) Is(target error) bool {
	return target == ErrDerivation
}

// Find returns the off-curve address and bump for seeds under programID.
// The seed slice is copied, so callers may reuse it.
func Find(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	owned := make([][]byte, len(seeds), len(seeds)+1)
	copy(owned, seeds)

	addr, bump, err := solana.FindProgramAddress(owned, programID)
	if err != nil {
		return solana.PublicKey{}, 0, &DerivationError{Seeds: seeds, Program: programID, Err: err}
	}
	return addr, bump, nil
}

// findAddress drops the bump for the common case.
func findAddress(programID solana.PublicKey, seeds ...[]byte) (solana.PublicKey, error) {
	addr, _, err := Find(seeds, programID)
	return addr, err
}

// AssociatedTokenAddress derives the ATA of owner for mint under the given token program.
// solana.FindAssociatedTokenAddress hardcodes the legacy token program, Token-2022 mints need this.
func AssociatedTokenAddress(owner, tokenProgram, mint solana.PublicKey) (solana.PublicKey, error) {
	return findAddress(solana.SPLAssociatedTokenAccountProgramID, owner[:], tokenProgram[:], mint[:])
}
