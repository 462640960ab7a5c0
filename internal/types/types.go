// internal/types/types.go
package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Discriminator is the 8-byte tag that prefixes every Anchor event and instruction payload.
type Discriminator [8]byte

// String returns the hex form, handy in logs.
func (d Discriminator) String() string {
	return hex.EncodeToString(d[:])
}

// Instruction selectors shared by the bonding-curve program and the AMM.
var (
	BuySelector  = Discriminator{102, 6, 61, 18, 1, 218, 235, 234}
	SellSelector = Discriminator{51, 230, 133, 164, 1, 127, 131, 173}
)

// OptionBool представляет Option<bool> из IDL программы.
// Absent и PresentFalse кодируются по-разному, поэтому *bool не подходит.
type OptionBool uint8

const (
	Absent OptionBool = iota
	PresentTrue
	PresentFalse
)

// OptionBoolFrom wraps a plain bool into a present value.
func OptionBoolFrom(v bool) OptionBool {
	if v {
		return PresentTrue
	}
	return PresentFalse
}

// Bytes returns the Borsh encoding: Absent → [0], PresentTrue → [1,1], PresentFalse → [1,0].
func (o OptionBool) Bytes() []byte {
	switch o {
	case PresentTrue:
		return []byte{1, 1}
	case PresentFalse:
		return []byte{1, 0}
	default:
		return []byte{0}
	}
}

func (o OptionBool) String() string {
	switch o {
	case PresentTrue:
		return "true"
	case PresentFalse:
		return "false"
	default:
		return "none"
	}
}

// ParseOptionBool accepts "", "none", "true" and "false".
func ParseOptionBool(s string) (OptionBool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "absent":
		return Absent, nil
	case "true", "1", "yes":
		return PresentTrue, nil
	case "false", "0", "no":
		return PresentFalse, nil
	default:
		return Absent, fmt.Errorf("invalid option bool %q", s)
	}
}

// TradeMode selects the fee recipient and token program pair for an instruction.
type TradeMode string

const (
	// ModeNormal uses the standard fee recipient and the legacy SPL token program.
	ModeNormal TradeMode = "normal"
	// ModeMayhem uses the mayhem fee recipient and Token-2022.
	ModeMayhem TradeMode = "mayhem"
)

// ModeFromMayhem maps the mayhem flag to a TradeMode.
func ModeFromMayhem(mayhem bool) TradeMode {
	if mayhem {
		return ModeMayhem
	}
	return ModeNormal
}

// IsMayhem reports whether the mode is ModeMayhem.
func (m TradeMode) IsMayhem() bool {
	return m == ModeMayhem
}
