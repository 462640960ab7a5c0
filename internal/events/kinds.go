// internal/events/kinds.go
package events

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/types"
)

// Kind identifies one of the protocol events.
type Kind uint8

const (
	KindCreate Kind = iota
	KindCreateV2
	KindComplete
	KindTrade
	KindBuy
	KindSell
	KindCreatePool

	kindCount
)

// kindInfo is a row of the discriminator table.
type kindInfo struct {
	name          string
	discriminator types.Discriminator
	program       solana.PublicKey
}

// kindTable: единственное место, где объявлены дискриминаторы событий.
var kindTable = [kindCount]kindInfo{
	KindCreate:     {"create", types.Discriminator{27, 114, 169, 77, 222, 235, 99, 118}, protocol.PumpProgramID},
	KindCreateV2:   {"create_v2", types.Discriminator{214, 144, 76, 236, 95, 139, 49, 180}, protocol.PumpProgramID},
	KindComplete:   {"complete", types.Discriminator{95, 114, 97, 156, 212, 46, 152, 8}, protocol.PumpProgramID},
	KindTrade:      {"trade", types.Discriminator{189, 219, 127, 211, 78, 230, 97, 238}, protocol.PumpProgramID},
	KindBuy:        {"buy", types.Discriminator{103, 244, 82, 31, 44, 245, 119, 119}, protocol.PumpAMMProgramID},
	KindSell:       {"sell", types.Discriminator{62, 47, 55, 10, 165, 3, 220, 42}, protocol.PumpAMMProgramID},
	KindCreatePool: {"create_pool", types.Discriminator{177, 49, 12, 210, 160, 118, 167, 116}, protocol.PumpAMMProgramID},
}

// Kinds returns every kind in table order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) valid() bool { return k < kindCount }

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindTable[k].name
}

// Discriminator returns the 8-byte tag of the kind.
func (k Kind) Discriminator() types.Discriminator {
	if !k.valid() {
		return types.Discriminator{}
	}
	return kindTable[k].discriminator
}

// Program returns the program that emits the kind.
func (k Kind) Program() solana.PublicKey {
	if !k.valid() {
		return solana.PublicKey{}
	}
	return kindTable[k].program
}

// KindOf looks a discriminator up in the table.
func KindOf(d []byte) (Kind, bool) {
	if len(d) < 8 {
		return 0, false
	}
	for k := Kind(0); k < kindCount; k++ {
		disc := kindTable[k].discriminator
		if string(d[:8]) == string(disc[:]) {
			return k, true
		}
	}
	return 0, false
}

// ParseKind accepts the kind name ("trade", "create_pool", ...). Dashes are allowed.
func ParseKind(s string) (Kind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for k := Kind(0); k < kindCount; k++ {
		if kindTable[k].name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// KindSet is a bitmask of kinds.
type KindSet uint16

// Presets.
const (
	NoKinds  KindSet = 0
	AllKinds KindSet = 1<<kindCount - 1
	PumpOnly         = KindSet(1<<KindCreate | 1<<KindCreateV2 | 1<<KindComplete | 1<<KindTrade)
	AmmOnly          = KindSet(1<<KindBuy | 1<<KindSell | 1<<KindCreatePool)
)

// NewKindSet builds a set from individual kinds.
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return k.valid() && s&(1<<k) != 0
}

// With returns the set plus k.
func (s KindSet) With(k Kind) KindSet {
	if !k.valid() {
		return s
	}
	return s | 1<<k
}

// Len returns the number of kinds in the set.
func (s KindSet) Len() int {
	n := 0
	for k := Kind(0); k < kindCount; k++ {
		if s.Has(k) {
			n++
		}
	}
	return n
}

// Kinds lists the members in table order.
func (s KindSet) Kinds() []Kind {
	out := make([]Kind, 0, s.Len())
	for k := Kind(0); k < kindCount; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s KindSet) String() string {
	switch s & AllKinds {
	case NoKinds:
		return "none"
	case AllKinds:
		return "all"
	case PumpOnly:
		return "pump_only"
	case AmmOnly:
		return "pumpamm_only"
	}
	names := make([]string, 0, s.Len())
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// ParseKindSet parses a preset name (all, none, pump_only, pumpamm_only)
// or a comma separated list of kind names.
func ParseKindSet(s string) (KindSet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return AllKinds, nil
	case "none":
		return NoKinds, nil
	case "pump_only", "pump":
		return PumpOnly, nil
	case "pumpamm_only", "pumpamm", "amm":
		return AmmOnly, nil
	}

	var set KindSet
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return NoKinds, err
		}
		set = set.With(k)
	}
	return set, nil
}

// ForProgram returns the kinds emitted by program.
func ForProgram(program solana.PublicKey) KindSet {
	var s KindSet
	for k := Kind(0); k < kindCount; k++ {
		if kindTable[k].program.Equals(program) {
			s = s.With(k)
		}
	}
	return s
}
