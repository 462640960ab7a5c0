// internal/protocol/registry.go
package protocol

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Registry indexes programs by short name and by address.
type Registry struct {
	mu       sync.RWMutex
	programs map[string]Program
	byID     map[solana.PublicKey]Program
	logger   *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		programs: make(map[string]Program),
		byID:     make(map[solana.PublicKey]Program),
		logger:   logger.Named("protocol_registry"),
	}
}

// NewDefaultRegistry returns a registry preloaded with the pump programs.
func NewDefaultRegistry(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	for _, p := range []Program{
		{Name: NamePump, ID: PumpProgramID, Type: TypeBondingCurve},
		{Name: NamePumpAMM, ID: PumpAMMProgramID, Type: TypeAMM},
		{Name: NameFees, ID: FeeProgramID, Type: TypeFees},
	} {
		// имена уникальны, ошибки быть не может
		_ = r.Register(p)
	}
	return r
}

// Register adds a program to the registry.
func (r *Registry) Register(p Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(p.Name)
	if _, exists := r.programs[name]; exists {
		return fmt.Errorf("program %s already registered", name)
	}
	if other, exists := r.byID[p.ID]; exists {
		return fmt.Errorf("program id %s already registered as %s", p.ID, other.Name)
	}

	p.Name = name
	r.programs[name] = p
	r.byID[p.ID] = p

	r.logger.Debug("Program registered",
		zap.String("name", name),
		zap.String("type", string(p.Type)),
		zap.String("program_id", p.ID.String()))

	return nil
}

// Get retrieves a program by short name.
func (r *Registry) Get(name string) (Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.programs[strings.ToLower(name)]
	if !exists {
		return Program{}, fmt.Errorf("program %s not found", name)
	}
	return p, nil
}

// Lookup finds a program by address.
func (r *Registry) Lookup(id solana.PublicKey) (Program, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok
}

// Resolve accepts either a short name or a base58 address.
// Unknown addresses are returned as an unnamed program of the given address.
func (r *Registry) Resolve(nameOrID string) (Program, error) {
	if p, err := r.Get(nameOrID); err == nil {
		return p, nil
	}

	id, err := solana.PublicKeyFromBase58(nameOrID)
	if err != nil {
		return Program{}, fmt.Errorf("unknown program %q: not a registered name or a valid address", nameOrID)
	}
	if p, ok := r.Lookup(id); ok {
		return p, nil
	}
	return Program{Name: id.Short(4), ID: id}, nil
}

// GetByType retrieves all programs of a specific type.
func (r *Registry) GetByType(t Type) []Program {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Program
	for _, p := range r.programs {
		if p.Type == t {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// List returns all registered program names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.programs))
	for name := range r.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
