// ==========================================
// File: internal/dex/priority.go
// ==========================================
package dex

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"go.uber.org/zap"
)

type PriorityLevel string

const (
	PriorityNone    PriorityLevel = "none"
	PriorityLow     PriorityLevel = "low"
	PriorityMedium  PriorityLevel = "medium"
	PriorityHigh    PriorityLevel = "high"
	PriorityExtreme PriorityLevel = "extreme"
)

type PriorityConfig struct {
	ComputeUnits uint32 // лимит compute units
	PriorityFee  uint64 // цена в micro-lamports за unit
	HeapSize     uint32 // доп. heap (опционально)
}

// PriorityManager строит compute-budget инструкции, которые кладутся перед buy/sell.
type PriorityManager struct {
	profiles map[PriorityLevel]PriorityConfig
	logger   *zap.Logger
}

func NewPriorityManager(logger *zap.Logger) *PriorityManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriorityManager{
		profiles: map[PriorityLevel]PriorityConfig{
			PriorityNone: {},
			PriorityLow: {
				ComputeUnits: 200_000,
				PriorityFee:  1_000,
			},
			PriorityMedium: {
				ComputeUnits: 400_000,
				PriorityFee:  5_000,
			},
			PriorityHigh: {
				ComputeUnits: 800_000,
				PriorityFee:  10_000,
			},
			PriorityExtreme: {
				ComputeUnits: 1_000_000,
				PriorityFee:  50_000,
				HeapSize:     32 * 1024,
			},
		},
		logger: logger.Named("priority"),
	}
}

// ParsePriorityLevel is case-insensitive; "" means none.
func ParsePriorityLevel(s string) (PriorityLevel, error) {
	level := PriorityLevel(strings.ToLower(strings.TrimSpace(s)))
	if level == "" {
		return PriorityNone, nil
	}
	switch level {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityExtreme:
		return level, nil
	}
	return "", fmt.Errorf("unknown priority level: %s", s)
}

func (pm *PriorityManager) Instructions(level PriorityLevel) ([]solana.Instruction, error) {
	config, ok := pm.profiles[level]
	if !ok {
		return nil, fmt.Errorf("unknown priority level: %s", level)
	}
	return pm.build(config), nil
}

// CustomInstructions: лимит и цена задаются явно, нулевые значения пропускаются.
func (pm *PriorityManager) CustomInstructions(priorityFee uint64, units uint32) []solana.Instruction {
	return pm.build(PriorityConfig{ComputeUnits: units, PriorityFee: priorityFee})
}

func (pm *PriorityManager) build(config PriorityConfig) []solana.Instruction {
	var instructions []solana.Instruction

	if config.ComputeUnits > 0 {
		instructions = append(instructions, computebudget.NewSetComputeUnitLimitInstruction(config.ComputeUnits).Build())
	}
	if config.PriorityFee > 0 {
		instructions = append(instructions, computebudget.NewSetComputeUnitPriceInstruction(config.PriorityFee).Build())
	}
	if config.HeapSize > 0 {
		instructions = append(instructions, computebudget.NewRequestHeapFrameInstruction(config.HeapSize).Build())
	}

	pm.logger.Debug("Compute budget prepared",
		zap.Uint32("units", config.ComputeUnits),
		zap.Uint64("micro_lamports", config.PriorityFee),
		zap.Int("instructions", len(instructions)))
	return instructions
}
