// ABOUTME: BESS derivation engine computing sizing metrics from a design input
// ABOUTME: Cell, pack, rack, electrical and BMS stages plus status classification

package services

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Simtestlab/bess-handbook/models"
)

const (
	// fuseHeadroom is the fuse rating over the contactor rating
	fuseHeadroom = 1.2
	// overDesignSlack is how many modules above the requirement still count as Optimal
	overDesignSlack = 5
	// maxHardwareCount bounds ceiling results so they fit an int on every platform
	maxHardwareCount = math.MaxInt32
)

// Computer evaluates one design input
type Computer interface {
	Compute(in models.DesignInput) (models.DerivedResult, error)
}

// Engine derives every downstream quantity of a BESS design. It holds no
// state and is safe for concurrent use.
type Engine struct{}

// NewEngine creates a new derivation engine
func NewEngine() *Engine {
	return &Engine{}
}

// Compute validates the input, then derives the result stage by stage. The
// only error it returns is a *ValidationError.
func (e *Engine) Compute(in models.DesignInput) (models.DerivedResult, error) {
	if err := Validate(in); err != nil {
		slog.Debug("Design rejected", "chemistry", sanitizeForLog(in.CellChemistry), "error", err)
		return models.DerivedResult{}, err
	}

	var r models.DerivedResult

	// Stage 1: cell and module
	r.CellEnergyWh = in.CellVoltage * in.CellCapacity
	r.ModuleVoltage = in.CellVoltage * float64(in.SeriesCells)
	r.ModuleCapacity = in.CellCapacity * float64(in.ParallelCells)
	r.ModuleEnergyKwh = r.ModuleVoltage * r.ModuleCapacity / 1000
	cellsPerModule, err := countProduct("cellsPerModule", in.SeriesCells, in.ParallelCells)
	if err != nil {
		return models.DerivedResult{}, err
	}
	r.CellsPerModule = cellsPerModule
	r.OutputCellVoltage = in.CellVoltage
	r.OutputCellCapacity = in.CellCapacity

	// Stage 2: pack
	r.PackVoltage = r.ModuleVoltage * float64(in.SeriesModules)
	r.PackCapacity = r.ModuleCapacity * float64(in.ParallelModules)
	r.PackEnergyKwh = r.PackVoltage * r.PackCapacity / 1000
	r.MaxPackVoltage = in.CellMaxVoltage * float64(in.SeriesCells) * float64(in.SeriesModules)
	r.MinPackVoltage = in.CellMinVoltage * float64(in.SeriesCells) * float64(in.SeriesModules)
	totalCells, err := countProduct("totalCellCount", in.SeriesCells, in.ParallelCells, in.SeriesModules, in.ParallelModules)
	if err != nil {
		return models.DerivedResult{}, err
	}
	r.TotalCellCount = totalCells
	r.UsableEnergyKwh = r.PackEnergyKwh * in.DOD

	// Stage 3: rack architecture
	rackCount, err := ceilCount("rackCount", r.PackEnergyKwh/in.TargetRackEnergy)
	if err != nil {
		return models.DerivedResult{}, err
	}
	if rackCount < 1 {
		return models.DerivedResult{}, invalid("rackCount", float64(rackCount), "must resolve to at least one rack")
	}
	r.RackCount = rackCount
	r.EnergyPerRack = r.PackEnergyKwh / float64(r.RackCount)
	// bounded by totalCellCount, so the product cannot overflow
	r.TotalModules = in.SeriesModules * in.ParallelModules
	r.ModulesPerRack = float64(r.TotalModules) / float64(r.RackCount)

	// Stage 4: electrical performance
	r.MaxCurrent = r.PackCapacity * in.CRate
	r.MaxPowerKw = r.PackVoltage * r.MaxCurrent / 1000
	r.DischargeTimeHours = 1 / in.CRate
	r.PackResistanceOhms = in.PackResistanceMilliOhm / 1000
	r.HeatLossKw = r.MaxCurrent * r.MaxCurrent * r.PackResistanceOhms / 1000

	// Stage 5: BMS and protection
	r.TotalCMU = r.TotalModules
	r.PackMonitorCount = r.RackCount
	totalICs := ceilDiv(r.TotalCellCount, in.CellsPerIC)
	r.ICPerRack = ceilDiv(totalICs, r.RackCount)
	r.DaisyChains = ceilDiv(r.ICPerRack, in.MaxICPerChain)
	r.ICPerChain = ceilDiv(r.ICPerRack, r.DaisyChains)
	r.ContactorRating = r.MaxCurrent * in.ProtectionMargin / 100
	r.FuseRating = r.ContactorRating * fuseHeadroom
	r.PeakCurrent = r.MaxCurrent * in.PeakMultiplier

	// Stage 6: classification
	required, err := ceilCount("requiredModules", in.TargetEnergy/r.ModuleEnergyKwh)
	if err != nil {
		return models.DerivedResult{}, err
	}
	r.RequiredModules = required
	r.DesignStatus = classifyDesign(r.TotalModules, r.RequiredModules)
	r.EnergyStatus = classifyEnergy(r.UsableEnergyKwh, in.TargetEnergy)
	r.OperatingRange = fmt.Sprintf("%.1fV - %.1fV", r.MaxPackVoltage, r.MinPackVoltage)

	if err := checkFinite(&r); err != nil {
		return models.DerivedResult{}, err
	}

	return r, nil
}

func classifyDesign(total, required int) models.DesignStatus {
	switch {
	case total < required:
		return models.DesignIncreaseModules
	case total > required+overDesignSlack:
		return models.DesignOverDesigned
	default:
		return models.DesignOptimal
	}
}

func classifyEnergy(usable, target float64) models.EnergyStatus {
	if usable < target {
		return models.EnergyNotEnoughUsable
	}
	return models.EnergyTargetMet
}

// ceilDiv is integer ceiling division for a >= 0 and b > 0
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// countProduct multiplies positive hardware counts, rejecting totals that do
// not fit the hardware count range
func countProduct(field string, factors ...int) (int, error) {
	product := 1.0
	for _, f := range factors {
		product *= float64(f)
	}
	if product > maxHardwareCount {
		return 0, invalid(field, product, "is outside the representable hardware count range")
	}
	n := 1
	for _, f := range factors {
		n *= f
	}
	return n, nil
}

// ceilCount rounds a ratio up to a whole hardware count
func ceilCount(field string, ratio float64) (int, error) {
	c := math.Ceil(ratio)
	if math.IsNaN(c) || math.Abs(c) > maxHardwareCount {
		return 0, invalid(field, ratio, "is outside the representable hardware count range")
	}
	return int(c), nil
}

// checkFinite rejects results where large inputs overflowed a product
func checkFinite(r *models.DerivedResult) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"cellEnergyWh", r.CellEnergyWh},
		{"moduleEnergyKwh", r.ModuleEnergyKwh},
		{"packEnergyKwh", r.PackEnergyKwh},
		{"maxPackVoltage", r.MaxPackVoltage},
		{"minPackVoltage", r.MinPackVoltage},
		{"usableEnergyKwh", r.UsableEnergyKwh},
		{"energyPerRack", r.EnergyPerRack},
		{"maxCurrent", r.MaxCurrent},
		{"maxPowerKw", r.MaxPowerKw},
		{"heatLossKw", r.HeatLossKw},
		{"contactorRating", r.ContactorRating},
		{"fuseRating", r.FuseRating},
		{"peakCurrent", r.PeakCurrent},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid(f.name, f.value, "overflows the representable range")
		}
	}
	return nil
}
