// ABOUTME: Design input schema for battery energy storage sizing
// ABOUTME: Holds the 19 cell, topology, target, performance and BMS parameters

package models

import (
	"strconv"
	"strings"
)

// DefaultSlot is the persistence slot holding the last-used design input.
const DefaultSlot = "bess-inputs"

// DesignInput is one candidate BESS design. It is a comparable value: every
// edit produces a new DesignInput rather than mutating a shared one.
type DesignInput struct {
	// Cell spec
	CellChemistry  string  `json:"cellChemistry" yaml:"cellChemistry"`   // Descriptive only
	CellVoltage    float64 `json:"cellVoltage" yaml:"cellVoltage"`       // Nominal V
	CellCapacity   float64 `json:"cellCapacity" yaml:"cellCapacity"`     // Ah
	CellMaxVoltage float64 `json:"cellMaxVoltage" yaml:"cellMaxVoltage"` // V
	CellMinVoltage float64 `json:"cellMinVoltage" yaml:"cellMinVoltage"` // V

	// Module topology
	SeriesCells   int `json:"seriesCells" yaml:"seriesCells"`
	ParallelCells int `json:"parallelCells" yaml:"parallelCells"`

	// System topology
	SeriesModules   int `json:"seriesModules" yaml:"seriesModules"`
	ParallelModules int `json:"parallelModules" yaml:"parallelModules"`

	// System targets
	TargetEnergy     float64 `json:"targetEnergy" yaml:"targetEnergy"`         // kWh
	TargetRackEnergy float64 `json:"targetRackEnergy" yaml:"targetRackEnergy"` // kWh

	// Performance
	DOD        float64 `json:"dod" yaml:"dod"`               // Fraction [0,1]
	CRate      float64 `json:"cRate" yaml:"cRate"`           // Discharge C-rate
	Efficiency float64 `json:"efficiency" yaml:"efficiency"` // Round-trip fraction, not used by any formula yet

	// BMS & protection
	CellsPerIC             int     `json:"cellsPerIC" yaml:"cellsPerIC"`
	MaxICPerChain          int     `json:"maxICPerChain" yaml:"maxICPerChain"`
	ProtectionMargin       float64 `json:"protectionMargin" yaml:"protectionMargin"` // %
	PeakMultiplier         float64 `json:"peakMultiplier" yaml:"peakMultiplier"`
	PackResistanceMilliOhm float64 `json:"packResistanceMilliOhm" yaml:"packResistanceMilliOhm"`
}

// DefaultDesignInput returns the design used when nothing has been saved:
// a 20S5P system of 12S1P LFP modules aimed at 400 kWh.
func DefaultDesignInput() DesignInput {
	return DesignInput{
		CellChemistry:          "LFP",
		CellVoltage:            3.2,
		CellCapacity:           100,
		CellMaxVoltage:         3.65,
		CellMinVoltage:         2.5,
		SeriesCells:            12,
		ParallelCells:          1,
		SeriesModules:          20,
		ParallelModules:        5,
		TargetEnergy:           400,
		TargetRackEnergy:       80,
		DOD:                    0.9,
		CRate:                  1,
		Efficiency:             0.95,
		CellsPerIC:             12,
		MaxICPerChain:          16,
		ProtectionMargin:       125,
		PeakMultiplier:         2,
		PackResistanceMilliOhm: 50,
	}
}

// Key returns a canonical string identifying the input by value. Floats are
// written with the shortest exact representation, so two inputs share a key
// only if every field is equal.
func (d DesignInput) Key() string {
	var sb strings.Builder
	sb.WriteString(strconv.Quote(d.CellChemistry))
	for _, f := range []float64{
		d.CellVoltage, d.CellCapacity, d.CellMaxVoltage, d.CellMinVoltage,
		float64(d.SeriesCells), float64(d.ParallelCells),
		float64(d.SeriesModules), float64(d.ParallelModules),
		d.TargetEnergy, d.TargetRackEnergy,
		d.DOD, d.CRate, d.Efficiency,
		float64(d.CellsPerIC), float64(d.MaxICPerChain),
		d.ProtectionMargin, d.PeakMultiplier, d.PackResistanceMilliOhm,
	} {
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return sb.String()
}

// Topology returns the assembly as "<Sm>S<Pm>P of <Sc>S<Pc>P modules".
func (d DesignInput) Topology() string {
	return strconv.Itoa(d.SeriesModules) + "S" + strconv.Itoa(d.ParallelModules) + "P of " +
		strconv.Itoa(d.SeriesCells) + "S" + strconv.Itoa(d.ParallelCells) + "P modules"
}
