// ABOUTME: Presentation table for a computed design: labels, units and precision
// ABOUTME: Shared by the TUI dashboard, CLI output, PDF and XLSX reports

package report

import (
	"fmt"
	"strconv"

	"github.com/Simtestlab/bess-handbook/models"
)

// Row is one labelled, formatted value
type Row struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// Section groups related rows under a title
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Severity ranks a status banner
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Banner is a status line shown above the results
type Banner struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// Headlines returns the three headline figures: pack energy, usable energy and max power.
func Headlines(in models.DesignInput, r models.DerivedResult) []Row {
	return []Row{
		{Key: "packEnergyKwh", Label: "Pack Energy", Value: fixed(r.PackEnergyKwh, 2), Unit: "kWh"},
		{Key: "usableEnergyKwh", Label: "Usable Energy", Value: fixed(r.UsableEnergyKwh, 2),
			Unit: fmt.Sprintf("kWh (%s%% DOD)", fixed(in.DOD*100, 0))},
		{Key: "maxPowerKw", Label: "Max Power", Value: fixed(r.MaxPowerKw, 2), Unit: "kW"},
	}
}

// Sections returns the derived values grouped the way the dashboard shows them.
func Sections(r models.DerivedResult) []Section {
	return []Section{
		{
			Title: "Cell & Module Configuration",
			Rows: []Row{
				{Key: "cellEnergyWh", Label: "Cell Energy", Value: fixed(r.CellEnergyWh, 2), Unit: "Wh"},
				{Key: "moduleVoltage", Label: "Module Voltage", Value: fixed(r.ModuleVoltage, 1), Unit: "V"},
				{Key: "moduleCapacity", Label: "Module Capacity", Value: fixed(r.ModuleCapacity, 1), Unit: "Ah"},
				{Key: "moduleEnergyKwh", Label: "Module Energy", Value: fixed(r.ModuleEnergyKwh, 2), Unit: "kWh"},
				{Key: "totalModules", Label: "Total Modules", Value: strconv.Itoa(r.TotalModules)},
				{Key: "totalCellCount", Label: "Total Cells", Value: strconv.Itoa(r.TotalCellCount)},
			},
		},
		{
			Title: "Pack Specifications",
			Rows: []Row{
				{Key: "packVoltage", Label: "Pack Voltage", Value: fixed(r.PackVoltage, 1), Unit: "V"},
				{Key: "packCapacity", Label: "Pack Capacity", Value: fixed(r.PackCapacity, 1), Unit: "Ah"},
				{Key: "operatingRange", Label: "Operating Range", Value: r.OperatingRange},
				{Key: "maxPackVoltage", Label: "Max Voltage", Value: fixed(r.MaxPackVoltage, 1), Unit: "V"},
				{Key: "minPackVoltage", Label: "Min Voltage", Value: fixed(r.MinPackVoltage, 1), Unit: "V"},
			},
		},
		{
			Title: "Rack Architecture",
			Rows: []Row{
				{Key: "rackCount", Label: "Rack Count", Value: strconv.Itoa(r.RackCount)},
				{Key: "energyPerRack", Label: "Energy Per Rack", Value: fixed(r.EnergyPerRack, 1), Unit: "kWh"},
				{Key: "modulesPerRack", Label: "Modules Per Rack", Value: fixed(r.ModulesPerRack, 1)},
			},
		},
		{
			Title: "Electrical Performance",
			Rows: []Row{
				{Key: "maxCurrent", Label: "Max Current", Value: fixed(r.MaxCurrent, 1), Unit: "A"},
				{Key: "peakCurrent", Label: "Peak Current", Value: fixed(r.PeakCurrent, 1), Unit: "A"},
				{Key: "dischargeTimeHours", Label: "Discharge Time", Value: fixed(r.DischargeTimeHours, 2), Unit: "h"},
				{Key: "heatLossKw", Label: "Heat Loss", Value: fixed(r.HeatLossKw, 3), Unit: "kW"},
			},
		},
		{
			Title: "BMS & Protection",
			Rows: []Row{
				{Key: "totalCMU", Label: "Total CMUs", Value: strconv.Itoa(r.TotalCMU)},
				{Key: "icPerRack", Label: "ICs Per Rack", Value: strconv.Itoa(r.ICPerRack)},
				{Key: "daisyChains", Label: "Daisy Chains", Value: strconv.Itoa(r.DaisyChains)},
				{Key: "icPerChain", Label: "ICs Per Chain", Value: strconv.Itoa(r.ICPerChain)},
				{Key: "contactorRating", Label: "Contactor Rating", Value: fixed(r.ContactorRating, 1), Unit: "A"},
				{Key: "fuseRating", Label: "Fuse Rating", Value: fixed(r.FuseRating, 1), Unit: "A"},
			},
		},
	}
}

// InputSections returns the design inputs in their six editing groups.
func InputSections(in models.DesignInput) []Section {
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []Section{
		{
			Title: "Cell Spec",
			Rows: []Row{
				{Key: "cellChemistry", Label: "Cell Chemistry", Value: in.CellChemistry},
				{Key: "cellVoltage", Label: "Nominal Cell Voltage", Value: g(in.CellVoltage), Unit: "V"},
				{Key: "cellCapacity", Label: "Cell Capacity", Value: g(in.CellCapacity), Unit: "Ah"},
				{Key: "cellMaxVoltage", Label: "Cell Max Voltage", Value: g(in.CellMaxVoltage), Unit: "V"},
				{Key: "cellMinVoltage", Label: "Cell Min Voltage", Value: g(in.CellMinVoltage), Unit: "V"},
			},
		},
		{
			Title: "Module Topology",
			Rows: []Row{
				{Key: "seriesCells", Label: "Cells in Series", Value: strconv.Itoa(in.SeriesCells)},
				{Key: "parallelCells", Label: "Cells in Parallel", Value: strconv.Itoa(in.ParallelCells)},
			},
		},
		{
			Title: "System Topology",
			Rows: []Row{
				{Key: "seriesModules", Label: "Series Modules", Value: strconv.Itoa(in.SeriesModules)},
				{Key: "parallelModules", Label: "Parallel Modules (Pack)", Value: strconv.Itoa(in.ParallelModules)},
			},
		},
		{
			Title: "System Targets",
			Rows: []Row{
				{Key: "targetEnergy", Label: "Target BESS Energy", Value: g(in.TargetEnergy), Unit: "kWh"},
				{Key: "targetRackEnergy", Label: "Target Rack Energy", Value: g(in.TargetRackEnergy), Unit: "kWh"},
			},
		},
		{
			Title: "Performance",
			Rows: []Row{
				{Key: "dod", Label: "Depth of Discharge (DOD)", Value: g(in.DOD)},
				{Key: "cRate", Label: "Discharge C-Rate", Value: g(in.CRate), Unit: "C"},
				{Key: "efficiency", Label: "System Efficiency", Value: g(in.Efficiency)},
			},
		},
		{
			Title: "BMS & Protection",
			Rows: []Row{
				{Key: "cellsPerIC", Label: "Cells Per Monitoring IC", Value: strconv.Itoa(in.CellsPerIC)},
				{Key: "maxICPerChain", Label: "Maximum IC per Chain", Value: strconv.Itoa(in.MaxICPerChain)},
				{Key: "protectionMargin", Label: "Protection Safety Margin", Value: g(in.ProtectionMargin), Unit: "%"},
				{Key: "peakMultiplier", Label: "Peak Current Multiplier", Value: g(in.PeakMultiplier), Unit: "x"},
				{Key: "packResistanceMilliOhm", Label: "Pack Internal Resistance", Value: g(in.PackResistanceMilliOhm), Unit: "mΩ"},
			},
		},
	}
}

// Banners returns the design and energy status lines with their severity.
func Banners(in models.DesignInput, r models.DerivedResult) []Banner {
	design := Banner{
		Severity: designSeverity(r.DesignStatus),
		Message: fmt.Sprintf("Design Status: %s (Required: %d modules, Designed: %d modules)",
			r.DesignStatus, r.RequiredModules, r.TotalModules),
	}

	energy := Banner{
		Severity: SeverityCritical,
		Message: fmt.Sprintf("%s (Usable: %s kWh, Target: %s kWh)",
			r.EnergyStatus, fixed(r.UsableEnergyKwh, 2), strconv.FormatFloat(in.TargetEnergy, 'g', -1, 64)),
	}
	if r.EnergyStatus == models.EnergyTargetMet {
		energy.Severity = SeverityOK
	}

	return []Banner{design, energy}
}

func designSeverity(s models.DesignStatus) Severity {
	switch s {
	case models.DesignOptimal:
		return SeverityOK
	case models.DesignIncreaseModules:
		return SeverityCritical
	default:
		return SeverityWarning
	}
}
