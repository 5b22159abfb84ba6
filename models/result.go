// ABOUTME: Derived engineering quantities for a BESS design
// ABOUTME: Result record and the two classification verdicts produced by the engine

package models

// DesignStatus classifies the module count against the energy target
type DesignStatus string

const (
	DesignOptimal         DesignStatus = "Optimal"
	DesignIncreaseModules DesignStatus = "Increase Modules"
	DesignOverDesigned    DesignStatus = "Over-designed"
)

// EnergyStatus classifies usable energy against the energy target
type EnergyStatus string

const (
	EnergyTargetMet       EnergyStatus = "Energy Target Met"
	EnergyNotEnoughUsable EnergyStatus = "Not Enough Usable Energy"
)

// DerivedResult is every quantity derived from one DesignInput. It is built
// once per computation and never patched afterwards.
type DerivedResult struct {
	// Cell & module level
	CellEnergyWh    float64 `json:"cellEnergyWh"`
	ModuleVoltage   float64 `json:"moduleVoltage"`
	ModuleCapacity  float64 `json:"moduleCapacity"`
	ModuleEnergyKwh float64 `json:"moduleEnergyKwh"`
	CellsPerModule  int     `json:"cellsPerModule"`

	// Pass-through values for the final report
	OutputCellVoltage  float64 `json:"outputCellVoltage"`
	OutputCellCapacity float64 `json:"outputCellCapacity"`

	// Pack / system level
	PackVoltage     float64 `json:"packVoltage"`
	PackCapacity    float64 `json:"packCapacity"`
	PackEnergyKwh   float64 `json:"packEnergyKwh"`
	MaxPackVoltage  float64 `json:"maxPackVoltage"`
	MinPackVoltage  float64 `json:"minPackVoltage"`
	TotalCellCount  int     `json:"totalCellCount"`
	UsableEnergyKwh float64 `json:"usableEnergyKwh"`

	// Rack architecture
	RackCount      int     `json:"rackCount"`
	EnergyPerRack  float64 `json:"energyPerRack"`
	TotalModules   int     `json:"totalModules"`
	ModulesPerRack float64 `json:"modulesPerRack"` // Sizing ratio, not a literal per-rack count

	// Electrical performance
	MaxCurrent         float64 `json:"maxCurrent"`
	MaxPowerKw         float64 `json:"maxPowerKw"`
	DischargeTimeHours float64 `json:"dischargeTimeHours"`
	PackResistanceOhms float64 `json:"packResistanceOhms"`
	HeatLossKw         float64 `json:"heatLossKw"`

	// BMS & protection
	TotalCMU         int     `json:"totalCMU"`
	PackMonitorCount int     `json:"packMonitorCount"`
	ICPerRack        int     `json:"icPerRack"`
	DaisyChains      int     `json:"daisyChains"`
	ICPerChain       int     `json:"icPerChain"`
	ContactorRating  float64 `json:"contactorRating"`
	FuseRating       float64 `json:"fuseRating"`
	PeakCurrent      float64 `json:"peakCurrent"`

	// Status
	RequiredModules int          `json:"requiredModules"`
	DesignStatus    DesignStatus `json:"designStatus"`
	EnergyStatus    EnergyStatus `json:"energyStatus"`
	OperatingRange  string       `json:"operatingRange"`
}

// Adequate reports whether both verdicts are favourable.
func (r *DerivedResult) Adequate() bool {
	return r.DesignStatus == DesignOptimal && r.EnergyStatus == EnergyTargetMet
}
