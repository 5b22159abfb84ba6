// ABOUTME: Input validation for BESS design parameters
// ABOUTME: Rejects non-positive denominators and non-finite values before computing

package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Simtestlab/bess-handbook/models"
)

// ErrInvalidDesign is matched by every *ValidationError via errors.Is
var ErrInvalidDesign = errors.New("invalid design input")

// ValidationError lists every field that prevents a design from being computed
type ValidationError struct {
	Violations []models.Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s=%g: %s", v.Field, v.Value, v.Reason))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidDesign, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDesign
}

// Fields returns the names of the offending fields in order
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return fields
}

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in log lines
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

type fieldCheck struct {
	field    string
	value    float64
	positive bool // Must be > 0 in addition to finite
}

// Validate checks an input before it reaches the engine. It returns nil or a
// *ValidationError naming all offending fields.
func Validate(in models.DesignInput) error {
	checks := []fieldCheck{
		{"cellVoltage", in.CellVoltage, true},
		{"cellCapacity", in.CellCapacity, true},
		{"cellMaxVoltage", in.CellMaxVoltage, false},
		{"cellMinVoltage", in.CellMinVoltage, false},
		{"seriesCells", float64(in.SeriesCells), true},
		{"parallelCells", float64(in.ParallelCells), true},
		{"seriesModules", float64(in.SeriesModules), true},
		{"parallelModules", float64(in.ParallelModules), true},
		{"targetEnergy", in.TargetEnergy, false},
		{"targetRackEnergy", in.TargetRackEnergy, true},
		{"dod", in.DOD, false},
		{"cRate", in.CRate, true},
		{"efficiency", in.Efficiency, false},
		{"cellsPerIC", float64(in.CellsPerIC), true},
		{"maxICPerChain", float64(in.MaxICPerChain), true},
		{"protectionMargin", in.ProtectionMargin, false},
		{"peakMultiplier", in.PeakMultiplier, false},
		{"packResistanceMilliOhm", in.PackResistanceMilliOhm, false},
	}

	var violations []models.Violation
	for _, c := range checks {
		switch {
		case math.IsNaN(c.value) || math.IsInf(c.value, 0):
			violations = append(violations, models.Violation{Field: c.field, Value: c.value, Reason: "must be a finite number"})
		case c.positive && c.value <= 0:
			violations = append(violations, models.Violation{Field: c.field, Value: c.value, Reason: "must be greater than zero"})
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func invalid(field string, value float64, reason string) *ValidationError {
	return &ValidationError{Violations: []models.Violation{{Field: field, Value: value, Reason: reason}}}
}
