// Package policy holds the process-wide numeric tolerances used across
// the analysis pipeline. Some packages also use literal guards of their
// own (1e-9, 1e-12) for near-zero lengths and coefficients.
package policy

const (
	// LengthTolerance bounds bar-length and node-coincidence checks (m).
	LengthTolerance = 1e-9

	// EquilibriumTolerance bounds residuals of ΣFx, ΣFy, ΣM checks (kN, kNm).
	EquilibriumTolerance = 1e-6

	// CompatibilityTolerance bounds the SECE residual ‖F·X - b‖.
	CompatibilityTolerance = 1e-6

	// SymmetryTolerance bounds ‖F - Fᵀ‖ for the Maxwell-Betti check.
	SymmetryTolerance = 1e-8

	// ConditionNumberWarning is the cond(F) threshold above which a
	// redundant-reselection warning is issued.
	ConditionNumberWarning = 1e8

	// DefaultIntegrationPoints is the default Simpson sample count.
	// Must stay odd; composite Simpson requires an even number of panels.
	DefaultIntegrationPoints = 21
)
