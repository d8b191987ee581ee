// Package analysis is the top-level orchestrator: analyze(model,
// options) -> Result, the core's single entry point (spec §6),
// grounded on the original's MotorMetodoFuerzas (motor_fuerzas.py).
package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/goframe/internal/flexibility"
	"github.com/alexiusacademia/goframe/internal/geometry"
	"github.com/alexiusacademia/goframe/internal/indeterminacy"
	"github.com/alexiusacademia/goframe/internal/model"
	"github.com/alexiusacademia/goframe/internal/policy"
	"github.com/alexiusacademia/goframe/internal/redundant"
	"github.com/alexiusacademia/goframe/internal/solver"
	"github.com/alexiusacademia/goframe/internal/substructure"
)

// ErrorKind tags why an analysis failed, observable without matching
// error text (spec §7).
type ErrorKind int

const (
	ModelInvalid ErrorKind = iota
	Unstable
	CannotSelectRedundants
	SubstructureFailure
	SolverFailure
	NonFiniteResult
)

func (k ErrorKind) String() string {
	switch k {
	case ModelInvalid:
		return "ModelInvalid"
	case Unstable:
		return "Unstable"
	case CannotSelectRedundants:
		return "CannotSelectRedundants"
	case SubstructureFailure:
		return "SubstructureFailure"
	case SolverFailure:
		return "SolverFailure"
	case NonFiniteResult:
		return "NonFiniteResult"
	}
	return "Unknown"
}

// Error is the tagged fatal error the pipeline propagates.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

// Options mirrors spec §6's analyze() options.
type Options struct {
	ManualRedundants     []redundant.Redundant
	IncludeAxialFlex     bool
	// IncludeShearFlex is passed on to flexibility.Options.IncludeShear,
	// but Analyze sets no ShearFactor, so no shear term is added to F.
	IncludeShearFlex     bool
	Solver               solver.Strategy
	IntegrationPoints    int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{Solver: solver.Direct, IntegrationPoints: policy.DefaultIntegrationPoints}
}

// Result is the core's sole output type (spec §6).
type Result struct {
	Success         bool
	Degree          int
	Redundants      []redundant.Redundant
	X               []float64
	Reactions       map[int][3]float64
	Diagrams        map[int]BarResult
	F               *mat.SymDense
	E0              []float64
	ConditionNumber float64
	SeceResidual    float64
	SpringDisplacements map[int][3]float64
	Warnings        []string
	Errors          []string
}

// BarResult bundles the three final diagrams for one bar.
type BarResult struct {
	N, V, M geometry.Diagram
}

func fail(r *Result, kind ErrorKind, format string, args ...any) *Result {
	r.Success = false
	r.Errors = append(r.Errors, (&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}).Error())
	return r
}

// Analyze runs the full 8-stage pipeline of spec §2/§4 over m and
// returns an independent Result. It never mutates m.
func Analyze(m *model.Model, opts Options) *Result {
	res := &Result{Reactions: map[int][3]float64{}, Diagrams: map[int]BarResult{}, SpringDisplacements: map[int][3]float64{}}

	if err := m.Validate(); err != nil {
		return fail(res, ModelInvalid, "%s", err)
	}

	gh, class := indeterminacy.Compute(m)
	res.Degree = gh
	if class == indeterminacy.Unstable {
		return fail(res, Unstable, "GH=%d: released structure cannot be stable", gh)
	}

	if class == indeterminacy.Isostatic {
		return analyzeIsostatic(m, res)
	}

	var reds []redundant.Redundant
	var err error
	if opts.ManualRedundants != nil {
		reds, err = redundant.ValidateManual(m, gh, opts.ManualRedundants)
	} else {
		reds, err = redundant.SelectAutomatic(m, gh)
	}
	if err != nil {
		return fail(res, CannotSelectRedundants, "%s", err)
	}
	res.Redundants = reds

	gen := substructure.NewGenerator(m, reds)
	primary, units, err := gen.GenerateAll()
	if err != nil {
		return fail(res, SubstructureFailure, "%s", err)
	}
	res.Warnings = append(res.Warnings, gen.Warnings()...)

	flexOpts := flexibility.Options{
		IncludeAxial:  opts.IncludeAxialFlex,
		IncludeShear:  opts.IncludeShearFlex,
		SimpsonPoints: opts.IntegrationPoints,
	}
	F, e0, fwarn := flexibility.Assemble(m, reds, primary, units, flexOpts)
	res.F = F
	res.E0 = e0
	res.Warnings = append(res.Warnings, fwarn...)

	b := rightHandSide(m, reds, e0)

	strategy := opts.Solver
	sol, err := solver.Solve(F, b, strategy, 0, policy.CompatibilityTolerance)
	if err != nil {
		if err == solver.ErrNonFinite {
			return fail(res, NonFiniteResult, "%s", err)
		}
		return fail(res, SolverFailure, "%s", err)
	}
	res.Warnings = append(res.Warnings, sol.Warnings...)
	res.ConditionNumber = sol.ConditionNumber
	res.SeceResidual = sol.Residual

	if sol.Residual > policy.CompatibilityTolerance {
		return fail(res, SolverFailure, "compatibility residual %.3g exceeds tolerance", sol.Residual)
	}

	res.X = sol.X
	superpose(m, reds, primary, units, sol.X, res)
	res.Warnings = append(res.Warnings, checkEquilibrium(m, res)...)

	res.Success = true
	return res
}

// rightHandSide builds e_h: the matching component of a redundant's own
// prescribed movement, zero otherwise (spec §4.G).
func rightHandSide(m *model.Model, reds []redundant.Redundant, e0 []float64) []float64 {
	b := make([]float64, len(reds))
	for i, r := range reds {
		eh := 0.0
		if r.Kind == redundant.InternalM {
			b[i] = eh - e0[i]
			continue
		}
		for _, l := range m.Loads {
			pm, ok := l.(*model.PrescribedMovement)
			if !ok || pm.Node.ID != r.NodeID {
				continue
			}
			switch r.Kind {
			case redundant.ReactionRx:
				eh = pm.Dx
			case redundant.ReactionRy:
				eh = pm.Dy
			case redundant.ReactionMz:
				eh = pm.Dtheta
			}
		}
		b[i] = eh - e0[i]
	}
	return b
}

// superpose combines N_f = N0 + Sum Xi*Ni (idem V, M, reactions) and
// records elastic-spring displacements (spec §4.H).
func superpose(m *model.Model, reds []redundant.Redundant, primary *substructure.Substructure, units []*substructure.Substructure, X []float64, res *Result) {
	for _, b := range m.Bars {
		n := superposeDiagram(b.Length(), primary.Diagrams[b.ID].N, units, b.ID, X, func(bd substructure.BarDiagrams) geometry.Diagram { return bd.N })
		v := superposeDiagram(b.Length(), primary.Diagrams[b.ID].V, units, b.ID, X, func(bd substructure.BarDiagrams) geometry.Diagram { return bd.V })
		mz := superposeDiagram(b.Length(), primary.Diagrams[b.ID].M, units, b.ID, X, func(bd substructure.BarDiagrams) geometry.Diagram { return bd.M })
		res.Diagrams[b.ID] = BarResult{N: n, V: v, M: mz}
	}

	for _, n := range m.Nodes {
		if n.Support == nil {
			continue
		}
		r := primary.Reaction(n.ID)
		for i, xi := range X {
			ri := units[i].Reaction(n.ID)
			r[0] += xi * ri[0]
			r[1] += xi * ri[1]
			r[2] += xi * ri[2]
		}
		res.Reactions[n.ID] = r

		if spring, ok := n.Support.(*model.ElasticSpring); ok {
			var disp [3]float64
			for i, red := range reds {
				if red.Kind == redundant.InternalM || red.NodeID != n.ID {
					continue
				}
				idx := map[redundant.Kind]int{redundant.ReactionRx: 0, redundant.ReactionRy: 1, redundant.ReactionMz: 2}[red.Kind]
				if k := [3]float64{spring.Kx, spring.Ky, spring.Ktheta}[idx]; k > 0 {
					disp[idx] = -X[i] / k
				}
			}
			if spring.Kx > 0 || spring.Ky > 0 || spring.Ktheta > 0 {
				res.SpringDisplacements[n.ID] = disp
			}
		}
	}
}

// superposeDiagram builds N_f = N0 + Sum Xi*Ni (spec §4.H) exactly,
// by merging every contributing diagram's segment breakpoints into one
// common partition of [0, L] and summing each diagram's polynomial
// coefficients (Taylor-shifted to the merged segment's own origin)
// rather than resampling the closed-form sum into a piecewise-linear
// approximation.
func superposeDiagram(L float64, base geometry.Diagram, units []*substructure.Substructure, barID int, X []float64, pick func(substructure.BarDiagrams) geometry.Diagram) geometry.Diagram {
	terms := make([]weightedDiagram, 0, len(X)+1)
	terms = append(terms, weightedDiagram{weight: 1, d: base})
	for i, xi := range X {
		terms = append(terms, weightedDiagram{weight: xi, d: pick(units[i].Diagrams[barID])})
	}
	return mergeDiagrams(L, terms)
}

// weightedDiagram is one term of a linear combination of diagrams.
type weightedDiagram struct {
	weight float64
	d      geometry.Diagram
}

// mergeDiagrams sums weight*d over terms exactly, by building the
// sorted union of every term's segment breakpoints and, on each
// resulting sub-interval, summing the terms' polynomial coefficients
// shifted to that sub-interval's own origin.
func mergeDiagrams(L float64, terms []weightedDiagram) geometry.Diagram {
	breakSet := map[float64]struct{}{0: {}, L: {}}
	for _, t := range terms {
		for _, s := range t.d.Segments {
			breakSet[s.X0] = struct{}{}
			breakSet[s.X1] = struct{}{}
		}
	}
	breaks := make([]float64, 0, len(breakSet))
	for x := range breakSet {
		breaks = append(breaks, x)
	}
	sort.Float64s(breaks)

	segs := make([]geometry.Segment, 0, len(breaks))
	for i := 0; i+1 < len(breaks); i++ {
		x0, x1 := breaks[i], breaks[i+1]
		if x1-x0 < 1e-9 {
			continue
		}
		var coef [4]float64
		for _, t := range terms {
			c := shiftCoef(t.d, x0)
			for k := range coef {
				coef[k] += t.weight * c[k]
			}
		}
		segs = append(segs, geometry.Segment{X0: x0, X1: x1, Coef: coef})
	}
	return geometry.Diagram{L: L, Segments: segs}
}

// shiftCoef returns d's polynomial coefficients at x, re-expressed
// about origin x (a Taylor shift of the cubic owning x), so that a sum
// of shifted coefficients from several diagrams evaluates correctly
// over a sub-interval no single diagram's own segmentation exposed.
func shiftCoef(d geometry.Diagram, x float64) [4]float64 {
	s := segmentAt(d, x)
	delta := x - s.X0
	c := s.Coef
	return [4]float64{
		c[0] + c[1]*delta + c[2]*delta*delta + c[3]*delta*delta*delta,
		c[1] + 2*c[2]*delta + 3*c[3]*delta*delta,
		c[2] + 3*c[3]*delta,
		c[3],
	}
}

// segmentAt returns the segment of d containing x, tolerant of x
// landing exactly on a boundary.
func segmentAt(d geometry.Diagram, x float64) geometry.Segment {
	for _, s := range d.Segments {
		if x >= s.X0-1e-9 && x <= s.X1+1e-9 {
			return s
		}
	}
	if len(d.Segments) > 0 {
		return d.Segments[len(d.Segments)-1]
	}
	return geometry.Segment{}
}

// analyzeIsostatic recovers reactions by direct equilibrium and
// diagrams by the section method, skipping the force-method body
// entirely (spec §4.C / §8 "Isostatic path").
func analyzeIsostatic(m *model.Model, res *Result) *Result {
	gen := substructure.NewGenerator(m, nil)
	primary, _, err := gen.GenerateAll()
	if err != nil {
		return fail(res, Unstable, "%s", err)
	}

	for _, n := range m.Nodes {
		if n.Support != nil {
			res.Reactions[n.ID] = primary.Reaction(n.ID)
		}
	}
	for _, b := range m.Bars {
		d := primary.Diagrams[b.ID]
		res.Diagrams[b.ID] = BarResult{N: d.N, V: d.V, M: d.M}
	}

	res.Warnings = append(res.Warnings, checkEquilibrium(m, res)...)
	res.Success = true
	return res
}

// checkEquilibrium is the non-fatal global-equilibrium check of spec
// §4.H / §8.
func checkEquilibrium(m *model.Model, res *Result) []string {
	var fx, fy, mz float64
	ref := geometry.Point{}
	if len(m.Nodes) > 0 {
		ref = m.Nodes[0].Point()
	}
	for _, n := range m.Nodes {
		if r, ok := res.Reactions[n.ID]; ok {
			fx += r[0]
			fy += r[1]
			mz += r[2] + geometry.MomentOfForce(ref, n.Point(), r[0], r[1])
		}
	}
	for _, l := range substructure.ExternalLoadResultants(m) {
		fx += l.Fx
		fy += l.Fy
		mz += l.Mz + geometry.MomentOfForce(ref, l.At, l.Fx, l.Fy)
	}
	var warnings []string
	if math.Abs(fx) > policy.EquilibriumTolerance || math.Abs(fy) > policy.EquilibriumTolerance || math.Abs(mz) > policy.EquilibriumTolerance {
		warnings = append(warnings, fmt.Sprintf("global equilibrium residual exceeds tolerance: Fx=%.4g Fy=%.4g M=%.4g", fx, fy, mz))
	}
	return warnings
}
