// Package flexibility assembles the GH×GH flexibility matrix F and the
// independent vector e0 via virtual work, per spec §4.F, grounded on
// the original's trabajos_virtuales.py (coeficientes_flexibilidad /
// calcular_e0).
package flexibility

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/goframe/internal/geometry"
	"github.com/alexiusacademia/goframe/internal/model"
	"github.com/alexiusacademia/goframe/internal/policy"
	"github.com/alexiusacademia/goframe/internal/redundant"
	"github.com/alexiusacademia/goframe/internal/substructure"
)

// Options selects which extra flexibility terms the assembler includes,
// mirroring spec §6's include_axial_flexibility / include_shear_flexibility.
type Options struct {
	IncludeAxial            bool
	IncludeShear            bool
	SimpsonPoints           int // odd, default policy.DefaultIntegrationPoints
	ShearFactor             float64
}

func (o Options) points() int {
	if o.SimpsonPoints <= 1 {
		return policy.DefaultIntegrationPoints
	}
	if o.SimpsonPoints%2 == 0 {
		return o.SimpsonPoints + 1
	}
	return o.SimpsonPoints
}

// linear reports whether a diagram, sampled at its own segment breaks,
// behaves as a single straight line end to end — the Mohr closed-form
// precondition.
func linear(d geometry.Diagram) bool {
	if d.L <= 1e-12 {
		return true
	}
	v0 := d.Eval(0)
	slope := (d.Eval(d.L) - v0) / d.L
	for _, s := range d.Segments {
		if math.Abs(s.Coef[2]) > 1e-9 || math.Abs(s.Coef[3]) > 1e-9 {
			return false
		}
		if math.Abs(s.Coef[1]-slope) > 1e-9 || math.Abs(s.Coef[0]-(v0+slope*s.X0)) > 1e-9 {
			return false
		}
	}
	return true
}

// mohr evaluates the trapezoid×trapezoid closed form for two linear
// diagrams over [0, L], divided by a stiffness k = E*I (or E*A).
func mohr(L float64, dp, dd geometry.Diagram, k float64) float64 {
	mip, mjp := dp.Eval(0), dp.Eval(L)
	mid, mjd := dd.Eval(0), dd.Eval(L)
	return (L / 6) * (mip*(2*mid+mjd) + mjp*(mid+2*mjd)) / k
}

// simpson integrates f(x)*g(x)/k over [0, L] with n (odd) sample points.
func simpson(L float64, f, g func(float64) float64, k float64, n int) float64 {
	if n < 3 {
		n = 3
	}
	if n%2 == 0 {
		n++
	}
	h := L / float64(n-1)
	sum := f(0)*g(0) + f(L)*g(L)
	for i := 1; i < n-1; i++ {
		x := float64(i) * h
		w := 4.0
		if i%2 == 0 {
			w = 2.0
		}
		sum += w * f(x) * g(x)
	}
	return (h / 3) * sum / k
}

// integral picks the Mohr closed form when both diagrams are linear
// over the whole bar, else falls back to Simpson — spec §4.F's
// automatic strategy selection.
func integral(L float64, dp, dd geometry.Diagram, k float64, n int) float64 {
	if linear(dp) && linear(dd) {
		return mohr(L, dp, dd, k)
	}
	return simpson(L, dp.Eval, dd.Eval, k, n)
}

// Assemble builds F and e0 for the chosen redundants, given the primary
// and unit substructures substructure.GenerateAll produced.
func Assemble(m *model.Model, reds []redundant.Redundant, primary *substructure.Substructure, units []*substructure.Substructure, opts Options) (F *mat.SymDense, e0 []float64, warnings []string) {
	gh := len(reds)
	F = mat.NewSymDense(gh, nil)
	e0 = make([]float64, gh)
	n := opts.points()

	for i := 0; i < gh; i++ {
		for j := i; j < gh; j++ {
			var sum float64
			for _, b := range m.Bars {
				L := b.Length()
				mi := units[i].Diagrams[b.ID].M
				mj := units[j].Diagrams[b.ID].M
				sum += integral(L, mi, mj, b.EI(), n)
				if opts.IncludeAxial {
					ni := units[i].Diagrams[b.ID].N
					nj := units[j].Diagrams[b.ID].N
					sum += integral(L, ni, nj, b.EA(), n)
				}
				if opts.IncludeShear && opts.ShearFactor > 0 {
					vi := units[i].Diagrams[b.ID].V
					vj := units[j].Diagrams[b.ID].V
					ga := shearStiffness(b, opts.ShearFactor)
					sum += integral(L, vi, vj, ga, n)
				}
			}
			F.SetSym(i, j, sum)
		}
	}

	for i, ri := range reds {
		if ri.Kind == redundant.InternalM {
			continue
		}
		spring, dofIdx := releasedSpring(m, ri)
		if spring == nil {
			continue
		}
		k := springRigidity(spring, dofIdx)
		if k > 0 {
			F.SetSym(i, i, F.At(i, i)+1/k)
		}
	}

	for i := range reds {
		var sum float64
		for _, b := range m.Bars {
			L := b.Length()
			mi := units[i].Diagrams[b.ID].M
			m0 := primary.Diagrams[b.ID].M
			sum += integral(L, mi, m0, b.EI(), n)
			if opts.IncludeAxial {
				ni := units[i].Diagrams[b.ID].N
				n0 := primary.Diagrams[b.ID].N
				sum += integral(L, ni, n0, b.EA(), n)
			}
		}

		for _, l := range m.Loads {
			th, ok := l.(*model.Thermal)
			if !ok {
				continue
			}
			ni := units[i].Diagrams[th.Bar.ID].N
			mi := units[i].Diagrams[th.Bar.ID].M
			L := th.Bar.Length()
			if th.DeltaTu != 0 {
				sum += th.Bar.Material.Alpha * th.DeltaTu * simpsonSingle(L, ni.Eval, n)
			}
			if th.DeltaTGrad != 0 {
				h := th.Bar.Section.Depth()
				if h > 1e-12 {
					sum += (th.Bar.Material.Alpha * th.DeltaTGrad / h) * simpsonSingle(L, mi.Eval, n)
				}
			}
		}

		for _, nd := range m.Nodes {
			spring, ok := nd.Support.(*model.ElasticSpring)
			if !ok {
				continue
			}
			if isReleasedHere(reds, i, nd.ID) {
				continue
			}
			r0 := primary.Reaction(nd.ID)
			ri := units[i].Reaction(nd.ID)
			if spring.Kx > 0 {
				sum += ri[0] * (r0[0] / spring.Kx)
			}
			if spring.Ky > 0 {
				sum += ri[1] * (r0[1] / spring.Ky)
			}
			if spring.Ktheta > 0 {
				sum += ri[2] * (r0[2] / spring.Ktheta)
			}
		}

		for _, l := range m.Loads {
			pm, ok := l.(*model.PrescribedMovement)
			if !ok {
				continue
			}
			if pm.Node.ID == redundantNodeID(reds[i]) {
				continue
			}
			ri := units[i].Reaction(pm.Node.ID)
			sum += ri[0]*pm.Dx + ri[1]*pm.Dy + ri[2]*pm.Dtheta
		}

		e0[i] = sum
	}

	warnings = checkConditioning(F)
	return F, e0, warnings
}

func redundantNodeID(r redundant.Redundant) int {
	if r.Kind == redundant.InternalM {
		return -1
	}
	return r.NodeID
}

func isReleasedHere(reds []redundant.Redundant, i, nodeID int) bool {
	r := reds[i]
	return r.Kind != redundant.InternalM && r.NodeID == nodeID
}

func releasedSpring(m *model.Model, r redundant.Redundant) (*model.ElasticSpring, int) {
	if r.Kind == redundant.InternalM {
		return nil, 0
	}
	for _, n := range m.Nodes {
		if n.ID != r.NodeID {
			continue
		}
		spring, ok := n.Support.(*model.ElasticSpring)
		if !ok {
			return nil, 0
		}
		idx := map[redundant.Kind]int{redundant.ReactionRx: 0, redundant.ReactionRy: 1, redundant.ReactionMz: 2}[r.Kind]
		return spring, idx
	}
	return nil, 0
}

func springRigidity(s *model.ElasticSpring, dof int) float64 {
	switch dof {
	case 0:
		return s.Kx
	case 1:
		return s.Ky
	default:
		return s.Ktheta
	}
}

// shearStiffness returns G*A/factor, falling back to a nominal G when
// the material carries none (shear is an opt-in refinement, spec §6).
func shearStiffness(b *model.Bar, shearFactor float64) float64 {
	g := b.Material.E / 2.6
	return g * b.Section.Area() / shearFactor
}

func simpsonSingle(L float64, f func(float64) float64, n int) float64 {
	return simpson(L, f, func(float64) float64 { return 1 }, 1, n)
}

// checkConditioning checks for a positive diagonal and a condition
// number below policy.ConditionNumberWarning, returning warnings rather
// than failing — spec §4.F. F is a SymDense, so it is symmetric by
// construction and no separate symmetry check is made.
func checkConditioning(F *mat.SymDense) []string {
	var warnings []string
	n, _ := F.Dims()
	for i := 0; i < n; i++ {
		if F.At(i, i) <= 0 {
			warnings = append(warnings, "flexibility matrix has a non-positive diagonal entry; redundant choice may be degenerate")
			break
		}
	}
	var cond float64
	var eig mat.EigenSym
	if ok := eig.Factorize(F, false); ok {
		values := eig.Values(nil)
		lo, hi := values[0], values[0]
		for _, v := range values {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if lo > 0 {
			cond = hi / lo
		}
	}
	if cond > policy.ConditionNumberWarning {
		warnings = append(warnings, "flexibility matrix is ill-conditioned; consider a different redundant choice")
	}
	return warnings
}
