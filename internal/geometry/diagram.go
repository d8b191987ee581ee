package geometry

import "sort"

// Segment is one piece of a piecewise-polynomial diagram, valid on
// [X0, X1], evaluated as:
//
//	f(x) = Coef[0] + Coef[1]*(x-X0) + Coef[2]*(x-X0)^2 + Coef[3]*(x-X0)^3
type Segment struct {
	X0, X1 float64
	Coef   [4]float64
}

func (s Segment) eval(x float64) float64 {
	dx := x - s.X0
	return s.Coef[0] + s.Coef[1]*dx + s.Coef[2]*dx*dx + s.Coef[3]*dx*dx*dx
}

// Diagram is a tagged piecewise-polynomial function on [0, L] — the
// representation spec §9 suggests in place of a bare closure, so a
// diagram can be serialized, compared, and sampled without re-running
// the pipeline that produced it.
type Diagram struct {
	L        float64
	Segments []Segment
}

// Eval samples the diagram at x, clamped to [0, L].
func (d Diagram) Eval(x float64) float64 {
	if x < 0 {
		x = 0
	}
	if x > d.L {
		x = d.L
	}
	for _, s := range d.Segments {
		if x >= s.X0 && x <= s.X1+1e-12 {
			return s.eval(x)
		}
	}
	if len(d.Segments) == 0 {
		return 0
	}
	return d.Segments[len(d.Segments)-1].eval(x)
}

// ConstantDiagram returns a single-segment diagram of constant value v.
func ConstantDiagram(L, v float64) Diagram {
	return Diagram{L: L, Segments: []Segment{{X0: 0, X1: L, Coef: [4]float64{v, 0, 0, 0}}}}
}

// LinearDiagram returns a single-segment diagram going from v0 at x=0
// to v1 at x=L.
func LinearDiagram(L, v0, v1 float64) Diagram {
	slope := 0.0
	if L > 1e-12 {
		slope = (v1 - v0) / L
	}
	return Diagram{L: L, Segments: []Segment{{X0: 0, X1: L, Coef: [4]float64{v0, slope, 0, 0}}}}
}

// PointAction is a concentrated force/moment applied at local position
// X along a bar, in the bar's local axes (Fx axial, Fy transverse,
// Mz a concentrated couple).
type PointAction struct {
	X          float64
	Fx, Fy, Mz float64
}

// DistributedAction is a linearly varying load between X1 and X2 in
// the bar's local axes: axial intensity from Qx1 to Qx2, transverse
// intensity from Qy1 to Qy2.
type DistributedAction struct {
	X1, X2         float64
	Qx1, Qx2       float64
	Qy1, Qy2       float64
}

// BuildSectionDiagrams constructs N, V, M as piecewise polynomials on
// [0, L] by the section method: summing, left to right, the end-i
// reaction plus every point and distributed action lying at or before
// the running position. Rx, Ry, Mi are N(0), V(0), M(0) — the end-i
// local reaction/known values.
//
// Grounded on spec §4.B: N comes from the local-x component of
// everything to the left, V from the local-y component, and M
// accumulates as dM/dx = -V(x) with a direct jump of Mz at every
// concentrated-couple position — the sign consistent with the moment
// formula M = -Fy*(xp-xf) + Fx*(yp-yf) for loads lying on the bar axis.
func BuildSectionDiagrams(L, Rx, Ry, Mi float64, points []PointAction, dists []DistributedAction) (N, V, M Diagram) {
	bp := breakpoints(L, points, dists)

	var nSegs, vSegs, mSegs []Segment
	nCur, vCur, mCur := Rx, Ry, Mi

	// Apply any point actions sitting exactly at x=0 (in addition to
	// the end reaction already folded into nCur/vCur/mCur).
	for _, p := range points {
		if p.X <= 1e-12 {
			nCur += p.Fx
			vCur += p.Fy
			mCur += p.Mz
		}
	}

	for i := 0; i < len(bp)-1; i++ {
		a, b := bp[i], bp[i+1]

		qx0, qx1 := activeAxial(dists, a, b)
		qy0, qy1 := activeTransverse(dists, a, b)

		// N(x) = nCur + ∫_a^x qx(t) dt, qx linear on [a,b].
		nSlope := qx0
		nCurv := (qx1 - qx0) / (2 * segLen(a, b))
		if segLen(a, b) < 1e-12 {
			nCurv = 0
		}
		nSegs = append(nSegs, Segment{X0: a, X1: b, Coef: [4]float64{nCur, nSlope, nCurv, 0}})

		// V(x) = vCur + ∫_a^x qy(t) dt.
		vSlope := qy0
		vCurv := (qy1 - qy0) / (2 * segLen(a, b))
		if segLen(a, b) < 1e-12 {
			vCurv = 0
		}
		vSegs = append(vSegs, Segment{X0: a, X1: b, Coef: [4]float64{vCur, vSlope, vCurv, 0}})

		// M(x) = mCur - ∫_a^x V(t) dt, V(t) = vCur + vSlope*dt + vCurv*dt^2.
		mSegs = append(mSegs, Segment{
			X0: a, X1: b,
			Coef: [4]float64{mCur, -vCur, -vSlope / 2, -vCurv / 3},
		})

		dx := segLen(a, b)
		nEnd := nCur + nSlope*dx + nCurv*dx*dx
		vEnd := vCur + vSlope*dx + vCurv*dx*dx
		mEnd := mCur - vCur*dx - (vSlope/2)*dx*dx - (vCurv/3)*dx*dx*dx

		nCur, vCur, mCur = nEnd, vEnd, mEnd

		// Apply point actions located exactly at b (affecting the
		// next segment onward).
		for _, p := range points {
			if approxEq(p.X, b) && b < L-1e-12 {
				nCur += p.Fx
				vCur += p.Fy
				mCur += p.Mz
			}
		}
	}

	return Diagram{L: L, Segments: nSegs}, Diagram{L: L, Segments: vSegs}, Diagram{L: L, Segments: mSegs}
}

func segLen(a, b float64) float64 { return b - a }

func approxEq(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}

func activeAxial(dists []DistributedAction, a, b float64) (q0, q1 float64) {
	for _, d := range dists {
		if a >= d.X1-1e-9 && b <= d.X2+1e-9 {
			q0 = interp(d.X1, d.Qx1, d.X2, d.Qx2, a)
			q1 = interp(d.X1, d.Qx1, d.X2, d.Qx2, b)
		}
	}
	return
}

func activeTransverse(dists []DistributedAction, a, b float64) (q0, q1 float64) {
	for _, d := range dists {
		if a >= d.X1-1e-9 && b <= d.X2+1e-9 {
			q0 = interp(d.X1, d.Qy1, d.X2, d.Qy2, a)
			q1 = interp(d.X1, d.Qy1, d.X2, d.Qy2, b)
		}
	}
	return
}

func interp(x1, y1, x2, y2, x float64) float64 {
	if x2-x1 < 1e-12 {
		return y1
	}
	t := (x - x1) / (x2 - x1)
	return y1 + t*(y2-y1)
}

func breakpoints(L float64, points []PointAction, dists []DistributedAction) []float64 {
	set := map[float64]struct{}{0: {}, L: {}}
	for _, p := range points {
		set[clamp(p.X, L)] = struct{}{}
	}
	for _, d := range dists {
		set[clamp(d.X1, L)] = struct{}{}
		set[clamp(d.X2, L)] = struct{}{}
	}
	out := make([]float64, 0, len(set))
	for x := range set {
		out = append(out, x)
	}
	sort.Float64s(out)
	// Drop near-duplicate breakpoints introduced by floating point jitter.
	dedup := out[:0]
	for i, x := range out {
		if i == 0 || x-dedup[len(dedup)-1] > 1e-9 {
			dedup = append(dedup, x)
		}
	}
	return dedup
}

func clamp(x, L float64) float64 {
	if x < 0 {
		return 0
	}
	if x > L {
		return L
	}
	return x
}
