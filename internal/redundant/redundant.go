// Package redundant selects the GH unknowns released to form the
// primary structure, by the automatic heuristic of spec §4.D or by a
// caller-supplied manual list, grounded on the original's
// SelectorRedundantes (redundantes.py).
package redundant

import (
	"fmt"
	"sort"

	"github.com/alexiusacademia/goframe/internal/model"
)

// Kind names what a Redundant releases.
type Kind int

const (
	ReactionRx Kind = iota
	ReactionRy
	ReactionMz
	InternalM
)

// Redundant is a tagged record identifying one released unknown
// (spec §4.D).
type Redundant struct {
	Kind        Kind
	NodeID      int     // for ReactionRx/Ry/Mz
	BarID       int     // for InternalM
	Position    float64 // for InternalM: 0 or L
	Description string
	Index       int // 1-based, assignment order
}

// priority orders candidates for the automatic heuristic:
// Mz reactions, then Ry, then Rx, then internal moments.
func priority(k Kind) int {
	switch k {
	case ReactionMz:
		return 0
	case ReactionRy:
		return 1
	case ReactionRx:
		return 2
	case InternalM:
		return 3
	}
	return 4
}

// candidates enumerates every restrained DOF of every support (mapped
// to a reaction kind) and every internal moment at a node where at
// least two unsupported bars meet.
func candidates(m *model.Model) []Redundant {
	var cands []Redundant

	for _, n := range m.Nodes {
		if n.Support == nil {
			continue
		}
		restrained := n.Support.Restrained()
		if restrained[0] {
			cands = append(cands, Redundant{Kind: ReactionRx, NodeID: n.ID,
				Description: fmt.Sprintf("Rx at node %d", n.ID)})
		}
		if restrained[1] {
			cands = append(cands, Redundant{Kind: ReactionRy, NodeID: n.ID,
				Description: fmt.Sprintf("Ry at node %d", n.ID)})
		}
		if restrained[2] {
			cands = append(cands, Redundant{Kind: ReactionMz, NodeID: n.ID,
				Description: fmt.Sprintf("Mz at node %d", n.ID)})
		}
	}

	// Internal moments at nodes where >= 2 unsupported bars meet.
	incident := map[int][]*model.Bar{}
	for _, b := range m.Bars {
		incident[b.NodeI.ID] = append(incident[b.NodeI.ID], b)
		incident[b.NodeJ.ID] = append(incident[b.NodeJ.ID], b)
	}
	for _, n := range m.Nodes {
		if n.Support != nil {
			continue
		}
		bars := incident[n.ID]
		if len(bars) < 2 {
			continue
		}
		for _, b := range bars {
			pos := 0.0
			atJ := b.NodeJ.ID == n.ID
			if atJ {
				pos = b.Length()
			}
			cands = append(cands, Redundant{Kind: InternalM, BarID: b.ID, Position: pos,
				Description: fmt.Sprintf("internal moment on bar %d at node %d", b.ID, n.ID)})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return priority(cands[i].Kind) < priority(cands[j].Kind)
	})
	return cands
}

// stable applies the stability filter of spec §4.D to a tentative
// selection: reject if releasing it would leave fewer than 3 restraints
// globally, or if it releases every restrained DOF of some support.
func stable(m *model.Model, chosen []Redundant) bool {
	releasedPerNode := map[int]map[Kind]bool{}
	for _, r := range chosen {
		if r.Kind == InternalM {
			continue
		}
		if releasedPerNode[r.NodeID] == nil {
			releasedPerNode[r.NodeID] = map[Kind]bool{}
		}
		releasedPerNode[r.NodeID][r.Kind] = true
	}

	remaining := 0
	for _, n := range m.Nodes {
		if n.Support == nil {
			continue
		}
		restrained := n.Support.Restrained()
		released := releasedPerNode[n.ID]
		total := 0
		kinds := [3]Kind{ReactionRx, ReactionRy, ReactionMz}
		for i, r := range restrained {
			if !r {
				continue
			}
			total++
			if released[kinds[i]] {
				total--
			}
		}
		remaining += total

		if total == 0 && model.RestrainedDOFCount(n.Support) > 0 && released != nil {
			restrainedCount := model.RestrainedDOFCount(n.Support)
			releasedCount := len(released)
			if releasedCount >= restrainedCount {
				return false
			}
		}
	}

	return remaining >= 3
}

// SelectAutomatic implements the greedy heuristic of spec §4.D: sort
// candidates by priority and take the first gh that pass the stability
// filter as a cumulative selection.
func SelectAutomatic(m *model.Model, gh int) ([]Redundant, error) {
	cands := candidates(m)

	var chosen []Redundant
	for _, c := range cands {
		if len(chosen) == gh {
			break
		}
		trial := append(append([]Redundant{}, chosen...), c)
		if stable(m, trial) {
			chosen = trial
		}
	}

	if len(chosen) != gh {
		return nil, fmt.Errorf("cannot select %d stable redundants (found %d candidates, %d usable)", gh, len(cands), len(chosen))
	}

	for i := range chosen {
		chosen[i].Index = i + 1
	}
	return chosen, nil
}

// ValidateManual checks a caller-supplied list: count must equal gh,
// every referenced node/bar must exist, and the target DOF must
// actually be restrained.
func ValidateManual(m *model.Model, gh int, manual []Redundant) ([]Redundant, error) {
	if len(manual) != gh {
		return nil, fmt.Errorf("manual selection has %d redundants but GH=%d", len(manual), gh)
	}
	for i, r := range manual {
		switch r.Kind {
		case ReactionRx, ReactionRy, ReactionMz:
			n := findNode(m, r.NodeID)
			if n == nil || n.Support == nil {
				return nil, fmt.Errorf("redundant %d: node %d has no support", i+1, r.NodeID)
			}
			restrained := n.Support.Restrained()
			idx := map[Kind]int{ReactionRx: 0, ReactionRy: 1, ReactionMz: 2}[r.Kind]
			if !restrained[idx] {
				return nil, fmt.Errorf("redundant %d: node %d does not restrain the requested DOF", i+1, r.NodeID)
			}
		case InternalM:
			if findBar(m, r.BarID) == nil {
				return nil, fmt.Errorf("redundant %d: bar %d does not exist", i+1, r.BarID)
			}
		}
	}
	out := append([]Redundant{}, manual...)
	for i := range out {
		out[i].Index = i + 1
	}
	return out, nil
}

func findNode(m *model.Model, id int) *model.Node {
	for _, n := range m.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func findBar(m *model.Model, id int) *model.Bar {
	for _, b := range m.Bars {
		if b.ID == id {
			return b
		}
	}
	return nil
}
