// Package persist round-trips a Model to and from the UTF-8 JSON
// textual format spec §6 contracts: version, nodes, bars, materials,
// sections, loads, each a tagged kind plus parameters. Grounded on the
// teacher's JSON-tagged struct + encoding/json pattern
// (internal/section/types.go's Section/Point/RebarLayer), generalized
// here into a wire-format DTO layer since the domain model's
// Support/Section/Load families are interfaces rather than tagged
// structs.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/alexiusacademia/goframe/internal/geometry"
	"github.com/alexiusacademia/goframe/internal/model"
)

// FormatVersion is bumped whenever the wire shape changes in a way
// that is not backward compatible.
const FormatVersion = 1

type document struct {
	Version   int            `json:"version"`
	Name      string         `json:"name"`
	Materials []materialDoc  `json:"materials"`
	Sections  []sectionDoc   `json:"sections"`
	Nodes     []nodeDoc      `json:"nodes"`
	Bars      []barDoc       `json:"bars"`
	Loads     []loadDoc      `json:"loads"`
}

type materialDoc struct {
	Name  string   `json:"name"`
	E     float64  `json:"e"`
	Alpha float64  `json:"alpha"`
	Rho   *float64 `json:"rho,omitempty"`
	Nu    *float64 `json:"nu,omitempty"`
	Fy    *float64 `json:"fy,omitempty"`
}

type sectionDoc struct {
	Name string  `json:"name,omitempty"`
	Kind string  `json:"kind"`
	// Rectangular
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	// CircularSolid / CircularHollow
	Diameter      float64 `json:"diameter,omitempty"`
	OuterDiameter float64 `json:"outer_diameter,omitempty"`
	InnerDiameter float64 `json:"inner_diameter,omitempty"`
	// CatalogProfile
	Vertices []pointDoc `json:"vertices,omitempty"`
}

type pointDoc struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type nodeDoc struct {
	ID      int        `json:"id"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Name    string     `json:"name,omitempty"`
	Support *supportDoc `json:"support,omitempty"`
}

type supportDoc struct {
	Kind             string   `json:"kind"`
	Direction        string   `json:"direction,omitempty"`         // roller/guide: "ux" or "uy"
	InclinedAngleDeg *float64 `json:"inclined_angle_deg,omitempty"`
	Kx               float64  `json:"kx,omitempty"`
	Ky               float64  `json:"ky,omitempty"`
	Ktheta           float64  `json:"ktheta,omitempty"`
}

type barDoc struct {
	ID          int    `json:"id"`
	NodeI       int    `json:"node_i"`
	NodeJ       int    `json:"node_j"`
	MaterialRef string `json:"material_ref"`
	SectionRef  int    `json:"section_ref"` // index into Sections
	HingeI      bool   `json:"hinge_i,omitempty"`
	HingeJ      bool   `json:"hinge_j,omitempty"`
}

type loadDoc struct {
	Kind string `json:"kind"`

	NodeID int     `json:"node_id,omitempty"`
	BarID  int     `json:"bar_id,omitempty"`
	Fx     float64 `json:"fx,omitempty"`
	Fy     float64 `json:"fy,omitempty"`
	Mz     float64 `json:"mz,omitempty"`

	P      float64 `json:"p,omitempty"`
	A      float64 `json:"a,omitempty"`
	PhiDeg float64 `json:"phi_deg,omitempty"`

	X1 float64 `json:"x1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Q1 float64 `json:"q1,omitempty"`
	Q2 float64 `json:"q2,omitempty"`

	DeltaTu    float64 `json:"delta_tu,omitempty"`
	DeltaTGrad float64 `json:"delta_t_grad,omitempty"`

	Dx     float64 `json:"dx,omitempty"`
	Dy     float64 `json:"dy,omitempty"`
	Dtheta float64 `json:"dtheta,omitempty"`
}

// Marshal serializes m to the persisted JSON document.
func Marshal(m *model.Model) ([]byte, error) {
	doc := document{Version: FormatVersion, Name: m.Name}

	for _, mat := range m.Materials {
		doc.Materials = append(doc.Materials, materialDoc{Name: mat.Name, E: mat.E, Alpha: mat.Alpha, Rho: mat.Rho, Nu: mat.Nu, Fy: mat.Fy})
	}

	sectionIndex := map[model.Section]int{}
	for i, s := range m.Sections {
		sectionIndex[s] = i
		doc.Sections = append(doc.Sections, marshalSection(s))
	}

	for _, n := range m.Nodes {
		nd := nodeDoc{ID: n.ID, X: n.X, Y: n.Y, Name: n.Name}
		if n.Support != nil {
			sd := marshalSupport(n.Support)
			nd.Support = &sd
		}
		doc.Nodes = append(doc.Nodes, nd)
	}

	for _, b := range m.Bars {
		ref, ok := sectionIndex[b.Section]
		if !ok {
			return nil, fmt.Errorf("bar %d: section not registered in model.Sections", b.ID)
		}
		matName := ""
		if b.Material != nil {
			matName = b.Material.Name
		}
		doc.Bars = append(doc.Bars, barDoc{
			ID: b.ID, NodeI: b.NodeI.ID, NodeJ: b.NodeJ.ID,
			MaterialRef: matName, SectionRef: ref,
			HingeI: b.HingeI, HingeJ: b.HingeJ,
		})
	}

	for _, l := range m.Loads {
		ld, err := marshalLoad(l)
		if err != nil {
			return nil, err
		}
		doc.Loads = append(doc.Loads, ld)
	}

	return json.MarshalIndent(doc, "", "  ")
}

func marshalSection(s model.Section) sectionDoc {
	switch sec := s.(type) {
	case model.Rectangular:
		return sectionDoc{Kind: "rectangular", Width: sec.Width, Height: sec.Height}
	case model.CircularSolid:
		return sectionDoc{Kind: "circular_solid", Diameter: sec.Diameter}
	case model.CircularHollow:
		return sectionDoc{Kind: "circular_hollow", OuterDiameter: sec.OuterDiameter, InnerDiameter: sec.InnerDiameter}
	case *model.CatalogProfile:
		doc := sectionDoc{Kind: "catalog_profile", Name: sec.Name}
		for _, v := range sec.Vertices {
			doc.Vertices = append(doc.Vertices, pointDoc{X: v.X, Y: v.Y})
		}
		return doc
	}
	return sectionDoc{Kind: "unknown"}
}

func marshalSupport(s model.Support) supportDoc {
	switch sp := s.(type) {
	case *model.Fixed:
		return supportDoc{Kind: "fixed"}
	case *model.Pinned:
		return supportDoc{Kind: "pinned"}
	case *model.Roller:
		doc := supportDoc{Kind: "roller", Direction: rollerDirName(sp.Direction)}
		doc.InclinedAngleDeg = sp.InclinedAngleDeg
		return doc
	case *model.Guide:
		return supportDoc{Kind: "guide", Direction: rollerDirName(sp.FreeDirection)}
	case *model.ElasticSpring:
		return supportDoc{Kind: "elastic_spring", Kx: sp.Kx, Ky: sp.Ky, Ktheta: sp.Ktheta}
	}
	return supportDoc{Kind: "unknown"}
}

func rollerDirName(d model.RollerDirection) string {
	if d == model.RollerUx {
		return "ux"
	}
	return "uy"
}

func marshalLoad(l model.Load) (loadDoc, error) {
	switch load := l.(type) {
	case *model.NodalPoint:
		return loadDoc{Kind: "nodal_point", NodeID: load.Node.ID, Fx: load.Fx, Fy: load.Fy, Mz: load.Mz}, nil
	case *model.BarPoint:
		return loadDoc{Kind: "bar_point", BarID: load.Bar.ID, P: load.P, A: load.A, PhiDeg: load.PhiDeg}, nil
	case *model.BarDistributed:
		return loadDoc{Kind: "bar_distributed", BarID: load.Bar.ID, X1: load.X1, X2: load.X2, Q1: load.Q1, Q2: load.Q2, PhiDeg: load.PhiDeg}, nil
	case *model.Thermal:
		return loadDoc{Kind: "thermal", BarID: load.Bar.ID, DeltaTu: load.DeltaTu, DeltaTGrad: load.DeltaTGrad}, nil
	case *model.PrescribedMovement:
		return loadDoc{Kind: "prescribed_movement", NodeID: load.Node.ID, Dx: load.Dx, Dy: load.Dy, Dtheta: load.Dtheta}, nil
	}
	return loadDoc{}, fmt.Errorf("persist: unknown load kind %T", l)
}

// Unmarshal parses a persisted JSON document into a fresh Model.
func Unmarshal(data []byte) (*model.Model, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}

	m := model.NewModel(doc.Name)

	materialByName := map[string]*model.Material{}
	for _, md := range doc.Materials {
		mat := &model.Material{Name: md.Name, E: md.E, Alpha: md.Alpha, Rho: md.Rho, Nu: md.Nu, Fy: md.Fy}
		m.Materials = append(m.Materials, mat)
		materialByName[mat.Name] = mat
	}

	for _, sd := range doc.Sections {
		sec, err := unmarshalSection(sd)
		if err != nil {
			return nil, err
		}
		m.Sections = append(m.Sections, sec)
	}

	for _, nd := range doc.Nodes {
		n := &model.Node{ID: nd.ID, X: nd.X, Y: nd.Y, Name: nd.Name}
		if nd.Support != nil {
			sup, err := unmarshalSupport(*nd.Support)
			if err != nil {
				return nil, err
			}
			n.Support = sup
		}
		if err := m.AddNode(n); err != nil {
			return nil, err
		}
	}

	nodeByID := map[int]*model.Node{}
	for _, n := range m.Nodes {
		nodeByID[n.ID] = n
	}

	for _, bd := range doc.Bars {
		if bd.SectionRef < 0 || bd.SectionRef >= len(m.Sections) {
			return nil, fmt.Errorf("bar %d: section_ref %d out of range", bd.ID, bd.SectionRef)
		}
		b := &model.Bar{
			ID: bd.ID, NodeI: nodeByID[bd.NodeI], NodeJ: nodeByID[bd.NodeJ],
			Material: materialByName[bd.MaterialRef], Section: m.Sections[bd.SectionRef],
			HingeI: bd.HingeI, HingeJ: bd.HingeJ,
		}
		if err := m.AddBar(b); err != nil {
			return nil, err
		}
	}

	barByID := map[int]*model.Bar{}
	for _, b := range m.Bars {
		barByID[b.ID] = b
	}

	for _, ld := range doc.Loads {
		l, err := unmarshalLoad(ld, nodeByID, barByID)
		if err != nil {
			return nil, err
		}
		m.AddLoad(l)
	}

	return m, nil
}

func unmarshalSection(sd sectionDoc) (model.Section, error) {
	switch sd.Kind {
	case "rectangular":
		return model.Rectangular{Width: sd.Width, Height: sd.Height}, nil
	case "circular_solid":
		return model.CircularSolid{Diameter: sd.Diameter}, nil
	case "circular_hollow":
		return model.CircularHollow{OuterDiameter: sd.OuterDiameter, InnerDiameter: sd.InnerDiameter}, nil
	case "catalog_profile":
		cp := &model.CatalogProfile{Name: sd.Name}
		for _, v := range sd.Vertices {
			cp.Vertices = append(cp.Vertices, geometry.Point{X: v.X, Y: v.Y})
		}
		cp.Compute()
		return cp, nil
	}
	return nil, fmt.Errorf("persist: unknown section kind %q", sd.Kind)
}

func unmarshalSupport(sd supportDoc) (model.Support, error) {
	switch sd.Kind {
	case "fixed":
		return &model.Fixed{}, nil
	case "pinned":
		return &model.Pinned{}, nil
	case "roller":
		return &model.Roller{Direction: rollerDirVal(sd.Direction), InclinedAngleDeg: sd.InclinedAngleDeg}, nil
	case "guide":
		return &model.Guide{FreeDirection: rollerDirVal(sd.Direction)}, nil
	case "elastic_spring":
		return &model.ElasticSpring{Kx: sd.Kx, Ky: sd.Ky, Ktheta: sd.Ktheta}, nil
	}
	return nil, fmt.Errorf("persist: unknown support kind %q", sd.Kind)
}

func rollerDirVal(s string) model.RollerDirection {
	if s == "uy" {
		return model.RollerUy
	}
	return model.RollerUx
}

func unmarshalLoad(ld loadDoc, nodes map[int]*model.Node, bars map[int]*model.Bar) (model.Load, error) {
	switch ld.Kind {
	case "nodal_point":
		n, ok := nodes[ld.NodeID]
		if !ok {
			return nil, fmt.Errorf("persist: nodal_point references unknown node %d", ld.NodeID)
		}
		return &model.NodalPoint{Node: n, Fx: ld.Fx, Fy: ld.Fy, Mz: ld.Mz}, nil
	case "bar_point":
		b, ok := bars[ld.BarID]
		if !ok {
			return nil, fmt.Errorf("persist: bar_point references unknown bar %d", ld.BarID)
		}
		return &model.BarPoint{Bar: b, P: ld.P, A: ld.A, PhiDeg: ld.PhiDeg}, nil
	case "bar_distributed":
		b, ok := bars[ld.BarID]
		if !ok {
			return nil, fmt.Errorf("persist: bar_distributed references unknown bar %d", ld.BarID)
		}
		return &model.BarDistributed{Bar: b, X1: ld.X1, X2: ld.X2, Q1: ld.Q1, Q2: ld.Q2, PhiDeg: ld.PhiDeg}, nil
	case "thermal":
		b, ok := bars[ld.BarID]
		if !ok {
			return nil, fmt.Errorf("persist: thermal references unknown bar %d", ld.BarID)
		}
		return &model.Thermal{Bar: b, DeltaTu: ld.DeltaTu, DeltaTGrad: ld.DeltaTGrad}, nil
	case "prescribed_movement":
		n, ok := nodes[ld.NodeID]
		if !ok {
			return nil, fmt.Errorf("persist: prescribed_movement references unknown node %d", ld.NodeID)
		}
		return &model.PrescribedMovement{Node: n, Dx: ld.Dx, Dy: ld.Dy, Dtheta: ld.Dtheta}, nil
	}
	return nil, fmt.Errorf("persist: unknown load kind %q", ld.Kind)
}
