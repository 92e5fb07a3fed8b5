package energy

import (
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/sankeyflow/pkg/chart"
)

// Node ids of the fixed parts of the distribution.
const (
	NodeHome       = "home"
	NodeGrid       = "grid"
	NodeGridReturn = "grid_return"
	NodeSolar      = "solar"
	NodeBattery    = "battery"
	NodeBatteryIn  = "battery_in"
	NodeUntracked  = "untracked"
)

// Columns of the distribution. Devices start at ColumnDevices and take one
// more column per level of parent devices.
const (
	ColumnSources = 0
	ColumnHome    = 1
	ColumnFloors  = 2
	ColumnAreas   = 3
	ColumnDevices = 4
)

// MinDeviceValue is the smallest device consumption that gets a node.
const MinDeviceValue = 0.01

const (
	noFloor = "no_floor"
	noArea  = "no_area"
)

// Build turns a summary into a chart of where the period's energy came
// from and where it went. width decides the orientation of "auto" layouts;
// pass 0 for horizontal.
func Build(s *Summary, width float64) chart.Chart {
	cons := ComputeConsumption(s.Sources)
	if s.Consumption != nil {
		cons = *s.Consumption
	}

	b := &builder{}
	home := b.node(chart.Node{
		ID: NodeHome, Label: "Home", Color: ColorHome, Index: ColumnHome,
		Value: math.Max(0, cons.UsedTotal),
	})
	b.sources(s.Sources, cons)

	untracked := home.Value
	var devices []chart.Node
	parents := make(map[string]string)
	for i, d := range s.Devices {
		if d.Value < MinDeviceValue {
			continue
		}
		n := chart.Node{
			ID:    d.ID,
			Label: orDefault(d.Name, d.ID),
			Value: d.Value,
			Color: DeviceColor(i),
			Index: ColumnDevices,
		}
		if d.Parent != "" {
			parents[d.ID] = d.Parent
			b.link(d.Parent, d.ID, nil)
		} else {
			untracked -= d.Value
		}
		devices = append(devices, n)
	}

	var unparented []deviceRef
	for _, n := range devices {
		if _, ok := parents[n.ID]; !ok {
			unparented = append(unparented, deviceRef{id: n.ID, value: n.Value})
		}
	}
	if s.groupByArea() || s.groupByFloor() {
		b.groups(s, unparented)
	} else {
		for _, d := range unparented {
			b.link(NodeHome, d.id, value(d.value))
		}
	}

	sections := deviceSections(parents, devices)
	for k, section := range sections {
		for _, n := range section {
			n.Index = ColumnDevices + k
			b.node(n)
		}
	}

	if untracked >= MinDeviceValue {
		b.node(chart.Node{
			ID: NodeUntracked, Label: "Untracked consumption", Color: ColorUntracked,
			Value: untracked, Index: ColumnAreas + len(sections),
		})
		b.link(NodeHome, NodeUntracked, value(untracked))
	}

	return chart.Chart{
		Title:    s.Title,
		Unit:     Unit,
		Vertical: s.Vertical(width),
		Nodes:    b.nodes,
		Links:    b.links,
	}
}

// HasData reports whether any node of c carries energy.
func HasData(c chart.Chart) bool {
	for _, n := range c.Nodes {
		if n.Value > 0 {
			return true
		}
	}
	return false
}

type builder struct {
	nodes []chart.Node
	links []chart.Link
}

func (b *builder) node(n chart.Node) chart.Node {
	b.nodes = append(b.nodes, n)
	return n
}

func (b *builder) link(source, target string, v *float64) {
	b.links = append(b.links, chart.Link{Source: source, Target: target, Value: v})
}

func (b *builder) sources(src Sources, cons Consumption) {
	if src.HasBattery() {
		b.node(chart.Node{
			ID: NodeBattery, Label: "Battery", Color: ColorBatteryOut, Index: ColumnSources,
			Value: nonNegative(src.FromBattery),
		})
		b.link(NodeBattery, NodeHome, value(cons.UsedBattery))

		b.node(chart.Node{
			ID: NodeBatteryIn, Label: "Battery", Color: ColorBatteryIn, Index: ColumnHome,
			Value: nonNegative(src.ToBattery),
		})
		if cons.GridToBattery > 0 {
			b.link(NodeGrid, NodeBatteryIn, value(cons.GridToBattery))
		}
		if cons.SolarToBattery > 0 {
			b.link(NodeSolar, NodeBatteryIn, value(cons.SolarToBattery))
		}
	}

	if src.HasGrid() {
		b.node(chart.Node{
			ID: NodeGrid, Label: "Grid", Color: ColorGrid, Index: ColumnSources,
			Value: nonNegative(src.FromGrid),
		})
		b.link(NodeGrid, NodeHome, value(cons.UsedGrid))
	}

	if src.HasSolar() {
		b.node(chart.Node{
			ID: NodeSolar, Label: "Solar", Color: ColorSolar, Index: ColumnSources,
			Value: nonNegative(src.Solar),
		})
		b.link(NodeSolar, NodeHome, value(cons.UsedSolar))
	}

	if src.HasGrid() && src.HasGridReturn() {
		b.node(chart.Node{
			ID: NodeGridReturn, Label: "Grid", Color: ColorGridReturn, Index: ColumnHome,
			Value: nonNegative(src.ToGrid),
		})
		if cons.BatteryToGrid > 0 {
			b.link(NodeBattery, NodeGridReturn, value(cons.BatteryToGrid))
		}
		if cons.SolarToGrid > 0 {
			b.link(NodeSolar, NodeGridReturn, value(cons.SolarToGrid))
		}
	}
}

// =============================================================================
// Floor and Area Grouping
// =============================================================================

type deviceRef struct {
	id    string
	value float64
}

type areaGroup struct {
	value   float64
	devices []deviceRef
}

type floorGroup struct {
	id    string
	value float64
	areas []string
}

// groups links unparented devices to their area, floor or home, adding the
// floor and area nodes in between.
func (b *builder) groups(s *Summary, devices []deviceRef) {
	byFloor, byArea := s.groupByFloor(), s.groupByArea()
	areas, floors := groupByFloorAndArea(s, devices)

	names := make(map[string]string, len(s.Floors)+len(s.Areas))
	for _, f := range s.Floors {
		names["floor_"+f.ID] = orDefault(f.Name, f.ID)
	}
	for _, a := range s.Areas {
		names["area_"+a.ID] = orDefault(a.Name, a.ID)
	}

	for _, f := range floors {
		floorNode := NodeHome
		if f.id != noFloor && byFloor {
			floorNode = "floor_" + f.id
			b.node(chart.Node{
				ID: floorNode, Label: names[floorNode], Color: ColorFloorOrArea,
				Value: f.value, Index: ColumnFloors,
			})
			b.link(NodeHome, floorNode, nil)
		}
		for _, areaID := range f.areas {
			target := floorNode
			if areaID != noArea && byArea {
				target = "area_" + areaID
				b.node(chart.Node{
					ID: target, Label: names[target], Color: ColorFloorOrArea,
					Value: areas[areaID].value, Index: ColumnAreas,
				})
				b.link(floorNode, target, value(areas[areaID].value))
			}
			for _, d := range areas[areaID].devices {
				b.link(target, d.id, value(d.value))
			}
		}
	}
}

// groupByFloorAndArea buckets devices by area and areas by floor. Devices
// without an area land in "no_area" and areas without a floor in
// "no_floor". Floors come back ordered from the highest level down.
func groupByFloorAndArea(s *Summary, devices []deviceRef) (map[string]*areaGroup, []*floorGroup) {
	areaFloor := make(map[string]string, len(s.Areas))
	for _, a := range s.Areas {
		areaFloor[a.ID] = a.Floor
	}
	deviceArea := make(map[string]string, len(s.Devices))
	for _, d := range s.Devices {
		deviceArea[d.ID] = d.Area
	}

	areas := map[string]*areaGroup{noArea: {}}
	none := &floorGroup{id: noFloor, areas: []string{noArea}}
	floors := []*floorGroup{none}
	floorIdx := map[string]*floorGroup{noFloor: none}

	for _, d := range devices {
		areaID := deviceArea[d.id]
		if areaID == "" {
			areas[noArea].value += d.value
			areas[noArea].devices = append(areas[noArea].devices, d)
			continue
		}
		ag, ok := areas[areaID]
		if !ok {
			ag = &areaGroup{}
			areas[areaID] = ag
		}
		ag.value += d.value
		ag.devices = append(ag.devices, d)

		floorID := areaFloor[areaID]
		if floorID == "" {
			none.value += d.value
			if !slices.Contains(none.areas, areaID) {
				none.areas = append([]string{areaID}, none.areas...)
			}
			continue
		}
		fg, ok := floorIdx[floorID]
		if !ok {
			fg = &floorGroup{id: floorID}
			floorIdx[floorID] = fg
			floors = append(floors, fg)
		}
		fg.value += d.value
		if !slices.Contains(fg.areas, areaID) {
			fg.areas = append(fg.areas, areaID)
		}
	}

	levels := make(map[string]float64, len(s.Floors))
	for _, f := range s.Floors {
		if f.Level != nil {
			levels[f.ID] = float64(*f.Level)
		}
	}
	level := func(id string) float64 {
		if l, ok := levels[id]; ok {
			return l
		}
		return math.Inf(-1)
	}
	sort.SliceStable(floors, func(i, j int) bool {
		return level(floors[i].id) > level(floors[j].id)
	})
	return areas, floors
}

// deviceSections orders devices into columns: devices that have children
// but no parent first, then the rest split the same way, until no
// parent-child pairs remain.
func deviceSections(parents map[string]string, devices []chart.Node) [][]chart.Node {
	isParent := make(map[string]bool, len(parents))
	for _, p := range parents {
		isParent[p] = true
	}

	var top, rest []chart.Node
	for _, d := range devices {
		_, isChild := parents[d.ID]
		if isParent[d.ID] && !isChild {
			top = append(top, d)
		} else {
			rest = append(rest, d)
		}
	}
	if len(top) == 0 {
		return [][]chart.Node{devices}
	}

	inTop := make(map[string]bool, len(top))
	for _, d := range top {
		inTop[d.ID] = true
	}
	remaining := make(map[string]string, len(parents))
	for child, parent := range parents {
		if !inTop[parent] {
			remaining[child] = parent
		}
	}
	return append([][]chart.Node{top}, deviceSections(remaining, rest)...)
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

func value(v float64) *float64 { return &v }
