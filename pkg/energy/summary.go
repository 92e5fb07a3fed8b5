package energy

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Layout values accepted by Summary.Layout.
const (
	LayoutAuto       = "auto"
	LayoutHorizontal = "horizontal"
	LayoutVertical   = "vertical"
)

// MobileWidth is the widest chart that an "auto" layout draws vertically.
const MobileWidth = 450.0

// Summary is the energy usage of one period, as read from a TOML document:
//
//	title = "Today"
//	layout = "auto"
//
//	[sources]
//	from_grid = 12.4
//	to_grid = 3.1
//	solar = 9.8
//
//	[[floors]]
//	id = "ground"
//	name = "Ground floor"
//	level = 0
//
//	[[areas]]
//	id = "kitchen"
//	name = "Kitchen"
//	floor = "ground"
//
//	[[devices]]
//	id = "sensor.fridge_energy"
//	name = "Fridge"
//	value = 1.2
//	area = "kitchen"
//
// A source left out of [sources] is not configured and gets no node. A
// zero source is configured but idle.
type Summary struct {
	Title        string       `toml:"title"`
	Layout       string       `toml:"layout"`
	GroupByFloor *bool        `toml:"group_by_floor"`
	GroupByArea  *bool        `toml:"group_by_area"`
	Sources      Sources      `toml:"sources"`
	Consumption  *Consumption `toml:"consumption"` // optional, computed from Sources when absent
	Floors       []Floor      `toml:"floors"`
	Areas        []Area       `toml:"areas"`
	Devices      []Device     `toml:"devices"`
}

// Sources are the metered totals of the period, in kWh.
type Sources struct {
	FromGrid    *float64 `toml:"from_grid"`
	ToGrid      *float64 `toml:"to_grid"`
	Solar       *float64 `toml:"solar"`
	FromBattery *float64 `toml:"from_battery"`
	ToBattery   *float64 `toml:"to_battery"`
}

// HasGrid reports whether grid consumption is metered.
func (s Sources) HasGrid() bool { return s.FromGrid != nil }

// HasGridReturn reports whether energy returned to the grid is metered.
func (s Sources) HasGridReturn() bool { return s.ToGrid != nil }

// HasSolar reports whether solar production is metered.
func (s Sources) HasSolar() bool { return s.Solar != nil }

// HasBattery reports whether a battery is metered in either direction.
func (s Sources) HasBattery() bool { return s.FromBattery != nil || s.ToBattery != nil }

// Floor groups areas. Floors are drawn from the highest level down; floors
// without a level come last.
type Floor struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Level *int   `toml:"level"`
}

// Area is a room, optionally on a floor.
type Area struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Floor string `toml:"floor"`
}

// Device is an individually metered consumer. A device with a Parent is
// part of the parent's consumption and hangs below it instead of an area.
type Device struct {
	ID     string  `toml:"id"`
	Name   string  `toml:"name"`
	Value  float64 `toml:"value"`
	Parent string  `toml:"parent"`
	Area   string  `toml:"area"`
}

// Parse decodes a TOML summary and validates it.
func Parse(r io.Reader) (*Summary, error) {
	var s Summary
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode energy summary")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and validates a TOML summary from path.
func LoadFile(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks references between floors, areas and devices.
func (s *Summary) Validate() error {
	switch s.Layout {
	case "", LayoutAuto, LayoutHorizontal, LayoutVertical:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown layout %q (want auto, horizontal or vertical)", s.Layout)
	}

	floors := make(map[string]bool, len(s.Floors))
	for _, f := range s.Floors {
		if f.ID == "" || f.ID == noFloor {
			return errors.New(errors.ErrCodeInvalidInput, "floor id %q is reserved or empty", f.ID)
		}
		if floors[f.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate floor %q", f.ID)
		}
		floors[f.ID] = true
	}

	areas := make(map[string]bool, len(s.Areas))
	for _, a := range s.Areas {
		if a.ID == "" || a.ID == noArea {
			return errors.New(errors.ErrCodeInvalidInput, "area id %q is reserved or empty", a.ID)
		}
		if areas[a.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate area %q", a.ID)
		}
		if a.Floor != "" && !floors[a.Floor] {
			return errors.New(errors.ErrCodeInvalidInput, "area %q is on unknown floor %q", a.ID, a.Floor)
		}
		areas[a.ID] = true
	}

	devices := make(map[string]bool, len(s.Devices))
	for _, d := range s.Devices {
		if err := errors.ValidateNodeID(d.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "device %q", d.ID)
		}
		if devices[d.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate device %q", d.ID)
		}
		if d.Area != "" && !areas[d.Area] {
			return errors.New(errors.ErrCodeInvalidInput, "device %q is in unknown area %q", d.ID, d.Area)
		}
		if d.Parent == d.ID && d.ID != "" {
			return errors.New(errors.ErrCodeInvalidInput, "device %q is its own parent", d.ID)
		}
		devices[d.ID] = true
	}
	return nil
}

// Vertical reports whether the chart should be drawn top-to-bottom at the
// given width.
func (s *Summary) Vertical(width float64) bool {
	switch s.Layout {
	case LayoutVertical:
		return true
	case LayoutHorizontal:
		return false
	}
	return width > 0 && width <= MobileWidth
}

func (s *Summary) groupByFloor() bool { return s.GroupByFloor == nil || *s.GroupByFloor }
func (s *Summary) groupByArea() bool  { return s.GroupByArea == nil || *s.GroupByArea }
