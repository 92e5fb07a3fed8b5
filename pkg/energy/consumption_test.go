package energy

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestComputeConsumption(t *testing.T) {
	tests := []struct {
		name string
		src  Sources
		want Consumption
	}{
		{
			name: "grid only",
			src:  Sources{FromGrid: ptr(10)},
			want: Consumption{UsedTotal: 10, UsedGrid: 10},
		},
		{
			name: "solar covers home before grid",
			src:  Sources{FromGrid: ptr(4), ToGrid: ptr(1), Solar: ptr(6)},
			want: Consumption{UsedTotal: 9, UsedSolar: 5, UsedGrid: 4, SolarToGrid: 1},
		},
		{
			name: "excess grid import charges battery",
			src:  Sources{FromGrid: ptr(5), ToBattery: ptr(4), FromBattery: ptr(2)},
			want: Consumption{UsedTotal: 3, GridToBattery: 4, UsedBattery: 2, UsedGrid: 1},
		},
		{
			name: "solar charges battery then exports",
			src:  Sources{Solar: ptr(10), ToBattery: ptr(3), ToGrid: ptr(2)},
			want: Consumption{UsedTotal: 5, SolarToBattery: 3, SolarToGrid: 2, UsedSolar: 5},
		},
		{
			name: "battery exports after solar",
			src:  Sources{Solar: ptr(1), FromBattery: ptr(4), ToGrid: ptr(3)},
			want: Consumption{UsedTotal: 2, SolarToGrid: 1, BatteryToGrid: 2, UsedBattery: 2},
		},
		{
			name: "negative readings are ignored",
			src:  Sources{FromGrid: ptr(-2), Solar: ptr(3)},
			want: Consumption{UsedTotal: 3, UsedSolar: 3},
		},
		{
			name: "nothing metered",
			src:  Sources{},
			want: Consumption{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeConsumption(tt.src)
			check := func(field string, got, want float64) {
				if math.Abs(got-want) > 1e-9 {
					t.Errorf("%s = %g, want %g", field, got, want)
				}
			}
			check("UsedTotal", got.UsedTotal, tt.want.UsedTotal)
			check("UsedGrid", got.UsedGrid, tt.want.UsedGrid)
			check("UsedSolar", got.UsedSolar, tt.want.UsedSolar)
			check("UsedBattery", got.UsedBattery, tt.want.UsedBattery)
			check("GridToBattery", got.GridToBattery, tt.want.GridToBattery)
			check("SolarToBattery", got.SolarToBattery, tt.want.SolarToBattery)
			check("BatteryToGrid", got.BatteryToGrid, tt.want.BatteryToGrid)
			check("SolarToGrid", got.SolarToGrid, tt.want.SolarToGrid)
		})
	}
}

func TestComputeConsumptionBalances(t *testing.T) {
	src := Sources{FromGrid: ptr(7.3), ToGrid: ptr(1.2), Solar: ptr(4.4), FromBattery: ptr(2.1), ToBattery: ptr(3.9)}
	c := ComputeConsumption(src)

	used := c.UsedGrid + c.UsedSolar + c.UsedBattery
	if math.Abs(used-c.UsedTotal) > 1e-9 {
		t.Errorf("used grid+solar+battery = %g, want used total %g", used, c.UsedTotal)
	}
	if c.SolarToBattery+c.SolarToGrid+c.UsedSolar > *src.Solar+1e-9 {
		t.Errorf("solar over-attributed: %+v", c)
	}
	if got := c.GridToBattery + c.SolarToBattery; math.Abs(got-*src.ToBattery) > 1e-9 {
		t.Errorf("battery charge = %g, want %g", got, *src.ToBattery)
	}
}

func TestFormatKWh(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.5, "12.5 kWh"},
		{0.0424, "0.042 kWh"},
		{3, "3 kWh"},
		{1.23456, "1.235 kWh"},
		{0, "0 kWh"},
		{-0.0001, "0 kWh"},
	}
	for _, tt := range tests {
		if got := FormatKWh(tt.in); got != tt.want {
			t.Errorf("FormatKWh(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeviceColor(t *testing.T) {
	if got, want := DeviceColor(0), "var(--graph-color-1, #4269d0)"; got != want {
		t.Errorf("DeviceColor(0) = %q, want %q", got, want)
	}
	if DeviceColor(len(graphPalette)) != DeviceColor(0) {
		t.Error("palette should wrap around")
	}
}
