package energy

import "math"

// Consumption splits the metered sources into the flows between them, in
// kWh.
type Consumption struct {
	UsedTotal      float64 `toml:"used_total"`
	UsedGrid       float64 `toml:"used_grid"`
	UsedSolar      float64 `toml:"used_solar"`
	UsedBattery    float64 `toml:"used_battery"`
	GridToBattery  float64 `toml:"grid_to_battery"`
	SolarToBattery float64 `toml:"solar_to_battery"`
	BatteryToGrid  float64 `toml:"battery_to_grid"`
	SolarToGrid    float64 `toml:"solar_to_grid"`
}

// ComputeConsumption attributes the period's flows. Energy is assigned in a
// fixed priority:
//
//  1. grid import beyond home usage charges the battery
//  2. solar charges the battery
//  3. solar is exported
//  4. the battery is exported
//  5. the rest of the grid import charges the battery
//  6. solar, then battery, then grid cover home usage
//
// Negative or missing readings count as zero.
func ComputeConsumption(s Sources) Consumption {
	fromGrid := nonNegative(s.FromGrid)
	toGrid := nonNegative(s.ToGrid)
	solar := nonNegative(s.Solar)
	fromBattery := nonNegative(s.FromBattery)
	toBattery := nonNegative(s.ToBattery)

	var c Consumption
	c.UsedTotal = fromGrid + solar + fromBattery - toGrid - toBattery
	remaining := math.Max(c.UsedTotal, 0)

	excess := math.Max(0, math.Min(toBattery, fromGrid-remaining))
	c.GridToBattery += excess
	toBattery -= excess
	fromGrid -= excess

	c.SolarToBattery = math.Min(solar, toBattery)
	toBattery -= c.SolarToBattery
	solar -= c.SolarToBattery

	c.SolarToGrid = math.Min(solar, toGrid)
	toGrid -= c.SolarToGrid
	solar -= c.SolarToGrid

	c.BatteryToGrid = math.Min(fromBattery, toGrid)
	fromBattery -= c.BatteryToGrid

	second := math.Min(fromGrid, toBattery)
	c.GridToBattery += second
	fromGrid -= second

	c.UsedSolar = math.Min(remaining, solar)
	remaining -= c.UsedSolar

	c.UsedBattery = math.Min(fromBattery, remaining)
	remaining -= c.UsedBattery

	c.UsedGrid = math.Min(remaining, fromGrid)
	return c
}

func nonNegative(v *float64) float64 {
	if v == nil {
		return 0
	}
	return math.Max(*v, 0)
}
