package energy

import "fmt"

// Node colours, as CSS variables with the dashboard's default themes as
// fallback.
const (
	ColorHome        = "var(--primary-color, #03a9f4)"
	ColorGrid        = "var(--energy-grid-consumption-color, #488fc2)"
	ColorGridReturn  = "var(--energy-grid-return-color, #8353d1)"
	ColorSolar       = "var(--energy-solar-color, #ff9800)"
	ColorBatteryOut  = "var(--energy-battery-out-color, #4db6ac)"
	ColorBatteryIn   = "var(--energy-battery-in-color, #f06292)"
	ColorUntracked   = "var(--state-unavailable-color, #bdbdbd)"
	ColorFloorOrArea = ColorHome
)

var graphPalette = []string{
	"#4269d0", "#f4bd4a", "#ff725c", "#6cc5b0", "#a463f2",
	"#ff8ab7", "#9c6b4e", "#97bbf5", "#01ab63", "#9498a0",
	"#094bad", "#c99000", "#d84f3e", "#49a28f", "#048732",
	"#d96895", "#8043ce", "#7599d1", "#7a4c31", "#74787a",
}

// DeviceColor returns the graph colour for the i-th configured device.
func DeviceColor(i int) string {
	n := i % len(graphPalette)
	return fmt.Sprintf("var(--graph-color-%d, %s)", n+1, graphPalette[n])
}
