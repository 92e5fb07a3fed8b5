package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/chart"
	"github.com/matzehuels/sankeyflow/pkg/energy"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// energyCommand creates the energy command for inspecting energy summaries.
func (c *CLI) energyCommand() *cobra.Command {
	var (
		output string
		width  float64
	)

	cmd := &cobra.Command{
		Use:   "energy [summary.toml]",
		Short: "Show how an energy summary is distributed",
		Long: `Show how an energy summary is distributed.

The energy command reads an energy summary (TOML), attributes the metered
sources to home usage, battery charging and grid export, and prints the
resulting flows. With -o it also writes the generated chart document, which
can be edited and passed to 'render' or 'layout'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEnergy(args[0], output, width)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the generated chart document to this file")
	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "chart width, decides the orientation of auto layouts")

	return cmd
}

func (c *CLI) runEnergy(input, output string, width float64) error {
	prog := startTimer(c.Logger, "loading summary")
	s, err := energy.LoadFile(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	prog.done("loaded summary", "devices", len(s.Devices), "floors", len(s.Floors), "areas", len(s.Areas))

	cons := energy.ComputeConsumption(s.Sources)
	if s.Consumption != nil {
		cons = *s.Consumption
		c.Logger.Debug("using consumption from summary")
	}
	ch := energy.Build(s, width)

	title := s.Title
	if title == "" {
		title = input
	}
	fmt.Fprintln(stdout, StyleTitle.Render(title))
	fmt.Fprintln(stdout, flowTable(cons))
	printKeyValue("Home", StyleNumber.Render(energy.FormatKWh(cons.UsedTotal)))
	printKeyValue("Untracked", StyleNumber.Render(energy.FormatKWh(untrackedValue(ch))))

	if !energy.HasData(ch) {
		printWarning("No energy recorded in %s", input)
	}

	if output != "" {
		if err := chart.WriteChartFile(ch, output); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		printNewline()
		printSuccess("Chart generated")
		printFile(output)
		printNewline()
		printNextStep("Render", fmt.Sprintf("%s render %s", appName, output))
	}
	return nil
}

// flowRows lists the attributed flows, skipping the empty ones.
func flowRows(cons energy.Consumption) [][]string {
	flows := []struct {
		from, to string
		v        float64
	}{
		{"Grid", "Home", cons.UsedGrid},
		{"Solar", "Home", cons.UsedSolar},
		{"Battery", "Home", cons.UsedBattery},
		{"Grid", "Battery", cons.GridToBattery},
		{"Solar", "Battery", cons.SolarToBattery},
		{"Solar", "Grid", cons.SolarToGrid},
		{"Battery", "Grid", cons.BatteryToGrid},
	}
	var rows [][]string
	for _, f := range flows {
		if f.v <= 0 {
			continue
		}
		rows = append(rows, []string{f.from, f.to, energy.FormatKWh(f.v)})
	}
	return rows
}

func flowTable(cons energy.Consumption) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("From", "To", "Energy").
		Rows(flowRows(cons)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2:
				return lipgloss.NewStyle().Foreground(colorAccent).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Foreground(colorText)
		}).
		Render()
}

func untrackedValue(c chart.Chart) float64 {
	for _, n := range c.Nodes {
		if n.ID == energy.NodeUntracked {
			return n.Value
		}
	}
	return 0
}
