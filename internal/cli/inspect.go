package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/chart"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// inspectCommand creates the inspect command for browsing a layout.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect [layout.json|chart.json|energy.toml]",
		Short: "Browse the nodes and flows of a chart",
		Long: `Browse the nodes and flows of a chart interactively.

Inputs ending in .layout.json are loaded as computed layouts. Anything else
is parsed as a chart document or energy summary and laid out first.

Keys: ↑/↓ move between nodes, ←/→ jump between columns, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.loadInspectLayout(args[0], opts)
			if err != nil {
				return err
			}
			if len(l.Nodes) == 0 {
				printWarning("Nothing to inspect: %s has no nodes", args[0])
				return nil
			}
			_, err = tea.NewProgram(newInspectModel(l), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	layoutFlags(cmd, &opts)
	return cmd
}

func (c *CLI) loadInspectLayout(input string, opts pipeline.Options) (chart.Layout, error) {
	if strings.HasSuffix(input, ".layout.json") {
		l, err := chart.ReadLayoutFile(input)
		if err != nil {
			return chart.Layout{}, fmt.Errorf("load layout %s: %w", input, err)
		}
		return l, nil
	}
	if err := opts.ValidateForLayout(); err != nil {
		return chart.Layout{}, err
	}
	ch, err := pipeline.ParseFile(input, opts.Width)
	if err != nil {
		return chart.Layout{}, fmt.Errorf("load %s: %w", input, err)
	}
	prog := startTimer(c.Logger, "computing layout")
	l, err := pipeline.GenerateLayout(ch, opts)
	if err != nil {
		return chart.Layout{}, err
	}
	prog.done("computed layout", "nodes", len(l.Nodes))
	return l, nil
}

// =============================================================================
// inspectModel - Interactive layout browser
// =============================================================================

var (
	inspectSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	inspectHeaderStyle   = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
)

// flow is a link as seen from one of its ends.
type flow struct {
	peer  string
	value float64
	via   int
}

// inspectModel is the bubbletea model of the inspect command. Pass-through
// nodes are hidden; their links show up as flows of the nodes they join.
type inspectModel struct {
	title  string
	nodes  []chart.PositionedNode
	labels map[string]string
	in     map[string][]flow
	out    map[string][]flow
	format func(float64) string

	cursor int
	offset int
	height int
}

func newInspectModel(l chart.Layout) inspectModel {
	m := inspectModel{
		title:  l.Title,
		labels: make(map[string]string, len(l.Nodes)),
		in:     make(map[string][]flow),
		out:    make(map[string][]flow),
		format: pipeline.ValueFormatter(l.Unit),
		height: 12,
	}
	if m.title == "" {
		m.title = "Chart"
	}

	for _, n := range l.Nodes {
		if n.PassThrough {
			continue
		}
		m.nodes = append(m.nodes, n)
		m.labels[n.ID] = nodeLabel(n.Node)
	}
	pos := func(n chart.PositionedNode) float64 {
		if l.Vertical {
			return n.X
		}
		return n.Y
	}
	sort.SliceStable(m.nodes, func(i, j int) bool {
		if m.nodes[i].Index != m.nodes[j].Index {
			return m.nodes[i].Index < m.nodes[j].Index
		}
		return pos(m.nodes[i]) < pos(m.nodes[j])
	})

	for _, lk := range l.Links {
		via := len(lk.PassThrough)
		m.out[lk.Source] = append(m.out[lk.Source], flow{peer: lk.Target, value: lk.Value, via: via})
		m.in[lk.Target] = append(m.in[lk.Target], flow{peer: lk.Source, value: lk.Value, via: via})
	}
	return m
}

func nodeLabel(n chart.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
			}
		case "left", "h":
			m.cursor = m.columnStart(m.cursor, -1)
		case "right", "l":
			m.cursor = m.columnStart(m.cursor, 1)
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-16, 5)
	}
	m.scroll()
	return m, nil
}

// columnStart returns the first node of the column before (dir < 0) or
// after (dir > 0) the column at i. It stays put at either end.
func (m inspectModel) columnStart(i, dir int) int {
	col := m.nodes[i].Index
	if dir > 0 {
		for j := i + 1; j < len(m.nodes); j++ {
			if m.nodes[j].Index != col {
				return j
			}
		}
		return i
	}
	j := i
	for j > 0 && m.nodes[j-1].Index == col {
		j--
	}
	if j == 0 {
		return i
	}
	prev := m.nodes[j-1].Index
	for j > 0 && m.nodes[j-1].Index == prev {
		j--
	}
	return j
}

func (m *inspectModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// Selected returns the node under the cursor.
func (m inspectModel) Selected() chart.PositionedNode {
	return m.nodes[m.cursor]
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ node  ←/→ column  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.nodes))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, m.labels[n.ID], fmt.Sprint(n.Index), m.format(n.Value)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "Node", "Column", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return inspectHeaderStyle
			}
			if m.offset+row == m.cursor {
				return inspectSelectedStyle
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorAccent)
			}
			return lipgloss.NewStyle().Foreground(colorText)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.nodes))))
	b.WriteString("\n\n")
	b.WriteString(m.details())

	return b.String()
}

// details describes the flows into and out of the selected node.
func (m inspectModel) details() string {
	n := m.Selected()
	var b strings.Builder

	b.WriteString(inspectSelectedStyle.Render(m.labels[n.ID]))
	b.WriteString(StyleDim.Render(" (" + n.ID + ")"))
	b.WriteString("\n")
	if n.Tooltip != "" {
		b.WriteString("  " + StyleDim.Render(n.Tooltip) + "\n")
	}

	section := func(name, arrow string, flows []flow) {
		if len(flows) == 0 {
			return
		}
		b.WriteString("  " + StyleDim.Render(name) + "\n")
		for _, f := range flows {
			peer, ok := m.labels[f.peer]
			if !ok {
				peer = f.peer
			}
			line := fmt.Sprintf("    %s %s  %s", arrow, StyleValue.Render(peer), StyleNumber.Render(m.format(f.value)))
			if f.via > 0 {
				line += StyleDim.Render(fmt.Sprintf("  (spans %d columns)", f.via+1))
			}
			b.WriteString(line + "\n")
		}
	}
	section("In", "←", m.in[n.ID])
	section("Out", "→", m.out[n.ID])
	return b.String()
}
