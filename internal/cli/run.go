package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	flowerrors "github.com/mistaa/flowstudio/pkg/errors"
	"github.com/mistaa/flowstudio/pkg/graph"
	"github.com/mistaa/flowstudio/pkg/playback"
)

// runCommand creates the run command for playing a graph back.
func (c *CLI) runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <graph-id>",
		Short: "Play a graph back as a linear questionnaire",
		Long: `Play a graph back as a linear questionnaire.

Questionnaire nodes are walked in the order they were added to the graph,
one question per screen. Answer with the arrow keys and enter, skip with
s, and go back with b. Completing the run shows the goal screen with the
accumulated score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlayback(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runPlayback loads the graph and drives the playback TUI to completion.
func (c *CLI) runPlayback(ctx context.Context, graphID string) error {
	if err := flowerrors.ValidateID(graphID); err != nil {
		return err
	}
	operator, err := c.resolveOperator(ctx)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	wire, err := st.Load(ctx, operator, graphID)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", graphID, err)
	}
	g, err := graph.ToFlow(wire)
	if err != nil {
		return fmt.Errorf("graph %s is not playable: %w", graphID, err)
	}

	run := playback.NewRun(g)
	if run.Len() == 0 && run.Done() {
		printInfo("Graph %s has no questionnaire nodes to play", StyleHighlight.Render(graphID))
		return nil
	}

	program := tea.NewProgram(NewPlaybackModel(run, graphID), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("playback: %w", err)
	}

	if m, ok := final.(PlaybackModel); ok && m.run.Done() {
		printSuccess("Completed %s", StyleHighlight.Render(graphID))
		printKeyValue("Answered", fmt.Sprintf("%d of %d", m.run.Answered(), m.run.Len()))
		printKeyValue("Score", fmt.Sprintf("%.1f", m.run.Score()))
	}
	return nil
}

// =============================================================================
// PlaybackModel - Linear questionnaire playback
// =============================================================================

// Playback styles
var (
	playbackCategoryStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	playbackQuestionStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	playbackOptionStyle   = lipgloss.NewStyle().Foreground(colorGray)
	playbackCursorStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	playbackGoalStyle     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

// PlaybackModel is the bubbletea model for walking a run one question per
// screen.
type PlaybackModel struct {
	run     *playback.Run
	graphID string
	cursor  int
}

// NewPlaybackModel creates a playback model over the given run.
func NewPlaybackModel(run *playback.Run, graphID string) PlaybackModel {
	return PlaybackModel{run: run, graphID: graphID}
}

func (m PlaybackModel) Init() tea.Cmd {
	return nil
}

func (m PlaybackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.run.Done() {
		switch key.String() {
		case "q", "ctrl+c", "enter", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	q, ok := m.run.Current()
	if !ok {
		return m, tea.Quit
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(q.Options)-1 {
			m.cursor++
		}

	case "enter", " ":
		if len(q.Options) == 0 {
			m.run.Skip()
			m.cursor = m.restoredCursor()
			return m, nil
		}
		if err := m.run.Answer(m.cursor); err != nil {
			return m, nil
		}
		m.cursor = m.restoredCursor()

	case "s":
		m.run.Skip()
		m.cursor = m.restoredCursor()

	case "b":
		m.run.Back()
		m.cursor = m.restoredCursor()
	}
	return m, nil
}

// restoredCursor returns the recorded answer for the now-current question so
// navigating back lands on the previous selection.
func (m PlaybackModel) restoredCursor() int {
	if selected, ok := m.run.Selected(); ok {
		return selected
	}
	return 0
}

func (m PlaybackModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Flowstudio") + "  " + StyleValue.Render(m.graphID))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(progressBar(m.run.Progress(), 24)) +
		StyleDim.Render(fmt.Sprintf("  %d/%d", min(m.run.Pos()+1, m.run.Len()), m.run.Len())))
	b.WriteString("\n\n")

	if m.run.Done() {
		b.WriteString(playbackGoalStyle.Render("Run complete"))
		b.WriteString("\n\n")
		if goal, ok := m.run.Goal(); ok {
			b.WriteString(playbackQuestionStyle.Render(goal.GoalName))
			b.WriteString("\n")
			if goal.GoalDescription != "" {
				b.WriteString(playbackOptionStyle.Render(goal.GoalDescription))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(StyleValue.Render(fmt.Sprintf("Score: %.1f", m.run.Score())))
		b.WriteString("\n\n")
		b.WriteString(StyleDim.Render("⏎ close"))
		return b.String()
	}

	q, ok := m.run.Current()
	if !ok {
		return b.String()
	}

	if q.Category != "" {
		b.WriteString(playbackCategoryStyle.Render(q.Category))
		b.WriteString("\n")
	}
	b.WriteString(playbackQuestionStyle.Render(q.Text))
	b.WriteString("\n\n")

	if len(q.Options) == 0 {
		b.WriteString(playbackOptionStyle.Render("(no answer options, press ⏎ to continue)"))
		b.WriteString("\n")
	}
	for i, opt := range q.Options {
		cursor := "  "
		style := playbackOptionStyle
		if i == m.cursor {
			cursor = playbackCursorStyle.Render("▸ ")
			style = StyleValue
		}
		b.WriteString(cursor + style.Render(opt))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ choose  ⏎ answer  s skip  b back  q quit"))
	return b.String()
}

// progressBar renders a fixed-width unicode progress bar.
func progressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
