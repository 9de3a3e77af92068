// Package tui implements the interactive bubbletea client used by the
// solver's play subcommand: a human seat against a trained blueprint's
// average strategy, heads-up no-limit hold'em, one hand after another.
package tui

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/edges"
	"github.com/lox/holdem-solver/internal/encoder"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/nlhe"
	"github.com/lox/holdem-solver/internal/phh"
)

// PlayModel is the bubbletea Model for a human-vs-blueprint session. It
// owns turn sequencing: chance and bot edges are resolved synchronously
// inside Update, and the model only blocks on input when it is the
// human seat's turn.
type PlayModel struct {
	table   *mccfr.RegretTable
	enc     encoder.NLHEEncoder
	gameCfg nlhe.Config
	rng     *rand.Rand
	logger  *log.Logger

	node      *encoder.NodeView
	humanSeat int
	dealer    int
	net       int
	hands     int

	history     io.Writer
	handActions []string

	logViewport viewport.Model
	actionInput textinput.Model
	gameLog     []string
	quitting    bool

	width, height int
}

// NewPlayModel deals the first hand and wires the input widget in the
// same style as the teacher's multiplayer TUI. history, if non-nil,
// receives one PHH-style hand record per completed hand.
func NewPlayModel(table *mccfr.RegretTable, enc encoder.NLHEEncoder, gameCfg nlhe.Config, rng *rand.Rand, logger *log.Logger, history io.Writer) *PlayModel {
	vp := viewport.New(10, 5)
	ti := textinput.New()
	ti.Placeholder = "type the number of your action, or f/c/r/a"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &PlayModel{
		table:       table,
		enc:         enc,
		gameCfg:     gameCfg,
		rng:         rng,
		logger:      logger.WithPrefix("play"),
		humanSeat:   0,
		logViewport: vp,
		actionInput: ti,
		history:     history,
	}
	m.dealHand()
	return m
}

func (m *PlayModel) dealHand() {
	m.node = encoder.NewRoot(nlhe.Root(m.gameCfg, m.dealer, m.rng))
	m.hands++
	m.handActions = nil
	m.log(fmt.Sprintf("--- hand %d, dealer seat %d ---", m.hands, m.dealer))
	m.advanceToHuman()
}

// applyEdge records the PHH-style action line for edge (skipped for chance
// Draw edges, which PHH represents via board-dealing metadata rather than
// an action) and advances the node.
func (m *PlayModel) applyEdge(i int) {
	edge := m.node.Edge(i)
	if edge.IsChoice() {
		seat := m.node.Turn()
		pot, bb := m.node.Game.Pot, m.node.Game.BigBlind()
		if line, ok := phh.FormatAction(seat, phhActionName(edge), edge.IntoChips(pot, bb)); ok {
			m.handActions = append(m.handActions, line)
		}
	}
	m.node = m.node.Child(i).(*encoder.NodeView)
}

func phhActionName(e edges.Edge) string {
	switch e.Kind {
	case edges.KindFold:
		return "fold"
	case edges.KindCheck, edges.KindCall:
		return "call"
	case edges.KindShove:
		return "allin"
	default:
		return "raise"
	}
}

// advanceToHuman resolves chance draws and bot decisions until either the
// human seat is on the clock or the hand is over, then deals the next hand
// and alternates the dealer button (heads-up convention).
func (m *PlayModel) advanceToHuman() {
	for {
		turn := m.node.Turn()
		switch {
		case turn == mccfr.TerminalTurn:
			m.settleHand()
			m.dealer = 1 - m.dealer
			m.dealHand()
			return
		case turn == mccfr.ChanceTurn:
			m.applyEdge(0)
		case turn == m.humanSeat:
			return
		default:
			m.applyEdge(m.botChoice())
		}
	}
}

// botChoice samples an edge index from the blueprint's average strategy at
// the current Info, falling back to uniform play over unseen information
// sets (spec.md's untrained-bucket behavior: regret-matching with zero
// accumulated regret is already uniform, so an absent entry needs no
// special case beyond RegretTable.Get's zero-valued default).
func (m *PlayModel) botChoice() int {
	n := m.node.Actions()
	key := m.enc.Info(nil, m.node)
	strategy := m.table.Get(key, n).AverageStrategy()
	r := m.rng.Float64()
	cum := 0.0
	for i, p := range strategy {
		cum += p
		if r <= cum {
			return i
		}
	}
	return n - 1
}

func (m *PlayModel) settleHand() {
	g := m.node.Game
	settlements := g.Settle()
	winnings := make([]int, 2)
	finishing := make([]int, 2)
	for _, s := range settlements {
		winnings[s.Seat] = s.PnL()
		if s.Seat == m.humanSeat {
			m.net += s.PnL()
			m.log(fmt.Sprintf("result: %+d chips (running %+d)", s.PnL(), m.net))
		}
	}
	for i, seat := range g.Seats {
		finishing[i] = seat.Stack
	}
	if m.history != nil {
		hand := &phh.HandHistory{
			Variant:        "NT",
			SeatCount:      2,
			Antes:          []int{0, 0},
			BlindsOrStraddles: []int{m.gameCfg.SmallBlind, m.gameCfg.BigBlind},
			MinBet:          m.gameCfg.BigBlind,
			StartingStacks:  []int{m.gameCfg.StartingStack, m.gameCfg.StartingStack},
			FinishingStacks: finishing,
			Winnings:        winnings,
			Actions:         m.handActions,
			HandID:          fmt.Sprintf("hand-%d", m.hands),
		}
		if err := phh.Encode(m.history, hand); err != nil {
			m.logger.Error("write hand history", "err", err)
		}
	}
}

func (m *PlayModel) log(line string) {
	m.gameLog = append(m.gameLog, line)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 {
		m.logViewport.GotoBottom()
	}
}

func (m *PlayModel) Init() tea.Cmd { return textinput.Blink }

func (m *PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			m.handleInput(strings.TrimSpace(m.actionInput.Value()))
			m.actionInput.SetValue("")
		}
	}
	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	return m, cmd
}

// handleInput resolves the human's typed action against the node's
// currently legal edges, either by ordinal ("1", "2", ...) or by the
// first-letter shortcut of the edge's Kind.
func (m *PlayModel) handleInput(input string) {
	if m.node.Turn() != m.humanSeat {
		return
	}
	n := m.node.Actions()
	if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= n {
		m.applyEdge(idx - 1)
		m.advanceToHuman()
		return
	}
	for i := 0; i < n; i++ {
		if matchesShortcut(m.node.Edge(i), input) {
			m.applyEdge(i)
			m.advanceToHuman()
			return
		}
	}
	m.log(fmt.Sprintf("unrecognized action %q", input))
}

func matchesShortcut(e edges.Edge, input string) bool {
	switch strings.ToLower(input) {
	case "f", "fold":
		return e.Kind == edges.KindFold
	case "c", "check":
		return e.Kind == edges.KindCheck
	case "call":
		return e.Kind == edges.KindCall
	case "r", "raise":
		return e.IsRaise()
	case "a", "allin", "shove":
		return e.IsShove()
	}
	return false
}

func (m *PlayModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf(" hand %d  net %+d ", m.hands, m.net)))
	b.WriteString("\n\n")

	logStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#626262")).Width(m.width - 2)
	m.logViewport.Width = m.width - 4
	m.logViewport.Height = m.height / 2
	b.WriteString(logStyle.Render(m.logViewport.View()))
	b.WriteString("\n")

	if m.node.Turn() == m.humanSeat {
		b.WriteString(m.renderHandInfo())
		b.WriteString("\n")
		b.WriteString(m.renderOptions())
		b.WriteString("\n")
	}
	b.WriteString(m.actionInput.View())
	return b.String()
}

func (m *PlayModel) renderHandInfo() string {
	seat := m.node.Game.Seats[m.humanSeat]
	hand := formatHand(seat.Hole)
	board := formatHand(m.node.Game.Board)
	return HandInfoStyle.Render(fmt.Sprintf("hand %s  board %s  pot $%d  stack $%d", hand, board, m.node.Game.Pot, seat.Stack))
}

func (m *PlayModel) renderOptions() string {
	var parts []string
	pot, bb := m.node.Game.Pot, m.node.Game.BigBlind()
	for i := 0; i < m.node.Actions(); i++ {
		parts = append(parts, fmt.Sprintf("[%d] %s", i+1, edgeLabel(m.node.Edge(i), pot, bb)))
	}
	return ActionsStyle.Render(strings.Join(parts, "  "))
}

func edgeLabel(e edges.Edge, pot, bb int) string {
	switch e.Kind {
	case edges.KindFold:
		return "fold"
	case edges.KindCheck:
		return "check"
	case edges.KindCall:
		return "call"
	case edges.KindOpen:
		return fmt.Sprintf("open to $%d", e.IntoChips(pot, bb))
	case edges.KindRaise:
		return fmt.Sprintf("raise to $%d (%s pot)", e.IntoChips(pot, bb), e.Odds)
	case edges.KindShove:
		return "all in"
	default:
		return "?"
	}
}

func formatHand(h cards.Hand) string {
	s := h.String()
	if s == "" {
		return "--"
	}
	return s
}
