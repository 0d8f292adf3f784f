package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/shelfwise/planogram/pkg/action"
	"github.com/shelfwise/planogram/pkg/authority"
	"github.com/shelfwise/planogram/pkg/io"
	"github.com/shelfwise/planogram/pkg/placement"
	"github.com/shelfwise/planogram/pkg/planogram"
	"github.com/shelfwise/planogram/pkg/processor"
	"github.com/shelfwise/planogram/pkg/session"
	"github.com/shelfwise/planogram/pkg/snapshot"
	"github.com/shelfwise/planogram/pkg/store"
)

// moveStep is the horizontal nudge in mm per arrow key press.
const moveStep = 10.0

// newEditCmd creates the edit command: an interactive terminal editor
// over a session store. Arrow keys nudge the selected product (repeated
// nudges squash into one undo step), u/r undo and redo, s commits and
// saves to the configured store.
func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file-or-id]",
		Short: "Edit a planogram interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), args[0])
		},
	}
}

func runEdit(ctx context.Context, target string) error {
	logger := loggerFromContext(ctx)

	appCfg, err := loadConfig(configFlag)
	if err != nil {
		return err
	}
	st, err := buildStore(ctx, appCfg)
	if err != nil {
		return err
	}
	defer st.Close()

	cfg, fromFile, err := loadTarget(ctx, st, target)
	if err != nil {
		return err
	}

	provider, c, err := buildProvider(ctx, appCfg)
	if err != nil {
		return err
	}
	defer c.Close()

	checker := authority.NewChecker()
	sess := session.New(
		cfg,
		provider,
		action.NewReducer(checker, nil, logger),
		snapshot.NewProjector(processor.New(placement.NewRegistry(), logger), checker),
		logger,
	)
	if err := sess.Initialize(ctx); err != nil {
		return err
	}

	m := newEditorModel(ctx, sess, st, target, fromFile)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Session snapshots arrive asynchronously after re-projection;
	// forward them into the bubbletea loop as messages.
	unsubscribe := sess.Subscribe(func(s *snapshot.Snapshot) {
		p.Send(snapshotMsg{snap: s})
	})
	defer unsubscribe()

	_, err = p.Run()
	return err
}

// loadTarget resolves the edit target: an existing file path wins,
// otherwise the argument is treated as a stored planogram id.
func loadTarget(ctx context.Context, st store.Store, target string) (planogram.Config, bool, error) {
	if _, err := os.Stat(target); err == nil {
		cfg, err := io.ImportConfig(target)
		return cfg, true, err
	}
	cfg, err := st.GetByID(ctx, target)
	return cfg, false, err
}

// snapshotMsg delivers a freshly projected snapshot to the editor.
type snapshotMsg struct{ snap *snapshot.Snapshot }

// editorModel is the bubbletea model for the interactive editor.
type editorModel struct {
	ctx      context.Context
	sess     *session.Store
	store    store.Store
	target   string
	fromFile bool

	snap   *snapshot.Snapshot
	cursor int
	status string
}

func newEditorModel(ctx context.Context, sess *session.Store, st store.Store, target string, fromFile bool) editorModel {
	return editorModel{
		ctx:      ctx,
		sess:     sess,
		store:    st,
		target:   target,
		fromFile: fromFile,
		snap:     sess.Snapshot(),
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = msg.snap
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down", "j":
			if n := m.productCount(); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.syncSelection()
			}
		case "shift+tab", "up", "k":
			if n := m.productCount(); n > 0 {
				m.cursor = (m.cursor + n - 1) % n
				m.syncSelection()
			}
		case "left":
			m.nudge(-moveStep)
		case "right":
			m.nudge(moveStep)
		case "+":
			m.adjustFacings(1)
		case "-":
			m.adjustFacings(-1)
		case "u":
			if m.sess.Undo(m.ctx) {
				m.status = "undid"
			}
		case "r":
			if m.sess.Redo(m.ctx) {
				m.status = "redid"
			}
		case "s":
			return m, m.save()
		}
	}
	return m, nil
}

func (m *editorModel) productCount() int {
	if m.snap == nil {
		return 0
	}
	return len(m.snap.Config.Products)
}

func (m *editorModel) clampCursor() {
	if n := m.productCount(); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
}

func (m *editorModel) selected() *planogram.SourceProduct {
	if m.snap == nil || m.cursor >= len(m.snap.Config.Products) {
		return nil
	}
	return &m.snap.Config.Products[m.cursor]
}

func (m *editorModel) syncSelection() {
	if p := m.selected(); p != nil {
		m.sess.SetSelection([]string{p.ID})
	}
}

// nudge moves the selected product horizontally. Squashed dispatch
// keeps a held arrow key from flooding the undo history.
func (m *editorModel) nudge(dx float64) {
	p := m.selected()
	if p == nil || p.Placement.Position.Shelf == nil {
		m.status = "select a shelf product first"
		return
	}
	pos := p.Placement.Position.Clone()
	pos.Shelf.X += dx
	if err := m.sess.DispatchSquashed(m.ctx, action.MoveProduct(p.ID, pos)); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("moved %s to x=%.0f", p.ID, pos.Shelf.X)
}

func (m *editorModel) adjustFacings(delta int) {
	p := m.selected()
	if p == nil {
		return
	}
	f := p.Placement.Facings
	f.Horizontal += delta
	if f.Horizontal < 1 {
		f.Horizontal = 1
	}
	if err := m.sess.DispatchSquashed(m.ctx, action.UpdateFacings(p.ID, f)); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("%s facings: %d", p.ID, f.Horizontal)
}

// save commits the pending actions and persists the derived config.
func (m editorModel) save() tea.Cmd {
	return func() tea.Msg {
		derived := m.sess.Commit(m.ctx)
		if m.fromFile {
			if err := io.ExportConfig(m.target, derived); err != nil {
				return snapshotMsg{snap: m.snap}
			}
		} else if err := m.store.Save(m.ctx, derived); err != nil {
			return snapshotMsg{snap: m.snap}
		}
		return snapshotMsg{snap: m.sess.Snapshot()}
	}
}

func (m editorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Planogram Editor"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render("←/→ move  +/- facings  u undo  r redo  s save  q quit"))
	b.WriteString("\n\n")

	if m.snap == nil {
		b.WriteString(StyleDim.Render("projecting..."))
		return b.String()
	}

	for i, p := range m.snap.Config.Products {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-12s %-14s %s", cursor, p.ID, p.SKU, describePosition(p.Placement.Position))
		if i == m.cursor {
			b.WriteString(StyleHighlight.Render(line))
		} else {
			b.WriteString(StyleValue.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, issue := range m.snap.Validation.Errors {
		b.WriteString(StyleError.Render(iconError + " " + issue.String()))
		b.WriteString("\n")
	}
	for _, issue := range m.snap.Validation.Warnings {
		b.WriteString(StyleWarning.Render(iconWarning + " " + issue.String()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	state := fmt.Sprintf("%d instances", len(m.snap.Instances))
	if m.snap.Session.Dirty {
		state += " · unsaved"
	}
	if m.sess.IsProjecting() {
		state += " · projecting"
	}
	b.WriteString(StyleDim.Render(state))
	if m.status != "" {
		b.WriteString(StyleDim.Render("  " + iconInfo + " " + m.status))
	}
	return b.String()
}

// describePosition renders the semantic coordinates of a product for
// the list view.
func describePosition(pos planogram.SemanticPosition) string {
	switch pos.Model {
	case planogram.ModelShelfSurface:
		if pos.Shelf != nil {
			return fmt.Sprintf("shelf %d  x=%.0f  depth=%d", pos.Shelf.ShelfIndex, pos.Shelf.X, pos.Shelf.Depth)
		}
	case planogram.ModelPegboardGrid:
		if pos.Peg != nil {
			return fmt.Sprintf("peg col=%d row=%d", pos.Peg.Column, pos.Peg.Row)
		}
	case planogram.ModelFreeform3D:
		if pos.Freeform != nil {
			return fmt.Sprintf("free x=%.0f y=%.0f", pos.Freeform.X, pos.Freeform.Y)
		}
	case planogram.ModelBasketBin:
		if pos.Basket != nil {
			return fmt.Sprintf("basket x=%.0f layer=%d", pos.Basket.X, pos.Basket.Layer)
		}
	}
	return string(pos.Model)
}
