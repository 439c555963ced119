package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasktree/internal/cli/formatter"
)

// treeLoader renders the current tree. It is called on start and on reload.
type treeLoader func() (string, error)

type browseKeyMap struct {
	Quit   key.Binding
	Reload key.Binding
}

func defaultBrowseKeys() browseKeyMap {
	return browseKeyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

type treeLoadedMsg struct {
	content string
	err     error
}

// browseModel is a read-only scrolling view of a project tree.
type browseModel struct {
	load  treeLoader
	keys  browseKeyMap
	vp    viewport.Model
	ready bool
	err   error
}

func newBrowseModel(load treeLoader) browseModel {
	vp := viewport.New(0, 0)
	vp.KeyMap = outputViewportKeyMap()
	return browseModel{load: load, keys: defaultBrowseKeys(), vp: vp}
}

// outputViewportKeyMap leaves letter keys free for quit and reload.
func outputViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
	}
}

func (m browseModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		content, err := m.load()
		return treeLoadedMsg{content: content, err: err}
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.vp.Height = msg.Height - 1
		m.ready = true
		return m, nil

	case treeLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.vp.SetContent(msg.content)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if m.err != nil {
		return formatter.StyleRed.Render("error: "+m.err.Error()) + "\n" + formatter.Dim("q quit · r reload")
	}
	if !m.ready {
		return formatter.Dim("loading...")
	}
	return m.vp.View() + "\n" + formatter.Dim(fmt.Sprintf("%s · q quit · r reload", scrollIndicator(m.vp)))
}

func scrollIndicator(vp viewport.Model) string {
	switch {
	case vp.AtTop():
		return "[TOP]"
	case vp.AtBottom():
		return "[END]"
	}
	return fmt.Sprintf("[%d%%]", int(vp.ScrollPercent()*100))
}

func newTaskBrowseCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "browse PROJECT",
		Short: "Scroll through a project tree in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !s.app.interactive() {
				return fmt.Errorf("browse needs a terminal; use \"task tree\" instead")
			}
			load := func() (string, error) {
				return renderProjectTree(context.Background(), s.app, args[0])
			}
			p := tea.NewProgram(newBrowseModel(load),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
}
