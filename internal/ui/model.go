// Package ui is the terminal host for the command palette: a bubbletea
// program that shows the current route, owns the open shortcut and the recent
// list, and forwards key and mouse events into a palette.Engine.
package ui

import (
	"slices"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/quickbar/internal/actions"
	"github.com/oakwood-commons/quickbar/internal/config"
	"github.com/oakwood-commons/quickbar/pkg/palette"
	"github.com/oakwood-commons/quickbar/pkg/registry"
)

// recentPrefix is prepended to the ids of grafted recent items.
const recentPrefix = "recent:"

var (
	_ tea.Model              = (*Model)(nil)
	_ actions.Host           = (*Model)(nil)
	_ palette.FocusRequester = (*Model)(nil)
	_ palette.CloseObserver  = (*Model)(nil)
)

// Model is the host application. Use NewModel; the zero value is not usable.
type Model struct {
	cfg    config.Config
	engine *palette.Engine
	base   *registry.Registry
	input  textinput.Model
	help   help.Model
	keys   KeyMap
	log    logr.Logger

	themes  []string
	themeIx int
	theme   Theme
	noColor bool

	route     string
	recent    []string
	status    string
	statusErr bool

	width  int
	height int

	engineOpts []palette.Option
	pending    []tea.Cmd
	quitting   bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for the host and its engine.
func WithLogger(lgr logr.Logger) Option {
	return func(m *Model) {
		m.log = lgr
	}
}

// WithNoColor disables all colors regardless of theme.
func WithNoColor(noColor bool) Option {
	return func(m *Model) {
		m.noColor = noColor
	}
}

// WithSize sets the initial screen size. A WindowSizeMsg overrides it.
func WithSize(width, height int) Option {
	return func(m *Model) {
		if width > 0 {
			m.width = width
		}
		if height > 0 {
			m.height = height
		}
	}
}

// WithSessionIDs overrides the palette session id generator.
func WithSessionIDs(fn func() string) Option {
	return func(m *Model) {
		m.engineOpts = append(m.engineOpts, palette.WithSessionIDs(fn))
	}
}

// NewModel creates the host with an empty registry. Callbacks need the host
// to exist before they can be bound, so the registry is attached afterwards
// with SetRegistry.
func NewModel(cfg config.Config, opts ...Option) *Model {
	m := &Model{
		cfg:    cfg,
		route:  cfg.App.StartRoute,
		log:    logr.Discard(),
		width:  80,
		height: 24,
		base:   registry.MustNew(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.route == "" {
		m.route = "/"
	}

	m.themes = cfg.ThemeNames()
	m.themeIx = max(0, slices.Index(m.themes, cfg.Palette.Theme))
	m.keys = NewKeyMap(KeyMode(cfg.Palette.Keymap), cfg.Palette.Shortcut)
	m.help = help.New()
	m.help.SetWidth(m.width)
	m.input = textinput.New()
	m.input.Prompt = ""
	m.input.Placeholder = cfg.Palette.Placeholder
	m.input.CharLimit = 120
	m.applyTheme()

	m.engine = palette.New(m.base, m, append([]palette.Option{palette.WithLogger(m.log.WithName("engine"))}, m.engineOpts...)...)
	return m
}

// SetRegistry replaces the action registry.
func (m *Model) SetRegistry(reg *registry.Registry) {
	if reg == nil {
		reg = registry.MustNew()
	}
	m.base = reg
	m.recent = slices.DeleteFunc(m.recent, func(id string) bool {
		_, ok := reg.Lookup(id)
		return !ok
	})
	m.engine.SetRegistry(m.sessionRegistry())
}

// Engine exposes the palette engine.
func (m *Model) Engine() *palette.Engine {
	return m.engine
}

// Keys returns the active key table.
func (m *Model) Keys() KeyMap {
	return m.keys
}

// Status returns the status line text and whether it reports an error.
func (m *Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Quitting reports whether the host asked the program to exit.
func (m *Model) Quitting() bool {
	return m.quitting
}

func (m *Model) applyTheme() {
	name := m.cfg.Palette.Theme
	if len(m.themes) > 0 {
		name = m.themes[m.themeIx]
	}
	m.theme = ThemeFromConfig(name, m.cfg.Themes[name])

	if m.noColor {
		m.help.Styles = help.Styles{}
		return
	}
	accent := m.theme.style(m.theme.Accent, false)
	muted := m.theme.style(m.theme.Muted, false)
	m.help.Styles.ShortKey = accent
	m.help.Styles.FullKey = accent
	m.help.Styles.ShortDesc = muted
	m.help.Styles.FullDesc = muted
	m.help.Styles.ShortSeparator = muted
	m.help.Styles.FullSeparator = muted
}

// sessionRegistry grafts the recent list onto the base registry as items of
// the recent category. The grafted items keep their original targets.
func (m *Model) sessionRegistry() *registry.Registry {
	if len(m.recent) == 0 {
		return m.base
	}
	extra := make([]registry.ActionItem, 0, len(m.recent))
	for _, id := range m.recent {
		it, ok := m.base.Lookup(id)
		if !ok {
			continue
		}
		it.ID = recentPrefix + id
		it.Category = registry.CategoryRecent
		extra = append(extra, it)
	}
	reg, err := m.base.With(extra...)
	if err != nil {
		m.log.Error(err, "recent items not shown")
		return m.base
	}
	return reg
}

func (m *Model) recordRecent(id string) {
	limit := m.cfg.App.RecentLimit
	if limit <= 0 {
		return
	}
	id = strings.TrimPrefix(id, recentPrefix)
	m.recent = slices.DeleteFunc(m.recent, func(v string) bool { return v == id })
	m.recent = slices.Insert(m.recent, 0, id)
	if len(m.recent) > limit {
		m.recent = m.recent[:limit]
	}
}

func (m *Model) openPalette() {
	m.engine.SetRegistry(m.sessionRegistry())
	m.engine.Open()
}

// Navigate implements palette.Host.
func (m *Model) Navigate(path string) {
	m.log.V(1).Info("navigate", "from", m.route, "to", path)
	m.route = path
	m.status, m.statusErr = "", false
}

// RequestFocus implements palette.FocusRequester. The focus command is
// returned from the current Update.
func (m *Model) RequestFocus() {
	m.input.Reset()
	m.input.SetWidth(m.paletteWidth() - 6)
	m.pending = append(m.pending, m.input.Focus())
}

// PaletteClosed implements palette.CloseObserver.
func (m *Model) PaletteClosed(reason palette.CloseReason) {
	m.input.Reset()
	m.input.Blur()
	m.log.V(1).Info("palette input released", "reason", reason.String())
}

// Route implements actions.Host.
func (m *Model) Route() string { return m.route }

// Recent implements actions.Host.
func (m *Model) Recent() []string { return slices.Clone(m.recent) }

// Theme implements actions.Host.
func (m *Model) Theme() string { return m.theme.Name }

// ToggleTheme switches to the next configured theme.
func (m *Model) ToggleTheme() {
	if len(m.themes) == 0 {
		return
	}
	m.themeIx = (m.themeIx + 1) % len(m.themes)
	m.applyTheme()
	m.SetStatus("theme: " + m.theme.Name)
}

// ClearRecent empties the recent list.
func (m *Model) ClearRecent() { m.recent = nil }

// CopyText copies text to the system clipboard.
func (m *Model) CopyText(text string) error { return CopyToClipboard(text) }

// Quit stops the program after the current update.
func (m *Model) Quit() { m.quitting = true }

// SetStatus shows msg in the status line.
func (m *Model) SetStatus(msg string) {
	m.status, m.statusErr = msg, false
}

// SetError shows err in the status line.
func (m *Model) SetError(err error) {
	if err == nil {
		return
	}
	m.log.Error(err, "action failed")
	m.status, m.statusErr = err.Error(), true
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetWidth(msg.Width)
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft {
			m.pointerDown(msg.X, msg.Y)
		}
		return m, m.flush()
	case tea.MouseMotionMsg:
		if m.engine.IsOpen() {
			if surface, id := m.layout().hit(msg.X, msg.Y); surface == palette.SurfaceItem {
				m.engine.PointerMove(id)
			}
		}
		return m, nil
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.engine.MovePrevious()
		case tea.MouseWheelDown:
			m.engine.MoveNext()
		}
		return m, nil
	}
	if m.engine.IsOpen() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quit()
		return m.flush()
	case key.Matches(msg, m.keys.Open):
		if !m.engine.Dismiss() {
			m.openPalette()
		}
		return m.flush()
	}

	if !m.engine.IsOpen() {
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
		}
		return nil
	}

	if k := m.keys.paletteKey(msg); k != palette.KeyNone {
		if k == palette.KeyEnter {
			if it, ok := m.engine.Selected(); ok {
				m.recordRecent(it.ID)
			}
		}
		m.engine.HandleKey(k)
		return m.flush()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.engine.SetQuery(m.input.Value())
	return tea.Batch(cmd, m.flush())
}

func (m *Model) pointerDown(x, y int) {
	if !m.engine.IsOpen() {
		return
	}
	surface, id := m.layout().hit(x, y)
	if surface == palette.SurfaceItem {
		m.recordRecent(id)
	}
	m.engine.PointerDown(surface, id)
}

// flush returns the commands queued by host callbacks during this update.
func (m *Model) flush() tea.Cmd {
	cmds := m.pending
	m.pending = nil
	if m.quitting {
		cmds = append(cmds, tea.Quit)
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	v := tea.NewView(m.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.WindowTitle = m.cfg.App.Name
	return v
}

// Render draws one full frame: the page for the current route with the
// palette laid over it while open.
func (m *Model) Render() string {
	width, height := max(m.width, minPaletteWidth), max(m.height, 8)
	screen := make([]string, height)
	copy(screen, m.pageLines(width))

	footer := m.footerLines()
	copy(screen[max(0, height-len(footer)):], footer)

	if o := m.layout(); len(o.lines) > 0 {
		indent := strings.Repeat(" ", o.x)
		for i, l := range o.lines {
			if y := o.y + i; y < height {
				screen[y] = indent + l
			}
		}
	}
	for i := range screen {
		screen[i] = fitANSI(screen[i], width)
	}
	return strings.Join(screen, "\n")
}

func (m *Model) pageLines(width int) []string {
	accent := m.theme.style(m.theme.Accent, m.noColor).Bold(true)
	muted := m.theme.style(m.theme.Muted, m.noColor)
	text := m.theme.style(m.theme.Text, m.noColor)

	title, desc := m.route, ""
	if it, ok := m.pageFor(m.route); ok {
		title, desc = it.Label, it.Description
	}
	lines := []string{
		" " + accent.Render(m.cfg.App.Name) + "  " + muted.Render(m.route),
		muted.Render(repeatToWidth("─", width)),
		"",
		"  " + text.Bold(true).Render(title),
	}
	if desc != "" {
		lines = append(lines, "  "+muted.Render(desc))
	}
	lines = append(lines, "")
	if len(m.recent) > 0 {
		labels := make([]string, 0, len(m.recent))
		for _, id := range m.recent {
			if it, ok := m.base.Lookup(id); ok {
				labels = append(labels, it.Label)
			}
		}
		lines = append(lines, "  "+muted.Render("Recent: ")+text.Render(strings.Join(labels, ", ")))
	}
	lines = append(lines, "  "+muted.Render("Press ")+accent.Render(m.keys.Open.Help().Key)+muted.Render(" to open the command palette."))
	return lines
}

// pageFor finds the navigation item whose path is route.
func (m *Model) pageFor(route string) (registry.ActionItem, bool) {
	for _, it := range m.base.AllItems() {
		if nav, ok := registry.Normalize(it.Target).(registry.Navigate); ok && nav.Path == route {
			return it, true
		}
	}
	return registry.ActionItem{}, false
}

func (m *Model) footerLines() []string {
	var status string
	switch {
	case m.status == "":
	case m.statusErr:
		status = " " + m.theme.style(m.theme.Error, m.noColor).Render("error: "+m.status)
	default:
		status = " " + m.theme.style(m.theme.Status, m.noColor).Render(m.status)
	}
	lines := []string{status}
	for _, l := range strings.Split(m.help.View(m.keys), "\n") {
		lines = append(lines, " "+l)
	}
	return lines
}
