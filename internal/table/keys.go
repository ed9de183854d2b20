package table

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds the page, size, sort, filter and search controls.
type KeyMap struct {
	PrevPage    key.Binding
	NextPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	LargerPage  key.Binding
	SmallerPage key.Binding
	SortLeft    key.Binding
	SortRight   key.Binding
	CycleSort   key.Binding
	CycleFilter key.Binding
	NextFilter  key.Binding
	Search      key.Binding
	Refresh     key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
}

// DefaultKeyMap returns the default table bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←/h", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown"),
			key.WithHelp("→/l", "Next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "First page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last page"),
		),
		LargerPage: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "More rows per page"),
		),
		SmallerPage: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Fewer rows per page"),
		),
		SortLeft: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "Previous sort column"),
		),
		SortRight: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "Next sort column"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort direction"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle filter value"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Next filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh / retry"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply search now"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Leave search"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevPage, k.NextPage, k.Search, k.Refresh}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevPage, k.NextPage, k.FirstPage, k.LastPage},
		{k.LargerPage, k.SmallerPage},
		{k.SortLeft, k.SortRight, k.CycleSort},
		{k.CycleFilter, k.NextFilter},
		{k.Search, k.Confirm, k.Cancel, k.Refresh},
	}
}
