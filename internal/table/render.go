package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the styles the renderer paints with.
type Palette struct {
	Header       lipgloss.Style
	HeaderActive lipgloss.Style
	Cell         lipgloss.Style
	AltCell      lipgloss.Style
	Muted        lipgloss.Style
	Skeleton     lipgloss.Style
	Error        lipgloss.Style
	Accent       lipgloss.Style
	// Status styles the value of a Status column. Nil leaves it plain.
	Status func(value string) lipgloss.Style
}

// PlainPalette renders without colour; tests and non-TTY output use it.
func PlainPalette() Palette {
	s := lipgloss.NewStyle()
	return Palette{
		Header: s, HeaderActive: s, Cell: s, AltCell: s,
		Muted: s, Skeleton: s, Error: s, Accent: s,
	}
}

// View is everything the renderer needs. It is built by the controller.
type View struct {
	Columns    []Column
	Snapshot   Snapshot
	State      State
	SortCursor int // column highlighted for sorting, -1 for none
	Width      int
	Spinner    string
	RetryKey   string
}

const (
	skeletonGlyph = "░"
	noResultsText = "No results"
	minColWidth   = 4
	colGap        = 2
)

// Render draws the table. It never reorders rows; ordering is the server's.
func Render(v View, p Palette) string {
	width := v.Width
	if width <= 0 {
		width = 80
	}
	widths := columnWidths(v.Columns, width)

	var lines []string
	if banner := errorBanner(v, p, width); banner != "" {
		lines = append(lines, banner)
	}
	lines = append(lines, renderHeader(v, widths, p))

	snap := v.Snapshot
	switch {
	case snap.Loading || (!snap.Loaded && snap.Err != nil):
		lines = append(lines, skeletonRows(widths, skeletonCount(v), p)...)
	case len(snap.Rows) == 0 && snap.Loaded:
		lines = append(lines, p.Muted.Render(padRight(noResultsText, width)))
	case len(snap.Rows) == 0:
		lines = append(lines, skeletonRows(widths, skeletonCount(v), p)...)
	default:
		for i, row := range snap.Rows {
			style := p.Cell
			if i%2 == 1 {
				style = p.AltCell
			}
			cells := make([]string, len(v.Columns))
			for j, col := range v.Columns {
				text := fit(col.Render(row), widths[j])
				if col.Status && p.Status != nil {
					cells[j] = p.Status(row.String(col.Key)).Inherit(style).Render(text)
				} else {
					cells[j] = style.Render(text)
				}
			}
			lines = append(lines, strings.Join(cells, style.Render(strings.Repeat(" ", colGap))))
		}
	}

	lines = append(lines, renderFooter(v, p, width))
	return strings.Join(lines, "\n")
}

// skeletonCount matches the rows the pending page will hold.
func skeletonCount(v View) int {
	if v.State.PageSize > 0 {
		return v.State.PageSize
	}
	return defaultPageSize
}

func skeletonRows(widths []int, n int, p Palette) []string {
	cells := make([]string, len(widths))
	for i, w := range widths {
		bar := max(1, w*2/3)
		cells[i] = padRight(strings.Repeat(skeletonGlyph, bar), w)
	}
	line := p.Skeleton.Render(joinCells(cells))
	rows := make([]string, n)
	for i := range rows {
		rows[i] = line
	}
	return rows
}

func renderHeader(v View, widths []int, p Palette) string {
	parts := make([]string, len(v.Columns))
	for i, col := range v.Columns {
		label := col.Header
		if label == "" {
			label = col.Key
		}
		if v.State.Sort.Column == col.Key && !v.State.Sort.IsZero() {
			if v.State.Sort.Direction == SortDescending {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		cell := fit(label, widths[i])
		if i == v.SortCursor && col.Sortable {
			parts[i] = p.HeaderActive.Render(cell)
		} else {
			parts[i] = p.Header.Render(cell)
		}
	}
	return strings.Join(parts, strings.Repeat(" ", colGap))
}

func renderFooter(v View, p Palette, width int) string {
	snap := v.Snapshot
	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.ArabicFormat = "page %d of %d"
	pager.PerPage = max(1, v.State.PageSize)
	pager.TotalPages = max(1, snap.TotalPages)
	pager.Page = min(max(0, v.State.PageIndex), pager.TotalPages-1)

	parts := []string{p.Accent.Render(pager.View())}
	if snap.Loaded {
		parts = append(parts, p.Muted.Render(fmt.Sprintf("%d records", snap.TotalRecords)))
	}
	parts = append(parts, p.Muted.Render(fmt.Sprintf("%d per page", v.State.PageSize)))
	if s := strings.TrimSpace(v.State.Search); s != "" {
		parts = append(parts, p.Muted.Render(fmt.Sprintf("search %q", s)))
	}
	if snap.Loading && v.Spinner != "" {
		parts = append(parts, v.Spinner+p.Muted.Render(" loading"))
	}
	out := strings.Join(parts, p.Muted.Render(" · "))
	if lipgloss.Width(out) > width {
		return fit(pager.View(), width)
	}
	return out
}

func errorBanner(v View, p Palette, width int) string {
	err := v.Snapshot.Err
	if err == nil {
		return ""
	}
	reason := err.Error()
	var fe *FetchError
	if errors.As(err, &fe) && fe.Err != nil {
		reason = fe.Err.Error()
	}
	key := v.RetryKey
	if key == "" {
		key = "r"
	}
	msg := fmt.Sprintf("! Could not load rows: %s  [%s] retry", reason, key)
	return p.Error.Render(fit(msg, width))
}

// columnWidths gives fixed-width columns their width and splits the rest.
func columnWidths(cols []Column, total int) []int {
	widths := make([]int, len(cols))
	if len(cols) == 0 {
		return widths
	}
	avail := total - colGap*(len(cols)-1)
	flex := 0
	for i, col := range cols {
		if col.Width > 0 {
			widths[i] = col.Width
			avail -= col.Width
		} else {
			flex++
		}
	}
	if flex > 0 {
		share := max(minColWidth, avail/flex)
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

func joinCells(cells []string) string {
	return strings.Join(cells, strings.Repeat(" ", colGap))
}

// fit truncates or pads s to exactly width runes.
func fit(s string, width int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	r := []rune(s)
	if len(r) > width {
		if width <= 1 {
			return string(r[:max(0, width)])
		}
		return string(r[:width-1]) + "…"
	}
	return padRight(s, width)
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
