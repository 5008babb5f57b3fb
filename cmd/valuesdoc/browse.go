// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/woozymasta/valuesdoc"
)

// screenFactory opens the screen used by browse command.
type screenFactory func() (tcell.Screen, error)

// newTerminalScreen opens and initializes the real terminal.
func newTerminalScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	return screen, nil
}

// browserFocus is the pane receiving navigation keys.
type browserFocus uint8

const (
	focusSearch browserFocus = iota
	focusTree
)

const (
	// minPaneWidth keeps left pane usable on narrow terminals.
	minPaneWidth = 24
	statusHelp   = "tab: switch pane  enter: select  ctrl-u: clear  esc: quit"
)

var (
	styleDefault  = tcell.StyleDefault
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleActive   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleComment  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleRequired = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHeader   = tcell.StyleDefault.Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

// browser is the terminal front end of one SchemaView: a search box with
// results, a tree of primary paths and the projected text. Both panes select
// through the view, which is the only owner of the active path.
type browser struct {
	view       *valuesdoc.SchemaView
	screen     tcell.Screen
	query      string
	results    []valuesdoc.Path
	tree       []valuesdoc.TreeNode
	lines      []string
	cursor     int
	treeCursor int
	textTop    int
	focus      browserFocus
}

// newBrowser creates browser bound to view and screen.
func newBrowser(view *valuesdoc.SchemaView, screen tcell.Screen) *browser {
	b := &browser{
		view:    view,
		screen:  screen,
		results: view.Search(""),
		tree:    view.TreeNodes(),
		lines:   strings.Split(strings.TrimSuffix(view.Text(), "\n"), "\n"),
	}

	view.Subscribe(b.onActivePathChange)
	return b
}

// run draws and handles events until user quits.
func (b *browser) run() error {
	defer b.screen.Fini()

	b.draw()
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		if !b.handle(ev) {
			return nil
		}

		b.draw()
	}
}

// handle applies one event and reports whether browser keeps running.
func (b *browser) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return b.handleKey(ev)
	case *tcell.EventResize:
		b.screen.Sync()
	}

	return true
}

// handleKey applies one key press.
func (b *browser) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		if b.focus == focusSearch {
			b.focus = focusTree
		} else {
			b.focus = focusSearch
		}
	case tcell.KeyUp:
		b.move(-1)
	case tcell.KeyDown:
		b.move(1)
	case tcell.KeyEnter:
		b.selectCurrent()
	case tcell.KeyCtrlU:
		b.setQuery("")
		b.view.Dispatch(valuesdoc.PathSelected{Clear: true, Source: valuesdoc.SourceSearch})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if b.focus == focusSearch && b.query != "" {
			runes := []rune(b.query)
			b.setQuery(string(runes[:len(runes)-1]))
		}
	case tcell.KeyRune:
		if b.focus == focusSearch {
			b.setQuery(b.query + string(ev.Rune()))
		}
	}

	return true
}

// setQuery re-runs search and resets results cursor.
func (b *browser) setQuery(query string) {
	b.query = query
	b.results = b.view.Search(query)
	b.cursor = 0
}

// move shifts cursor of focused pane and selects the row under it.
func (b *browser) move(delta int) {
	if b.focus == focusSearch {
		b.cursor = clamp(b.cursor+delta, len(b.results))
	} else {
		b.treeCursor = clamp(b.treeCursor+delta, len(b.tree))
	}

	b.selectCurrent()
}

// selectCurrent dispatches the row under cursor of focused pane.
func (b *browser) selectCurrent() {
	switch b.focus {
	case focusSearch:
		if len(b.results) == 0 {
			return
		}

		b.view.Dispatch(valuesdoc.PathSelected{Path: b.results[b.cursor], Source: valuesdoc.SourceSearch})
	case focusTree:
		if len(b.tree) == 0 {
			return
		}

		b.view.Dispatch(valuesdoc.PathSelected{Path: b.tree[b.treeCursor].Node.Path, Source: valuesdoc.SourceTree})
	}
}

// onActivePathChange refreshes tree state and scrolls text to the highlight.
func (b *browser) onActivePathChange(change valuesdoc.ActivePathChange) {
	b.tree = b.view.TreeNodes()

	if change.Source != valuesdoc.SourceTree {
		for index, row := range b.tree {
			if row.Active {
				b.treeCursor = index
				break
			}
		}
	}

	if line, ok := b.view.Highlight(); ok {
		b.scrollTo(line)
	}
}

// scrollTo keeps 1-based text line inside the visible text pane.
func (b *browser) scrollTo(line int) {
	_, height := b.screen.Size()
	visible := max(height-2, 1)

	switch {
	case line-1 < b.textTop:
		b.textTop = line - 1
	case line-1 >= b.textTop+visible:
		b.textTop = line - visible
	}
}

// draw renders all panes.
func (b *browser) draw() {
	b.screen.Clear()
	width, height := b.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	paneWidth := max(width/2, min(minPaneWidth, width))
	headerStyle := styleDefault
	if b.focus == focusSearch {
		headerStyle = styleHeader
	}

	b.drawText(0, 0, width, "search: "+b.query, headerStyle)

	if b.focus == focusSearch {
		b.drawResults(paneWidth-1, height-2)
	} else {
		b.drawTree(paneWidth-1, height-2)
	}

	b.drawProjection(paneWidth, width-paneWidth, height-2)
	b.drawStatus(width, height-1)
	b.screen.Show()
}

// drawResults renders search results with cursor.
func (b *browser) drawResults(width, rows int) {
	offset := listOffset(b.cursor, rows)
	for row := 0; row < rows && offset+row < len(b.results); row++ {
		index := offset + row
		style := styleDefault
		if index == b.cursor {
			style = styleCursor
		}

		b.drawText(0, row+1, width, b.results[index].String(), style)
	}
}

// drawTree renders primary paths with active path expanded.
func (b *browser) drawTree(width, rows int) {
	offset := listOffset(b.treeCursor, rows)
	for row := 0; row < rows && offset+row < len(b.tree); row++ {
		index := offset + row
		node := b.tree[index]

		style := styleDefault
		switch {
		case index == b.treeCursor:
			style = styleCursor
		case node.Active:
			style = styleActive
		case node.Required:
			style = styleRequired
		}

		b.drawText(0, row+1, width, treeLabel(node), style)
	}
}

// drawProjection renders projected text with highlighted active line.
func (b *browser) drawProjection(x, width, rows int) {
	highlight, hasHighlight := b.view.Highlight()
	for row := 0; row < rows && b.textTop+row < len(b.lines); row++ {
		index := b.textTop + row
		line := b.lines[index]

		style := styleDefault
		switch {
		case hasHighlight && index+1 == highlight:
			style = styleCursor
		case strings.HasPrefix(strings.TrimSpace(line), "#"):
			style = styleComment
		}

		b.drawText(x, row+1, width, line, style)
	}
}

// drawStatus renders active path and file name.
func (b *browser) drawStatus(width, y int) {
	active := "(no selection)"
	if path, ok := b.view.ActivePath(); ok {
		active = path.String()
	}

	text := fmt.Sprintf(" %s | %s | %s", active, b.view.Filename(), statusHelp)
	b.drawText(0, y, width, runewidth.FillRight(text, width), styleStatus)
}

// drawText writes single-line text truncated to width display cells.
func (b *browser) drawText(x, y, width int, text string, style tcell.Style) {
	if width <= 0 {
		return
	}

	text = runewidth.Truncate(text, width, "…")
	for _, r := range text {
		b.screen.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
}

// treeLabel renders one tree row: indentation, expand marker and last step.
func treeLabel(node valuesdoc.TreeNode) string {
	marker := "  "
	switch {
	case node.Expanded && !node.Active:
		marker = "▾ "
	case node.Node.Kind == valuesdoc.NodeObject || node.Node.Kind == valuesdoc.NodeArray:
		marker = "▸ "
	}

	label := node.Path
	if last, ok := node.Node.Path.Last(); ok {
		label = last.Key
		if last.Kind == valuesdoc.StepIndex {
			label = "[" + strconv.Itoa(last.Index) + "]"
		}
	}

	return strings.Repeat("  ", node.Depth) + marker + label
}

// listOffset returns first visible row keeping cursor on screen.
func listOffset(cursor, rows int) int {
	if rows <= 0 || cursor < rows {
		return 0
	}

	return cursor - rows + 1
}

// clamp limits index to [0, length).
func clamp(index, length int) int {
	if length == 0 || index < 0 {
		return 0
	}

	if index >= length {
		return length - 1
	}

	return index
}
