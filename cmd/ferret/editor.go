package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/mpickford/ferret"
)

const version = "0.1.0"

const queryLen = 256

// erow represents a single line of the file being edited.
type erow struct {
	idx    int
	chars  string
	render string
}

// selection is the active match, as byte offsets into the snapshot the
// navigator searched plus the resolved row/column span for rendering.
type selection struct {
	start, end int
	row        int
	startCol   int // column within row.chars
	endCol     int
}

// Editor holds the complete state of the editor: the row buffer, the
// viewport, and the match navigator driving the search workflow.
type Editor struct {
	cx, cy      int
	rowoff      int
	coloff      int
	screenrows  int
	screencols  int
	rows        []*erow
	dirty       int
	filename    string
	statusmsg   string
	statustime  time.Time
	rawmode     bool
	origTermios unix.Termios
	quitTimes   int
	cfg         Config
	resized     atomic.Bool

	nav        *ferret.Navigator
	lastQuery  string
	regexMode  bool
	sel        *selection
	searchLive bool // false once the buffer diverges from the searched snapshot
}

// New creates a new Editor, initializes the terminal size, and installs the
// SIGWINCH handler. The handler only sets a flag: readKey translates it into
// a keyResize event so all editor state is touched from the key loop.
func New(cfg Config) (*Editor, error) {
	e := &Editor{
		cfg:       cfg,
		quitTimes: cfg.QuitTimes,
		regexMode: cfg.RegexSearch,
		nav:       ferret.New(),
	}
	if err := e.updateWindowSize(); err != nil {
		return nil, err
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		for range ch {
			e.resized.Store(true)
		}
	}()
	return e, nil
}

// ---------- Row operations ----------

func (e *Editor) updateRow(row *erow) {
	var buf bytes.Buffer
	for _, c := range []byte(row.chars) {
		if c == keyTab {
			buf.WriteByte(' ')
			for buf.Len()%e.cfg.TabStop != 0 {
				buf.WriteByte(' ')
			}
		} else {
			buf.WriteByte(c)
		}
	}
	row.render = buf.String()
}

func (e *Editor) insertRow(at int, s string) {
	if at > len(e.rows) {
		return
	}
	row := &erow{
		idx:   at,
		chars: s,
	}
	if at == len(e.rows) {
		e.rows = append(e.rows, row)
	} else {
		e.rows = append(e.rows, nil)
		copy(e.rows[at+1:], e.rows[at:])
		e.rows[at] = row
		for j := at + 1; j < len(e.rows); j++ {
			e.rows[j].idx = j
		}
	}
	e.updateRow(row)
	e.markDirty()
}

func (e *Editor) delRow(at int) {
	if at >= len(e.rows) {
		return
	}
	e.rows = append(e.rows[:at], e.rows[at+1:]...)
	for j := at; j < len(e.rows); j++ {
		e.rows[j].idx = j
	}
	e.markDirty()
}

func (e *Editor) rowsToString() string {
	var buf bytes.Buffer
	for _, row := range e.rows {
		buf.WriteString(row.chars)
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (e *Editor) rowInsertChar(row *erow, at int, c byte) {
	if at > len(row.chars) {
		padding := at - len(row.chars)
		row.chars += strings.Repeat(" ", padding) + string(c)
	} else {
		row.chars = row.chars[:at] + string(c) + row.chars[at:]
	}
	e.updateRow(row)
	e.markDirty()
}

func (e *Editor) rowAppendString(row *erow, s string) {
	row.chars += s
	e.updateRow(row)
	e.markDirty()
}

func (e *Editor) rowDelChar(row *erow, at int) {
	if at >= len(row.chars) {
		return
	}
	row.chars = row.chars[:at] + row.chars[at+1:]
	e.updateRow(row)
	e.markDirty()
}

// markDirty records a buffer mutation. The navigator searches a fixed
// snapshot, so any edit invalidates the active match navigation until the
// next search.
func (e *Editor) markDirty() {
	e.dirty++
	e.searchLive = false
	e.sel = nil
}

// ---------- Editor operations ----------

func (e *Editor) insertChar(c int) {
	filerow := e.rowoff + e.cy
	filecol := e.coloff + e.cx

	if filerow >= len(e.rows) {
		for len(e.rows) <= filerow {
			e.insertRow(len(e.rows), "")
		}
	}
	row := e.rows[filerow]
	e.rowInsertChar(row, filecol, byte(c))
	if e.cx == e.screencols-1 {
		e.coloff++
	} else {
		e.cx++
	}
}

func (e *Editor) insertNewline() {
	filerow := e.rowoff + e.cy
	filecol := e.coloff + e.cx

	if filerow >= len(e.rows) {
		if filerow == len(e.rows) {
			e.insertRow(filerow, "")
			e.fixCursorNewline()
		}
		return
	}

	row := e.rows[filerow]
	if filecol >= len(row.chars) {
		filecol = len(row.chars)
	}
	if filecol == 0 {
		e.insertRow(filerow, "")
	} else {
		e.insertRow(filerow+1, row.chars[filecol:])
		row = e.rows[filerow]
		row.chars = row.chars[:filecol]
		e.updateRow(row)
	}
	e.fixCursorNewline()
}

func (e *Editor) fixCursorNewline() {
	if e.cy == e.screenrows-1 {
		e.rowoff++
	} else {
		e.cy++
	}
	e.cx = 0
	e.coloff = 0
}

func (e *Editor) delChar() {
	filerow := e.rowoff + e.cy
	filecol := e.coloff + e.cx

	if filerow >= len(e.rows) {
		return
	}
	row := e.rows[filerow]

	if filecol == 0 && filerow == 0 {
		return
	}
	if filecol == 0 {
		filecol = len(e.rows[filerow-1].chars)
		e.rowAppendString(e.rows[filerow-1], row.chars)
		e.delRow(filerow)
		if e.cy == 0 {
			e.rowoff--
		} else {
			e.cy--
		}
		e.cx = filecol
		if e.cx >= e.screencols {
			shift := e.screencols - e.cx + 1
			e.cx -= shift
			e.coloff += shift
		}
	} else {
		e.rowDelChar(row, filecol-1)
		if e.cx == 0 && e.coloff > 0 {
			e.coloff--
		} else {
			e.cx--
		}
	}
}

// ---------- File I/O ----------

// Open loads a file into the editor.
func (e *Editor) Open(filename string) error {
	e.rows = nil
	e.filename = filename
	e.sel = nil
	e.searchLive = false

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			e.dirty = 0
			return nil // new file
		}
		return err
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		e.insertRow(len(e.rows), line)
	}
	e.dirty = 0
	return nil
}

// Save writes the current buffer to disk, prompting for a filename if the
// buffer does not have one yet.
func (e *Editor) Save() error {
	if e.filename == "" {
		name, ok := e.prompt("Save as: %s")
		if !ok || name == "" {
			e.SetStatusMessage("Save aborted")
			return nil
		}
		e.filename = name
	}
	buf := e.rowsToString()
	err := os.WriteFile(e.filename, []byte(buf), 0644)
	if err != nil {
		e.SetStatusMessage("Can't save! I/O error: %s", err)
		return err
	}
	e.dirty = 0
	e.SetStatusMessage("%d bytes written on disk", len(buf))
	return nil
}

func (e *Editor) openPrompt() {
	name, ok := e.prompt("Open file: %s")
	if !ok || name == "" {
		e.SetStatusMessage("Open aborted")
		return
	}
	if err := e.Open(name); err != nil {
		e.SetStatusMessage("Can't open %s: %s", name, err)
		return
	}
	e.cx, e.cy, e.rowoff, e.coloff = 0, 0, 0, 0
	e.SetStatusMessage("Opened %s (%d lines)", name, len(e.rows))
}

// ---------- Search ----------

// snapshot renders the buffer the same way Save does, so match offsets line
// up with the file content.
func (e *Editor) snapshot() string {
	return e.rowsToString()
}

func (e *Editor) searchPrompt() {
	mode := "off"
	if e.regexMode {
		mode = "on"
	}
	query, ok := e.prompt("Search (regex " + mode + "): %s")
	if !ok {
		e.SetStatusMessage("")
		return
	}
	e.lastQuery = query
	e.startSearch()
}

func (e *Editor) startSearch() {
	m, err := e.nav.StartSearch(e.snapshot(), e.lastQuery, e.regexMode)
	if err != nil {
		e.searchLive = false
		e.sel = nil
		e.SetStatusMessage("%s", err)
		return
	}
	e.searchLive = true
	if m == nil {
		e.sel = nil
		e.SetStatusMessage("No match found")
		return
	}
	e.applyMatch(m)
}

func (e *Editor) nextMatch() {
	e.stepMatch((*ferret.Navigator).Next, "End of matches, next wraps to start")
}

func (e *Editor) prevMatch() {
	e.stepMatch((*ferret.Navigator).Previous, "No earlier match")
}

func (e *Editor) stepMatch(step func(*ferret.Navigator) (*ferret.Match, error), exhaustedMsg string) {
	if !e.searchLive {
		// The buffer changed since the last search (or none was started):
		// the old snapshot is stale, so search again from the top.
		if !e.nav.Active() && e.lastQuery == "" {
			e.SetStatusMessage("No search started (Ctrl-F)")
			return
		}
		e.startSearch()
		return
	}
	m, err := step(e.nav)
	if err != nil {
		e.SetStatusMessage("%s", err)
		return
	}
	if m == nil {
		e.SetStatusMessage("%s", exhaustedMsg)
		return
	}
	e.applyMatch(m)
}

func (e *Editor) toggleRegex() {
	e.regexMode = !e.regexMode
	if e.regexMode {
		e.SetStatusMessage("Regex search ON")
	} else {
		e.SetStatusMessage("Regex search OFF")
	}
}

// applyMatch turns a match's byte range into a row/column selection and
// scrolls the viewport to it.
func (e *Editor) applyMatch(m *ferret.Match) {
	sel := &selection{start: m.Start, end: m.End}
	off := 0
	for i, row := range e.rows {
		next := off + len(row.chars) + 1
		if m.Start < next || i == len(e.rows)-1 {
			sel.row = i
			sel.startCol = m.Start - off
			if sel.startCol > len(row.chars) {
				sel.startCol = len(row.chars)
			}
			sel.endCol = m.End - off
			if sel.endCol > len(row.chars) {
				// Match runs past this row (multi-line regex); highlight
				// to the end of the row.
				sel.endCol = len(row.chars)
			}
			break
		}
		off = next
	}
	e.sel = sel

	// Scroll so the match is visible, match at the top of the screen.
	e.cy = 0
	e.rowoff = sel.row
	e.coloff = 0
	e.cx = sel.startCol
	if e.cx > e.screencols {
		diff := e.cx - e.screencols
		e.cx -= diff
		e.coloff += diff
	}
	e.SetStatusMessage("Match at %d:%d", sel.row+1, sel.startCol+1)
}

// rowCxToRx converts a chars column into a render column, accounting for
// tab expansion.
func (e *Editor) rowCxToRx(row *erow, cx int) int {
	rx := 0
	for j := 0; j < cx && j < len(row.chars); j++ {
		if row.chars[j] == keyTab {
			rx += (e.cfg.TabStop - 1) - (rx % e.cfg.TabStop)
		}
		rx++
	}
	return rx
}

// ---------- Prompt ----------

// prompt reads a line of input on the status line. The second return is
// false if the user cancelled with ESC.
func (e *Editor) prompt(format string) (string, bool) {
	buf := make([]byte, 0, queryLen)
	for {
		e.SetStatusMessage(format, string(buf))
		e.refreshScreen()

		c := e.readKey()
		switch {
		case c == delKey || c == ctrlH || c == keyBackspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		case c == keyEsc:
			e.SetStatusMessage("")
			return "", false
		case c == keyEnter:
			e.SetStatusMessage("")
			return string(buf), true
		case c == keyResize:
			e.applyResize()
		default:
			if c >= 32 && c < 127 && len(buf) < queryLen {
				buf = append(buf, byte(c))
			}
		}
	}
}

// ---------- Terminal update ----------

func (e *Editor) refreshScreen() {
	var ab bytes.Buffer

	ab.WriteString("\x1b[?25l") // Hide cursor
	ab.WriteString("\x1b[H")    // Go home

	for y := 0; y < e.screenrows; y++ {
		filerow := e.rowoff + y

		if filerow >= len(e.rows) {
			if len(e.rows) == 0 && y == e.screenrows/3 {
				welcome := fmt.Sprintf("Ferret editor -- version %s", version)
				if len(welcome) > e.screencols {
					welcome = welcome[:e.screencols]
				}
				padding := (e.screencols - len(welcome)) / 2
				if padding > 0 {
					ab.WriteByte('~')
					padding--
				}
				for padding > 0 {
					ab.WriteByte(' ')
					padding--
				}
				ab.WriteString(welcome)
				ab.WriteString("\x1b[0K\r\n")
			} else {
				ab.WriteString("~\x1b[0K\r\n")
			}
			continue
		}

		r := e.rows[filerow]
		renderLen := len(r.render) - e.coloff
		if renderLen < 0 {
			renderLen = 0
		}
		if renderLen > e.screencols {
			renderLen = e.screencols
		}
		if renderLen > 0 {
			visible := r.render[e.coloff : e.coloff+renderLen]
			if e.sel != nil && e.sel.row == filerow {
				e.writeHighlighted(&ab, r, visible)
			} else {
				ab.WriteString(visible)
			}
		}
		ab.WriteString("\x1b[0K")
		ab.WriteString("\r\n")
	}

	// Status bar (first row)
	ab.WriteString("\x1b[0K")
	ab.WriteString("\x1b[7m")
	modifiedStr := ""
	if e.dirty > 0 {
		modifiedStr = "(modified)"
	}
	regexStr := ""
	if e.regexMode {
		regexStr = "[regex]"
	}
	fname := e.filename
	if fname == "" {
		fname = "[No Name]"
	}
	if len(fname) > 20 {
		fname = fname[:20]
	}
	status := fmt.Sprintf("%.20s - %d lines %s %s", fname, len(e.rows), modifiedStr, regexStr)
	rstatus := fmt.Sprintf("%d/%d", e.rowoff+e.cy+1, len(e.rows))
	if len(status) > e.screencols {
		status = status[:e.screencols]
	}
	ab.WriteString(status)
	slen := len(status)
	for slen < e.screencols {
		if e.screencols-slen == len(rstatus) {
			ab.WriteString(rstatus)
			break
		}
		ab.WriteByte(' ')
		slen++
	}
	ab.WriteString("\x1b[0m\r\n")

	// Status message (second row)
	ab.WriteString("\x1b[0K")
	if e.statusmsg != "" && time.Since(e.statustime).Seconds() < 5 {
		msg := e.statusmsg
		if len(msg) > e.screencols {
			msg = msg[:e.screencols]
		}
		ab.WriteString(msg)
	}

	// Cursor position (account for tabs)
	cx := 1
	filerow := e.rowoff + e.cy
	if filerow < len(e.rows) {
		row := e.rows[filerow]
		for j := e.coloff; j < e.cx+e.coloff; j++ {
			if j < len(row.chars) && row.chars[j] == keyTab {
				cx += e.cfg.TabStop - 1 - (cx % e.cfg.TabStop)
			}
			cx++
		}
	}
	ab.WriteString(fmt.Sprintf("\x1b[%d;%dH", e.cy+1, cx))
	ab.WriteString("\x1b[?25h") // Show cursor
	writeStdout(ab.Bytes())
}

// writeHighlighted emits the visible slice of the selected row with the
// match span in reverse video.
func (e *Editor) writeHighlighted(ab *bytes.Buffer, row *erow, visible string) {
	hlStart := e.rowCxToRx(row, e.sel.startCol) - e.coloff
	hlEnd := e.rowCxToRx(row, e.sel.endCol) - e.coloff
	if hlStart < 0 {
		hlStart = 0
	}
	if hlEnd > len(visible) {
		hlEnd = len(visible)
	}
	if hlStart >= len(visible) || hlEnd <= hlStart {
		ab.WriteString(visible)
		return
	}
	ab.WriteString(visible[:hlStart])
	ab.WriteString("\x1b[7m")
	ab.WriteString(visible[hlStart:hlEnd])
	ab.WriteString("\x1b[0m")
	ab.WriteString(visible[hlEnd:])
}

// SetStatusMessage sets the editor status message.
func (e *Editor) SetStatusMessage(format string, args ...interface{}) {
	e.statusmsg = fmt.Sprintf(format, args...)
	e.statustime = time.Now()
}

// ---------- Cursor movement ----------

func (e *Editor) moveCursor(key int) {
	filerow := e.rowoff + e.cy
	filecol := e.coloff + e.cx
	var row *erow
	if filerow < len(e.rows) {
		row = e.rows[filerow]
	}

	switch key {
	case arrowLeft:
		if e.cx == 0 {
			if e.coloff > 0 {
				e.coloff--
			} else if filerow > 0 {
				e.cy--
				e.cx = len(e.rows[filerow-1].chars)
				if e.cx > e.screencols-1 {
					e.coloff = e.cx - e.screencols + 1
					e.cx = e.screencols - 1
				}
			}
		} else {
			e.cx--
		}
	case arrowRight:
		if row != nil && filecol < len(row.chars) {
			if e.cx == e.screencols-1 {
				e.coloff++
			} else {
				e.cx++
			}
		} else if row != nil && filecol == len(row.chars) {
			e.cx = 0
			e.coloff = 0
			if e.cy == e.screenrows-1 {
				e.rowoff++
			} else {
				e.cy++
			}
		}
	case arrowUp:
		if e.cy == 0 {
			if e.rowoff > 0 {
				e.rowoff--
			}
		} else {
			e.cy--
		}
	case arrowDown:
		if filerow < len(e.rows) {
			if e.cy == e.screenrows-1 {
				e.rowoff++
			} else {
				e.cy++
			}
		}
	}

	// Fix cx if current line doesn't have enough chars
	filerow = e.rowoff + e.cy
	filecol = e.coloff + e.cx
	rowlen := 0
	if filerow < len(e.rows) {
		rowlen = len(e.rows[filerow].chars)
	}
	if filecol > rowlen {
		e.cx -= filecol - rowlen
		if e.cx < 0 {
			e.coloff += e.cx
			e.cx = 0
		}
	}
}

// ---------- Event processing ----------

func (e *Editor) processKeypress() bool {
	c := e.readKey()
	switch c {
	case keyEnter:
		e.insertNewline()
	case ctrlC:
		// Ignore
	case ctrlA, homeKey:
		e.cx = 0
		e.coloff = 0
	case ctrlE, endKey:
		filerow := e.rowoff + e.cy
		if filerow < len(e.rows) {
			rowlen := len(e.rows[filerow].chars)
			if rowlen > e.screencols-1 {
				e.cx = e.screencols - 1
				e.coloff = rowlen - e.screencols + 1
			} else {
				e.cx = rowlen
				e.coloff = 0
			}
		}
	case ctrlQ:
		if e.dirty > 0 && e.quitTimes > 0 {
			e.SetStatusMessage("WARNING!!! File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitTimes)
			e.quitTimes--
			return true
		}
		return false
	case ctrlS:
		e.Save()
	case ctrlO:
		e.openPrompt()
	case ctrlF:
		e.searchPrompt()
	case ctrlN:
		e.nextMatch()
	case ctrlP:
		e.prevMatch()
	case ctrlR:
		e.toggleRegex()
	case keyBackspace, ctrlH:
		e.delChar()
	case delKey:
		e.moveCursor(arrowRight)
		e.delChar()
	case pageUp, pageDown:
		if c == pageUp && e.cy != 0 {
			e.cy = 0
		} else if c == pageDown && e.cy != e.screenrows-1 {
			e.cy = e.screenrows - 1
		}
		times := e.screenrows
		dir := arrowDown
		if c == pageUp {
			dir = arrowUp
		}
		for times > 0 {
			e.moveCursor(dir)
			times--
		}
	case arrowUp, arrowDown, arrowLeft, arrowRight:
		e.moveCursor(c)
	case keyResize:
		e.applyResize()
	case ctrlL, keyEsc:
		// Nothing
	default:
		if c >= 0 {
			e.insertChar(c)
		}
	}
	e.quitTimes = e.cfg.QuitTimes
	return true
}

// Run is the main editor loop. It enables raw mode, switches to the
// alternate screen buffer, and processes keys until the user quits.
// The terminal is restored on exit, SIGTERM, and SIGINT.
func (e *Editor) Run() error {
	if err := e.enableRawMode(); err != nil {
		return err
	}

	writeStdout([]byte("\x1b[?1049h")) // alternate screen buffer

	cleanup := func() {
		writeStdout([]byte("\x1b[?1049l"))
		e.DisableRawMode()
	}
	defer cleanup()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		cleanup()
		os.Exit(0)
	}()

	e.SetStatusMessage("HELP: C-s save | C-o open | C-q quit | C-f find | C-n/C-p next/prev | C-r regex")
	for {
		e.refreshScreen()
		if !e.processKeypress() {
			return nil
		}
	}
}
