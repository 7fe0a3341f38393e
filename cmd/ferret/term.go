package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Key constants
const (
	ctrlA        = 1
	ctrlC        = 3
	ctrlE        = 5
	ctrlF        = 6
	ctrlH        = 8
	keyTab       = 9
	ctrlL        = 12
	keyEnter     = 13
	ctrlN        = 14
	ctrlO        = 15
	ctrlP        = 16
	ctrlQ        = 17
	ctrlR        = 18
	ctrlS        = 19
	keyEsc       = 27
	keyBackspace = 127

	arrowLeft  = 1000
	arrowRight = 1001
	arrowUp    = 1002
	arrowDown  = 1003
	delKey     = 1004
	homeKey    = 1005
	endKey     = 1006
	pageUp     = 1007
	pageDown   = 1008
	keyResize  = 1009
)

func (e *Editor) enableRawMode() error {
	if e.rawmode {
		return nil
	}
	if !isatty(unix.Stdin) {
		return fmt.Errorf("not a tty")
	}
	orig, err := unix.IoctlGetTermios(unix.Stdin, ioctlReadTermios)
	if err != nil {
		return err
	}
	e.origTermios = *orig

	raw := *orig
	// Input modes
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	// Output modes
	raw.Oflag &^= unix.OPOST
	// Control modes
	raw.Cflag |= unix.CS8
	// Local modes
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	// Control chars
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(unix.Stdin, ioctlWriteTermios, &raw); err != nil {
		return err
	}
	e.rawmode = true
	return nil
}

// DisableRawMode restores the terminal to its original mode.
func (e *Editor) DisableRawMode() {
	if e.rawmode {
		unix.IoctlSetTermios(unix.Stdin, ioctlWriteTermios, &e.origTermios)
		e.rawmode = false
	}
}

func (e *Editor) readKey() int {
	buf := make([]byte, 1)
	for {
		// VMIN=0/VTIME=1 makes the read time out, so a pending resize is
		// picked up here even with no key pressed.
		if e.resized.Swap(false) {
			return keyResize
		}
		n, err := unix.Read(unix.Stdin, buf)
		if n == 1 {
			break
		}
		if err != nil && err != unix.EAGAIN {
			return -1
		}
	}
	c := int(buf[0])
	if c == keyEsc {
		seq := make([]byte, 3)
		n, _ := unix.Read(unix.Stdin, seq[0:1])
		if n == 0 {
			return keyEsc
		}
		n, _ = unix.Read(unix.Stdin, seq[1:2])
		if n == 0 {
			return keyEsc
		}
		if seq[0] == '[' {
			if seq[1] >= '0' && seq[1] <= '9' {
				n, _ = unix.Read(unix.Stdin, seq[2:3])
				if n == 0 {
					return keyEsc
				}
				if seq[2] == '~' {
					switch seq[1] {
					case '3':
						return delKey
					case '5':
						return pageUp
					case '6':
						return pageDown
					}
				}
			} else {
				switch seq[1] {
				case 'A':
					return arrowUp
				case 'B':
					return arrowDown
				case 'C':
					return arrowRight
				case 'D':
					return arrowLeft
				case 'H':
					return homeKey
				case 'F':
					return endKey
				}
			}
		} else if seq[0] == 'O' {
			switch seq[1] {
			case 'H':
				return homeKey
			case 'F':
				return endKey
			}
		}
		return keyEsc
	}
	return c
}

func getWindowSize() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(unix.Stdout, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		// Querying the cursor position requires raw mode, which may not be
		// active yet. Return a safe default.
		return 24, 80, nil
	}
	return int(ws.Row), int(ws.Col), nil
}

func (e *Editor) updateWindowSize() error {
	rows, cols, err := getWindowSize()
	if err != nil {
		return err
	}
	e.screenrows = rows - 2 // room for status bar
	e.screencols = cols
	return nil
}

// applyResize refetches the window size and clamps the cursor. It runs on
// the key loop (via keyResize); the screen is redrawn by the main loop.
func (e *Editor) applyResize() {
	e.updateWindowSize()
	if e.cy > e.screenrows {
		e.cy = e.screenrows - 1
	}
	if e.cx > e.screencols {
		e.cx = e.screencols - 1
	}
}

func isatty(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	return err == nil
}

func writeStdout(b []byte) {
	unix.Write(unix.Stdout, b)
}
