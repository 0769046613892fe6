package interaction

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/penwyp/go-vessel-trail/internal/util"
)

// ErrRawModeUnsupported is returned where the terminal cannot be put in raw mode.
var ErrRawModeUnsupported = errors.New("raw terminal mode is not supported on this platform")

// KeyType classifies a key event.
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
)

// KeyEvent is one key press.
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// CtrlC is the key reported for Ctrl+C.
const CtrlC rune = 3

// KeyboardReader delivers key presses from a terminal in raw mode.
type KeyboardReader struct {
	in      io.Reader
	restore func() error
	input   chan KeyEvent
	stop    chan struct{}
	once    sync.Once
}

// NewKeyboardReader puts stdin in raw mode and starts reading it.
func NewKeyboardReader() (*KeyboardReader, error) {
	restore, err := enableRawMode(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	kr := newReader(os.Stdin)
	kr.restore = restore
	go kr.readInput()
	return kr, nil
}

// NewKeyboardReaderFrom reads key presses from r without touching terminal modes.
func NewKeyboardReaderFrom(r io.Reader) *KeyboardReader {
	kr := newReader(r)
	go kr.readInput()
	return kr
}

func newReader(r io.Reader) *KeyboardReader {
	return &KeyboardReader{
		in:    r,
		input: make(chan KeyEvent, 16),
		stop:  make(chan struct{}),
	}
}

func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 32)
	for {
		n, err := kr.in.Read(buf)
		for _, ev := range parseInput(buf[:n]) {
			select {
			case kr.input <- ev:
			case <-kr.stop:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				util.LogDebugf("Keyboard read stopped: %v", err)
			}
			return
		}
	}
}

// parseInput splits a read into key events. Arrow keys arrive as ESC [ A..D.
func parseInput(buf []byte) []KeyEvent {
	var events []KeyEvent
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		switch {
		case b == 27:
			if i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				if t, ok := arrowKey(buf[i+2]); ok {
					events = append(events, KeyEvent{Key: rune(buf[i+2]), Type: t})
					i += 2
					continue
				}
			}
			events = append(events, KeyEvent{Key: 27, Type: KeyEscape})
		case b == '\r' || b == '\n':
			events = append(events, KeyEvent{Key: rune(b), Type: KeyEnter})
		default:
			events = append(events, KeyEvent{Key: rune(b), Type: KeyChar})
		}
	}
	return events
}

func arrowKey(b byte) (KeyType, bool) {
	switch b {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return KeyChar, false
}

// Events returns the key event channel.
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops reading and restores the terminal. A read already blocked on
// stdin returns with the next key press.
func (kr *KeyboardReader) Close() error {
	var err error
	kr.once.Do(func() {
		close(kr.stop)
		if kr.restore != nil {
			err = kr.restore()
		}
	})
	return err
}
