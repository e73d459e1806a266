package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode"

	"golang.org/x/term"

	"github.com/cbegin/soundtype-go"
)

// runInteractive puts the terminal in raw mode and sounds each typed key.
// Enter replays the current line as a sequence, Esc stops it, Ctrl-C or
// Ctrl-D quits.
func runInteractive(engine *soundtype.Engine, presetID string) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("interactive mode needs a terminal on stdin")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	fmt.Print("type to play; Enter plays the line, Esc stops, Ctrl-C quits\r\n")
	in := bufio.NewReader(os.Stdin)
	var line []rune
	for {
		r, _, err := in.ReadRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch r {
		case 3, 4: // Ctrl-C, Ctrl-D
			fmt.Print("\r\n")
			engine.Stop()
			return nil
		case 0x1b:
			engine.Stop()
		case '\r', '\n':
			fmt.Print("\r\n")
			if err := engine.PlayText(string(line), presetID); err != nil {
				return err
			}
			line = line[:0]
		case 0x7f, 0x08:
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Print("\b \b")
			}
		default:
			if !unicode.IsPrint(r) {
				continue
			}
			line = append(line, r)
			fmt.Print(string(r))
			if err := engine.PlayKey(r, presetID); err != nil {
				return err
			}
		}
	}
}
