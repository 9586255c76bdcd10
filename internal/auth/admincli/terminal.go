package admincli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalPrompt returns a no-echo prompt reading from in, or nil when in is
// not a terminal. Prompts are written to out.
func TerminalPrompt(in *os.File, out io.Writer) PasswordPrompt {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
