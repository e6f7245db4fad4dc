package logger

import "golang.org/x/term"

// isTerminal reports whether fd refers to a terminal; color output depends on it
func isTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
