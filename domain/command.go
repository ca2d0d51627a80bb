package domain

import (
	"strings"
	"unicode"
)

type CommandName string

const (
	CmdList    CommandName = "/list"
	CmdTo      CommandName = "/to"
	CmdAll     CommandName = "/all"
	CmdQuit    CommandName = "/quit"
	CmdUnknown CommandName = ""
)

// Command is a parsed slash-command line: the lowercased command word
// and whatever followed the first run of whitespace.
type Command struct {
	Name CommandName
	Arg  string
}

// ParseCommand splits a command line on the first run of whitespace.
// The command word is matched case-insensitively; anything not in the
// table comes back as CmdUnknown.
func ParseCommand(line string) Command {
	word, arg := splitFirst(line)
	switch CommandName(strings.ToLower(word)) {
	case CmdList:
		return Command{Name: CmdList, Arg: arg}
	case CmdTo:
		return Command{Name: CmdTo, Arg: arg}
	case CmdAll:
		return Command{Name: CmdAll, Arg: arg}
	case CmdQuit:
		return Command{Name: CmdQuit, Arg: arg}
	default:
		return Command{Name: CmdUnknown, Arg: arg}
	}
}

// SplitDirected splits a /to argument into recipient and message text.
// A recipient without any message text is malformed, not an empty message.
func SplitDirected(arg string) (to, text string, ok bool) {
	to, text = splitFirst(arg)
	if to == "" || text == "" {
		return "", "", false
	}
	return to, text, true
}

func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
