package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{
			name: "list without argument",
			line: "/list",
			want: Command{Name: CmdList},
		},
		{
			name: "command word is case insensitive",
			line: "/LIST",
			want: Command{Name: CmdList},
		},
		{
			name: "directed message keeps the full argument",
			line: "/to bob hello over there",
			want: Command{Name: CmdTo, Arg: "bob hello over there"},
		},
		{
			name: "broadcast with message",
			line: "/all hello",
			want: Command{Name: CmdAll, Arg: "hello"},
		},
		{
			name: "argument split on first run of whitespace",
			line: "/to   bob   hi",
			want: Command{Name: CmdTo, Arg: "bob   hi"},
		},
		{
			name: "quit",
			line: "/quit",
			want: Command{Name: CmdQuit},
		},
		{
			name: "unknown command",
			line: "/frobnicate now",
			want: Command{Name: CmdUnknown, Arg: "now"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseCommand(tt.line))
		})
	}
}

func TestSplitDirected(t *testing.T) {
	req := require.New(t)

	// Recipient and message
	to, text, ok := SplitDirected("bob hello there")
	req.True(ok)
	req.Equal("bob", to)
	req.Equal("hello there", text)

	// A recipient without message text is malformed, not an empty message
	_, _, ok = SplitDirected("bob")
	req.False(ok)

	// No argument at all
	_, _, ok = SplitDirected("")
	req.False(ok)

	// Extra whitespace between recipient and message is dropped
	to, text, ok = SplitDirected("  carol   hi  ")
	req.True(ok)
	req.Equal("carol", to)
	req.Equal("hi", text)
}
