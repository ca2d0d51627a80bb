// Package domain contains core concepts of the chat system:
// messages, display names, commands and the wire control tokens.
// No network or UI logic should be added here.
package domain

// Control tokens are reserved literal lines exchanged out-of-band
// with ordinary chat text. A client must treat any negotiation reply
// other than TokenNameTaken as an accepted name.
const (
	TokenEnterName      = "ENTER_NAME"
	TokenNameTaken      = "NAME_TAKEN"
	TokenServerShutdown = "SERVER_SHUTDOWN"
)

// CommandPrefix marks a line as a command instead of a chat message.
const CommandPrefix = "/"
