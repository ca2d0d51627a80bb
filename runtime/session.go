package runtime

import (
	"context"
	"log/slog"
	"strings"

	"tchat/contract"
	"tchat/domain"
	"tchat/errors"
	"tchat/moderation"
	"tchat/observability"
)

// State tracks where a session is in its lifecycle. Transitions only ever
// move forward; StateClosed is terminal.
type State int

const (
	StateConnecting State = iota
	StateNameNegotiation
	StateActive
	StateClosing
	StateClosed
)

const instructions = `
AVAILABLE COMMANDS:
   /list              - show the connected clients
   /to <name> <message> - send a private message
   /all <message>     - send a message to everyone
   /quit              - leave the chat

Type a plain message to send it to everyone
`

// Session is the per-connection control loop: name negotiation, welcome
// sequence, command dispatch, chat loop, cleanup. One Session runs per
// accepted connection, concurrently with all others, and owns its state
// exclusively; other goroutines only reach it through its registry entry.
type Session struct {
	log      *slog.Logger
	conn     contract.ConnHandle
	registry *Registry
	router   *Router
	filter   *moderation.Filter // nil when moderation is disabled
	stats    *observability.Stats

	name       string // immutable once negotiation succeeds
	registered bool
	state      State
}

func NewSession(log *slog.Logger, conn contract.ConnHandle, registry *Registry,
	router *Router, filter *moderation.Filter, stats *observability.Stats) *Session {
	return &Session{
		log:      log,
		conn:     conn,
		registry: registry,
		router:   router,
		filter:   filter,
		stats:    stats,
		state:    StateConnecting,
	}
}

// Run drives the session to completion. It always returns nil: every
// per-connection error is contained here and must never propagate to the
// listener or to other sessions.
func (s *Session) Run(ctx context.Context) error {
	s.stats.IncrSessionsOpened()
	defer s.shutdown()

	if err := s.negotiate(); err != nil {
		s.log.Info("Name negotiation failed", "from", s.conn.RemoteAddr(), "error", err)
		return nil
	}

	s.log.Info("Client joined", "name", s.name, "from", s.conn.RemoteAddr())
	s.welcome()
	s.chatLoop(ctx)
	return nil
}

// negotiate runs the Connecting -> NameNegotiation step: prompt, read one
// proposal, evaluate it exactly once. A taken or invalid name is answered
// with the rejection token and the session never reaches Active.
func (s *Session) negotiate() error {
	s.state = StateNameNegotiation
	if err := s.conn.SendLine(domain.TokenEnterName); err != nil {
		return err
	}

	proposal, err := s.conn.ReadLine()
	if err != nil {
		return err
	}
	name := strings.TrimSpace(proposal)

	if err := domain.ValidateName(name); err != nil {
		s.stats.IncrNamesRejected()
		_ = s.conn.SendLine(domain.TokenNameTaken)
		return err
	}
	if err := s.registry.TryRegister(name, s.conn); err != nil {
		// A registration refused by the shutdown sweep is not a bad name;
		// the rejection counter only tallies names the policy turned down.
		if err == errors.ErrNameTaken {
			s.stats.IncrNamesRejected()
			_ = s.conn.SendLine(domain.TokenNameTaken)
		}
		return err
	}

	s.name = name
	s.registered = true
	s.state = StateActive
	return nil
}

func (s *Session) welcome() {
	frame := strings.Repeat("=", 50)
	s.send("\n" + frame + "\nWelcome " + s.name + "!\n" + frame + "\n")
	s.send(renderRoster(s.registry.Snapshot(), s.name))
	s.send(instructions)
	s.router.Announce(s.name+" joined the chat", s.name)
}

// chatLoop reads lines until the peer disconnects, a read fails or the
// client quits. Any read error is an implicit disconnect, never retried.
func (s *Session) chatLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		line, err := s.conn.ReadLine()
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, domain.CommandPrefix) {
			if quit := s.dispatch(line); quit {
				return
			}
			continue
		}
		s.broadcastChat(line)
	}
}

func (s *Session) broadcastChat(line string) {
	content := line
	if s.filter != nil {
		verdict := s.filter.Inspect(line)
		content = verdict.Clean
		s.stats.TallyLanguage(verdict.Lang)
		if len(verdict.Matched) > 0 {
			s.log.Debug("Censored message", "name", s.name, "words", len(verdict.Matched))
		}
	}
	s.router.Broadcast(domain.NewMessage(s.name, content).Render(), s.name)
}

// dispatch interprets one slash command. Every reply goes only to the
// issuing connection; global state is touched only through registry/router.
func (s *Session) dispatch(line string) (quit bool) {
	cmd := domain.ParseCommand(line)
	switch cmd.Name {
	case domain.CmdList:
		s.send(renderRoster(s.registry.Snapshot(), s.name))

	case domain.CmdTo:
		if cmd.Arg == "" {
			s.send("Unknown command. Type /list to see the connected clients")
			return false
		}
		to, text, ok := domain.SplitDirected(cmd.Arg)
		if !ok {
			s.send("Incorrect format. Use: /to <name> <message>")
			return false
		}
		switch s.router.Direct(s.name, to, text) {
		case domain.Delivered:
			s.send("Private message sent to " + to)
		case domain.RecipientNotFound:
			s.send("Client '" + to + "' not found")
		case domain.SendFailed:
			s.send("Could not deliver the message to " + to)
		}

	case domain.CmdAll:
		if cmd.Arg == "" {
			s.send("Unknown command. Type /list to see the connected clients")
			return false
		}
		s.router.Broadcast(domain.NewMessage(s.name, cmd.Arg).RenderToAll(), s.name)
		s.send("Message sent to everyone")

	case domain.CmdQuit:
		s.send("Goodbye!")
		return true

	default:
		s.send("Unknown command. Type /list to see the connected clients")
	}
	return false
}

// shutdown runs the Closing -> Closed steps exactly once per session,
// whatever path led here: quit, orderly close, read error.
func (s *Session) shutdown() {
	s.state = StateClosing
	if s.registered {
		s.registry.Unregister(s.name)
		s.router.Announce(s.name+" left the chat", s.name)
		s.log.Info("Client left", "name", s.name)
	} else {
		s.registry.Discard(s.conn)
	}
	_ = s.conn.Close()
	s.state = StateClosed
	s.stats.IncrSessionsClosed()
}

// send pushes a notice to this session's own peer. Failures are ignored:
// a broken connection will surface on the next read.
func (s *Session) send(text string) {
	_ = s.conn.SendLine(text)
}
