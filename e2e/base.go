package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"tchat/domain"
	"tchat/moderation"
	"tchat/observability"
	"tchat/runtime"
	"tchat/runtime/workers"
	"tchat/transport"
)

const readTimeout = 3 * time.Second

// BaseChatSuite starts (or targets) a chat server and hands out connected
// test clients speaking the real wire protocol over TCP.
type BaseChatSuite struct {
	suite.Suite
	Config Config

	addr       string
	cancel     context.CancelFunc
	supervisor *workers.Supervisor
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseChatSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.ServerAddr != "" {
		s.addr = s.Config.ServerAddr
		return
	}
	s.addr, s.cancel, s.supervisor = StartTestServer(s.Require().NoError)
}

func (s *BaseChatSuite) TearDownSuite() {
	if s.cancel != nil {
		s.cancel()
		s.supervisor.Wait()
	}
}

// StartTestServer wires the full server stack on a random local port.
func StartTestServer(noError func(error, ...interface{})) (addr string, cancel context.CancelFunc, sup *workers.Supervisor) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	dict, err := moderation.LoadDictionary()
	noError(err)
	filter, err := moderation.NewFilter(dict.Words, '*')
	noError(err)

	stats := observability.NewStats()
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, registry, stats)
	sup = workers.NewSupervisor(log)
	server := runtime.NewServer(log, registry, router, filter, stats, sup)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	noError(err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = server.Serve(ctx, listener) }()

	return listener.Addr().String(), cancel, sup
}

// Step prints a colorized header for a scenario step in logs
func (s *BaseChatSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// chatClient is one connected test peer.
type chatClient struct {
	s    *BaseChatSuite
	raw  net.Conn
	conn *transport.Conn
}

// Dial opens a raw connection without negotiating a name.
func (s *BaseChatSuite) Dial() *chatClient {
	raw, err := net.Dial("tcp", s.addr)
	s.Require().NoError(err)
	c := &chatClient{s: s, raw: raw, conn: transport.NewConn(raw)}
	s.T().Cleanup(func() { _ = c.conn.Close() })
	return c
}

// Join dials and completes the whole negotiation and welcome sequence.
func (s *BaseChatSuite) Join(name string) *chatClient {
	c := s.Dial()
	c.ExpectLine(domain.TokenEnterName)
	c.Send(name)
	c.ExpectContains("AVAILABLE COMMANDS")
	return c
}

func (c *chatClient) Send(line string) {
	c.s.Require().NoError(c.conn.SendLine(line))
}

func (c *chatClient) readLine() (string, error) {
	c.s.Require().NoError(c.raw.SetReadDeadline(time.Now().Add(readTimeout)))
	return c.conn.ReadLine()
}

func (c *chatClient) ExpectLine(want string) {
	line, err := c.readLine()
	c.s.Require().NoError(err)
	c.s.Require().Equal(want, line)
}

// ExpectContains reads lines until one contains substr.
func (c *chatClient) ExpectContains(substr string) string {
	for {
		line, err := c.readLine()
		c.s.Require().NoError(err, "expected a line containing %q", substr)
		if strings.Contains(line, substr) {
			return line
		}
	}
}

// ExpectNoLineContaining reads everything arriving within d and fails if
// any line contains substr. System notices from other joins or leaves on
// the shared server are tolerated.
func (c *chatClient) ExpectNoLineContaining(substr string, d time.Duration) {
	c.s.Require().NoError(c.raw.SetReadDeadline(time.Now().Add(d)))
	for {
		line, err := c.conn.ReadLine()
		if err != nil {
			var netErr net.Error
			c.s.Require().ErrorAs(err, &netErr)
			c.s.Require().True(netErr.Timeout())
			return
		}
		c.s.Require().NotContains(line, substr)
	}
}

// ExpectClosed asserts the server has closed the connection.
func (c *chatClient) ExpectClosed() {
	_, err := c.readLine()
	c.s.Require().Error(err)
}
