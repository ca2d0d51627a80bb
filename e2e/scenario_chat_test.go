package e2e

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tchat/domain"
)

type ChatScenarioSuite struct {
	BaseChatSuite
}

func TestChatScenarioSuite(t *testing.T) {
	suite.Run(t, new(ChatScenarioSuite))
}

// shortName builds a unique display name so scenarios sharing the server
// never collide.
func shortName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func (s *ChatScenarioSuite) TestDuplicateNameIsRejected() {
	alice := shortName("alice")

	s.Step("first client claims the name")
	first := s.Join(alice)

	s.Step("second client proposes the same name")
	intruder := s.Dial()
	intruder.ExpectLine(domain.TokenEnterName)
	intruder.Send(alice)

	// The loser is told and its connection closes without reaching the chat
	intruder.ExpectLine(domain.TokenNameTaken)
	intruder.ExpectClosed()

	s.Step("the roster shows no duplicate")
	first.Send("/list")
	first.ExpectContains("You are alone for the moment")
}

func (s *ChatScenarioSuite) TestPrivateMessageVisibility() {
	aliceName := shortName("alice")
	carolName := shortName("carol")
	daveName := shortName("dave")

	s.Step("three clients join")
	alice := s.Join(aliceName)
	carol := s.Join(carolName)
	dave := s.Join(daveName)
	alice.ExpectContains(carolName + " joined")
	alice.ExpectContains(daveName + " joined")
	carol.ExpectContains(daveName + " joined")

	s.Step("alice sends a private message to carol")
	alice.Send("/to " + carolName + " hello")

	line := carol.ExpectContains("hello")
	s.Require().Contains(line, aliceName)
	s.Require().Contains(line, "private message")

	alice.ExpectContains("Private message sent to " + carolName)

	s.Step("nobody else receives it")
	dave.ExpectNoLineContaining("hello", 300*time.Millisecond)
}

func (s *ChatScenarioSuite) TestPlainBroadcastIsNotEchoed() {
	aliceName := shortName("alice")
	carolName := shortName("carol")
	daveName := shortName("dave")

	alice := s.Join(aliceName)
	carol := s.Join(carolName)
	dave := s.Join(daveName)
	alice.ExpectContains(carolName + " joined")
	alice.ExpectContains(daveName + " joined")
	carol.ExpectContains(daveName + " joined")

	s.Step("alice sends a plain chat line")
	alice.Send("hi everyone")

	s.Step("the others receive a timestamped line")
	line := carol.ExpectContains(aliceName + ": hi everyone")
	s.Require().Regexp(`^\[\d{2}:\d{2}:\d{2}\] `, line)
	dave.ExpectContains(aliceName + ": hi everyone")

	s.Step("alice does not hear her own message back")
	alice.ExpectNoLineContaining("hi everyone", 300*time.Millisecond)
}

func (s *ChatScenarioSuite) TestQuitRemovesFromRoster() {
	aliceName := shortName("alice")
	carolName := shortName("carol")

	alice := s.Join(aliceName)
	carol := s.Join(carolName)
	alice.ExpectContains(carolName + " joined")

	s.Step("carol quits")
	carol.Send("/quit")
	carol.ExpectContains("Goodbye!")
	carol.ExpectClosed()

	alice.ExpectContains(carolName + " left the chat")

	s.Step("a later roster no longer shows carol")
	alice.Send("/list")
	alice.ExpectContains("You are alone for the moment")
}
