package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderRoster_Alone(t *testing.T) {
	roster := renderRoster([]string{"alice"}, "alice")
	require.Contains(t, roster, "You are alone for the moment")
}

func TestRenderRoster_MarksRequester(t *testing.T) {
	req := require.New(t)

	roster := renderRoster([]string{"alice", "carol", "dave"}, "carol")

	req.Contains(roster, "CONNECTED CLIENTS")
	req.Contains(roster, "alice")
	req.Contains(roster, "carol")
	req.Contains(roster, "dave")
	req.Contains(roster, "(you)")
}
