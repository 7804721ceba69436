package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToMarkdown_RendersTurnsInOrder(t *testing.T) {
	turns := []Turn{
		UserTurn("Hello"),
		ModelTurn("Hi there"),
		UserTurn("How are you?\nStill there?"),
		ModelTurn("- Fine\n- Thanks"),
	}

	md, err := ToMarkdown("abc-123", turns)
	require.NoError(t, err)

	require.Contains(t, md, "# Conversation `abc-123`")
	require.Contains(t, md, "2 exchange(s)")
	require.Contains(t, md, "> Hello")
	require.Contains(t, md, "> How are you?\n> Still there?")
	require.Contains(t, md, "- Fine\n- Thanks")

	hello := strings.Index(md, "> Hello")
	hiThere := strings.Index(md, "Hi there")
	fine := strings.Index(md, "- Fine")
	require.Less(t, hello, hiThere)
	require.Less(t, hiThere, fine)
}

func TestToMarkdown_EmptyHistory(t *testing.T) {
	md, err := ToMarkdown("empty", nil)
	require.NoError(t, err)

	require.Contains(t, md, "0 exchange(s)")
	require.NotContains(t, md, "### ")
}
