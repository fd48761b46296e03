package render

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/glamour"
	"github.com/stretchr/testify/assert"

	"github.com/matiasleandrokruk/relaychat/internal/domain/chat"
)

func TestRenderer_PlainWhenNotTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(&buf)

	r.Conversation([]chat.Message{
		chat.UserMessage("Hi"),
		chat.AssistantMessage("**Hello**"),
	})

	assert.Equal(t, "user: Hi\nassistant:\n**Hello**\n", buf.String())
}

func TestRenderer_EmptyConversation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf).Conversation(nil)
	assert.Equal(t, "(no messages)\n", buf.String())
}

func TestRenderer_MarkdownStylesAssistantTurns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := &Renderer{out: &buf, markdown: newMarkdown(glamour.WithStandardStyle("dark"))}
	r.Message(chat.AssistantMessage("# Title\n\nsome *text*"))

	out := buf.String()
	assert.Contains(t, out, "Title")
	assert.NotContains(t, out, "# Title")
}

func TestRenderer_ErrorAndInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(&buf)
	r.Error("rate limited")
	r.Info("temperature set to %.2f", 0.2)

	assert.Equal(t, "error: rate limited\ntemperature set to 0.20\n", buf.String())
}
