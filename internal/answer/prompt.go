package answer

import (
	"fmt"
	"strings"

	"github.com/gurjar1/gpt-researcher/pkg/search"
)

// buildPrompt renders sources as numbered citations, appends a trailing
// window of conversation history, and closes with the question. The chunk
// numbering matches the order of the sources event so citations line up on
// the client.
func buildPrompt(query string, sources []search.Result, history []Message, maxMessages, maxChars int) string {
	lines := make([]string, 0, len(sources))
	for i, s := range sources {
		lines = append(lines, fmt.Sprintf("[%d] %s: %s", i+1, s.Title, s.Snippet))
	}

	var historyText strings.Builder
	if len(history) > 0 {
		if maxMessages > 0 && len(history) > maxMessages {
			history = history[len(history)-maxMessages:]
		}
		historyText.WriteString("\nPrevious Conversation:\n")
		for _, msg := range history {
			role := "Assistant"
			if msg.Role == "user" {
				role = "User"
			}
			historyText.WriteString(role)
			historyText.WriteString(": ")
			historyText.WriteString(clip(msg.Content, maxChars))
			historyText.WriteString("\n")
		}
		historyText.WriteString("\n")
	}

	return fmt.Sprintf(`You are a helpful AI assistant. Answer the user's question based on the search results and conversation context below.
Include citations in your answer using [1], [2], etc. to reference the sources.
Be concise but comprehensive. Format your response in markdown.
%s
Search Results:
%s

User Question: %s

Answer with citations:`, historyText.String(), strings.Join(lines, "\n"), query)
}

func clip(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
