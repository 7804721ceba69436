package conversation

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed transcript_template.tmpl
var transcriptMarkdownTemplate string

// transcriptData is the data structure handed to the transcript template
type transcriptData struct {
	SessionID     string
	RenderedAt    string
	ExchangeCount int
	Messages      []transcriptMessage
}

type transcriptMessage struct {
	Role string
	Text string
}

// ToMarkdown renders a session's history as a markdown transcript
func ToMarkdown(sessionID string, turns []Turn) (string, error) {
	data := transcriptData{
		SessionID:     sessionID,
		RenderedAt:    time.Now().Format("2006-01-02 15:04:05 MST"),
		ExchangeCount: len(turns) / 2,
	}
	for _, turn := range turns {
		data.Messages = append(data.Messages, transcriptMessage{Role: string(turn.Role), Text: turn.Text})
	}

	return renderTranscript(data)
}

func renderTranscript(data transcriptData) (string, error) {
	funcMap := template.FuncMap{
		"indent": func(prefix string, text string) string {
			if text == "" {
				return prefix
			}
			prefixed := strings.Builder{}
			for line := range strings.Lines(text) {
				prefixed.WriteString(prefix)
				prefixed.WriteString(line)
			}
			return prefixed.String()
		},
	}

	tmpl, err := template.New("transcript").Funcs(funcMap).Parse(transcriptMarkdownTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse transcript template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute transcript template: %w", err)
	}

	return buf.String(), nil
}
