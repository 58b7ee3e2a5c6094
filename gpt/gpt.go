// Package gpt writes podcast scripts with large language models.
package gpt

import (
	"context"
	"fmt"
	"strings"
)

// ScriptWriter turns aggregated intelligence into a spoken script.
type ScriptWriter interface {
	WriteScript(ctx context.Context, content string, tickers []string) (string, error)
}

// SystemPrompt sets the persona of the podcast host.
const SystemPrompt = "You are the host of a short daily market briefing podcast. " +
	"You write scripts that are read aloud by a single narrator."

// Prompt returns the user prompt asking for a script about tickers.
func Prompt(content string, tickers []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a podcast script of about three minutes covering %s.\n", strings.Join(tickers, ", "))
	sb.WriteString("Open with a one-sentence welcome, give each security its own segment, ")
	sb.WriteString("and close with a short summary of overall sentiment.\n")
	sb.WriteString("Return plain spoken text only: no headings, no markdown, no speaker labels, no sound cues.\n\n")
	sb.WriteString("Research notes:\n")
	sb.WriteString(content)
	return sb.String()
}

func checkScript(script string) (string, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return "", fmt.Errorf("model returned an empty script")
	}
	return script, nil
}
