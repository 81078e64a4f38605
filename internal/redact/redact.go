package redact

import (
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

// patterns match credentials people paste into issue text by mistake.
var patterns = []*regexp.Regexp{
	// GitHub personal, OAuth, app and refresh tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Fine-grained GitHub tokens
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`),
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	regexp.MustCompile(`-----BEGIN\s+([A-Z]+\s+)?PRIVATE KEY-----`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`),
	// key = "value" style assignments
	regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password|passwd)\s*[:=]\s*["']?[A-Za-z0-9/+=_.-]{16,}["']?`),
}

// Secrets replaces credential-shaped substrings of text with [REDACTED].
func Secrets(text string) string {
	for _, pat := range patterns {
		text = pat.ReplaceAllString(text, placeholder)
	}
	return text
}

// Value removes every occurrence of a known secret from text. Short values
// are left alone so a one-letter token can't blank out a message.
func Value(text, secret string) string {
	if len(secret) < 8 {
		return text
	}
	return strings.ReplaceAll(text, secret, placeholder)
}
