// Package redact scrubs credentials from text that dailycontrib persists or
// prints.
//
// Issue bodies are copied into the contribution log, which is often committed
// to a public repository by the scheduled workflow. [Secrets] replaces
// credential-shaped substrings (GitHub tokens, bearer headers, JWTs, private
// key blocks, cloud and chat tokens, key = value assignments) before that
// happens. [Value] removes the run's own token from error messages.
package redact
