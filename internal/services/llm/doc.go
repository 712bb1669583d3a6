// Package llm provides the completion clients used for entity extraction.
//
// Two backends are supported:
//   - Client speaks the OpenAI chat completion protocol and serves both
//     OpenAI and OpenRouter (selected by base URL).
//   - GeminiClient calls the Gemini API through the Google Gen AI SDK.
//
// Both request JSON-mode output at temperature 0 and satisfy Provider, which
// New selects from configuration.
//
// # Retry Behaviour
//
// Requests are retried on HTTP 408/429/5xx errors, empty completions and
// network timeouts with exponential backoff (base 1s, max 10s, up to 5
// attempts by default). Retry-After headers are honoured. Context
// cancellation aborts retries immediately.
//
// # Payload Decoding
//
// DecodeLLMJSON tolerates code fences and prose around the JSON object, which
// models emit even in JSON mode.
package llm
