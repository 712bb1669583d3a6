// Command ifyoulike turns an r/ifyoulikeblank thread from a Pushshift archive
// into a Spotify playlist.
//
// The run command reads the submission and its comments from the configured
// archives, asks the language model for the artists, albums and songs each
// comment recommends, reconciles them under the configured caps and
// publishes the result. Supporting commands cover ad-hoc extraction, the
// Spotify login flow, an LLM health check, the completion cache and config
// management.
package main
