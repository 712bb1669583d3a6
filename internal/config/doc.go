// Package config loads, normalizes, and validates ifyoulike configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a dotenv file, and honours environment
// fallbacks such as OPENAI_API_KEY and SPOTIFY_CLIENT_ID. The Config value is
// passed explicitly to each component at construction; nothing reads the
// process environment after Load returns.
//
// Credentials are validated lazily through the Require helpers so commands
// such as `config init` or `extract` do not demand Spotify keys.
package config
