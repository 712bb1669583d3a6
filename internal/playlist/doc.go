// Package playlist resolves a reconciled PlaylistRequest against a streaming
// catalog and publishes the resulting tracks as a playlist.
//
// Every entry is searched once (album and song searches retry with title and
// artist swapped when the first attempt misses). Artists contribute their top
// tracks, albums their most popular tracks, songs themselves. A miss or a
// failed lookup skips that entry and the build continues; only playlist
// creation and track appends can fail a build.
package playlist
