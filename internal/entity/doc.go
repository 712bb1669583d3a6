// Package entity holds the music entities extracted from comments and the
// reconciliation set that folds them into a playlist request.
//
// An Entity is an Artist, Album or Song mention with an optional credited
// artist. A Set accepts entities first-seen-wins, keyed by kind and
// normalized name, and enforces per-kind caps: once the artist or album cap
// is reached further entities of that kind are dropped. Songs are uncapped.
// Freeze turns the set into an ordered PlaylistRequest.
package entity
