// Package pipeline runs one thread through the whole flow: select the thread
// from the archives, rewrite Spotify links, extract entities comment by
// comment, reconcile them, build the playlist and optionally write the run
// report.
//
// Every step is sequential. Context cancellation stops the run between
// comments and between catalog calls. A failed extraction skips its comment;
// setup errors and playlist publication failures end the run.
package pipeline
