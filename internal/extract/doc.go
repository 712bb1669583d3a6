// Package extract turns comment text into music entities.
//
// An Extractor sends each comment to a Completer with a fixed instructional
// prompt and parses the reply leniently: the JSON object the prompt asks for
// is preferred, tagged lines ("Artist: X", "Album: Y - Artist") are
// accepted, and anything else parses to nothing. Only a failed completion
// call is an error; malformed output never is.
package extract
