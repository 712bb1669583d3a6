package extract

import "strings"

// SystemPrompt frames the model as a conservative extractor.
const SystemPrompt = "You are a precise music information extraction system. " +
	"Only extract specific, verifiable music entities. Respond with JSON only."

const userPromptTemplate = `Extract ONLY clearly identifiable music-related entities from this text. Return a JSON object with these keys:
{
  "artist_searches": [list of specific artist names only],
  "album_searches": [list of objects with "album_title" and "artist_name" if known],
  "song_searches": [list of objects with "song_title" and "artist_name" if known]
}

Guidelines:
- Only include actual artist names, song titles, and album names
- Do not include generic descriptions (e.g., "industrial hardcore songs" is not a song title)
- Do not include post markers like "IIL", "WEWIL", "TOMT"
- For artist names, resolve common abbreviations (e.g., "5SOS" -> "5 Seconds of Summer")
- If an album or song is mentioned with its artist, always pair them together
- If unsure about whether something is a music entity, exclude it

Text: `

// UserPrompt embeds comment text in the extraction instructions.
func UserPrompt(text string) string {
	return userPromptTemplate + strings.TrimSpace(text)
}
