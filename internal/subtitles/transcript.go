// Package subtitles holds word-level transcript types, SRT caption
// generation, and the local word-timing estimator used when no transcription
// provider is configured.
package subtitles

// Word is one transcribed word with start/end offsets in seconds.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment groups consecutive words into a sentence-sized span.
type Segment struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the full transcription result persisted as transcript.json.
// Estimated marks transcripts produced by the local estimator rather than a
// transcription provider.
type Transcript struct {
	Text      string    `json:"text"`
	Words     []Word    `json:"words"`
	Segments  []Segment `json:"segments"`
	Duration  float64   `json:"duration"`
	Language  string    `json:"language,omitempty"`
	Estimated bool      `json:"estimated,omitempty"`
}
