package subtitles

import "strings"

const (
	// Weighting for per-word duration: every word gets a base weight plus
	// one unit per character, so longer words span more time.
	estimateBaseWeight = 2.0
	estimateCharWeight = 1.0

	// Narration audio typically has a little leading and trailing silence.
	estimateStartMargin = 0.1
	estimateEndMargin   = 0.2

	estimateWordsPerSegment = 10
)

// Estimate distributes an audio duration across the words of a script,
// proportionally to word length. It is the fallback used by the timestamps
// stage when no transcription provider is configured; the resulting
// transcript is marked Estimated.
func Estimate(text string, duration float64) Transcript {
	transcript := Transcript{
		Text:      strings.TrimSpace(text),
		Duration:  duration,
		Estimated: true,
	}
	tokens := strings.Fields(transcript.Text)
	if len(tokens) == 0 || duration <= 0 {
		return transcript
	}

	usable := duration - estimateStartMargin - estimateEndMargin
	start := estimateStartMargin
	if usable <= 0 {
		usable = duration
		start = 0
	}

	totalWeight := 0.0
	weights := make([]float64, len(tokens))
	for i, token := range tokens {
		weights[i] = estimateBaseWeight + estimateCharWeight*float64(len([]rune(token)))
		totalWeight += weights[i]
	}

	words := make([]Word, len(tokens))
	cursor := start
	for i, token := range tokens {
		span := usable * weights[i] / totalWeight
		words[i] = Word{Word: token, Start: cursor, End: cursor + span}
		cursor += span
	}
	transcript.Words = words
	transcript.Segments = segmentWords(words, estimateWordsPerSegment)
	return transcript
}

func segmentWords(words []Word, wordsPerSegment int) []Segment {
	if len(words) == 0 {
		return nil
	}
	if wordsPerSegment <= 0 {
		wordsPerSegment = estimateWordsPerSegment
	}
	segments := make([]Segment, 0, len(words)/wordsPerSegment+1)
	for start := 0; start < len(words); start += wordsPerSegment {
		end := start + wordsPerSegment
		if end > len(words) {
			end = len(words)
		}
		group := words[start:end]
		texts := make([]string, len(group))
		for i, word := range group {
			texts[i] = word.Word
		}
		segments = append(segments, Segment{
			ID:    len(segments),
			Text:  strings.Join(texts, " "),
			Start: group[0].Start,
			End:   group[len(group)-1].End,
		})
	}
	return segments
}
