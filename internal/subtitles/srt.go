package subtitles

import (
	"fmt"
	"math"
	"strings"
)

// DefaultWordsPerCaption is the default word grouping for caption lines.
const DefaultWordsPerCaption = 4

// GenerateSRT renders word timings as an SRT document: sequential 1-based
// indices, HH:MM:SS,mmm timecodes, one caption per group of words. Each
// caption spans from the first word's start to the last word's end.
func GenerateSRT(words []Word, wordsPerCaption int) string {
	if len(words) == 0 {
		return ""
	}
	if wordsPerCaption <= 0 {
		wordsPerCaption = DefaultWordsPerCaption
	}

	var b strings.Builder
	index := 1
	for start := 0; start < len(words); start += wordsPerCaption {
		end := start + wordsPerCaption
		if end > len(words) {
			end = len(words)
		}
		group := words[start:end]

		texts := make([]string, 0, len(group))
		for _, word := range group {
			if trimmed := strings.TrimSpace(word.Word); trimmed != "" {
				texts = append(texts, trimmed)
			}
		}
		if len(texts) == 0 {
			continue
		}

		fmt.Fprintf(&b, "%d\n", index)
		fmt.Fprintf(&b, "%s --> %s\n", FormatTimestamp(group[0].Start), FormatTimestamp(group[len(group)-1].End))
		b.WriteString(strings.Join(texts, " "))
		b.WriteString("\n\n")
		index++
	}
	return b.String()
}

// FormatTimestamp renders seconds as an SRT timecode (HH:MM:SS,mmm).
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(math.Round(seconds * 1000))
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
