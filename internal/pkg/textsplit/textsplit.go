package textsplit

import (
	"fmt"
	"strings"
)

// Defaults match the document indexing pipeline.
const (
	DefaultChunkSize = 800
	DefaultOverlap   = 150
)

// separators in preference order: paragraph break, line break, sentence
// end, word boundary. A hard rune cut is the last resort.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split cuts text into overlapping windows of roughly chunkSize runes.
// Every window is an exact substring of text; each window after the first
// starts exactly overlap runes before the previous window's end, so the
// original text can be reconstructed by dropping the leading overlap of
// every chunk but the first. Empty or whitespace-only input yields no
// chunks. Split is deterministic and stateless.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be >= 0 and < chunk size, got overlap=%d size=%d", overlap, chunkSize)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	var chunks []string
	start := 0
	for {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		end = snapToBoundary(runes, start, end, overlap)
		chunks = append(chunks, string(runes[start:end]))
		start = end - overlap
	}
	return chunks, nil
}

// snapToBoundary pulls the window end back to the latest natural break,
// trying each separator class in order. A snapped end must still make
// forward progress (end - start > overlap); otherwise the hard cut stands.
func snapToBoundary(runes []rune, start, end, overlap int) int {
	window := string(runes[start:end])
	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		cut := start + len([]rune(window[:idx+len(sep)]))
		if cut-start > overlap {
			return cut
		}
	}
	return end
}
