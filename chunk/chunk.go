// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunk

import (
	"fmt"
	"strings"

	"github.com/poiesic/agentspace/core"
)

// DefaultMaxChunkSize bounds chunk length when the caller does not choose one.
const DefaultMaxChunkSize = 512

// Split divides text into ordered chunks of at most maxChunkSize characters.
//
// Chunks are slices of the original string: concatenating every chunk's text
// reproduces the input exactly, with no characters added or lost. Split
// points prefer line boundaries; a single line longer than maxChunkSize is
// hard-sliced into maxChunkSize runs rather than dropped.
//
// Empty input yields zero chunks and no error. sourceDescription labels each
// chunk's origin (typically the document file name).
func Split(text string, maxChunkSize int, sourceDescription string) ([]core.TextChunk, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: maxChunkSize %d", ErrInvalidChunkSize, maxChunkSize)
	}
	if text == "" {
		return nil, nil
	}

	var chunks []core.TextChunk
	for start := 0; start < len(text); {
		end := splitPoint(text, start, maxChunkSize)
		chunks = append(chunks, core.TextChunk{
			SequenceIndex:     len(chunks),
			Text:              text[start:end],
			SourceDescription: fmt.Sprintf("%s#%d", sourceDescription, len(chunks)),
		})
		start = end
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunksGenerated
	}

	return chunks, nil
}

// splitPoint finds the end offset of the chunk starting at start.
// It takes the longest run of whole lines that fits within the limit; when
// not even the first line fits, it hard-slices at the limit.
func splitPoint(text string, start, maxChunkSize int) int {
	remaining := len(text) - start
	if remaining <= maxChunkSize {
		return len(text)
	}

	// Last newline within the window closes the final whole line.
	window := text[start : start+maxChunkSize]
	if idx := strings.LastIndexByte(window, '\n'); idx >= 0 {
		return start + idx + 1
	}

	// No line boundary in the window: slice mid-line at the limit.
	return start + maxChunkSize
}
