// Package retrieval is an in-memory keyword retrieval engine. It stores a
// document as fixed-size word chunks per key and ranks chunks against a
// query by term-frequency cosine similarity.
package retrieval

import (
	"math"
	"sort"
	"strings"
	"sync"
)

const (
	// DefaultChunkSize is the number of words per stored chunk.
	DefaultChunkSize = 100
	// DefaultTopN is the number of chunks returned by Query.
	DefaultTopN = 3
)

// Engine owns chunk sets keyed by an opaque identifier (the session id in
// practice, though the engine has no notion of sessions).
type Engine struct {
	mu     sync.RWMutex
	chunks map[string][]string
}

func NewEngine() *Engine {
	return &Engine{chunks: make(map[string][]string)}
}

// Ingest splits text on whitespace into consecutive non-overlapping windows
// of chunkSize words (the last window may be shorter) and stores them under
// key, replacing any prior chunks. A document with no words is stored as a
// single raw chunk. chunkSize values below 1 fall back to DefaultChunkSize.
func (e *Engine) Ingest(key, text string, chunkSize int) {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}

	words := strings.Fields(text)
	chunks := make([]string, 0, (len(words)+chunkSize-1)/chunkSize)
	for i := 0; i < len(words); i += chunkSize {
		end := min(i+chunkSize, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	if len(chunks) == 0 {
		chunks = []string{text}
	}

	e.mu.Lock()
	e.chunks[key] = chunks
	e.mu.Unlock()
}

// Query ranks the stored chunks for key by similarity to queryText and
// returns the top N chunk texts joined with newlines. Ties keep the
// original chunk order so results are deterministic.
func (e *Engine) Query(key, queryText string, topN int) string {
	if topN < 1 {
		topN = DefaultTopN
	}

	e.mu.RLock()
	chunks := e.chunks[key]
	e.mu.RUnlock()
	if len(chunks) == 0 {
		return ""
	}

	queryTokens := tokenize(queryText)

	type scored struct {
		score float64
		text  string
	}
	ranked := make([]scored, 0, len(chunks))
	for _, c := range chunks {
		ranked = append(ranked, scored{score: similarity(queryTokens, tokenize(c)), text: c})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := min(topN, len(ranked))
	top := make([]string, 0, n)
	for _, r := range ranked[:n] {
		top = append(top, r.text)
	}
	return strings.Join(top, "\n")
}

// FullText reassembles all stored chunks for key in original order.
func (e *Engine) FullText(key string) string {
	e.mu.RLock()
	chunks := e.chunks[key]
	e.mu.RUnlock()

	return strings.Join(chunks, " ")
}

// Cleanup removes all chunks for key.
func (e *Engine) Cleanup(key string) {
	e.mu.Lock()
	delete(e.chunks, key)
	e.mu.Unlock()
}

// tokenize lowercases the input and splits it into alphabetic-only tokens.
func tokenize(text string) []string {
	var tokens []string
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			sb.WriteRune(r)
			continue
		}
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
	}
	if sb.Len() > 0 {
		tokens = append(tokens, sb.String())
	}
	return tokens
}

// similarity is the cosine similarity between the term-frequency vectors of
// two token lists. It is 0 when either vector is empty.
func similarity(queryTokens, docTokens []string) float64 {
	if len(queryTokens) == 0 || len(docTokens) == 0 {
		return 0
	}

	queryCounts := termCounts(queryTokens)
	docCounts := termCounts(docTokens)

	var dot float64
	for t, qc := range queryCounts {
		dot += float64(qc * docCounts[t])
	}

	qNorm := norm(queryCounts)
	dNorm := norm(docCounts)
	if qNorm == 0 || dNorm == 0 {
		return 0
	}

	return dot / (qNorm * dNorm)
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

func norm(counts map[string]int) float64 {
	var sum float64
	for _, v := range counts {
		sum += float64(v * v)
	}
	return math.Sqrt(sum)
}
