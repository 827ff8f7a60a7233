package retrieval

import "time"

// ScoredChunk pairs a chunk identifier with a relevance score (higher is
// better) and its 1-based rank position.
type ScoredChunk struct {
	ID      string
	Content string
	Score   float64
	Rank    int
}

// Mode tags how a Result was produced, so callers can distinguish a full
// two-stage run from a coarse-only fallback.
type Mode int

const (
	ModeFull Mode = iota
	ModeDegraded
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Result is the final ranked output of a retrieval call. It is not mutated
// after the pipeline returns it.
type Result struct {
	Query   string
	Chunks  []ScoredChunk
	Mode    Mode
	Latency time.Duration
}

func (r Result) ChunkIDs() []string {
	ids := make([]string, len(r.Chunks))
	for i := range r.Chunks {
		ids[i] = r.Chunks[i].ID
	}
	return ids
}

func (r Result) Contents() []string {
	contents := make([]string, len(r.Chunks))
	for i := range r.Chunks {
		contents[i] = r.Chunks[i].Content
	}
	return contents
}
