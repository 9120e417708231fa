// Package reassembler rebuilds a full screen-text grid from protocol chunks.
package reassembler

import (
	"github.com/photonicat/mintaka_screen/internal/logging"
	"github.com/photonicat/mintaka_screen/internal/protocol"
	"github.com/photonicat/mintaka_screen/internal/screentext"
)

// Stats counts what the reassembler has seen since construction.
type Stats struct {
	Chunks    uint64 `json:"chunks"`
	Transfers uint64 `json:"transfers"`
	Resyncs   uint64 `json:"resyncs"`
	Dropped   uint64 `json:"dropped"`
}

// Reassembler writes chunk payloads into the store's staging grid and commits
// staging to live once TotalLines lines have arrived.
type Reassembler struct {
	store    *screentext.Store
	nextLine int
	stats    Stats
}

func New(store *screentext.Store) *Reassembler {
	return &Reassembler{store: store}
}

// Ingest consumes one chunk and reports whether it completed a transfer.
func (r *Reassembler) Ingest(c protocol.Chunk) bool {
	r.stats.Chunks++

	if c.IsStart() {
		if r.nextLine != 0 {
			r.stats.Resyncs++
			logging.Debug("reassembler: start tag at line %d, discarding partial transfer", r.nextLine)
		}
		r.store.ResetStaging()
		r.nextLine = 0
	}

	// nextLine wraps on commit, so this only counts if that bound ever breaks
	if !r.store.WriteStaging(r.nextLine, c.Payload()) {
		r.stats.Dropped++
		return false
	}
	r.nextLine++

	if r.nextLine < screentext.TotalLines {
		return false
	}
	r.store.Commit()
	r.nextLine = 0
	r.stats.Transfers++
	return true
}

// NextLine returns the row the next chunk will be written to.
func (r *Reassembler) NextLine() int { return r.nextLine }

// Reset drops any partial transfer.
func (r *Reassembler) Reset() {
	r.nextLine = 0
	r.store.ResetStaging()
}

func (r *Reassembler) Stats() Stats { return r.stats }
