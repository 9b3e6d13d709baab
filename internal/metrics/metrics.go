package metrics

import (
	"sync"
	"time"
)

// Run collects counters and stage timings of one generator run.
type Run struct {
	mu sync.RWMutex

	// Counters
	FeedEntries    int64
	CandidateLinks int64
	Sentences      int64
	Tokens         int64
	EligibleTokens int64
	Gaps           int64

	// Timings
	StageTimes map[string]time.Duration
	TotalTime  time.Duration

	// Status
	StartTime time.Time
	Article   string
	LastError string
}

func NewRun() *Run {
	return &Run{
		StageTimes: make(map[string]time.Duration),
		StartTime:  time.Now(),
	}
}

func (r *Run) AddFeedEntries(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FeedEntries += int64(n)
}

func (r *Run) AddCandidateLinks(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CandidateLinks += int64(n)
}

func (r *Run) SetArticle(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Article = url
}

func (r *Run) RecordExercise(sentences, tokens, eligible, gaps int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sentences += int64(sentences)
	r.Tokens += int64(tokens)
	r.EligibleTokens += int64(eligible)
	r.Gaps += int64(gaps)
}

// Stage times fn under name. Repeated stages add up.
func (r *Run) Stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.RecordStageTime(name, time.Since(start))
	if err != nil {
		r.SetError(err.Error())
	}
	return err
}

func (r *Run) RecordStageTime(name string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StageTimes[name] += duration
	r.TotalTime += duration
}

func (r *Run) SetError(err string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastError = err
}

func (r *Run) GetStats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := map[string]interface{}{
		"feed_entries":    r.FeedEntries,
		"candidate_links": r.CandidateLinks,
		"sentences":       r.Sentences,
		"tokens":          r.Tokens,
		"eligible_tokens": r.EligibleTokens,
		"gaps":            r.Gaps,
		"article":         r.Article,
		"total_time_ms":   r.TotalTime.Milliseconds(),
		"start_time":      r.StartTime.Format(time.RFC3339),
		"last_error":      r.LastError,
	}
	for name, d := range r.StageTimes {
		stats[name+"_ms"] = d.Milliseconds()
	}
	return stats
}
