package analysis

import (
	"context"

	"github.com/okian/skipcheck/internal/domain/model"
)

// ProfileFetcher loads account metadata for a trimmed, non-empty handle.
// Failures are *model.Failure of kind ProfileNotFound or TransportError.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, handle string) (model.Profile, error)
}

// HistoryFetcher loads the full submission history for a handle, newest first.
// Failures are *model.Failure of kind HistoryFetchFailed or TransportError.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, handle string) ([]model.Submission, error)
}

// Fetcher is the remote platform as seen by the engine.
type Fetcher interface {
	ProfileFetcher
	HistoryFetcher
}

// Engine sequences the two fetches and summarises the history. It holds no
// mutable state, so one Engine may serve concurrent Analyze calls.
type Engine struct {
	profiles ProfileFetcher
	history  HistoryFetcher
}

// NewEngine creates an engine over the given fetchers.
func NewEngine(profiles ProfileFetcher, history HistoryFetcher) *Engine {
	return &Engine{profiles: profiles, history: history}
}

// Analyze validates rawHandle, fetches the profile and then the history, and
// summarises the result.
//
// An empty handle fails with InvalidInput before any network call. A profile
// failure short-circuits the history request. When the history fetch fails
// the fetched profile is still returned with a zero result. Fetcher failures
// are returned unchanged.
func (e *Engine) Analyze(ctx context.Context, rawHandle string) (model.Profile, model.AnalysisResult, error) {
	handle, err := model.NormalizeHandle(rawHandle)
	if err != nil {
		return model.Profile{}, model.AnalysisResult{}, err
	}

	profile, err := e.profiles.FetchProfile(ctx, handle)
	if err != nil {
		return model.Profile{}, model.AnalysisResult{}, err
	}

	submissions, err := e.history.FetchHistory(ctx, handle)
	if err != nil {
		return profile, model.AnalysisResult{}, err
	}

	return profile, Summarize(submissions), nil
}
