// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Profile is account-level metadata for a handle.
// Nil ratings mean the account is unrated, never rating zero.
type Profile struct {
	Handle    string `json:"handle"`
	Rating    *int   `json:"rating,omitempty"`
	MaxRating *int   `json:"maxRating,omitempty"`
}

// IsRated reports whether the platform assigned a rating to the account.
func (p Profile) IsRated() bool {
	return p.Rating != nil
}

// Problem references the problem a submission was made against.
type Problem struct {
	ContestID *int   `json:"contestId,omitempty"` // absent for practice-only problems
	Index     string `json:"index"`
	Name      string `json:"name"`
	Rating    *int   `json:"rating,omitempty"`
}

// Submission is a single judged (or still judging) attempt as reported by
// the remote platform. Values are never mutated after decoding.
type Submission struct {
	ID                  int64   `json:"id"`
	ContestID           *int    `json:"contestId,omitempty"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	ProgrammingLanguage string  `json:"programmingLanguage"`
	Verdict             *string `json:"verdict,omitempty"` // nil while judging
	Problem             Problem `json:"problem"`
}

// CreatedAt returns the creation time in UTC.
func (s Submission) CreatedAt() time.Time {
	return time.Unix(s.CreationTimeSeconds, 0).UTC()
}

// HasVerdict reports whether the submission carries exactly verdict v.
func (s Submission) HasVerdict(v string) bool {
	return s.Verdict != nil && *s.Verdict == v
}

// AnalysisResult is derived per invocation and never persisted.
type AnalysisResult struct {
	IsSuspicious              bool         `json:"isSuspicious"`
	TotalSubmissionCount      int          `json:"totalSubmissionCount"`
	SuspiciousSubmissionCount int          `json:"suspiciousSubmissionCount"`
	SuspiciousPercentage      float64      `json:"suspiciousPercentage"`
	SuspiciousSubmissions     []Submission `json:"suspiciousSubmissions"`
}

// NormalizeHandle trims surrounding whitespace. Case is preserved because
// the platform owns handle comparison rules.
func NormalizeHandle(raw string) (string, error) {
	handle := strings.TrimSpace(raw)
	if handle == "" {
		return "", NewFailure(KindInvalidInput, "handle must not be empty", nil)
	}
	return handle, nil
}
