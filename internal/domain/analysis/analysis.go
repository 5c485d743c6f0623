// Package analysis classifies a handle's submission history and derives the
// suspicious-verdict summary.
package analysis

import (
	"math"

	"github.com/okian/skipcheck/internal/domain/model"
)

// Classification constants.
const (
	// SkipVerdict is the label the platform assigns when the judge declined
	// to grade a submission, historically after a similarity flag.
	SkipVerdict = "SKIPPED"

	// MaxSuspiciousSample caps AnalysisResult.SuspiciousSubmissions.
	MaxSuspiciousSample = 10

	percentScale = 100
)

// IsSuspicious reports whether a single submission carries the skip verdict.
// Submissions still being judged are never suspicious.
func IsSuspicious(s model.Submission) bool {
	return s.HasVerdict(SkipVerdict)
}

// Summarize derives the analysis result from the full history, which must be
// in the platform's native order. The input slice is not modified.
//
// A single skipped submission marks the whole account as suspicious.
func Summarize(submissions []model.Submission) model.AnalysisResult {
	sample := make([]model.Submission, 0, MaxSuspiciousSample)
	suspicious := 0
	for _, s := range submissions {
		if !IsSuspicious(s) {
			continue
		}
		suspicious++
		if len(sample) < MaxSuspiciousSample {
			sample = append(sample, s)
		}
	}

	return model.AnalysisResult{
		IsSuspicious:              suspicious > 0,
		TotalSubmissionCount:      len(submissions),
		SuspiciousSubmissionCount: suspicious,
		SuspiciousPercentage:      Percentage(suspicious, len(submissions)),
		SuspiciousSubmissions:     sample,
	}
}

// Percentage returns part/total*100 rounded to one decimal place, or 0 when
// total is 0.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)*percentScale*10/float64(total)) / 10
}
