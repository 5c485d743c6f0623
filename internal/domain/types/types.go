// Package types contains common types used across the application
package types

import (
	"time"

	"github.com/okian/skipcheck/internal/domain/model"
)

// Report pairs a fetched profile with its analysis result. It is the only
// shape the presentation surfaces consume.
type Report struct {
	RequestID  string               `json:"requestId"`
	Profile    model.Profile        `json:"profile"`
	Result     model.AnalysisResult `json:"result"`
	AnalyzedAt time.Time            `json:"analyzedAt"`
}
