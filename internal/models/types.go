
package models

import "time"

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Rating labels.
const (
	RatingVerySafe   = "Very Safe"
	RatingSafe       = "Safe"
	RatingModerate   = "Moderate"
	RatingUnsafe     = "Unsafe"
	RatingVeryUnsafe = "Very Unsafe"
	RatingUnknown    = "Unknown"
	RatingError      = "Error"
)

// AnalysisResult is the outcome of analyzing one URL. It is built once and
// not modified afterwards.
type AnalysisResult struct {
	URL              string             `json:"url"`
	Domain           string             `json:"domain"`
	SafetyScore      float64            `json:"safety_score"`
	Rating           string             `json:"rating"`
	BadWordCount     int                `json:"bad_word_count"`
	TotalWordCount   int                `json:"total_word_count"`
	CategoryAnalysis map[string]float64 `json:"category_analysis"`
	Status           Status             `json:"status"`
	Message          string             `json:"message"`
}

// Failed builds the error form of a result for url.
func Failed(url, message string) AnalysisResult {
	return AnalysisResult{
		URL:              url,
		Rating:           RatingError,
		CategoryAnalysis: map[string]float64{},
		Status:           StatusError,
		Message:          message,
	}
}

func (r AnalysisResult) OK() bool { return r.Status == StatusSuccess }

type Metadata struct {
	Query        string    `json:"query"`
	TotalResults int       `json:"total_results"`
	Timestamp    time.Time `json:"timestamp"`
}

type Report struct {
	Results  []AnalysisResult `json:"results"`
	Metadata Metadata         `json:"metadata"`
}
