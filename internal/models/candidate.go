package models

// Candidate is one uploaded resume and what was derived from it.
type Candidate struct {
	Name     string  `json:"name"`
	Filename string  `json:"filename"`
	Text     string  `json:"-"`
	Result   string  `json:"result"`
	Score    float64 `json:"score"`
}
