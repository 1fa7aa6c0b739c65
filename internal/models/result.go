package models

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Candidates   []CandidateData `json:"candidates,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

type CandidateData struct {
	Rank     int     `json:"rank"`
	Name     string  `json:"name"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
	Result   string  `json:"result"`
}

type SearchHit struct {
	BatchID   string  `json:"batch_id"`
	Candidate string  `json:"candidate"`
	Filename  string  `json:"filename"`
	Score     float64 `json:"score"`
	Relevance float32 `json:"relevance"`
	Excerpt   string  `json:"excerpt"`
}

type SearchResponse struct {
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
}
