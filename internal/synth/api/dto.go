package api

// SynthesizeRequest is the POST /synthesize body.
type SynthesizeRequest struct {
	Text        string         `json:"text"`
	Engine      string         `json:"engine"`
	StyleParams map[string]any `json:"style_params"`
}

// SynthesizeResponse carries the encoded audio and its metadata.
type SynthesizeResponse struct {
	Audio      string  `json:"audio"`
	SampleRate int     `json:"sample_rate"`
	Duration   float64 `json:"duration"`
	Engine     string  `json:"engine"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status           string   `json:"status"`
	ActiveEngine     string   `json:"active_engine"`
	AvailableEngines []string `json:"available_engines"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
