package data

import "encoding/json"

// Envelope is the wrapper SheetDB expects around records on write.
// Data holds either a single job object or an array of jobs.
type Envelope struct {
	Data json.RawMessage `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
