package gemini

// Wire types for the generateContent REST endpoint. Only the fields this
// service reads or writes are modeled.

// GenerateRequest is the outbound request body.
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// Content is one content block of a request.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is either an inline document or a text instruction; exactly one
// field is set per part.
type Part struct {
	InlineData *InlineData `json:"inline_data,omitempty"`
	Text       string      `json:"text,omitempty"`
}

// InlineData carries the uploaded document as base64 with its declared
// media type. The media type is forwarded exactly as the client sent it.
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// GenerateResponse is the inbound response body.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      CandidateContent `json:"content"`
	FinishReason string           `json:"finishReason,omitempty"`
}

// CandidateContent holds the answer parts.
type CandidateContent struct {
	Parts []CandidatePart `json:"parts"`
	Role  string          `json:"role,omitempty"`
}

// CandidatePart is one text fragment of an answer. The extracted records
// live in the first part of the first candidate.
type CandidatePart struct {
	Text string `json:"text"`
}
