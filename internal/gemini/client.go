package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edusight/gradescan-backend/internal/config"
	"github.com/edusight/gradescan-backend/internal/model"
)

// Sentinel errors for upstream calls.
var (
	// ErrEndpointUnset marks a transport failure whose real cause is a
	// missing GEMINI_ENDPOINT value.
	ErrEndpointUnset = errors.New("gemini endpoint not configured")
	// ErrMalformedResponse marks a 200 response that does not carry
	// decodable student records.
	ErrMalformedResponse = errors.New("malformed gemini response")
)

// StatusError is returned when the upstream answers with a non-200 status.
// Body holds the raw upstream response text for the failure envelope.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini returned status %d", e.Code)
}

// Client calls a configured generateContent endpoint to extract student
// records from an uploaded grade report image.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      zerolog.Logger
}

// NewClient creates a Client from the application configuration. The
// endpoint and key are held for the process lifetime and never re-read
// from the environment.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		endpoint: cfg.GeminiEndpoint,
		apiKey:   cfg.GeminiAPIKey,
		// Extraction of a dense page has no usable upper bound, so the
		// client carries no timeout. Cancellation rides the request
		// context.
		http: &http.Client{},
		log:  log.With().Str("component", "gemini_client").Logger(),
	}
}

// Extract sends the document with the extraction prompt and decodes the
// answered records. The media type is passed through unvalidated. One
// blocking POST, no retries.
func (c *Client) Extract(ctx context.Context, data []byte, mediaType string) ([]model.StudentRecord, error) {
	reqBody := GenerateRequest{
		Contents: []Content{{
			Parts: []Part{
				{InlineData: &InlineData{
					MimeType: mediaType,
					Data:     base64.StdEncoding.EncodeToString(data),
				}},
				{Text: extractionPrompt},
			},
		}},
	}

	buf, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", c.apiKey)

	c.log.Debug().
		Str("media_type", mediaType).
		Int("document_bytes", len(data)).
		Msg("Forwarding document for extraction")

	resp, err := c.http.Do(req)
	if err != nil {
		// An empty endpoint can never be dialed; name the configuration
		// gap instead of the opaque transport error.
		if c.endpoint == "" {
			return nil, fmt.Errorf("%w: %v", ErrEndpointUnset, err)
		}
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	text, err := candidateText(&out)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(text)
	if err != nil {
		return nil, err
	}

	c.log.Debug().Int("students", len(records)).Msg("Extraction answered")
	return records, nil
}

// candidateText navigates the fixed candidates[0].content.parts[0].text
// path. Any deviation from that shape is a malformed response.
func candidateText(resp *GenerateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: candidate has no parts", ErrMalformedResponse)
	}
	return parts[0].Text, nil
}

// StripFences removes the markdown fence markers the model wraps JSON
// answers in. Only the literal "```json\n" and "\n```" substrings are
// replaced; a fence spelled any other way passes through unchanged and is
// left for the JSON decoder to reject.
func StripFences(text string) string {
	text = strings.ReplaceAll(text, "```json\n", "")
	return strings.ReplaceAll(text, "\n```", "")
}

func decodeRecords(text string) ([]model.StudentRecord, error) {
	var records []model.StudentRecord
	if err := json.Unmarshal([]byte(StripFences(text)), &records); err != nil {
		return nil, fmt.Errorf("%w: decode records: %v", ErrMalformedResponse, err)
	}
	// A literal null answer decodes into a nil slice without an error;
	// only a JSON array counts as a usable answer.
	if records == nil {
		return nil, fmt.Errorf("%w: answer is not a record array", ErrMalformedResponse)
	}
	return records, nil
}
