package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/reptrack/service_layer/internal/httputil"
)

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 8 << 20

// BatchResult is one completed batch lookup as reported by the catalog.
// Missing is the upstream's own view of which requested identifiers do
// not exist; reconciliation recomputes it locally before anything is
// returned to callers.
type BatchResult struct {
	Exercises []Exercise
	Missing   []ExerciseID
}

// Transport performs a single lookup attempt against the catalog
// service. Implementations make exactly one network call per invocation
// and never retry; the resolver owns the retry loop.
type Transport interface {
	// LookupBatch resolves a set of identifiers in one call. A 429 is
	// returned as *RateLimitedError, any other failure as a fatal error.
	LookupBatch(ctx context.Context, ids []ExerciseID) (*BatchResult, error)

	// LookupOne resolves a single identifier. A 404 maps to ErrNotFound.
	LookupOne(ctx context.Context, id ExerciseID) (*Exercise, error)
}

type httpTransport struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func newHTTPTransport(baseURL, apiKey string, client *http.Client) *httpTransport {
	return &httpTransport{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

type batchEnvelope struct {
	Data struct {
		Entities           []Exercise   `json:"entities"`
		MissingIdentifiers []ExerciseID `json:"missingIdentifiers"`
	} `json:"data"`
}

type entityEnvelope struct {
	Data struct {
		Entity Exercise `json:"entity"`
	} `json:"data"`
}

func (t *httpTransport) LookupBatch(ctx context.Context, ids []ExerciseID) (*BatchResult, error) {
	url := t.baseURL + "/entities/batch?ids=" + joinIDs(ids)

	resp, err := t.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := httputil.ReadAllStrict(resp.Body, maxResponseBytes)
		if err != nil {
			return nil, &UpstreamError{Status: resp.StatusCode, Msg: fmt.Sprintf("read body: %v", err)}
		}
		var envelope batchEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, &UpstreamError{Status: resp.StatusCode, Msg: fmt.Sprintf("malformed body: %v", err)}
		}
		return &BatchResult{
			Exercises: envelope.Data.Entities,
			Missing:   envelope.Data.MissingIdentifiers,
		}, nil

	case http.StatusTooManyRequests:
		return nil, rateLimited(resp)

	default:
		return nil, upstreamError(resp)
	}
}

func (t *httpTransport) LookupOne(ctx context.Context, id ExerciseID) (*Exercise, error) {
	url := t.baseURL + "/entities/" + strconv.FormatInt(int64(id), 10)

	resp, err := t.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := httputil.ReadAllStrict(resp.Body, maxResponseBytes)
		if err != nil {
			return nil, &UpstreamError{Status: resp.StatusCode, Msg: fmt.Sprintf("read body: %v", err)}
		}
		var envelope entityEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, &UpstreamError{Status: resp.StatusCode, Msg: fmt.Sprintf("malformed body: %v", err)}
		}
		return &envelope.Data.Entity, nil

	case http.StatusNotFound:
		return nil, ErrNotFound

	case http.StatusTooManyRequests:
		return nil, rateLimited(resp)

	default:
		return nil, upstreamError(resp)
	}
}

func (t *httpTransport) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if t.apiKey != "" {
		req.Header.Set("X-API-Key", t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		// Context errors pass through wrapped so callers can still
		// distinguish cancellation from upstream failure via errors.Is.
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	return resp, nil
}

// rateLimited classifies a 429, reading the Retry-After header as an
// integer count of seconds. A missing or malformed header means no hint.
func rateLimited(resp *http.Response) *RateLimitedError {
	header := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if header == "" {
		return &RateLimitedError{}
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return &RateLimitedError{}
	}
	return &RateLimitedError{Hint: time.Duration(seconds) * time.Second, HasHint: true}
}

func upstreamError(resp *http.Response) *UpstreamError {
	body, truncated, err := httputil.ReadAllWithLimit(resp.Body, 64<<10)
	msg := strings.TrimSpace(string(body))
	if err != nil {
		msg = fmt.Sprintf("(unreadable body: %v)", err)
	} else if truncated {
		msg += "...(truncated)"
	}
	return &UpstreamError{Status: resp.StatusCode, Msg: msg}
}

func joinIDs(ids []ExerciseID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(id), 10))
	}
	return b.String()
}
