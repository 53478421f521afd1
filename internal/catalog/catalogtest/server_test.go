package catalogtest

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/reptrack/service_layer/internal/catalog"
)

func TestServer_BatchContract(t *testing.T) {
	srv := NewServer(catalog.Exercise{ID: 3, Name: "Squat"})
	defer srv.Close()

	resp, err := http.Get(srv.URL() + "/entities/batch?ids=3,9")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{`"entities"`, `"missingIdentifiers":[9]`, `"Squat"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}
}

func TestServer_BatchRejectsBadIDs(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL() + "/entities/batch?ids=3,abc")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServer_ThrottleAdvertisesRetryAfter(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	srv.Throttle(rate.Limit(0.001), 1)
	srv.SetRetryAfter(7)

	// First request consumes the burst, second gets throttled.
	resp, err := http.Get(srv.URL() + "/entities/batch?ids=1")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL() + "/entities/batch?ids=1")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if got := resp.Header.Get("Retry-After"); got != "7" {
		t.Errorf("Retry-After = %q, want 7", got)
	}
	if srv.Requests() != 2 {
		t.Errorf("Requests() = %d, want 2", srv.Requests())
	}
}
