package httputil

import (
	"strings"
	"testing"
	"time"
)

func TestNewPooledClient_Defaults(t *testing.T) {
	client := NewPooledClient(0)

	if client.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s default", client.Timeout)
	}

	client = NewPooledClient(5 * time.Second)
	if client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.Timeout)
	}
}

func TestReadAllWithLimit(t *testing.T) {
	body, truncated, err := ReadAllWithLimit(strings.NewReader("hello"), 10)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if truncated || string(body) != "hello" {
		t.Errorf("body = %q truncated = %v", body, truncated)
	}

	body, truncated, err = ReadAllWithLimit(strings.NewReader("hello world"), 5)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if !truncated || string(body) != "hello" {
		t.Errorf("body = %q truncated = %v, want truncated at 5 bytes", body, truncated)
	}
}

func TestReadAllStrict(t *testing.T) {
	body, err := ReadAllStrict(strings.NewReader("ok"), 10)
	if err != nil || string(body) != "ok" {
		t.Errorf("body = %q err = %v", body, err)
	}

	if _, err := ReadAllStrict(strings.NewReader("too long"), 3); err == nil {
		t.Error("oversized body should fail")
	}
}
