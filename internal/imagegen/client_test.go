package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestGenerator(url string) *RESTGenerator {
	return &RESTGenerator{
		endpoint:   url,
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestRESTGenerator_Generate(t *testing.T) {
	imageBytes := []byte("fake-png-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", got)
		}

		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["cfg_scale"] != float64(10) {
			t.Errorf("expected cfg_scale 10, got %v", req["cfg_scale"])
		}
		if req["steps"] != float64(50) {
			t.Errorf("expected steps 50, got %v", req["steps"])
		}
		if req["width"] != float64(1024) || req["height"] != float64(1024) {
			t.Errorf("expected 1024x1024, got %vx%v", req["width"], req["height"])
		}
		if req["samples"] != float64(1) {
			t.Errorf("expected samples 1, got %v", req["samples"])
		}
		prompts := req["text_prompts"].([]interface{})
		if prompts[0].(map[string]interface{})["text"] != "a city on the moon" {
			t.Errorf("prompt not forwarded: %v", prompts)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"artifacts": []map[string]interface{}{
				{"base64": base64.StdEncoding.EncodeToString(imageBytes), "seed": 42, "finishReason": "SUCCESS"},
			},
		})
	}))
	defer srv.Close()

	art, err := newTestGenerator(srv.URL).Generate(context.Background(), Params{Prompt: "a city on the moon", Seed: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(art.Data) != string(imageBytes) {
		t.Errorf("artifact bytes mismatch")
	}
	if art.Seed != 42 {
		t.Errorf("expected seed 42, got %d", art.Seed)
	}
}

func TestRESTGenerator_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newTestGenerator(srv.URL).Generate(context.Background(), Params{Prompt: "x"}); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestRESTGenerator_EmptyArtifacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"artifacts": []interface{}{}})
	}))
	defer srv.Close()

	if _, err := newTestGenerator(srv.URL).Generate(context.Background(), Params{Prompt: "x"}); err == nil {
		t.Fatal("expected error for empty artifacts")
	}
}
