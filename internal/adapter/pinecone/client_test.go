package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if key := r.Header.Get("Api-Key"); key != "pc-test" {
			t.Errorf("unexpected api key: %q", key)
		}
		if v := r.Header.Get("X-Pinecone-API-Version"); v != "2025-01" {
			t.Errorf("unexpected api version: %q", v)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"hits":[
			{"_id":"1","_score":0.9,"fields":{"text":"đoạn một"}},
			{"_id":"2","_score":0.8,"fields":{"text":"đoạn hai"}},
			{"_id":"3","_score":0.7,"fields":{}}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "pc-test", BaseURL: srv.URL}, nil)
	passages, err := c.Search(context.Background(), "QCDT2025", "điều kiện tốt nghiệp", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotPath != "/records/namespaces/QCDT2025/search" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	query := gotBody["query"].(map[string]interface{})
	if inputs := query["inputs"].(map[string]interface{}); inputs["text"] != "điều kiện tốt nghiệp" {
		t.Errorf("unexpected query inputs: %v", inputs)
	}
	if topK := query["top_k"].(float64); topK != 10 {
		t.Errorf("unexpected top_k: %v", topK)
	}

	// Hits without a text field are dropped, order preserved.
	if len(passages) != 2 || passages[0] != "đoạn một" || passages[1] != "đoạn hai" {
		t.Fatalf("unexpected passages: %v", passages)
	}
}

func TestSearchResolvesHostOnce(t *testing.T) {
	describes := 0
	controller := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		describes++
		if r.URL.Path != "/indexes/sotayhust" {
			t.Errorf("unexpected controller path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"host": "example.invalid"})
	}))
	defer controller.Close()

	c := NewClient(Config{APIKey: "pc-test", Index: "sotayhust", ControllerBaseURL: controller.URL}, nil)
	if err := c.ensureBaseURL(context.Background()); err != nil {
		t.Fatalf("ensureBaseURL failed: %v", err)
	}
	if err := c.ensureBaseURL(context.Background()); err != nil {
		t.Fatalf("ensureBaseURL failed: %v", err)
	}
	if describes != 1 {
		t.Fatalf("expected one describe call, got %d", describes)
	}
}

func TestSearchRequiresConfig(t *testing.T) {
	c := NewClient(Config{}, nil)
	if _, err := c.Search(context.Background(), "ns", "q", 5); err == nil {
		t.Fatal("expected error without base url or index")
	}
}

func TestSearchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "pc-test", BaseURL: srv.URL}, nil)
	if _, err := c.Search(context.Background(), "ns", "q", 5); err == nil {
		t.Fatal("expected error for 429 response")
	}
}
