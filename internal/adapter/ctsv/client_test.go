package ctsv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchScholarships(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api-t/HWScholarship/GetApprovedScholarship" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer null" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		w.Write([]byte(`{"ScholarshipLst":[{"DocumentId":1,"Title":"Học bổng A","Deadline":"2025-09-15 17:00:00"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	got, err := c.FetchScholarships(context.Background())
	if err != nil {
		t.Fatalf("FetchScholarships failed: %v", err)
	}
	if len(got) != 1 || got[0].DocumentID != 1 || got[0].Title != "Học bổng A" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestFetchJobsPaging(t *testing.T) {
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api-t/HWRecruitment/GetPublishRecruitment" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.Write([]byte(`{"RecruitmentLst":[{"RId":9,"Title":"Tuyển thực tập sinh","CompanyName":"FPT","Career":"CNTT"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	got, err := c.FetchJobs(context.Background(), 2, 100, 1)
	if err != nil {
		t.Fatalf("FetchJobs failed: %v", err)
	}
	if len(got) != 1 || got[0].RID != 9 || got[0].MajorsRequired != "CNTT" {
		t.Fatalf("unexpected records: %+v", got)
	}
	if gotPayload["PageNumber"].(float64) != 2 || gotPayload["PublishLocation"].(float64) != 1 {
		t.Fatalf("unexpected payload: %v", gotPayload)
	}
}

func TestFetchScholarshipsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	if _, err := c.FetchScholarships(context.Background()); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
