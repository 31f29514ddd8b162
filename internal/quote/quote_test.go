package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"q": "Beware of little expenses.", "a": "Benjamin Franklin"}]`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, time.Second)
	q := c.Fetch(context.Background())

	if q.Text != "Beware of little expenses." || q.Author != "Benjamin Franklin" {
		t.Errorf("Fetch() = %+v", q)
	}
}

func TestFetchFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"upstream error status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}},
		{"empty array", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(tt.handler)
			defer upstream.Close()

			c := NewClient(upstream.URL, time.Second)
			if q := c.Fetch(context.Background()); q != Fallback {
				t.Errorf("Fetch() = %+v, want fallback", q)
			}
		})
	}
}

func TestFetchUnreachableHost(t *testing.T) {
	// Reserved TEST-NET address, nothing listens here.
	c := NewClient("http://192.0.2.1:9", 100*time.Millisecond)
	if q := c.Fetch(context.Background()); q != Fallback {
		t.Errorf("Fetch() = %+v, want fallback", q)
	}
}
