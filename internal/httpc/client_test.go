package httpc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"state":"red","distance":470.5}`))
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	var got struct {
		State    string   `json:"state"`
		Distance *float64 `json:"distance"`
	}
	if err := GetJSON(context.Background(), srv.URL+"/ok", &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if got.State != "red" || got.Distance == nil || *got.Distance != 470.5 {
		t.Errorf("got %+v", got)
	}

	err := GetJSON(context.Background(), srv.URL+"/missing", &got)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("got %v, want 404 StatusError", err)
	}
}
