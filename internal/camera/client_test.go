package camera

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const countsXML = `<app name="personcount">
  <instance name="default">
    <parameter name="inCountTotal">42</parameter>
    <parameter name="outCountTotal">17</parameter>
    <parameter name="manualReset">false</parameter>
  </instance>
</app>`

func TestParseCounts(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Counts
	}{
		{"plain", countsXML, Counts{Entered: 42, Exited: 17}},
		{"content type prefix", "Content-Type: text/xml\n\n" + countsXML, Counts{Entered: 42, Exited: 17}},
		{"missing out", `<app><parameter name="inCountTotal">5</parameter></app>`, Counts{Entered: 5}},
		{"no parameters", `<app name="personcount"></app>`, Counts{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCounts([]byte(tt.body))
			if err != nil {
				t.Fatalf("ParseCounts failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestParseCounts_Invalid(t *testing.T) {
	bodies := []string{
		"",
		"Content-Type: text/xml",
		"not xml at all",
		`<app><parameter name="inCountTotal">many</parameter></app>`,
		`<app><parameter name="inCountTotal">3</app>`,
	}

	for _, body := range bodies {
		if _, err := ParseCounts([]byte(body)); err == nil {
			t.Errorf("Expected error for %q", body)
		}
	}
}

func newCameraServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(strings.TrimPrefix(srv.URL, "http://"), "admin", "secret", time.Second)
}

func TestClient_ReadCounts(t *testing.T) {
	client := newCameraServer(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/iAPI/apps.cgi" || r.URL.Query().Get("path") != "personcount.default" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(countsXML))
	})

	counts, err := client.ReadCounts(context.Background())
	if err != nil {
		t.Fatalf("ReadCounts failed: %v", err)
	}
	if counts.Entered != 42 || counts.Exited != 17 || counts.CurrentlyIn() != 25 {
		t.Errorf("Unexpected counts: %+v", counts)
	}
}

func TestClient_ReadCounts_HTTPError(t *testing.T) {
	client := newCameraServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := client.ReadCounts(context.Background()); err == nil {
		t.Error("Expected error for HTTP 500")
	}
}

func TestClient_Reset(t *testing.T) {
	var gotBody, gotType, gotAction string
	client := newCameraServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotType = r.Header.Get("Content-Type")
		gotAction = r.URL.Query().Get("action")
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Reset(context.Background()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if gotAction != "Update" {
		t.Errorf("Expected action Update, got %q", gotAction)
	}
	if gotType != "text/xml" {
		t.Errorf("Expected text/xml, got %q", gotType)
	}
	if !strings.Contains(gotBody, `<parameter name="manualReset">true</parameter>`) {
		t.Errorf("Unexpected reset body: %s", gotBody)
	}
}
