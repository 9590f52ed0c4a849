// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eutils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/pdiddy/case-crawler/pkg/types"
)

func testClient() *Client {
	return NewClient(types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "case-crawler-test/0.0",
		},
		Email:  "dev@example.org",
		APIKey: "test-key",
	})
}

const sampleESearchJSON = `{
  "header": {"type": "esearch", "version": "0.3"},
  "esearchresult": {
    "count": "48213",
    "retmax": "3",
    "retstart": "0",
    "idlist": ["38012345", "37011111", "36009999"]
  }
}`

func TestSearchCaseReports(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/esearch.fcgi" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleESearchJSON))
	}))
	defer ts.Close()

	orig := eutilsBase
	eutilsBase = ts.URL + "/"
	defer func() { eutilsBase = orig }()

	c := testClient()
	pmids, count, err := c.SearchCaseReports(context.Background(), "lung cancer", 3)
	if err != nil {
		t.Fatalf("SearchCaseReports() error: %v", err)
	}

	if count != 48213 {
		t.Errorf("count = %d, want 48213", count)
	}
	want := []string{"38012345", "37011111", "36009999"}
	if len(pmids) != len(want) {
		t.Fatalf("pmids = %v, want %v", pmids, want)
	}
	for i := range want {
		if pmids[i] != want[i] {
			t.Errorf("pmids[%d] = %q, want %q", i, pmids[i], want[i])
		}
	}

	params := mustParseQuery(t, gotQuery)
	if got := params.Get("term"); got != "lung cancer case report" {
		t.Errorf("term = %q, want %q", got, "lung cancer case report")
	}
	if got := params.Get("db"); got != "pubmed" {
		t.Errorf("db = %q, want pubmed", got)
	}
	if got := params.Get("sort"); got != "relevance" {
		t.Errorf("sort = %q, want relevance", got)
	}
	if got := params.Get("retmax"); got != "3" {
		t.Errorf("retmax = %q, want 3", got)
	}
	if got := params.Get("email"); got != "dev@example.org" {
		t.Errorf("email = %q", got)
	}
	if got := params.Get("api_key"); got != "test-key" {
		t.Errorf("api_key = %q", got)
	}
}

func TestSearchCaseReportsMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer ts.Close()

	orig := eutilsBase
	eutilsBase = ts.URL + "/"
	defer func() { eutilsBase = orig }()

	if _, _, err := testClient().SearchCaseReports(context.Background(), "sepsis", 10); err == nil {
		t.Error("SearchCaseReports() on non-JSON body: expected error")
	}
}

func TestSearchCaseReportsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	orig := eutilsBase
	eutilsBase = ts.URL + "/"
	defer func() { eutilsBase = orig }()

	if _, _, err := testClient().SearchCaseReports(context.Background(), "sepsis", 10); err == nil {
		t.Error("SearchCaseReports() on HTTP 503: expected error")
	}
}

func TestResolvePMCID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "resolves and strips prefix",
			body: `{"status": "ok", "records": [{"pmid": "38012345", "pmcid": "PMC9876543"}]}`,
			want: "9876543",
		},
		{
			name: "no full text",
			body: `{"status": "ok", "records": [{"pmid": "38012345"}]}`,
			want: "",
		},
		{
			name: "empty records",
			body: `{"status": "ok", "records": []}`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			orig := idconvBase
			idconvBase = ts.URL + "/"
			defer func() { idconvBase = orig }()

			got, err := testClient().ResolvePMCID(context.Background(), "38012345")
			if err != nil {
				t.Fatalf("ResolvePMCID() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolvePMCID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchArticleXML(t *testing.T) {
	const article = `<article><body><sec><title>Case</title></sec></body></article>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/efetch.fcgi" {
			http.NotFound(w, r)
			return
		}
		params := r.URL.Query()
		if params.Get("db") != "pmc" || params.Get("id") != "9876543" || params.Get("retmode") != "xml" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(article))
	}))
	defer ts.Close()

	orig := eutilsBase
	eutilsBase = ts.URL + "/"
	defer func() { eutilsBase = orig }()

	data, err := testClient().FetchArticleXML(context.Background(), "9876543")
	if err != nil {
		t.Fatalf("FetchArticleXML() error: %v", err)
	}
	if string(data) != article {
		t.Errorf("FetchArticleXML() = %q, want %q", data, article)
	}
}

func TestFetchArticleXMLHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	orig := eutilsBase
	eutilsBase = ts.URL + "/"
	defer func() { eutilsBase = orig }()

	if _, err := testClient().FetchArticleXML(context.Background(), "1"); err == nil {
		t.Error("FetchArticleXML() on HTTP 400: expected error")
	}
}

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	params, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parsing query %q: %v", raw, err)
	}
	return params
}
