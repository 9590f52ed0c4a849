// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eutils talks to the NCBI E-utilities endpoints: ESearch for
// PubMed case-report queries, the PMC ID converter for PMID resolution,
// and EFetch for full-text JATS XML.
package eutils

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/case-crawler/internal/httputil"
	"github.com/pdiddy/case-crawler/pkg/types"
)

// Base URLs for the NCBI endpoints. Declared as vars so tests can
// substitute httptest servers.
var (
	eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"
	idconvBase = "https://www.ncbi.nlm.nih.gov/pmc/utils/idconv/v1.0/"
)

// Client issues one-shot requests against the E-utilities endpoints.
// Every call is synchronous, and a timeout is an ordinary failure the
// caller skips past; there is no retry.
type Client struct {
	HTTP *http.Client
	Cfg  types.SearchConfig
}

// NewClient builds a Client from the search configuration.
func NewClient(cfg types.SearchConfig) *Client {
	return &Client{
		HTTP: httputil.NewClient(cfg.Timeout),
		Cfg:  cfg,
	}
}

// common returns the query parameters every E-utilities call carries.
func (c *Client) common() url.Values {
	params := url.Values{}
	if c.Cfg.Email != "" {
		params.Set("email", c.Cfg.Email)
	}
	if c.Cfg.APIKey != "" {
		params.Set("api_key", c.Cfg.APIKey)
	}
	return params
}

// esearch JSON structures. The count field arrives as a string.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// SearchCaseReports queries PubMed for case reports on the given topic and
// returns up to retmax PMIDs in relevance order, plus the total match count.
// The query is the plain conjunction "<topic> case report": it surfaces far
// more matches than a publication-type filter does.
func (c *Client) SearchCaseReports(ctx context.Context, topic string, retmax int) ([]string, int, error) {
	params := c.common()
	params.Set("db", "pubmed")
	params.Set("term", topic+" case report")
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("retmode", "json")
	params.Set("sort", "relevance")

	var sr esearchResponse
	if err := httputil.GetJSON(ctx, c.HTTP, eutilsBase+"esearch.fcgi?"+params.Encode(), c.Cfg.UserAgent, &sr); err != nil {
		return nil, 0, fmt.Errorf("ESearch for %q: %w", topic, err)
	}

	count := 0
	if sr.Result.Count != "" {
		n, err := strconv.Atoi(sr.Result.Count)
		if err != nil {
			return nil, 0, fmt.Errorf("ESearch for %q: bad count %q", topic, sr.Result.Count)
		}
		count = n
	}
	return sr.Result.IDList, count, nil
}

// ID converter JSON structures.
type idconvResponse struct {
	Records []idconvRecord `json:"records"`
}

type idconvRecord struct {
	PMCID string `json:"pmcid"`
}

// ResolvePMCID maps a PMID to its PMC identifier with the "PMC" prefix
// stripped. Articles without open full text resolve to an empty string
// with no error.
func (c *Client) ResolvePMCID(ctx context.Context, pmid string) (string, error) {
	params := c.common()
	params.Set("ids", pmid)
	params.Set("format", "json")

	var ir idconvResponse
	if err := httputil.GetJSON(ctx, c.HTTP, idconvBase+"?"+params.Encode(), c.Cfg.UserAgent, &ir); err != nil {
		return "", fmt.Errorf("ID conversion for PMID %s: %w", pmid, err)
	}

	if len(ir.Records) == 0 || ir.Records[0].PMCID == "" {
		return "", nil
	}
	return strings.TrimPrefix(ir.Records[0].PMCID, "PMC"), nil
}

// FetchArticleXML retrieves the full-text JATS XML for a PMC identifier.
func (c *Client) FetchArticleXML(ctx context.Context, pmcid string) ([]byte, error) {
	params := c.common()
	params.Set("db", "pmc")
	params.Set("id", pmcid)
	params.Set("retmode", "xml")

	data, err := httputil.GetBody(ctx, c.HTTP, eutilsBase+"efetch.fcgi?"+params.Encode(), c.Cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("EFetch for PMC%s: %w", pmcid, err)
	}
	return data, nil
}
