package jagriti

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFallback map[string][]SubCommission

func (m mapFallback) Lookup(regionID string) []SubCommission {
	return m[regionID]
}

func newTestClient(t *testing.T, handler http.HandlerFunc, fallback FallbackLookup) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Options{
		BaseURL:       srv.URL,
		SearchTimeout: 5 * time.Second,
		Fallback:      fallback,
	})
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func validQuery() SearchQuery {
	return SearchQuery{
		SubCommissionID: "11280000",
		SearchTerm:      "John Doe",
		Mode:            ModeComplainant,
		DateFrom:        date("2025-01-01"),
		DateTo:          date("2025-09-30"),
	}
}

func TestListRegions(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `[
			{"commissionId": 11280000, "stateName": "KARNATAKA"},
			{"commissionId": "11290000", "stateName": "KERALA", "extra": true}
		]`)
	}, nil)

	regions, err := client.ListRegions(context.Background())
	require.NoError(t, err)
	require.Equal(t, pathRegions, gotPath)

	want := []Region{
		{RegionID: "11280000", RegionName: "KARNATAKA"},
		{RegionID: "11290000", RegionName: "KERALA"},
	}
	if diff := cmp.Diff(want, regions); diff != "" {
		t.Errorf("regions mismatch (-want +got):\n%s", diff)
	}
}

func TestListRegionsErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{
			name:     "Blocked",
			status:   http.StatusForbidden,
			body:     `[{"commissionId": 1, "stateName": "X"}]`,
			wantKind: KindUpstreamBlocked,
		},
		{
			name:     "Non-JSON body",
			status:   http.StatusOK,
			body:     "<html>maintenance</html>",
			wantKind: KindUpstreamMalformed,
		},
		{
			name:     "Object instead of list",
			status:   http.StatusOK,
			body:     `{"error": "nope"}`,
			wantKind: KindUpstreamMalformed,
		},
		{
			name:     "Mixed list",
			status:   http.StatusOK,
			body:     `[{"commissionId": 1, "stateName": "X"}, "stray"]`,
			wantKind: KindUpstreamMalformed,
		},
		{
			name:     "Server error",
			status:   http.StatusBadGateway,
			body:     "bad gateway",
			wantKind: KindUpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respond(tt.status, tt.body), nil)

			regions, err := client.ListRegions(context.Background())
			require.Error(t, err)
			assert.Nil(t, regions)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestListRegionsBlockedPageTitle(t *testing.T) {
	client := newTestClient(t, respond(http.StatusForbidden,
		"<html><head><title> Request   Rejected </title></head><body>denied</body></html>"), nil)

	_, err := client.ListRegions(context.Background())
	require.ErrorIs(t, err, ErrUpstreamBlocked)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "Request Rejected", gwErr.Detail)
	assert.Equal(t, http.StatusForbidden, gwErr.Status)
}

func TestListRegionsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(Options{BaseURL: url})
	_, err := client.ListRegions(context.Background())
	require.ErrorIs(t, err, ErrUpstreamUnavailable)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.NotNil(t, gwErr.Err)
	assert.NotEmpty(t, err.Error())
}

func TestListSubCommissions(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathSubCommissions, r.URL.Path)
		gotQuery = r.URL.Query().Get("commissionId")
		_, _ = io.WriteString(w, `[{"commissionId": 11280001, "commissionName": "Bangalore Urban"}]`)
	}, mapFallback{"11280000": {{SubCommissionID: "x", SubCommissionName: "fallback"}}})

	list, err := client.ListSubCommissions(context.Background(), "11280000")
	require.NoError(t, err)
	assert.Equal(t, "11280000", gotQuery)
	assert.Equal(t, SourceLive, list.Source)
	assert.Equal(t, []SubCommission{{SubCommissionID: "11280001", SubCommissionName: "Bangalore Urban"}}, list.Items)
}

func TestListSubCommissionsFallback(t *testing.T) {
	fallback := mapFallback{
		"11280000": {
			{SubCommissionID: "11280001", SubCommissionName: "Bangalore Urban"},
			{SubCommissionID: "11280002", SubCommissionName: "Mysore"},
		},
	}
	client := newTestClient(t, respond(http.StatusForbidden, "blocked"), fallback)

	t.Run("Known region", func(t *testing.T) {
		list, err := client.ListSubCommissions(context.Background(), "11280000")
		require.NoError(t, err)
		assert.Equal(t, SourceFallback, list.Source)
		if diff := cmp.Diff(fallback["11280000"], list.Items); diff != "" {
			t.Errorf("fallback mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Unknown region", func(t *testing.T) {
		list, err := client.ListSubCommissions(context.Background(), "99999999")
		require.NoError(t, err)
		assert.Equal(t, SourceFallback, list.Source)
		require.NotNil(t, list.Items)
		assert.Empty(t, list.Items)
	})

	t.Run("No fallback configured", func(t *testing.T) {
		bare := newTestClient(t, respond(http.StatusForbidden, "blocked"), nil)
		list, err := bare.ListSubCommissions(context.Background(), "11280000")
		require.NoError(t, err)
		assert.Empty(t, list.Items)
	})
}

func TestListSubCommissionsErrors(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, "not json at all"), nil)

	_, err := client.ListSubCommissions(context.Background(), "11280000")
	require.ErrorIs(t, err, ErrUpstreamMalformed)

	_, err = client.ListSubCommissions(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearchCasesRequestShape(t *testing.T) {
	var (
		gotHeader http.Header
		gotBody   map[string]interface{}
		gotMethod string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, `{"data": []}`)
	}, nil)

	q := validQuery()
	q.Captcha = "ABC123"
	items, err := client.SearchCases(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, DefaultUserAgent, gotHeader.Get("User-Agent"))
	assert.Equal(t, "application/json, text/javascript, */*; q=0.01", gotHeader.Get("Accept"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, DefaultReferer, gotHeader.Get("Referer"))
	assert.Equal(t, "XMLHttpRequest", gotHeader.Get("X-Requested-With"))

	want := map[string]interface{}{
		"commissionId":    float64(11280000),
		"page":            float64(0),
		"size":            float64(30),
		"fromDate":        "2025-01-01",
		"toDate":          "2025-09-30",
		"dateRequestType": float64(1),
		"judgeId":         "",
		"serchType":       float64(2),
		"serchTypeValue":  "John Doe",
	}
	if diff := cmp.Diff(want, gotBody); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchCasesFiltersRecordsWithoutDocuments(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `{"data": [
		{"caseNumber": "DC/77/CC/101/2025", "orderDocumentPath": "/orders/101.pdf", "complainantName": "John Doe"},
		{"caseNumber": "DC/77/CC/102/2025", "complainantName": "John Doe"}
	]}`), nil)

	items, err := client.SearchCases(context.Background(), validQuery())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.False(t, items[0].IsRaw())
	assert.Equal(t, "DC/77/CC/101/2025", items[0].Case.CaseNumber)
}

func TestSearchCasesProjection(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `[{
		"caseNumber": "DC/77/CC/101/2025",
		"caseStageName": "ADMISSION",
		"caseFilingDate": "2025-02-14",
		"complainantName": "John Doe",
		"complainantAdvocateName": "A. Advocate",
		"respondentName": "Acme Ltd",
		"respondentAdvocateName": "R. Advocate",
		"orderDocumentPath": "/orders/101.pdf",
		"judgeName": "ignored"
	}]`), nil)

	items, err := client.SearchCases(context.Background(), validQuery())
	require.NoError(t, err)
	require.Len(t, items, 1)

	s := func(v string) *string { return &v }
	want := &CaseRecord{
		CaseNumber:          "DC/77/CC/101/2025",
		CaseStage:           s("ADMISSION"),
		FilingDate:          s("2025-02-14"),
		Complainant:         s("John Doe"),
		ComplainantAdvocate: s("A. Advocate"),
		Respondent:          s("Acme Ltd"),
		RespondentAdvocate:  s("R. Advocate"),
		DocumentLink:        s("/orders/101.pdf"),
	}
	if diff := cmp.Diff(want, items[0].Case); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchCasesInlineDocument(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `{"data": [
		{"caseNumber": "A", "documentBase64": "JVBERi0xLjQK"},
		{"caseNumber": "B", "orderDocumentPath": "", "documentBase64": null}
	]}`), nil)

	items, err := client.SearchCases(context.Background(), validQuery())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Case.CaseNumber)
	assert.Nil(t, items[0].Case.DocumentLink)
}

func TestSearchCasesRawElements(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `{"data": [
		"unexpected",
		42,
		["nested"],
		{"caseNumber": "A", "orderDocumentPath": "/a.pdf"}
	]}`), nil)

	items, err := client.SearchCases(context.Background(), validQuery())
	require.NoError(t, err)
	require.Len(t, items, 4)

	for _, item := range items[:3] {
		assert.True(t, item.IsRaw())
	}
	assert.False(t, items[3].IsRaw())

	out, err := json.Marshal(items)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"raw": "unexpected"},
		{"raw": 42},
		{"raw": ["nested"]},
		{"case_number": "A", "case_stage": null, "filing_date": null, "complainant": null,
		 "complainant_advocate": null, "respondent": null, "respondent_advocate": null,
		 "document_link": "/a.pdf"}
	]`, string(out))
}

func TestSearchCasesEmptyPayloads(t *testing.T) {
	for _, body := range []string{`null`, `{}`, `{"data": null}`, `[]`} {
		t.Run(body, func(t *testing.T) {
			client := newTestClient(t, respond(http.StatusOK, body), nil)
			items, err := client.SearchCases(context.Background(), validQuery())
			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestSearchCasesErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{"Blocked", http.StatusForbidden, "", KindUpstreamBlocked},
		{"Bad request", http.StatusBadRequest, `{"message": "bad"}`, KindInvalidRequest},
		{"Non-JSON body", http.StatusOK, "<html>oops</html>", KindUpstreamMalformed},
		{"Data is not a list", http.StatusOK, `{"data": "text"}`, KindUpstreamMalformed},
		{"Server error", http.StatusInternalServerError, "", KindUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respond(tt.status, tt.body), nil)
			items, err := client.SearchCases(context.Background(), validQuery())
			require.Error(t, err)
			assert.Nil(t, items)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestSearchCasesMalformedPreview(t *testing.T) {
	body := strings.Repeat("<p>not json</p>", 50)
	client := newTestClient(t, respond(http.StatusOK, body), nil)

	_, err := client.SearchCases(context.Background(), validQuery())
	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	require.Equal(t, KindUpstreamMalformed, gwErr.Kind)
	assert.LessOrEqual(t, len([]rune(gwErr.Preview)), PreviewLimit)
	assert.Equal(t, body[:PreviewLimit], gwErr.Preview)
}

func TestSearchCasesInvalidInput(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	}, nil)

	tests := []struct {
		name   string
		mutate func(q *SearchQuery)
	}{
		{"Non-numeric sub-commission", func(q *SearchQuery) { q.SubCommissionID = "abc" }},
		{"Empty search term", func(q *SearchQuery) { q.SearchTerm = " " }},
		{"Unknown mode", func(q *SearchQuery) { q.Mode = "lawyer" }},
		{"Missing dates", func(q *SearchQuery) { q.DateFrom = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuery()
			tt.mutate(&q)
			_, err := client.SearchCases(context.Background(), q)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Zero(t, calls)
}

func TestSearchCasesTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := New(Options{BaseURL: srv.URL, SearchTimeout: 50 * time.Millisecond})
	_, err := client.SearchCases(context.Background(), validQuery())
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestConcurrentCallsAreIndependent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("commissionId") == "blocked" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, `[{"commissionId": "1", "commissionName": "live"}]`)
	}, mapFallback{"blocked": {{SubCommissionID: "2", SubCommissionName: "fallback"}}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			region, want := "live", SourceLive
			if i%2 == 0 {
				region, want = "blocked", SourceFallback
			}
			list, err := client.ListSubCommissions(context.Background(), region)
			assert.NoError(t, err)
			if list != nil {
				assert.Equal(t, want, list.Source)
			}
		}(i)
	}
	wg.Wait()
}

func TestSearchModes(t *testing.T) {
	want := map[SearchMode]int{
		ModeCaseNumber:          8,
		ModeComplainant:         2,
		ModeRespondent:          3,
		ModeComplainantAdvocate: 4,
		ModeRespondentAdvocate:  5,
		ModeIndustryType:        6,
		ModeJudge:               7,
	}
	for mode, code := range want {
		got, ok := mode.Code()
		require.True(t, ok, mode)
		assert.Equal(t, code, got, mode)
	}

	modes := SearchModes()
	require.Len(t, modes, len(want))
	assert.Equal(t, ModeComplainant, modes[0])
	assert.Equal(t, ModeCaseNumber, modes[len(modes)-1])

	_, err := ParseSearchMode("nope")
	assert.Error(t, err)
}
