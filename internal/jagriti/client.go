package jagriti

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JustJay7/consumer-case-tracker/pkg/logger"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL       = "https://e-jagriti.gov.in/services"
	DefaultReferer       = "https://e-jagriti.gov.in/advance-case-search"
	DefaultUserAgent     = "Mozilla/5.0"
	DefaultSearchTimeout = 60 * time.Second

	pathRegions        = "/getStateCommissionAndCircuitBench"
	pathSubCommissions = "/report/report/getDistrictCommissionByCommissionId"
	pathSearchCases    = "/case/caseFilingService/v2/getCaseDetailsBySearchType"

	// single fixed page; no pagination beyond it
	searchPage     = 0
	searchPageSize = 30
	// filter on filing date
	dateRequestType = 1

	opListRegions        = "list_regions"
	opListSubCommissions = "list_sub_commissions"
	opSearchCases        = "search_cases"
)

// FallbackLookup supplies sub-commissions for a region when upstream blocks
// the live listing. A region it knows nothing about yields an empty slice.
type FallbackLookup interface {
	Lookup(regionID string) []SubCommission
}

// Options configures a Client
type Options struct {
	BaseURL   string
	Referer   string
	UserAgent string
	// SearchTimeout bounds SearchCases; zero means DefaultSearchTimeout
	SearchTimeout time.Duration
	// ListTimeout bounds the listing calls; zero leaves them on the HTTP
	// client's default
	ListTimeout time.Duration
	Fallback    FallbackLookup
	Logger      *logger.Logger
	// HTTPClient overrides the underlying transport, mostly for tests
	HTTPClient *http.Client
}

// Client is the gateway to the e-Jagriti case tracking service. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	http          *resty.Client
	referer       string
	userAgent     string
	searchTimeout time.Duration
	listTimeout   time.Duration
	fallback      FallbackLookup
	logger        *logger.Logger
}

// New creates a gateway client
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Referer == "" {
		opts.Referer = DefaultReferer
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = DefaultSearchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	var httpClient *resty.Client
	if opts.HTTPClient != nil {
		httpClient = resty.NewWithClient(opts.HTTPClient)
	} else {
		httpClient = resty.New()
	}
	httpClient.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	httpClient.SetRetryCount(0)

	log := opts.Logger.With("component", "jagriti")
	instrumentClient(httpClient, log)

	return &Client{
		http:          httpClient,
		referer:       opts.Referer,
		userAgent:     opts.UserAgent,
		searchTimeout: opts.SearchTimeout,
		listTimeout:   opts.ListTimeout,
		fallback:      opts.Fallback,
		logger:        log,
	}
}

// ListRegions fetches every state commission and circuit bench
func (c *Client) ListRegions(ctx context.Context) ([]Region, error) {
	ctx, cancel := c.listContext(ctx)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		Get(pathRegions)
	if err != nil {
		c.logger.Error("Request failed while fetching regions", "error", err)
		return nil, unavailableError(opListRegions, 0, err)
	}

	body := res.Body()
	if res.StatusCode() == http.StatusForbidden {
		c.logger.Error("Access denied (403) while fetching regions")
		return nil, blockedError(opListRegions, res.StatusCode(), blockPageTitle(body))
	}
	if gwErr := unexpectedStatus(opListRegions, res); gwErr != nil {
		return nil, gwErr
	}

	regions, err := parseRegions(body)
	if err != nil {
		c.logger.Error("Invalid JSON while fetching regions", "error", err)
		return nil, malformedError(opListRegions, res.StatusCode(), body, err)
	}

	c.logger.Info("Fetched regions", "count", len(regions))
	return regions, nil
}

// ListSubCommissions fetches the district commissions of a region. When
// upstream blocks the request the fallback dataset is used instead and the
// result is marked SourceFallback; no error is returned in that case.
func (c *Client) ListSubCommissions(ctx context.Context, regionID string) (*SubCommissionList, error) {
	regionID = strings.TrimSpace(regionID)
	if regionID == "" {
		return nil, invalidInputError(opListSubCommissions, "region id is required", nil)
	}

	ctx, cancel := c.listContext(ctx)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("commissionId", regionID).
		Get(pathSubCommissions)
	if err != nil {
		c.logger.Error("Request failed while fetching sub-commissions", "region_id", regionID, "error", err)
		return nil, unavailableError(opListSubCommissions, 0, err)
	}

	body := res.Body()
	if res.StatusCode() == http.StatusForbidden {
		c.logger.Warn("API blocked, using fallback sub-commissions", "region_id", regionID)
		return &SubCommissionList{
			Items:  c.fallbackFor(regionID),
			Source: SourceFallback,
		}, nil
	}
	if gwErr := unexpectedStatus(opListSubCommissions, res); gwErr != nil {
		return nil, gwErr
	}

	commissions, err := parseSubCommissions(body)
	if err != nil {
		c.logger.Error("Invalid JSON while fetching sub-commissions", "region_id", regionID, "error", err)
		return nil, malformedError(opListSubCommissions, res.StatusCode(), body, err)
	}

	c.logger.Info("Fetched sub-commissions", "region_id", regionID, "count", len(commissions))
	return &SubCommissionList{Items: commissions, Source: SourceLive}, nil
}

type searchRequest struct {
	CommissionID    int    `json:"commissionId"`
	Page            int    `json:"page"`
	Size            int    `json:"size"`
	FromDate        string `json:"fromDate"`
	ToDate          string `json:"toDate"`
	DateRequestType int    `json:"dateRequestType"`
	JudgeID         string `json:"judgeId"`
	SearchType      int    `json:"serchType"`
	SearchValue     string `json:"serchTypeValue"`
}

// SearchCases runs one search against a sub-commission and returns the cases
// that have an order document, plus any non-object elements upstream sent.
func (c *Client) SearchCases(ctx context.Context, q SearchQuery) ([]SearchItem, error) {
	payload, gwErr := buildSearchRequest(q)
	if gwErr != nil {
		return nil, gwErr
	}
	if q.OrderType == "" {
		q.OrderType = DefaultOrderType
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, unavailableError(opSearchCases, 0, fmt.Errorf("json marshal: %w", err))
	}
	c.logger.Debug("Sending search payload", "payload", string(body), "order_type", q.OrderType)

	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"User-Agent":       c.userAgent,
			"Accept":           "application/json, text/javascript, */*; q=0.01",
			"Content-Type":     "application/json",
			"Referer":          c.referer,
			"X-Requested-With": "XMLHttpRequest",
		}).
		SetBody(body).
		Post(pathSearchCases)
	if err != nil {
		c.logger.Error("Request failed in case search", "error", err)
		return nil, unavailableError(opSearchCases, 0, err)
	}

	resBody := res.Body()
	switch res.StatusCode() {
	case http.StatusForbidden:
		return nil, blockedError(opSearchCases, res.StatusCode(), blockPageTitle(resBody))
	case http.StatusBadRequest:
		return nil, invalidRequestError(opSearchCases, res.StatusCode())
	}
	if gwErr := unexpectedStatus(opSearchCases, res); gwErr != nil {
		return nil, gwErr
	}

	elems, err := searchElements(resBody)
	if err != nil {
		c.logger.Error("Invalid JSON in case search", "error", err)
		return nil, malformedError(opSearchCases, res.StatusCode(), resBody, err)
	}

	c.logger.Info("Found records",
		"count", len(elems),
		"mode", q.Mode,
		"value", q.SearchTerm,
	)

	return normalizeCases(elems), nil
}

func buildSearchRequest(q SearchQuery) (*searchRequest, *Error) {
	commissionID, err := strconv.Atoi(strings.TrimSpace(q.SubCommissionID))
	if err != nil {
		return nil, invalidInputError(opSearchCases, "sub-commission id must be numeric", err)
	}
	if strings.TrimSpace(q.SearchTerm) == "" {
		return nil, invalidInputError(opSearchCases, "search term is required", nil)
	}
	code, ok := q.Mode.Code()
	if !ok {
		return nil, invalidInputError(opSearchCases, fmt.Sprintf("unknown search mode %q", q.Mode), nil)
	}
	if q.DateFrom.IsZero() || q.DateTo.IsZero() {
		return nil, invalidInputError(opSearchCases, "date range is required", nil)
	}

	return &searchRequest{
		CommissionID:    commissionID,
		Page:            searchPage,
		Size:            searchPageSize,
		FromDate:        q.DateFrom.Format(DateLayout),
		ToDate:          q.DateTo.Format(DateLayout),
		DateRequestType: dateRequestType,
		JudgeID:         "",
		SearchType:      code,
		SearchValue:     q.SearchTerm,
	}, nil
}

func (c *Client) fallbackFor(regionID string) []SubCommission {
	if c.fallback == nil {
		return []SubCommission{}
	}
	items := c.fallback.Lookup(regionID)
	if items == nil {
		return []SubCommission{}
	}
	return items
}

func (c *Client) listContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.listTimeout > 0 {
		return context.WithTimeout(ctx, c.listTimeout)
	}
	return context.WithCancel(ctx)
}

// unexpectedStatus turns server-side failures into UpstreamUnavailable. Other
// statuses fall through to body parsing.
func unexpectedStatus(op string, res *resty.Response) *Error {
	if res.StatusCode() >= http.StatusInternalServerError {
		return unavailableError(op, res.StatusCode(), fmt.Errorf("upstream returned %s", res.Status()))
	}
	return nil
}
