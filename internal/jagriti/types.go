package jagriti

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Region is a state commission or circuit bench
type Region struct {
	RegionID   string `json:"region_id"`
	RegionName string `json:"region_name"`
}

// SubCommission is a district commission scoped to a Region
type SubCommission struct {
	SubCommissionID   string `json:"sub_commission_id"`
	SubCommissionName string `json:"sub_commission_name"`
}

// DataSource tells where a SubCommissionList came from
type DataSource string

const (
	SourceLive     DataSource = "live"
	SourceFallback DataSource = "fallback"
)

// SubCommissionList is the result of ListSubCommissions
type SubCommissionList struct {
	Items  []SubCommission
	Source DataSource
}

// CaseRecord is the normalized view of an upstream case that has a document attached
type CaseRecord struct {
	CaseNumber          string  `json:"case_number"`
	CaseStage           *string `json:"case_stage"`
	FilingDate          *string `json:"filing_date"`
	Complainant         *string `json:"complainant"`
	ComplainantAdvocate *string `json:"complainant_advocate"`
	Respondent          *string `json:"respondent"`
	RespondentAdvocate  *string `json:"respondent_advocate"`
	DocumentLink        *string `json:"document_link"`
}

// SearchItem holds either a normalized case or an upstream element that was
// not an object and is passed through untouched
type SearchItem struct {
	Case *CaseRecord
	Raw  json.RawMessage
}

// IsRaw reports whether the item is an opaque upstream element
func (i SearchItem) IsRaw() bool {
	return i.Case == nil
}

func (i SearchItem) MarshalJSON() ([]byte, error) {
	if i.Case != nil {
		return json.Marshal(i.Case)
	}
	raw := i.Raw
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	return json.Marshal(struct {
		Raw json.RawMessage `json:"raw"`
	}{Raw: raw})
}

// SearchMode is the field a case search is matched against
type SearchMode string

const (
	ModeCaseNumber          SearchMode = "case_number"
	ModeComplainant         SearchMode = "complainant"
	ModeRespondent          SearchMode = "respondent"
	ModeComplainantAdvocate SearchMode = "complainant_advocate"
	ModeRespondentAdvocate  SearchMode = "respondent_advocate"
	ModeIndustryType        SearchMode = "industry_type"
	ModeJudge               SearchMode = "judge"
)

// upstream "serchType" codes
var searchModeCodes = map[SearchMode]int{
	ModeCaseNumber:          8,
	ModeComplainant:         2,
	ModeRespondent:          3,
	ModeComplainantAdvocate: 4,
	ModeRespondentAdvocate:  5,
	ModeIndustryType:        6,
	ModeJudge:               7,
}

// Code returns the upstream search type code for the mode
func (m SearchMode) Code() (int, bool) {
	code, ok := searchModeCodes[m]
	return code, ok
}

func (m SearchMode) Valid() bool {
	_, ok := searchModeCodes[m]
	return ok
}

// ParseSearchMode validates a mode name
func ParseSearchMode(s string) (SearchMode, error) {
	m := SearchMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown search mode %q", s)
	}
	return m, nil
}

// SearchModes lists every mode ordered by upstream code
func SearchModes() []SearchMode {
	modes := make([]SearchMode, 0, len(searchModeCodes))
	for m := range searchModeCodes {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(a, b int) bool {
		return searchModeCodes[modes[a]] < searchModeCodes[modes[b]]
	})
	return modes
}

// SearchQuery describes one case search within a sub-commission
type SearchQuery struct {
	SubCommissionID string
	SearchTerm      string
	Mode            SearchMode
	DateFrom        time.Time
	DateTo          time.Time
	OrderType       string
	// Captcha is accepted for request-shape compatibility; upstream CAPTCHA
	// solving is not implemented and the value is never sent.
	Captcha string
}

// DefaultOrderType is used when a query leaves OrderType empty
const DefaultOrderType = "DAILY ORDER"

// DateLayout is the calendar date format sent upstream
const DateLayout = "2006-01-02"

// flexString decodes a JSON string or number into a string. Upstream is
// inconsistent about which one it sends for identifiers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		if b, berr := strconv.ParseBool(string(data)); berr == nil {
			*f = flexString(strconv.FormatBool(b))
			return nil
		}
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

func (f *flexString) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}
