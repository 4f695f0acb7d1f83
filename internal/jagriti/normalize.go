package jagriti

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var errNotArray = errors.New("expected a JSON array")

type upstreamRegion struct {
	CommissionID *flexString `json:"commissionId"`
	StateName    *flexString `json:"stateName"`
}

type upstreamCommission struct {
	CommissionID   *flexString `json:"commissionId"`
	CommissionName *flexString `json:"commissionName"`
}

// decodeArray requires body to be a JSON array of objects and decodes every
// element, failing as a whole if any element does not fit.
func decodeArray[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("invalid JSON")
		}
		return nil, errNotArray
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(elems))
	for i, raw := range elems {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, fmt.Errorf("element %d is not an object", i)
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func parseRegions(body []byte) ([]Region, error) {
	items, err := decodeArray[upstreamRegion](body)
	if err != nil {
		return nil, err
	}
	regions := make([]Region, 0, len(items))
	for _, item := range items {
		regions = append(regions, Region{
			RegionID:   item.CommissionID.String(),
			RegionName: item.StateName.String(),
		})
	}
	return regions, nil
}

func parseSubCommissions(body []byte) ([]SubCommission, error) {
	items, err := decodeArray[upstreamCommission](body)
	if err != nil {
		return nil, err
	}
	commissions := make([]SubCommission, 0, len(items))
	for _, item := range items {
		commissions = append(commissions, SubCommission{
			SubCommissionID:   item.CommissionID.String(),
			SubCommissionName: item.CommissionName.String(),
		})
	}
	return commissions, nil
}

// searchElements unwraps the search payload, which is either {"data": [...]},
// a bare array, or null.
func searchElements(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("invalid JSON")
	}

	data := json.RawMessage(trimmed)
	if trimmed[0] == '{' {
		var wrapper struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, err
		}
		data = bytes.TrimSpace(wrapper.Data)
	}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []json.RawMessage{}, nil
	}
	if data[0] != '[' {
		return nil, errNotArray
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, err
	}
	return elems, nil
}

// normalizeCases keeps object elements that carry a document reference and
// passes every non-object element through as a raw item.
func normalizeCases(elems []json.RawMessage) []SearchItem {
	items := make([]SearchItem, 0, len(elems))
	for _, raw := range elems {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			items = append(items, SearchItem{Raw: raw})
			continue
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			items = append(items, SearchItem{Raw: raw})
			continue
		}

		if !hasDocument(fields) {
			continue
		}
		items = append(items, SearchItem{Case: projectCase(fields)})
	}
	return items
}

func hasDocument(fields map[string]json.RawMessage) bool {
	return truthy(fields["orderDocumentPath"]) || truthy(fields["documentBase64"])
}

func projectCase(fields map[string]json.RawMessage) *CaseRecord {
	record := &CaseRecord{
		CaseStage:           field(fields, "caseStageName"),
		FilingDate:          field(fields, "caseFilingDate"),
		Complainant:         field(fields, "complainantName"),
		ComplainantAdvocate: field(fields, "complainantAdvocateName"),
		Respondent:          field(fields, "respondentName"),
		RespondentAdvocate:  field(fields, "respondentAdvocateName"),
		DocumentLink:        field(fields, "orderDocumentPath"),
	}
	if n := field(fields, "caseNumber"); n != nil {
		record.CaseNumber = *n
	}
	return record
}

// field returns nil for missing or null values. Strings are returned as-is,
// any other JSON value as its literal text.
func field(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return &s
		}
	}
	s := string(raw)
	return &s
}

// truthy mirrors how upstream consumers treat a document field as present
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0:
		return false
	case bytes.Equal(raw, []byte("null")), bytes.Equal(raw, []byte("false")):
		return false
	case bytes.Equal(raw, []byte(`""`)), bytes.Equal(raw, []byte("[]")), bytes.Equal(raw, []byte("{}")):
		return false
	case bytes.Equal(raw, []byte("0")):
		return false
	}
	return true
}

// blockPageTitle pulls the <title> out of an HTML block page, if there is one
func blockPageTitle(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
