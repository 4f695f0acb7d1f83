package fallback

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
	"github.com/JustJay7/consumer-case-tracker/pkg/logger"
	"github.com/titanous/json5"
)

// Dataset maps a region id to its sub-commissions
type Dataset map[string][]jagriti.SubCommission

// fileEntry accepts both the exported field names and the legacy
// commission_id/commission_name ones. Ids may be strings or numbers.
type fileEntry struct {
	SubCommissionID   interface{} `json:"sub_commission_id"`
	SubCommissionName string      `json:"sub_commission_name"`
	CommissionID      interface{} `json:"commission_id"`
	CommissionName    string      `json:"commission_name"`
}

func (e fileEntry) toSubCommission() jagriti.SubCommission {
	id := idString(e.SubCommissionID)
	if id == "" {
		id = idString(e.CommissionID)
	}
	name := e.SubCommissionName
	if name == "" {
		name = e.CommissionName
	}
	return jagriti.SubCommission{SubCommissionID: id, SubCommissionName: name}
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

// localPath turns data/commissions.json into data/commissions.local.json
func localPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func readFile(name string) (map[string][]fileEntry, error) {
	contents, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	out := map[string][]fileEntry{}
	if len(strings.TrimSpace(string(contents))) == 0 {
		return out, nil
	}
	if err := json5.Unmarshal(contents, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return out, nil
}

// ReadDataset reads name and, when present, merges name's ".local" sibling
// over it. Regions in the local file replace those in the base file.
// Both files are JSON5, so comments and trailing commas are allowed.
func ReadDataset(name string) (Dataset, error) {
	base, err := readFile(name)
	if err != nil {
		return nil, err
	}

	override, err := readFile(localPath(name))
	switch {
	case err == nil:
		if err := mergo.Merge(&base, override, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge local overrides: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	dataset := make(Dataset, len(base))
	for regionID, entries := range base {
		items := make([]jagriti.SubCommission, 0, len(entries))
		for _, entry := range entries {
			items = append(items, entry.toSubCommission())
		}
		dataset[regionID] = items
	}
	return dataset, nil
}

// Load builds a Store from the dataset file. A missing or unreadable file is
// logged and yields an empty store, so a blocked listing degrades to an
// empty result instead of an error.
func Load(name string, log *logger.Logger) *Store {
	dataset, err := ReadDataset(name)
	if err != nil {
		log.Error("Couldn't load fallback commissions", "path", name, "error", err)
		return NewStore(nil)
	}

	log.Info("Loaded fallback commissions", "path", name, "regions", len(dataset))
	return NewStore(dataset)
}
