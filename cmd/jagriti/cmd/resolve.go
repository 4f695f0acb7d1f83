package cmd

import (
	"fmt"
	"strings"

	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
	"github.com/antzucaro/matchr"
)

// minRegionSimilarity is the lowest Jaro-Winkler score accepted as a match
const minRegionSimilarity = 0.8

// resolveRegion finds the region named by query. An exact id wins, otherwise
// the region whose name is most similar to query is picked.
func resolveRegion(regions []jagriti.Region, query string) (jagriti.Region, error) {
	query = strings.TrimSpace(query)
	for _, region := range regions {
		if region.RegionID == query {
			return region, nil
		}
	}

	needle := strings.ToLower(query)
	var best jagriti.Region
	bestScore := 0.0
	for _, region := range regions {
		score := matchr.JaroWinkler(needle, strings.ToLower(region.RegionName), false)
		if score > bestScore {
			best = region
			bestScore = score
		}
	}

	if bestScore < minRegionSimilarity {
		return jagriti.Region{}, fmt.Errorf("no state matches %q", query)
	}
	return best, nil
}
