package insight

import (
	"sort"
	"strings"
)

const (
	RegionUrban    = "urban"
	RegionSuburban = "suburban"
	RegionRural    = "rural"
)

// Region is what a zip code reveals about the audience's market. The
// zero value means the lookup resolved nothing.
type Region struct {
	Name         string
	Type         string
	State        string
	Metro        string
	Density      string
	MarketTraits []string
}

type regionEntry struct {
	name  string
	state string
	metro string
	kind  string
}

// zipRegions maps zip prefixes to their market. Three-digit prefixes
// cover a sectional center, five-digit entries pin an exact area.
var zipRegions = map[string]regionEntry{
	"100":   {"New York Metro", "NY", "New York-Newark-Jersey City", RegionUrban},
	"070":   {"New Jersey Suburbs", "NJ", "New York-Newark-Jersey City", RegionSuburban},
	"902":   {"Los Angeles Metro", "CA", "Los Angeles-Long Beach-Anaheim", RegionUrban},
	"90210": {"Beverly Hills", "CA", "Los Angeles-Long Beach-Anaheim", RegionSuburban},
	"941":   {"San Francisco Bay Area", "CA", "San Francisco-Oakland-Berkeley", RegionUrban},
	"606":   {"Chicago Metro", "IL", "Chicago-Naperville-Elgin", RegionUrban},
	"600":   {"Chicago Suburbs", "IL", "Chicago-Naperville-Elgin", RegionSuburban},
	"770":   {"Houston Metro", "TX", "Houston-The Woodlands-Sugar Land", RegionUrban},
	"331":   {"Miami Metro", "FL", "Miami-Fort Lauderdale-Pompano Beach", RegionUrban},
	"850":   {"Phoenix Metro", "AZ", "Phoenix-Mesa-Chandler", RegionUrban},
	"981":   {"Seattle Metro", "WA", "Seattle-Tacoma-Bellevue", RegionUrban},
	"021":   {"Boston Metro", "MA", "Boston-Cambridge-Newton", RegionUrban},
	"303":   {"Atlanta Metro", "GA", "Atlanta-Sandy Springs-Alpharetta", RegionUrban},
	"010":   {"Western Massachusetts", "MA", "", RegionRural},
	"590":   {"Montana Rural", "MT", "", RegionRural},
	"997":   {"Alaska Rural", "AK", "", RegionRural},
}

var densityByType = map[string]string{
	RegionUrban:    "high",
	RegionSuburban: "medium",
	RegionRural:    "low",
}

var traitsByType = map[string][]string{
	RegionUrban: {
		"competitive market", "diverse demographics", "high disposable income",
		"technology adoption",
	},
	RegionSuburban: {
		"family oriented", "middle income", "stable market",
	},
	RegionRural: {
		"close community", "local focus", "price sensitive",
	},
}

var traitsByRegion = map[string][]string{
	"New York Metro":         {"fast paced", "global market"},
	"Los Angeles Metro":      {"creative industry", "diverse culture"},
	"San Francisco Bay Area": {"tech savvy", "innovation focused"},
	"Chicago Metro":          {"business hub", "logistics center"},
}

// LookupRegion resolves a zip code to its market. The exact five digits
// win over the three-digit prefix.
func LookupRegion(zipcode string) Region {
	five := fiveDigitZip(zipcode)
	if five == "" {
		return Region{}
	}

	entry, ok := zipRegions[five]
	if !ok {
		entry, ok = zipRegions[five[:3]]
	}
	if !ok {
		return Region{}
	}

	traits := append([]string{}, traitsByType[entry.kind]...)
	traits = append(traits, traitsByRegion[entry.name]...)
	sort.Strings(traits)

	return Region{
		Name:         entry.name,
		Type:         entry.kind,
		State:        entry.state,
		Metro:        entry.metro,
		Density:      densityByType[entry.kind],
		MarketTraits: traits,
	}
}

func fiveDigitZip(zipcode string) string {
	var b strings.Builder
	for _, r := range zipcode {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 5 {
		return ""
	}
	return digits[:5]
}
