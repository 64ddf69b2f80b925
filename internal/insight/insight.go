// Package insight derives marketing context from campaign inputs. The
// competitor's name and hashtags carry tone and keyword signals, and the
// zip code places the audience in a market. Everything here is
// deterministic lookup and scoring, cheap enough to run on every
// generation.
package insight

// Context is the combined analysis handed to the ad generator.
type Context struct {
	Tone       Tone
	Keywords   Keywords
	Region     Region
	Confidence float64
}

// Build analyzes the cleaned campaign inputs.
func Build(competitor string, hashtags []string, zipcode string) Context {
	tone := AnalyzeTone(competitor, hashtags)
	keywords := ExtractKeywords(competitor, hashtags)
	region := LookupRegion(zipcode)

	return Context{
		Tone:       tone,
		Keywords:   keywords,
		Region:     region,
		Confidence: overallConfidence(tone, keywords, region),
	}
}

// overallConfidence averages the per-analysis confidence signals. The
// keyword signal saturates at ten keywords and the regional signal adds
// up from how much of the lookup resolved.
func overallConfidence(t Tone, k Keywords, r Region) float64 {
	keywordScore := float64(len(k.All())) / 10
	if keywordScore > 1 {
		keywordScore = 1
	}

	var regionScore float64
	if r.Name != "" {
		regionScore += 0.4
	}
	if r.State != "" {
		regionScore += 0.3
	}
	if r.Metro != "" {
		regionScore += 0.3
	}

	return (t.Confidence + keywordScore + regionScore) / 3
}
