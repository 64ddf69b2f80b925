package insight

import (
	"sort"
	"strings"
)

const (
	ToneLocal        = "local"
	ToneCorporate    = "corporate"
	ToneTechnical    = "technical"
	ToneProfessional = "professional"
	ToneCasual       = "casual"
	ToneFormal       = "formal"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentMixed    = "mixed"
)

// Tone describes the voice the inputs suggest for the ad copy.
type Tone struct {
	Primary    string
	Secondary  []string
	Sentiment  string
	Confidence float64
}

var localIndicators = []string{
	"local", "family", "community", "neighborhood", "hometown", "corner",
	"shop", "store", "market", "cafe", "diner", "pizzeria", "boutique",
	"studio", "salon", "clinic", "pharmacy", "bakery", "fresh", "handmade",
	"artisan", "craft", "traditional", "authentic",
}

var corporateIndicators = []string{
	"corporation", "corp", "inc", "llc", "ltd", "company", "enterprise",
	"global", "international", "worldwide", "national", "systems",
	"solutions", "services", "group", "holdings", "ventures",
	"technologies", "consulting", "management",
}

var technicalIndicators = []string{
	"software", "technology", "digital", "cloud", "data", "analytics",
	"platform", "solution", "system", "api", "mobile", "web", "development",
	"engineering", "innovation", "automation", "intelligence", "blockchain",
}

var positiveWords = []string{
	"excellent", "amazing", "great", "best", "top", "premium", "quality",
	"reliable", "trusted", "innovative",
}

var negativeWords = []string{
	"cheap", "poor", "worst", "bad", "terrible", "awful", "unreliable",
	"outdated", "broken", "failed",
}

const (
	localWeight     = 0.4
	corporateWeight = 0.3
	technicalWeight = 0.2
)

// AnalyzeTone scores the competitor name and hashtags against indicator
// word lists. A weak signal on every axis defaults to professional.
func AnalyzeTone(competitor string, hashtags []string) Tone {
	words := make(map[string]bool)
	for _, w := range nameWordsUnfiltered(competitor) {
		words[w] = true
	}
	for _, tag := range hashtags {
		for _, w := range hashtagWords(tag) {
			words[w] = true
		}
	}

	localScore := indicatorScore(words, localIndicators)
	corporateScore := indicatorScore(words, corporateIndicators)
	technicalScore := indicatorScore(words, technicalIndicators)

	return Tone{
		Primary:    primaryTone(localScore, corporateScore, technicalScore),
		Secondary:  secondaryTones(localScore, corporateScore, technicalScore),
		Sentiment:  sentiment(words),
		Confidence: toneConfidence(localScore, corporateScore, technicalScore),
	}
}

// nameWordsUnfiltered keeps business suffixes like "corp" and "inc"
// because they are exactly the corporate signal tone scoring wants.
func nameWordsUnfiltered(name string) []string {
	var out []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(name), -1) {
		w = strings.Trim(w, ".'-")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func indicatorScore(words map[string]bool, indicators []string) float64 {
	var found int
	for _, ind := range indicators {
		if words[ind] {
			found++
		}
	}
	return float64(found) / float64(len(indicators))
}

func primaryTone(local, corporate, technical float64) string {
	weighted := map[string]float64{
		ToneLocal:     local * localWeight,
		ToneCorporate: corporate * corporateWeight,
		ToneTechnical: technical * technicalWeight,
	}

	best, bestScore := ToneProfessional, 0.0
	for _, tone := range []string{ToneLocal, ToneCorporate, ToneTechnical} {
		if weighted[tone] > bestScore {
			best, bestScore = tone, weighted[tone]
		}
	}
	if bestScore < 0.05 {
		return ToneProfessional
	}
	return best
}

func secondaryTones(local, corporate, technical float64) []string {
	primary := primaryTone(local, corporate, technical)
	set := make(map[string]bool)

	if local > 0.2 && primary != ToneLocal {
		set[ToneLocal] = true
	}
	if corporate > 0.2 && primary != ToneCorporate {
		set[ToneCorporate] = true
	}
	if technical > 0.2 && primary != ToneTechnical {
		set[ToneTechnical] = true
	}
	if local > 0.1 {
		set[ToneCasual] = true
	}
	if corporate > 0.3 {
		set[ToneFormal] = true
	}

	out := make([]string, 0, len(set))
	for tone := range set {
		out = append(out, tone)
	}
	sort.Strings(out)
	return out
}

func sentiment(words map[string]bool) string {
	var pos, neg int
	for _, w := range positiveWords {
		if words[w] {
			pos++
		}
	}
	for _, w := range negativeWords {
		if words[w] {
			neg++
		}
	}

	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	case pos > 0:
		return SentimentMixed
	default:
		return SentimentNeutral
	}
}

func toneConfidence(local, corporate, technical float64) float64 {
	max := local
	if corporate > max {
		max = corporate
	}
	if technical > max {
		max = technical
	}

	var aligned int
	for _, score := range []float64{local, corporate, technical} {
		if score > 0.1 {
			aligned++
		}
	}
	bonus := float64(aligned) * 0.1
	if bonus > 0.3 {
		bonus = 0.3
	}

	if c := max + bonus; c < 1 {
		return c
	}
	return 1
}
