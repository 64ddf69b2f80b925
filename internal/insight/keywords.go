package insight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Keywords groups the terms found in the competitor name and hashtags by
// what they say about the business.
type Keywords struct {
	Industries      []string
	Technology      []string
	BusinessTypes   []string
	BrandAttributes []string
	Common          []string
	Unique          []string
}

// All returns every categorized keyword once, category order preserved.
func (k Keywords) All() []string {
	seen := make(map[string]bool)
	var out []string
	for _, group := range [][]string{
		k.Industries, k.Technology, k.BusinessTypes, k.BrandAttributes,
	} {
		for _, word := range group {
			if !seen[word] {
				seen[word] = true
				out = append(out, word)
			}
		}
	}
	return out
}

var industryKeywords = map[string][]string{
	"automotive":  {"auto", "car", "vehicle", "garage", "repair", "dealer", "motor"},
	"beauty":      {"beauty", "salon", "spa", "cosmetic", "hair", "nail", "skincare"},
	"education":   {"school", "education", "learning", "academy", "university", "training", "tutoring", "student", "edtech"},
	"finance":     {"bank", "financial", "credit", "loan", "investment", "insurance", "trading"},
	"fitness":     {"fitness", "gym", "workout", "sports", "wellness"},
	"food":        {"restaurant", "cafe", "food", "catering", "bakery", "pizza", "pizzeria", "coffee"},
	"healthcare":  {"health", "medical", "clinic", "hospital", "pharmacy", "dental"},
	"real estate": {"realty", "property", "homes", "construction", "building"},
	"retail":      {"store", "shop", "market", "boutique", "fashion", "clothing", "retail"},
	"technology":  {"tech", "software", "digital", "computer", "internet", "web", "mobile", "app"},
}

var technologyKeywords = []string{
	"ai", "analytics", "api", "app", "automation", "blockchain", "cloud",
	"cyber", "data", "digital", "innovation", "iot", "mobile", "platform",
	"robotics", "security", "software", "solution", "system", "tech", "web",
}

var businessTypeKeywords = map[string][]string{
	"agency":      {"agency", "bureau", "group"},
	"consulting":  {"consulting", "consultants", "advisors"},
	"corporation": {"corp", "corporation", "inc", "incorporated"},
	"franchise":   {"franchise", "chain", "brand"},
	"llc":         {"llc", "ltd"},
	"partnership": {"partners", "partnership", "associates"},
}

var brandAttributeKeywords = map[string][]string{
	"affordable":  {"affordable", "budget", "economical", "value", "discount"},
	"family":      {"family", "friendly", "welcoming", "personal", "caring"},
	"innovative":  {"innovative", "advanced", "modern"},
	"premium":     {"premium", "luxury", "exclusive", "elite"},
	"quality":     {"quality", "reliable", "trusted", "professional", "expert", "certified"},
	"traditional": {"traditional", "classic", "established", "heritage", "authentic"},
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"corp": true, "inc": true, "llc": true, "ltd": true, "company": true,
	"group": true, "systems": true, "solutions": true, "services": true,
	"technologies": true, "enterprise": true,
}

var wordPattern = regexp.MustCompile(`[a-zA-Z0-9&.'-]+`)

// ExtractKeywords pulls categorized terms from a competitor name and the
// campaign hashtags. Categorization sees every word, including business
// suffixes like "corp"; the frequency buckets drop those as noise.
func ExtractKeywords(competitor string, hashtags []string) Keywords {
	words := nameWords(competitor)
	set := make(map[string]bool)
	for _, w := range nameWordsUnfiltered(competitor) {
		set[w] = true
	}
	for _, tag := range hashtags {
		tagWords := hashtagWords(tag)
		words = append(words, tagWords...)
		for _, w := range tagWords {
			set[w] = true
		}
	}

	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}

	var kw Keywords
	for _, industry := range sortedKeys(industryKeywords) {
		for _, w := range industryKeywords[industry] {
			if set[w] {
				kw.Industries = append(kw.Industries, industry)
				break
			}
		}
	}
	for _, w := range technologyKeywords {
		if set[w] {
			kw.Technology = append(kw.Technology, w)
		}
	}
	for _, bt := range sortedKeys(businessTypeKeywords) {
		for _, w := range businessTypeKeywords[bt] {
			if set[w] {
				kw.BusinessTypes = append(kw.BusinessTypes, bt)
				break
			}
		}
	}
	for _, attr := range sortedKeys(brandAttributeKeywords) {
		for _, w := range brandAttributeKeywords[attr] {
			if set[w] {
				kw.BrandAttributes = append(kw.BrandAttributes, attr)
				break
			}
		}
	}

	for word, count := range counts {
		if count > 1 {
			kw.Common = append(kw.Common, word)
		} else {
			kw.Unique = append(kw.Unique, word)
		}
	}
	sort.Strings(kw.Common)
	sort.Strings(kw.Unique)

	return kw
}

func nameWords(name string) []string {
	var out []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(name), -1) {
		w = strings.Trim(w, ".'-")
		if len(w) > 2 && !stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

// hashtagWords splits a single hashtag into lower-cased words. Compound
// tags split on capital letters or digit runs; #DigitalMarketing yields
// "digital" and "marketing".
func hashtagWords(tag string) []string {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if tag == "" {
		return nil
	}

	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	for _, r := range tag {
		switch {
		case unicode.IsUpper(r):
			flush()
			cur.WriteRune(r)
		case unicode.IsDigit(r) || r == '_':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	out := parts[:0]
	for _, p := range parts {
		if len(p) > 2 && !stopwords[p] {
			out = append(out, p)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
