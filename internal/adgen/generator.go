// Package adgen turns a campaign brief into a fixed number of ad variants
// via a generative AI provider, with caching and canned fallbacks.
package adgen

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/marden/adrival/internal/metrics"
	"github.com/marden/adrival/internal/models"
)

const defaultVariations = 3

type Generator struct {
	provider Provider
	cache    Cache
	gap      time.Duration
	logger   *slog.Logger
}

// New builds a Generator. gap is the pause between successive provider
// calls so bursts of variations do not trip provider rate limits.
func New(provider Provider, cache Cache, gap time.Duration, logger *slog.Logger) *Generator {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Generator{provider: provider, cache: cache, gap: gap, logger: logger}
}

// Enrichment is competitor and market context gathered server-side and
// folded into the prompt. It never affects the cache key; the same
// request fields always derive the same context.
type Enrichment struct {
	CompetitorDescription string
	CompetitorServices    []string
	CompetitorFeatures    []string
	Tone                  string
	Keywords              []string
	Region                string
	MarketTraits          []string
}

// Generate returns exactly req.NumVariations ads without extra context.
func (g *Generator) Generate(ctx context.Context, req models.GenerateRequest) ([]models.Ad, bool, error) {
	return g.GenerateEnriched(ctx, req, Enrichment{})
}

// GenerateEnriched returns exactly req.NumVariations ads. Provider
// failures on individual variations are tolerated; if every call fails
// the canned fallback ads are returned instead. The second result
// reports whether the ads came from cache.
func (g *Generator) GenerateEnriched(ctx context.Context, req models.GenerateRequest, enr Enrichment) ([]models.Ad, bool, error) {
	n := req.NumVariations
	if n <= 0 {
		n = defaultVariations
	}

	key := CacheKey(req.OurBrand, req.CompetitorName, req.Zipcode, n)
	if cached, ok := g.cache.Get(ctx, key); ok && len(cached) == n {
		g.logger.Debug("serving ads from cache", "key", key, "count", n)
		return cached, true, nil
	}

	userTags := normalizeUserTags(req.Hashtags)
	prompt := Prompt{
		Brand:        req.OurBrand,
		Competitor:   req.CompetitorName,
		AdCopy:       req.AdCopy,
		Location:     req.Location,
		Zipcode:      req.Zipcode,
		Hashtags:     userTags,
		Industry:     req.Industry,
		AudienceType: req.AudienceType,
		OfferType:    req.OfferType,
		Goal:         req.Goal,

		CompetitorDescription: enr.CompetitorDescription,
		CompetitorServices:    enr.CompetitorServices,
		CompetitorFeatures:    enr.CompetitorFeatures,
		Tone:                  enr.Tone,
		Keywords:              enr.Keywords,
		Region:                enr.Region,
		MarketTraits:          enr.MarketTraits,
	}

	ads := make([]models.Ad, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 && g.gap > 0 {
			select {
			case <-time.After(g.gap):
			case <-ctx.Done():
				return nil, false, ctx.Err()
			}
		}

		ad, err := g.provider.GenerateAd(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return nil, false, ctx.Err()
			}
			g.logger.Warn("variation failed, continuing",
				"variation", i+1,
				"total", n,
				"error", err)
			continue
		}

		ad.Hashtags = mergeHashtags(userTags, ad.Hashtags)
		fillAdDefaults(&ad, req.CompetitorName)
		ads = append(ads, ad)
	}

	// Each ad is counted exactly once, under the source that produced it.
	if len(ads) == 0 {
		g.logger.Warn("all variations failed, using fallback ads",
			"brand", req.OurBrand,
			"competitor", req.CompetitorName)
		ads = fallbackAds(req.OurBrand, req.CompetitorName, userTags, n)
		metrics.IncAdsGenerated("fallback", len(ads))
	} else {
		metrics.IncAdsGenerated("provider", len(ads))
		if pad := n - len(ads); pad > 0 {
			metrics.IncAdsGenerated("fallback", pad)
		}
	}

	for len(ads) < n {
		ads = append(ads, padAd(req.OurBrand, userTags))
	}
	ads = ads[:n]

	g.cache.Set(ctx, key, ads)
	return ads, false, nil
}

// normalizeUserTags guarantees each user-supplied tag carries a single
// leading # and drops empties.
func normalizeUserTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "#" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + strings.TrimLeft(tag, "#")
		}
		out = append(out, tag)
	}
	return out
}

// mergeHashtags puts the user's tags first and appends AI tags that do
// not duplicate them, comparing case-insensitively.
func mergeHashtags(userTags, aiTags []string) []string {
	if len(userTags) == 0 {
		return aiTags
	}

	seen := make(map[string]bool, len(userTags))
	for _, tag := range userTags {
		seen[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	merged := append([]string{}, userTags...)
	for _, tag := range aiTags {
		if !seen[strings.ToLower(strings.TrimSpace(tag))] {
			merged = append(merged, tag)
		}
	}
	return merged
}

func fillAdDefaults(ad *models.Ad, competitor string) {
	if ad.Headline == "" {
		ad.Headline = "New " + competitor + " Solution"
	}
	if ad.AdText == "" {
		ad.AdText = "Discover our amazing services and experience the difference today!"
	}
	if ad.CTA == "" {
		ad.CTA = "Learn More Today!"
	}
	if len(ad.Hashtags) == 0 {
		ad.Hashtags = []string{"#business"}
	}
}
