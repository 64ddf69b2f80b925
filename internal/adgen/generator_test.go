package adgen

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/marden/adrival/internal/models"
)

type fakeProvider struct {
	ads   []models.Ad
	errs  []error
	calls int
}

func (f *fakeProvider) GenerateAd(ctx context.Context, p Prompt) (models.Ad, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return models.Ad{}, f.errs[i]
	}
	if i < len(f.ads) {
		return f.ads[i], nil
	}
	return models.Ad{Headline: "Extra", AdText: "Extra ad.", CTA: "Go!", Hashtags: []string{"#extra"}}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestGenerateCount(t *testing.T) {
	provider := &fakeProvider{
		ads: []models.Ad{
			{Headline: "A", AdText: "a", CTA: "c", Hashtags: []string{"#a"}},
			{Headline: "B", AdText: "b", CTA: "c", Hashtags: []string{"#b"}},
			{Headline: "C", AdText: "c", CTA: "c", Hashtags: []string{"#c"}},
		},
	}
	g := New(provider, nil, 0, testLogger())

	ads, cached, err := g.Generate(context.Background(), models.GenerateRequest{
		OurBrand:       "Acme",
		CompetitorName: "Globex",
		NumVariations:  3,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if cached {
		t.Error("cached = true, want false")
	}
	if len(ads) != 3 {
		t.Fatalf("len(ads) = %d, want 3", len(ads))
	}
	if provider.calls != 3 {
		t.Errorf("provider calls = %d, want 3", provider.calls)
	}
}

func TestGenerateDefaultVariations(t *testing.T) {
	provider := &fakeProvider{}
	g := New(provider, nil, 0, testLogger())

	ads, _, err := g.Generate(context.Background(), models.GenerateRequest{
		OurBrand:       "Acme",
		CompetitorName: "Globex",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(ads) != defaultVariations {
		t.Errorf("len(ads) = %d, want %d", len(ads), defaultVariations)
	}
}

func TestGenerateHashtagMerge(t *testing.T) {
	provider := &fakeProvider{
		ads: []models.Ad{
			{Headline: "A", AdText: "a", CTA: "c", Hashtags: []string{"#Pizza", "#fresh"}},
		},
	}
	g := New(provider, nil, 0, testLogger())

	ads, _, err := g.Generate(context.Background(), models.GenerateRequest{
		OurBrand:       "Acme",
		CompetitorName: "Globex",
		Hashtags:       []string{"pizza", "#deals"},
		NumVariations:  1,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []string{"#pizza", "#deals", "#fresh"}
	if !reflect.DeepEqual(ads[0].Hashtags, want) {
		t.Errorf("Hashtags = %v, want %v", ads[0].Hashtags, want)
	}
}

func TestGeneratePartialFailurePads(t *testing.T) {
	provider := &fakeProvider{
		ads: []models.Ad{
			{Headline: "A", AdText: "a", CTA: "c", Hashtags: []string{"#a"}},
			{},
			{Headline: "C", AdText: "c", CTA: "c", Hashtags: []string{"#c"}},
		},
		errs: []error{nil, errors.New("boom"), nil},
	}
	g := New(provider, nil, 0, testLogger())

	ads, _, err := g.Generate(context.Background(), models.GenerateRequest{
		OurBrand:       "Acme",
		CompetitorName: "Globex",
		NumVariations:  3,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(ads) != 3 {
		t.Fatalf("len(ads) = %d, want 3", len(ads))
	}
	if ads[0].Headline != "A" || ads[1].Headline != "C" {
		t.Errorf("surviving ads in wrong order: %q, %q", ads[0].Headline, ads[1].Headline)
	}
	// The pad ad fills the last slot.
	if ads[2].Headline != "Discover Acme" {
		t.Errorf("pad headline = %q, want %q", ads[2].Headline, "Discover Acme")
	}
}

func TestGenerateAllFailuresFallBack(t *testing.T) {
	boom := errors.New("boom")
	provider := &fakeProvider{errs: []error{boom, boom, boom}}
	g := New(provider, nil, 0, testLogger())

	ads, _, err := g.Generate(context.Background(), models.GenerateRequest{
		OurBrand:       "Acme",
		CompetitorName: "Globex",
		NumVariations:  3,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(ads) != 3 {
		t.Fatalf("len(ads) = %d, want 3", len(ads))
	}
	if ads[0].Headline != "Acme: Better Than Globex" {
		t.Errorf("fallback headline = %q", ads[0].Headline)
	}
	for i, ad := range ads {
		if ad.QualityScore != 0.5 {
			t.Errorf("ads[%d].QualityScore = %v, want 0.5", i, ad.QualityScore)
		}
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &fakeProvider{}
	g := New(provider, nil, time.Second, testLogger())

	_, _, err := g.Generate(ctx, models.GenerateRequest{
		OurBrand:       "Acme",
		CompetitorName: "Globex",
		NumVariations:  2,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCache(client, time.Hour, testLogger())

	provider := &fakeProvider{
		ads: []models.Ad{
			{Headline: "A", AdText: "a", CTA: "c", Hashtags: []string{"#a"}},
			{Headline: "B", AdText: "b", CTA: "c", Hashtags: []string{"#b"}},
		},
	}
	g := New(provider, cache, 0, testLogger())

	req := models.GenerateRequest{
		OurBrand:       "Acme",
		CompetitorName: "Globex",
		Zipcode:        "94103",
		NumVariations:  2,
	}

	first, cached, err := g.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	if cached {
		t.Fatal("first call reported cached = true")
	}

	second, cached, err := g.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if !cached {
		t.Fatal("second call reported cached = false")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached ads differ from originals")
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2 (cache should absorb the second request)", provider.calls)
	}
}

func TestGenerateCacheCountMismatch(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCache(client, time.Hour, testLogger())

	provider := &fakeProvider{}
	g := New(provider, cache, 0, testLogger())

	base := models.GenerateRequest{OurBrand: "Acme", CompetitorName: "Globex"}

	req2 := base
	req2.NumVariations = 2
	if _, _, err := g.Generate(context.Background(), req2); err != nil {
		t.Fatalf("Generate(2) error = %v", err)
	}

	req5 := base
	req5.NumVariations = 5
	ads, cached, err := g.Generate(context.Background(), req5)
	if err != nil {
		t.Fatalf("Generate(5) error = %v", err)
	}
	if cached {
		t.Error("different variant count must miss the cache")
	}
	if len(ads) != 5 {
		t.Errorf("len(ads) = %d, want 5", len(ads))
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("Acme", "Globex", "94103", 3)
	b := CacheKey("acme", "GLOBEX", "94103", 3)
	if a != b {
		t.Error("cache key must be case-insensitive")
	}
	c := CacheKey("Acme", "Globex", "94103", 5)
	if a == c {
		t.Error("variant count must be part of the key")
	}
}

func TestNormalizeUserTags(t *testing.T) {
	got := normalizeUserTags([]string{" pizza ", "#deals", "##new", "", "#"})
	want := []string{"#pizza", "#deals", "#new"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeUserTags() = %v, want %v", got, want)
	}
}
