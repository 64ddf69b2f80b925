package insight

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	kw := ExtractKeywords("Joe's Pizza Corp", []string{"#DigitalMarketing", "#pizza"})

	if !reflect.DeepEqual(kw.Industries, []string{"food", "technology"}) {
		t.Errorf("Industries = %v, want [food technology]", kw.Industries)
	}
	if !reflect.DeepEqual(kw.BusinessTypes, []string{"corporation"}) {
		t.Errorf("BusinessTypes = %v, want [corporation]", kw.BusinessTypes)
	}
	if !contains(kw.Common, "pizza") {
		t.Errorf("Common = %v, want pizza counted twice", kw.Common)
	}
	if !contains(kw.Unique, "marketing") {
		t.Errorf("Unique = %v, want marketing", kw.Unique)
	}
}

func TestHashtagWords(t *testing.T) {
	tests := []struct {
		tag  string
		want []string
	}{
		{"#DigitalMarketing", []string{"digital", "marketing"}},
		{"#pizza", []string{"pizza"}},
		{"#k12education", []string{"education"}},
		{"#", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := hashtagWords(tt.tag)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("hashtagWords(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestAnalyzeTone(t *testing.T) {
	tests := []struct {
		name        string
		competitor  string
		hashtags    []string
		wantPrimary string
	}{
		{"local shop", "Mario's Family Pizzeria", []string{"#handmade", "#fresh"}, ToneLocal},
		{"corporate", "Global Holdings Corporation Inc", []string{"#enterprise"}, ToneCorporate},
		{"no signal", "Zxqv", nil, ToneProfessional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tone := AnalyzeTone(tt.competitor, tt.hashtags)
			if tone.Primary != tt.wantPrimary {
				t.Errorf("Primary = %q, want %q", tone.Primary, tt.wantPrimary)
			}
			if tone.Confidence < 0 || tone.Confidence > 1 {
				t.Errorf("Confidence = %v, out of range", tone.Confidence)
			}
		})
	}
}

func TestAnalyzeToneSentiment(t *testing.T) {
	if got := AnalyzeTone("Best Quality Motors", nil).Sentiment; got != SentimentPositive {
		t.Errorf("Sentiment = %q, want %q", got, SentimentPositive)
	}
	if got := AnalyzeTone("Cheap Broken Cars", nil).Sentiment; got != SentimentNegative {
		t.Errorf("Sentiment = %q, want %q", got, SentimentNegative)
	}
	if got := AnalyzeTone("Zxqv", nil).Sentiment; got != SentimentNeutral {
		t.Errorf("Sentiment = %q, want %q", got, SentimentNeutral)
	}
}

func TestLookupRegion(t *testing.T) {
	tests := []struct {
		zip       string
		wantName  string
		wantType  string
		wantState string
	}{
		{"10001", "New York Metro", RegionUrban, "NY"},
		{"90210", "Beverly Hills", RegionSuburban, "CA"},
		{"90299", "Los Angeles Metro", RegionUrban, "CA"},
		{"94103", "San Francisco Bay Area", RegionUrban, "CA"},
		{"59001", "Montana Rural", RegionRural, "MT"},
		{"10001-1234", "New York Metro", RegionUrban, "NY"},
		{"55555", "", "", ""},
		{"abc", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.zip, func(t *testing.T) {
			r := LookupRegion(tt.zip)
			if r.Name != tt.wantName || r.Type != tt.wantType || r.State != tt.wantState {
				t.Errorf("LookupRegion(%q) = {%q %q %q}, want {%q %q %q}",
					tt.zip, r.Name, r.Type, r.State, tt.wantName, tt.wantType, tt.wantState)
			}
		})
	}
}

func TestLookupRegionDensityAndTraits(t *testing.T) {
	r := LookupRegion("94103")
	if r.Density != "high" {
		t.Errorf("Density = %q, want high", r.Density)
	}
	if !contains(r.MarketTraits, "tech savvy") {
		t.Errorf("MarketTraits = %v, want tech savvy included", r.MarketTraits)
	}
	if !contains(r.MarketTraits, "competitive market") {
		t.Errorf("MarketTraits = %v, want competitive market included", r.MarketTraits)
	}
}

func TestBuildConfidence(t *testing.T) {
	full := Build("Global Tech Solutions Corporation", []string{"#software", "#cloud"}, "10001")
	empty := Build("Zxqv", nil, "")

	if full.Confidence <= empty.Confidence {
		t.Errorf("rich inputs scored %v, sparse scored %v, want rich > sparse",
			full.Confidence, empty.Confidence)
	}
	if full.Region.Name != "New York Metro" {
		t.Errorf("Region.Name = %q, want New York Metro", full.Region.Name)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
