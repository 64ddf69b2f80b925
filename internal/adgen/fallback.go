package adgen

import (
	"fmt"

	"github.com/marden/adrival/internal/models"
)

// fallbackAds produces canned creatives when the provider is unreachable
// or every variation call failed. They rotate through three templates.
func fallbackAds(brand, competitor string, userTags []string, n int) []models.Ad {
	tags := userTags
	if len(tags) == 0 {
		tags = []string{"#business"}
	}

	templates := []models.Ad{
		{
			Headline:     fmt.Sprintf("%s: Better Than %s", brand, competitor),
			AdText:       fmt.Sprintf("Experience the difference with %s. Quality service you can trust. We deliver excellence every time.", brand),
			CTA:          "Learn More Today!",
			QualityScore: 0.5,
		},
		{
			Headline:     fmt.Sprintf("Discover %s Today", brand),
			AdText:       fmt.Sprintf("Join thousands of satisfied customers who chose %s. Get the quality you deserve.", brand),
			CTA:          "Get Started Now!",
			QualityScore: 0.5,
		},
		{
			Headline:     fmt.Sprintf("Experience %s", brand),
			AdText:       fmt.Sprintf("%s offers superior service and unmatched quality. See why customers prefer us.", brand),
			CTA:          "Contact Us Today!",
			QualityScore: 0.5,
		},
	}

	ads := make([]models.Ad, 0, n)
	for i := 0; i < n; i++ {
		ad := templates[i%len(templates)]
		ad.Hashtags = tags
		ads = append(ads, ad)
	}
	return ads
}

// padAd fills the tail when the provider returned fewer ads than asked for.
func padAd(brand string, userTags []string) models.Ad {
	tags := userTags
	if len(tags) == 0 {
		tags = []string{"#business"}
	}
	return models.Ad{
		Headline:     fmt.Sprintf("Discover %s", brand),
		AdText:       fmt.Sprintf("Experience the difference with %s. Quality service you can trust.", brand),
		CTA:          "Learn More Today!",
		Hashtags:     tags,
		QualityScore: 0.5,
	}
}
