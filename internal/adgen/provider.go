package adgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/marden/adrival/internal/models"
)

// Prompt carries everything the model needs to write one competitive ad.
type Prompt struct {
	Brand        string
	Competitor   string
	AdCopy       string
	Location     string
	Zipcode      string
	Hashtags     []string
	Industry     string
	AudienceType string
	OfferType    string
	Goal         string

	// Enrichment gathered server-side, never client-supplied.
	CompetitorDescription string
	CompetitorServices    []string
	CompetitorFeatures    []string
	Tone                  string
	Keywords              []string
	Region                string
	MarketTraits          []string
}

// Provider produces one ad creative per call.
type Provider interface {
	GenerateAd(ctx context.Context, p Prompt) (models.Ad, error)
}

type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxRetries  int
	retryDelay  time.Duration
	logger      *slog.Logger
}

type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxRetries  int
	RetryDelay  time.Duration
}

func NewOpenAIProvider(cfg OpenAIConfig, logger *slog.Logger) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.8
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 10 * time.Second
	}

	return &OpenAIProvider{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		logger:      logger,
	}
}

const systemPrompt = `You are an advertising copywriter. You write short, punchy ads that position a brand against a named competitor. Respond with a JSON object containing exactly these keys: "headline" (string, under 10 words), "ad_text" (string, 2-3 sentences), "cta" (string, a short call to action), "hashtags" (array of strings, each starting with #), "quality_score" (number between 0 and 1 rating your own confidence).`

// GenerateAd asks the model for one creative. Rate-limit responses are
// retried with a linearly growing delay; any other error fails fast.
func (p *OpenAIProvider) GenerateAd(ctx context.Context, prompt Prompt) (models.Ad, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(prompt)},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return parseAdResponse(resp)
		}
		lastErr = err

		if !isRateLimited(err) {
			return models.Ad{}, fmt.Errorf("chat completion failed: %w", err)
		}
		if attempt == p.maxRetries {
			break
		}

		wait := p.retryDelay * time.Duration(attempt)
		p.logger.Warn("rate limited by provider, backing off",
			"attempt", attempt,
			"max_retries", p.maxRetries,
			"wait", wait)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return models.Ad{}, ctx.Err()
		}
	}

	return models.Ad{}, fmt.Errorf("rate limit exceeded after %d retries: %w", p.maxRetries, lastErr)
}

func buildUserPrompt(p Prompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write one ad for %q competing against %q.\n", p.Brand, p.Competitor)
	if p.AdCopy != "" {
		fmt.Fprintf(&b, "The competitor's current ad copy: %q\n", p.AdCopy)
	}
	if p.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", p.Location)
	}
	if p.Zipcode != "" {
		fmt.Fprintf(&b, "ZIP code: %s\n", p.Zipcode)
	}
	if len(p.Hashtags) > 0 {
		fmt.Fprintf(&b, "Niche hashtags to consider: %s\n", strings.Join(p.Hashtags, " "))
	}
	if p.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", p.Industry)
	}
	if p.AudienceType != "" {
		fmt.Fprintf(&b, "Target audience: %s\n", p.AudienceType)
	}
	if p.OfferType != "" {
		fmt.Fprintf(&b, "Offer type: %s\n", p.OfferType)
	}
	if p.Goal != "" {
		fmt.Fprintf(&b, "Campaign goal: %s\n", p.Goal)
	}
	if p.CompetitorDescription != "" {
		fmt.Fprintf(&b, "What is known about the competitor: %q\n", p.CompetitorDescription)
	}
	if len(p.CompetitorServices) > 0 {
		fmt.Fprintf(&b, "Services the competitor advertises: %s\n", strings.Join(p.CompetitorServices, "; "))
	}
	if len(p.CompetitorFeatures) > 0 {
		fmt.Fprintf(&b, "Features the competitor highlights: %s\n", strings.Join(p.CompetitorFeatures, "; "))
	}
	if p.Tone != "" {
		fmt.Fprintf(&b, "Write in a %s tone.\n", p.Tone)
	}
	if len(p.Keywords) > 0 {
		fmt.Fprintf(&b, "Themes to weave in: %s\n", strings.Join(p.Keywords, ", "))
	}
	if p.Region != "" {
		fmt.Fprintf(&b, "The audience is in %s.\n", p.Region)
	}
	if len(p.MarketTraits) > 0 {
		fmt.Fprintf(&b, "Market traits there: %s\n", strings.Join(p.MarketTraits, ", "))
	}
	return b.String()
}

func parseAdResponse(resp openai.ChatCompletionResponse) (models.Ad, error) {
	if len(resp.Choices) == 0 {
		return models.Ad{}, errors.New("empty response from provider")
	}

	var ad models.Ad
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &ad); err != nil {
		return models.Ad{}, fmt.Errorf("failed to parse ad response: %w", err)
	}
	return ad, nil
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429
	}
	return false
}
