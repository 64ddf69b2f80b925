// Package jobs implements the background work units (ad generation and
// dispatch), the queue runner, and the polling worker that drains it.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/marden/adrival/internal/adgen"
	"github.com/marden/adrival/internal/input"
	"github.com/marden/adrival/internal/insight"
	"github.com/marden/adrival/internal/intel"
	"github.com/marden/adrival/internal/metrics"
	"github.com/marden/adrival/internal/models"
	"github.com/marden/adrival/internal/notify"
	"github.com/marden/adrival/internal/repository"
)

// IntelGatherer collects public competitor information for prompt
// enrichment.
type IntelGatherer interface {
	Gather(ctx context.Context, competitor, website string) intel.Profile
}

// Handlers executes the two job kinds. Persistence is best-effort: a
// database hiccup degrades to a warning, never a failed job, because the
// generated ads and delivery results are still useful to the caller.
type Handlers struct {
	generator  *adgen.Generator
	intel      IntelGatherer
	notifier   *notify.Notifier
	campaigns  *repository.CampaignRepository
	variants   *repository.VariantRepository
	recipients *repository.RecipientRepository
	sends      *repository.SendRepository
	logger     *slog.Logger
}

func NewHandlers(
	generator *adgen.Generator,
	gatherer IntelGatherer,
	notifier *notify.Notifier,
	campaigns *repository.CampaignRepository,
	variants *repository.VariantRepository,
	recipients *repository.RecipientRepository,
	sends *repository.SendRepository,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		generator:  generator,
		intel:      gatherer,
		notifier:   notifier,
		campaigns:  campaigns,
		variants:   variants,
		recipients: recipients,
		sends:      sends,
		logger:     logger,
	}
}

// Handle dispatches one claimed job by kind.
func (h *Handlers) Handle(ctx context.Context, kind string, payload json.RawMessage) (any, error) {
	switch kind {
	case models.JobKindGenerate:
		var req models.GenerateRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("bad generate payload: %w", err)
		}
		return h.Generate(ctx, req)
	case models.JobKindSend:
		var req models.SendRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("bad send payload: %w", err)
		}
		return h.Send(ctx, req)
	default:
		return nil, fmt.Errorf("unknown job kind: %s", kind)
	}
}

// GenerateResult is the payload a finished generate job carries.
type GenerateResult struct {
	Success    bool        `json:"success"`
	Ads        []models.Ad `json:"ads"`
	Count      int         `json:"count"`
	Cached     bool        `json:"cached"`
	CampaignID string      `json:"campaign_id,omitempty"`
}

// Generate normalizes the request, produces ad variants and records the
// campaign.
func (h *Handlers) Generate(ctx context.Context, req models.GenerateRequest) (*GenerateResult, error) {
	if err := h.normalizeInput(&req); err != nil {
		metrics.IncGenerations("rejected")
		return nil, err
	}

	ads, cached, err := h.generator.GenerateEnriched(ctx, req, h.enrich(ctx, req))
	if err != nil {
		metrics.IncGenerations("error")
		return nil, err
	}
	metrics.IncGenerations("success")
	if cached {
		metrics.IncCacheHits()
	}

	campaignID := h.persistCampaign(req, ads)

	return &GenerateResult{
		Success:    true,
		Ads:        ads,
		Count:      len(ads),
		Cached:     cached,
		CampaignID: campaignID,
	}, nil
}

// enrich builds the competitor and market context folded into the AI
// prompt. The site scrape is best-effort and the market analysis is
// derived locally, so enrichment never fails a generation.
func (h *Handlers) enrich(ctx context.Context, req models.GenerateRequest) adgen.Enrichment {
	var enr adgen.Enrichment

	if h.intel != nil {
		profile := h.intel.Gather(ctx, req.CompetitorName, req.WebsiteURL)
		if profile.Source != intel.SourceNone {
			enr.CompetitorDescription = profile.Description
			enr.CompetitorServices = profile.Services
			enr.CompetitorFeatures = profile.KeyFeatures
			h.logger.Info("gathered competitor intelligence",
				"competitor", req.CompetitorName,
				"source", profile.Source)
		}
	}

	mc := insight.Build(req.CompetitorName, req.Hashtags, req.Zipcode)
	enr.Tone = mc.Tone.Primary
	enr.Keywords = mc.Keywords.All()
	enr.Region = mc.Region.Name
	enr.MarketTraits = mc.Region.MarketTraits
	return enr
}

// normalizeInput runs the submitted fields through the input layer.
// Competitor name and zip code errors reject the request; warnings are
// logged and the cleaned values carry on.
func (h *Handlers) normalizeInput(req *models.GenerateRequest) error {
	res := input.Process(req.CompetitorName, input.TypeCompetitorName)
	if !res.OK {
		return fmt.Errorf("invalid competitor name: %s", strings.Join(res.Errors, "; "))
	}
	for _, warn := range res.Warnings {
		h.logger.Warn("competitor name", "warning", warn)
	}
	req.CompetitorName = res.Cleaned

	if len(req.Hashtags) > 0 {
		raw := make([]string, 0, len(req.Hashtags))
		for _, tag := range req.Hashtags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if !strings.HasPrefix(tag, "#") {
				tag = "#" + tag
			}
			raw = append(raw, tag)
		}
		res = input.Process(strings.Join(raw, " "), input.TypeHashtag)
		for _, warn := range res.Warnings {
			h.logger.Warn("hashtags", "warning", warn)
		}
		req.Hashtags = res.Tags
	}

	if req.Zipcode != "" {
		res = input.Process(req.Zipcode, input.TypeZipCode)
		if !res.OK {
			return fmt.Errorf("invalid zip code: %s", strings.Join(res.Errors, "; "))
		}
		for _, warn := range res.Warnings {
			h.logger.Warn("zip code", "warning", warn)
		}
		req.Zipcode = res.Cleaned
	}
	return nil
}

// persistCampaign stores the campaign and its variants. Returns "" when
// persistence fails; the caller still gets its ads.
func (h *Handlers) persistCampaign(req models.GenerateRequest, ads []models.Ad) string {
	name := req.CampaignName
	if name == "" {
		name = fmt.Sprintf("%s vs %s", req.OurBrand, req.CompetitorName)
	}

	c := &models.Campaign{
		Name:           name,
		BrandName:      req.OurBrand,
		CompetitorName: req.CompetitorName,
		Zipcode:        req.Zipcode,
		Industry:       req.Industry,
		AudienceType:   req.AudienceType,
		OfferType:      req.OfferType,
		Goal:           req.Goal,
		Timezone:       req.Timezone,
		Status:         models.CampaignStatusDraft,
	}
	if req.ScheduledAt != "" {
		if t, err := time.Parse(time.RFC3339, req.ScheduledAt); err == nil {
			c.ScheduledAt = &t
			c.Status = models.CampaignStatusScheduled
		} else {
			h.logger.Warn("ignoring unparsable scheduled_at", "value", req.ScheduledAt)
		}
	}

	if err := h.campaigns.Create(c); err != nil {
		h.logger.Warn("failed to save campaign, continuing without persistence", "error", err)
		return ""
	}

	variants, err := h.variants.CreateBatch(c.ID, ads)
	if err != nil {
		h.logger.Warn("failed to save ad variants", "campaign_id", c.ID, "error", err)
		return c.ID
	}
	for i := range variants {
		if i < len(ads) {
			ads[i].ID = variants[i].ID
		}
	}
	return c.ID
}

var (
	errNoUsers = errors.New("no users provided")
	errNoAds   = errors.New("no ads provided")
)

// SendOutcome is the payload a finished send job carries.
type SendOutcome struct {
	Success bool               `json:"success"`
	Results *models.SendResult `json:"results"`
}

// Send fans the selected ads out to every recipient: one delivery, and
// one sends row, per (ad variant, recipient) pair.
func (h *Handlers) Send(ctx context.Context, req models.SendRequest) (*SendOutcome, error) {
	if len(req.SMSUsers) == 0 && len(req.EmailUsers) == 0 {
		return nil, errNoUsers
	}
	if len(req.Ads) == 0 {
		return nil, errNoAds
	}

	h.attachVariantIDs(req.CampaignID, req.Ads)
	recipientIDs := h.persistRecipients(req)
	h.markCampaign(req.CampaignID, models.CampaignStatusSending)

	result := &models.SendResult{
		SMSResults:   []models.DeliveryResult{},
		EmailResults: []models.DeliveryResult{},
	}

	if len(req.SMSUsers) > 0 && h.notifier.SMSEnabled() {
		for _, ad := range req.Ads {
			body := notify.SMSBody(ad)
			for _, user := range req.SMSUsers {
				if user.Phone == "" {
					continue
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				res := h.notifier.SendSMS(ctx, user.Phone, body)
				metrics.IncSends(models.ChannelSMS, res.Status)
				result.SMSResults = append(result.SMSResults, res)
				h.trackSend(req.CampaignID, ad.ID, recipientIDs[recipientKey(models.ChannelSMS, user.Phone)], models.ChannelSMS, res)
			}
		}
	}

	if len(req.EmailUsers) > 0 && h.notifier.EmailEnabled() {
		for _, ad := range req.Ads {
			subject := notify.EmailSubject(ad)
			plain := notify.EmailText(ad)
			html := notify.EmailHTML(ad)
			for _, user := range req.EmailUsers {
				if user.Email == "" {
					continue
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				res := h.notifier.SendEmail(ctx, user.Email, user.Name, subject, plain, html)
				metrics.IncSends(models.ChannelEmail, res.Status)
				result.EmailResults = append(result.EmailResults, res)
				h.trackSend(req.CampaignID, ad.ID, recipientIDs[recipientKey(models.ChannelEmail, user.Email)], models.ChannelEmail, res)
			}
		}
	}

	result.Summary = summarize(result.SMSResults, result.EmailResults)
	h.markCampaign(req.CampaignID, models.CampaignStatusCompleted)

	return &SendOutcome{Success: true, Results: result}, nil
}

// attachVariantIDs maps stored variants onto the submitted ads by
// position when the client did not echo IDs back.
func (h *Handlers) attachVariantIDs(campaignID string, ads []models.Ad) {
	if campaignID == "" {
		return
	}
	variants, err := h.variants.ListByCampaign(campaignID)
	if err != nil {
		h.logger.Warn("failed to load ad variants", "campaign_id", campaignID, "error", err)
		return
	}
	for i := range ads {
		if ads[i].ID == "" && i < len(variants) {
			ads[i].ID = variants[i].ID
		}
	}
}

func recipientKey(channel, contact string) string {
	return channel + "|" + contact
}

// persistRecipients upserts every submitted contact and returns their row
// IDs keyed by channel and contact value.
func (h *Handlers) persistRecipients(req models.SendRequest) map[string]string {
	ids := map[string]string{}
	if req.CampaignID == "" {
		return ids
	}

	var recs []models.Recipient
	for _, user := range req.SMSUsers {
		if user.Phone == "" {
			continue
		}
		recs = append(recs, models.Recipient{
			CampaignID: req.CampaignID,
			Name:       user.Name,
			Phone:      user.Phone,
			Channel:    models.ChannelSMS,
			Tags:       user.Tags,
		})
	}
	for _, user := range req.EmailUsers {
		if user.Email == "" {
			continue
		}
		recs = append(recs, models.Recipient{
			CampaignID: req.CampaignID,
			Name:       user.Name,
			Email:      user.Email,
			Channel:    models.ChannelEmail,
			Tags:       user.Tags,
		})
	}

	rowIDs, err := h.recipients.UpsertBatch(recs)
	if err != nil {
		h.logger.Warn("failed to save recipients", "campaign_id", req.CampaignID, "error", err)
		return ids
	}
	for i, rec := range recs {
		contact := rec.Phone
		if rec.Channel == models.ChannelEmail {
			contact = rec.Email
		}
		ids[recipientKey(rec.Channel, contact)] = rowIDs[i]
	}
	return ids
}

// trackSend records the sends row and its events for one delivery
// attempt. Missing IDs or storage errors degrade to warnings.
func (h *Handlers) trackSend(campaignID, variantID, recipientID, channel string, res models.DeliveryResult) {
	if campaignID == "" || variantID == "" || recipientID == "" {
		return
	}

	status := models.SendStatusFailed
	if res.Success {
		status = models.SendStatusSent
	}
	send := &models.Send{
		CampaignID:   campaignID,
		AdVariantID:  variantID,
		RecipientID:  recipientID,
		Channel:      channel,
		Status:       status,
		ErrorMessage: res.ErrorMessage,
	}
	if err := h.sends.Create(send); err != nil {
		h.logger.Warn("failed to record send", "campaign_id", campaignID, "error", err)
		return
	}

	if err := h.sends.AppendEvent(send.ID, models.EventTypeSend, map[string]any{"channel": channel}); err != nil {
		h.logger.Warn("failed to record send event", "send_id", send.ID, "error", err)
	}
	if res.Success {
		if err := h.sends.UpdateStatus(send.ID, models.SendStatusDelivered, ""); err != nil {
			h.logger.Warn("failed to mark send delivered", "send_id", send.ID, "error", err)
		} else if err := h.sends.AppendEvent(send.ID, models.EventTypeDelivery, map[string]any{}); err != nil {
			h.logger.Warn("failed to record delivery event", "send_id", send.ID, "error", err)
		}
	}
}

func (h *Handlers) markCampaign(campaignID, status string) {
	if campaignID == "" {
		return
	}
	if err := h.campaigns.UpdateStatus(campaignID, status); err != nil {
		h.logger.Warn("failed to update campaign status", "campaign_id", campaignID, "status", status, "error", err)
	}
}

func summarize(sms, email []models.DeliveryResult) models.SendSummary {
	summary := models.SendSummary{
		TotalSMS:      len(sms),
		TotalEmail:    len(email),
		ErrorMessages: []string{},
	}

	for _, r := range sms {
		if r.Success {
			summary.SuccessfulSMS++
		} else {
			summary.FailedSMS++
			summary.ErrorMessages = append(summary.ErrorMessages, "SMS error: "+errorOrUnknown(r.ErrorMessage))
		}
	}
	for _, r := range email {
		if r.Success {
			summary.SuccessfulEmail++
		} else {
			summary.FailedEmail++
			summary.ErrorMessages = append(summary.ErrorMessages, "Email error: "+errorOrUnknown(r.ErrorMessage))
		}
	}

	summary.TotalSent = summary.SuccessfulSMS + summary.SuccessfulEmail
	return summary
}

func errorOrUnknown(msg string) string {
	if msg == "" {
		return "Unknown error"
	}
	return msg
}
