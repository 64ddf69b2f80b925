package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marden/adrival/internal/models"
	"github.com/marden/adrival/internal/validate"
)

var errInvalidURL = errors.New("could not extract a company name from the URL")

// ErrorResponse is the error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// QueuedResponse is returned when work was handed to the background
// worker; the client polls /api/job/{id}.
type QueuedResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
}

// JobView is the polling contract: running jobs are reported as pending.
type JobView struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleGenerate handles POST /api/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.OurBrand) == "" {
		s.sendError(w, http.StatusBadRequest, "our_brand is required")
		return
	}
	if strings.TrimSpace(req.CompetitorName) == "" {
		s.sendError(w, http.StatusBadRequest, "competitor_name is required")
		return
	}

	out, err := s.runner.Do(r.Context(), models.JobKindGenerate, req)
	if err != nil {
		s.logger.Error("generate failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if out.Queued() {
		s.sendJSON(w, http.StatusAccepted, QueuedResponse{
			Success: true,
			JobID:   out.JobID,
			Status:  "queued",
		})
		return
	}
	s.sendJSON(w, http.StatusOK, out.Result)
}

// handleSend handles POST /api/send
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req models.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Ads) == 0 {
		s.sendError(w, http.StatusBadRequest, "ads is required")
		return
	}
	if len(req.SMSUsers) == 0 && len(req.EmailUsers) == 0 {
		s.sendError(w, http.StatusBadRequest, "at least one of sms_users or email_users is required")
		return
	}

	out, err := s.runner.Do(r.Context(), models.JobKindSend, req)
	if err != nil {
		s.logger.Error("send failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if out.Queued() {
		s.sendJSON(w, http.StatusAccepted, QueuedResponse{
			Success: true,
			JobID:   out.JobID,
			Status:  "queued",
		})
		return
	}
	s.sendJSON(w, http.StatusOK, out.Result)
}

// handleJob handles GET /api/job/{id}
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := s.jobs.GetByID(id)
	if err != nil {
		s.logger.Error("failed to load job", "job_id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load job")
		return
	}
	if job == nil {
		s.sendError(w, http.StatusNotFound, "Job not found")
		return
	}

	view := JobView{ID: job.ID, Status: job.Status}
	// Clients only know pending, finished and failed.
	if view.Status == models.JobStatusRunning {
		view.Status = models.JobStatusPending
	}
	switch job.Status {
	case models.JobStatusFinished:
		view.Result = job.Result
	case models.JobStatusFailed:
		view.Error = job.Error
	}

	s.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"job":     view,
	})
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	providers := s.notifier.Status()
	s.sendJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"providers": providers,
		"queue":     s.runner.Async(),
	})
}

// handleValidatePhone handles POST /api/validate/phone
func (s *Server) handleValidatePhone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	normalized, ok := validate.Phone(req.Phone)
	resp := map[string]any{"valid": ok}
	if ok {
		resp["normalized"] = normalized
	}
	s.sendJSON(w, http.StatusOK, resp)
}

// handleValidateEmail handles POST /api/validate/email
func (s *Server) handleValidateEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, ok := validate.Email(req.Email)
	s.sendJSON(w, http.StatusOK, map[string]any{"valid": ok})
}

// handleParseCompetitorURL handles POST /api/parse-competitor-url
func (s *Server) handleParseCompetitorURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, domain, err := competitorFromURL(req.URL)
	if err != nil {
		s.sendJSON(w, http.StatusOK, ErrorResponse{Success: false, Error: err.Error()})
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"competitor_name": name,
		"domain":          domain,
	})
}

// handleListCampaigns handles GET /api/campaigns
func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	filter := models.CampaignFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	campaigns, total, err := s.campaigns.List(filter)
	if err != nil {
		s.logger.Error("failed to list campaigns", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to list campaigns")
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"campaigns": campaigns,
		"total":     total,
	})
}

// handleGetCampaign handles GET /api/campaigns/{id}
func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := s.campaigns.GetByID(id)
	if err != nil {
		s.logger.Error("failed to load campaign", "campaign_id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load campaign")
		return
	}
	if campaign == nil {
		s.sendError(w, http.StatusNotFound, "Campaign not found")
		return
	}

	variants, err := s.variants.ListByCampaign(id)
	if err != nil {
		s.logger.Error("failed to load variants", "campaign_id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load campaign")
		return
	}
	recipients, err := s.recipients.ListByCampaign(id)
	if err != nil {
		s.logger.Error("failed to load recipients", "campaign_id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load campaign")
		return
	}
	sendStats, err := s.sends.StatusCounts(id)
	if err != nil {
		s.logger.Error("failed to load send stats", "campaign_id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load campaign")
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"campaign":   campaign,
		"variants":   variants,
		"recipients": recipients,
		"send_stats": sendStats,
	})
}

// handleDeleteCampaign handles DELETE /api/campaigns/{id}. Variants,
// recipients, sends and events go with it via the schema cascades.
func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.campaigns.Delete(id); err != nil {
		s.logger.Error("failed to delete campaign", "campaign_id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to delete campaign")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]any{"success": true})
}

// competitorFromURL guesses a company name from a website URL: the
// first label of the host with www. stripped, dashes and underscores as
// spaces, title-cased.
func competitorFromURL(raw string) (name, domain string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", errInvalidURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, perr := url.Parse(raw)
	if perr != nil || u.Hostname() == "" {
		return "", "", errInvalidURL
	}

	domain = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(domain, ".")
	if label == "" {
		return "", "", errInvalidURL
	}

	label = strings.ReplaceAll(label, "-", " ")
	label = strings.ReplaceAll(label, "_", " ")
	words := strings.Fields(label)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " "), domain, nil
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// sendJSON sends a JSON response
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, ErrorResponse{Success: false, Error: message})
}
