package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/xavierca1/residence-leads/internal/infra/http/middleware"
	"github.com/xavierca1/residence-leads/internal/usecase"
)

const maxLeadBodyBytes = 64 << 10

type LeadHandler struct {
	CaptureLeadUC *usecase.CaptureLeadUseCase
}

func NewLeadHandler(uc *usecase.CaptureLeadUseCase) *LeadHandler {
	return &LeadHandler{CaptureLeadUC: uc}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"lead_id"`
	Message string `json:"message"`
}

func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	provenance := usecase.Provenance{
		IPAddress: getClientIP(r),
		UserAgent: r.UserAgent(),
	}

	// Decode failures still go through Execute so the limiter counts them.
	var raw map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLeadBodyBytes))
	dec.UseNumber()
	decodeErr := dec.Decode(&raw)
	if decodeErr == nil && raw != nil {
		provenance.SourceURL = sourceURL(raw, r)
	}

	output, err := h.CaptureLeadUC.Execute(r.Context(), usecase.CaptureLeadInput{
		Raw:        raw,
		DecodeErr:  decodeErr,
		Provenance: provenance,
	})
	if err != nil {
		status := writeUseCaseError(w, r, err)
		reason := rejectionReason(status)
		if status == http.StatusBadRequest && (decodeErr != nil || raw == nil) {
			reason = middleware.ReasonInvalidJSON
		}
		middleware.RecordLeadRejected(reason)
		return
	}

	middleware.RecordLeadCaptured(string(output.Type))

	writeJSON(w, http.StatusCreated, CaptureLeadResponse{
		Success: true,
		LeadID:  output.LeadID,
		Message: output.Message,
	})
}

func rejectionReason(status int) string {
	switch status {
	case http.StatusTooManyRequests:
		return middleware.ReasonRateLimited
	case http.StatusBadRequest:
		return middleware.ReasonValidation
	default:
		return middleware.ReasonInternal
	}
}

// getClientIP takes the first X-Forwarded-For hop, then X-Real-IP, then the
// peer address. An empty result makes the pipeline use the shared "unknown"
// bucket.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func sourceURL(raw map[string]any, r *http.Request) string {
	if s, ok := raw["source_url"].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return r.Referer()
}
