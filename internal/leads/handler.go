package leads

import (
	"encoding/json"
	"net/http"

	"github.com/glowcart/sales-agent/pkg/logging"
)

// Handler exposes the decrypted lead archive to admins.
type Handler struct {
	archiver *Archiver
	logger   *logging.Logger
}

// NewHandler creates the leads admin handler.
func NewHandler(archiver *Archiver, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{archiver: archiver, logger: logger}
}

// ListLeadsResponse is the response for listing archived leads.
type ListLeadsResponse struct {
	Leads []LeadRecord `json:"leads"`
	Count int          `json:"count"`
}

// ListLeads handles GET /admin/leads requests.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	records, err := h.archiver.Export()
	if err != nil {
		h.logger.Error("failed to export leads", "error", err)
		http.Error(w, "failed to export leads", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []LeadRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ListLeadsResponse{
		Leads: records,
		Count: len(records),
	})
}
