package handlers

import (
	"net/http"
	"strings"

	"express-ledger-service/internal/api/dto"
	"express-ledger-service/internal/manifest"
	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/platform/metrics"
)

// ManifestHandler previews a parse without storing anything.
type ManifestHandler struct {
	Log     logging.Logger
	Metrics *metrics.Metrics
}

func (h *ManifestHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req dto.ParseRequest
	if !decodeJSON(w, r, h.Log, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "content is required")
		return
	}

	entries := manifest.SplitAndParse(req.Content)
	h.Metrics.EntriesParsed("preview", len(entries))

	res := dto.ParseResponse{
		Entries:    make([]dto.EntryResponse, 0, len(entries)),
		Statistics: dto.FromStatistics(manifest.Aggregate(entries)),
	}
	for _, e := range entries {
		res.Entries = append(res.Entries, dto.FromEntry(e))
	}
	writeJSON(w, r, h.Log, http.StatusOK, res)
}
