package handlers

import (
	"net/http"

	"express-ledger-service/internal/api/dto"
	"express-ledger-service/internal/dates"
	"express-ledger-service/internal/domain"
	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/ports"
	"express-ledger-service/internal/services"
)

// ExpressHandler exposes the per-day express manifest endpoints.
type ExpressHandler struct {
	Service *services.ExpressService
	Clock   ports.Clock
	Log     logging.Logger
}

func (h *ExpressHandler) records(records []*domain.ExpressRecord) []dto.ExpressRecordResponse {
	now := h.Clock.Now()
	out := make([]dto.ExpressRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.FromExpressRecord(rec, now))
	}
	return out
}

func (h *ExpressHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportRequest
	if !decodeJSON(w, r, h.Log, &req) {
		return
	}

	records, err := h.Service.Import(r.Context(), r.PathValue("date"), req.Content)
	if err != nil {
		writeServiceError(w, r, h.Log, "import express", err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusCreated, dto.ImportResponse{
		Imported: len(records),
		Records:  h.records(records),
	})
}

func (h *ExpressHandler) QuickAdd(w http.ResponseWriter, r *http.Request) {
	var req dto.QuickAddRequest
	if !decodeJSON(w, r, h.Log, &req) {
		return
	}

	rec, err := h.Service.QuickAdd(r.Context(), r.PathValue("date"), req.Line)
	if err != nil {
		writeServiceError(w, r, h.Log, "quick add express", err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusCreated, dto.FromExpressRecord(rec, h.Clock.Now()))
}

func (h *ExpressHandler) ListDay(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	view, err := h.Service.ListDay(r.Context(), date)
	if err != nil {
		writeServiceError(w, r, h.Log, "list express", err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.DayResponse{
		Date:       view.Date,
		Display:    dates.Display(view.Date),
		Records:    h.records(view.Records),
		Statistics: dto.FromStatistics(view.Statistics),
	})
}

func (h *ExpressHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.DayStatistics(r.Context(), r.PathValue("date"))
	if err != nil {
		writeServiceError(w, r, h.Log, "express statistics", err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.FromStatistics(st))
}

// Export answers with the shareable text; ?format=text returns it as plain text.
func (h *ExpressHandler) Export(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	text, err := h.Service.ExportDay(r.Context(), date)
	if err != nil {
		writeServiceError(w, r, h.Log, "export express", err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(text + "\n"))
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.ExportResponse{Date: date, Text: text})
}

func (h *ExpressHandler) ClearDay(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.ClearDay(r.Context(), r.PathValue("date"))
	if err != nil {
		writeServiceError(w, r, h.Log, "clear express", err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.ClearDayResponse{Deleted: n})
}

func (h *ExpressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.PatchExpressRequest
	if !decodeJSON(w, r, h.Log, &req) {
		return
	}

	rec, err := h.Service.UpdateEntry(r.Context(), r.PathValue("id"), req.Domain())
	if err != nil {
		writeServiceError(w, r, h.Log, "update express", err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.FromExpressRecord(rec, h.Clock.Now()))
}

func (h *ExpressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteEntry(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, h.Log, "delete express", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
