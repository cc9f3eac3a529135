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

// LedgerHandler exposes the bookkeeping ledger endpoints.
type LedgerHandler struct {
	Service *services.LedgerService
	Clock   ports.Clock
	Log     logging.Logger
}

func (h *LedgerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.LedgerRequest
	if !decodeJSON(w, r, h.Log, &req) {
		return
	}

	rec, err := h.Service.Add(r.Context(), services.LedgerInput{
		Date:     req.Date,
		Type:     req.Type,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Weight:   req.Weight,
		Postage:  req.Postage,
	})
	if err != nil {
		writeServiceError(w, r, h.Log, "add ledger", err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusCreated, dto.FromLedgerRecord(rec, h.Clock.Now()))
}

func (h *LedgerHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Log, "get ledger", err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.FromLedgerRecord(rec, h.Clock.Now()))
}

// List serves ?from=&to= as a range, otherwise the day in ?date= (today by
// default).
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")

	var (
		records []*domain.LedgerRecord
		err     error
	)
	switch {
	case from != "" || to != "":
		if from == "" || to == "" {
			writeError(w, r, h.Log, http.StatusBadRequest, "from and to must be given together")
			return
		}
		records, err = h.Service.ListRange(r.Context(), from, to)
	default:
		date := q.Get("date")
		if date == "" {
			date = dates.Today(h.Clock)
		}
		records, err = h.Service.ListDay(r.Context(), date)
	}
	if err != nil {
		writeServiceError(w, r, h.Log, "list ledger", err)
		return
	}

	now := h.Clock.Now()
	res := dto.ListLedgerResponse{Records: make([]dto.LedgerResponse, 0, len(records))}
	for _, rec := range records {
		res.Records = append(res.Records, dto.FromLedgerRecord(rec, now))
	}
	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func (h *LedgerHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = dates.Today(h.Clock)
	}

	st, err := h.Service.DayStatistics(r.Context(), date)
	if err != nil {
		writeServiceError(w, r, h.Log, "ledger statistics", err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.FromLedgerStatistics(date, st))
}

func (h *LedgerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.PatchLedgerRequest
	if !decodeJSON(w, r, h.Log, &req) {
		return
	}

	rec, err := h.Service.Update(r.Context(), r.PathValue("id"), services.LedgerPatch(req))
	if err != nil {
		writeServiceError(w, r, h.Log, "update ledger", err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.FromLedgerRecord(rec, h.Clock.Now()))
}

func (h *LedgerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, h.Log, "delete ledger", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
