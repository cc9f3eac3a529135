package dto

import (
	"time"

	"express-ledger-service/internal/dates"
	"express-ledger-service/internal/domain"
)

type ImportRequest struct {
	Content string `json:"content"`
}

type QuickAddRequest struct {
	Line string `json:"line"`
}

// PatchExpressRequest edits one record; omitted fields are unchanged.
type PatchExpressRequest struct {
	Recorder   *string         `json:"recorder"`
	Phone      *string         `json:"phone"`
	Address    *string         `json:"address"`
	Recipient  *string         `json:"recipient"`
	Remark     *string         `json:"remark"`
	Quantities *QuantitiesBody `json:"quantities"`
}

func (p PatchExpressRequest) Domain() domain.ExpressPatch {
	patch := domain.ExpressPatch{
		Recorder:  p.Recorder,
		Phone:     p.Phone,
		Address:   p.Address,
		Recipient: p.Recipient,
		Remark:    p.Remark,
	}
	if p.Quantities != nil {
		q := p.Quantities.Domain()
		patch.Quantities = &q
	}
	return patch
}

type ExpressRecordResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	EntryResponse
	// CreateTime is the short display form, e.g. "今天 09:30".
	CreateTime string    `json:"create_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ImportResponse struct {
	Imported int                     `json:"imported"`
	Records  []ExpressRecordResponse `json:"records"`
}

type DayResponse struct {
	Date       string                  `json:"date"`
	Display    string                  `json:"display"`
	Records    []ExpressRecordResponse `json:"records"`
	Statistics StatisticsResponse      `json:"statistics"`
}

type ExportResponse struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

type ClearDayResponse struct {
	Deleted int `json:"deleted"`
}

func FromExpressRecord(r *domain.ExpressRecord, now time.Time) ExpressRecordResponse {
	return ExpressRecordResponse{
		ID:            r.ID,
		Date:          r.Date,
		EntryResponse: FromEntry(r.ManifestEntry),
		CreateTime:    dates.FormatCreateTime(r.CreatedAt, now),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
