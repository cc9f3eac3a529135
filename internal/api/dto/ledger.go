package dto

import (
	"time"

	"express-ledger-service/internal/dates"
	"express-ledger-service/internal/domain"
)

type LedgerRequest struct {
	Date     string   `json:"date"`
	Type     string   `json:"type"`
	Quantity int      `json:"quantity"`
	Unit     string   `json:"unit"`
	Weight   *float64 `json:"weight"`
	Postage  *float64 `json:"postage"`
}

type PatchLedgerRequest struct {
	Date     *string  `json:"date"`
	Type     *string  `json:"type"`
	Quantity *int     `json:"quantity"`
	Unit     *string  `json:"unit"`
	Weight   *float64 `json:"weight"`
	Postage  *float64 `json:"postage"`
}

type LedgerResponse struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	Type       string    `json:"type"`
	Quantity   int       `json:"quantity"`
	Unit       string    `json:"unit"`
	Weight     *float64  `json:"weight"`
	Postage    *float64  `json:"postage"`
	CreateTime string    `json:"create_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ListLedgerResponse struct {
	Records []LedgerResponse `json:"records"`
}

type TypeStatResponse struct {
	Type     string  `json:"type"`
	Quantity int     `json:"quantity"`
	Weight   float64 `json:"weight"`
	Count    int     `json:"count"`
}

type LedgerStatisticsResponse struct {
	Date          string             `json:"date"`
	TotalQuantity int                `json:"total_quantity"`
	TotalWeight   float64            `json:"total_weight"`
	TotalPostage  float64            `json:"total_postage"`
	ByType        []TypeStatResponse `json:"by_type"`
}

func FromLedgerRecord(r *domain.LedgerRecord, now time.Time) LedgerResponse {
	return LedgerResponse{
		ID:         r.ID,
		Date:       r.Date,
		Type:       r.Type,
		Quantity:   r.Quantity,
		Unit:       r.Unit,
		Weight:     r.Weight,
		Postage:    r.Postage,
		CreateTime: dates.FormatCreateTime(r.CreatedAt, now),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func FromLedgerStatistics(date string, s domain.LedgerStatistics) LedgerStatisticsResponse {
	res := LedgerStatisticsResponse{
		Date:          date,
		TotalQuantity: s.TotalQuantity,
		TotalWeight:   s.TotalWeight,
		TotalPostage:  s.TotalPostage,
		ByType:        make([]TypeStatResponse, 0, len(s.ByType)),
	}
	for _, t := range s.ByType {
		res.ByType = append(res.ByType, TypeStatResponse(t))
	}
	return res
}
