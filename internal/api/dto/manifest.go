package dto

import "express-ledger-service/internal/domain"

type ParseRequest struct {
	Content string `json:"content"`
}

type QuantitiesBody struct {
	Ju    int `json:"ju"`
	Gong  int `json:"gong"`
	Mixed int `json:"mixed"`
}

type EntryResponse struct {
	Recorder     string         `json:"recorder"`
	Recipient    string         `json:"recipient,omitempty"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	Quantities   QuantitiesBody `json:"quantities"`
	Remark       string         `json:"remark"`
	Order        int64          `json:"order"`
	OriginalText string         `json:"original_text"`
}

type StatisticsResponse struct {
	SumJu    int `json:"sum_ju"`
	SumGong  int `json:"sum_gong"`
	SumMixed int `json:"sum_mixed"`
	Count    int `json:"count"`
	SumAll   int `json:"sum_all"`
}

type ParseResponse struct {
	Entries    []EntryResponse    `json:"entries"`
	Statistics StatisticsResponse `json:"statistics"`
}

func FromQuantities(q domain.Quantities) QuantitiesBody {
	return QuantitiesBody{Ju: q.Ju, Gong: q.Gong, Mixed: q.Mixed}
}

func (q QuantitiesBody) Domain() domain.Quantities {
	return domain.Quantities{Ju: q.Ju, Gong: q.Gong, Mixed: q.Mixed}
}

func FromEntry(e domain.ManifestEntry) EntryResponse {
	return EntryResponse{
		Recorder:     e.Recorder,
		Recipient:    e.Recipient,
		Phone:        e.Phone,
		Address:      e.Address,
		Quantities:   FromQuantities(e.Quantities),
		Remark:       e.Remark,
		Order:        e.Order,
		OriginalText: e.OriginalText,
	}
}

func FromStatistics(s domain.Statistics) StatisticsResponse {
	return StatisticsResponse{
		SumJu:    s.SumJu,
		SumGong:  s.SumGong,
		SumMixed: s.SumMixed,
		Count:    s.Count,
		SumAll:   s.SumAll,
	}
}
