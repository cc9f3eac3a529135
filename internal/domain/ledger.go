package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Goods types offered by the entry form. Any other non-empty type is accepted.
var LedgerTypes = []string{"沙糖桔", "贡柑", "茶油"}

// Units offered by the entry form; DefaultUnit is used when none is given.
var LedgerUnits = []string{"箱", "筐", "袋"}

const DefaultUnit = "箱"

var ErrInvalidLedgerRecord = errors.New("invalid ledger record")

// Represents one bookkeeping line: goods shipped on a day.
// Weight and Postage are optional.
type LedgerRecord struct {
	ID        string
	Date      string
	Type      string
	Quantity  int
	Unit      string
	Weight    *float64
	Postage   *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Normalize trims text fields and fills the default unit.
func (r *LedgerRecord) Normalize() {
	r.Type = strings.TrimSpace(r.Type)
	r.Unit = strings.TrimSpace(r.Unit)
	if r.Unit == "" {
		r.Unit = DefaultUnit
	}
	if r.Weight != nil && *r.Weight <= 0 {
		r.Weight = nil
	}
	if r.Postage != nil && *r.Postage <= 0 {
		r.Postage = nil
	}
}

// Validate reports the first violated field rule.
func (r *LedgerRecord) Validate() error {
	if r.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidLedgerRecord)
	}
	if r.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidLedgerRecord)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidLedgerRecord, r.Quantity)
	}
	return nil
}

// TypeStat aggregates ledger lines sharing one goods type.
type TypeStat struct {
	Type     string
	Quantity int
	Weight   float64
	Count    int
}

// LedgerStatistics summarizes a day of ledger lines.
type LedgerStatistics struct {
	TotalQuantity int
	TotalWeight   float64
	TotalPostage  float64
	// ByType is ordered by first appearance.
	ByType []TypeStat
}

// SummarizeLedger reduces records into day totals and per-type totals.
func SummarizeLedger(records []*LedgerRecord) LedgerStatistics {
	var s LedgerStatistics
	index := map[string]int{}
	for _, r := range records {
		if r == nil {
			continue
		}
		s.TotalQuantity += r.Quantity
		if r.Weight != nil {
			s.TotalWeight += *r.Weight
		}
		if r.Postage != nil {
			s.TotalPostage += *r.Postage
		}

		i, ok := index[r.Type]
		if !ok {
			i = len(s.ByType)
			index[r.Type] = i
			s.ByType = append(s.ByType, TypeStat{Type: r.Type})
		}
		s.ByType[i].Count++
		s.ByType[i].Quantity += r.Quantity
		if r.Weight != nil {
			s.ByType[i].Weight += *r.Weight
		}
	}
	return s
}
