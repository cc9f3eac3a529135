package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLedgerRecordNormalize(t *testing.T) {
	r := &LedgerRecord{Type: " 贡柑 ", Weight: ptr(0.0), Postage: ptr(-3.0)}

	r.Normalize()

	if r.Type != "贡柑" {
		t.Errorf("type = %q", r.Type)
	}
	if r.Unit != DefaultUnit {
		t.Errorf("unit = %q, want %q", r.Unit, DefaultUnit)
	}
	if r.Weight != nil || r.Postage != nil {
		t.Errorf("non-positive weight and postage should be dropped")
	}
}

func TestLedgerRecordValidate(t *testing.T) {
	cases := []struct {
		name string
		rec  LedgerRecord
		ok   bool
	}{
		{"valid", LedgerRecord{Date: "2026-01-02", Type: "沙糖桔", Quantity: 3}, true},
		{"missing date", LedgerRecord{Type: "沙糖桔", Quantity: 3}, false},
		{"missing type", LedgerRecord{Date: "2026-01-02", Quantity: 3}, false},
		{"zero quantity", LedgerRecord{Date: "2026-01-02", Type: "沙糖桔"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidLedgerRecord) {
				t.Fatalf("expected ErrInvalidLedgerRecord, got %v", err)
			}
		})
	}
}

func TestSummarizeLedger(t *testing.T) {
	records := []*LedgerRecord{
		{Type: "贡柑", Quantity: 2, Weight: ptr(10.5)},
		{Type: "沙糖桔", Quantity: 5, Postage: ptr(12.0)},
		nil,
		{Type: "贡柑", Quantity: 1, Weight: ptr(4.5), Postage: ptr(8.0)},
	}

	s := SummarizeLedger(records)

	if s.TotalQuantity != 8 || s.TotalWeight != 15 || s.TotalPostage != 20 {
		t.Fatalf("unexpected totals %+v", s)
	}
	want := []TypeStat{
		{Type: "贡柑", Quantity: 3, Weight: 15, Count: 2},
		{Type: "沙糖桔", Quantity: 5, Count: 1},
	}
	if diff := cmp.Diff(want, s.ByType); diff != "" {
		t.Errorf("ByType mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeLedgerEmpty(t *testing.T) {
	s := SummarizeLedger(nil)
	if s.TotalQuantity != 0 || s.ByType != nil {
		t.Errorf("expected zero statistics, got %+v", s)
	}
}
