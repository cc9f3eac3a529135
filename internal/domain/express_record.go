package domain

import (
	"strings"
	"time"
)

// Represents a manifest entry persisted under a calendar day.
// Date is a day key in YYYY-MM-DD form. Timestamps are set by the
// service layer when the record is stored or edited.
type ExpressRecord struct {
	ID   string
	Date string
	ManifestEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MergeRecipientIntoAddress folds a recipient name into the address text.
// Older records stored the recipient separately; the display and edit paths
// treat it as part of the address.
func MergeRecipientIntoAddress(address, recipient string) string {
	addr := strings.TrimSpace(address)
	rec := strings.TrimSpace(recipient)
	if rec == "" {
		return addr
	}
	if addr == "" {
		return rec
	}
	if strings.Contains(addr, rec) {
		return addr
	}
	return addr + "，" + rec
}

// ForDisplay returns a copy with the recipient merged into the address.
func (r ExpressRecord) ForDisplay() ExpressRecord {
	r.Address = MergeRecipientIntoAddress(r.Address, r.Recipient)
	r.Recipient = ""
	return r
}

// ExpressPatch carries the editable fields of an ExpressRecord.
// Nil fields are left unchanged.
type ExpressPatch struct {
	Recorder   *string
	Phone      *string
	Address    *string
	Recipient  *string
	Remark     *string
	Quantities *Quantities
}

// Apply edits the record in place and reports whether anything changed.
func (r *ExpressRecord) Apply(p ExpressPatch) bool {
	changed := false
	set := func(dst *string, src *string) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if *dst != v {
			*dst = v
			changed = true
		}
	}

	set(&r.Recorder, p.Recorder)
	set(&r.Phone, p.Phone)
	set(&r.Address, p.Address)
	set(&r.Remark, p.Remark)
	if p.Recipient != nil || r.Recipient != "" {
		rec := r.Recipient
		if p.Recipient != nil {
			rec = *p.Recipient
		}
		merged := MergeRecipientIntoAddress(r.Address, rec)
		if merged != r.Address || r.Recipient != "" {
			changed = true
		}
		r.Address = merged
		r.Recipient = ""
	}
	if r.Recorder == "" {
		r.Recorder = UnknownRecorder
		changed = true
	}

	if p.Quantities != nil {
		var q Quantities
		for _, c := range Categories {
			q.Set(c, p.Quantities.Of(c))
		}
		if q != r.Quantities {
			r.Quantities = q
			changed = true
		}
	}
	return changed
}
