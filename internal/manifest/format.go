package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"express-ledger-service/internal/domain"
)

// QuantityToken renders counts as the bracket content of a manifest line,
// e.g. "2桔1贡". All-zero counts render as the zero token of the first
// category.
func QuantityToken(q domain.Quantities) string {
	var b strings.Builder
	for _, c := range domain.Categories {
		if n := q.Of(c); n > 0 {
			b.WriteString(strconv.Itoa(n))
			b.WriteString(c.Glyph())
		}
	}
	if b.Len() == 0 {
		return "0" + domain.Categories[0].Glyph()
	}
	return b.String()
}

// RenderEntry renders one entry as a manifest line. A positive index is
// written as the "<index>. " prefix.
//
// The output parses back to the same recorder, counts, phone and recipient,
// but is not guaranteed to reproduce the original text.
func RenderEntry(e domain.ManifestEntry, index int) string {
	recorder := strings.TrimSpace(e.Recorder)
	if recorder == "" {
		recorder = domain.UnknownRecorder
	}
	address := strings.TrimSpace(e.Address)
	recipient := strings.TrimSpace(e.Recipient)
	phone := strings.TrimSpace(e.Phone)
	remark := strings.TrimSpace(e.Remark)

	var b strings.Builder
	if index > 0 {
		fmt.Fprintf(&b, "%d. ", index)
	}
	b.WriteString(recorder)
	// Without an address the contact follows the recorder after a space, so
	// the recorder stays the first whitespace-delimited token.
	sep := " "
	if address != "" {
		b.WriteString(" ")
		b.WriteString(address)
		sep = "，"
	}

	switch {
	case recipient != "" && phone != "":
		fmt.Fprintf(&b, "%s%s：%s", sep, recipient, phone)
	case recipient != "":
		fmt.Fprintf(&b, "%s收件人：%s", sep, recipient)
	case phone != "":
		fmt.Fprintf(&b, "%s电话：%s", sep, phone)
	}

	end := "。"
	if address == "" && recipient == "" && phone == "" {
		end = " "
	}
	fmt.Fprintf(&b, "%s（%s）", end, QuantityToken(e.Quantities))
	if remark != "" {
		fmt.Fprintf(&b, " 备注：%s", remark)
	}
	return strings.TrimSpace(b.String())
}

// RenderManifest renders entries one per line, renumbered from 1.
func RenderManifest(entries []domain.ManifestEntry) string {
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, RenderEntry(e, i+1))
	}
	return strings.Join(lines, "\n")
}

// SummaryLine renders statistics as the export summary line.
func SummaryLine(s domain.Statistics) string {
	return fmt.Sprintf(summaryPrefix+"%d桔 %d贡 %d混 / %d单", s.SumJu, s.SumGong, s.SumMixed, s.Count)
}

// RenderExport renders a complete roll-call for sharing: a "#" title line,
// the summary line and the renumbered entries. Blocks skips both header
// lines, so the export parses back into the same number of entries.
func RenderExport(title string, entries []domain.ManifestEntry) string {
	lines := []string{
		fmt.Sprintf("# %s 接龙", strings.TrimSpace(title)),
		SummaryLine(Aggregate(entries)),
	}
	if body := RenderManifest(entries); body != "" {
		lines = append(lines, body)
	}
	return strings.Join(lines, "\n")
}
