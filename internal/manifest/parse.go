package manifest

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"express-ledger-service/internal/domain"
)

// leadingNameRules strip a stray name in front of an address, as in
// "Sunny 1、广东省…", "恒昌    广东省…" or "Sunny，广东省…". The first rule that
// matches is applied.
var leadingNameRules = []*regexp.Regexp{
	regexp.MustCompile(`^([^\d` + addressGlyphs + `]{2,6})\s*\d+[、.]\s*`),
	regexp.MustCompile(`^([^\d` + addressGlyphs + `]{2,6})\s+`),
	regexp.MustCompile(`^([^\d` + addressGlyphs + `]{2,6})[，,]\s*`),
}

const maxLeadingNameRunes = 6

// CleanAddress removes the recorder name and stray leading names from an
// address, collapses whitespace and strips leading separators. It returns
// the cleaned address and the names it removed, in order.
//
// The steps are repeated until the address stops changing, so cleaning an
// already cleaned address is a no-op.
func CleanAddress(address, recorder string) (string, []string) {
	var removed []string
	for {
		next, name := cleanAddressOnce(address, recorder)
		if name != "" {
			removed = append(removed, name)
		}
		if next == address {
			return next, removed
		}
		address = next
	}
}

func cleanAddressOnce(address, recorder string) (string, string) {
	s := address
	if recorder != "" && recorder != domain.UnknownRecorder {
		s = strings.ReplaceAll(s, recorder, "")
	}
	s = strings.TrimSpace(s)

	var removed string
	for _, rule := range leadingNameRules {
		m := rule.FindStringSubmatchIndex(s)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(s[m[2]:m[3]])
		if hasAddressGlyph(name) || runeLen(name) > maxLeadingNameRunes {
			continue
		}
		removed = trimSeparators(name)
		s = strings.TrimSpace(s[m[1]:])
		break
	}

	s = whitespaceRun.ReplaceAllString(s, " ")
	s = leadingSeparators.ReplaceAllString(s, "")
	return strings.TrimSpace(s), removed
}

// takeRecorder splits the first whitespace-delimited token off the first line
// when it is not purely numeric.
func takeRecorder(lines []string) (string, []string) {
	if len(lines) == 0 {
		return "", lines
	}
	first := lines[0]
	i := strings.IndexFunc(first, unicode.IsSpace)
	if i <= 0 || isDigits(first[:i]) {
		return "", lines
	}

	rest := slices.Clone(lines)
	rest[0] = strings.TrimSpace(first[i:])
	return first[:i], rest
}

// parseBlock runs the extraction pipeline over the text of one entry.
func parseBlock(body, original string) domain.ManifestEntry {
	lines := contentLines(truncateRunes(body, MaxBlockRunes))
	recorder, lines := takeRecorder(lines)

	tok := extractQuantity(strings.Join(lines, "\n"))
	f := extractFields(tok.Residual, recorder)

	return assemble(original, tok, f)
}

// assemble applies the address post-pass and builds the final entry.
//
// Name-like tokens that end up in no field (a second name after the phone,
// names stripped from the front of the address) are kept in the remark after
// the tail remark, so nothing typed by the sender is silently lost.
func assemble(original string, tok quantityToken, f fields) domain.ManifestEntry {
	address, stripped := CleanAddress(f.Address, f.Recorder)

	recorder := f.Recorder
	if recorder == "" {
		recorder = domain.UnknownRecorder
	}

	notes := []string{tok.NameRemark, tok.TextRemark}
	for _, name := range append(f.Leftovers, stripped...) {
		if name == recorder || name == f.Recipient || slices.Contains(notes, name) {
			continue
		}
		notes = append(notes, name)
	}

	return domain.ManifestEntry{
		Recorder:     recorder,
		Recipient:    f.Recipient,
		Phone:        f.Phone,
		Address:      address,
		Quantities:   ParseQuantity(tok.Text),
		Remark:       joinNonEmpty(" ", notes...),
		OriginalText: original,
	}
}

// ParseLine parses a single entry, typically typed into a quick-entry form.
// A leading "<digits>." marker is ignored. It always returns an entry; for
// input without any usable signal every field is empty and the recorder is
// domain.UnknownRecorder.
func ParseLine(line string) domain.ManifestEntry {
	body := entryOrdinal.ReplaceAllString(strings.TrimSpace(line), "")
	return parseBlock(body, line)
}

// ParseBlock parses one block produced by Blocks and stamps its order.
func ParseBlock(b Block) domain.ManifestEntry {
	e := parseBlock(b.Text, b.Text)
	e.Order = int64(b.Order)
	return e
}

// SplitAndParse parses a pasted roll-call into entries with sequential
// orders starting at zero. Numbered blocks are never dropped; empty input
// yields an empty, non-nil slice.
func SplitAndParse(content string) []domain.ManifestEntry {
	entries := []domain.ManifestEntry{}
	for b := range Blocks(content) {
		entries = append(entries, ParseBlock(b))
	}
	return entries
}
