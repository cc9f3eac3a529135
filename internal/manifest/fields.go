package manifest

import (
	"regexp"
	"strings"
)

var (
	recipientMarker     = regexp.MustCompile(`收件人[：:]\s*([^，,：:\n]+)`)
	recipientLineMarker = regexp.MustCompile(`收件人[：:]\s*([^，,。\n]+)`)
	deliveryAddress     = regexp.MustCompile(`(?s)收件地址[：:]\s*(.+)`)
	addressMarker       = regexp.MustCompile(`(?:收件)?地址[：:]\s*([^\n]+)`)
	addressLabelPrefix  = regexp.MustCompile(`^(?:收件地址|地址)[：:]\s*`)
	commaPair           = regexp.MustCompile(`(?s)^(.+?)[，,]\s*([^：:]+?)(?:[：:]|$)`)
	trailingName        = regexp.MustCompile(`([^\s\p{P}\d` + addressGlyphs + `]{2,4})$`)
	phoneLabel          = regexp.MustCompile(`(?:联系|备用)?(?:电话|手机号?)[：:]?\s*$`)
	shortHanName        = regexp.MustCompile(`^\p{Han}{1,3}$`)
	honorificPrefix     = regexp.MustCompile(`^(?:女士|先生|小姐|老师|老板|收件人[：:])`)
	courierBoilerplate  = regexp.MustCompile(`请选择[^\n]*快递`)
	nameBeforePhone     = regexp.MustCompile(`(?:^|[\s\p{P}])([^\s\p{P}\d` + addressGlyphs + `]{2,4})[\s\p{P}]*$`)
)

// minTrailingNameSpan is the span length above which a trailing short token
// is considered a name appended to an address.
const minTrailingNameSpan = 10

// fields is the FieldExtractor output for one residual text.
type fields struct {
	Recorder  string
	Recipient string
	Phone     string
	Address   string
	// Leftovers are name-like tokens that were dropped from every field.
	Leftovers []string
}

// spanRule splits a span into address and recipient. Rules are evaluated in
// order; the first one that reports ok decides the split.
type spanRule struct {
	name  string
	apply func(span string) (address, recipient string, ok bool)
}

var beforePhoneRules = []spanRule{
	{name: "recipient-marker", apply: splitRecipientMarker},
	{name: "comma-pair", apply: splitCommaPair},
	{name: "trailing-name", apply: splitTrailingName},
}

// splitRecipientMarker handles "收件人：NAME" anywhere in the span.
func splitRecipientMarker(span string) (string, string, bool) {
	m := recipientMarker.FindStringSubmatchIndex(span)
	if m == nil {
		return "", "", false
	}
	recipient := strings.TrimSpace(span[m[2]:m[3]])
	address := trimSeparators(span[:m[0]] + span[m[1]:])
	return address, recipient, recipient != ""
}

// splitCommaPair handles "ADDRESS，NAME" and "NAME，ADDRESS". The part with an
// address glyph is the address; when neither or both have one, the longer
// part is the address, with ties going to the second part. Both parts
// carrying a glyph means the comma separates address pieces and the rule
// does not apply.
func splitCommaPair(span string) (string, string, bool) {
	m := commaPair.FindStringSubmatch(span)
	if m == nil {
		return "", "", false
	}
	p1, p2 := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if p1 == "" || p2 == "" {
		return "", "", false
	}

	g1, g2 := hasAddressGlyph(p1), hasAddressGlyph(p2)
	switch {
	case g1 && g2:
		return "", "", false
	case g1:
		return p1, p2, true
	case g2:
		return p2, p1, true
	case runeLen(p1) > runeLen(p2):
		return p1, p2, true
	default:
		return p2, p1, true
	}
}

// splitTrailingName handles "ADDRESSNAME" where a 2-4 rune name directly
// follows a long address. The remaining address must carry an address glyph.
func splitTrailingName(span string) (string, string, bool) {
	if runeLen(span) <= minTrailingNameSpan {
		return "", "", false
	}
	m := trailingName.FindStringSubmatchIndex(span)
	if m == nil {
		return "", "", false
	}
	address := trimRightSeparators(strings.TrimSpace(span[:m[2]]))
	if !hasAddressGlyph(address) {
		return "", "", false
	}
	return address, span[m[2]:m[3]], true
}

// splitBeforePhone applies beforePhoneRules to the text preceding the phone.
func splitBeforePhone(span string) (address, recipient string) {
	span = strings.TrimSpace(ordinalPrefix.ReplaceAllString(strings.TrimSpace(span), ""))
	span = trimRightSeparators(span)
	if span == "" {
		return "", ""
	}

	address = span
	for _, r := range beforePhoneRules {
		if a, rcp, ok := r.apply(span); ok {
			address, recipient = a, rcp
			break
		}
	}

	if strings.Contains(address, "收件地址") {
		if m := deliveryAddress.FindStringSubmatch(address); m != nil {
			address = strings.TrimSpace(m[1])
		}
	}
	return address, recipient
}

// splitWithoutPhone treats the span as address text and pulls out explicit
// recipient and address markers when present.
func splitWithoutPhone(span string) (address, recipient string) {
	address = strings.TrimSpace(ordinalPrefix.ReplaceAllString(strings.TrimSpace(span), ""))

	if m := recipientLineMarker.FindStringSubmatchIndex(address); m != nil {
		recipient = strings.TrimSpace(address[m[2]:m[3]])
		address = strings.TrimSpace(address[:m[0]] + address[m[1]:])
	}
	if m := addressMarker.FindStringSubmatch(address); m != nil {
		address = m[1]
	}
	return trimSeparators(address), recipient
}

// extractFields pulls phone, recipient, address and possibly the recorder out
// of text whose quantity bracket and tail remark were already removed.
func extractFields(text, recorder string) fields {
	f := fields{Recorder: recorder}

	loc := phonePattern.FindStringIndex(text)
	if loc == nil {
		f.Address, f.Recipient = splitWithoutPhone(text)
		f.cleanup()
		return f
	}

	f.Phone = text[loc[0]:loc[1]]
	before := phoneLabel.ReplaceAllString(text[:loc[0]], "")

	tailAddress, tailRecipient := f.afterPhone(text[loc[1]:])
	f.Address, f.Recipient = splitBeforePhone(before)
	if f.Recipient == "" {
		f.Recipient = tailRecipient
	}
	f.Address = joinNonEmpty(" ", f.Address, tailAddress)
	f.moveExtraPhones()
	if f.Recipient == "" {
		if m := nameBeforePhone.FindStringSubmatch(before); m != nil {
			f.Recipient = m[1]
			if f.Address == f.Recipient {
				f.Address = ""
			}
		}
	}

	f.cleanup()
	return f
}

// afterPhone inspects the text following the phone number. A 1-3 character
// Han name becomes the recorder when none is known, and a leftover otherwise.
// Longer text continues the address.
func (f *fields) afterPhone(after string) (address, recipient string) {
	after = trimSeparators(bracketPattern.ReplaceAllString(after, ""))
	if after == "" {
		return "", ""
	}

	if shortHanName.MatchString(after) && !hasAddressGlyph(after) {
		switch {
		case f.Recorder == "":
			f.Recorder = after
		case f.Recorder != after:
			f.Leftovers = append(f.Leftovers, after)
		}
		return "", ""
	}
	return splitWithoutPhone(after)
}

// moveExtraPhones takes every phone number left in the address, with any
// label written before it, and keeps the number as a leftover. Only the first
// phone in an entry is the contact.
func (f *fields) moveExtraPhones() {
	for {
		loc := phonePattern.FindStringIndex(f.Address)
		if loc == nil {
			return
		}
		f.Leftovers = append(f.Leftovers, f.Address[loc[0]:loc[1]])
		before := trimRightSeparators(phoneLabel.ReplaceAllString(f.Address[:loc[0]], ""))
		f.Address = joinNonEmpty(" ", before, trimSeparators(f.Address[loc[1]:]))
	}
}

func (f *fields) cleanup() {
	f.Recipient = strings.TrimSpace(honorificPrefix.ReplaceAllString(strings.TrimSpace(f.Recipient), ""))
	f.Address = addressLabelPrefix.ReplaceAllString(strings.TrimSpace(f.Address), "")
	f.Address = strings.TrimSpace(courierBoilerplate.ReplaceAllString(f.Address, ""))
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
