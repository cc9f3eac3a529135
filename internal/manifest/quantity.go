package manifest

import (
	"regexp"
	"strconv"
	"strings"

	"express-ledger-service/internal/domain"
)

var (
	tailName = regexp.MustCompile(`^\s*([^\s\p{P}\d` + addressGlyphs + `]{2,6})\s*$`)
	// tailRemarkLabel is the label the formatter writes before a remark.
	tailRemarkLabel = regexp.MustCompile(`^备注[：:]\s*`)
)

const maxTailRemarkRunes = 30

// quantityToken is the result of stripping the count bracket from a block.
type quantityToken struct {
	// Text is the content of the chosen bracket, without the brackets.
	Text string
	// NameRemark is a short name written right after the bracket.
	NameRemark string
	// TextRemark is a short free-text note written after the bracket.
	TextRemark string
	// Residual is the input with the bracket and any remark removed.
	Residual string
}

// extractQuantity locates the bracketed group that most likely encodes the
// counts. The last group containing a digit or category glyph wins; failing
// that the last group of any kind; failing that there is no token and the
// text is returned unchanged.
//
// An earlier quantity bracket followed by an unrelated aside in brackets
// still picks the earlier one, but an aside that itself contains a digit
// is chosen over it.
func extractQuantity(text string) quantityToken {
	groups := bracketPattern.FindAllStringSubmatchIndex(text, -1)
	if len(groups) == 0 {
		return quantityToken{Residual: text}
	}

	chosen := groups[len(groups)-1]
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if quantityBearing.MatchString(text[g[2]:g[3]]) {
			chosen = g
			break
		}
	}

	tok := quantityToken{Text: strings.TrimSpace(text[chosen[2]:chosen[3]])}
	start, end := chosen[0], chosen[1]

	removeEnd := end
	if name, note, ok := extractTailRemark(text[end:]); ok {
		tok.NameRemark, tok.TextRemark = name, note
		removeEnd = len(text)
	}

	tok.Residual = strings.TrimSpace(text[:start] + text[removeEnd:])
	return tok
}

// extractTailRemark classifies the text following the count bracket.
// A lone 2-6 rune name is a name remark. A single line starting with the
// "备注：" label is a free-text remark whatever it holds. Otherwise a short
// note without a phone number or address glyph is a free-text remark. Anything else is
// left for address extraction and ok is false.
func extractTailRemark(after string) (name, note string, ok bool) {
	if m := tailName.FindStringSubmatch(after); m != nil {
		return strings.TrimSpace(m[1]), "", true
	}

	candidate := strings.TrimSpace(after)
	if labelled := leadingSeparators.ReplaceAllString(candidate, ""); tailRemarkLabel.MatchString(labelled) && !strings.Contains(labelled, "\n") {
		return "", strings.TrimSpace(tailRemarkLabel.ReplaceAllString(labelled, "")), true
	}
	if candidate == "" || runeLen(candidate) > maxTailRemarkRunes {
		return "", "", false
	}
	if phonePattern.MatchString(candidate) || hasAddressGlyph(candidate) {
		return "", "", false
	}

	note = leadingSeparators.ReplaceAllString(candidate, "")
	note = tailRemarkLabel.ReplaceAllString(note, "")
	return "", strings.TrimSpace(note), true
}

// ParseQuantity reads per-category counts from a quantity token such as
// "2桔", "1贡1桔" or "3 桔 2 贡". Categories are independent; a category
// absent from the token counts zero.
func ParseQuantity(token string) domain.Quantities {
	var q domain.Quantities
	if token == "" {
		return q
	}
	for _, c := range domain.Categories {
		m := categoryPatterns[c].FindStringSubmatch(token)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		q.Set(c, n)
	}
	return q
}
