package manifest

import (
	"iter"
	"regexp"
	"strings"
)

// Block is the raw text of one numbered manifest entry.
type Block struct {
	// Order is the 0-based position of the block in its document.
	Order int
	Text  string
}

var (
	blockStart     = regexp.MustCompile(`^\d+\.\s*(.+)`)
	bareNumberLine = regexp.MustCompile(`^\d+\.?\d*$`)
	dateLines      = []*regexp.Regexp{
		regexp.MustCompile(`^#?\d{1,2}月\d{1,2}日$`),
		regexp.MustCompile(`^#?\d{4}[年/.-]\d{1,2}[月/.-]?\d{1,2}日?$`),
	}
)

// summaryPrefix starts the summary line written by RenderExport.
const summaryPrefix = "汇总："

// isTitleLine reports lines that head a roll-call rather than belong to an
// entry: "#接龙", "1.6", "1月11日", "2025-01-11", and export summaries.
// A bare phone number is content: it continues a multi-line entry.
func isTitleLine(line string) bool {
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, summaryPrefix) {
		return true
	}
	if bareNumberLine.MatchString(line) {
		return !phonePattern.MatchString(line)
	}
	compact := whitespaceRun.ReplaceAllString(line, "")
	for _, p := range dateLines {
		if p.MatchString(compact) {
			return true
		}
	}
	return false
}

// contentLines returns the trimmed, non-empty lines of s.
func contentLines(s string) []string {
	raw := strings.Split(normalizeSpaces.Replace(s), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Blocks splits pasted roll-call text into one block per entry.
//
// A line starting with "<digits>." opens a new block; any other line is
// appended to the current one, so an entry may span several lines. Title
// lines are skipped. Lines before the first numbered line form a block of
// their own. The sequence is lazy and may be ranged over more than once.
func Blocks(content string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		var current []string
		order := 0

		flush := func() bool {
			if len(current) == 0 {
				return true
			}
			b := Block{Order: order, Text: strings.Join(current, "\n")}
			order++
			current = nil
			return yield(b)
		}

		for _, line := range contentLines(content) {
			if isTitleLine(line) {
				continue
			}
			if m := blockStart.FindStringSubmatch(line); m != nil {
				if !flush() {
					return
				}
				current = []string{m[1]}
				continue
			}
			current = append(current, line)
		}
		flush()
	}
}
