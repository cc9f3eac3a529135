package domain

// UnknownRecorder is recorded when no recorder could be extracted from an entry.
const UnknownRecorder = "未知"

// Category is one of the countable parcel kinds a manifest entry can declare.
// Each category is identified in free text by a dedicated unit glyph.
type Category int

const (
	CategoryJu Category = iota
	CategoryGong
	CategoryMixed
)

// Categories lists every category in canonical order.
// Parsing and formatting both iterate this slice.
var Categories = []Category{CategoryJu, CategoryGong, CategoryMixed}

// Glyph returns the canonical unit glyph written after a count.
func (c Category) Glyph() string {
	switch c {
	case CategoryJu:
		return "桔"
	case CategoryGong:
		return "贡"
	case CategoryMixed:
		return "混"
	}
	return ""
}

// Glyphs returns every glyph accepted for the category when parsing.
func (c Category) Glyphs() string {
	if c == CategoryJu {
		return "桔橘"
	}
	return c.Glyph()
}

func (c Category) String() string {
	switch c {
	case CategoryJu:
		return "ju"
	case CategoryGong:
		return "gong"
	case CategoryMixed:
		return "mixed"
	}
	return "unknown"
}

// Quantities holds per-category counts. Counts are never negative.
type Quantities struct {
	Ju    int
	Gong  int
	Mixed int
}

func (q Quantities) Of(c Category) int {
	switch c {
	case CategoryJu:
		return q.Ju
	case CategoryGong:
		return q.Gong
	case CategoryMixed:
		return q.Mixed
	}
	return 0
}

// Set stores n for category c, clamping negative values to zero.
func (q *Quantities) Set(c Category, n int) {
	if n < 0 {
		n = 0
	}
	switch c {
	case CategoryJu:
		q.Ju = n
	case CategoryGong:
		q.Gong = n
	case CategoryMixed:
		q.Mixed = n
	}
}

func (q Quantities) Total() int { return q.Ju + q.Gong + q.Mixed }

func (q Quantities) IsZero() bool { return q.Total() == 0 }

// Represents one structured shipment request extracted from roll-call text.
// Entries are built fresh by every parse and are not mutated afterwards;
// the caller owns persistence.
type ManifestEntry struct {
	Recorder  string
	Recipient string
	Phone     string
	Address   string
	Quantities
	Remark string
	// Order is the display sort key assigned by the caller.
	Order        int64
	OriginalText string
}

// Statistics is the reduction of a list of entries.
type Statistics struct {
	SumJu    int
	SumGong  int
	SumMixed int
	Count    int
	SumAll   int
}

// Add combines two aggregates. Aggregating a concatenation equals adding
// the aggregates of its parts.
func (s Statistics) Add(o Statistics) Statistics {
	return Statistics{
		SumJu:    s.SumJu + o.SumJu,
		SumGong:  s.SumGong + o.SumGong,
		SumMixed: s.SumMixed + o.SumMixed,
		Count:    s.Count + o.Count,
		SumAll:   s.SumAll + o.SumAll,
	}
}
