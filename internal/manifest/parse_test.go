package manifest

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"express-ledger-service/internal/domain"
)

func TestParseLineWellFormedEntry(t *testing.T) {
	e := ParseLine("1. 张三 广东省广州市天河区XX路1号，13888881234（2桔1贡）小李")

	assert.Equal(t, "张三", e.Recorder)
	assert.Equal(t, "13888881234", e.Phone)
	assert.Equal(t, 2, e.Ju)
	assert.Equal(t, 1, e.Gong)
	assert.Equal(t, 0, e.Mixed)
	assert.Contains(t, e.Remark, "小李")
	assert.Equal(t, "广东省广州市天河区XX路1号", e.Address)
	assert.NotContains(t, e.Address, "13888881234")
	assert.NotContains(t, e.Address, "张三")
	assert.Equal(t, "1. 张三 广东省广州市天河区XX路1号，13888881234（2桔1贡）小李", e.OriginalText)
}

func TestSplitAndParseSkipsTitleLines(t *testing.T) {
	entries := SplitAndParse("1.6\n#接龙\n1. 王芳 18900001111 浙江省杭州市西湖区文三路100号（1桔）")

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "王芳", e.Recorder)
	assert.Equal(t, "18900001111", e.Phone)
	assert.Equal(t, 1, e.Ju)
	assert.Equal(t, "浙江省杭州市西湖区文三路100号", e.Address)
	assert.Equal(t, int64(0), e.Order)
}

func TestSplitAndParseMultiLineEntry(t *testing.T) {
	content := `#1月11日接龙
1. 张三 收件人：李四
电话：13800001111
地址：广东省广州市天河区体育西路1号（2桔）
2. 王五 浙江省杭州市西湖区文三路100号，赵六：13900002222（1贡1混）阿明`

	entries := SplitAndParse(content)

	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "张三", first.Recorder)
	assert.Equal(t, "李四", first.Recipient)
	assert.Equal(t, "13800001111", first.Phone)
	assert.Equal(t, "广东省广州市天河区体育西路1号", first.Address)
	assert.Equal(t, domain.Quantities{Ju: 2}, first.Quantities)
	assert.Equal(t, int64(0), first.Order)

	second := entries[1]
	assert.Equal(t, "王五", second.Recorder)
	assert.Equal(t, "赵六", second.Recipient)
	assert.Equal(t, "13900002222", second.Phone)
	assert.Equal(t, "浙江省杭州市西湖区文三路100号", second.Address)
	assert.Equal(t, domain.Quantities{Gong: 1, Mixed: 1}, second.Quantities)
	assert.Equal(t, "阿明", second.Remark)
	assert.Equal(t, int64(1), second.Order)
}

func TestSplitAndParseNeverDropsNumberedBlocks(t *testing.T) {
	content := "1. ？？？\n2. 随便写点什么\n3. （1桔）\n4. 13800001111"

	entries := SplitAndParse(content)

	markers := regexp.MustCompile(`(?m)^\d+\.\s*\S`).FindAllString(content, -1)
	assert.GreaterOrEqual(t, len(entries), len(markers))
	for i, e := range entries {
		assert.Equal(t, int64(i), e.Order)
		assert.NotEmpty(t, e.Recorder)
	}
}

func TestParseLineOnlyBracket(t *testing.T) {
	e := ParseLine("（3桔2贡）")

	assert.Equal(t, domain.UnknownRecorder, e.Recorder)
	assert.Empty(t, e.Address)
	assert.Empty(t, e.Recipient)
	assert.Empty(t, e.Phone)
	assert.Equal(t, domain.Quantities{Ju: 3, Gong: 2}, e.Quantities)
}

func TestParseIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"\n\n\n",
		"（",
		"）（",
		"1.",
		"1. ",
		"１．全角",
		"((((((((",
		"收件人：",
		"收件地址：",
		"13800001111",
		"张三 13800001111 13900002222",
		strings.Repeat("很长的地址", 5000),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			e := ParseLine(in)
			assert.NotEmpty(t, e.Recorder, in)
			assert.GreaterOrEqual(t, e.Ju, 0)
			SplitAndParse(in)
		}, in)
	}

	assert.NotNil(t, SplitAndParse(""))
	assert.Empty(t, SplitAndParse(""))
}

func TestParseLineTruncatesHugeBlocks(t *testing.T) {
	e := ParseLine("张三 " + strings.Repeat("广", MaxBlockRunes*2) + "（1桔）")

	assert.LessOrEqual(t, runeLen(e.Address), MaxBlockRunes)
	assert.Equal(t, 0, e.Ju, "the bracket lies beyond the truncation point")
}

func TestParseLineNumericFirstTokenIsNotRecorder(t *testing.T) {
	e := ParseLine("13800001111 广东省广州市天河区体育西路1号（1桔）")

	assert.Equal(t, domain.UnknownRecorder, e.Recorder)
	assert.Equal(t, "13800001111", e.Phone)
	assert.Equal(t, "广东省广州市天河区体育西路1号", e.Address)
}

func TestParseLineStrayLeadingNames(t *testing.T) {
	cases := []struct {
		line    string
		address string
		remark  string
	}{
		{"阿芳 Sunny 1、广东省广州市天河区体育西路1号（1桔）", "广东省广州市天河区体育西路1号", "Sunny"},
		{"阿芳 恒昌    广东省广州市天河区体育西路1号（1桔）", "广东省广州市天河区体育西路1号", "恒昌"},
		{"阿芳 Sunny，广东省广州市天河区体育西路1号（1桔）", "广东省广州市天河区体育西路1号", "Sunny"},
	}
	for _, tc := range cases {
		e := ParseLine(tc.line)
		assert.Equal(t, tc.address, e.Address, tc.line)
		assert.Equal(t, tc.remark, e.Remark, tc.line)
		assert.Equal(t, "阿芳", e.Recorder, tc.line)
	}
}

func TestParseLineRemovesRecorderFromAddress(t *testing.T) {
	e := ParseLine("小周 广东省广州市小周路8号 13800001111（1桔）")

	assert.Equal(t, "小周", e.Recorder)
	assert.Equal(t, "广东省广州市路8号", e.Address)
}

func TestCleanAddressIsIdempotent(t *testing.T) {
	cases := []struct{ address, recorder string }{
		{"张三 李四 广东省广州市天河区体育西路1号", "王五"},
		{"，、 广东省  广州市\t天河区", ""},
		{"Sunny 1、恒昌 2、广东省广州市", "未知"},
		{"王五广东省王五广州市", "王五"},
		{"", ""},
	}
	for _, tc := range cases {
		once, _ := CleanAddress(tc.address, tc.recorder)
		twice, removed := CleanAddress(once, tc.recorder)
		assert.Equal(t, once, twice, tc.address)
		assert.Empty(t, removed, tc.address)
	}
}

func TestRoundTrip(t *testing.T) {
	lines := []string{
		"1. 张三 广东省广州市天河区XX路1号，13888881234（2桔1贡）小李",
		"2. 王芳 18900001111 浙江省杭州市西湖区文三路100号（1桔）",
		"3. 王五 浙江省杭州市西湖区文三路100号，赵六：13900002222（1贡1混）阿明",
		"4. 陈七 收件人：李四，广东省深圳市南山区科技园（3混）",
		"5. 陈七 李四 13700003333（2桔）",
		"6. （1贡）",
		"7. 孙八 13800001111 深圳市南山区 13900002222（1桔）",
		"8. 孙八 13800001111 深圳市南山区 备用电话：13900002222（1桔） 备注：周末送",
	}
	for _, line := range lines {
		first := ParseLine(line)
		rendered := RenderManifest([]domain.ManifestEntry{first})
		second := ParseLine(rendered)

		assert.Equal(t, first.Recorder, second.Recorder, rendered)
		assert.Equal(t, first.Quantities, second.Quantities, rendered)
		assert.Equal(t, first.Phone, second.Phone, rendered)
		assert.Equal(t, first.Recipient, second.Recipient, rendered)
		assert.Equal(t, first.Address, second.Address, rendered)
		assert.Equal(t, first.Remark, second.Remark, rendered)
	}
}

func TestParseLineKeepsOnlyFirstPhone(t *testing.T) {
	e := ParseLine("1. 孙八 13800001111 深圳市南山区 13900002222（1桔）")

	assert.Equal(t, "13800001111", e.Phone)
	assert.Equal(t, "深圳市南山区", e.Address)
	assert.Equal(t, "13900002222", e.Remark)
}

func TestRenderedEntryRoundTrip(t *testing.T) {
	entries := []domain.ManifestEntry{
		{Recorder: "周九", Address: "深圳市南山区，科技园1号", Recipient: "吴十", Phone: "13700003333", Quantities: domain.Quantities{Gong: 2}},
		{Recorder: "周九", Address: "深圳市南山区", Phone: "13700003333", Remark: "13900002222 周末送", Quantities: domain.Quantities{Mixed: 1}},
	}
	for _, want := range entries {
		line := RenderEntry(want, 1)
		got := ParseLine(line)

		assert.Equal(t, want.Phone, got.Phone, line)
		assert.Equal(t, want.Quantities, got.Quantities, line)
		assert.Equal(t, want.Remark, got.Remark, line)
		assert.NotContains(t, got.Address, "13", line)
		assert.False(t, strings.HasSuffix(got.Address, "，"), "address %q keeps a trailing separator", got.Address)
	}
}

func TestExportParsesBackToSameEntries(t *testing.T) {
	entries := SplitAndParse("1. 张三 广东省广州市天河区体育西路1号 13800001111（2桔）\n2. 李四 浙江省杭州市西湖区 13900002222（1贡）")

	export := RenderExport("1月2日 星期五", entries)
	again := SplitAndParse(export)

	require.Len(t, again, len(entries))
	assert.Equal(t, Aggregate(entries), Aggregate(again))
}

func ExampleParseLine() {
	e := ParseLine("1. 张三 广东省广州市天河区体育西路1号，李四：13800001111（2桔1贡）小王")
	fmt.Println(e.Recorder, e.Recipient, e.Phone, e.Ju, e.Gong, e.Remark)
	fmt.Println(e.Address)
	// Output:
	// 张三 李四 13800001111 2 1 小王
	// 广东省广州市天河区体育西路1号
}
