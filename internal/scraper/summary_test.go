package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText_AggregatorSnippet(t *testing.T) {
	in := `<a href="https://news.example.com/rss/articles/abc" target="_blank">Bitcoin rallies as  markets open</a>&nbsp;&nbsp;<font color="#6f6f6f">Reuters</font>`

	assert.Equal(t, "Bitcoin rallies as markets open Reuters", PlainText(in))
	assert.Equal(t, "Reuters", SourceName(in))
}

func TestPlainText_ClusterListKeepsOneLinePerStory(t *testing.T) {
	in := `<ol><li><a href="x">Fed holds rates</a>&nbsp;<font>AP</font></li><li><a href="y">Stocks edge up</a>&nbsp;<font>CNBC</font></li></ol>`

	assert.Equal(t, "Fed holds rates AP\nStocks edge up CNBC", PlainText(in))
	assert.Equal(t, "CNBC", SourceName(in))
}

func TestPlainText_PlainInput(t *testing.T) {
	assert.Equal(t, "just text here", PlainText("  just   text\nhere "))
	assert.Equal(t, "", PlainText("   "))
	assert.Equal(t, "", SourceName("no markup"))
}

func TestPlainText_LongInputIsCut(t *testing.T) {
	sentence := "This sentence is part of a very long summary. "
	in := strings.Repeat(sentence, 100)

	out := PlainText(in)
	assert.LessOrEqual(t, len([]rune(out)), maxSummaryRunes+3)
	assert.True(t, strings.HasSuffix(out, "."), "expected cut at sentence end, got %q", out[len(out)-20:])
}
