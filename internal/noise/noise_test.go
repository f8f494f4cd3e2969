// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-archive/pkg/types"
)

const longBody = "Body text that is definitely long enough to survive filtering checks here."

func newLayout(t *testing.T) *Classifier {
	t.Helper()
	c, err := ForVariant(types.VariantLayout, types.NoiseConfig{})
	require.NoError(t, err)
	return c
}

func TestClassify_Headline(t *testing.T) {
	c := newLayout(t)

	tests := []struct {
		name     string
		headline string
		wantTag  string
	}{
		{name: "weekday header", headline: "Monday", wantTag: "weekday"},
		{name: "saturday upper", headline: "SATURDAY", wantTag: "weekday"},
		{name: "edition token", headline: "EDITION", wantTag: "edition"},
		{name: "bare page", headline: "PAGE", wantTag: "page"},
		{name: "numbered page", headline: "Page 12", wantTag: "page"},
		{name: "news section", headline: "news", wantTag: "section"},
		{name: "international section", headline: "INTERNATIONAL", wantTag: "section"},
		{name: "hindu bureau byline", headline: "The Hindu Bureau", wantTag: "wire"},
		{name: "pti byline", headline: "PRESS TRUST OF INDIA", wantTag: "wire"},
		{name: "all caps bureau", headline: "CHENNAI BUREAU", wantTag: "bureau"},
		{name: "url", headline: "www.thehindu.com/news", wantTag: "url"},
		{name: "follow us", headline: "Follow Us", wantTag: "social"},
		{name: "volume marker", headline: "Vol. 148 No. 165", wantTag: "volume"},
		{name: "issue marker", headline: "No. 27", wantTag: "volume"},
		{name: "bare number", headline: "5", wantTag: "numeric"},
		{name: "long number", headline: "2025", wantTag: "numeric"},
		{name: "punctuation only", headline: "* * *", wantTag: "symbols"},
		{name: "arrow marker", headline: "»", wantTag: "symbols"},
		{name: "city dateline", headline: "CHENNAI", wantTag: "dateline"},
		{name: "two word dateline", headline: "Deir al-Balah", wantTag: "dateline"},
		{name: "real headline", headline: "MONSOON ARRIVES EARLY IN KERALA", wantTag: ""},
		{name: "dateline prefix is not a dateline", headline: "CHENNAI METRO EXPANDS", wantTag: ""},
		{name: "mixed case bureau is kept", headline: "Tax bureau", wantTag: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify([]string{tt.headline, longBody})
			assert.Equal(t, tt.wantTag, got)
		})
	}
}

func TestClassify_EmptyAndShort(t *testing.T) {
	c := newLayout(t)

	assert.Equal(t, TagEmpty, c.Classify(nil))
	assert.Equal(t, TagEmpty, c.Classify([]string{"", "   ", "\t"}))
	assert.Equal(t, TagShort, c.Classify([]string{"IGNORED CITY LINE"}))

	// Exactly 40 characters survives; 39 does not.
	forty := "ABCDEFGHIJ abcdefghij ABCDEFGHIJ abcdefg"
	require.Len(t, forty, 40)
	assert.Equal(t, "", c.Classify([]string{forty}))
	assert.Equal(t, TagShort, c.Classify([]string{forty[:39]}))

	// Lines are joined with single spaces before measuring.
	assert.Equal(t, "", c.Classify([]string{"  TWENTY CHARS HEADLINE  ", "twenty chars of body"}))
}

func TestClassify_BlankLeadingLinesIgnored(t *testing.T) {
	c := newLayout(t)
	assert.Equal(t, "page", c.Classify([]string{"", "  PAGE 3  ", longBody}))
}

func TestClassify_StructuredBodyRules(t *testing.T) {
	layout := newLayout(t)
	structured, err := ForVariant(types.VariantStructured, types.NoiseConfig{})
	require.NoError(t, err)

	tests := []struct {
		name    string
		lines   []string
		wantTag string
	}{
		{
			name:    "quiz answers",
			lines:   []string{"WEEKEND BRAIN TEASER", "Answers on page 14 for every question asked this week."},
			wantTag: "quiz",
		},
		{
			name:    "match the following",
			lines:   []string{"GEOGRAPHY CORNER", "match the following rivers with the states they flow through."},
			wantTag: "quiz",
		},
		{
			name:    "printer imprint",
			lines:   []string{"PUBLISHED BY THE GROUP", "Printed at the press in Chennai and published by the owners."},
			wantTag: "print",
		},
		{
			name:    "city edition strap",
			lines:   []string{"FRONT PAGE STRAP LINE", "This is the city edition of the paper, distributed early."},
			wantTag: "print",
		},
		{
			name:    "ordinary article",
			lines:   []string{"COUNCIL APPROVES BUDGET", "The municipal council approved the annual budget on Tuesday."},
			wantTag: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTag, structured.Classify(tt.lines))
			assert.Equal(t, "", layout.Classify(tt.lines), "layout variant has no body rules")
		})
	}
}

func TestNew_Options(t *testing.T) {
	c, err := New(
		WithDatelines([]string{"Thiruvananthapuram"}),
		WithExtraPatterns([]string{`^cartoon$`}),
		WithMinLength(0),
	)
	require.NoError(t, err)

	assert.Equal(t, "dateline", c.Classify([]string{"THIRUVANANTHAPURAM"}))
	assert.Equal(t, "", c.Classify([]string{"Chennai", longBody}), "replaced dateline list")
	assert.Equal(t, "extra-1", c.Classify([]string{"Cartoon"}))
	assert.Equal(t, "", c.Classify([]string{"short"}), "length check disabled")
}

func TestNew_BadPattern(t *testing.T) {
	_, err := New(WithExtraPatterns([]string{`(unclosed`}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extra-1")
}

func TestIsNoise(t *testing.T) {
	c := newLayout(t)

	assert.True(t, c.IsNoise("PAGE\n5"))
	assert.True(t, c.IsNoise("CHENNAI"))
	assert.True(t, c.IsNoise(""))
	assert.False(t, c.IsNoise("HEADLINE ONE\n"+longBody))

	// Pure: repeated calls agree.
	for i := 0; i < 3; i++ {
		assert.False(t, c.IsNoise("HEADLINE ONE\n"+longBody))
	}
}
