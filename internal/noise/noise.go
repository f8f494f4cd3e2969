// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package noise decides whether an article candidate is page furniture,
// a caption fragment, or roundup boilerplate rather than a real article.
//
// The decision is table driven. First-line rules match the candidate's
// headline; body rules match the whole candidate joined by spaces.
package noise

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/news-archive/pkg/types"
)

// MinArticleLength is the joined length below which a candidate is treated
// as a caption or fragment.
const MinArticleLength = 40

// Tags reported by Classify for the checks that are not table rules.
const (
	TagEmpty = "empty"
	TagShort = "short"
)

// Rule is one entry of a pattern table. Expr is an RE2 expression; it is
// matched as written, so case-insensitive rules carry their own (?i) flag.
type Rule struct {
	Tag  string
	Expr string
}

// DefaultDatelines are the city datelines that appear alone on a line as
// page furniture.
var DefaultDatelines = []string{
	"Chennai", "Bengaluru", "Hyderabad", "Kolkata", "Mumbai",
	"NEW DELHI", "PATNA", "VIJAYAWADA", "KATHMANDU", "SWEIDA", "DEIR AL-BALAH",
}

// HeadlineRules is the ordered first-line table, without datelines.
var HeadlineRules = []Rule{
	{Tag: "weekday", Expr: `(?i)^(?:MONDAY|TUESDAY|WEDNESDAY|THURSDAY|FRIDAY|SATURDAY|SUNDAY)$`},
	{Tag: "edition", Expr: `(?i)^EDITION$`},
	{Tag: "page", Expr: `(?i)^PAGE(?: \d+)?$`},
	{Tag: "section", Expr: `(?i)^(?:NEWS|INTERNATIONAL)$`},
	{Tag: "wire", Expr: `(?i)^(?:The Hindu Bureau|Press Trust of India)$`},
	{Tag: "bureau", Expr: `^[A-Z ]+ BUREAU$`},
	{Tag: "url", Expr: `(?i)^www\.`},
	{Tag: "social", Expr: `(?i)^FOLLOW US$`},
	{Tag: "volume", Expr: `(?i)^(?:Vol|No)\. `},
	{Tag: "numeric", Expr: `^\d+$`},
	{Tag: "symbols", Expr: `^[^\p{L}\p{N}_]*$`},
	{Tag: "marker", Expr: `^»$`},
}

// StructuredBodyRules are the whole-text rules applied to candidates from
// the structured extractor.
var StructuredBodyRules = []Rule{
	{Tag: "quiz", Expr: `(?i)(?:Answers on page|Which city|Match the following|quiz)`},
	{Tag: "print", Expr: `(?i)(?:CITY EDITION|Printed at|Vol\.|No\.)`},
}

// DatelineRule builds the first-line rule for a list of city datelines.
func DatelineRule(cities []string) Rule {
	quoted := make([]string, len(cities))
	for i, c := range cities {
		quoted[i] = regexp.QuoteMeta(c)
	}
	return Rule{Tag: "dateline", Expr: `(?i)^(?:` + strings.Join(quoted, "|") + `)$`}
}

type compiledRule struct {
	tag string
	re  *regexp.Regexp
}

// Classifier applies compiled rule tables to article candidates. It holds
// no mutable state and is safe to share.
type Classifier struct {
	headline  []compiledRule
	body      []compiledRule
	minLength int
}

// Option configures a Classifier.
type Option func(*config)

type config struct {
	datelines []string
	extra     []string
	body      []Rule
	minLength int
}

// WithDatelines replaces the built-in city dateline list.
func WithDatelines(cities []string) Option {
	return func(c *config) {
		if len(cities) > 0 {
			c.datelines = cities
		}
	}
}

// WithExtraPatterns appends case-insensitive first-line patterns.
func WithExtraPatterns(exprs []string) Option {
	return func(c *config) { c.extra = append(c.extra, exprs...) }
}

// WithBodyRules appends whole-text rules.
func WithBodyRules(rules []Rule) Option {
	return func(c *config) { c.body = append(c.body, rules...) }
}

// WithMinLength overrides MinArticleLength. Zero disables the check.
func WithMinLength(n int) Option {
	return func(c *config) { c.minLength = n }
}

// New compiles a Classifier from the default tables and the given options.
func New(opts ...Option) (*Classifier, error) {
	cfg := config{datelines: DefaultDatelines, minLength: MinArticleLength}
	for _, o := range opts {
		o(&cfg)
	}

	rules := make([]Rule, 0, len(HeadlineRules)+1+len(cfg.extra))
	rules = append(rules, HeadlineRules...)
	rules = append(rules, DatelineRule(cfg.datelines))
	for i, e := range cfg.extra {
		rules = append(rules, Rule{Tag: fmt.Sprintf("extra-%d", i+1), Expr: "(?i)" + e})
	}

	headline, err := compile(rules)
	if err != nil {
		return nil, err
	}
	body, err := compile(cfg.body)
	if err != nil {
		return nil, err
	}
	return &Classifier{headline: headline, body: body, minLength: cfg.minLength}, nil
}

// ForVariant builds the classifier for an extraction variant. The structured
// variant adds the quiz and print boilerplate body rules.
func ForVariant(v types.Variant, nc types.NoiseConfig) (*Classifier, error) {
	opts := []Option{WithDatelines(nc.Datelines), WithExtraPatterns(nc.ExtraPatterns)}
	if v == types.VariantStructured {
		opts = append(opts, WithBodyRules(StructuredBodyRules))
	}
	return New(opts...)
}

func compile(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Expr)
		if err != nil {
			return nil, fmt.Errorf("compiling noise rule %s: %w", r.Tag, err)
		}
		out[i] = compiledRule{tag: r.Tag, re: re}
	}
	return out, nil
}

// Classify returns the tag of the first rule that marks lines as noise, or
// "" when the candidate is a real article. Lines are trimmed and blank lines
// ignored before any rule runs.
func (c *Classifier) Classify(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return TagEmpty
	}

	for _, r := range c.headline {
		if r.re.MatchString(kept[0]) {
			return r.tag
		}
	}

	text := strings.Join(kept, " ")
	if utf8.RuneCountInString(text) < c.minLength {
		return TagShort
	}
	for _, r := range c.body {
		if r.re.MatchString(text) {
			return r.tag
		}
	}
	return ""
}

// IsNoise reports whether the article text (newline separated) should be
// discarded.
func (c *Classifier) IsNoise(text string) bool {
	return c.Classify(strings.Split(text, "\n")) != ""
}
