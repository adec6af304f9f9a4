package classify

import (
	"errors"
	"sort"
	"strings"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

// ErrUnclassified means no taxonomy rule matched. Not a failure: callers
// route such events to NOISE without scoring.
var ErrUnclassified = errors.New("classify: no taxonomy match")

const (
	minKeywordHits = 2
	confidenceDiv  = 5.0
)

// Classifier evaluates events against the taxonomy table. The table is
// compiled once at construction and read-only afterward.
type Classifier struct {
	rules      []rule
	rateParser *RateParser
	geo        geoRules
}

type rule struct {
	category   models.Category
	keywords   []string
	entities   []string
	baseImpact float64
	markets    []string
}

func New(tables *config.Tables) (*Classifier, error) {
	rp, err := NewRateParser(tables)
	if err != nil {
		return nil, err
	}
	c := &Classifier{rateParser: rp, geo: defaultGeoRules()}
	for _, t := range tables.Taxonomy {
		c.rules = append(c.rules, rule{
			category:   models.Category(t.Category),
			keywords:   lowered(t.Keywords),
			entities:   lowered(t.Entities),
			baseImpact: t.BaseImpact,
			markets:    t.Markets,
		})
	}
	return c, nil
}

// Classify assigns the primary category and retains ranked secondary matches.
// A rule matches with >=2 keyword hits, or 1 keyword hit plus an entity hit.
func (c *Classifier) Classify(e *models.NormalizedEvent) (*models.ClassifiedEvent, error) {
	text := strings.ToLower(e.Text)

	var matches []scoredMatch
	for i, r := range c.rules {
		kw := hits(text, r.keywords)
		ent := hits(text, r.entities)
		if len(kw) >= minKeywordHits || (len(kw) >= 1 && len(ent) >= 1) {
			conf := float64(len(kw)+len(ent)) / confidenceDiv
			if conf > 1 {
				conf = 1
			}
			matches = append(matches, scoredMatch{rule: i, conf: conf, keywords: kw, entities: ent})
		}
	}
	if len(matches) == 0 {
		return nil, ErrUnclassified
	}

	// Rank by confidence descending; table order breaks ties so results are
	// stable across runs.
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].conf > matches[j].conf })

	top := matches[0]
	primary := c.rules[top.rule]
	ce := &models.ClassifiedEvent{
		NormalizedEvent: *e,
		Category:        primary.category,
		Subtype:         firstOrEmpty(top.keywords),
		Confidence:      top.conf,
		BaseImpact:      primary.baseImpact,
		MarketsAffected: append([]string(nil), primary.markets...),
	}
	for _, m := range matches[1:] {
		r := c.rules[m.rule]
		ce.Secondary = append(ce.Secondary, models.CategoryMatch{
			Category:   r.category,
			Confidence: m.conf,
			Keywords:   m.keywords,
			Entities:   m.entities,
		})
	}

	switch ce.Category {
	case models.CategoryMonetaryPolicy:
		if rd := c.rateParser.Parse(text); rd != nil {
			ce.RateDecision = rd
			ce.Subtype = string(rd.Action)
		}
	case models.CategoryGeopolitical:
		c.geo.annotate(text, ce)
	case models.CategoryMacroData:
		if e.Indicator != "" {
			ce.Subtype = e.Indicator
		}
	}

	return ce, nil
}

type scoredMatch struct {
	rule     int
	conf     float64
	keywords []string
	entities []string
}

// geoRules splits geopolitical events into conflict vs sanctions and tags the
// regions involved.
type geoRules struct {
	conflict  []string
	sanctions []string
	regions   []string
}

func defaultGeoRules() geoRules {
	return geoRules{
		conflict: []string{"war", "military", "attack", "missile", "troops", "invasion",
			"strike", "bombing", "conflict", "escalation"},
		sanctions: []string{"sanctions", "embargo", "tariff", "trade war", "restrictions",
			"banned", "blacklist"},
		regions: []string{"ukraine", "russia", "taiwan", "china", "middle east", "israel",
			"iran", "north korea", "gaza", "red sea"},
	}
}

func (g geoRules) annotate(text string, ce *models.ClassifiedEvent) {
	if len(hits(text, g.conflict)) > 0 {
		ce.Subtype = "conflict"
	} else if len(hits(text, g.sanctions)) > 0 {
		ce.Subtype = "sanctions"
	}
	for _, r := range hits(text, g.regions) {
		ce.MarketsAffected = append(ce.MarketsAffected, "region:"+r)
	}
}

func hits(text string, words []string) []string {
	var out []string
	for _, w := range words {
		if strings.Contains(text, w) {
			out = append(out, w)
		}
	}
	return out
}

func lowered(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}

func firstOrEmpty(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
