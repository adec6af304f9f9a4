package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"MarketSentinel/internal/domain/models"
	"MarketSentinel/pkg/config"
)

var (
	bpsRe = regexp.MustCompile(`(\d+)\s*(?:bps|basis\s*points?)`)
	pctRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
)

// RateParser extracts central-bank rate decisions from monetary-policy text.
type RateParser struct {
	banks   []bankRule
	actions []actionWords
}

type bankRule struct {
	bank    string
	names   []string
	rateRe  *regexp.Regexp
	implied config.BankRule
}

type actionWords struct {
	action models.RateAction
	words  []string
}

func NewRateParser(tables *config.Tables) (*RateParser, error) {
	p := &RateParser{
		// Fixed priority order: an event matching both "emergency" and "cut"
		// keywords is an emergency. This ordering is policy, not accident.
		actions: []actionWords{
			{models.RateActionEmergency, lowered(tables.RateActions.Emergency)},
			{models.RateActionHike, lowered(tables.RateActions.Hike)},
			{models.RateActionCut, lowered(tables.RateActions.Cut)},
			{models.RateActionHold, lowered(tables.RateActions.Hold)},
		},
	}
	for _, b := range tables.Banks {
		var re *regexp.Regexp
		if b.RatePattern != "" {
			var err error
			re, err = regexp.Compile(b.RatePattern)
			if err != nil {
				return nil, fmt.Errorf("bank %s rate pattern: %w", b.Bank, err)
			}
		}
		p.banks = append(p.banks, bankRule{
			bank:    b.Bank,
			names:   append(lowered(b.Names), lowered(b.Currencies)...),
			rateRe:  re,
			implied: b,
		})
	}
	return p, nil
}

// Parse returns nil when no configured bank is mentioned. The first bank in
// table order wins when several are mentioned; this tie-break is deliberate
// so classification is deterministic.
func (p *RateParser) Parse(text string) *models.RateDecision {
	text = strings.ToLower(text)

	var bank *bankRule
	for i := range p.banks {
		if len(hits(text, p.banks[i].names)) > 0 {
			bank = &p.banks[i]
			break
		}
	}
	if bank == nil {
		return nil
	}

	action := models.RateActionUnknown
	for _, a := range p.actions {
		if len(hits(text, a.words)) > 0 {
			action = a.action
			break
		}
	}

	rd := &models.RateDecision{Bank: bank.bank, Action: action}

	// Rate and bps change extract independently; either may be absent.
	if bank.rateRe != nil {
		if m := bank.rateRe.FindStringSubmatch(text); len(m) > 1 {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				rd.Rate = &v
			}
		}
	}
	if m := bpsRe.FindStringSubmatch(text); len(m) > 1 {
		if v, err := strconv.Atoi(m[1]); err == nil {
			rd.BpsChange = &v
		}
	} else if rd.Rate == nil {
		// Percent fallback only when the percentage was not already consumed
		// as the new rate level.
		if m := pctRe.FindStringSubmatch(text); len(m) > 1 {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				bps := int(v * 100)
				rd.BpsChange = &bps
			}
		}
	}

	return rd
}

// Implied returns the market-implied expectation for a bank, if configured.
func (p *RateParser) Implied(bank string) (bps *int, rate *float64) {
	for _, b := range p.banks {
		if b.bank == bank {
			return b.implied.ImpliedBps, b.implied.ImpliedRate
		}
	}
	return nil, nil
}
