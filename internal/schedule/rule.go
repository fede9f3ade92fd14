package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// Cadence classifies a recurrence rule.
type Cadence string

const (
	CadenceDaily     Cadence = "daily"
	CadenceWeekly    Cadence = "weekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceYearly    Cadence = "yearly"
	CadenceCustom    Cadence = "custom"
)

// Rule is the canonical recurrence derived from a free-text frequency label.
// It is computed per query and never persisted.
type Rule struct {
	Cadence    Cadence
	PeriodDays int

	// Fallback is set when the label matched nothing and the daily default
	// was applied. Callers log it so bad labels can be found and fixed.
	Fallback bool
}

// phrase table checked by substring, most specific labels first.
var phrasePeriods = []struct {
	phrase string
	days   int
}{
	{"ежедневно", 1},
	{"каждый день", 1},
	{"daily", 1},
	{"еженедельно", 7},
	{"раз в неделю", 7},
	{"weekly", 7},
	{"ежемесячно", 30},
	{"раз в месяц", 30},
	{"monthly", 30},
	{"ежеквартально", 90},
	{"раз в квартал", 90},
	{"quarterly", 90},
	{"раз в год", 365},
	{"ежегодно", 365},
	{"yearly", 365},
}

var numberUnitRe = regexp.MustCompile(`(\d+)\s*(раз|день|дня|дней|неделя|недели|недель|месяц|месяца|месяцев)`)

// ParseFrequency maps a frequency label to its Rule. It is pure and total:
// unrecognized labels fall back to daily with Fallback set, never an error.
func ParseFrequency(label string) Rule {
	freq := strings.ToLower(strings.TrimSpace(label))

	for _, p := range phrasePeriods {
		if strings.Contains(freq, p.phrase) {
			return ruleForDays(p.days)
		}
	}

	if m := numberUnitRe.FindStringSubmatch(freq); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			switch {
			case strings.HasPrefix(m[2], "недел"):
				return ruleForDays(n * 7)
			case strings.HasPrefix(m[2], "месяц"):
				return ruleForDays(n * 30)
			default:
				return ruleForDays(n)
			}
		}
	}

	r := ruleForDays(1)
	r.Fallback = true
	return r
}

func ruleForDays(days int) Rule {
	r := Rule{PeriodDays: days}
	switch days {
	case 1:
		r.Cadence = CadenceDaily
	case 7:
		r.Cadence = CadenceWeekly
	case 30:
		r.Cadence = CadenceMonthly
	case 90:
		r.Cadence = CadenceQuarterly
	case 365:
		r.Cadence = CadenceYearly
	default:
		r.Cadence = CadenceCustom
	}
	return r
}
