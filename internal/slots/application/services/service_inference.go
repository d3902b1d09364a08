package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	weekdays        = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	weekdaysAndSat  = append(append([]time.Weekday{}, weekdays...), time.Saturday)
	nonWordOrStart  = `(?:^|[^\p{L}\p{N}])`
	nonWordOrFinish = `(?:[^\p{L}\p{N}]|$)`
)

// ServiceRule maps a keyword group to the opening hours of that kind of service.
// Keywords are matched on whole words after lowercasing and accent folding.
type ServiceRule struct {
	Category  domain.ServiceCategory
	Label     string
	Keywords  []string
	OpenHours domain.OpenHours
}

// DefaultServiceRules returns the built-in rule table. Order matters: the first
// matching rule wins.
func DefaultServiceRules() []ServiceRule {
	return []ServiceRule{
		{
			Category: domain.ServiceCategoryMedical,
			Label:    "medical",
			Keywords: []string{
				"medecin", "docteur", "generaliste", "dentiste", "kine", "kinesitherapeute",
				"ophtalmo", "ophtalmologue", "dermatologue", "pediatre", "gynecologue", "orthodontiste",
				"radiologie", "laboratoire", "prise de sang", "pharmacie",
				"hopital", "clinique", "veterinaire", "opticien",
				"doctor", "gp", "dentist", "physio", "physiotherapist", "clinic", "hospital",
				"pharmacy", "blood test", "checkup", "check-up", "optician", "vet",
			},
			OpenHours: domain.OpenHours{Days: weekdays, Hours: domain.DailyWindow{Start: domain.ClockTime(9, 0), End: domain.ClockTime(18, 0)}},
		},
		{
			Category: domain.ServiceCategoryBanking,
			Label:    "banking",
			Keywords: []string{
				"banque", "bancaire", "banquier", "conseiller bancaire", "agence bancaire", "cheque", "cheques",
				"bank", "banker", "mortgage", "loan",
			},
			OpenHours: domain.OpenHours{Days: weekdaysAndSat, Hours: domain.DailyWindow{Start: domain.ClockTime(9, 0), End: domain.ClockTime(16, 30)}},
		},
		{
			Category: domain.ServiceCategoryAdministrative,
			Label:    "postal or administrative",
			Keywords: []string{
				"la poste", "bureau de poste", "colis", "recommande", "lettre recommandee", "mairie",
				"prefecture", "sous-prefecture", "caf", "cpam", "impots", "urssaf", "france travail",
				"pole emploi", "notaire", "passeport", "carte d'identite", "consulat", "ambassade",
				"post office", "parcel", "registered letter", "town hall", "city hall", "passport",
				"tax office", "embassy", "consulate", "dmv",
			},
			OpenHours: domain.OpenHours{Days: weekdaysAndSat, Hours: domain.DailyWindow{Start: domain.ClockTime(9, 0), End: domain.ClockTime(16, 30)}},
		},
		{
			Category: domain.ServiceCategoryCommerce,
			Label:    "shop",
			Keywords: []string{
				"magasin", "boutique", "supermarche", "pressing", "cordonnier", "coiffeur", "quincaillerie",
				"bricolage", "librairie", "fleuriste", "garage", "centre commercial",
				"shop", "store", "shopping", "supermarket", "hairdresser", "barber", "dry cleaner",
				"hardware store", "mall", "bookshop", "florist",
			},
			OpenHours: domain.OpenHours{Days: weekdaysAndSat, Hours: domain.DailyWindow{Start: domain.ClockTime(10, 0), End: domain.ClockTime(19, 0)}},
		},
	}
}

type compiledRule struct {
	rule    ServiceRule
	pattern *regexp.Regexp
}

// ServiceInference detects tasks that depend on a third party's opening hours.
type ServiceInference struct {
	rules []compiledRule
}

// NewServiceInference compiles the rule table. It panics on a rule that does
// not compile, since rule tables are static data.
func NewServiceInference(rules []ServiceRule) *ServiceInference {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if len(r.Keywords) == 0 {
			continue
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			keywords = append(keywords, regexp.QuoteMeta(foldText(k)))
		}
		// Longest first so multi-word keywords win over their prefixes.
		sort.SliceStable(keywords, func(i, j int) bool { return len(keywords[i]) > len(keywords[j]) })
		pattern := regexp.MustCompile(nonWordOrStart + "(" + strings.Join(keywords, "|") + ")" + nonWordOrFinish)
		compiled = append(compiled, compiledRule{rule: r, pattern: pattern})
	}
	return &ServiceInference{rules: compiled}
}

// Infer returns the service constraint implied by the task content, or nil
// when no rule matches.
func (s *ServiceInference) Infer(content string) *domain.ServiceConstraint {
	text := foldText(content)
	if text == "" {
		return nil
	}
	for _, cr := range s.rules {
		m := cr.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return &domain.ServiceConstraint{
			Category:       cr.rule.Category,
			OpenHours:      cr.rule.OpenHours,
			MatchedKeyword: m[1],
			Reason: fmt.Sprintf("task mentions %q; %s services are usually open %s",
				m[1], cr.rule.Label, cr.rule.OpenHours),
		}
	}
	return nil
}

// foldText lowercases, strips diacritics, unifies apostrophes and collapses whitespace.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.NewReplacer("’", "'", "‘", "'").Replace(strings.ToLower(folded))
	return strings.Join(strings.Fields(folded), " ")
}
