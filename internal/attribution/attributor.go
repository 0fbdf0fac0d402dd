package attribution

import (
	"strings"

	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

// Unassigned is returned for records no rule could attribute. Such records
// are left out of every per-partner count.
const Unassigned partner.Code = "unassigned"

// side is the half of the product a category points at.
type side int

const (
	sideNone side = iota
	sideMech
	sideElec
)

// markerRoute maps a sub-category marker set to a side.
type markerRoute struct {
	markers []string
	side    side
}

// categoryRoute resolves a top category either to a fixed side or, when
// bySub is set, to the side of the first sub-category marker that matches.
type categoryRoute struct {
	labels []string
	fixed  side
	bySub  []markerRoute
}

func resolveSide(routes []categoryRoute, top, sub string) side {
	for _, route := range routes {
		if !isOneOf(top, route.labels) {
			continue
		}
		if route.bySub == nil {
			return route.fixed
		}
		for _, m := range route.bySub {
			if containsAny(sub, m.markers) {
				return m.side
			}
		}
		return sideNone
	}
	return sideNone
}

// Rule is one step of the attribution chain. Resolve returns false when the
// rule has nothing to say about the record, letting the next rule run.
type Rule struct {
	Name    string
	Resolve func(rec model.DefectRecord) (partner.Code, bool)
}

// Attributor evaluates its rules in order and returns the first result.
type Attributor struct {
	rules []Rule
}

// NewAttributor builds the standard chain: a TMS mention in the technician
// note, then a single partner code in the note, then the category columns.
func NewAttributor(dir *partner.Directory, vocab Vocabulary) *Attributor {
	return &Attributor{rules: []Rule{
		NoteTMSRule(vocab),
		NoteCodeRule(vocab),
		CategoryRule(dir, vocab),
	}}
}

// NewAttributorWithRules builds an attributor from an explicit chain.
func NewAttributorWithRules(rules ...Rule) *Attributor {
	return &Attributor{rules: rules}
}

// Rules returns the names of the rules in evaluation order.
func (a *Attributor) Rules() []string {
	names := make([]string, len(a.rules))
	for i, r := range a.rules {
		names[i] = r.Name
	}
	return names
}

// Attribute returns the partner responsible for rec, or Unassigned.
func (a *Attributor) Attribute(rec model.DefectRecord) partner.Code {
	code, _ := a.Explain(rec)
	return code
}

// Explain is Attribute plus the name of the rule that decided. The rule name
// is empty when the record stays unassigned.
func (a *Attributor) Explain(rec model.DefectRecord) (partner.Code, string) {
	for _, rule := range a.rules {
		if code, ok := rule.Resolve(rec); ok && code != "" {
			return code, rule.Name
		}
	}
	return Unassigned, ""
}

// NoteTMSRule handles technician notes naming TMS, which does both
// mechanical and electrical work; the category decides which half.
func NoteTMSRule(vocab Vocabulary) Rule {
	routes := []categoryRoute{
		{labels: vocab.MechDefect, fixed: sideMech},
		{labels: vocab.ElecDefect, fixed: sideElec},
		{labels: vocab.WorkDefect, bySub: []markerRoute{
			{markers: vocab.MechMarkers, side: sideMech},
			{markers: vocab.ElecMarkers, side: sideElec},
		}},
	}

	return Rule{
		Name: "note-tms",
		Resolve: func(rec model.DefectRecord) (partner.Code, bool) {
			note := strings.TrimSpace(rec.TechnicianNote)
			if note == "" || !strings.Contains(note, vocab.TMSToken) {
				return "", false
			}
			switch resolveSide(routes, rec.TopCategory, rec.SubCategory) {
			case sideMech:
				return partner.TMSM, true
			case sideElec:
				return partner.TMSE, true
			}
			return "", false
		},
	}
}

// noteCodes are searched in technician notes, in this order.
var noteCodes = []partner.Code{partner.BAT, partner.FNI, partner.PNS, partner.CNA, partner.TMSM, partner.TMSE}

// NoteCodeRule attributes a note that names exactly one partner code. Notes
// mentioning TMS are left to NoteTMSRule.
func NoteCodeRule(vocab Vocabulary) Rule {
	return Rule{
		Name: "note-code",
		Resolve: func(rec model.DefectRecord) (partner.Code, bool) {
			note := strings.TrimSpace(rec.TechnicianNote)
			if note == "" || strings.Contains(note, vocab.TMSToken) {
				return "", false
			}

			var found []partner.Code
			for _, code := range noteCodes {
				if strings.Contains(note, string(code)) {
					found = append(found, code)
				}
			}
			if len(found) != 1 {
				return "", false
			}
			return found[0], true
		},
	}
}

// CategoryRule falls back to the partner columns, choosing the mechanical or
// electrical partner from the category.
func CategoryRule(dir *partner.Directory, vocab Vocabulary) Rule {
	routes := []categoryRoute{
		{labels: vocab.WorkDefect, bySub: []markerRoute{
			{markers: vocab.ElecMarkers, side: sideElec},
			{markers: vocab.MechMarkers, side: sideMech},
		}},
		{labels: vocab.MechDefect, fixed: sideMech},
		{labels: vocab.ElecDefect, fixed: sideElec},
		{labels: vocab.PartDefect, bySub: []markerRoute{
			{markers: vocab.MechMarkers, side: sideMech},
			{markers: vocab.ElecMarkers, side: sideElec},
		}},
	}

	return Rule{
		Name: "category",
		Resolve: func(rec model.DefectRecord) (partner.Code, bool) {
			var code partner.Code
			switch resolveSide(routes, rec.TopCategory, rec.SubCategory) {
			case sideMech:
				code = dir.Normalize(rec.MechPartner, partner.DomainMech)
			case sideElec:
				code = dir.Normalize(rec.ElecPartner, partner.DomainElec)
			default:
				return "", false
			}
			return code, code != ""
		},
	}
}
