package partner

import (
	"sort"
	"strings"
)

// tmsToken is the bare company token shared by TMS(M) and TMS(E).
const tmsToken = "TMS"

// Directory holds the alias tables used to normalize partner names.
// A Directory is never mutated after construction, so one value can be
// shared by every component of a report run.
type Directory struct {
	exact  map[Domain]map[string]Code
	tokens map[Domain][]token
}

type token struct {
	text string
	code Code
}

// resolveRule is one step of the normalization chain.
type resolveRule struct {
	name    string
	resolve func(d *Directory, name string, domain Domain) (Code, bool)
}

// normalizationChain is evaluated top to bottom; the first rule that
// resolves wins.
var normalizationChain = []resolveRule{
	{name: "exact", resolve: (*Directory).resolveExact},
	{name: "token", resolve: (*Directory).resolveToken},
	{name: "tms", resolve: (*Directory).resolveTMS},
}

var defaultDirectory = newDefaultDirectory()

// DefaultDirectory returns the built-in alias tables.
func DefaultDirectory() *Directory {
	return defaultDirectory
}

func newDefaultDirectory() *Directory {
	mech := map[string]Code{
		"주식회사 비에이티":  BAT,
		"비에이티":       BAT,
		"에프앤아이(FnI)": FNI,
		"에프앤아이":      FNI,
		"(주)티엠에스이엔지": TMSM,
		string(BAT):  BAT,
		string(FNI):  FNI,
		string(TMSM): TMSM,
	}
	elec := map[string]Code{
		"(주)티엠에스이엔지": TMSE,
		"피엔에스 시스템":   PNS,
		"(주)씨앤에이시스템": CNA,
		string(CNA):  CNA,
		string(PNS):  PNS,
		string(TMSE): TMSE,
	}

	semi := make(map[string]Code, len(mech))
	for name, code := range mech {
		semi[name] = code
	}

	mechTokens := []token{{text: string(TMSM), code: TMSM}, {text: string(BAT), code: BAT}, {text: string(FNI), code: FNI}}
	elecTokens := []token{{text: string(TMSE), code: TMSE}, {text: string(CNA), code: CNA}, {text: string(PNS), code: PNS}}

	return &Directory{
		exact: map[Domain]map[string]Code{
			DomainMech: mech,
			DomainElec: elec,
			DomainSemi: semi,
		},
		tokens: map[Domain][]token{
			DomainMech: sortTokens(mechTokens),
			DomainElec: sortTokens(elecTokens),
			DomainSemi: sortTokens(append([]token(nil), mechTokens...)),
		},
	}
}

// Normalize maps a raw name to a canonical code using the default directory.
func Normalize(raw string, domain Domain) Code {
	return defaultDirectory.Normalize(raw, domain)
}

// Normalize trims raw and maps it to a canonical code for the given domain.
// Names that match no rule are returned trimmed but otherwise unchanged.
func (d *Directory) Normalize(raw string, domain Domain) Code {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	for _, rule := range normalizationChain {
		if code, ok := rule.resolve(d, name, domain); ok {
			return code
		}
	}
	return Code(name)
}

// Extend returns a copy of the directory with extra exact aliases added.
// Extra aliases override built-in entries with the same name.
func (d *Directory) Extend(aliases map[Domain]map[string]Code) *Directory {
	next := &Directory{
		exact:  make(map[Domain]map[string]Code, len(d.exact)),
		tokens: d.tokens,
	}
	for domain, table := range d.exact {
		copied := make(map[string]Code, len(table))
		for name, code := range table {
			copied[name] = code
		}
		next.exact[domain] = copied
	}

	for domain, table := range aliases {
		if next.exact[domain] == nil {
			next.exact[domain] = make(map[string]Code, len(table))
		}
		for name, code := range table {
			next.exact[domain][strings.TrimSpace(name)] = code
		}
	}
	return next
}

func (d *Directory) resolveExact(name string, domain Domain) (Code, bool) {
	code, ok := d.exact[domain][name]
	return code, ok
}

func (d *Directory) resolveToken(name string, domain Domain) (Code, bool) {
	upper := strings.ToUpper(name)
	for _, tok := range d.tokens[domain] {
		if strings.Contains(upper, strings.ToUpper(tok.text)) {
			return tok.code, true
		}
	}
	return "", false
}

func (d *Directory) resolveTMS(name string, domain Domain) (Code, bool) {
	if !strings.Contains(strings.ToUpper(name), tmsToken) {
		return "", false
	}
	switch domain {
	case DomainMech, DomainSemi:
		return TMSM, true
	case DomainElec:
		return TMSE, true
	}
	return "", false
}

// sortTokens orders tokens longest first so "TMS(M)" is tried before shorter tokens.
func sortTokens(tokens []token) []token {
	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i].text) > len(tokens[j].text)
	})
	return tokens
}
