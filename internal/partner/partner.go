// Package partner defines the six canonical subcontractor codes and maps the
// free-text partner names found in the source sheets onto them.
package partner

// Code identifies a partner. The six exported constants are the canonical
// codes; any other value is an unrecognized name passed through unchanged.
type Code string

// Canonical partner codes.
const (
	BAT  Code = "BAT"
	FNI  Code = "FNI"
	TMSM Code = "TMS(M)"
	CNA  Code = "C&A"
	PNS  Code = "P&S"
	TMSE Code = "TMS(E)"
)

// Class groups partners by the kind of work they perform.
type Class string

// Partner classes.
const (
	ClassMech Class = "MECH"
	ClassElec Class = "ELEC"
)

// Domain tells the normalizer which column a raw name was read from.
type Domain string

// Normalization domains.
const (
	DomainMech Domain = "mech"
	DomainElec Domain = "elec"
	DomainSemi Domain = "semi"
)

var (
	mechanical = []Code{BAT, FNI, TMSM}
	electrical = []Code{PNS, TMSE, CNA}
)

// All returns the canonical codes, mechanical partners first.
func All() []Code {
	codes := make([]Code, 0, len(mechanical)+len(electrical))
	codes = append(codes, mechanical...)
	return append(codes, electrical...)
}

// Mechanical returns the mechanical partner codes.
func Mechanical() []Code {
	return append([]Code(nil), mechanical...)
}

// Electrical returns the electrical partner codes.
func Electrical() []Code {
	return append([]Code(nil), electrical...)
}

// IsKnown reports whether c is one of the six canonical codes.
func (c Code) IsKnown() bool {
	for _, code := range All() {
		if c == code {
			return true
		}
	}
	return false
}

// Class returns the partner class. Unknown codes are treated as electrical,
// which is the class with the stricter grading ladder.
func (c Code) Class() Class {
	for _, code := range mechanical {
		if c == code {
			return ClassMech
		}
	}
	return ClassElec
}

// Type returns the short partner-type key used in exported JSON ("mech" or "elec").
func (c Code) Type() string {
	if c.Class() == ClassMech {
		return string(DomainMech)
	}
	return string(DomainElec)
}

// Class returns the partner class whose names appear in columns of domain d.
// Semi-finished goods are made by mechanical partners.
func (d Domain) Class() Class {
	if d == DomainElec {
		return ClassElec
	}
	return ClassMech
}

func (c Code) String() string {
	return string(c)
}
