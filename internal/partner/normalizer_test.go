package partner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		domain Domain
		want   Code
	}{
		{name: "mech legal name", raw: "주식회사 비에이티", domain: DomainMech, want: BAT},
		{name: "mech legal name with padding", raw: "  에프앤아이(FnI) ", domain: DomainMech, want: FNI},
		{name: "shared legal name in mech column", raw: "(주)티엠에스이엔지", domain: DomainMech, want: TMSM},
		{name: "shared legal name in elec column", raw: "(주)티엠에스이엔지", domain: DomainElec, want: TMSE},
		{name: "elec legal name", raw: "피엔에스 시스템", domain: DomainElec, want: PNS},
		{name: "elec legal name C&A", raw: "(주)씨앤에이시스템", domain: DomainElec, want: CNA},
		{name: "semi uses mech table", raw: "(주)티엠에스이엔지", domain: DomainSemi, want: TMSM},
		{name: "code maps to itself", raw: "TMS(E)", domain: DomainElec, want: TMSE},
		{name: "bare TMS in mech column", raw: "TMS", domain: DomainMech, want: TMSM},
		{name: "bare TMS in elec column", raw: "tms", domain: DomainElec, want: TMSE},
		{name: "bare TMS in semi column", raw: "TMS", domain: DomainSemi, want: TMSM},
		{name: "token inside longer text", raw: "bat line 2", domain: DomainMech, want: BAT},
		{name: "elec token", raw: "P&S (2nd shift)", domain: DomainElec, want: PNS},
		{name: "unknown passthrough", raw: "Unknown Vendor Co", domain: DomainMech, want: "Unknown Vendor Co"},
		{name: "unknown passthrough is trimmed", raw: "  Acme  ", domain: DomainElec, want: "Acme"},
		{name: "mech code in elec column passes through", raw: "BAT", domain: DomainElec, want: "BAT"},
		{name: "empty", raw: "   ", domain: DomainMech, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw, tt.domain))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	dir := DefaultDirectory()
	for domain, table := range dir.exact {
		for raw := range table {
			once := dir.Normalize(raw, domain)
			twice := dir.Normalize(string(once), domain)
			assert.Equal(t, once, twice, "domain=%s raw=%q", domain, raw)
		}
	}

	for _, raw := range []string{"Unknown Vendor Co", "TMS", "bat", "P&S"} {
		for _, domain := range []Domain{DomainMech, DomainElec, DomainSemi} {
			once := dir.Normalize(raw, domain)
			assert.Equal(t, once, dir.Normalize(string(once), domain), "domain=%s raw=%q", domain, raw)
		}
	}
}

func TestDirectoryExtend(t *testing.T) {
	base := DefaultDirectory()
	extended := base.Extend(map[Domain]map[string]Code{
		DomainElec: {"Charlie & Alpha": CNA},
	})

	assert.Equal(t, CNA, extended.Normalize("Charlie & Alpha", DomainElec))
	assert.Equal(t, Code("Charlie & Alpha"), base.Normalize("Charlie & Alpha", DomainElec), "base directory must not change")
	assert.Equal(t, BAT, extended.Normalize("주식회사 비에이티", DomainMech))
}

func TestParseAliases(t *testing.T) {
	dir, err := ParseAliases([]byte(`
mech:
  "Busan Assembly Tech": BAT
elec:
  "PNS Systems": "P&S"
`))
	require.NoError(t, err)
	assert.Equal(t, BAT, dir.Normalize("Busan Assembly Tech", DomainMech))
	assert.Equal(t, PNS, dir.Normalize("PNS Systems", DomainElec))

	_, err = ParseAliases([]byte("mech:\n  Foo: XYZ\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown partner code")

	_, err = ParseAliases([]byte("mech: [unclosed"))
	require.Error(t, err)

	semi, err := ParseAliases([]byte("semi:\n  \"TMS 반제품\": TMS(M)\n"))
	require.NoError(t, err)
	assert.Equal(t, TMSM, semi.Normalize("TMS 반제품", DomainSemi))
}

func TestParseAliasesRejectsCrossClass(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "electrical code in mech", doc: "mech:\n  X: \"P&S\"\n"},
		{name: "mechanical code in elec", doc: "elec:\n  Y: BAT\n"},
		{name: "electrical code in semi", doc: "semi:\n  Z: TMS(E)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAliases([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "maps to")
		})
	}
}

func TestDomainClass(t *testing.T) {
	assert.Equal(t, ClassMech, DomainMech.Class())
	assert.Equal(t, ClassMech, DomainSemi.Class())
	assert.Equal(t, ClassElec, DomainElec.Class())
}

func TestLoadDirectory(t *testing.T) {
	dir, err := LoadDirectory("")
	require.NoError(t, err)
	assert.Same(t, DefaultDirectory(), dir)

	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("semi:\n  \"TMS Semi Plant\": TMS(M)\n"), 0o600))

	dir, err = LoadDirectory(path)
	require.NoError(t, err)
	assert.Equal(t, TMSM, dir.Normalize("TMS Semi Plant", DomainSemi))

	_, err = LoadDirectory(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCodeClass(t *testing.T) {
	for _, code := range Mechanical() {
		assert.Equal(t, ClassMech, code.Class())
		assert.Equal(t, "mech", code.Type())
	}
	for _, code := range Electrical() {
		assert.Equal(t, ClassElec, code.Class())
		assert.Equal(t, "elec", code.Type())
	}
	assert.Len(t, All(), 6)
	assert.True(t, TMSM.IsKnown())
	assert.False(t, Code("Acme").IsKnown())
}
