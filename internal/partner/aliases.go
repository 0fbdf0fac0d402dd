package partner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasFile is the on-disk layout of an alias file:
//
//	mech:
//	  "BAT Industrial Co.": BAT
//	elec:
//	  "PNS Systems": P&S
type AliasFile struct {
	Mech map[string]string `yaml:"mech"`
	Elec map[string]string `yaml:"elec"`
	Semi map[string]string `yaml:"semi"`
}

// LoadDirectory reads an alias file and returns the default directory
// extended with its entries. An empty path returns the default directory.
func LoadDirectory(path string) (*Directory, error) {
	if path == "" {
		return DefaultDirectory(), nil
	}

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	return ParseAliases(data)
}

// ParseAliases parses alias YAML and extends the default directory with it.
// Every alias must point at a canonical code of the domain's class.
func ParseAliases(data []byte) (*Directory, error) {
	var file AliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}

	aliases := make(map[Domain]map[string]Code, 3)
	for domain, table := range map[Domain]map[string]string{
		DomainMech: file.Mech,
		DomainElec: file.Elec,
		DomainSemi: file.Semi,
	} {
		if len(table) == 0 {
			continue
		}
		aliases[domain] = make(map[string]Code, len(table))
		for name, raw := range table {
			code := Code(raw)
			if !code.IsKnown() {
				return nil, fmt.Errorf("alias %q in %s maps to unknown partner code %q", name, domain, raw)
			}
			if code.Class() != domain.Class() {
				return nil, fmt.Errorf("alias %q in %s maps to %s partner %s", name, domain, code.Class(), code)
			}
			aliases[domain][name] = code
		}
	}

	return DefaultDirectory().Extend(aliases), nil
}
