package shared

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"places_reviewcheck/internal/domain"
)

//go:embed profiles.yaml
var defaultProfiles []byte

// LoadProfiles parses the embedded profiles, or the file at path when set.
func LoadProfiles(path string) (map[string]domain.Profile, error) {
	raw := defaultProfiles
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read profiles %s: %w", path, err)
		}
		raw = b
	}
	return ParseProfiles(raw)
}

func ParseProfiles(raw []byte) (map[string]domain.Profile, error) {
	var in map[string]domain.Profile
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	if len(in) == 0 {
		return nil, fmt.Errorf("parse profiles: no profiles defined")
	}
	out := make(map[string]domain.Profile, len(in))
	for name, p := range in {
		switch p.API {
		case domain.APILegacy, domain.APINew:
		case "":
			p.API = domain.APILegacy
		default:
			return nil, fmt.Errorf("profile %q: unknown api %q", name, p.API)
		}
		if p.TruncateAt < 0 {
			return nil, fmt.Errorf("profile %q: truncate_at must be >= 0", name)
		}
		if p.SeparatorWidth <= 0 {
			p.SeparatorWidth = 50
		}
		if p.BannerWidth <= 0 {
			p.BannerWidth = p.SeparatorWidth
		}
		p.Name = name
		out[name] = p
	}
	return out, nil
}

// ProfileNames lists profile names in stable order.
func ProfileNames(ps map[string]domain.Profile) []string {
	names := make([]string, 0, len(ps))
	for n := range ps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
