package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// fileSpec is the TOML shape of one injected command.
type fileSpec struct {
	Name       string   `toml:"name"`
	NormName   string   `toml:"norm_name"`
	Kind       string   `toml:"kind"`
	Dialects   []string `toml:"dialects"`
	Occurrence string   `toml:"occurrence"`
}

type catalogFile struct {
	Commands []fileSpec `toml:"command"`
}

// Load reads extra command definitions from a TOML catalog file. The host
// game owns the full command set; anything beyond the built-in table is
// injected this way rather than hardcoded.
//
// File format:
//
//	[[command]]
//	name = "NEWGRF_FIRST"
//	kind = "value"            # cosmetic | value | string | gender | plural
//	dialects = ["newgrf"]     # default: all
//	occurrence = "any"        # any | nonzero | exact (cosmetic only)
func Load(path string) ([]Spec, error) {
	var file catalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}

	specs := make([]Spec, 0, len(file.Commands))
	for _, fs := range file.Commands {
		if fs.Name == "" {
			return nil, fmt.Errorf("catalog entry without a name")
		}

		spec := Spec{Name: fs.Name, NormName: fs.NormName}
		if spec.NormName == "" {
			spec.NormName = fs.Name
		}

		switch fs.Kind {
		case "", "cosmetic":
			spec.Kind = KindCosmetic
		case "value":
			spec.Kind = KindValue
		case "string":
			spec.Kind = KindString
		case "gender":
			spec.Kind = KindGender
		case "plural":
			spec.Kind = KindPlural
		default:
			return nil, fmt.Errorf("command %q: unknown kind %q", fs.Name, fs.Kind)
		}

		if len(fs.Dialects) == 0 {
			spec.Dialects = inAll
		}
		for _, ds := range fs.Dialects {
			d, err := ParseDialect(ds)
			if err != nil {
				return nil, fmt.Errorf("command %q: %w", fs.Name, err)
			}
			spec.Dialects |= 1 << d
		}

		switch fs.Occurrence {
		case "", "any":
			spec.Occurrence = OccAny
		case "nonzero":
			spec.Occurrence = OccNonzero
		case "exact":
			spec.Occurrence = OccExact
		default:
			return nil, fmt.Errorf("command %q: unknown occurrence %q", fs.Name, fs.Occurrence)
		}

		specs = append(specs, spec)
	}
	return specs, nil
}

// Install adds injected commands to the registry. It must run during
// startup, before the first validation; the registry is read without
// locking afterwards. Redefining a built-in command is an error.
func Install(specs []Spec) error {
	for i := range specs {
		s := specs[i]
		if _, exists := registry[s.Name]; exists {
			return fmt.Errorf("command %q is already defined", s.Name)
		}
		registry[s.Name] = &s
	}
	return nil
}
