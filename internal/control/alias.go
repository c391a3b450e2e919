package control

import "github.com/famish99/uampd/internal/errs"

// Table maps alias names to a sequence of canonical control strings,
// expanded in-place at invocation (spec.md GLOSSARY: "Alias").
type Table map[string][]string

// Step is one resolved element of an alias: exactly one of Control or
// DataControl is set, selected by IsData. Order across an alias's steps
// must be preserved regardless of which sum type each step parses as, so
// Resolve returns a single ordered slice rather than two separate ones.
type Step struct {
	IsData  bool
	Control Control
	Data    DataControl
}

// Resolve looks up name and parses each step into a Control or
// DataControl, returning them in invocation order. An unknown alias
// yields errs.NotFound; a step that fails to parse yields errs.Serde.
func (t Table) Resolve(name string) ([]Step, error) {
	raw, ok := t[name]
	if !ok {
		return nil, errs.New(errs.NotFound, "unknown alias: "+name)
	}

	steps := make([]Step, 0, len(raw))
	for _, s := range raw {
		if c, err := ParseControl(s); err == nil {
			steps = append(steps, Step{Control: c})
			continue
		}
		if d, err := ParseDataControl(s); err == nil {
			steps = append(steps, Step{IsData: true, Data: d})
			continue
		}
		return nil, errs.Wrap(errs.Serde, "failed to parse alias step: "+s, nil)
	}
	return steps, nil
}
