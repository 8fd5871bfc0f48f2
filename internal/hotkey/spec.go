package hotkey

import (
	"fmt"
	"strings"
)

// Spec is a parsed hotkey: a set of modifiers and exactly one primary key.
// Construct only via Parse or ParseAccelerator so the invariant holds.
type Spec struct {
	mods Modifier
	key  string
}

// Modifiers returns the modifier set as a bitmask.
func (s Spec) Modifiers() Modifier { return s.mods }

// Has reports whether m is part of the modifier set.
func (s Spec) Has(m Modifier) bool { return s.mods&m != 0 }

// Key returns the canonical primary key token.
func (s Spec) Key() string { return s.key }

// Keysym returns the XKB keysym name of the primary key, e.g. "r",
// "Return" or "Page_Up".
func (s Spec) Keysym() string { return keyTable[s.key].xkb }

// IsZero reports whether s was never parsed.
func (s Spec) IsZero() bool { return s.key == "" }

// ModifierList returns the modifiers in canonical order.
func (s Spec) ModifierList() []Modifier {
	var out []Modifier
	for _, m := range modifierOrder {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Canonical serializes the spec as "ctrl+shift+alt+super+key" with only the
// present modifiers.
func (s Spec) Canonical() string {
	parts := make([]string, 0, 5)
	for _, m := range s.ModifierList() {
		parts = append(parts, m.String())
	}
	parts = append(parts, s.key)
	return strings.Join(parts, "+")
}

func (s Spec) String() string { return s.Canonical() }

// Parse reads a canonical hotkey string such as "ctrl+shift+r".
// Matching is case-insensitive and modifier order does not matter.
func Parse(text string) (Spec, error) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return Spec{}, parseErr(text, "empty hotkey")
	}

	var spec Spec
	for _, raw := range strings.Split(trimmed, "+") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			return Spec{}, parseErr(text, "empty token")
		}
		if m, ok := modifierAliases[tok]; ok {
			if spec.Has(m) {
				return Spec{}, parseErr(text, fmt.Sprintf("modifier %s given twice", m))
			}
			spec.mods |= m
			continue
		}
		name, ok := lookupKey(tok)
		if !ok {
			return Spec{}, parseErr(text, fmt.Sprintf("unknown token %q", tok))
		}
		if spec.key != "" {
			return Spec{}, parseErr(text, fmt.Sprintf("multiple primary keys %q and %q", spec.key, name))
		}
		spec.key = name
	}

	if spec.key == "" {
		return Spec{}, parseErr(text, "no primary key")
	}
	return spec, nil
}

// MustParse is Parse for hotkeys known at compile time.
func MustParse(text string) Spec {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

func parseErr(text, msg string) error {
	return &Error{
		Kind:        KindParse,
		Op:          "parse " + fmt.Sprintf("%q", text),
		Msg:         msg,
		Remediation: "use modifier+key syntax, e.g. ctrl+shift+r",
	}
}
