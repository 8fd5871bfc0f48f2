package portal

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"
	"text/template"

	"github.com/petems/whisper-hotkey/internal/hotkey"
	"go.yaml.in/yaml/v3"
)

// ToggleCommand is the command a manually bound desktop shortcut runs.
const ToggleCommand = "whisper-hotkey --toggle"

//go:embed instructions.yaml
var instructionsYAML []byte

// keyStyle spells a hotkey in a compositor's config or settings syntax.
type keyStyle struct {
	// Order lists canonical modifier names; empty means ctrl, shift, alt, super.
	Order []string          `yaml:"order"`
	Names map[string]string `yaml:"names"`
	// Separator goes between modifiers, KeySeparator between the modifiers
	// and the key. An empty KeySeparator reuses Separator.
	Separator    string `yaml:"separator"`
	KeySeparator string `yaml:"key_separator"`
	// KeyCase is "upper", "title" or empty for the XKB keysym as is.
	KeyCase string `yaml:"key_case"`
}

type instructionEntry struct {
	Title string    `yaml:"title"`
	Keys  *keyStyle `yaml:"keys"`
	Steps string    `yaml:"steps"`
}

type instructionSet struct {
	Default     instructionEntry            `yaml:"default"`
	Compositors map[string]instructionEntry `yaml:"compositors"`
}

var loadInstructions = sync.OnceValues(func() (instructionSet, error) {
	var set instructionSet
	if err := yaml.Unmarshal(instructionsYAML, &set); err != nil {
		return instructionSet{}, fmt.Errorf("parse instructions.yaml: %w", err)
	}
	return set, nil
})

// Instructions renders the manual setup steps for a compositor with spec
// spelled in that compositor's syntax. Unknown compositors get the generic
// text. A zero spec leaves the trigger out.
func Instructions(compositor string, spec hotkey.Spec) string {
	set, err := loadInstructions()
	if err != nil {
		return fmt.Sprintf("Bind a desktop shortcut to `%s`.", ToggleCommand)
	}
	entry, ok := set.Compositors[strings.ToLower(compositor)]
	if !ok {
		entry = set.Default
	}
	style := entry.Keys
	if style == nil {
		style = set.Default.Keys
	}
	trigger := ""
	if style != nil {
		trigger = style.render(spec)
	}

	tmpl, err := template.New(compositor).Parse(entry.Steps)
	if err != nil {
		return entry.Steps
	}
	var b strings.Builder
	err = tmpl.Execute(&b, struct {
		Trigger    string
		Command    string
		Compositor string
	}{trigger, ToggleCommand, compositor})
	if err != nil {
		return entry.Steps
	}
	return entry.Title + ": " + strings.TrimSpace(b.String())
}

var defaultModifierOrder = []string{"ctrl", "shift", "alt", "super"}

func (k *keyStyle) render(spec hotkey.Spec) string {
	if spec.IsZero() {
		return ""
	}
	present := make(map[string]bool, 4)
	for _, m := range spec.ModifierList() {
		present[m.String()] = true
	}
	order := k.Order
	if len(order) == 0 {
		order = defaultModifierOrder
	}
	var mods []string
	for _, name := range order {
		if !present[name] {
			continue
		}
		if n := k.Names[name]; n != "" {
			name = n
		}
		mods = append(mods, name)
	}

	key := spec.Keysym()
	switch k.KeyCase {
	case "upper":
		key = strings.ToUpper(key)
	case "title":
		key = strings.ToUpper(key[:1]) + key[1:]
	}

	if len(mods) == 0 && k.KeySeparator == "" {
		return key
	}
	sep := k.KeySeparator
	if sep == "" {
		sep = k.Separator
	}
	return strings.Join(mods, k.Separator) + sep + key
}

// KnownCompositors lists the compositors with dedicated instructions.
func KnownCompositors() []string {
	set, err := loadInstructions()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(set.Compositors))
	for name := range set.Compositors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
