package quill

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action names understood by the Editor.
const (
	ActionToolSelect    = "tool.select"
	ActionToolHand      = "tool.hand"
	ActionToolRectangle = "tool.rectangle"
	ActionToolDraw      = "tool.draw"
	ActionDelete        = "delete"
	ActionSelectAll     = "select-all"
	ActionCancel        = "cancel"
	ActionZoomFit       = "zoom-fit"
)

// Binding is a key plus the exact modifier set that must be held.
type Binding struct {
	Key  Key
	Mods KeyModifiers
}

// ParseBinding parses forms such as "v", "ctrl+a" or "shift+delete".
func ParseBinding(s string) (Binding, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(norm, "++") {
		norm = strings.TrimSuffix(norm, "+") + "plus"
	}
	parts := strings.Split(norm, "+")
	var b Binding
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i < len(parts)-1 {
			switch p {
			case "shift":
				b.Mods |= ModShift
			case "ctrl", "control":
				b.Mods |= ModCtrl
			case "alt", "option":
				b.Mods |= ModAlt
			case "meta", "cmd", "super":
				b.Mods |= ModMeta
			default:
				return Binding{}, fmt.Errorf("parse binding %q: unknown modifier %q", s, p)
			}
			continue
		}
		k, err := ParseKey(p)
		if err != nil {
			return Binding{}, fmt.Errorf("parse binding %q: %w", s, err)
		}
		b.Key = k
	}
	return b, nil
}

// String returns the canonical "mod+...+key" form.
func (b Binding) String() string {
	var sb strings.Builder
	for _, m := range []struct {
		mod  KeyModifiers
		name string
	}{{ModCtrl, "ctrl"}, {ModAlt, "alt"}, {ModShift, "shift"}, {ModMeta, "meta"}} {
		if b.Mods.Has(m.mod) {
			sb.WriteString(m.name)
			sb.WriteByte('+')
		}
	}
	sb.WriteString(b.Key.String())
	return sb.String()
}

// Keymap binds key combinations to action names.
type Keymap map[Binding]string

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		{Key: KeyV}:                 ActionToolSelect,
		{Key: KeyH}:                 ActionToolHand,
		{Key: KeyR}:                 ActionToolRectangle,
		{Key: KeyP}:                 ActionToolDraw,
		{Key: KeyDelete}:            ActionDelete,
		{Key: KeyBackspace}:         ActionDelete,
		{Key: KeyA, Mods: ModCtrl}:  ActionSelectAll,
		{Key: KeyEscape}:            ActionCancel,
		{Key: Key1, Mods: ModShift}: ActionZoomFit,
	}
}

// Lookup returns the action bound to k with mods. Meta falls back to Ctrl so
// "ctrl+a" also fires for Cmd+A.
func (km Keymap) Lookup(k Key, mods KeyModifiers) (string, bool) {
	if name, ok := km[Binding{Key: k, Mods: mods}]; ok {
		return name, true
	}
	if mods.Has(ModMeta) {
		alt := (mods &^ ModMeta) | ModCtrl
		if name, ok := km[Binding{Key: k, Mods: alt}]; ok {
			return name, true
		}
	}
	return "", false
}

// keymapFile is the YAML layout of a keymap:
//
//	bindings:
//	  v: tool.select
//	  ctrl+a: select-all
type keymapFile struct {
	// Replace drops the default bindings instead of extending them.
	Replace  bool              `yaml:"replace"`
	Bindings map[string]string `yaml:"bindings"`
}

// ParseKeymap decodes a YAML keymap. Bindings extend DefaultKeymap unless the
// document sets replace: true. An empty action unbinds the key.
func ParseKeymap(data []byte) (Keymap, error) {
	var f keymapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse keymap: %w", err)
	}
	km := DefaultKeymap()
	if f.Replace {
		km = Keymap{}
	}
	for combo, action := range f.Bindings {
		b, err := ParseBinding(combo)
		if err != nil {
			return nil, fmt.Errorf("parse keymap: %w", err)
		}
		if action == "" {
			delete(km, b)
			continue
		}
		km[b] = action
	}
	return km, nil
}

// LoadKeymap reads a YAML keymap file.
func LoadKeymap(path string) (Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load keymap: %w", err)
	}
	return ParseKeymap(data)
}

// MarshalYAML encodes the keymap in the file layout, sorted by binding.
func (km Keymap) MarshalYAML() (any, error) {
	out := make(map[string]string, len(km))
	keys := make([]string, 0, len(km))
	for b, action := range km {
		s := b.String()
		out[s] = action
		keys = append(keys, s)
	}
	sort.Strings(keys)
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: out[k]})
	}
	return map[string]any{"replace": true, "bindings": node}, nil
}
