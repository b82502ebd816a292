package menu

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reserved button payloads.
const (
	Cancel  = "CANCEL"
	Confirm = "CONFIRM"
)

// Separator splits the state name and the option label in a button payload.
const Separator = ":"

// maxPayload is the Telegram limit for callback data.
const maxPayload = 64

//go:embed menus.yaml
var defaultMenus []byte

type Menu struct {
	Message string     `yaml:"message"`
	Options [][]string `yaml:"options"`
}

type Button struct {
	Label   string
	Payload string
}

// Set holds the menus indexed by state name. It is read-only once loaded.
type Set struct {
	menus map[string]Menu
}

// Default returns the embedded menus.
func Default() *Set {
	s, err := Parse(defaultMenus)
	if err != nil {
		panic(fmt.Sprintf("menu: invalid embedded menus: %v", err))
	}
	return s
}

// Load reads a menu file. JSON files are accepted too.
func Load(path string) (*Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("menu: couldn't read %s: %w", path, err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("menu: couldn't parse %s: %w", path, err)
	}
	return s, nil
}

func Parse(b []byte) (*Set, error) {
	menus := map[string]Menu{}
	if err := yaml.Unmarshal(b, &menus); err != nil {
		return nil, fmt.Errorf("menu: couldn't unmarshal: %w", err)
	}
	return &Set{menus: menus}, nil
}

// Validate checks that every name has a usable menu.
func (s *Set) Validate(names ...string) error {
	for _, name := range names {
		m, ok := s.menus[name]
		if !ok {
			return fmt.Errorf("menu: missing menu %q", name)
		}
		if m.Message == "" {
			return fmt.Errorf("menu: menu %q has no message", name)
		}
		var options, confirms int
		for _, row := range m.Options {
			for _, label := range row {
				if label == "" {
					return fmt.Errorf("menu: menu %q has an empty option", name)
				}
				if p := payload(name, label); len(p) > maxPayload {
					return fmt.Errorf("menu: option %q of %q exceeds %d bytes", label, name, maxPayload)
				}
				switch {
				case isConfirm(label):
					confirms++
				case !isCancel(label):
					options++
				}
			}
		}
		// The confirmation menu only needs its confirm button
		if name == Confirm {
			if confirms == 0 {
				return fmt.Errorf("menu: menu %q has no confirm button", name)
			}
			continue
		}
		if options == 0 {
			return fmt.Errorf("menu: menu %q has no options", name)
		}
	}
	return nil
}

// Names returns the loaded menu names sorted.
func (s *Set) Names() []string {
	var names []string
	for name := range s.menus {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Set) Message(name string) string {
	return s.menus[name].Message
}

// Keyboard returns the button grid of a menu.
func (s *Set) Keyboard(name string) [][]Button {
	var rows [][]Button
	for _, row := range s.menus[name].Options {
		var buttons []Button
		for _, label := range row {
			buttons = append(buttons, Button{Label: label, Payload: payload(name, label)})
		}
		rows = append(rows, buttons)
	}
	return rows
}

// IsOption reports whether label is a selectable option of the menu.
// Control buttons are not options.
func (s *Set) IsOption(name, label string) bool {
	for _, row := range s.menus[name].Options {
		for _, l := range row {
			if l == label && !isControl(l) {
				return true
			}
		}
	}
	return false
}

func isControl(label string) bool {
	return isCancel(label) || isConfirm(label)
}

func isCancel(label string) bool {
	return label == "Cancel" || strings.Contains(label, "❌")
}

func isConfirm(label string) bool {
	return strings.Contains(label, "Confirm") || strings.Contains(label, "✅")
}

func payload(name, label string) string {
	switch {
	case isCancel(label):
		return Cancel
	case isConfirm(label):
		return Confirm
	default:
		return name + Separator + label
	}
}
