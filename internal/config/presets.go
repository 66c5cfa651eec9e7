package config

import (
	"fmt"
	"slices"
	"strings"
)

// Preset is a well-known SMTP relay.
type Preset struct {
	Name   string
	Label  string
	Server string
	Port   string
}

var presets = []Preset{
	{Name: "qq", Label: "QQ Mail", Server: "smtp.qq.com", Port: "465"},
	{Name: "163", Label: "163 Mail", Server: "smtp.163.com", Port: "465"},
	{Name: "gmail", Label: "Gmail", Server: "smtp.gmail.com", Port: "465"},
	{Name: "outlook", Label: "Outlook", Server: "smtp.office365.com", Port: "587"},
}

func Presets() []Preset {
	return slices.Clone(presets)
}

func LookupPreset(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// ApplyPreset sets the server and port of values from the named preset.
func ApplyPreset(values Values, name string) error {
	p, ok := LookupPreset(name)
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	values[KeyServer] = p.Server
	values[KeyPort] = p.Port
	return nil
}
