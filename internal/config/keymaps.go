package config

// KeyMappings defines the configurable key bindings of the list screen
type KeyMappings struct {
	Quit   string `yaml:"quit"`
	New    string `yaml:"new"`
	Edit   string `yaml:"edit"`
	Delete string `yaml:"delete"`
	Toggle string `yaml:"toggle"`
	Filter string `yaml:"filter"`
	Help   string `yaml:"help"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		Quit:   "q",
		New:    "n",
		Edit:   "e",
		Delete: "d",
		Toggle: " ",
		Filter: "tab",
		Help:   "?",
	}
}

// applyDefaults fills unset mappings from DefaultKeyMappings
func (km *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()

	if km.Quit == "" {
		km.Quit = defaults.Quit
	}
	if km.New == "" {
		km.New = defaults.New
	}
	if km.Edit == "" {
		km.Edit = defaults.Edit
	}
	if km.Delete == "" {
		km.Delete = defaults.Delete
	}
	if km.Toggle == "" {
		km.Toggle = defaults.Toggle
	}
	if km.Filter == "" {
		km.Filter = defaults.Filter
	}
	if km.Help == "" {
		km.Help = defaults.Help
	}
}
