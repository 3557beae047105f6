package registry

import "encoding/json"

// App is one application definition: how to recognize its windows and how
// to launch it when none exist. ID is assigned at creation and stable
// across edits.
type App struct {
	ID              string `json:"id,omitempty"`
	Alias           string `json:"alias"`
	Name            string `json:"name"`
	ClassPattern    string `json:"class_pattern,omitempty"`
	ResourcePattern string `json:"resource_pattern,omitempty"`
	TitlePattern    string `json:"title_pattern,omitempty"`
	Command         string `json:"command"`

	extra map[string]json.RawMessage
}

// Binding maps a normalized key chord to an application alias. The alias is
// free text; whether it names a live definition is checked at dispatch.
type Binding struct {
	Chord string `json:"key_chord"`
	Alias string `json:"alias"`

	extra map[string]json.RawMessage
}

var appKnownFields = []string{"id", "alias", "name", "class_pattern", "resource_pattern", "title_pattern", "command"}

var bindingKnownFields = []string{"key_chord", "alias"}

// MarshalJSON writes the typed fields over any unknown fields carried from
// a previous load, so keys added by other tools survive edits.
func (a App) MarshalJSON() ([]byte, error) {
	type plain App
	return marshalWithExtra(plain(a), a.extra)
}

func (a *App) UnmarshalJSON(data []byte) error {
	type plain App
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := splitExtra(data, appKnownFields)
	if err != nil {
		return err
	}
	*a = App(p)
	a.extra = extra
	return nil
}

func (b Binding) MarshalJSON() ([]byte, error) {
	type plain Binding
	return marshalWithExtra(plain(b), b.extra)
}

func (b *Binding) UnmarshalJSON(data []byte) error {
	type plain Binding
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := splitExtra(data, bindingKnownFields)
	if err != nil {
		return err
	}
	*b = Binding(p)
	b.extra = extra
	return nil
}

func marshalWithExtra(known any, extra map[string]json.RawMessage) ([]byte, error) {
	fields, err := json.Marshal(known)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return fields, nil
	}
	out := make(map[string]json.RawMessage, len(extra)+8)
	for k, v := range extra {
		out[k] = v
	}
	var knownMap map[string]json.RawMessage
	if err := json.Unmarshal(fields, &knownMap); err != nil {
		return nil, err
	}
	for k, v := range knownMap {
		out[k] = v
	}
	return json.Marshal(out)
}

func splitExtra(data []byte, knownKeys []string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range knownKeys {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}
