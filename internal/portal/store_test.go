package portal

import (
	"context"
	"errors"
	"testing"
)

func TestDconfStoreLookup(t *testing.T) {
	dump := `[('other', {'shortcuts': <['<Super>x']>}), ('toggle-recording', {'shortcuts': <['<Control><Alt>r']>, 'description': <'Start or stop dictation'>})]`
	var gotKey string
	s := DconfStore{Run: func(ctx context.Context, key string) ([]byte, error) {
		gotKey = key
		return []byte(dump + "\n"), nil
	}}

	b, ok, err := s.Lookup(t.Context(), "io.github.petems.WhisperHotkey", "toggle-recording")
	if err != nil || !ok {
		t.Fatalf("Lookup() ok=%v err=%v", ok, err)
	}
	if b.TriggerDescription != "ctrl+alt+r" {
		t.Fatalf("TriggerDescription = %q, want ctrl+alt+r", b.TriggerDescription)
	}
	if gotKey != "/org/gnome/settings-daemon/global-shortcuts/io.github.petems.WhisperHotkey/shortcuts" {
		t.Fatalf("read key %q", gotKey)
	}
}

func TestDconfStoreMissing(t *testing.T) {
	tests := []struct {
		name string
		dump string
	}{
		{"unset key", ""},
		{"other shortcut only", `[('other', {'shortcuts': <['<Super>x']>})]`},
		{"no trigger", `[('toggle-recording', {'shortcuts': <@as []>})]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DconfStore{Run: func(ctx context.Context, key string) ([]byte, error) {
				return []byte(tt.dump), nil
			}}
			_, ok, err := s.Lookup(t.Context(), "app", "toggle-recording")
			if err != nil || ok {
				t.Fatalf("Lookup() ok=%v err=%v, want not found", ok, err)
			}
		})
	}
}

func TestDconfStoreCommandFailure(t *testing.T) {
	s := DconfStore{Run: func(ctx context.Context, key string) ([]byte, error) {
		return nil, errors.New("exec: \"dconf\": executable file not found in $PATH")
	}}
	if _, _, err := s.Lookup(t.Context(), "app", "toggle-recording"); err == nil {
		t.Fatal("expected an error when dconf cannot run")
	}
}
