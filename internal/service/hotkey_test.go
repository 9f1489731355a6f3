package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Alt+V", "Alt+V", false},
		{"ctrl+shift+v", "Ctrl+Shift+V", false},
		{"Control + a", "Ctrl+A", false},
		{"cmd+win+x", "Super+X", false},
		{"Q", "Q", false},
		{"Ctrl+Alt", "", true},
		{"Ctrl+A+B", "", true},
		{"Ctrl++V", "", true},
		{"Ctrl+Enter", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseHotkey(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseHotkey(%q)", tt.in)
			continue
		}
		assert.NoError(t, err, "ParseHotkey(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
