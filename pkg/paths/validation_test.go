package paths

import (
	"testing"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidateComponentName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "mylib", false},
		{"underscored", "my_lib_2", false},
		{"dashed", "my-lib", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"space", "my lib", true},
		{"colon", "a:b", true},
		{"control", "a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComponentName("library", tt.input)
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContainsPath(t *testing.T) {
	tests := []struct {
		parent string
		child  string
		want   bool
	}{
		{"/stage", "/stage/templates/a", true},
		{"/stage", "/stage", true},
		{"/stage", "/stage/../etc/passwd", false},
		{"/stage", "/stagex/file", false},
		{"/stage", "/other", false},
		{"/stage", "/stage/a/../../b", false},
		{"/stage", "/stage/..foo", true},
	}

	for _, tt := range tests {
		t.Run(tt.child, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsPath(tt.parent, tt.child))
		})
	}
}
