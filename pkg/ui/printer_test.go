package ui_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/types"
	"github.com/arthur-debert/cpgen/pkg/ui"
	"github.com/stretchr/testify/assert"
)

func newTextPrinter() (*ui.Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return ui.NewPrinter(&out, &errOut, ui.FormatText), &out, &errOut
}

func TestNewPrinter_AutoOnBufferIsText(t *testing.T) {
	var out bytes.Buffer
	p := ui.NewPrinter(&out, &out, ui.FormatAuto)
	assert.Equal(t, ui.FormatText, p.Format())
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			expected: "Error: boom",
		},
		{
			name:     "stage from code",
			err:      errors.New(errors.ErrFetchFailed, "downloading templates"),
			expected: "Error [fetch]: downloading templates",
		},
		{
			name:     "wrapped cause",
			err:      errors.Wrap(fmt.Errorf("permission denied"), errors.ErrCopyFailed, "copying lib"),
			expected: "Error [copy]: copying lib: permission denied",
		},
		{
			name:     "explicit stage detail wins",
			err:      errors.New(errors.ErrInvalidInput, "bad").WithDetail(errors.DetailStage, "select"),
			expected: "Error [select]: bad",
		},
		{
			name:     "code without stage",
			err:      errors.New(errors.ErrInternal, "unexpected"),
			expected: "Error: unexpected",
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("add-library: %w", errors.New(errors.ErrExtractFailed, "corrupt archive")),
			expected: "Error [extract]: corrupt archive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ui.FormatError(tt.err))
		})
	}
}

func TestPrinter_Error(t *testing.T) {
	p, out, errOut := newTextPrinter()
	p.Error(errors.New(errors.ErrCacheUnavailable, "templates not installed"))

	assert.Empty(t, out.String())
	assert.Equal(t, "Error [cache]: templates not installed\n", errOut.String())
}

func TestPrinter_Created(t *testing.T) {
	p, out, _ := newTextPrinter()
	p.Created(&types.CreateResult{
		Kind:        types.KindLibrary,
		Name:        "core",
		Destination: "/work/demo",
		Created:     []string{"/work/demo/core", "/work/demo/core/CMakeLists.txt"},
		Skipped:     []string{"/work/demo/CMakeLists.txt"},
		Unresolved:  []types.Placeholder{{Path: "/work/demo/core/x.cpp", Key: "author"}},
	})

	got := out.String()
	assert.Contains(t, got, "Created library core at /work/demo")
	assert.Contains(t, got, "2 paths created, 1 existing path kept")
	assert.Contains(t, got, "unresolved __author__ in content of /work/demo/core/x.cpp")
	assert.NotContains(t, got, "+ /work/demo/core")
}

func TestPrinter_CreatedVerbose(t *testing.T) {
	p, out, _ := newTextPrinter()
	p.SetVerbose(true)
	p.Created(&types.CreateResult{
		Kind:        types.KindProject,
		Name:        "demo",
		Destination: "/work/demo",
		Created:     []string{"/work/demo"},
		Skipped:     []string{"/work/demo/README.md"},
	})

	got := out.String()
	assert.Contains(t, got, "1 path created")
	assert.Contains(t, got, "+ /work/demo\n")
	assert.Contains(t, got, "= /work/demo/README.md\n")
}

func TestPrinter_Updated(t *testing.T) {
	p, out, _ := newTextPrinter()
	p.Updated(&types.UpdateResult{
		URL:          "https://example.com/t.tar.gz",
		TemplateRoot: "/home/u/.cpgen/templates",
		Entries:      12,
		Replaced:     true,
	})

	assert.Contains(t, out.String(), "Updated templates from https://example.com/t.tar.gz")
	assert.Contains(t, out.String(), "12 entries in /home/u/.cpgen/templates")
}

func TestPrinter_SpinnerIsNoopOnText(t *testing.T) {
	p, _, errOut := newTextPrinter()
	sp := p.StartSpinner("downloading")
	sp.Stop()
	assert.Empty(t, errOut.String())
}
