package session

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdinPrompterSelect(t *testing.T) {
	var out bytes.Buffer
	p := NewStdinPrompter(strings.NewReader("2\n"), &out)

	idx, err := p.Select("Pick one", []string{"alpha", "beta", "gamma"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	got := out.String()
	assert.Contains(t, got, "Pick one")
	assert.Contains(t, got, "  1) alpha")
	assert.Contains(t, got, "  3) gamma")
	assert.Contains(t, got, "Choice [1]: ")
}

func TestStdinPrompterSelectDefaultOnEmpty(t *testing.T) {
	var out bytes.Buffer
	p := NewStdinPrompter(strings.NewReader("\n"), &out)

	idx, err := p.Select("Pick one", []string{"alpha", "beta"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "Choice [2]: ")
}

func TestStdinPrompterSelectReasksOnJunk(t *testing.T) {
	var out bytes.Buffer
	p := NewStdinPrompter(strings.NewReader("what\n9\n3\n"), &out)

	idx, err := p.Select("Pick one", []string{"alpha", "beta", "gamma"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 2, strings.Count(out.String(), "Enter a number between 1 and 3."))
}

func TestStdinPrompterSelectEOF(t *testing.T) {
	var out bytes.Buffer
	p := NewStdinPrompter(strings.NewReader(""), &out)

	_, err := p.Select("Pick one", []string{"alpha"}, 0)
	require.ErrorIs(t, err, io.EOF)
}

func TestStdinPrompterConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{"1: yes", "y\n", false, true},
		{"2: yes long", "yes\n", false, true},
		{"3: no", "n\n", true, false},
		{"4: empty takes default true", "\n", true, true},
		{"5: empty takes default false", "\n", false, false},
		{"6: mixed case", "Y\n", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewStdinPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm("Proceed?", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStdinPrompterConfirmReasks(t *testing.T) {
	var out bytes.Buffer
	p := NewStdinPrompter(strings.NewReader("maybe\nn\n"), &out)

	got, err := p.Confirm("Proceed?", true)
	require.NoError(t, err)
	assert.False(t, got)
	assert.Contains(t, out.String(), "Please answer y or n.")
	assert.Contains(t, out.String(), "Proceed? [Y/n]: ")
}
