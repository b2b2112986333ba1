package title

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	table := DefaultNamespaces()

	tests := []struct {
		target   string
		nsID     int
		text     string
		fragment string
		str      string
	}{
		{"bird", NSMain, "Bird", "", "Bird"},
		{"Category:Birds", NSCategory, "Birds", "", "Category:Birds"},
		{"category:birds_of_prey", NSCategory, "Birds of prey", "", "Category:Birds of prey"},
		{":Category:Birds", NSCategory, "Birds", "", "Category:Birds"},
		{"Image:Eagle.jpg", NSFile, "Eagle.jpg", "", "File:Eagle.jpg"},
		{"WP:NPOV", NSProject, "NPOV", "", "Wikipedia:NPOV"},
		{"User_talk:Someone", 3, "Someone", "", "User talk:Someone"},
		{"Eagle#Diet", NSMain, "Eagle", "Diet", "Eagle"},
		{"Star Wars: Episode I", NSMain, "Star Wars: Episode I", "", "Star Wars: Episode I"},
		{"  spaced   out  ", NSMain, "Spaced out", "", "Spaced out"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, err := table.Resolve(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.nsID, got.Namespace.ID)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.fragment, got.Fragment)
			assert.Equal(t, tt.str, got.String())
			assert.Equal(t, tt.nsID == NSCategory, got.IsCategory())
		})
	}
}

func TestResolve_Malformed(t *testing.T) {
	table := DefaultNamespaces()
	for _, target := range []string{"", "   ", "#only-fragment", "Category:", "a[b", "x|y", "{{tmpl}}", "bad\x00char"} {
		_, err := table.Resolve(target)
		assert.ErrorIs(t, err, ErrMalformedTarget, "target %q", target)
	}
}

func TestResolve_NormalizesToNFC(t *testing.T) {
	table := DefaultNamespaces()
	// "e" followed by a combining acute accent.
	got, err := table.Resolve("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9", got.Text)
}

func TestLookup(t *testing.T) {
	table := DefaultNamespaces()

	ns, ok := table.Lookup("CATEGORY")
	require.True(t, ok)
	assert.Equal(t, NSCategory, ns.ID)

	_, ok = table.Lookup("Cat")
	assert.False(t, ok)

	ns, ok = table.Namespace(NSFile)
	require.True(t, ok)
	assert.Equal(t, "File", ns.Name)
}

func TestCustomTable(t *testing.T) {
	table := NewNamespaceTable([]Namespace{
		{NSMain, ""},
		{NSCategory, "Kategorie"},
	}, map[string]int{"Kat": NSCategory, "Dangling": 999})

	got, err := table.Resolve("Kat:Vögel")
	require.NoError(t, err)
	assert.True(t, got.IsCategory())
	assert.Equal(t, "Kategorie:Vögel", got.String())

	got, err = table.Resolve("Category:Birds")
	require.NoError(t, err)
	assert.False(t, got.IsCategory())
	assert.Equal(t, "Category:Birds", got.Text)

	_, ok := table.Lookup("Dangling")
	assert.False(t, ok)
}
