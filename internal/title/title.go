// Package title resolves wiki link targets into namespaced page titles.
package title

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrMalformedTarget is returned when a link target cannot name a page.
var ErrMalformedTarget = errors.New("malformed link target")

// Namespace is a wiki namespace such as Category or File.
type Namespace struct {
	ID   int
	Name string
}

// Canonical namespace IDs (the MediaWiki numbering).
const (
	NSMain      = 0
	NSTalk      = 1
	NSUser      = 2
	NSProject   = 4
	NSFile      = 6
	NSMediaWiki = 8
	NSTemplate  = 10
	NSHelp      = 12
	NSCategory  = 14
	NSPortal    = 100
)

// Title is a resolved link target.
type Title struct {
	Namespace Namespace
	Text      string
	Fragment  string
}

// String renders the title in Namespace:Text form.
func (t Title) String() string {
	if t.Namespace.ID == NSMain {
		return t.Text
	}
	return t.Namespace.Name + ":" + t.Text
}

// Resolver turns raw link targets into titles.
type Resolver interface {
	Resolve(target string) (Title, error)
}

// NamespaceTable resolves targets against a fixed set of namespaces.
type NamespaceTable struct {
	byName map[string]Namespace
	byID   map[int]Namespace
}

// NewNamespaceTable builds a table from namespaces plus extra aliases
// (alias name -> namespace ID). Lookups are case-insensitive.
func NewNamespaceTable(namespaces []Namespace, aliases map[string]int) *NamespaceTable {
	t := &NamespaceTable{
		byName: make(map[string]Namespace, len(namespaces)+len(aliases)),
		byID:   make(map[int]Namespace, len(namespaces)),
	}
	for _, ns := range namespaces {
		t.byID[ns.ID] = ns
		if ns.ID != NSMain {
			t.byName[foldName(ns.Name)] = ns
		}
	}
	for alias, id := range aliases {
		if ns, ok := t.byID[id]; ok {
			t.byName[foldName(alias)] = ns
		}
	}
	return t
}

// DefaultNamespaces returns the English Wikipedia namespace table.
func DefaultNamespaces() *NamespaceTable {
	return NewNamespaceTable([]Namespace{
		{NSMain, ""},
		{NSTalk, "Talk"},
		{NSUser, "User"},
		{3, "User talk"},
		{NSProject, "Wikipedia"},
		{5, "Wikipedia talk"},
		{NSFile, "File"},
		{7, "File talk"},
		{NSMediaWiki, "MediaWiki"},
		{9, "MediaWiki talk"},
		{NSTemplate, "Template"},
		{11, "Template talk"},
		{NSHelp, "Help"},
		{13, "Help talk"},
		{NSCategory, "Category"},
		{15, "Category talk"},
		{NSPortal, "Portal"},
		{101, "Portal talk"},
		{-1, "Special"},
		{-2, "Media"},
	}, map[string]int{
		"WP":         NSProject,
		"Project":    NSProject,
		"Image":      NSFile,
		"Image talk": 7,
		"WT":         5,
	})
}

// Namespace looks up a namespace by ID.
func (t *NamespaceTable) Namespace(id int) (Namespace, bool) {
	ns, ok := t.byID[id]
	return ns, ok
}

// Lookup finds a namespace by name or alias.
func (t *NamespaceTable) Lookup(name string) (Namespace, bool) {
	ns, ok := t.byName[foldName(normalizeSpaces(name))]
	return ns, ok
}

// Resolve implements Resolver.
func (t *NamespaceTable) Resolve(target string) (Title, error) {
	s := norm.NFC.String(target)
	s = strings.TrimPrefix(strings.TrimSpace(s), ":")

	var fragment string
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s, fragment = s[:i], strings.TrimSpace(s[i+1:])
	}
	s = normalizeSpaces(s)

	if i := strings.IndexFunc(s, illegal); i >= 0 {
		r, _ := utf8.DecodeRuneInString(s[i:])
		return Title{}, fmt.Errorf("%w: %q contains %q", ErrMalformedTarget, target, r)
	}

	mainNS, _ := t.Namespace(NSMain)
	res := Title{Namespace: mainNS, Fragment: fragment}

	if prefix, rest, ok := strings.Cut(s, ":"); ok {
		if ns, found := t.Lookup(prefix); found {
			res.Namespace = ns
			s = strings.TrimSpace(rest)
		}
	}
	if s == "" {
		return Title{}, fmt.Errorf("%w: %q has no page name", ErrMalformedTarget, target)
	}
	res.Text = upperFirst(s)
	return res, nil
}

// IsCategory reports whether t lives in the Category namespace.
func (t Title) IsCategory() bool {
	return t.Namespace.ID == NSCategory
}

func illegal(r rune) bool {
	switch r {
	case '<', '>', '[', ']', '{', '}', '|':
		return true
	}
	return unicode.IsControl(r) || r == utf8.RuneError
}

// normalizeSpaces maps underscores to spaces and collapses whitespace runs.
func normalizeSpaces(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

func foldName(s string) string {
	return strings.ToLower(s)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
