// Package notes builds release notes from commit history. Commit
// messages are parsed as conventional commits and grouped by type;
// messages that do not parse are collected under a catch-all section
// instead of being dropped.
package notes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
)

// otherSection collects commit messages that are not conventional commits.
const otherSection = "other"

// sectionTitles maps commit types to the headings used in rendered notes.
// Types without an entry render under their raw type name.
var sectionTitles = map[string]string{
	"feat":       "Features",
	"fix":        "Fixes",
	"doc":        "Documentation",
	"docs":       "Documentation",
	"format":     "Formatting",
	"refactor":   "Refactoring",
	"test":       "Tests",
	"chore":      "Chores",
	otherSection: "Other Changes",
}

// sectionOrder fixes the ordering of known sections in rendered notes.
var sectionOrder = []string{"feat", "fix", "refactor", "doc", "docs", "format", "test", "chore"}

// Entry is a single commit line attributed to a section.
type Entry struct {
	Type        string
	Scope       string
	Description string
}

// Builder turns commit messages into grouped release notes.
type Builder struct {
	machine conventionalcommits.Machine
}

// NewBuilder creates a release notes builder. Free-form types are
// accepted so project-specific prefixes group cleanly.
func NewBuilder() *Builder {
	return &Builder{
		machine: parser.NewMachine(conventionalcommits.WithTypes(conventionalcommits.TypesFreeForm)),
	}
}

// Build renders markdown release notes for the given tag from the
// commit messages since the previous release, newest first.
func (b *Builder) Build(tagName string, messages []string) string {
	sections := make(map[string][]Entry)

	for _, msg := range messages {
		entry := b.classify(msg)
		sections[entry.Type] = append(sections[entry.Type], entry)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n", tagName))

	for _, typ := range orderedTypes(sections) {
		title, ok := sectionTitles[typ]
		if !ok {
			title = capitalize(typ)
		}
		sb.WriteString(fmt.Sprintf("\n### %s\n\n", title))
		for _, entry := range sections[typ] {
			if entry.Scope != "" {
				sb.WriteString(fmt.Sprintf("- **%s**: %s\n", entry.Scope, entry.Description))
			} else {
				sb.WriteString(fmt.Sprintf("- %s\n", entry.Description))
			}
		}
	}

	return sb.String()
}

// classify parses a commit message into an Entry. The subject line is
// what gets parsed; bodies and trailers are ignored.
func (b *Builder) classify(msg string) Entry {
	subject := msg
	if idx := strings.IndexByte(subject, '\n'); idx >= 0 {
		subject = subject[:idx]
	}
	subject = strings.TrimSpace(subject)

	res, err := b.machine.Parse([]byte(subject))
	if err != nil || res == nil {
		return Entry{Type: otherSection, Description: subject}
	}

	cc, ok := res.(*conventionalcommits.ConventionalCommit)
	if !ok {
		return Entry{Type: otherSection, Description: subject}
	}

	entry := Entry{
		Type:        strings.ToLower(cc.Type),
		Description: cc.Description,
	}
	if cc.Scope != nil {
		entry.Scope = *cc.Scope
	}
	return entry
}

// capitalize upper-cases the first byte of a type name for use as a
// section heading.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// orderedTypes returns the section keys in render order: known types
// first in their fixed order, then unknown types alphabetically, then
// the catch-all section last.
func orderedTypes(sections map[string][]Entry) []string {
	var ordered []string
	seen := make(map[string]bool)

	for _, typ := range sectionOrder {
		if _, ok := sections[typ]; ok {
			ordered = append(ordered, typ)
			seen[typ] = true
		}
	}

	var rest []string
	for typ := range sections {
		if !seen[typ] && typ != otherSection {
			rest = append(rest, typ)
		}
	}
	sort.Strings(rest)
	ordered = append(ordered, rest...)

	if _, ok := sections[otherSection]; ok {
		ordered = append(ordered, otherSection)
	}

	return ordered
}
