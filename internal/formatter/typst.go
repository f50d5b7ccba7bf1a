package formatter

import (
	"fmt"
	"strings"

	"github.com/mickleon/typdoc/internal/extraction"
)

// Formatter turns extracted header structure into a document.
type Formatter interface {
	// Format renders all units in order as a single document.
	Format(units []*extraction.SourceUnit) string

	// FormatUnit renders the section for one header file.
	FormatUnit(unit *extraction.SourceUnit) string
}

// typstFormatter renders Typst markup.
type typstFormatter struct {
	labels Labels
}

// NewTypstFormatter creates a formatter producing Typst markup with the given
// section labels.
func NewTypstFormatter(labels Labels) Formatter {
	return &typstFormatter{labels: labels}
}

// Format joins the per-unit sections with a newline, in input order.
func (f *typstFormatter) Format(units []*extraction.SourceUnit) string {
	docs := make([]string, 0, len(units))
	for _, unit := range units {
		docs = append(docs, f.FormatUnit(unit))
	}
	return strings.Join(docs, "\n")
}

// FormatUnit renders the heading for the unit followed by every class it declares.
func (f *typstFormatter) FormatUnit(unit *extraction.SourceUnit) string {
	w := &lineWriter{}
	w.line(fmt.Sprintf("= `%s`\n", unit.Name))

	for _, decl := range unit.Declarations {
		f.formatDeclaration(w, decl)
	}

	return w.String()
}

func (f *typstFormatter) formatDeclaration(w *lineWriter, decl *extraction.Declaration) {
	header := decl.Name
	if len(decl.Parents) > 0 {
		parts := make([]string, 0, len(decl.Parents))
		for _, parent := range decl.Parents {
			parts = append(parts, fmt.Sprintf("%s %s", parent.Access, parent.Name))
		}
		header += ": " + strings.Join(parts, ", ")
	}
	w.line(fmt.Sprintf("== %s `%s`\n", f.labels.Class, header))

	if decl.Comment != "" {
		w.line(decl.Comment + "\n")
	}

	// The first nested entry is skipped.
	if len(decl.Nested) > 1 {
		w.line(boldLabel(f.labels.Nested))
		for _, nested := range decl.Nested[1:] {
			w.line(listItem(nested.Name, nested.Comment))
		}
		w.line("")
	}

	if len(decl.Constructors) > 0 {
		w.line(boldLabel(f.labels.Constructors))
		for _, c := range decl.Constructors {
			w.line(listItem(c.Text(), c.Comment))
		}
		w.line("")
	}

	f.formatGrouped(w, f.labels.Fields, decl.FieldsByAccess)
	f.formatGrouped(w, f.labels.Methods, decl.MethodsByAccess)
}

// formatGrouped writes a labelled section with one sub-list per non-empty
// access level. Nothing is written when every level is empty.
func (f *typstFormatter) formatGrouped(w *lineWriter, label string, byAccess func(extraction.Access) []extraction.Member) {
	groups := make(map[extraction.Access][]extraction.Member, len(extraction.AccessLevels))
	total := 0
	for _, access := range extraction.AccessLevels {
		groups[access] = byAccess(access)
		total += len(groups[access])
	}
	if total == 0 {
		return
	}

	w.line(boldLabel(label))
	for _, access := range extraction.AccessLevels {
		members := groups[access]
		if len(members) == 0 {
			continue
		}
		w.line(fmt.Sprintf("%s:\n", access))
		for _, m := range members {
			w.line(listItem(m.Text(), m.Comment))
		}
		w.line("")
	}
}

func boldLabel(label string) string {
	return fmt.Sprintf("*%s*\n", label)
}

// listItem renders a bullet with the code in raw markup and an optional comment.
func listItem(code, comment string) string {
	if comment != "" {
		return fmt.Sprintf("- `%s` #linebreak() %s.", code, comment)
	}
	return fmt.Sprintf("- `%s`", code)
}

// lineWriter accumulates output lines that are joined with "\n".
type lineWriter struct {
	lines []string
}

func (w *lineWriter) line(s string) {
	w.lines = append(w.lines, s)
}

func (w *lineWriter) String() string {
	return strings.Join(w.lines, "\n")
}
