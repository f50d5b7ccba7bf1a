package parsers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mickleon/typdoc/internal/extraction"
)

// Patterns are tried independently on each line of a class body. They
// approximate the C++ grammar and deliberately do not cover all of it.
var (
	classPattern       = regexp.MustCompile(`class\s+(\w+)\s*(?::\s*(.*?))?\s*\{`)
	parentPattern      = regexp.MustCompile(`^(public|protected|private)?\s*([\w:]+)`)
	nestedPattern      = regexp.MustCompile(`^(?:class|struct)\s+(\w+)`)
	constructorPattern = regexp.MustCompile(`^(virtual\s+)?~?(\w+)\s*\((.*?)\)\s*(=\s*(default|delete))?\s*(noexcept)?\s*;?`)
	methodPattern      = regexp.MustCompile(`^(virtual\s+)?(static\s+)?([\w\s*&<>:,\[\]]+?)\s+([\w*&]+)\s*\((.*?)\)\s*(const)?\s*(noexcept)?\s*;?`)
	fieldPattern       = regexp.MustCompile(`^([\w\s*&<>:,\[\]]+?)\s+([\w*&]+)\s*(?:=\s*[^;]+)?\s*;`)
)

const lineCommentMarker = "//"

// accessMarkers switch the current access level when a body line starts with them.
var accessMarkers = []struct {
	prefix string
	access extraction.Access
}{
	{"private:", extraction.AccessPrivate},
	{"public:", extraction.AccessPublic},
	{"protected:", extraction.AccessProtected},
}

// CppParser extracts class structure from C++ headers using regular expressions.
type CppParser struct{}

// NewCppParser creates a new C++ header parser.
func NewCppParser() *CppParser {
	return &CppParser{}
}

// ReadFile loads a header file and returns the name its unit is documented
// under (the file's base name) together with the raw source.
func (p *CppParser) ReadFile(ctx context.Context, filePath string) (string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	source, err := os.ReadFile(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return filepath.Base(filePath), source, nil
}

// Parse extracts every class declaration from source, in source order.
// Text that matches no pattern is skipped; Parse never fails.
func (p *CppParser) Parse(name, source string) *extraction.SourceUnit {
	unit := &extraction.SourceUnit{
		Name:         name,
		Declarations: []*extraction.Declaration{},
	}

	for _, m := range classPattern.FindAllStringSubmatchIndex(source, -1) {
		start := m[0]
		end := findClassEnd(source, start)

		var inheritance string
		if m[4] >= 0 {
			inheritance = source[m[4]:m[5]]
		}

		decl := &extraction.Declaration{
			Name:    source[m[2]:m[3]],
			Comment: commentBefore(source, start),
			Parents: parseInheritance(inheritance),
		}
		parseClassBody(source[start:end], decl)
		unit.Declarations = append(unit.Declarations, decl)
	}

	return unit
}

// findClassEnd returns the offset just past the brace that closes the block
// opened at or after start. Unbalanced blocks run to the end of the text.
func findClassEnd(text string, start int) int {
	depth := 0
	opened := false
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
			opened = true
		case '}':
			depth--
			if opened && depth == 0 {
				return i + 1
			}
		}
	}
	return len(text)
}

// parseInheritance parses a base list such as "public A, protected ns::B, C".
func parseInheritance(clause string) []extraction.ParentRef {
	var parents []extraction.ParentRef
	if clause == "" {
		return parents
	}

	for _, part := range strings.Split(clause, ",") {
		m := parentPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		access := extraction.AccessPrivate
		if m[1] != "" {
			access = extraction.Access(m[1])
		}
		parents = append(parents, extraction.ParentRef{Name: m[2], Access: access})
	}
	return parents
}

// commentBefore collects the // comment lines directly above pos. Blank
// lines are skipped, any other line ends the run.
func commentBefore(text string, pos int) string {
	lines := strings.Split(text[:pos], "\n")

	var collected []string
	for i := len(lines) - 1; i >= 0; i-- {
		stripped := strings.TrimSpace(lines[i])
		if strings.HasPrefix(stripped, lineCommentMarker) {
			collected = append(collected, strings.TrimSpace(stripped[len(lineCommentMarker):]))
			continue
		}
		if stripped == "" {
			continue
		}
		break
	}

	// collected is bottom-up
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}
	return strings.Join(collected, " ")
}

// splitInlineComment separates code from a trailing // comment.
func splitInlineComment(line string) (code, comment string) {
	if idx := strings.Index(line, lineCommentMarker); idx != -1 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+len(lineCommentMarker):])
	}
	return strings.TrimSpace(line), ""
}

// parseClassBody walks the block line by line. The access level starts as
// private for every block and is only changed by access marker lines.
func parseClassBody(body string, decl *extraction.Declaration) {
	access := extraction.AccessPrivate

	for _, raw := range strings.Split(body, "\n") {
		line, comment := splitInlineComment(raw)

		if next, ok := accessMarker(line); ok {
			access = next
			continue
		}

		// Nested declarations are recorded but the line stays eligible for
		// member matching below.
		if m := nestedPattern.FindStringSubmatch(line); m != nil {
			decl.Nested = append(decl.Nested, extraction.NestedRef{
				Name:    m[1],
				Access:  access,
				Comment: comment,
			})
		}

		if line == "" || strings.HasPrefix(line, "/*") {
			continue
		}

		if member, ok := matchConstructor(line, decl.Name); ok {
			member.Comment = comment
			member.Access = access
			decl.Constructors = append(decl.Constructors, member)
			continue
		}

		if m := methodPattern.FindStringSubmatch(line); m != nil {
			name := m[4]
			if name == decl.Name {
				continue
			}
			signature := strings.TrimSpace(m[3]) + " " + name + "(" + strings.TrimSpace(m[5]) + ")"
			if m[6] != "" {
				signature += " const"
			}
			decl.Methods = append(decl.Methods, extraction.Member{
				Kind:      extraction.KindMethod,
				Signature: signature,
				Comment:   comment,
				Access:    access,
			})
			continue
		}

		if strings.Contains(line, ";") && !strings.Contains(line, "(") {
			m := fieldPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			fieldType := strings.TrimSpace(m[1])
			if fieldType == "friend" {
				continue
			}
			decl.Fields = append(decl.Fields, extraction.Member{
				Kind:    extraction.KindField,
				Type:    fieldType,
				Name:    strings.TrimSpace(m[2]),
				Comment: comment,
				Access:  access,
			})
		}
	}
}

func accessMarker(line string) (extraction.Access, bool) {
	for _, marker := range accessMarkers {
		if strings.HasPrefix(line, marker.prefix) {
			return marker.access, true
		}
	}
	return "", false
}

// matchConstructor reports whether line declares a constructor or destructor
// of className. Any line carrying "virtual" in the constructor shape also
// qualifies, whatever its name.
func matchConstructor(line, className string) (extraction.Member, bool) {
	m := constructorPattern.FindStringSubmatch(line)
	if m == nil {
		return extraction.Member{}, false
	}

	name := m[2]
	if name != className && m[1] == "" {
		return extraction.Member{}, false
	}

	var signature string
	if strings.HasPrefix(line, "~") {
		signature = "~" + name + "()"
	} else {
		signature = name + "(" + strings.TrimSpace(m[3]) + ")"
	}
	if m[4] != "" {
		signature += " " + m[4]
	}
	// noexcept follows an explicit default/delete specifier, not the
	// keyword itself.
	if m[5] != "" {
		signature += " noexcept"
	}

	return extraction.Member{
		Kind:      extraction.KindConstructor,
		Signature: signature,
	}, true
}
