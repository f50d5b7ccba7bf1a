package extraction

// Access is a C++ member access level.
type Access string

const (
	AccessPrivate   Access = "private"
	AccessProtected Access = "protected"
	AccessPublic    Access = "public"
)

// AccessLevels lists access levels in the order they are rendered.
var AccessLevels = []Access{AccessPrivate, AccessProtected, AccessPublic}

// MemberKind distinguishes the categories a class body line can fall into.
type MemberKind string

const (
	KindField       MemberKind = "field"
	KindMethod      MemberKind = "method"
	KindConstructor MemberKind = "constructor"
)

// SourceUnit is the extraction result for a single header file.
type SourceUnit struct {
	Name         string         `yaml:"name"` // display name, usually the file base name
	Declarations []*Declaration `yaml:"declarations"`
}

// Declaration represents one class block found in a header.
type Declaration struct {
	Name         string      `yaml:"name"`
	Comment      string      `yaml:"comment,omitempty"`
	Parents      []ParentRef `yaml:"parents,omitempty"`
	Constructors []Member    `yaml:"constructors,omitempty"`
	Fields       []Member    `yaml:"fields,omitempty"`
	Methods      []Member    `yaml:"methods,omitempty"`
	Nested       []NestedRef `yaml:"nested,omitempty"`
}

// ParentRef is an entry of a class inheritance list.
type ParentRef struct {
	Name   string `yaml:"name"`
	Access Access `yaml:"access"`
}

// Member is a field, method or constructor/destructor of a declaration.
type Member struct {
	Kind      MemberKind `yaml:"kind"`
	Signature string     `yaml:"signature,omitempty"` // methods and constructors
	Type      string     `yaml:"type,omitempty"`      // fields only
	Name      string     `yaml:"name,omitempty"`      // fields only
	Comment   string     `yaml:"comment,omitempty"`
	Access    Access     `yaml:"access"`
}

// Text returns the text a member is listed under in generated docs.
func (m Member) Text() string {
	if m.Kind == KindField {
		return m.Type + " " + m.Name
	}
	return m.Signature
}

// NestedRef records a class or struct declaration line found inside a body.
type NestedRef struct {
	Name    string `yaml:"name"`
	Access  Access `yaml:"access"`
	Comment string `yaml:"comment,omitempty"`
}

// FieldsByAccess returns the fields declared under the given access level,
// in source order.
func (d *Declaration) FieldsByAccess(access Access) []Member {
	return filterByAccess(d.Fields, access)
}

// MethodsByAccess returns the methods declared under the given access level,
// in source order.
func (d *Declaration) MethodsByAccess(access Access) []Member {
	return filterByAccess(d.Methods, access)
}

func filterByAccess(members []Member, access Access) []Member {
	var out []Member
	for _, m := range members {
		if m.Access == access {
			out = append(out, m)
		}
	}
	return out
}
