package formatter

import (
	"fmt"
	"sort"
)

// Labels are the section titles used in generated documents.
type Labels struct {
	Class        string
	Nested       string
	Constructors string
	Fields       string
	Methods      string
}

var labelPresets = map[string]Labels{
	"en": {
		Class:        "Class",
		Nested:       "Nested classes",
		Constructors: "Constructors/destructor",
		Fields:       "Fields",
		Methods:      "Methods",
	},
	"ru": {
		Class:        "Класс",
		Nested:       "Вложенные классы",
		Constructors: "Конструкторы/деструктор",
		Fields:       "Поля",
		Methods:      "Методы",
	},
}

// DefaultLabels returns the English labels.
func DefaultLabels() Labels {
	return labelPresets["en"]
}

// LabelsFor returns the labels of a named preset.
func LabelsFor(name string) (Labels, error) {
	labels, ok := labelPresets[name]
	if !ok {
		return Labels{}, fmt.Errorf("unknown label preset %q (available: %v)", name, LabelPresets())
	}
	return labels, nil
}

// LabelPresets lists the preset names in sorted order.
func LabelPresets() []string {
	names := make([]string, 0, len(labelPresets))
	for name := range labelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
