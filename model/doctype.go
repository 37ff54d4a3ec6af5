package model

import (
	"fmt"
	"strings"
)

// DocumentType selects a preprocessing profile. The set is closed; anything
// unrecognized resolves to DocumentGeneral.
type DocumentType string

// Known document types. The empty type asks the pipeline to auto-detect.
const (
	DocumentAuto      DocumentType = ""
	DocumentNutrition DocumentType = "nutritionLabel"
	DocumentCustoms   DocumentType = "customsDocument"
	DocumentGeneral   DocumentType = "generalDocument"
)

// DocumentTypes lists the known types in a stable order
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentNutrition, DocumentCustoms, DocumentGeneral}
}

// IsKnown reports whether t is one of the closed set of types
func (t DocumentType) IsKnown() bool {
	switch t {
	case DocumentNutrition, DocumentCustoms, DocumentGeneral:
		return true
	}
	return false
}

// Resolve maps unknown types to DocumentGeneral
func (t DocumentType) Resolve() DocumentType {
	if t.IsKnown() {
		return t
	}
	return DocumentGeneral
}

// ParseDocumentType accepts the canonical names plus the snake_case and
// kebab-case spellings used by older configuration files.
func ParseDocumentType(s string) (DocumentType, error) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	switch key {
	case "nutritionlabel", "nutrition":
		return DocumentNutrition, nil
	case "customsdocument", "customs":
		return DocumentCustoms, nil
	case "generaldocument", "general":
		return DocumentGeneral, nil
	case "", "auto":
		return DocumentAuto, nil
	}
	return DocumentGeneral, fmt.Errorf("unknown document type %q", s)
}
