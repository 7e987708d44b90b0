package model

// DocumentType is one of the five recognized document categories.
type DocumentType string

// Recognized document types. Matching is exact and case-sensitive.
const (
	DocumentTypeCBC          DocumentType = "COMPLETE BLOOD COUNT"
	DocumentTypeBMP          DocumentType = "BASIC METABOLIC PANEL"
	DocumentTypeXRay         DocumentType = "X-RAY"
	DocumentTypeCT           DocumentType = "CT"
	DocumentTypeClinicalNote DocumentType = "CLINICAL NOTE"
)

// DocumentTypes lists every recognized type in display order.
var DocumentTypes = []DocumentType{
	DocumentTypeCBC,
	DocumentTypeBMP,
	DocumentTypeXRay,
	DocumentTypeCT,
	DocumentTypeClinicalNote,
}

// DocumentTypeInfo is the display metadata for a document type.
type DocumentTypeInfo struct {
	Type      DocumentType
	Label     string
	ShortCode string
	Icon      string
	Color     string
}

var documentTypeInfo = map[DocumentType]DocumentTypeInfo{
	DocumentTypeCBC:          {Type: DocumentTypeCBC, Label: "Complete Blood Count", ShortCode: "CBC", Icon: "🩸", Color: "#DC2626"},
	DocumentTypeBMP:          {Type: DocumentTypeBMP, Label: "Basic Metabolic Panel", ShortCode: "BMP", Icon: "🔬", Color: "#2563EB"},
	DocumentTypeXRay:         {Type: DocumentTypeXRay, Label: "X-Ray", ShortCode: "XR", Icon: "🩻", Color: "#9333EA"},
	DocumentTypeCT:           {Type: DocumentTypeCT, Label: "CT Scan", ShortCode: "CT", Icon: "🩻", Color: "#4F46E5"},
	DocumentTypeClinicalNote: {Type: DocumentTypeClinicalNote, Label: "Clinical Note", ShortCode: "NOTE", Icon: "📋", Color: "#16A34A"},
}

// Valid reports whether t is a recognized document type.
func (t DocumentType) Valid() bool {
	_, ok := documentTypeInfo[t]
	return ok
}

// Info returns the display metadata for t. Unrecognized types get a neutral fallback.
func (t DocumentType) Info() DocumentTypeInfo {
	if info, ok := documentTypeInfo[t]; ok {
		return info
	}
	return DocumentTypeInfo{Type: t, Label: string(t), ShortCode: "?", Icon: "📄", Color: "#6B7280"}
}

// ParseDocumentType returns the recognized type named exactly s.
func ParseDocumentType(s string) (DocumentType, bool) {
	t := DocumentType(s)
	return t, t.Valid()
}

// DocumentTypeNames returns the wire names of every recognized type.
func DocumentTypeNames() []string {
	names := make([]string, len(DocumentTypes))
	for i, t := range DocumentTypes {
		names[i] = string(t)
	}
	return names
}
