// Package types provides shared types used across multiple packages.
// This package has no dependencies on other lexsplit packages to avoid import cycles.
package types

// LineType is the structural role assigned to one line of the stream.
type LineType string

const (
	// TypeLibro marks a book heading ("LIBRO PRIMERO").
	TypeLibro LineType = "LIBRO"
	// TypeTitulo marks a title heading ("TÍTULO I").
	TypeTitulo LineType = "TITULO"
	// TypeCapitulo marks a chapter heading ("CAPÍTULO II").
	TypeCapitulo LineType = "CAPITULO"
	// TypeSeccion marks a section heading ("SECCIÓN III").
	TypeSeccion LineType = "SECCION"
	// TypeArticulo marks an article header line ("Artículo 45.-").
	TypeArticulo LineType = "ARTICULO"
	// TypeArtTitle marks the bold short title printed above an article.
	TypeArtTitle LineType = "ART_TITLE"
	// TypeH2 marks a bold all-caps heading that is not a numbered division.
	TypeH2 LineType = "H2"
	// TypeFootnote marks an amendment/citation note. Assigned by the resolver, never by the classifier.
	TypeFootnote LineType = "footnote"
	// TypeContinuation marks the wrapped second line of an article title. Assigned by the resolver.
	TypeContinuation LineType = "continuation"
	// TypeUnclassified is the zero value: the line matched no rule.
	TypeUnclassified LineType = ""
)

// ParseLineType converts a string to a LineType.
// Returns TypeUnclassified if the string is not recognized.
func ParseLineType(s string) LineType {
	switch LineType(s) {
	case TypeLibro, TypeTitulo, TypeCapitulo, TypeSeccion, TypeArticulo,
		TypeArtTitle, TypeH2, TypeFootnote, TypeContinuation:
		return LineType(s)
	default:
		return TypeUnclassified
	}
}

// IsTitleBlock reports whether lines of this type extend an article's title block upward.
func (t LineType) IsTitleBlock() bool {
	switch t {
	case TypeArtTitle, TypeH2, TypeCapitulo, TypeSeccion, TypeTitulo, TypeLibro:
		return true
	}
	return false
}

// String returns the type name, "unclassified" for the zero value.
func (t LineType) String() string {
	if t == TypeUnclassified {
		return "unclassified"
	}
	return string(t)
}
