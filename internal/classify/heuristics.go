package classify

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ws matches ASCII whitespace and the no-break spaces PDFs like to emit.
const ws = `[\s\p{Zs}]`

var (
	// articleHeaderRe requires the trailing ".-" that separates a real header
	// from a cross-reference such as "conforme al Artículo 45".
	articleHeaderRe = regexp.MustCompile(`^Artículo` + ws + `+\d+(?:-[A-Z])?` + ws + `*\.-`)

	articleNumberRe = regexp.MustCompile(`Artículo` + ws + `+(\d+)(?:-([A-Z]))?`)

	numberedItemRe = regexp.MustCompile(`^\d+\.`)

	footnoteRefRe = regexp.MustCompile(`(?i)^(?:\(\*+\)` + ws + `*)?(?:ley|decreto` + ws + `+legislativo|decreto` +
		ws + `+supremo|decreto` + ws + `+ley|decreto` + ws + `+de` + ws + `+urgencia|resoluci[oó]n` + ws +
		`+legislativa)` + ws + `+n[°º.o]*` + ws + `*\d`)

	// amendMarkRe matches the (*), (**), ... amendment markers anywhere.
	amendMarkRe = regexp.MustCompile(`\(\*+\)`)

	footnotePhraseRe = regexp.MustCompile(`(?i)(?:publicad|modificad|incorporad|sustituid|reemplazad)[oa]s?` +
		ws + `+(?:el|por)\b`)
)

// quoteGlyphs open or close quoted article titles.
var quoteGlyphs = []string{`"`, "“", "”", "«", "»"}

// Normalize returns the NFC form of a stripped line so lexical rules see
// precomposed accented letters.
func Normalize(line string) string {
	return norm.NFC.String(strings.TrimSpace(line))
}

// IsArticleHeader reports whether line opens an article ("Artículo 12.-").
func IsArticleHeader(line string) bool {
	return articleHeaderRe.MatchString(Normalize(line))
}

// ArticleNumber is the declared number of an article, e.g. 15 or 15-A.
type ArticleNumber struct {
	Number int    `json:"number" yaml:"number"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// String renders the number the way it is printed ("15-A").
func (n ArticleNumber) String() string {
	if n.Suffix == "" {
		return strconv.Itoa(n.Number)
	}
	return strconv.Itoa(n.Number) + "-" + n.Suffix
}

// ParseArticleNumber extracts the declared number from an article header.
// The boolean is false when no number can be read.
func ParseArticleNumber(line string) (ArticleNumber, bool) {
	m := articleNumberRe.FindStringSubmatch(Normalize(line))
	if m == nil {
		return ArticleNumber{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return ArticleNumber{}, false
	}
	return ArticleNumber{Number: n, Suffix: m[2]}, true
}

// IsFootnote reports whether line is an amendment or citation note
// ("(*) Artículo modificado por ...", "Ley N° 28726, publicada el ...").
func IsFootnote(line string) bool {
	s := Normalize(line)
	if s == "" {
		return false
	}
	return amendMarkRe.MatchString(s) || footnoteRefRe.MatchString(s) || footnotePhraseRe.MatchString(s)
}

// IsLikelyTitle reports whether a line without font metadata still looks
// like part of a title block: short, and either quoted or all upper-case.
func IsLikelyTitle(line string) bool {
	s := Normalize(line)
	if s == "" || utf8.RuneCountInString(s) >= 80 {
		return false
	}
	for _, q := range quoteGlyphs {
		if strings.HasPrefix(s, q) {
			return true
		}
	}
	return IsUpper(s)
}

// IsUpper reports whether s has at least one cased letter and no lower-case
// or title-case letters.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
