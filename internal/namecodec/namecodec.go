// Package namecodec decodes and encodes the tab-delimited serialized-name
// encoding used by the index database for hierarchical symbol names.
//
// The wire format is:
//
//	<delimiter> META <elem0> [NAME <elem1> ...]
//
// where each <elem> is <name> PART <prefix> SIG <postfix>, and the literal
// separators are tab followed by a single ASCII letter: META = "\tm",
// NAME = "\tn", PART = "\ts", SIG = "\tp".
package namecodec

import "strings"

const (
	sepMeta = "\tm"
	sepName = "\tn"
	sepPart = "\ts"
	sepSig  = "\tp"

	defaultDelimiter = "::"
)

// NameElement is one segment of a hierarchical name.
type NameElement struct {
	Name    string
	Prefix  string
	Postfix string
}

// NameHierarchy is the decoded form of a serialized name: a delimiter plus
// an ordered, non-empty list of elements.
type NameHierarchy struct {
	Delimiter string
	Elements  []NameElement
}

// Decode parses a serialized name. It never panics: malformed input yields
// either a clean partial parse or a single-element fallback.
func Decode(serialized string) NameHierarchy {
	metaIdx := strings.Index(serialized, sepMeta)
	if metaIdx < 0 {
		return NameHierarchy{
			Delimiter: defaultDelimiter,
			Elements:  []NameElement{{Name: serialized}},
		}
	}

	delim := serialized[:metaIdx]
	rest := serialized[metaIdx+len(sepMeta):]

	chunks := strings.Split(rest, sepName)
	elements := make([]NameElement, 0, len(chunks))
	for _, chunk := range chunks {
		elem, ok := decodeElement(chunk)
		if !ok {
			break
		}
		elements = append(elements, elem)
	}

	if len(elements) == 0 {
		return NameHierarchy{
			Delimiter: defaultDelimiter,
			Elements:  []NameElement{{Name: serialized}},
		}
	}

	return NameHierarchy{Delimiter: delim, Elements: elements}
}

// decodeElement splits a single "<name> PART <prefix> SIG <postfix>" chunk.
// A chunk missing PART is still accepted as a bare name (a partial parse),
// matching the "yield whatever parsed cleanly" contract.
func decodeElement(chunk string) (NameElement, bool) {
	partIdx := strings.Index(chunk, sepPart)
	if partIdx < 0 {
		return NameElement{Name: chunk}, true
	}

	name := chunk[:partIdx]
	tail := chunk[partIdx+len(sepPart):]

	sigIdx := strings.Index(tail, sepSig)
	if sigIdx < 0 {
		return NameElement{Name: name, Prefix: tail}, true
	}

	return NameElement{
		Name:    name,
		Prefix:  tail[:sigIdx],
		Postfix: tail[sigIdx+len(sepSig):],
	}, true
}

// Encode builds an exact-match lookup key: elements with empty
// prefix/postfix, joined by NAME, prefixed by delimiter+META. This is used
// only for building keys for exact qualified-name lookups, never for
// emission (which preserves prefix/postfix).
func Encode(h NameHierarchy) string {
	var b strings.Builder
	b.WriteString(h.Delimiter)
	b.WriteString(sepMeta)
	for i, e := range h.Elements {
		if i > 0 {
			b.WriteString(sepName)
		}
		b.WriteString(e.Name)
		b.WriteString(sepPart)
		b.WriteString(sepSig)
	}
	return b.String()
}

// FQN computes the fully qualified name: element names joined by the
// hierarchy's delimiter. Prefix/postfix are ignored here but preserved on
// the decoded elements for emission.
func FQN(h NameHierarchy) string {
	names := make([]string, len(h.Elements))
	for i, e := range h.Elements {
		names[i] = e.Name
	}
	return strings.Join(names, h.Delimiter)
}

// LastElement returns the tail element of the hierarchy, or the zero value
// if the hierarchy somehow has no elements (should not occur: Decode always
// yields at least one).
func LastElement(h NameHierarchy) NameElement {
	if len(h.Elements) == 0 {
		return NameElement{}
	}
	return h.Elements[len(h.Elements)-1]
}

// SimpleName returns the last element's name — the unqualified symbol name.
func SimpleName(h NameHierarchy) string {
	return LastElement(h).Name
}
