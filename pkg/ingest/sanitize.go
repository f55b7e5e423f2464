package ingest

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/truchet/pkg/tile"
)

// unsafeElements are removed along with their subtrees.
var unsafeElements = map[string]bool{
	"script":        true,
	"foreignObject": true,
	"iframe":        true,
	"embed":         true,
	"object":        true,
}

// animationElements can rewrite another attribute at runtime.
var animationElements = map[string]bool{
	"animate":          true,
	"set":              true,
	"animateMotion":    true,
	"animateTransform": true,
}

// Sanitize strips active content from untrusted SVG markup: script-like
// elements, animations that set an href, on* event handler attributes, and
// href or animation values using the javascript: scheme. Content that does not parse is returned unchanged;
// the normalizer rejects it later.
func Sanitize(content string) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return content
	}

	changed := false
	for _, root := range doc.ChildElements() {
		tile.Walk(root, children, func(e *etree.Element) {
			for _, c := range e.ChildElements() {
				if unsafeElement(c) {
					e.RemoveChild(c)
					changed = true
				}
			}
			for i := len(e.Attr) - 1; i >= 0; i-- {
				if unsafeAttr(e.Attr[i]) {
					e.RemoveAttr(e.Attr[i].FullKey())
					changed = true
				}
			}
		})
	}
	for _, c := range doc.ChildElements() {
		if unsafeElement(c) {
			doc.RemoveChild(c)
			changed = true
		}
	}
	if !changed {
		return content
	}

	out, err := doc.WriteToString()
	if err != nil {
		return content
	}
	return out
}

func children(e *etree.Element) []*etree.Element {
	return e.ChildElements()
}

func unsafeElement(e *etree.Element) bool {
	if unsafeElements[e.Tag] {
		return true
	}
	if !animationElements[e.Tag] {
		return false
	}
	target := strings.ToLower(strings.TrimSpace(e.SelectAttrValue("attributeName", "")))
	return target == "href" || strings.HasSuffix(target, ":href")
}

func unsafeAttr(a etree.Attr) bool {
	key := strings.ToLower(a.Key)
	if strings.HasPrefix(key, "on") {
		return true
	}
	switch key {
	case "href":
		return strings.HasPrefix(compact(a.Value), "javascript:")
	case "values", "to", "from", "by":
		return strings.Contains(compact(a.Value), "javascript:")
	}
	return false
}

// compact lowercases v and drops all whitespace, so "java script:" and
// "JavaScript:" compare equal.
func compact(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), ""))
}
