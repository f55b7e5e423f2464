package tile

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// Normalize converts raw into its canonical form for the given tile size.
//
// The returned tile always carries raw's fields. Canonical is empty when the
// content has no svg element or fails to parse; such tiles are not eligible
// for placement. Normalize never returns an error and never mutates raw.
func Normalize(raw RawTile, size int) NormalizedTile {
	return NormalizedTile{RawTile: raw, Canonical: canonicalize(raw.Content, size)}
}

// NormalizeAll normalizes every tile and drops the ones that are not eligible.
// The relative order of the surviving tiles matches raws.
func NormalizeAll(raws []RawTile, size int) []NormalizedTile {
	out := make([]NormalizedTile, 0, len(raws))
	for _, raw := range raws {
		if t := Normalize(raw, size); t.Eligible() {
			out = append(out, t)
		}
	}
	return out
}

func canonicalize(content string, size int) string {
	if size <= 0 || strings.TrimSpace(content) == "" {
		return ""
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return ""
	}
	root := findSVG(doc)
	if root == nil {
		return ""
	}

	box := naturalBox(root)
	root.RemoveAttr("width")
	root.RemoveAttr("height")

	Walk(root, (*etree.Element).ChildElements, stripFill)

	fsize := float64(size)
	scale := min(fsize/box.w, fsize/box.h)
	tx := (fsize-box.w*scale)/2 - box.x*scale
	ty := (fsize-box.h*scale)/2 - box.y*scale

	group := etree.NewElement("g")
	group.CreateAttr("transform", fmt.Sprintf("translate(%s, %s) scale(%s)", num(tx), num(ty), num(scale)))
	for _, child := range append([]etree.Token(nil), root.Child...) {
		group.AddChild(child)
	}

	bg := etree.NewElement("rect")
	bg.CreateAttr("width", num(fsize))
	bg.CreateAttr("height", num(fsize))
	bg.CreateAttr("fill", "none")

	out := etree.NewDocument()
	wrapper := out.CreateElement("svg")
	wrapper.CreateAttr("width", num(fsize))
	wrapper.CreateAttr("height", num(fsize))
	wrapper.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s", num(fsize), num(fsize)))
	wrapper.CreateAttr("preserveAspectRatio", "xMidYMid meet")
	wrapper.CreateAttr("overflow", "hidden")
	for _, a := range root.Attr {
		if a.Space == "xmlns" {
			wrapper.CreateAttr(a.FullKey(), a.Value)
		}
	}
	wrapper.AddChild(bg)
	wrapper.AddChild(group)

	Walk(group, (*etree.Element).ChildElements, dropDefaultNamespace)

	s, err := out.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// Standalone returns the canonical form as a self-contained document with
// the SVG namespace declared on its root, so it renders outside a composite.
// Ineligible tiles yield "".
func (t NormalizedTile) Standalone() string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(t.Canonical); err != nil || doc.Root() == nil {
		return ""
	}
	if root := doc.Root(); root.SelectAttr("xmlns") == nil {
		root.CreateAttr("xmlns", Namespace)
	}
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// findSVG returns the document's svg element: the root when it is one,
// otherwise the first svg descendant.
func findSVG(doc *etree.Document) *etree.Element {
	root := doc.Root()
	if root == nil {
		return nil
	}
	if root.Tag == "svg" {
		return root
	}
	return root.FindElement(".//svg")
}

// stripFill forces fill="none" on e, including fill declarations in an
// inline style attribute.
func stripFill(e *etree.Element) {
	e.CreateAttr("fill", "none")
	if style := e.SelectAttr("style"); style != nil {
		style.Value = stripStyleFill(style.Value)
	}
}

func dropDefaultNamespace(e *etree.Element) {
	if a := e.SelectAttr("xmlns"); a != nil && a.Space == "" {
		e.RemoveAttr("xmlns")
	}
}

// stripStyleFill rewrites every "fill" declaration in a CSS declaration list
// to "fill:none". Related properties such as fill-opacity are left alone.
func stripStyleFill(style string) string {
	decls := strings.Split(style, ";")
	for i, d := range decls {
		prop, _, ok := strings.Cut(d, ":")
		if ok && strings.TrimSpace(prop) == "fill" {
			decls[i] = "fill:none"
		}
	}
	return strings.Join(decls, ";")
}
