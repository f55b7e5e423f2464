package tile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
)

// defaultExtent is the width and height assumed when the source declares
// neither a viewBox nor a usable width/height.
const defaultExtent = 24.0

// box is an SVG viewBox: origin plus extent.
type box struct {
	x, y, w, h float64
}

// leadingNumber matches the numeric prefix of a length such as "48px".
var leadingNumber = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// naturalBox returns the source coordinate box of root. When root has no
// usable viewBox, one is derived from width/height and written back.
func naturalBox(root *etree.Element) box {
	if b, ok := parseViewBox(root.SelectAttrValue("viewBox", "")); ok {
		if b.w <= 0 || b.h <= 0 {
			return box{w: defaultExtent, h: defaultExtent}
		}
		return b
	}

	b := box{
		w: parseLength(root.SelectAttrValue("width", ""), defaultExtent),
		h: parseLength(root.SelectAttrValue("height", ""), defaultExtent),
	}
	if b.w <= 0 {
		b.w = defaultExtent
	}
	if b.h <= 0 {
		b.h = defaultExtent
	}
	root.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s", num(b.w), num(b.h)))
	return b
}

// parseViewBox parses "min-x min-y width height", separated by whitespace
// and/or commas. It reports false unless exactly four numbers are present.
func parseViewBox(s string) (box, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) != 4 {
		return box{}, false
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return box{}, false
		}
		v[i] = n
	}
	return box{x: v[0], y: v[1], w: v[2], h: v[3]}, true
}

// parseLength returns the numeric prefix of s, or dflt when there is none.
func parseLength(s string, dflt float64) float64 {
	m := leadingNumber.FindString(s)
	if m == "" {
		return dflt
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return dflt
	}
	return n
}

// num formats v with the fewest digits that round-trip.
func num(v float64) string {
	if v == 0 {
		return "0" // avoid "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
