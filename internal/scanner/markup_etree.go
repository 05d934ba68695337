package scanner

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// structuralExtractor parses the markup into an XML tree.
type structuralExtractor struct{}

func (structuralExtractor) Name() string { return string(MarkupStructural) }

func (structuralExtractor) Extract(markup string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(markup); err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	root := findSVG(doc.Root())
	if root == nil {
		return nil, ErrNoSVGRoot
	}

	out := &Document{Root: toElement(root)}
	var walk func(*etree.Element)
	walk = func(parent *etree.Element) {
		for _, child := range parent.ChildElements() {
			tag := strings.ToLower(child.Tag)
			if shapeTags[tag] {
				out.Elements = append(out.Elements, toElement(child))
			}
			// Text content is already collected for <text>; tspans are not shapes.
			if tag != "text" {
				walk(child)
			}
		}
	}
	walk(root)
	return out, nil
}

func findSVG(el *etree.Element) *etree.Element {
	if el == nil {
		return nil
	}
	if strings.EqualFold(el.Tag, "svg") {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := findSVG(child); found != nil {
			return found
		}
	}
	return nil
}

func toElement(el *etree.Element) Element {
	attrs := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		key := a.Key
		if a.Space != "" && a.Space != "xmlns" {
			key = a.Space + ":" + a.Key
		}
		attrs[key] = a.Value
	}
	e := Element{Tag: strings.ToLower(el.Tag), Attrs: attrs}
	if e.Tag == "text" {
		var sb strings.Builder
		innerText(el, &sb)
		e.Text = sb.String()
	}
	return e
}

func innerText(el *etree.Element, sb *strings.Builder) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			innerText(t, sb)
		}
	}
}
