package main

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"xgc-go/packages/compiler/markup"
	"xgc-go/packages/compiler/util"
)

// frontend converts one markup file into the node stream the generator
// consumes. It covers the element forms the generator understands; text
// content inside property elements is rejected.
type frontend struct {
	file       *util.ParseSourceFile
	lineStarts []int
	prefixes   map[string]string
	nsToPrefix map[string]string
	events     []*markup.Event
	frames     []*frontendFrame
	doc        *markup.Document
	rootSeen   bool
}

type frontendFrame struct {
	object        *markup.ObjectNode
	member        bool
	directContent bool
}

// parseDocument parses one markup file into a Document
func parseDocument(content []byte, relativePath string) (*markup.Document, error) {
	f := &frontend{
		file:       util.NewParseSourceFile(string(content), relativePath),
		prefixes:   map[string]string{},
		nsToPrefix: map[string]string{},
	}
	f.indexLines(content)
	f.doc = &markup.Document{
		File:         f.file,
		RelativePath: relativePath,
		RootKind:     markup.RootKindOrdinary,
		Prefixes:     f.prefixes,
	}

	dec := xml.NewDecoder(bytes.NewReader(content))
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", relativePath, err)
		}
		span := f.spanAt(int(offset))
		switch t := tok.(type) {
		case xml.StartElement:
			if err := f.startElement(t, span); err != nil {
				return nil, err
			}
		case xml.EndElement:
			f.endElement(span)
		case xml.CharData:
			if err := f.charData(t, span); err != nil {
				return nil, err
			}
		}
	}
	if !f.rootSeen {
		return nil, fmt.Errorf("%s: document has no root element", relativePath)
	}
	f.doc.Stream = markup.NewNodeStream(f.events)
	return f.doc, nil
}

func (f *frontend) top() *frontendFrame {
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[len(f.frames)-1]
}

func (f *frontend) startElement(t xml.StartElement, span *util.ParseSourceSpan) error {
	top := f.top()

	// a dotted element inside an object opens a property element
	if top != nil && !top.member && strings.Contains(t.Name.Local, ".") {
		f.events = append(f.events, &markup.Event{
			Kind: markup.EventStartMember,
			Member: &markup.MemberNode{
				Name:       f.qualify(t.Name),
				SourceSpan: span,
			},
			SourceSpan: span,
		})
		f.frames = append(f.frames, &frontendFrame{member: true})
		return nil
	}

	node := &markup.ObjectNode{SourceSpan: span}
	// namespace declarations first so sibling attributes and the element
	// name qualify against the prefixes this element introduces
	for _, attr := range t.Attr {
		if isNamespaceDecl(attr) {
			f.recordNamespace(node, attr, span)
		}
	}
	for _, attr := range t.Attr {
		if !isNamespaceDecl(attr) {
			f.recordAttribute(node, attr, span)
		}
	}
	node.Name = f.qualify(t.Name)

	if !f.rootSeen {
		f.rootSeen = true
		f.describeRoot(node)
	}

	f.events = append(f.events, &markup.Event{
		Kind:       markup.EventStartObject,
		Object:     node,
		SourceSpan: span,
	})
	f.frames = append(f.frames, &frontendFrame{
		object:        node,
		directContent: top != nil && !top.member,
	})
	return nil
}

func (f *frontend) endElement(span *util.ParseSourceSpan) {
	frame := f.top()
	if frame == nil {
		return
	}
	f.frames = f.frames[:len(f.frames)-1]
	if frame.member {
		f.events = append(f.events, &markup.Event{Kind: markup.EventEndMember, SourceSpan: span})
		return
	}
	f.events = append(f.events, &markup.Event{
		Kind:       markup.EventEndObject,
		Object:     frame.object,
		SourceSpan: span,
	})
	if frame.directContent {
		f.events = append(f.events, &markup.Event{Kind: markup.EventEndMemberCollection, SourceSpan: span})
	}
}

func (f *frontend) charData(t xml.CharData, span *util.ParseSourceSpan) error {
	text := strings.TrimSpace(string(t))
	if text == "" {
		return nil
	}
	frame := f.top()
	if frame == nil {
		return nil
	}
	if frame.member {
		return fmt.Errorf("%s: character content inside a property element is not supported", span)
	}
	frame.object.Text += text
	return nil
}

func isNamespaceDecl(attr xml.Attr) bool {
	return attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns")
}

// recordNamespace keeps a namespace declaration in the prefix tables
func (f *frontend) recordNamespace(node *markup.ObjectNode, attr xml.Attr, span *util.ParseSourceSpan) {
	if attr.Name.Space == "xmlns" {
		f.prefixes[attr.Name.Local] = attr.Value
		f.nsToPrefix[attr.Value] = attr.Name.Local
		node.Attributes = append(node.Attributes, &markup.Attribute{
			Name:       markup.QualifiedName{Namespace: markup.XmlnsNamespace, Local: attr.Name.Local},
			Value:      attr.Value,
			SourceSpan: span,
		})
		return
	}
	f.prefixes[""] = attr.Value
	node.Attributes = append(node.Attributes, &markup.Attribute{
		Name:       markup.QualifiedName{Namespace: markup.XmlnsNamespace, Local: ""},
		Value:      attr.Value,
		SourceSpan: span,
	})
}

// recordAttribute adds an ordinary attribute; unprefixed names qualify
// against the default namespace so attached-property syntax resolves
func (f *frontend) recordAttribute(node *markup.ObjectNode, attr xml.Attr, span *util.ParseSourceSpan) {
	space := attr.Name.Space
	if space == "" {
		space = f.prefixes[""]
	}
	node.Attributes = append(node.Attributes, &markup.Attribute{
		Name: markup.QualifiedName{
			Prefix:    f.nsToPrefix[space],
			Namespace: space,
			Local:     attr.Name.Local,
		},
		Value:      attr.Value,
		SourceSpan: span,
	})
}

// describeRoot fills the document metadata derived from the root element
func (f *frontend) describeRoot(node *markup.ObjectNode) {
	switch node.Name.Local {
	case "Application":
		f.doc.RootKind = markup.RootKindApplication
	case "ResourceDictionary":
		f.doc.RootKind = markup.RootKindResourceDictionary
	}
	if cls := node.DirectiveAttribute("Class"); cls != nil {
		full := cls.Value
		if dot := strings.LastIndexByte(full, '.'); dot >= 0 {
			f.doc.ClassNamespace = full[:dot]
			f.doc.ClassName = full[dot+1:]
		} else {
			f.doc.ClassName = full
		}
		f.doc.HasCodeBehind = f.doc.ClassName != ""
	}
}

func (f *frontend) qualify(name xml.Name) markup.QualifiedName {
	return markup.QualifiedName{
		Prefix:    f.nsToPrefix[name.Space],
		Namespace: name.Space,
		Local:     name.Local,
	}
}

func (f *frontend) indexLines(content []byte) {
	f.lineStarts = []int{0}
	for i, b := range content {
		if b == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
}

func (f *frontend) spanAt(offset int) *util.ParseSourceSpan {
	line := sort.SearchInts(f.lineStarts, offset+1) - 1
	col := offset - f.lineStarts[line]
	loc := util.NewParseLocation(f.file, offset, line, col)
	return util.NewParseSourceSpan(loc, loc, nil)
}
