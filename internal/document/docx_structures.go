package document

import (
	"encoding/xml"
)

// WordprocessingML namespace, needed to resolve the w: prefix when
// unmarshaling paragraph fragments cut out of word/document.xml.
const wordprocessingMLNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// docxParagraphXML mirrors the subset of a <w:p> element the codec reads.
// Fragments are wrapped in an element that declares the w: namespace before
// unmarshaling, so the unqualified local names below match.
type docxParagraphXML struct {
	XMLName xml.Name     `xml:"p"`
	Runs    []docxRunXML `xml:"r"`
}

// docxRunXML mirrors a <w:r> element.
type docxRunXML struct {
	XMLName    xml.Name         `xml:"r"`
	Properties *docxRunPropsXML `xml:"rPr"`
	Text       *docxTextXML     `xml:"t"`
	Tabs       []docxTabXML     `xml:"tab"`
	Breaks     []docxBreakXML   `xml:"br"`
	Drawings   []docxAnyXML     `xml:"drawing"`
	Objects    []docxAnyXML     `xml:"object"`
	Pictures   []docxAnyXML     `xml:"pict"`
}

// docxRunPropsXML captures <w:rPr> verbatim; individual style attributes are
// read out of the inner XML so unmapped properties survive the round trip.
type docxRunPropsXML struct {
	XMLName xml.Name `xml:"rPr"`
	Inner   string   `xml:",innerxml"`
}

// docxTextXML is a <w:t> element.
type docxTextXML struct {
	XMLName xml.Name `xml:"t"`
	Space   string   `xml:"http://www.w3.org/XML/1998/namespace space,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type docxTabXML struct {
	XMLName xml.Name `xml:"tab"`
}

type docxBreakXML struct {
	XMLName xml.Name `xml:"br"`
}

// docxAnyXML marks the presence of an element the codec cannot rebuild.
type docxAnyXML struct {
	Inner string `xml:",innerxml"`
}
