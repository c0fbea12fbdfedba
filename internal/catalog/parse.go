package catalog

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	defaultResultCode = "00"
	defaultResultMsg  = "SUCCESS"
)

var successCodes = map[string]bool{"00": true, "0000": true}

// xmlItem captures every direct child of an <item> element.
type xmlItem struct {
	Fields []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// document is the flattened view of one catalog response.
type document struct {
	resultCode *string
	resultMsg  *string
	items      []RawItem
}

// parseResponse converts a catalog XML body into a Page. strict makes a
// missing resultCode a parse failure instead of an implicit success.
func parseResponse(body []byte, strict bool) (*Page, error) {
	doc, err := decodeDocument(body)
	if err != nil {
		return nil, &Failure{Code: CodeXMLParse, Message: err.Error(), Err: err}
	}

	if doc.resultCode == nil && strict {
		return nil, &Failure{Code: CodeMissingHeader, Message: "response has no resultCode element"}
	}

	code := valueOr(doc.resultCode, defaultResultCode)
	msg := valueOr(doc.resultMsg, defaultResultMsg)

	if !successCodes[code] {
		return nil, &Failure{
			Code:       apiCodePrefix + code,
			Message:    msg,
			ResultCode: code,
		}
	}

	return &Page{
		Items:      doc.items,
		TotalCount: len(doc.items),
		ResultCode: code,
		ResultMsg:  msg,
	}, nil
}

// decodeDocument walks the token stream once. The first non-empty resultCode
// and resultMsg win, and every <item> at any depth is flattened one level.
func decodeDocument(body []byte) (*document, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel

	doc := &document{}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true

		switch start.Name.Local {
		case "resultCode":
			if doc.resultCode != nil {
				continue
			}
			text, err := decodeText(dec, start)
			if err != nil {
				return nil, err
			}
			if text != "" {
				doc.resultCode = &text
			}
		case "resultMsg":
			if doc.resultMsg != nil {
				continue
			}
			text, err := decodeText(dec, start)
			if err != nil {
				return nil, err
			}
			if text != "" {
				doc.resultMsg = &text
			}
		case "item":
			var item xmlItem
			if err := dec.DecodeElement(&item, &start); err != nil {
				return nil, err
			}
			doc.items = append(doc.items, item.raw())
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("no root element")
	}
	return doc, nil
}

func decodeText(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var text string
	if err := dec.DecodeElement(&text, &start); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (it xmlItem) raw() RawItem {
	raw := make(RawItem, len(it.Fields))
	for _, f := range it.Fields {
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		// Repeated tags keep the first occurrence.
		if _, exists := raw[f.XMLName.Local]; !exists {
			raw[f.XMLName.Local] = value
		}
	}
	return raw
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
