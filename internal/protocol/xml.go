package protocol

import (
	xmlpkg "encoding/xml"
	"strings"
)

// FormatXML reformats an XML string with indentation.
func FormatXML(s string) string {
	if s == "" {
		return ""
	}
	var buf strings.Builder
	decoder := xmlpkg.NewDecoder(strings.NewReader(s))
	encoder := xmlpkg.NewEncoder(&buf)
	encoder.Indent("", "  ")
	for {
		t, err := decoder.Token()
		if err != nil {
			break
		}
		encoder.EncodeToken(t)
	}
	encoder.Flush()
	if buf.Len() > 0 {
		return buf.String()
	}
	return s
}
