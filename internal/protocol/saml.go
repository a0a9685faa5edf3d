package protocol

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	xmlpkg "encoding/xml"
	"io"
	"strings"

	"github.com/beevik/etree"
	samlpkg "github.com/crewjam/saml"
)

// DecodeSAMLPayload decodes a SAMLRequest/SAMLResponse parameter value into
// XML. POST-binding values are plain base64; redirect-binding values are
// additionally raw-DEFLATE compressed. Returns false if the value does not
// decode to XML either way.
func DecodeSAMLPayload(value string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return "", false
	}
	if looksLikeXML(raw) {
		return string(raw), true
	}
	fr := flate.NewReader(bytes.NewReader(raw))
	defer fr.Close()
	inflated, err := io.ReadAll(fr)
	if err != nil || !looksLikeXML(inflated) {
		return "", false
	}
	return string(inflated), true
}

func looksLikeXML(b []byte) bool {
	return strings.HasPrefix(strings.TrimSpace(string(b)), "<")
}

// SAMLInfo summarizes a decoded SAML protocol message. Only the fields
// present in the XML are filled in; nothing is verified.
type SAMLInfo struct {
	RootElement                 string
	ID                          string
	Issuer                      string
	Destination                 string
	IssueInstant                string
	ProtocolBinding             string
	AssertionConsumerServiceURL string
	Status                      string
}

// ExtractSAMLInfo parses a SAML XML string and extracts display metadata
// from the root element. Returns nil if the XML does not parse.
func ExtractSAMLInfo(xmlStr string) *SAMLInfo {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlStr); err != nil {
		return nil
	}
	root := doc.Root()
	if root == nil {
		return nil
	}

	info := &SAMLInfo{
		RootElement:  root.Tag,
		ID:           root.SelectAttrValue("ID", ""),
		Destination:  root.SelectAttrValue("Destination", ""),
		IssueInstant: root.SelectAttrValue("IssueInstant", ""),
	}
	for _, child := range root.ChildElements() {
		if child.Tag == "Issuer" {
			info.Issuer = strings.TrimSpace(child.Text())
			break
		}
	}

	// Known protocol roots get typed parsing for fields the generic
	// traversal would have to guess at.
	switch root.Tag {
	case "AuthnRequest":
		var req samlpkg.AuthnRequest
		if xmlpkg.Unmarshal([]byte(xmlStr), &req) == nil {
			info.ProtocolBinding = req.ProtocolBinding
			info.AssertionConsumerServiceURL = req.AssertionConsumerServiceURL
		}
	case "Response":
		var resp samlpkg.Response
		if xmlpkg.Unmarshal([]byte(xmlStr), &resp) == nil {
			info.Status = resp.Status.StatusCode.Value
		}
	}
	return info
}
