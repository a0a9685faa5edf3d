package protocol

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"strings"
	"testing"
)

const authnRequestXML = `<samlp:AuthnRequest xmlns:samlp="urn:oasis:names:tc:SAML:2.0:protocol" xmlns:saml="urn:oasis:names:tc:SAML:2.0:assertion" ID="_abc123" Version="2.0" IssueInstant="2026-01-02T15:04:05Z" Destination="https://idp.example.org/sso" ProtocolBinding="urn:oasis:names:tc:SAML:2.0:bindings:HTTP-POST" AssertionConsumerServiceURL="https://sp.example.org/acs"><saml:Issuer>https://sp.example.org/metadata</saml:Issuer></samlp:AuthnRequest>`

const responseXML = `<samlp:Response xmlns:samlp="urn:oasis:names:tc:SAML:2.0:protocol" xmlns:saml="urn:oasis:names:tc:SAML:2.0:assertion" ID="_resp1" Version="2.0" IssueInstant="2026-01-02T15:04:05Z" Destination="https://sp.example.org/acs"><saml:Issuer>https://idp.example.org/metadata</saml:Issuer><samlp:Status><samlp:StatusCode Value="urn:oasis:names:tc:SAML:2.0:status:Success"/></samlp:Status></samlp:Response>`

func deflateBase64(t *testing.T, s string) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeSAMLPayload(t *testing.T) {
	t.Run("POST binding is plain base64", func(t *testing.T) {
		value := base64.StdEncoding.EncodeToString([]byte(authnRequestXML))
		got, ok := DecodeSAMLPayload(value)
		if !ok {
			t.Fatal("DecodeSAMLPayload failed")
		}
		if got != authnRequestXML {
			t.Errorf("decoded = %q", got)
		}
	})

	t.Run("redirect binding adds raw DEFLATE", func(t *testing.T) {
		got, ok := DecodeSAMLPayload(deflateBase64(t, authnRequestXML))
		if !ok {
			t.Fatal("DecodeSAMLPayload failed")
		}
		if got != authnRequestXML {
			t.Errorf("decoded = %q", got)
		}
	})

	t.Run("not base64", func(t *testing.T) {
		if _, ok := DecodeSAMLPayload("%%% not base64 %%%"); ok {
			t.Error("DecodeSAMLPayload should fail")
		}
	})

	t.Run("base64 of non-XML", func(t *testing.T) {
		value := base64.StdEncoding.EncodeToString([]byte("just some text"))
		if _, ok := DecodeSAMLPayload(value); ok {
			t.Error("DecodeSAMLPayload should fail")
		}
	})
}

func TestExtractSAMLInfo(t *testing.T) {
	t.Run("authn request", func(t *testing.T) {
		info := ExtractSAMLInfo(authnRequestXML)
		if info == nil {
			t.Fatal("ExtractSAMLInfo returned nil")
		}
		if info.RootElement != "AuthnRequest" {
			t.Errorf("RootElement = %q, want AuthnRequest", info.RootElement)
		}
		if info.ID != "_abc123" {
			t.Errorf("ID = %q, want _abc123", info.ID)
		}
		if info.Issuer != "https://sp.example.org/metadata" {
			t.Errorf("Issuer = %q", info.Issuer)
		}
		if info.Destination != "https://idp.example.org/sso" {
			t.Errorf("Destination = %q", info.Destination)
		}
		if info.IssueInstant != "2026-01-02T15:04:05Z" {
			t.Errorf("IssueInstant = %q", info.IssueInstant)
		}
		if !strings.Contains(info.ProtocolBinding, "HTTP-POST") {
			t.Errorf("ProtocolBinding = %q, want HTTP-POST binding", info.ProtocolBinding)
		}
		if info.AssertionConsumerServiceURL != "https://sp.example.org/acs" {
			t.Errorf("AssertionConsumerServiceURL = %q", info.AssertionConsumerServiceURL)
		}
	})

	t.Run("response with status", func(t *testing.T) {
		info := ExtractSAMLInfo(responseXML)
		if info == nil {
			t.Fatal("ExtractSAMLInfo returned nil")
		}
		if info.RootElement != "Response" {
			t.Errorf("RootElement = %q, want Response", info.RootElement)
		}
		if info.Issuer != "https://idp.example.org/metadata" {
			t.Errorf("Issuer = %q", info.Issuer)
		}
		if !strings.Contains(info.Status, "status:Success") {
			t.Errorf("Status = %q, want success status", info.Status)
		}
	})

	t.Run("unparseable XML", func(t *testing.T) {
		if info := ExtractSAMLInfo("<unclosed"); info != nil {
			t.Errorf("info = %v, want nil", info)
		}
	})
}
