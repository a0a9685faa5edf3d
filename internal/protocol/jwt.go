package protocol

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// IsJWT returns true if the string has the 3-part JWT structure.
func IsJWT(s string) bool {
	return strings.Count(s, ".") == 2
}

// DecodeJWT decodes a JWT's header, payload, and signature. Header and
// payload are pretty-printed JSON; signature is the raw base64url string.
// Nothing is verified.
func DecodeJWT(token string) (header, payload, signature string) {
	parts := strings.SplitN(token, ".", 3)
	if len(parts) < 2 {
		return token, "", ""
	}
	header = decodeBase64URL(parts[0])
	payload = decodeBase64URL(parts[1])
	if len(parts) == 3 {
		signature = parts[2]
	}
	return
}

// PrettyJSON re-indents raw JSON, returning the input unchanged if it does
// not parse.
func PrettyJSON(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(data)
	}
	return string(b)
}

func decodeBase64URL(s string) string {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return s
	}
	return PrettyJSON(json.RawMessage(b))
}
