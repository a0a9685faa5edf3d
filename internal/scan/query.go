package scan

import (
	"net/url"
	"strings"
)

// Param is one decoded query parameter with its values in encounter order.
type Param struct {
	Name   string
	Values []string
}

// FlatParam is a single-valued view of a parameter, as required by the
// OpenID message constructor.
type FlatParam struct {
	Name  string
	Value string
}

// DecodeQuery parses a URL-encoded query string into parameters, preserving
// the order in which names and values first appear. Pairs without "=" or
// with an empty name are dropped. A pair whose name or value fails
// percent-decoding is skipped; the rest of the query still decodes.
func DecodeQuery(encoded string) []Param {
	var params []Param
	index := make(map[string]int)
	for _, pair := range strings.Split(encoded, "&") {
		rawName, rawValue, ok := strings.Cut(pair, "=")
		if !ok || rawName == "" {
			continue
		}
		name, err := url.QueryUnescape(rawName)
		if err != nil || name == "" {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		if i, ok := index[name]; ok {
			params[i].Values = append(params[i].Values, value)
			continue
		}
		index[name] = len(params)
		params = append(params, Param{Name: name, Values: []string{value}})
	}
	return params
}

// Flatten projects each parameter to its first value, preserving parameter
// order. This is the lossy view handed to the message constructor.
func Flatten(params []Param) []FlatParam {
	flat := make([]FlatParam, 0, len(params))
	for _, p := range params {
		flat = append(flat, FlatParam{Name: p.Name, Value: p.Values[0]})
	}
	return flat
}
