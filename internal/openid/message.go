// Package openid implements the OpenID authentication message model: flat
// form-encoded arguments are lifted into namespaced key/value arguments plus
// the namespace alias table they were declared with. It covers message
// construction and inspection only; signature verification and assertion
// validation are out of scope.
package openid

import (
	"fmt"
	"strings"
)

// Namespace URIs for the OpenID protocol versions and well-known extensions.
const (
	OpenID1NS  = "http://openid.net/signon/1.0"
	OpenID11NS = "http://openid.net/signon/1.1"
	OpenID2NS  = "http://specs.openid.net/auth/2.0"

	// SRegNS is the namespace assumed for the "sreg" prefix in OpenID 1.x
	// compatibility mode, where extensions predate namespace declarations.
	SRegNS = "http://openid.net/sreg/1.0"

	// BareNS groups arguments that do not carry the "openid." prefix.
	BareNS = "<bare namespace>"
)

// NullAlias is the distinguished alias carried by a message's root OpenID
// namespace. Its arguments use the bare "openid." prefix on the wire and
// display under the literal alias "openid".
const NullAlias = "<null namespace>"

// KeyValue is one flat form-encoded argument.
type KeyValue struct {
	Key   string
	Value string
}

// Arg is one namespaced message argument.
type Arg struct {
	Namespace string
	Key       string
	Value     string
}

// NamespaceMap tracks the aliases a message declares for namespace URIs.
type NamespaceMap struct {
	aliasToURI map[string]string
	uriToAlias map[string]string
}

// NewNamespaceMap returns an empty NamespaceMap.
func NewNamespaceMap() *NamespaceMap {
	return &NamespaceMap{
		aliasToURI: make(map[string]string),
		uriToAlias: make(map[string]string),
	}
}

// AddAlias declares alias for uri. Aliases must not contain a period and
// must not be the reserved word "ns"; neither side may conflict with an
// earlier declaration. Redeclaring the same pair is allowed.
func (n *NamespaceMap) AddAlias(uri, alias string) error {
	if alias != NullAlias {
		if alias == "" || alias == "ns" {
			return fmt.Errorf("namespace alias %q is reserved", alias)
		}
		if strings.Contains(alias, ".") {
			return fmt.Errorf("namespace alias %q contains a period", alias)
		}
	}
	if existing, ok := n.aliasToURI[alias]; ok && existing != uri {
		return fmt.Errorf("alias %q already bound to namespace %q", alias, existing)
	}
	if existing, ok := n.uriToAlias[uri]; ok && existing != alias {
		return fmt.Errorf("namespace %q already has alias %q", uri, existing)
	}
	n.aliasToURI[alias] = uri
	n.uriToAlias[uri] = alias
	return nil
}

// URI resolves an alias to its namespace URI.
func (n *NamespaceMap) URI(alias string) (string, bool) {
	uri, ok := n.aliasToURI[alias]
	return uri, ok
}

// Alias resolves a namespace URI to its declared alias. The root OpenID
// namespace resolves to NullAlias.
func (n *NamespaceMap) Alias(uri string) (string, bool) {
	alias, ok := n.uriToAlias[uri]
	return alias, ok
}

// Message is a structured OpenID protocol message. Arguments keep the order
// of their first appearance; setting the same (namespace, key) again keeps
// its position and overwrites the value.
type Message struct {
	Namespaces *NamespaceMap

	openIDNS string
	args     []Arg
	index    map[argKey]int
}

type argKey struct {
	ns  string
	key string
}

// OpenIDNamespace returns the message's root protocol namespace URI.
func (m *Message) OpenIDNamespace() string {
	return m.openIDNS
}

// Args returns the message's arguments in first-appearance order. The
// returned slice is shared; callers must not mutate it.
func (m *Message) Args() []Arg {
	return m.args
}

// Get returns the value of key in the given namespace, or "".
func (m *Message) Get(ns, key string) string {
	if i, ok := m.index[argKey{ns, key}]; ok {
		return m.args[i].Value
	}
	return ""
}

func (m *Message) setArg(ns, key, value string) {
	k := argKey{ns, key}
	if i, ok := m.index[k]; ok {
		m.args[i].Value = value
		return
	}
	m.index[k] = len(m.args)
	m.args = append(m.args, Arg{Namespace: ns, Key: key, Value: value})
}

// FromQueryArgs builds a Message from flat form-encoded arguments as they
// appear in a query string or POST body. An absent openid.ns selects OpenID
// 1.x compatibility mode. It returns an error for malformed namespace
// declarations: an unknown protocol namespace in openid.ns, or an invalid
// or conflicting alias declaration.
func FromQueryArgs(args []KeyValue) (*Message, error) {
	m := &Message{
		Namespaces: NewNamespaceMap(),
		openIDNS:   OpenID1NS,
		index:      make(map[argKey]int),
	}

	for _, a := range args {
		if a.Key != "openid.ns" {
			continue
		}
		switch a.Value {
		case OpenID1NS, OpenID11NS, OpenID2NS:
			m.openIDNS = a.Value
		default:
			return nil, fmt.Errorf("unsupported OpenID namespace %q", a.Value)
		}
	}
	if err := m.Namespaces.AddAlias(m.openIDNS, NullAlias); err != nil {
		return nil, err
	}

	for _, a := range args {
		rest, ok := strings.CutPrefix(a.Key, "openid.ns.")
		if !ok {
			continue
		}
		if err := m.Namespaces.AddAlias(a.Value, rest); err != nil {
			return nil, err
		}
	}

	compat := m.openIDNS != OpenID2NS
	for _, a := range args {
		rest, ok := strings.CutPrefix(a.Key, "openid.")
		if !ok {
			m.setArg(BareNS, a.Key, a.Value)
			continue
		}
		if rest == "ns" || strings.HasPrefix(rest, "ns.") {
			continue
		}
		if alias, key, found := strings.Cut(rest, "."); found {
			if uri, ok := m.Namespaces.URI(alias); ok {
				m.setArg(uri, key, a.Value)
				continue
			}
			// OpenID 1.x extensions predate declarations; known prefixes
			// get their conventional namespace, anything else folds into
			// the root namespace under the compound key.
			if compat && alias == "sreg" {
				if err := m.Namespaces.AddAlias(SRegNS, "sreg"); err != nil {
					return nil, err
				}
				m.setArg(SRegNS, key, a.Value)
				continue
			}
		}
		m.setArg(m.openIDNS, rest, a.Value)
	}
	return m, nil
}
