// Package report renders extracted queries as human-readable OpenID message
// reports.
package report

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/wadahiro/pastelens/internal/openid"
	"github.com/wadahiro/pastelens/internal/protocol"
	"github.com/wadahiro/pastelens/internal/scan"
)

// priorityKeys print first within each namespace, in this order; remaining
// keys follow in sorted order.
var priorityKeys = []string{"mode", "identity", "claimed_id"}

// jwtParams are the parameter names whose values are inspected as JWTs.
var jwtParams = []string{"id_token", "assertion", "access_token"}

// FormatMessage renders a message's arguments grouped by namespace, in
// first-seen namespace order. Duplicate keys within a namespace keep the
// last value seen.
func FormatMessage(msg *openid.Message) string {
	type group struct {
		uri  string
		keys map[string]string
	}
	var groups []*group
	index := make(map[string]*group)
	for _, arg := range msg.Args() {
		g := index[arg.Namespace]
		if g == nil {
			g = &group{uri: arg.Namespace, keys: make(map[string]string)}
			index[arg.Namespace] = g
			groups = append(groups, g)
		}
		g.keys[arg.Key] = arg.Value
	}

	blocks := make([]string, 0, len(groups))
	for _, g := range groups {
		alias, ok := msg.Namespaces.Alias(g.uri)
		switch {
		case alias == openid.NullAlias:
			alias = "openid"
		case !ok:
			alias = "?"
		}
		lines := []string{fmt.Sprintf("  %s <%s>", alias, g.uri)}

		remaining := make(map[string]string, len(g.keys))
		for k, v := range g.keys {
			remaining[k] = v
		}
		for _, key := range priorityKeys {
			if v, ok := remaining[key]; ok {
				lines = append(lines, fmt.Sprintf("    %s = %s", key, v))
				delete(remaining, key)
			}
		}
		rest := make([]string, 0, len(remaining))
		for k := range remaining {
			rest = append(rest, k)
		}
		sort.Strings(rest)
		for _, key := range rest {
			lines = append(lines, fmt.Sprintf("    %s = %s", key, remaining[key]))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// FormatFlat renders raw flat parameters. It is the fallback when message
// construction fails, so the report still shows what was decoded.
func FormatFlat(flat []scan.FlatParam) string {
	lines := make([]string, 0, len(flat)+1)
	lines = append(lines, "  (unparsed arguments)")
	for _, p := range flat {
		lines = append(lines, fmt.Sprintf("    %s = %s", p.Name, p.Value))
	}
	return strings.Join(lines, "\n")
}

// BuildEntry renders one decoded query: its location, the OpenID message
// view (or the raw fallback when construction fails), and any recognized
// federation payloads. A construction failure is logged to the diagnostic
// channel and never aborts the batch.
func BuildEntry(q scan.DecodedQuery, inspectPayloads bool) string {
	flat := scan.Flatten(q.Params)
	args := make([]openid.KeyValue, len(flat))
	for i, p := range flat {
		args[i] = openid.KeyValue{Key: p.Name, Value: p.Value}
	}

	sections := []string{q.Location}
	msg, err := openid.FromQueryArgs(args)
	if err != nil {
		slog.Error("message construction failed", "location", q.Location, "error", err)
		sections = append(sections, FormatFlat(flat))
	} else {
		sections = append(sections, FormatMessage(msg))
	}
	if inspectPayloads {
		sections = append(sections, formatPayloads(flat)...)
	}
	return strings.Join(sections, "\n")
}

// formatPayloads decodes well-known federation payload parameters (SAML
// request/response blobs, JWT-shaped tokens) for display.
func formatPayloads(flat []scan.FlatParam) []string {
	var sections []string
	for _, p := range flat {
		switch {
		case p.Name == "SAMLRequest" || p.Name == "SAMLResponse":
			xmlStr, ok := protocol.DecodeSAMLPayload(p.Value)
			if !ok {
				continue
			}
			lines := []string{fmt.Sprintf("  %s decoded:", p.Name)}
			if info := protocol.ExtractSAMLInfo(xmlStr); info != nil {
				lines = append(lines, "    "+summarizeSAML(info))
			}
			lines = append(lines, indent(protocol.FormatXML(xmlStr), "    "))
			sections = append(sections, strings.Join(lines, "\n"))
		case slices.Contains(jwtParams, p.Name) && protocol.IsJWT(p.Value):
			header, payload, _ := protocol.DecodeJWT(p.Value)
			lines := []string{
				fmt.Sprintf("  %s decoded:", p.Name),
				indent(header, "    "),
				indent(payload, "    "),
			}
			sections = append(sections, strings.Join(lines, "\n"))
		}
	}
	return sections
}

func summarizeSAML(info *protocol.SAMLInfo) string {
	parts := []string{info.RootElement}
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+"="+v)
		}
	}
	add("issuer", info.Issuer)
	add("destination", info.Destination)
	add("issue_instant", info.IssueInstant)
	add("binding", info.ProtocolBinding)
	add("acs", info.AssertionConsumerServiceURL)
	add("status", info.Status)
	return strings.Join(parts, " ")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
