// Package chart parses the tagged chart side-channel that the model may
// embed in a reply. The sentinel follows a strict mini-grammar:
//
//	[[GRAPH:TYPE:key=value;key=value]]
//
// with TYPE one of BAR, LINE or PIE and keys title, labels and values
// (labels and values are "|"-separated). Anything that does not parse
// is treated as "no chart"; a malformed sentinel never aborts a turn.
package chart

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind enumerates the supported chart shapes.
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
	KindPie  Kind = "pie"
)

// Spec is the typed result of a parsed chart sentinel.
type Spec struct {
	Kind   Kind      `json:"kind"`
	Title  string    `json:"title,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values"`
}

var sentinelPattern = regexp.MustCompile(`\[\[GRAPH:([^\]]*)\]\]`)

// Extract scans text for a chart sentinel. On success it returns the
// parsed spec together with the text stripped of the sentinel. On parse
// failure, or when no sentinel is present, the original text is
// returned unchanged with ok=false.
func Extract(text string) (*Spec, string, bool) {
	match := sentinelPattern.FindStringSubmatchIndex(text)
	if match == nil {
		return nil, text, false
	}

	body := text[match[2]:match[3]]
	spec, err := parse(body)
	if err != nil {
		return nil, text, false
	}

	cleaned := strings.TrimSpace(text[:match[0]] + text[match[1]:])
	return spec, cleaned, true
}

func parse(body string) (*Spec, error) {
	kindRaw, rest, found := strings.Cut(body, ":")
	if !found {
		return nil, fmt.Errorf("missing attribute section in %q", body)
	}

	var kind Kind
	switch strings.ToUpper(strings.TrimSpace(kindRaw)) {
	case "BAR":
		kind = KindBar
	case "LINE":
		kind = KindLine
	case "PIE":
		kind = KindPie
	default:
		return nil, fmt.Errorf("unknown chart type %q", kindRaw)
	}

	spec := &Spec{Kind: kind}
	for _, pair := range strings.Split(rest, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("attribute %q is not key=value", pair)
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			spec.Title = strings.TrimSpace(value)
		case "labels":
			spec.Labels = splitList(value)
		case "values":
			values, err := parseValues(value)
			if err != nil {
				return nil, err
			}
			spec.Values = values
		default:
			return nil, fmt.Errorf("unknown attribute %q", key)
		}
	}

	if len(spec.Values) == 0 {
		return nil, fmt.Errorf("chart %q has no values", body)
	}
	if len(spec.Labels) > 0 && len(spec.Labels) != len(spec.Values) {
		return nil, fmt.Errorf("labels/values length mismatch: %d vs %d", len(spec.Labels), len(spec.Values))
	}
	return spec, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseValues(value string) ([]float64, error) {
	parts := splitList(value)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not numeric", p)
		}
		out = append(out, v)
	}
	return out, nil
}
