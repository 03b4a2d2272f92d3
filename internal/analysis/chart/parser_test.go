package chart

import (
	"strings"
	"testing"
)

func TestExtractBarChart(t *testing.T) {
	reply := "Voici la répartition.\n[[GRAPH:BAR:title=Allocation;labels=Actions|Fonds euros|SCPI;values=50|30|20]]\nBonne journée."

	spec, cleaned, ok := Extract(reply)
	if !ok {
		t.Fatal("expected a parsed chart")
	}
	if spec.Kind != KindBar {
		t.Fatalf("unexpected kind: %s", spec.Kind)
	}
	if spec.Title != "Allocation" {
		t.Fatalf("unexpected title: %q", spec.Title)
	}
	if len(spec.Labels) != 3 || spec.Labels[2] != "SCPI" {
		t.Fatalf("unexpected labels: %v", spec.Labels)
	}
	if len(spec.Values) != 3 || spec.Values[1] != 30 {
		t.Fatalf("unexpected values: %v", spec.Values)
	}
	if strings.Contains(cleaned, "[[GRAPH") {
		t.Fatalf("sentinel not stripped: %q", cleaned)
	}
	if !strings.Contains(cleaned, "Voici la répartition.") {
		t.Fatalf("surrounding text lost: %q", cleaned)
	}
}

func TestExtractNoSentinel(t *testing.T) {
	reply := "Réponse sans graphique."

	spec, cleaned, ok := Extract(reply)
	if ok || spec != nil {
		t.Fatal("expected no chart")
	}
	if cleaned != reply {
		t.Fatalf("text altered without a sentinel: %q", cleaned)
	}
}

func TestExtractMalformedIsNoChart(t *testing.T) {
	cases := []string{
		"[[GRAPH:RADAR:values=1|2]]",                       // unknown type
		"[[GRAPH:BAR:values=a|b]]",                         // non-numeric values
		"[[GRAPH:BAR:title=X]]",                            // no values
		"[[GRAPH:BAR:labels=a|b;values=1]]",                // length mismatch
		"[[GRAPH:BAR:values=1|2;mystery=yes]]",             // unknown attribute
		"[[GRAPH:BAR]]",                                    // no attribute section
		"[[GRAPH:BAR:title]]",                              // not key=value
	}
	for _, text := range cases {
		spec, cleaned, ok := Extract(text)
		if ok || spec != nil {
			t.Fatalf("malformed sentinel parsed: %q", text)
		}
		if cleaned != text {
			t.Fatalf("malformed sentinel altered text: %q -> %q", text, cleaned)
		}
	}
}

func TestExtractPieWithoutTitle(t *testing.T) {
	spec, _, ok := Extract("[[GRAPH:pie:values=60|40]]")
	if !ok {
		t.Fatal("lowercase type should parse")
	}
	if spec.Kind != KindPie || len(spec.Labels) != 0 {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}
