package translate

import (
	"testing"

	"github.com/ALLiDoizCode/adp-relay/core"
)

func calculatorHandlers() []core.HandlerDescriptor {
	operands := []core.ParameterDescriptor{
		{Name: "A", Type: core.ParamNumber, Required: true},
		{Name: "B", Type: core.ParamNumber, Required: true},
	}
	return []core.HandlerDescriptor{
		{Action: "add", Description: "add two numbers", Parameters: operands},
		{Action: "subtract", Description: "subtract one number from another", Parameters: operands},
		{Action: "multiply", Parameters: operands},
		{Action: "divide", Parameters: operands},
		{Action: "balance", Description: "current balance of the account"},
	}
}

func TestMatchByActionName(t *testing.T) {
	m := NewMatcher(0.3)

	match := m.Match("subtract 15 from 20", calculatorHandlers())
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Handler.Action != "subtract" {
		t.Errorf("matched %q, want subtract", match.Handler.Action)
	}
	if match.Confidence <= 0.6 {
		t.Errorf("action-name match should score above 0.6, got %v", match.Confidence)
	}
}

func TestMatchBySynonym(t *testing.T) {
	m := NewMatcher(0.3)

	cases := []struct {
		request string
		want    string
	}{
		{"what is 5 plus 3", "add"},
		{"4 times 6 please", "multiply"},
		{"how much funds do I have", "balance"},
	}
	for _, tc := range cases {
		match := m.Match(tc.request, calculatorHandlers())
		if match == nil {
			t.Errorf("Match(%q) = nil", tc.request)
			continue
		}
		if match.Handler.Action != tc.want {
			t.Errorf("Match(%q) = %q, want %q", tc.request, match.Handler.Action, tc.want)
		}
	}
}

func TestMatchRejectsBelowThreshold(t *testing.T) {
	m := NewMatcher(0.3)

	if match := m.Match("completely unrelated request", calculatorHandlers()); match != nil {
		t.Errorf("expected no match, got %q at %v", match.Handler.Action, match.Confidence)
	}
	if match := m.Match("", calculatorHandlers()); match != nil {
		t.Error("empty request should not match")
	}
	if match := m.Match("add 1 and 2", nil); match != nil {
		t.Error("empty handler list should not match")
	}
}

func TestMatchThresholdIsExclusive(t *testing.T) {
	// A lone parameter-name mention scores exactly 0.1; with the
	// threshold at 0.1 the score must exceed, not meet, it.
	handlers := []core.HandlerDescriptor{
		{Action: "frobnicate", Parameters: []core.ParameterDescriptor{
			{Name: "widget", Type: core.ParamString, Required: true},
		}},
	}

	if match := NewMatcher(0.1).Match("the widget please", handlers); match != nil {
		t.Errorf("score equal to the threshold should not match, got %v", match.Confidence)
	}
	if match := NewMatcher(0.05).Match("the widget please", handlers); match == nil {
		t.Error("score above the threshold should match")
	}
}

func TestMatchTieGoesToDeclarationOrder(t *testing.T) {
	params := []core.ParameterDescriptor{
		{Name: "qty", Type: core.ParamNumber, Required: true},
		{Name: "mode", Type: core.ParamString, Required: true},
		{Name: "label", Type: core.ParamString},
		{Name: "kind", Type: core.ParamString},
	}
	handlers := []core.HandlerDescriptor{
		{Action: "alpha", Parameters: params},
		{Action: "beta", Parameters: params},
	}

	// Both handlers score identically on the four parameter mentions.
	match := NewMatcher(0.3).Match("qty mode label kind 5", handlers)
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Handler.Action != "alpha" {
		t.Errorf("tie resolved to %q, want the first declared handler", match.Handler.Action)
	}
}
