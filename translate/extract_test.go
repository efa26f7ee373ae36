package translate

import (
	"reflect"
	"testing"

	"github.com/ALLiDoizCode/adp-relay/core"
)

func arithmeticHandler(action string) *core.HandlerDescriptor {
	return &core.HandlerDescriptor{
		Action: action,
		Parameters: []core.ParameterDescriptor{
			{Name: "A", Type: core.ParamNumber, Required: true},
			{Name: "B", Type: core.ParamNumber, Required: true},
		},
	}
}

func transferHandler() *core.HandlerDescriptor {
	return &core.HandlerDescriptor{
		Action: "transfer",
		Parameters: []core.ParameterDescriptor{
			{Name: "recipient", Type: core.ParamAddress, Required: true},
			{Name: "amount", Type: core.ParamNumber, Required: true},
		},
	}
}

// TestPrimaryOperandRoles verifies that operand roles follow the English
// phrasing, not token position: the subtrahend lands in the first operand
// slot whichever way the request is worded.
func TestPrimaryOperandRoles(t *testing.T) {
	cases := []struct {
		action  string
		request string
		a, b    float64
	}{
		{"subtract", "subtract 15 from 20", 15, 20},
		{"subtract", "20 minus 15", 15, 20},
		{"subtract", "take away 4 from 10", 4, 10},
		{"subtract", "difference between 30 and 12", 12, 30},
		{"add", "add 5 and 3", 5, 3},
		{"add", "5 plus 3", 5, 3},
		{"add", "sum of 2 and 9", 2, 9},
		{"multiply", "multiply 4 by 6", 4, 6},
		{"multiply", "4 times 6", 4, 6},
		{"divide", "divide 10 by 2", 10, 2},
		{"divide", "10 / 2", 10, 2},
		{"divide", "10 divided by 2", 10, 2},
	}

	for _, tc := range cases {
		attempt := extractPrimary(tc.request, arithmeticHandler(tc.action))
		if !attempt.Complete(arithmeticHandler(tc.action)) {
			t.Errorf("%q: incomplete attempt: %v", tc.request, attempt.Errors)
			continue
		}
		if attempt.Parameters["A"] != tc.a || attempt.Parameters["B"] != tc.b {
			t.Errorf("%q: A=%v B=%v, want A=%v B=%v",
				tc.request, attempt.Parameters["A"], attempt.Parameters["B"], tc.a, tc.b)
		}
	}
}

func TestPrimaryNamedValues(t *testing.T) {
	handler := &core.HandlerDescriptor{
		Action: "register",
		Parameters: []core.ParameterDescriptor{
			{Name: "name", Type: core.ParamString, Required: true},
			{Name: "port", Type: core.ParamNumber, Required: true},
			{Name: "secure", Type: core.ParamBoolean},
		},
	}

	attempt := extractPrimary("register name=web port: 8080 secure=true", handler)
	if attempt.Parameters["name"] != "web" {
		t.Errorf("name = %v", attempt.Parameters["name"])
	}
	if attempt.Parameters["port"] != 8080.0 {
		t.Errorf("port = %v", attempt.Parameters["port"])
	}
	if attempt.Parameters["secure"] != true {
		t.Errorf("secure = %v", attempt.Parameters["secure"])
	}
}

func TestPrimaryRoleKeywords(t *testing.T) {
	attempt := extractPrimary("send 50 to alice_01", transferHandler())

	if attempt.Parameters["recipient"] != "alice_01" {
		t.Errorf("recipient = %v", attempt.Parameters["recipient"])
	}
	if attempt.Parameters["amount"] != 50.0 {
		t.Errorf("amount = %v", attempt.Parameters["amount"])
	}
}

func TestPrimaryNestedFragmentWins(t *testing.T) {
	handler := &core.HandlerDescriptor{
		Action: "configure",
		Parameters: []core.ParameterDescriptor{
			{Name: "settings", Type: core.ParamJSON, Required: true},
		},
	}

	attempt := extractPrimary(`configure settings={"mode": "fast", "retries": 3}`, handler)

	settings, ok := attempt.Parameters["settings"].(map[string]interface{})
	if !ok {
		t.Fatalf("settings = %T %v", attempt.Parameters["settings"], attempt.Parameters["settings"])
	}
	if settings["mode"] != "fast" || settings["retries"] != 3.0 {
		t.Errorf("settings = %v", settings)
	}
}

func TestPrimaryReportsMissingRequired(t *testing.T) {
	handler := &core.HandlerDescriptor{
		Action: "subtract",
		Parameters: []core.ParameterDescriptor{
			{Name: "A", Type: core.ParamNumber, Required: true},
			{Name: "B", Type: core.ParamNumber, Required: true},
		},
	}

	attempt := extractPrimary("subtract something abstract", handler)
	if attempt.Complete(handler) {
		t.Fatal("attempt without numbers reported complete")
	}
	if len(attempt.Errors) == 0 {
		t.Error("missing required parameters produced no errors")
	}
}

func TestAggressivePositionalAssignment(t *testing.T) {
	attempt := extractAggressive("please compute 7 and 4", arithmeticHandler("add"))

	if attempt.Parameters["A"] != 7.0 || attempt.Parameters["B"] != 4.0 {
		t.Errorf("A=%v B=%v, want positional 7 and 4",
			attempt.Parameters["A"], attempt.Parameters["B"])
	}
	if attempt.Strategy != "aggressive" {
		t.Errorf("strategy tag = %q", attempt.Strategy)
	}
}

func TestAggressiveReportsShortfall(t *testing.T) {
	attempt := extractAggressive("only 7 here", arithmeticHandler("add"))

	if _, ok := attempt.Parameters["B"]; ok {
		t.Error("B assigned with only one numeric token present")
	}
	if len(attempt.Errors) == 0 {
		t.Error("missing positional token produced no error")
	}
}

func TestCoercionFillsWhatPrimaryMissed(t *testing.T) {
	handler := &core.HandlerDescriptor{
		Action: "batch",
		Parameters: []core.ParameterDescriptor{
			{Name: "entries", Type: core.ParamJSON, Required: true},
		},
	}
	request := `batch ["x","y"] now`

	// The primary strategy has no pattern that reaches the bare array.
	if primary := extractPrimary(request, handler); primary.Complete(handler) {
		t.Fatal("primary unexpectedly extracted the array; the coercion case is moot")
	}

	attempt := extractCoercion(request, handler)
	want := []interface{}{"x", "y"}
	if !reflect.DeepEqual(attempt.Parameters["entries"], want) {
		t.Errorf("entries = %v, want %v", attempt.Parameters["entries"], want)
	}
	if len(attempt.Errors) != 0 {
		t.Errorf("unexpected errors: %v", attempt.Errors)
	}
}

func TestCoercionAcceptsWiderBooleanSpellings(t *testing.T) {
	handler := &core.HandlerDescriptor{
		Action: "toggle",
		Parameters: []core.ParameterDescriptor{
			{Name: "flag", Type: core.ParamBoolean, Required: true},
		},
	}
	request := "turn the thing off"

	// Primary's boolean last resort only knows true/false/yes/no.
	if primary := extractPrimary(request, handler); primary.Complete(handler) {
		t.Fatal("primary unexpectedly extracted the boolean; the coercion case is moot")
	}

	attempt := extractCoercion(request, handler)
	if attempt.Parameters["flag"] != false {
		t.Errorf("flag = %v, want false from the token scan", attempt.Parameters["flag"])
	}
}

func TestFuzzyAnchors(t *testing.T) {
	attempt := extractFuzzy("a=4 b: 9", arithmeticHandler("add"))
	if attempt.Parameters["A"] != 4.0 || attempt.Parameters["B"] != 9.0 {
		t.Errorf("A=%v B=%v", attempt.Parameters["A"], attempt.Parameters["B"])
	}

	handler := &core.HandlerDescriptor{
		Action: "lookup",
		Parameters: []core.ParameterDescriptor{
			{Name: "targetAddress", Type: core.ParamAddress, Required: true},
		},
	}
	attempt = extractFuzzy("targetaddress alice_01", handler)
	if attempt.Parameters["targetAddress"] != "alice_01" {
		t.Errorf("targetAddress = %v", attempt.Parameters["targetAddress"])
	}
}

func TestFuzzyMissingAnchor(t *testing.T) {
	handler := &core.HandlerDescriptor{
		Action: "lookup",
		Parameters: []core.ParameterDescriptor{
			{Name: "zone", Type: core.ParamString, Required: true},
		},
	}

	attempt := extractFuzzy("nothing relevant here", handler)
	if _, ok := attempt.Parameters["zone"]; ok {
		t.Errorf("zone = %v from a request without the anchor", attempt.Parameters["zone"])
	}
	if len(attempt.Errors) == 0 {
		t.Error("missing anchor produced no error")
	}
}

func TestStrategiesRotationOrder(t *testing.T) {
	names := []string{}
	for _, s := range Strategies() {
		names = append(names, s.Name)
	}
	want := []string{"primary", "aggressive", "coercion", "fuzzy"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("rotation order = %v, want %v", names, want)
	}

	if s := ByName("coercion"); s == nil || s.Name != "coercion" {
		t.Errorf("ByName(coercion) = %+v", s)
	}
	if s := ByName("unknown"); s != nil {
		t.Errorf("ByName(unknown) = %+v", s)
	}
}
