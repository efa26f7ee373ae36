package translate

import (
	"reflect"
	"testing"

	"github.com/ALLiDoizCode/adp-relay/core"
)

func TestCoerceValue(t *testing.T) {
	cases := []struct {
		token string
		typ   core.ParameterType
		want  interface{}
		ok    bool
	}{
		{"15", core.ParamNumber, 15.0, true},
		{"-3.5", core.ParamNumber, -3.5, true},
		{"fifteen", core.ParamNumber, nil, false},
		{"true", core.ParamBoolean, true, true},
		{"YES", core.ParamBoolean, true, true},
		{"off", core.ParamBoolean, false, true},
		{"maybe", core.ParamBoolean, nil, false},
		{"alice_01", core.ParamAddress, "alice_01", true},
		{"has space", core.ParamAddress, nil, false},
		{`{"a":1}`, core.ParamJSON, map[string]interface{}{"a": 1.0}, true},
		{"not json", core.ParamJSON, nil, false},
		{"hello", core.ParamString, "hello", true},
		{"", core.ParamString, nil, false},
	}

	for _, tc := range cases {
		got, ok := CoerceValue(tc.token, tc.typ)
		if ok != tc.ok {
			t.Errorf("CoerceValue(%q, %s) ok = %v, want %v", tc.token, tc.typ, ok, tc.ok)
			continue
		}
		if ok && !reflect.DeepEqual(got, tc.want) {
			t.Errorf("CoerceValue(%q, %s) = %v, want %v", tc.token, tc.typ, got, tc.want)
		}
	}
}

func TestCleanToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`"alice"`, "alice"},
		{`'bob'`, "bob"},
		{"value,", "value"},
		{`"quoted",`, "quoted"},
		{"trailing!?", "trailing"},
		{"  padded  ", "padded"},
		{`"`, `"`},
	}
	for _, tc := range cases {
		if got := CleanToken(tc.in); got != tc.want {
			t.Errorf("CleanToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
