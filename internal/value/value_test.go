package value

import "testing"

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"zero number", NewNumber(0), false},
		{"nonzero number", NewNumber(-3), true},
		{"true bool", NewBoolean(true), true},
		{"false bool", NewBoolean(false), false},
		{"empty string", NewString(""), false},
		{"nonempty string", NewString("x"), true},
		{"error", NewError("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsTruthy(); got != tt.want {
				t.Errorf("IsTruthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsNumber(t *testing.T) {
	if NewNumber(4.5).AsNumber() != 4.5 {
		t.Fatal("number coercion failed")
	}
	if NewBoolean(true).AsNumber() != 1.0 {
		t.Fatal("true should coerce to 1.0")
	}
	if NewBoolean(false).AsNumber() != 0.0 {
		t.Fatal("false should coerce to 0.0")
	}
	if NewString("10").AsNumber() != 0.0 {
		t.Fatal("strings coerce to 0.0, not parsed")
	}
	if NewError("e").AsNumber() != 0.0 {
		t.Fatal("errors coerce to 0.0")
	}
}

func TestEqual(t *testing.T) {
	if !NewNumber(1).Equal(NewNumber(1)) {
		t.Fatal("equal numbers should be equal")
	}
	if NewNumber(1).Equal(NewBoolean(true)) {
		t.Fatal("different tags should never be equal")
	}
	if !NewString("a").Equal(NewString("a")) {
		t.Fatal("equal strings should be equal")
	}
}
