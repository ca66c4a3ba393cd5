package gate_test

import (
	"testing"

	"github.com/diewo77/epic-crm/gate"
)

func TestPermission_NewPermission(t *testing.T) {
	perm := gate.NewPermission("contract", gate.ActionCreate)
	if perm != "contract:create" {
		t.Errorf("expected 'contract:create', got '%s'", perm)
	}
}

func TestPermission_Parse(t *testing.T) {
	res, act := gate.Permission("event:view").Parse()
	if res != "event" || act != gate.ActionView {
		t.Errorf("expected event/view, got %s/%s", res, act)
	}

	res, act = gate.Permission("invalid").Parse()
	if res != "" || act != "" {
		t.Errorf("expected empty strings, got '%s' and '%s'", res, act)
	}
}

func TestPermission_Matches(t *testing.T) {
	tests := []struct {
		granted   gate.Permission
		requested gate.Permission
		want      bool
	}{
		{"client:create", "client:create", true},
		{"client:create", "client:delete", false},
		{"client:*", "client:delete", true},
		{"client:*", "event:delete", false},
		{"*:*", "identity:update", true},
		{"*:view", "client:view", false},
		{"broken", "client:view", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.granted)+"->"+string(tt.requested), func(t *testing.T) {
			if got := tt.granted.Matches(tt.requested); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
