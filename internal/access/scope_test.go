package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowsObject(t *testing.T) {
	cases := []struct {
		name      string
		scope     Scope
		objectID  string
		managerID string
		want      bool
	}{
		{"admin sees everything", Admin(""), "obj1", "u1", true},
		{"admin object filter match", Admin("obj1"), "obj1", "", true},
		{"admin object filter miss", Admin("obj1"), "obj2", "", false},
		{"manager owns object", Manager("u1"), "obj1", "u1", true},
		{"manager foreign object", Manager("u1"), "obj1", "u2", false},
		{"manager unassigned object", Manager("u1"), "obj1", "", false},
		{"deputy assigned", Deputy("u3", []string{"obj1", "obj2"}), "obj2", "", true},
		{"deputy not assigned", Deputy("u3", []string{"obj1"}), "obj2", "", false},
		{"deputy empty assignment", Deputy("u3", nil), "obj1", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.scope.AllowsObject(tc.objectID, tc.managerID))
		})
	}
}
