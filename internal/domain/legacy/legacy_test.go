package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceIsCurrent(t *testing.T) {
	tests := []struct {
		status  string
		current bool
		debt    bool
	}{
		{"AN", false, false},
		{"CA", false, false},
		{"G", true, true},
		{"NP", true, true},
		{"PA", true, false},
		{"", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			inv := Invoice{Status: tt.status}
			assert.Equal(t, tt.current, inv.IsCurrent())
			assert.Equal(t, tt.debt, inv.IsDebt())
		})
	}
}

func TestServiceContractIsActive(t *testing.T) {
	yes, no := "S", "N"

	assert.False(t, (&ServiceContract{}).IsActive())
	assert.False(t, (&ServiceContract{Voided: &yes}).IsActive())
	assert.True(t, (&ServiceContract{Voided: &no}).IsActive())
}

func TestLegacyClientFullName(t *testing.T) {
	c := LegacyClient{PaternalName: "Perez", GivenNames: "Juan Carlos"}
	assert.Equal(t, "Perez Juan Carlos", c.FullName())
	assert.False(t, c.IsSubscriber())
}
