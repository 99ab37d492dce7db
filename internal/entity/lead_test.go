package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadTypeValid(t *testing.T) {
	for _, lt := range LeadTypes() {
		assert.True(t, lt.Valid(), lt)
	}
	assert.False(t, LeadType("not_a_real_type").Valid())
	assert.False(t, LeadType("").Valid())
}

func TestLeadStatusValid(t *testing.T) {
	assert.Len(t, LeadStatuses(), 4)
	for _, s := range LeadStatuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, LeadStatus("archived").Valid())
	assert.False(t, LeadStatus("NEW").Valid())
}

func TestEnumListsAreCopies(t *testing.T) {
	types := LeadTypes()
	types[0] = "tampered"
	assert.Equal(t, LeadTypeRent, LeadTypes()[0])

	statuses := LeadStatuses()
	statuses[0] = "tampered"
	assert.Equal(t, LeadStatusNew, LeadStatuses()[0])
}
