package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	p := Property{Code: "A1", Type: TypeHouse, Status: StatusAvailable}
	p.ApplyDefaults()

	assert.Equal(t, FormNone, p.FormStatus)
	assert.Equal(t, CollectedByUnknown, p.CollectedBy)
	assert.Empty(t, p.Description)
	assert.Empty(t, p.Note)
}

func TestApplyDefaultsKeepsProvidedValues(t *testing.T) {
	p := Property{
		Code:        "A1",
		FormStatus:  FormApproved,
		CollectedBy: "Maria",
	}
	p.ApplyDefaults()

	assert.Equal(t, FormApproved, p.FormStatus)
	assert.Equal(t, "Maria", p.CollectedBy)
}

func TestMerge(t *testing.T) {
	p := Property{
		ID:          "abc",
		Code:        "A1",
		Address:     "Rua das Flores, 10",
		Status:      StatusAvailable,
		FormStatus:  FormNone,
		CollectedBy: "Maria",
	}

	status := StatusLeased
	value := 1500.0
	p.Merge(Patch{Status: &status, Value: &value})

	assert.Equal(t, StatusLeased, p.Status)
	assert.Equal(t, 1500.0, p.Value)
	// Untouched fields survive the merge.
	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, "A1", p.Code)
	assert.Equal(t, "Rua das Flores, 10", p.Address)
	assert.Equal(t, FormNone, p.FormStatus)
	assert.Equal(t, "Maria", p.CollectedBy)
}

func TestMergeEmptyPatchIsNoop(t *testing.T) {
	p := Property{Code: "A1", Status: StatusSuspended, Value: 900}
	before := p
	p.Merge(Patch{})
	assert.Equal(t, before, p)
}

func TestMergeFormTimestamp(t *testing.T) {
	p := Property{Code: "A1"}
	fs := FormInReview
	ts := int64(1700000000000)
	p.Merge(Patch{FormStatus: &fs, FormUpdated: &ts})

	assert.Equal(t, FormInReview, p.FormStatus)
	if assert.NotNil(t, p.FormUpdated) {
		assert.Equal(t, ts, *p.FormUpdated)
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		propertyType PropertyType
		category     Category
		classified   bool
	}{
		{TypeHouse, CategoryResidential, true},
		{TypeApartment, CategoryResidential, true},
		{TypeKitnet, CategoryResidential, true},
		{TypeOffice, CategoryCommercial, true},
		{TypeShop, CategoryCommercial, true},
		{TypeCommercial, CategoryCommercial, true},
		{TypeGarage, CategoryCommercial, true},
		{PropertyType("Fazenda"), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.propertyType), func(t *testing.T) {
			c, ok := CategoryOf(tt.propertyType)
			assert.Equal(t, tt.classified, ok)
			assert.Equal(t, tt.category, c)
		})
	}
}

func TestCategorySetsAreDisjoint(t *testing.T) {
	for _, rt := range ResidentialTypes {
		assert.False(t, IsCommercial(rt), "type %s in both categories", rt)
	}
	for _, ct := range CommercialTypes {
		assert.False(t, IsResidential(ct), "type %s in both categories", ct)
	}
}

func TestAllStatusesCount(t *testing.T) {
	assert.Len(t, AllStatuses(), 5)
}
