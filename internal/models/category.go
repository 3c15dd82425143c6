package models

// Category is the derived super-grouping of a property type. It is never
// stored on the record; it is computed from the classification table below.
type Category string

const (
	CategoryResidential Category = "Residencial"
	CategoryCommercial  Category = "Comercial"
)

// ResidentialTypes and CommercialTypes form the static classification table.
// The two sets are disjoint, so a type maps to at most one category.
var (
	ResidentialTypes = []PropertyType{TypeHouse, TypeApartment, TypeKitnet}
	CommercialTypes  = []PropertyType{TypeOffice, TypeShop, TypeCommercial, TypeGarage}
)

// CategoryOf returns the category of a property type and whether the type
// is classified at all.
func CategoryOf(t PropertyType) (Category, bool) {
	for _, rt := range ResidentialTypes {
		if t == rt {
			return CategoryResidential, true
		}
	}
	for _, ct := range CommercialTypes {
		if t == ct {
			return CategoryCommercial, true
		}
	}
	return "", false
}

// IsResidential reports whether the type belongs to the residential set.
func IsResidential(t PropertyType) bool {
	c, ok := CategoryOf(t)
	return ok && c == CategoryResidential
}

// IsCommercial reports whether the type belongs to the commercial set.
func IsCommercial(t PropertyType) bool {
	c, ok := CategoryOf(t)
	return ok && c == CategoryCommercial
}

// AllTypes returns every classified property type.
func AllTypes() []PropertyType {
	types := make([]PropertyType, 0, len(ResidentialTypes)+len(CommercialTypes))
	types = append(types, ResidentialTypes...)
	types = append(types, CommercialTypes...)
	return types
}
