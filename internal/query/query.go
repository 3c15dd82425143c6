// Package query implements filtering, sorting and aggregation over
// property snapshots. Everything here is a pure function: no storage
// access, no mutation of the input list.
package query

import (
	"sort"
	"strings"

	"imobi/server/internal/models"
)

// All is the sentinel filter value matching every record. The empty
// string is treated the same way.
const All = "Todos"

// Filter combines the three dashboard predicates. They compose with
// logical AND.
type Filter struct {
	// Search is matched case-insensitively as a substring of code,
	// address, neighborhood and collected-by. Empty matches everything.
	Search string

	// Status is an exact status match, or All/empty for everything.
	Status string

	// Category is All/empty, models.CategoryResidential or
	// models.CategoryCommercial.
	Category string
}

// Apply returns the records matching the filter, preserving input order.
func Apply(list []models.Property, f Filter) []models.Property {
	out := make([]models.Property, 0, len(list))
	for _, p := range list {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether the record passes all three predicates.
func Matches(p models.Property, f Filter) bool {
	return MatchesSearch(p, f.Search) &&
		MatchesStatus(p, f.Status) &&
		MatchesCategory(p, f.Category)
}

// MatchesSearch reports whether any searchable field contains the term.
func MatchesSearch(p models.Property, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{p.Code, p.Address, p.Neighborhood, p.CollectedBy} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// MatchesStatus reports whether the record has the selected status.
func MatchesStatus(p models.Property, status string) bool {
	if status == "" || status == All {
		return true
	}
	return string(p.Status) == status
}

// MatchesCategory reports whether the record's type falls in the selected
// category.
func MatchesCategory(p models.Property, category string) bool {
	switch category {
	case "", All:
		return true
	case string(models.CategoryResidential):
		return models.IsResidential(p.Type)
	case string(models.CategoryCommercial):
		return models.IsCommercial(p.Type)
	default:
		return false
	}
}

// Direction selects the sort order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Field names a sortable column. Values match the record's wire names.
type Field string

const (
	FieldCode         Field = "codigo"
	FieldAddress      Field = "endereco"
	FieldNeighborhood Field = "bairro"
	FieldType         Field = "tipo"
	FieldValue        Field = "valor"
	FieldDescription  Field = "descricao"
	FieldNote         Field = "observacao"
	FieldStatus       Field = "status"
	FieldFormStatus   Field = "fichaStatus"
	FieldLastUpdated  Field = "dataAtualizacao"
	FieldFormUpdated  Field = "fichaDataAtualizacao"
	FieldCollectedBy  Field = "captador"
	FieldVacatedAt    Field = "vagoEm"
	FieldReleasedAt   Field = "liberadoEm"
)

// Sort returns a new slice ordered by the field in the given direction.
// The sort is stable. Records with an absent value on the field always
// sort after records with a defined value, in both directions.
func Sort(list []models.Property, field Field, dir Direction) []models.Property {
	out := make([]models.Property, len(list))
	copy(out, list)

	sort.SliceStable(out, func(i, j int) bool {
		return less(valueOf(out[i], field), valueOf(out[j], field), dir)
	})
	return out
}

// fieldValue is one record's value on the sort field. Only optional
// timestamps can be absent.
type fieldValue struct {
	str     string
	num     float64
	numeric bool
	defined bool
}

func valueOf(p models.Property, field Field) fieldValue {
	str := func(s string) fieldValue { return fieldValue{str: s, defined: true} }
	num := func(n float64) fieldValue { return fieldValue{num: n, numeric: true, defined: true} }
	opt := func(ts *int64) fieldValue {
		if ts == nil {
			return fieldValue{numeric: true}
		}
		return num(float64(*ts))
	}

	switch field {
	case FieldCode:
		return str(p.Code)
	case FieldAddress:
		return str(p.Address)
	case FieldNeighborhood:
		return str(p.Neighborhood)
	case FieldType:
		return str(string(p.Type))
	case FieldValue:
		return num(p.Value)
	case FieldDescription:
		return str(p.Description)
	case FieldNote:
		return str(p.Note)
	case FieldStatus:
		return str(string(p.Status))
	case FieldFormStatus:
		return str(string(p.FormStatus))
	case FieldLastUpdated:
		return num(float64(p.LastUpdated))
	case FieldFormUpdated:
		return opt(p.FormUpdated)
	case FieldCollectedBy:
		return str(p.CollectedBy)
	case FieldVacatedAt:
		return opt(p.VacatedAt)
	case FieldReleasedAt:
		return opt(p.ReleasedAt)
	default:
		return fieldValue{}
	}
}

func less(a, b fieldValue, dir Direction) bool {
	// Absent values go last no matter the direction.
	if !a.defined || !b.defined {
		return a.defined && !b.defined
	}

	var cmp int
	if a.numeric {
		switch {
		case a.num < b.num:
			cmp = -1
		case a.num > b.num:
			cmp = 1
		}
	} else {
		cmp = strings.Compare(a.str, b.str)
	}

	if dir == Descending {
		cmp = -cmp
	}
	return cmp < 0
}

// Aggregate computes the dashboard counters in a single pass. A record
// counts toward at most one category and one status bucket.
func Aggregate(list []models.Property) models.Stats {
	var stats models.Stats
	for _, p := range list {
		stats.Total++

		if models.IsResidential(p.Type) {
			stats.Residential++
		} else if models.IsCommercial(p.Type) {
			stats.Commercial++
		}

		switch p.Status {
		case models.StatusAvailable:
			stats.Available++
		case models.StatusInProcess:
			stats.InProcess++
		case models.StatusVacating:
			stats.Vacating++
		case models.StatusSuspended:
			stats.Suspended++
		case models.StatusLeased:
			stats.Leased++
		}
	}
	return stats
}
