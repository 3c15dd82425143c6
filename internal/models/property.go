package models

import "time"

// Status is the leasing state of a property. The wire values are the
// labels the dashboard displays, so stored data stays human-readable.
type Status string

const (
	StatusAvailable Status = "Disponível"
	StatusInProcess Status = "Em processo de locação"
	StatusVacating  Status = "Desocupando"
	StatusSuspended Status = "Suspenso"
	StatusLeased    Status = "Locado"
)

// AllStatuses lists every leasing status in display order.
func AllStatuses() []Status {
	return []Status{
		StatusAvailable,
		StatusInProcess,
		StatusVacating,
		StatusSuspended,
		StatusLeased,
	}
}

// PropertyType is the category label of a property.
type PropertyType string

const (
	TypeHouse      PropertyType = "Casa"
	TypeApartment  PropertyType = "Apartamento"
	TypeKitnet     PropertyType = "Kitnet"
	TypeOffice     PropertyType = "Sala"
	TypeShop       PropertyType = "Loja"
	TypeCommercial PropertyType = "Comercial"
	TypeGarage     PropertyType = "Garagem"
)

// FormStatus tracks the tenant-application paperwork, independent of the
// leasing status.
type FormStatus string

const (
	FormNone     FormStatus = "Sem ficha"
	FormInReview FormStatus = "Em andamento"
	FormApproved FormStatus = "Aprovada"
)

// CollectedByUnknown is the sentinel used when no collector was informed.
const CollectedByUnknown = "Não informado"

// Property is a single listing. Timestamps are milliseconds since epoch.
// JSON tags match the partition-file format of the original dashboard.
type Property struct {
	ID           string       `json:"id" gorm:"primaryKey"`
	Code         string       `json:"codigo"`
	Address      string       `json:"endereco"`
	Neighborhood string       `json:"bairro"`
	Type         PropertyType `json:"tipo"`
	Value        float64      `json:"valor"`
	Description  string       `json:"descricao"`
	Note         string       `json:"observacao"`
	Status       Status       `json:"status"`
	LastUpdated  int64        `json:"dataAtualizacao" gorm:"index:idx_properties_last_updated"`
	FormStatus   FormStatus   `json:"fichaStatus"`
	FormUpdated  *int64       `json:"fichaDataAtualizacao,omitempty"`
	CollectedBy  string       `json:"captador"`
	VacatedAt    *int64       `json:"vagoEm,omitempty"`
	ReleasedAt   *int64       `json:"liberadoEm,omitempty"`
}

// TableName keeps the document collection under the same table name the
// rest of the codebase uses.
func (Property) TableName() string {
	return "properties"
}

// ApplyDefaults fills the optional fields that default when absent.
// Description and Note default to the empty string, which is already the
// zero value; absence and empty string are not distinguished.
func (p *Property) ApplyDefaults() {
	if p.FormStatus == "" {
		p.FormStatus = FormNone
	}
	if p.CollectedBy == "" {
		p.CollectedBy = CollectedByUnknown
	}
}

// Patch is a partial update. Nil fields are left untouched by Merge.
// LastUpdated is deliberately absent: the backend stamps it on every write.
type Patch struct {
	Code         *string
	Address      *string
	Neighborhood *string
	Type         *PropertyType
	Value        *float64
	Description  *string
	Note         *string
	Status       *Status
	FormStatus   *FormStatus
	FormUpdated  *int64
	CollectedBy  *string
	VacatedAt    *int64
	ReleasedAt   *int64
}

// Merge applies every non-nil field of the patch to the property.
func (p *Property) Merge(patch Patch) {
	if patch.Code != nil {
		p.Code = *patch.Code
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.Neighborhood != nil {
		p.Neighborhood = *patch.Neighborhood
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Value != nil {
		p.Value = *patch.Value
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Note != nil {
		p.Note = *patch.Note
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.FormStatus != nil {
		p.FormStatus = *patch.FormStatus
	}
	if patch.FormUpdated != nil {
		p.FormUpdated = patch.FormUpdated
	}
	if patch.CollectedBy != nil {
		p.CollectedBy = *patch.CollectedBy
	}
	if patch.VacatedAt != nil {
		p.VacatedAt = patch.VacatedAt
	}
	if patch.ReleasedAt != nil {
		p.ReleasedAt = patch.ReleasedAt
	}
}

// Stats are the dashboard counters, derived from a snapshot and never
// persisted.
type Stats struct {
	Total       int `json:"total"`
	Residential int `json:"residencial"`
	Commercial  int `json:"comercial"`
	Available   int `json:"disponivel"`
	InProcess   int `json:"emProcesso"`
	Vacating    int `json:"desocupando"`
	Suspended   int `json:"suspenso"`
	Leased      int `json:"locado"`
}

// NowMillis returns the current time in milliseconds since epoch, the
// resolution every timestamp in the record uses.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
