// models содержит доменные сущности gift-сервиса.
// Эти типы используются слоями валидации, бизнес-логики, хранилища и транспорта.
package models

import (
	"github.com/pribylovaa/go-gift-service/internal/pkg/birthdate"
)

// Gender — внутренний enum.
type Gender int8

const (
	GenderUnspecified Gender = iota
	GenderMale
	GenderFemale
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "unspecified"
	}
}

// ParseGender принимает только "male" и "female".
func ParseGender(s string) (Gender, bool) {
	switch s {
	case "male":
		return GenderMale, true
	case "female":
		return GenderFemale, true
	default:
		return GenderUnspecified, false
	}
}

// Citizen — житель в рамках одной выгрузки.
// Relatives — id родственников той же выгрузки, может содержать собственный id.
type Citizen struct {
	ID        int64
	Town      string
	Street    string
	Building  string
	Apartment int64
	Name      string
	BirthDate birthdate.Date
	Gender    Gender
	Relatives []int64
}

// CitizenPatch — частичное обновление жителя.
// Обновляются только непустые указатели; Relatives != nil заменяет весь список
// (в том числе на пустой).
type CitizenPatch struct {
	Town      *string
	Street    *string
	Building  *string
	Apartment *int64
	Name      *string
	BirthDate *birthdate.Date
	Gender    *Gender
	Relatives *[]int64
}

// IsEmpty — в патче нет ни одного поля.
func (p CitizenPatch) IsEmpty() bool {
	return p.Town == nil && p.Street == nil && p.Building == nil && p.Apartment == nil &&
		p.Name == nil && p.BirthDate == nil && p.Gender == nil && p.Relatives == nil
}

// HasFields — в патче есть поля помимо Relatives.
func (p CitizenPatch) HasFields() bool {
	return p.Town != nil || p.Street != nil || p.Building != nil || p.Apartment != nil ||
		p.Name != nil || p.BirthDate != nil || p.Gender != nil
}

// Relation — ребро (CitizenID -> RelativeID): CitizenID дарит подарок RelativeID.
type Relation struct {
	CitizenID  int64
	RelativeID int64
}
