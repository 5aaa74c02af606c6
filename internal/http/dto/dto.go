// dto — JSON-представления ответов HTTP API gift-service.
// Конвертеры From* переводят доменные модели в формы ответа.
package dto

import (
	"strconv"

	"github.com/pribylovaa/go-gift-service/internal/models"
)

// Envelope — корневой объект успешного ответа.
type Envelope struct {
	Data any `json:"data"`
}

// ImportCreated — ответ на POST /imports.
type ImportCreated struct {
	ImportID int64 `json:"import_id"`
}

// Citizen — житель в ответах API.
type Citizen struct {
	CitizenID int64   `json:"citizen_id"`
	Town      string  `json:"town"`
	Street    string  `json:"street"`
	Building  string  `json:"building"`
	Apartment int64   `json:"apartment"`
	Name      string  `json:"name"`
	BirthDate string  `json:"birth_date"`
	Gender    string  `json:"gender"`
	Relatives []int64 `json:"relatives"`
}

// FromCitizen конвертирует жителя; relatives всегда массив, не null.
func FromCitizen(c models.Citizen) Citizen {
	relatives := c.Relatives
	if relatives == nil {
		relatives = []int64{}
	}

	return Citizen{
		CitizenID: c.ID,
		Town:      c.Town,
		Street:    c.Street,
		Building:  c.Building,
		Apartment: c.Apartment,
		Name:      c.Name,
		BirthDate: c.BirthDate.External(),
		Gender:    c.Gender.String(),
		Relatives: relatives,
	}
}

// FromCitizens конвертирует список жителей с сохранением порядка.
func FromCitizens(cs []models.Citizen) []Citizen {
	out := make([]Citizen, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCitizen(c))
	}

	return out
}

// Presents — число подарков жителя в месяце.
type Presents struct {
	CitizenID int64 `json:"citizen_id"`
	Presents  int   `json:"presents"`
}

// FromBirthdays строит объект с ключами "1".."12"; каждый месяц присутствует.
func FromBirthdays(s models.BirthdayStats) map[string][]Presents {
	out := make(map[string][]Presents, len(s))
	for i, month := range s {
		entries := make([]Presents, 0, len(month))
		for _, p := range month {
			entries = append(entries, Presents{CitizenID: p.CitizenID, Presents: p.Presents})
		}
		out[strconv.Itoa(i+1)] = entries
	}

	return out
}

// TownAgeStat — перцентили возраста города.
type TownAgeStat struct {
	Town string  `json:"town"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P99  float64 `json:"p99"`
}

// FromTownAgeStats конвертирует перцентили по городам.
func FromTownAgeStats(ss []models.TownAgeStat) []TownAgeStat {
	out := make([]TownAgeStat, 0, len(ss))
	for _, s := range ss {
		out = append(out, TownAgeStat{Town: s.Town, P50: s.P50, P75: s.P75, P99: s.P99})
	}

	return out
}
