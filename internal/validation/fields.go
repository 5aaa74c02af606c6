package validation

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/pkg/birthdate"
)

// Имена полей жителя в JSON.
const (
	FieldCitizenID = "citizen_id"
	FieldTown      = "town"
	FieldStreet    = "street"
	FieldBuilding  = "building"
	FieldApartment = "apartment"
	FieldName      = "name"
	FieldBirthDate = "birth_date"
	FieldGender    = "gender"
	FieldRelatives = "relatives"
)

// citizenFields — полный набор полей в порядке проверки.
var citizenFields = []string{
	FieldCitizenID, FieldTown, FieldStreet, FieldBuilding, FieldApartment,
	FieldName, FieldBirthDate, FieldGender, FieldRelatives,
}

func isCitizenField(name string) bool {
	for _, f := range citizenFields {
		if f == name {
			return true
		}
	}

	return false
}

// Citizen проверяет жителя из выгрузки: ровно 9 полей, каждое корректно.
// now — момент запроса, дата рождения не может быть позже его UTC-даты.
func Citizen(raw map[string]json.RawMessage, now time.Time) (models.Citizen, error) {
	if len(raw) != len(citizenFields) {
		return models.Citizen{}, errorf("citizen must contain exactly %d fields, got %d", len(citizenFields), len(raw))
	}

	if err := checkKeys(raw); err != nil {
		return models.Citizen{}, err
	}

	var c models.Citizen
	var err error

	if c.ID, err = nonNegativeInt(raw, FieldCitizenID); err != nil {
		return models.Citizen{}, err
	}

	if c.Town, err = alnumString(raw, FieldTown); err != nil {
		return models.Citizen{}, err
	}

	if c.Street, err = alnumString(raw, FieldStreet); err != nil {
		return models.Citizen{}, err
	}

	if c.Building, err = alnumString(raw, FieldBuilding); err != nil {
		return models.Citizen{}, err
	}

	if c.Apartment, err = nonNegativeInt(raw, FieldApartment); err != nil {
		return models.Citizen{}, err
	}

	if c.Name, err = nameString(raw); err != nil {
		return models.Citizen{}, err
	}

	if c.BirthDate, err = birthDate(raw, now); err != nil {
		return models.Citizen{}, err
	}

	if c.Gender, err = gender(raw); err != nil {
		return models.Citizen{}, err
	}

	if c.Relatives, err = relatives(raw); err != nil {
		return models.Citizen{}, err
	}

	return c, nil
}

// Patch проверяет частичное обновление жителя.
// citizen_id менять нельзя; пустой объект допустим.
func Patch(raw map[string]json.RawMessage, now time.Time) (models.CitizenPatch, error) {
	if _, ok := raw[FieldCitizenID]; ok {
		return models.CitizenPatch{}, errorf("field %q cannot be changed", FieldCitizenID)
	}

	if err := checkKeys(raw); err != nil {
		return models.CitizenPatch{}, err
	}

	var p models.CitizenPatch

	for _, f := range []struct {
		name string
		dst  **string
	}{
		{FieldTown, &p.Town},
		{FieldStreet, &p.Street},
		{FieldBuilding, &p.Building},
	} {
		if _, ok := raw[f.name]; !ok {
			continue
		}
		v, err := alnumString(raw, f.name)
		if err != nil {
			return models.CitizenPatch{}, err
		}
		*f.dst = &v
	}

	if _, ok := raw[FieldApartment]; ok {
		v, err := nonNegativeInt(raw, FieldApartment)
		if err != nil {
			return models.CitizenPatch{}, err
		}
		p.Apartment = &v
	}

	if _, ok := raw[FieldName]; ok {
		v, err := nameString(raw)
		if err != nil {
			return models.CitizenPatch{}, err
		}
		p.Name = &v
	}

	if _, ok := raw[FieldBirthDate]; ok {
		v, err := birthDate(raw, now)
		if err != nil {
			return models.CitizenPatch{}, err
		}
		p.BirthDate = &v
	}

	if _, ok := raw[FieldGender]; ok {
		v, err := gender(raw)
		if err != nil {
			return models.CitizenPatch{}, err
		}
		p.Gender = &v
	}

	if _, ok := raw[FieldRelatives]; ok {
		v, err := relatives(raw)
		if err != nil {
			return models.CitizenPatch{}, err
		}
		p.Relatives = &v
	}

	return p, nil
}

// checkKeys отклоняет неизвестные поля (первое по алфавиту, для стабильного сообщения).
func checkKeys(raw map[string]json.RawMessage) error {
	var unknown []string
	for k := range raw {
		if !isCitizenField(k) {
			unknown = append(unknown, k)
		}
	}

	if len(unknown) == 0 {
		return nil
	}

	sort.Strings(unknown)
	return errorf("unknown field %q", unknown[0])
}

func nonNegativeInt(raw map[string]json.RawMessage, name string) (int64, error) {
	v, ok := decodeNonNegativeInt(raw[name])
	if !ok {
		return 0, errorf("field %q must be a non-negative integer", name)
	}

	return v, nil
}

// decodeNonNegativeInt принимает только JSON-число без дробной части и экспоненты.
func decodeNonNegativeInt(b json.RawMessage) (int64, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || !(b[0] == '-' || (b[0] >= '0' && b[0] <= '9')) {
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return 0, false
	}

	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}

	return v, true
}

// decodeString принимает только JSON-строку (null и прочие типы отклоняются).
func decodeString(b json.RawMessage) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '"' {
		return "", false
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", false
	}

	return s, true
}

func alnumString(raw map[string]json.RawMessage, name string) (string, error) {
	s, ok := decodeString(raw[name])
	if !ok || !hasLetterOrDigit(s) {
		return "", errorf("field %q must be a string with at least one letter or digit", name)
	}

	return s, nil
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

func nameString(raw map[string]json.RawMessage) (string, error) {
	s, ok := decodeString(raw[FieldName])
	if !ok || strings.TrimSpace(s) == "" {
		return "", errorf("field %q must be a non-empty string", FieldName)
	}

	return s, nil
}

func birthDate(raw map[string]json.RawMessage, now time.Time) (birthdate.Date, error) {
	s, ok := decodeString(raw[FieldBirthDate])
	if !ok {
		return birthdate.Date{}, errorf("field %q must be a string in DD.MM.YYYY format", FieldBirthDate)
	}

	d, err := birthdate.Parse(s, now)
	if err != nil {
		return birthdate.Date{}, errorf("field %q must be a past date in DD.MM.YYYY format, got %q", FieldBirthDate, s)
	}

	return d, nil
}

func gender(raw map[string]json.RawMessage) (models.Gender, error) {
	s, ok := decodeString(raw[FieldGender])
	if ok {
		if g, ok := models.ParseGender(s); ok {
			return g, nil
		}
	}

	return models.GenderUnspecified, errorf("field %q must be \"male\" or \"female\"", FieldGender)
}

// relatives — массив неотрицательных целых без повторов. Пустой массив — не nil.
func relatives(raw map[string]json.RawMessage) ([]int64, error) {
	b := bytes.TrimSpace(raw[FieldRelatives])
	if len(b) == 0 || b[0] != '[' {
		return nil, errorf("field %q must be an array of non-negative integers", FieldRelatives)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, errorf("field %q must be an array of non-negative integers", FieldRelatives)
	}

	out := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))

	for _, item := range items {
		v, ok := decodeNonNegativeInt(item)
		if !ok {
			return nil, errorf("field %q must be an array of non-negative integers", FieldRelatives)
		}

		if _, dup := seen[v]; dup {
			return nil, errorf("field %q contains duplicate id %d", FieldRelatives, v)
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out, nil
}
