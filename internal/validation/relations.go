package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pribylovaa/go-gift-service/internal/models"
)

type pair struct {
	from, to int64
}

// CheckImport проверяет граф связей выгрузки целиком:
//   - citizen_id уникальны;
//   - пары (a, b) не повторяются;
//   - оба конца каждой пары — жители этой же выгрузки;
//   - для каждой пары (a, b), a != b, есть зеркальная (b, a).
//
// Вход не изменяется.
func CheckImport(citizens []models.Citizen) error {
	ids := make(map[int64]struct{}, len(citizens))
	for _, c := range citizens {
		if _, dup := ids[c.ID]; dup {
			return errorf("duplicate citizen_id %d", c.ID)
		}
		ids[c.ID] = struct{}{}
	}

	pairs := make(map[pair]struct{})
	for _, c := range citizens {
		for _, r := range c.Relatives {
			p := pair{from: c.ID, to: r}
			if _, dup := pairs[p]; dup {
				return errorf("duplicate relation %s", formatPair(p))
			}
			pairs[p] = struct{}{}
		}
	}

	var dangling []pair
	for p := range pairs {
		if _, ok := ids[p.to]; !ok {
			dangling = append(dangling, p)
		}
	}

	if len(dangling) > 0 {
		sortPairs(dangling)
		return errorf("Unknown relatives: %s", formatPairs(dangling))
	}

	var unmatched []pair
	for p := range pairs {
		if p.from == p.to {
			continue
		}
		if _, ok := pairs[pair{from: p.to, to: p.from}]; !ok {
			unmatched = append(unmatched, p)
		}
	}

	if len(unmatched) > 0 {
		sortPairs(unmatched)
		return errorf("Relations are not symmetric: %s", formatPairs(unmatched))
	}

	return nil
}

// CheckRelatives проверяет новый список родственников citizenID при PATCH.
// stored — id жителей выгрузки из хранилища. Собственный id допускается всегда.
// Все отсутствующие id сообщаются одной ошибкой.
func CheckRelatives(citizenID int64, relatives []int64, stored map[int64]struct{}) error {
	seen := make(map[int64]struct{}, len(relatives))
	var missing []pair

	for _, r := range relatives {
		if _, dup := seen[r]; dup {
			return errorf("field %q contains duplicate id %d", FieldRelatives, r)
		}
		seen[r] = struct{}{}

		if r == citizenID {
			continue
		}
		if _, ok := stored[r]; !ok {
			missing = append(missing, pair{from: citizenID, to: r})
		}
	}

	if len(missing) > 0 {
		sortPairs(missing)
		return errorf("Wrong relations: %s", formatPairs(missing))
	}

	return nil
}

func sortPairs(ps []pair) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].from != ps[j].from {
			return ps[i].from < ps[j].from
		}
		return ps[i].to < ps[j].to
	})
}

func formatPair(p pair) string {
	return fmt.Sprintf("(%d, %d)", p.from, p.to)
}

func formatPairs(ps []pair) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = formatPair(p)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
