// stats — агрегаты по выгрузке: подарки по месяцам и перцентили возраста по городам.
// Функции чистые: работают только с переданными срезами.
package stats

import (
	"sort"

	"github.com/pribylovaa/go-gift-service/internal/models"
)

// Birthdays считает, сколько подарков каждый житель покупает в каждом месяце.
// Ребро (x, y): в месяц рождения y житель x покупает один подарок.
// Петли (x, x) учитываются. Рёбра на неизвестных жителей пропускаются.
func Birthdays(citizens []models.Citizen, relations []models.Relation) models.BirthdayStats {
	months := make(map[int64]int, len(citizens))
	for _, c := range citizens {
		months[c.ID] = int(c.BirthDate.Month)
	}

	// counts[month-1][giver] = presents
	var counts [12]map[int64]int
	for _, r := range relations {
		m, ok := months[r.RelativeID]
		if !ok || m < 1 || m > 12 {
			continue
		}
		if counts[m-1] == nil {
			counts[m-1] = make(map[int64]int)
		}
		counts[m-1][r.CitizenID]++
	}

	var out models.BirthdayStats
	for i := range out {
		entries := make([]models.Presents, 0, len(counts[i]))
		for id, n := range counts[i] {
			entries = append(entries, models.Presents{CitizenID: id, Presents: n})
		}
		sort.Slice(entries, func(a, b int) bool { return entries[a].CitizenID < entries[b].CitizenID })
		out[i] = entries
	}

	return out
}

// RelationsOf разворачивает списки relatives жителей в рёбра.
// Используется, когда рёбра не хранятся отдельно (memory-хранилище, тесты).
func RelationsOf(citizens []models.Citizen) []models.Relation {
	var n int
	for _, c := range citizens {
		n += len(c.Relatives)
	}

	out := make([]models.Relation, 0, n)
	for _, c := range citizens {
		for _, r := range c.Relatives {
			out = append(out, models.Relation{CitizenID: c.ID, RelativeID: r})
		}
	}

	return out
}
