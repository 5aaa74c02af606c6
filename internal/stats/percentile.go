package stats

import (
	"math"
	"sort"

	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/pkg/birthdate"
)

// TownAges считает p50/p75/p99 возраста (полных лет на today) для каждого города.
// Города сравниваются как точные строки; результат отсортирован по названию.
func TownAges(citizens []models.Citizen, today birthdate.Date) []models.TownAgeStat {
	ages := make(map[string][]float64)
	for _, c := range citizens {
		ages[c.Town] = append(ages[c.Town], float64(birthdate.YearsBetween(today, c.BirthDate)))
	}

	out := make([]models.TownAgeStat, 0, len(ages))
	for town, list := range ages {
		sort.Float64s(list)
		out = append(out, models.TownAgeStat{
			Town: town,
			P50:  round2(Percentile(list, 50)),
			P75:  round2(Percentile(list, 75)),
			P99:  round2(Percentile(list, 99)),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Town < out[j].Town })

	return out
}

// Percentile — перцентиль p (0..100) отсортированной выборки
// с линейной интерполяцией между соседними порядковыми статистиками:
// rank = p/100 * (n-1). Для пустой выборки — 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	switch {
	case p <= 0:
		return sorted[0]
	case p >= 100:
		return sorted[n-1]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
