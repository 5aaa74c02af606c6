package stats

import (
	"testing"
	"time"

	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/pkg/birthdate"
	"github.com/stretchr/testify/require"
)

// Тесты агрегатов:
//  - Birthdays: месяц берётся у получателя, дарит источник; петли считаются;
//    всегда 12 месяцев, пустые — пустые срезы; сортировка по citizen_id;
//  - TownAges: возраст на опорную дату, группировка по точной строке города,
//    один житель в городе, сортировка по названию, p50 <= p75 <= p99;
//  - Percentile: интерполяция и граничные случаи.

func born(id int64, town string, y int, m time.Month, d int, relatives ...int64) models.Citizen {
	return models.Citizen{
		ID:        id,
		Town:      town,
		BirthDate: birthdate.Date{Year: y, Month: m, Day: d},
		Relatives: relatives,
	}
}

func TestBirthdays_TargetMonthSourceGiver(t *testing.T) {
	t.Parallel()

	citizens := []models.Citizen{
		born(1, "Москва", 1986, time.December, 26, 2),
		born(2, "Москва", 1986, time.April, 1, 1, 3),
		born(3, "Керчь", 1990, time.April, 10, 2),
	}

	got := Birthdays(citizens, RelationsOf(citizens))

	// Апрель: 1 и 3 дарят 2, 2 дарит 3.
	require.Equal(t, []models.Presents{
		{CitizenID: 1, Presents: 1},
		{CitizenID: 2, Presents: 1},
		{CitizenID: 3, Presents: 1},
	}, got[time.April-1])
	// Декабрь: 2 дарит 1.
	require.Equal(t, []models.Presents{{CitizenID: 2, Presents: 1}}, got[time.December-1])
	for _, m := range []time.Month{time.January, time.February, time.March, time.May, time.June,
		time.July, time.August, time.September, time.October, time.November} {
		require.NotNil(t, got[m-1], m.String())
		require.Empty(t, got[m-1], m.String())
	}
}

func TestBirthdays_SameGiverSameMonthIsCounted(t *testing.T) {
	t.Parallel()

	citizens := []models.Citizen{
		born(1, "A", 1990, time.May, 1, 2, 3),
		born(2, "A", 1991, time.March, 2, 1),
		born(3, "A", 1992, time.March, 3, 1),
	}

	got := Birthdays(citizens, RelationsOf(citizens))
	require.Equal(t, []models.Presents{{CitizenID: 1, Presents: 2}}, got[time.March-1])
	require.Equal(t, []models.Presents{{CitizenID: 2, Presents: 1}, {CitizenID: 3, Presents: 1}}, got[time.May-1])
}

func TestBirthdays_SelfLoopCounts(t *testing.T) {
	t.Parallel()

	citizens := []models.Citizen{born(5, "A", 2000, time.July, 7, 5)}

	got := Birthdays(citizens, RelationsOf(citizens))
	require.Equal(t, []models.Presents{{CitizenID: 5, Presents: 1}}, got[time.July-1])
}

func TestBirthdays_EmptyAndUnknownTarget(t *testing.T) {
	t.Parallel()

	got := Birthdays(nil, []models.Relation{{CitizenID: 1, RelativeID: 2}})
	for i := range got {
		require.NotNil(t, got[i])
		require.Empty(t, got[i])
	}
}

func TestTownAges_Basic(t *testing.T) {
	t.Parallel()

	today := birthdate.Date{Year: 2026, Month: time.October, Day: 15}
	citizens := []models.Citizen{
		born(1, "Москва", 2016, time.January, 1),  // 10
		born(2, "Москва", 2006, time.January, 1),  // 20
		born(3, "Москва", 1996, time.January, 1),  // 30
		born(4, "Москва", 1986, time.January, 1),  // 40
		born(5, "Керчь", 1986, time.October, 16),  // 39
		born(6, "москва", 2000, time.October, 15), // 26
	}

	got := TownAges(citizens, today)
	require.Equal(t, []models.TownAgeStat{
		{Town: "Керчь", P50: 39, P75: 39, P99: 39},
		{Town: "Москва", P50: 25, P75: 32.5, P99: 39.7},
		{Town: "москва", P50: 26, P75: 26, P99: 26},
	}, got)

	for _, s := range got {
		require.LessOrEqual(t, s.P50, s.P75)
		require.LessOrEqual(t, s.P75, s.P99)
	}
}

func TestTownAges_Empty(t *testing.T) {
	t.Parallel()

	got := TownAges(nil, birthdate.Date{Year: 2026, Month: time.January, Day: 1})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, Percentile(nil, 50))
	require.Equal(t, 7.0, Percentile([]float64{7}, 99))
	require.Equal(t, 1.0, Percentile([]float64{1, 2, 3}, 0))
	require.Equal(t, 3.0, Percentile([]float64{1, 2, 3}, 100))
	require.Equal(t, 2.0, Percentile([]float64{1, 2, 3}, 50))
	require.InDelta(t, 2.5, Percentile([]float64{1, 2, 3, 4}, 50), 1e-9)
	require.InDelta(t, 3.97, Percentile([]float64{1, 2, 3, 4}, 99), 1e-9)
}

func TestPercentile_Monotonic(t *testing.T) {
	t.Parallel()

	sample := []float64{3, 3, 5, 8, 13, 21, 34, 55, 89}
	prev := Percentile(sample, 0)
	for p := 1.0; p <= 100; p++ {
		cur := Percentile(sample, p)
		require.GreaterOrEqual(t, cur, prev, "p=%v", p)
		prev = cur
	}
}
