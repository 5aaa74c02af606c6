package birthdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Тесты кодека дат:
//  - Parse: корректные даты, round-trip External(), високосные годы;
//  - Parse: ширина полей, разделители, пробелы, несуществующие даты, год 0000, будущее;
//  - ParseInternal/Internal и лексикографическая сортировка;
//  - YearsBetween: день рождения до/в/после опорной даты, 29 февраля.

var today = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

func TestParse_Valid_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"26.12.1986", "01.01.0001", "29.02.2000", "15.10.2026", "31.03.1999"} {
		d, err := Parse(s, today)
		require.NoError(t, err, s)
		require.Equal(t, s, d.External())
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"1.01.2019",
		"01.1.2019",
		"01.01.19",
		"2019.01.01",
		"01-01-2019",
		" 01.01.2019",
		"01.01.2019 ",
		"32.01.2019",
		"00.01.2019",
		"01.13.2019",
		"01.00.2019",
		"29.02.2019",
		"31.04.2019",
		"01.01.0000",
		"٠١.٠١.٢٠١٩",
		"+1.01.2019",
	}

	for _, s := range cases {
		_, err := Parse(s, today)
		require.ErrorIs(t, err, ErrInvalidDate, "input %q", s)
	}
}

func TestParse_FutureRejected_TodayAccepted(t *testing.T) {
	t.Parallel()

	_, err := Parse("16.10.2026", today)
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = Parse("15.10.2026", today)
	require.NoError(t, err)

	// Сравнение идёт по UTC-дате: в UTC+3 уже 16-е, но в UTC ещё 15-е.
	lateEvening := time.Date(2026, time.October, 16, 1, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	_, err = Parse("16.10.2026", lateEvening)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestInternal_RoundTripAndOrdering(t *testing.T) {
	t.Parallel()

	a, err := Parse("02.01.1999", today)
	require.NoError(t, err)
	b, err := Parse("01.02.1999", today)
	require.NoError(t, err)

	require.Equal(t, "1999.01.02", a.Internal())
	require.Less(t, a.Internal(), b.Internal())
	require.True(t, a.Before(b))
	require.True(t, b.After(a))

	back, err := ParseInternal(a.Internal())
	require.NoError(t, err)
	require.Equal(t, a, back)

	_, err = ParseInternal("02.01.1999")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestFromTimeAndTime(t *testing.T) {
	t.Parallel()

	d := FromTime(today)
	require.Equal(t, Date{Year: 2026, Month: time.October, Day: 15}, d)
	require.Equal(t, time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC), d.Time())
	require.False(t, d.IsZero())
	require.True(t, Date{}.IsZero())
}

func TestYearsBetween(t *testing.T) {
	t.Parallel()

	ref := Date{Year: 2026, Month: time.October, Day: 15}

	cases := []struct {
		birth Date
		want  int
	}{
		{Date{1986, time.December, 26}, 39},
		{Date{1986, time.October, 15}, 40},
		{Date{1986, time.October, 16}, 39},
		{Date{1986, time.September, 30}, 40},
		{Date{2026, time.October, 15}, 0},
		{Date{2025, time.October, 16}, 0},
	}

	for _, c := range cases {
		require.Equal(t, c.want, YearsBetween(ref, c.birth), c.birth.External())
	}

	leap := Date{2000, time.February, 29}
	require.Equal(t, 25, YearsBetween(Date{2026, time.February, 28}, leap))
	require.Equal(t, 26, YearsBetween(Date{2026, time.March, 1}, leap))
}
