// birthdate — кодек дат рождения жителей.
//
// Внешний формат (JSON API): DD.MM.YYYY.
// Внутренний формат (хранилище/ключи кэша): YYYY.MM.DD, сортируется лексикографически.
package birthdate

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate — строка не является корректной датой рождения.
var ErrInvalidDate = errors.New("invalid date")

const (
	externalLayout = "02.01.2006"
	internalLayout = "2006.01.02"
)

// Date — календарная дата без времени и часового пояса.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse разбирает DD.MM.YYYY.
// Допускаются только ASCII-цифры фиксированной ширины и точки как разделители,
// год >= 1, дата не позже today (берётся UTC-дата).
func Parse(s string, today time.Time) (Date, error) {
	d, err := parseFixed(s, 0, 3, 6, 2, 2, 4)
	if err != nil {
		return Date{}, err
	}

	if d.After(FromTime(today)) {
		return Date{}, fmt.Errorf("%w: %q is in the future", ErrInvalidDate, s)
	}

	return d, nil
}

// ParseInternal разбирает YYYY.MM.DD (обратная операция к Internal).
func ParseInternal(s string) (Date, error) {
	return parseFixed(s, 8, 5, 0, 2, 2, 4)
}

// parseFixed разбирает строку из трёх числовых полей, разделённых точками.
// dayAt/monthAt/yearAt — смещения полей, *W — их ширина.
func parseFixed(s string, dayAt, monthAt, yearAt, dayW, monthW, yearW int) (Date, error) {
	if len(s) != dayW+monthW+yearW+2 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		// Для последнего поля смещение разделителя совпадает с len(s) и не достигается.
		isSep := i == dayAt+dayW || i == monthAt+monthW || i == yearAt+yearW
		switch {
		case isSep && c == '.':
		case !isSep && c >= '0' && c <= '9':
		default:
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
	}

	day := atoi(s[dayAt : dayAt+dayW])
	month := atoi(s[monthAt : monthAt+monthW])
	year := atoi(s[yearAt : yearAt+yearW])

	if year < 1 || month < 1 || month > 12 || day < 1 || day > daysIn(time.Month(month), year) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}

	return n
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FromTime берёт UTC-дату момента t.
func FromTime(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time — полночь UTC этой даты.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// External — DD.MM.YYYY.
func (d Date) External() string {
	return d.Time().Format(externalLayout)
}

// Internal — YYYY.MM.DD.
func (d Date) Internal() string {
	return d.Time().Format(internalLayout)
}

func (d Date) String() string { return d.External() }

// IsZero сообщает, что дата не задана.
func (d Date) IsZero() bool { return d == Date{} }

// Before/After сравнивают даты по календарю.
func (d Date) Before(o Date) bool { return d.compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.compare(o) > 0 }

func (d Date) compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return d.Year - o.Year
	case d.Month != o.Month:
		return int(d.Month) - int(o.Month)
	default:
		return d.Day - o.Day
	}
}

// YearsBetween — полных лет на дату reference у родившегося birth:
// разница годов минус один, если в году reference день рождения ещё не наступил.
func YearsBetween(reference, birth Date) int {
	years := reference.Year - birth.Year
	if reference.Month < birth.Month || (reference.Month == birth.Month && reference.Day < birth.Day) {
		years--
	}

	return years
}
