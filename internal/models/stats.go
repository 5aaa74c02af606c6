package models

// Presents — сколько подарков житель покупает в одном месяце.
type Presents struct {
	CitizenID int64
	Presents  int
}

// BirthdayStats — подарки по месяцам: индекс 0 соответствует январю.
// Месяц без подарков — пустой (не nil) срез.
type BirthdayStats [12][]Presents

// TownAgeStat — перцентили возраста жителей одного города.
type TownAgeStat struct {
	Town string
	P50  float64
	P75  float64
	P99  float64
}
