package person

import "strings"

// Person is a single registry record. The pair (lowercased Name, BBAN) is
// its lookup key; nothing else identifies it.
type Person struct {
	Name    string  `json:"name"`
	Age     int     `json:"age"`
	Balance float64 `json:"balance"`
	BBAN    string  `json:"bban"`
}

// Matches reports whether the record is addressed by name (case-insensitive)
// and bban (exact).
func (p Person) Matches(name, bban string) bool {
	return p.BBAN == bban && strings.ToLower(p.Name) == strings.ToLower(name)
}

// Seed returns the records that always precede the data file at startup.
func Seed() []Person {
	return []Person{
		{Name: "Alice", Age: 30, Balance: 5000, BBAN: "TZIR92411578156593"},
		{Name: "Bob", Age: 25, Balance: 3000, BBAN: "MYNB48764759382421"},
	}
}
