package dataset

import "sort"

type Gender string

const (
	Male   Gender = "M"
	Female Gender = "F"
)

func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case Male:
		return Male, true
	case Female:
		return Female, true
	default:
		return "", false
	}
}

// NameRecord is one row of the dataset. (Name, Year, Gender) is not
// guaranteed unique; duplicates in the source file are kept.
type NameRecord struct {
	Name            string
	Year            int
	Gender          Gender
	Count           int
	NameRatio       float64
	GenderNameRatio float64
}

// Table is the loaded dataset, sorted by (Name, Year). It is never mutated
// after NewTable returns and is safe to share between requests.
type Table struct {
	records []NameRecord
	byName  map[string][]NameRecord
	minYear int
	maxYear int

	// Dropped counts rows skipped at load because of an unknown gender code.
	Dropped int
}

// NewTable sorts records by (Name, Year) and indexes them by name. Ties keep
// their input order.
func NewTable(records []NameRecord) *Table {
	sorted := make([]NameRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Year < sorted[j].Year
	})

	t := &Table{
		records: sorted,
		byName:  make(map[string][]NameRecord),
	}

	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i].Name != sorted[start].Name {
			t.byName[sorted[start].Name] = sorted[start:i:i]
			start = i
		}
	}

	for i, r := range sorted {
		if i == 0 || r.Year < t.minYear {
			t.minYear = r.Year
		}
		if i == 0 || r.Year > t.maxYear {
			t.maxYear = r.Year
		}
	}

	return t
}

func (t *Table) Len() int {
	return len(t.records)
}

// Records returns the sorted rows. Callers must not modify the slice.
func (t *Table) Records() []NameRecord {
	return t.records
}

// Rows returns the rows for name in year order, or nil if the name is absent.
func (t *Table) Rows(name string) []NameRecord {
	return t.byName[name]
}

func (t *Table) NameCount() int {
	return len(t.byName)
}

// YearRange reports the smallest and largest year in the table. Both are zero
// for an empty table.
func (t *Table) YearRange() (int, int) {
	return t.minYear, t.maxYear
}
