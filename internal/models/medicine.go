// ABOUTME: Medicine model for the medication cabinet.
// ABOUTME: Tracks name, purpose, dose, units, and scheduled doses per time of day.
package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DoseSlots are the times of day a dose can be scheduled, in display
// order: before/after breakfast, lunch, and dinner, plus as-and-when-needed.
var DoseSlots = []string{"BB", "AB", "BL", "AL", "BD", "AD", "AAWN"}

// ValidUnits are the accepted dose units.
var ValidUnits = []string{"g", "mg", "mcg", "units"}

// Medicine is one entry in the medication cabinet. Names are stored
// lowercase and act as the duplicate key; the ID exists so entries can
// be addressed without retyping the full name.
type Medicine struct {
	ID        uuid.UUID
	Name      string
	Purpose   string
	Dose      float64
	Units     string
	Times     map[string]int
	CreatedAt time.Time
}

// NewMedicine creates a medicine with a generated ID and the name
// normalized to lowercase.
func NewMedicine(name string) *Medicine {
	return &Medicine{
		ID:        uuid.New(),
		Name:      NormalizeMedicineName(name),
		Units:     "units",
		Times:     make(map[string]int),
		CreatedAt: time.Now(),
	}
}

// WithPurpose sets what the medicine is taken for.
func (m *Medicine) WithPurpose(purpose string) *Medicine {
	m.Purpose = purpose
	return m
}

// WithDose sets the dose amount and its units.
func (m *Medicine) WithDose(dose float64, units string) *Medicine {
	m.Dose = dose
	m.Units = units
	return m
}

// WithTimes replaces the dose schedule. The map is copied so the
// medicine never aliases caller state.
func (m *Medicine) WithTimes(times map[string]int) *Medicine {
	m.Times = make(map[string]int, len(times))
	for slot, n := range times {
		m.Times[slot] = n
	}
	return m
}

// Clone returns a deep copy with an independent Times map.
func (m Medicine) Clone() Medicine {
	out := m
	out.Times = make(map[string]int, len(m.Times))
	for slot, n := range m.Times {
		out.Times[slot] = n
	}
	return out
}

// DailyDoses sums the scheduled doses across all slots.
func (m Medicine) DailyDoses() int {
	total := 0
	for _, n := range m.Times {
		total += n
	}
	return total
}

// Schedule renders the dose schedule in slot order, e.g. "BB:1 BD:2".
// Slots with no doses are omitted; an empty schedule renders as "-".
func (m Medicine) Schedule() string {
	var parts []string
	for _, slot := range DoseSlots {
		if n, ok := m.Times[slot]; ok && n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", slot, n))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// NormalizeMedicineName lowercases and trims a medicine name.
func NormalizeMedicineName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsValidMedicineName reports whether a name is non-empty ASCII letters
// and spaces only.
func IsValidMedicineName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if r == ' ' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			continue
		}
		return false
	}
	return true
}

// IsValidUnit reports whether units is one of the accepted dose units.
func IsValidUnit(units string) bool {
	for _, u := range ValidUnits {
		if u == units {
			return true
		}
	}
	return false
}

// IsValidDoseSlot reports whether slot is a known time of day.
func IsValidDoseSlot(slot string) bool {
	for _, s := range DoseSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// SortMedicines orders medicines by name in place.
func SortMedicines(meds []Medicine) {
	sort.Slice(meds, func(i, j int) bool { return meds[i].Name < meds[j].Name })
}
