// ABOUTME: Medication cabinet: a name-sorted list of medicines.
// ABOUTME: Lookup is linear; the list stays small enough that order-of-growth is moot.
package medication

import (
	"fmt"
	"strings"

	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/vitals"
)

// Cabinet holds one session's medicines sorted by name. Names are the
// duplicate key; IDs exist so entries can be addressed by prefix
// without retyping the name. Accessors hand out copies.
type Cabinet struct {
	meds     []models.Medicine
	baseline []models.Medicine
}

// NewCabinet builds a Cabinet from loaded medicines. Duplicate names in
// the input are rejected as a data-integrity error.
func NewCabinet(meds []models.Medicine) (*Cabinet, error) {
	c := &Cabinet{meds: cloneMedicines(meds)}
	models.SortMedicines(c.meds)
	for i := 1; i < len(c.meds); i++ {
		if c.meds[i].Name == c.meds[i-1].Name {
			return nil, fmt.Errorf("%w in loaded data: %s", vitals.ErrDuplicate, c.meds[i].Name)
		}
	}
	c.baseline = cloneMedicines(c.meds)
	return c, nil
}

// Len returns the number of medicines.
func (c *Cabinet) Len() int {
	return len(c.meds)
}

// List returns a copy of every medicine in name order.
func (c *Cabinet) List() []models.Medicine {
	return cloneMedicines(c.meds)
}

// Get returns a copy of the medicine at pos.
func (c *Cabinet) Get(pos int) (models.Medicine, error) {
	if pos < 0 || pos >= len(c.meds) {
		return models.Medicine{}, fmt.Errorf("position %d: %w", pos, vitals.ErrNotFound)
	}
	return c.meds[pos].Clone(), nil
}

// Find returns the positions of every medicine whose name contains the
// given fragment, case-insensitively.
func (c *Cabinet) Find(fragment string) []int {
	needle := strings.ToLower(strings.TrimSpace(fragment))
	var matches []int
	for i, m := range c.meds {
		if strings.Contains(m.Name, needle) {
			matches = append(matches, i)
		}
	}
	return matches
}

// Resolve finds the medicine whose ID matches idOrPrefix exactly or by
// prefix. An exact match wins immediately; a prefix matching several
// medicines is an error asking the caller to disambiguate.
func (c *Cabinet) Resolve(idOrPrefix string) (int, error) {
	needle := strings.ToLower(idOrPrefix)
	var matches []int
	for i, m := range c.meds {
		id := m.ID.String()
		if id == needle {
			return i, nil
		}
		if strings.HasPrefix(id, needle) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("%w: %s", vitals.ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("ambiguous prefix %s: matches %d medicines", idOrPrefix, len(matches))
	}
}

// Add validates and inserts a medicine, keeping the list sorted by name.
func (c *Cabinet) Add(m models.Medicine) error {
	if err := validate(m); err != nil {
		return err
	}
	for _, existing := range c.meds {
		if existing.Name == m.Name {
			return fmt.Errorf("%w: %s", vitals.ErrDuplicate, m.Name)
		}
	}
	c.meds = append(c.meds, m.Clone())
	models.SortMedicines(c.meds)
	return nil
}

// Replace swaps the medicine at pos for the updated one, re-validating
// and re-checking the name against the rest of the cabinet.
func (c *Cabinet) Replace(pos int, m models.Medicine) error {
	if pos < 0 || pos >= len(c.meds) {
		return fmt.Errorf("position %d: %w", pos, vitals.ErrNotFound)
	}
	if err := validate(m); err != nil {
		return err
	}
	for i, existing := range c.meds {
		if i != pos && existing.Name == m.Name {
			return fmt.Errorf("%w: %s", vitals.ErrDuplicate, m.Name)
		}
	}
	c.meds[pos] = m.Clone()
	models.SortMedicines(c.meds)
	return nil
}

// Remove deletes the medicine at pos and returns a copy of it.
func (c *Cabinet) Remove(pos int) (models.Medicine, error) {
	if pos < 0 || pos >= len(c.meds) {
		return models.Medicine{}, fmt.Errorf("position %d: %w", pos, vitals.ErrNotFound)
	}
	removed := c.meds[pos].Clone()
	c.meds = append(c.meds[:pos], c.meds[pos+1:]...)
	return removed, nil
}

// UndoAll restores the cabinet to the state it was loaded with.
func (c *Cabinet) UndoAll() {
	c.meds = cloneMedicines(c.baseline)
}

func validate(m models.Medicine) error {
	if !models.IsValidMedicineName(m.Name) {
		return fmt.Errorf("invalid medicine name %q: letters and spaces only", m.Name)
	}
	if m.Name != models.NormalizeMedicineName(m.Name) {
		return fmt.Errorf("medicine name %q must be lowercase", m.Name)
	}
	if m.Dose < 0 {
		return fmt.Errorf("dose %v must not be negative", m.Dose)
	}
	if !models.IsValidUnit(m.Units) {
		return fmt.Errorf("invalid units %q: use one of %s", m.Units, strings.Join(models.ValidUnits, ", "))
	}
	for slot, n := range m.Times {
		if !models.IsValidDoseSlot(slot) {
			return fmt.Errorf("invalid dose slot %q: use one of %s", slot, strings.Join(models.DoseSlots, ", "))
		}
		if n < 0 {
			return fmt.Errorf("dose count for %s must not be negative", slot)
		}
	}
	return nil
}

func cloneMedicines(meds []models.Medicine) []models.Medicine {
	out := make([]models.Medicine, len(meds))
	for i := range meds {
		out[i] = meds[i].Clone()
	}
	return out
}
