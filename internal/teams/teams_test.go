package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical_RenamesAndPassesThrough(t *testing.T) {
	r := NewReconciler("Aston Villa")

	assert.Equal(t, "Fulham", r.Canonical("Fulham FC"))
	assert.Equal(t, "Nott'm Forest", r.Canonical("Nottingham Forest"))
	assert.Equal(t, "Wolves", r.Canonical(" Wolverhampton Wanderers "))
	assert.Equal(t, "Aston Villa", r.Canonical("Aston Villa"))
	assert.Equal(t, "Preston North End", r.Canonical("Preston North End"))
	assert.Equal(t, []string{"Preston North End"}, r.Unmapped())
}

func TestCanonical_Idempotent(t *testing.T) {
	r := NewReconciler()
	for from := range RenameTable() {
		once := r.Canonical(from)
		assert.Equal(t, once, r.Canonical(once), "rename of %q is not idempotent", from)
	}
	assert.Empty(t, r.Unmapped())
}

func TestPromotions(t *testing.T) {
	p := Promotions{
		2018: {"Wolves", "Cardiff", "Fulham"},
		2017: {"Newcastle", "Brighton", "Huddersfield"},
	}
	assert.True(t, p.IsPromoted(2018, "Fulham"))
	assert.False(t, p.IsPromoted(2017, "Fulham"))
	assert.False(t, p.IsPromoted(1999, "Fulham"))
	assert.Equal(t, 1, p.Flag(2018, "Cardiff"))
	assert.Equal(t, 0, p.Flag(2018, "Arsenal"))
	assert.Equal(t, []int{2017, 2018}, p.Years())
	assert.Equal(t, []string{"Newcastle", "Brighton", "Huddersfield", "Wolves", "Cardiff", "Fulham"}, p.Teams())
}
