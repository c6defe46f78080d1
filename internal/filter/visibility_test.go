package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVisibility(t *testing.T) {
	raw := map[string]any{
		"0":   true,
		" 1 ": "True",
		"2":   "false",
		"3":   "1",
		"4":   int64(0),
		"5":   int64(2),
		"6":   "nonsense",
		"7":   nil,
		"-1":  true,
		"abc": true,
	}
	got := NormalizeVisibility(raw)
	assert.Equal(t, Visibility{0: true, 1: true, 2: false, 3: true, 4: false, 5: true, 6: false, 7: false}, got)
}

func TestNormalizeVisibility_Idempotent(t *testing.T) {
	raw := map[string]any{"0": "TRUE", "1": "false", "2": 1.0}
	once := NormalizeVisibility(raw)
	twice := NormalizeVisibility(once.Raw())
	assert.Equal(t, once, twice)
}

func TestNormalizeVisibility_AlwaysAllocates(t *testing.T) {
	a := NormalizeVisibility(nil)
	b := NormalizeVisibility(nil)
	a[0] = true
	assert.Empty(t, b)
}

func TestVisibility_IDsSorted(t *testing.T) {
	v := Visibility{4: true, 0: false, 2: true}
	assert.Equal(t, []int{0, 2, 4}, v.IDs())
}
