package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Kopi Arabika", "kopi-arabika"},
		{"digits kept", "Kopi Arabika 250g", "kopi-arabika-250g"},
		{"punctuation collapsed", "Teh -- Hijau!!", "teh-hijau"},
		{"leading and trailing separators", "  Gula Aren  ", "gula-aren"},
		{"already a slug", "madu-hutan", "madu-hutan"},
		{"empty", "", ""},
		{"only separators", "---", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}
