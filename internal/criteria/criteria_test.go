package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatlinks/internal/domain"
)

func ptr(v int) *int { return &v }

func TestParseDate(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day string
		want             domain.DateFilter
	}{
		{"nothing set", "", "", "", domain.DateFilter{}},
		{"full date", "2019", "3", "14", domain.DateFilter{Year: ptr(2019), Month: ptr(3), Day: ptr(14)}},
		{"leading zeros", "2019", "03", "04", domain.DateFilter{Year: ptr(2019), Month: ptr(3), Day: ptr(4)}},
		{"month without year is kept", "", "12", "", domain.DateFilter{Month: ptr(12)}},
		{"bounds", "1", "1", "31", domain.DateFilter{Year: ptr(1), Month: ptr(1), Day: ptr(31)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.year, tt.month, tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day string
	}{
		{"year not a number", "twenty", "", ""},
		{"month not a number", "2019", "march", ""},
		{"day with spaces", "2019", "3", " 4"},
		{"month zero", "2019", "0", ""},
		{"month thirteen", "2019", "13", ""},
		{"day zero", "2019", "1", "0"},
		{"day thirty two", "", "", "32"},
		{"negative year", "-5", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.year, tt.month, tt.day)
			assert.ErrorIs(t, err, ErrInvalidDate)
			assert.Equal(t, domain.DateFilter{}, got)
		})
	}
}

func TestNew(t *testing.T) {
	c, err := New("reddit", "toto", domain.DateFilter{Year: ptr(2020)})
	require.NoError(t, err)
	assert.Equal(t, domain.Criteria{Site: "reddit", Sender: "toto", Date: domain.DateFilter{Year: ptr(2020)}}, c)

	_, err = New("", "", domain.DateFilter{Month: ptr(14)})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
