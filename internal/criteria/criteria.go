// Package criteria turns raw delivery parameters (query strings, flags)
// into search criteria. Range checks on dates live here: the search itself
// accepts any value.
package criteria

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"chatlinks/internal/domain"
)

// ErrInvalidDate is returned for a year, month or day that is not a valid
// calendar component.
var ErrInvalidDate = errors.New("invalid date filter")

type dateParams struct {
	Year  *int `validate:"omitempty,min=1,max=9999"`
	Month *int `validate:"omitempty,min=1,max=12"`
	Day   *int `validate:"omitempty,min=1,max=31"`
}

var validate = validator.New()

// ParseDate builds a date filter from decimal strings. Empty strings leave
// the corresponding field unset.
func ParseDate(year, month, day string) (domain.DateFilter, error) {
	var (
		f   domain.DateFilter
		err error
	)
	if f.Year, err = parseField("year", year); err != nil {
		return domain.DateFilter{}, err
	}
	if f.Month, err = parseField("month", month); err != nil {
		return domain.DateFilter{}, err
	}
	if f.Day, err = parseField("day", day); err != nil {
		return domain.DateFilter{}, err
	}
	if err := ValidateDate(f); err != nil {
		return domain.DateFilter{}, err
	}
	return f, nil
}

// ValidateDate checks the ranges of the set fields of f.
func ValidateDate(f domain.DateFilter) error {
	if err := validate.Struct(dateParams{Year: f.Year, Month: f.Month, Day: f.Day}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s out of range", ErrInvalidDate, verrs[0].Field())
		}
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return nil
}

func parseField(name, value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a number", ErrInvalidDate, name, value)
	}
	return &n, nil
}

// New assembles criteria after validating the date filter.
func New(site, sender string, date domain.DateFilter) (domain.Criteria, error) {
	if err := ValidateDate(date); err != nil {
		return domain.Criteria{}, err
	}
	return domain.Criteria{Site: site, Sender: sender, Date: date}, nil
}
