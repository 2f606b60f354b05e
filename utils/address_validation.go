package utils

import (
	"regexp"
	"strings"
)

var (
	addressLineRegex     = regexp.MustCompile(`^[\p{L}0-9\s,.'#\-/]+$`)
	cityRegex            = regexp.MustCompile(`^[\p{L}\s.\-]+$`)
	postalCodeIndiaRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// ShippingAddressFields is the address a checkout ships to
type ShippingAddressFields struct {
	Name, Phone, Line1, Line2, City, State, Country, PostalCode string
}

// ValidateShippingAddress checks the address an order is placed with. Returns nil when it is usable.
func ValidateShippingAddress(a ShippingAddressFields) FieldValidationErrors {
	var errs FieldValidationErrors
	add := func(field, msg string) {
		errs = append(errs, FieldValidationError{field, msg})
	}

	if name := strings.TrimSpace(a.Name); name == "" {
		add("name", "Name is required")
	} else if len(name) > 100 {
		add("name", "Name must not exceed 100 characters")
	}

	if strings.TrimSpace(a.Phone) == "" {
		add("phone", "Phone is required")
	} else if _, err := FormatPhoneNumber(a.Phone); err != nil {
		add("phone", err.Error())
	}

	// line1: required, length, content
	line1 := strings.TrimSpace(a.Line1)
	if line1 == "" {
		add("line1", "Address Line 1 is required")
	} else {
		if len(line1) > 150 {
			add("line1", "Address Line 1 must not exceed 150 characters")
		}
		if !addressLineRegex.MatchString(line1) {
			add("line1", "Address Line 1 contains invalid characters")
		}
	}

	if line2 := strings.TrimSpace(a.Line2); line2 != "" {
		if len(line2) > 100 {
			add("line2", "Address Line 2 must not exceed 100 characters")
		}
		if !addressLineRegex.MatchString(line2) {
			add("line2", "Address Line 2 contains invalid characters")
		}
	}

	city := strings.TrimSpace(a.City)
	if city == "" {
		add("city", "City is required")
	} else if len(city) > 100 || !cityRegex.MatchString(city) {
		add("city", "City must only contain letters and spaces")
	}

	if state := strings.TrimSpace(a.State); state == "" {
		add("state", "State is required")
	} else if len(state) > 100 {
		add("state", "State must not exceed 100 characters")
	}

	country := strings.TrimSpace(a.Country)
	if len(country) > 100 {
		add("country", "Country must not exceed 100 characters")
	}

	postalCode := strings.TrimSpace(a.PostalCode)
	if postalCode == "" {
		add("postal_code", "Postal code is required")
	} else if (country == "" || strings.EqualFold(country, "india")) && !postalCodeIndiaRegex.MatchString(postalCode) {
		add("postal_code", "Postal code must be a valid 6-digit Indian PIN (e.g., 600028)")
	}

	return errs
}
