// Package profiles provides read-only lookup of reference NPI provider profiles.
package profiles

import "strings"

// NotAvailable is rendered in place of empty profile fields.
const NotAvailable = "not available"

// License is the state license record attached to a profile.
type License struct {
	State          string `json:"state"`
	Type           string `json:"type"`
	Number         string `json:"number"`
	Status         string `json:"status"`
	StartDate      string `json:"start_date"`
	ExpirationDate string `json:"expiration_date"`
}

// StatusLabel expands single-letter license status codes.
func (l License) StatusLabel() string {
	switch strings.ToUpper(l.Status) {
	case "A":
		return "Active"
	case "I":
		return "Inactive"
	case "E":
		return "Expired"
	case "":
		return ""
	}
	return l.Status
}

// Profile is the reference record for a provider. Absent optional fields are empty.
type Profile struct {
	NPI           string  `json:"npi"`
	FormattedName string  `json:"formatted_name"`
	AddrLine1     string  `json:"addr_line1"`
	AddrLine2     string  `json:"addr_line2"`
	AddrLine3     string  `json:"addr_line3"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	ZipCode       string  `json:"zip_code"`
	Country       string  `json:"country"`
	Specialty     string  `json:"specialty"`
	ProfileStatus string  `json:"profile_status"`
	License       License `json:"license"`
}

// Active reports whether the profile status is Active.
func (p Profile) Active() bool {
	return strings.EqualFold(p.ProfileStatus, "active")
}

// Address joins the non-empty address lines with city, state, and zip.
func (p Profile) Address() string {
	var parts []string
	for _, line := range []string{p.AddrLine1, p.AddrLine2, p.AddrLine3} {
		if line != "" {
			parts = append(parts, line)
		}
	}

	locality := p.City
	if p.State != "" {
		locality = strings.TrimSpace(locality + ", " + p.State)
		locality = strings.TrimPrefix(locality, ", ")
	}
	if p.ZipCode != "" {
		locality = strings.TrimSpace(locality + " " + p.ZipCode)
	}
	if locality != "" {
		parts = append(parts, locality)
	}
	return strings.Join(parts, ", ")
}

// Display returns value, or NotAvailable when it is empty.
func Display(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	return value
}

// Field is one labeled value in a profile section.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section groups related profile fields for presentation.
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Sections lays out the profile for display with empty values rendered as NotAvailable.
func (p Profile) Sections() []Section {
	f := func(label, value string) Field {
		return Field{Label: label, Value: Display(value)}
	}

	return []Section{
		{Title: "Provider", Fields: []Field{
			f("NPI", p.NPI),
			f("Name", p.FormattedName),
			f("Specialty", p.Specialty),
			f("Profile status", p.ProfileStatus),
		}},
		{Title: "Practice address", Fields: []Field{
			f("Address line 1", p.AddrLine1),
			f("Address line 2", p.AddrLine2),
			f("Address line 3", p.AddrLine3),
			f("City", p.City),
			f("State", p.State),
			f("Zip code", p.ZipCode),
			f("Country", p.Country),
		}},
		{Title: "License", Fields: []Field{
			f("State", p.License.State),
			f("Type", p.License.Type),
			f("Number", p.License.Number),
			f("Status", p.License.StatusLabel()),
			f("Start date", p.License.StartDate),
			f("Expiration date", p.License.ExpirationDate),
		}},
	}
}

// View is the caller-facing lookup result. Found is false when no reference
// profile exists, which is distinct from a found profile with empty fields.
type View struct {
	NPI      string    `json:"npi"`
	Found    bool      `json:"found"`
	Profile  *Profile  `json:"profile,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}
