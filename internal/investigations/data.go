package investigations

import (
	"strings"
)

// Data is the source-specific payload of a found result. Each source kind
// has its own record type.
type Data interface {
	Kind() string
	Fields() []Field
}

// Field is one labeled value rendered from a Data record.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

const (
	KindRegistry  = "registry"
	KindNetwork   = "network"
	KindDirectory = "directory"
	KindLicense   = "license"
	KindWebSearch = "web_search"
)

// RegistryData is an NPI registry record.
type RegistryData struct {
	NPI         string `json:"npi"`
	Name        string `json:"name"`
	Specialty   string `json:"specialty"`
	Address     string `json:"address"`
	LastUpdated string `json:"last_updated,omitempty"`
}

func (RegistryData) Kind() string { return KindRegistry }

func (d RegistryData) Fields() []Field {
	return compact(
		Field{"NPI", d.NPI},
		Field{"Name", d.Name},
		Field{"Specialty", d.Specialty},
		Field{"Address", d.Address},
		Field{"Last updated", d.LastUpdated},
	)
}

// NetworkData is a professional network profile.
type NetworkData struct {
	Profile      string `json:"profile"`
	Specialty    string `json:"specialty"`
	Education    string `json:"education,omitempty"`
	Affiliations string `json:"affiliations,omitempty"`
}

func (NetworkData) Kind() string { return KindNetwork }

func (d NetworkData) Fields() []Field {
	return compact(
		Field{"Profile", d.Profile},
		Field{"Specialty", d.Specialty},
		Field{"Education", d.Education},
		Field{"Affiliations", d.Affiliations},
	)
}

// DirectoryData is a provider directory listing.
type DirectoryData struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Location  string `json:"location"`
}

func (DirectoryData) Kind() string { return KindDirectory }

func (d DirectoryData) Fields() []Field {
	return compact(
		Field{"Name", d.Name},
		Field{"Specialty", d.Specialty},
		Field{"Location", d.Location},
	)
}

// LicenseData is a license board verification record.
type LicenseData struct {
	License             string `json:"license"`
	LicenseNumber       string `json:"license_number"`
	ExpirationDate      string `json:"expiration_date,omitempty"`
	State               string `json:"state"`
	DisciplinaryActions string `json:"disciplinary_actions"`
}

func (LicenseData) Kind() string { return KindLicense }

func (d LicenseData) Fields() []Field {
	return compact(
		Field{"License", d.License},
		Field{"License number", d.LicenseNumber},
		Field{"Expiration date", d.ExpirationDate},
		Field{"State", d.State},
		Field{"Disciplinary actions", d.DisciplinaryActions},
	)
}

// WebSearchData lists matching web pages.
type WebSearchData struct {
	Results []string `json:"results"`
}

func (WebSearchData) Kind() string { return KindWebSearch }

func (d WebSearchData) Fields() []Field {
	return []Field{{Label: "Results", Value: strings.Join(d.Results, "; ")}}
}

func compact(fields ...Field) []Field {
	out := fields[:0]
	for _, f := range fields {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}
