// Package investigations simulates corroborating searches against external
// provider data sources and tracks the latest investigation per request.
package investigations

import "github.com/JaimeStill/steward/internal/requests"

// SourceID identifies an external data source.
type SourceID string

const (
	SourceNPPES    SourceID = "nppes"
	SourceDoximity SourceID = "doximity"
	SourceWebMD    SourceID = "webmd"
	SourceNursys   SourceID = "nursys"
	SourceGoogle   SourceID = "google"
)

// SourceOrder lists every source in display order.
var SourceOrder = []SourceID{
	SourceNPPES,
	SourceDoximity,
	SourceWebMD,
	SourceNursys,
	SourceGoogle,
}

// Source describes an external data source. An empty URL means the source
// has no direct search link.
type Source struct {
	ID           SourceID `json:"id"`
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Description  string   `json:"description"`
	SearchMethod string   `json:"search_method"`
}

var catalog = map[SourceID]Source{
	SourceNPPES: {
		ID:           SourceNPPES,
		Name:         "NPPES NPI Registry",
		Title:        "NPPES NPI Registry",
		URL:          "https://npiregistry.cms.hhs.gov/search",
		Description:  "Official CMS NPI database search",
		SearchMethod: "NPI",
	},
	SourceDoximity: {
		ID:           SourceDoximity,
		Name:         "Doximity",
		Title:        "Doximity",
		URL:          "https://www.doximity.com/",
		Description:  "Professional medical network",
		SearchMethod: "Name + Location",
	},
	SourceWebMD: {
		ID:           SourceWebMD,
		Name:         "WebMD",
		Title:        "WebMD Doctor Directory",
		URL:          "https://doctor.webmd.com/",
		Description:  "Healthcare provider directory",
		SearchMethod: "Name + Location",
	},
	SourceNursys: {
		ID:           SourceNursys,
		Name:         "Nursys",
		Title:        "Nursys License Verification",
		URL:          "https://www.nursys.com/LQC/LQCSearch.aspx",
		Description:  "Nursing license verification system",
		SearchMethod: "License Verification",
	},
	SourceGoogle: {
		ID:           SourceGoogle,
		Name:         "Google Search",
		Title:        "Google Search",
		Description:  "General web search for provider information",
		SearchMethod: "Name + City + State",
	},
}

// Lookup returns the catalog entry for id.
func Lookup(id SourceID) (Source, bool) {
	s, ok := catalog[id]
	return s, ok
}

// Recommended reports whether the source should be consulted first for rt.
func (s Source) Recommended(rt requests.RequestType) bool {
	switch s.ID {
	case SourceNPPES, SourceDoximity:
		return true
	case SourceNursys:
		return rt == requests.TypeLicenseVerification
	}
	return false
}

// SourceView is a catalog entry annotated for a request type.
type SourceView struct {
	Source
	Recommended bool `json:"recommended"`
}

// Sources lists the catalog in display order annotated for rt.
func Sources(rt requests.RequestType) []SourceView {
	out := make([]SourceView, 0, len(SourceOrder))
	for _, id := range SourceOrder {
		s := catalog[id]
		out = append(out, SourceView{Source: s, Recommended: s.Recommended(rt)})
	}
	return out
}
