package profiles

// reference is the fixed profile table keyed by NPI.
var reference = map[string]Profile{
	"1164037024": {
		NPI:           "1164037024",
		FormattedName: "Aminata Aw",
		AddrLine1:     "214 E 23rd St",
		City:          "Cheyenne",
		State:         "WY",
		ZipCode:       "82001",
		Country:       "United States",
		Specialty:     "Doctor of Medicine",
		ProfileStatus: "Active",
		License: License{
			State:  "WY",
			Type:   "RN",
			Number: "46048",
			Status: "A",
		},
	},
	"1356035752": {
		NPI:           "1356035752",
		FormattedName: "DENA KENDRICK LOWE",
		AddrLine1:     "2309 E Main St",
		City:          "New Iberia",
		State:         "LA",
		ZipCode:       "70560",
		Country:       "United States",
		Specialty:     "Nurse Practitioner",
		ProfileStatus: "Active",
		License: License{
			State:          "LA",
			Type:           "RN",
			Number:         "112760",
			Status:         "A",
			StartDate:      "2005-07-18",
			ExpirationDate: "2026-01-31",
		},
	},
	"1780827816": {
		NPI:           "1780827816",
		FormattedName: "Jessy Pattaniyil",
		AddrLine1:     "3223 N Broad St",
		City:          "Philadelphia",
		State:         "PA",
		ZipCode:       "19140",
		Country:       "United States",
		Specialty:     "Nurse Practitioner",
		ProfileStatus: "Active",
		License: License{
			Status: "A",
		},
	},
}
