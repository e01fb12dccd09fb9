package investigations

// fixture holds the canned results for a known NPI. The license entry is
// only reported when the resolved specialty is a nursing specialty.
type fixture struct {
	registry  RegistryData
	network   *NetworkData
	directory *DirectoryData
	license   LicenseData
	web       []string
}

var fixtures = map[string]fixture{
	"1164037024": {
		registry: RegistryData{
			NPI:         "1164037024",
			Name:        "Aminata Aw, RN",
			Specialty:   "Registered Nurse",
			Address:     "214 E 23rd St, Cheyenne, WY 82001",
			LastUpdated: "2024-01-10",
		},
		network: &NetworkData{
			Profile:      "Active clinician profile found",
			Specialty:    "Registered Nurse",
			Education:    "State University School of Nursing",
			Affiliations: "Cheyenne Regional Medical Center",
		},
		license: LicenseData{
			License:             "Active",
			LicenseNumber:       "46048",
			State:               "WY",
			DisciplinaryActions: "None",
		},
		web: []string{
			"Cheyenne Regional Medical Center staff directory",
			"Wyoming State Board of Nursing license lookup",
			"Professional association listing",
		},
	},
	"1356035752": {
		registry: RegistryData{
			NPI:         "1356035752",
			Name:        "DENA KENDRICK LOWE, NP",
			Specialty:   "Nurse Practitioner",
			Address:     "2309 E Main St, New Iberia, LA 70560",
			LastUpdated: "2023-11-02",
		},
		network: &NetworkData{
			Profile:   "Active nurse practitioner profile found",
			Specialty: "Nurse Practitioner",
			Education: "University of Louisiana at Lafayette College of Nursing",
		},
		directory: &DirectoryData{
			Name:      "Dena Lowe, NP",
			Specialty: "Family Nurse Practitioner",
			Location:  "New Iberia, LA",
		},
		license: LicenseData{
			License:             "Active",
			LicenseNumber:       "112760",
			ExpirationDate:      "2026-01-31",
			State:               "LA",
			DisciplinaryActions: "None",
		},
		web: []string{
			"Iberia Medical Center provider listing",
			"Louisiana State Board of Nursing verification",
		},
	},
	"1780827816": {
		registry: RegistryData{
			NPI:         "1780827816",
			Name:        "Jessy Pattaniyil, NP",
			Specialty:   "Nurse Practitioner",
			Address:     "3223 N Broad St, Philadelphia, PA 19140",
			LastUpdated: "2024-01-05",
		},
		license: LicenseData{
			License:             "Active",
			DisciplinaryActions: "None",
		},
	},
}
