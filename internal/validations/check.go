// Package validations evaluates the reviewer checklist for a request.
package validations

import (
	"fmt"

	"github.com/JaimeStill/steward/internal/profiles"
	"github.com/JaimeStill/steward/internal/requests"
)

// CheckID identifies a validation check.
type CheckID string

const (
	CheckProfileStatus    CheckID = "profile_status"
	CheckInputValidation  CheckID = "input_validation"
	CheckDataCompleteness CheckID = "data_completeness"
	CheckLicenseStatus    CheckID = "license_status"
)

// CheckOrder lists every check in display order.
var CheckOrder = []CheckID{
	CheckProfileStatus,
	CheckInputValidation,
	CheckDataCompleteness,
	CheckLicenseStatus,
}

// Status is the outcome of a check.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusWarning Status = "warning"
	StatusPending Status = "pending"
)

// CompletedDetails is recorded on a pending check once it is run.
const CompletedDetails = "Validation completed successfully"

// Check is one item of the validation checklist.
type Check struct {
	ID          CheckID `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      Status  `json:"status"`
	Details     string  `json:"details"`
}

// Runnable reports whether the check can be run manually.
func (c Check) Runnable() bool {
	return c.Status == StatusPending
}

// Evaluate derives the checklist for req. A nil profile means no reference
// profile exists for the request's NPI.
func Evaluate(req requests.Request, profile *profiles.Profile) []Check {
	return []Check{
		profileStatus(req, profile),
		inputValidation(req),
		dataCompleteness(req),
		licenseStatus(req, profile),
	}
}

func profileStatus(req requests.Request, profile *profiles.Profile) Check {
	c := Check{
		ID:          CheckProfileStatus,
		Title:       "Profile Status Verification",
		Description: "Check if the healthcare provider profile is active and valid",
	}

	switch {
	case profile == nil && req.NPI == requests.NoProvider:
		c.Status = StatusPending
		c.Details = "No profile exists yet; confirm provider identity before creation"
	case profile == nil:
		c.Status = StatusFailed
		c.Details = fmt.Sprintf("No reference profile found for NPI %s", req.NPI)
	case !profile.Active():
		c.Status = StatusFailed
		c.Details = fmt.Sprintf("Profile status is %s", profiles.Display(profile.ProfileStatus))
	default:
		c.Status = StatusPassed
		c.Details = "Profile is active with valid NPI registration"
	}
	return c
}

func inputValidation(req requests.Request) Check {
	c := Check{
		ID:          CheckInputValidation,
		Title:       "Input Data Validation",
		Description: "Verify if the provided input is complete and follows required format",
		Status:      StatusPending,
		Details:     "Checking input completeness...",
	}

	if req.RequestType == requests.TypeSpecialtyUpdate && req.ProposedValue != "" {
		c.Status = StatusPassed
		c.Details = fmt.Sprintf("Specialty '%s' is valid and exists in approved specialties list", req.ProposedValue)
	}
	return c
}

func dataCompleteness(req requests.Request) Check {
	c := Check{
		ID:          CheckDataCompleteness,
		Title:       "Required Information Check",
		Description: "Ensure all required information is provided for processing",
		Status:      StatusWarning,
		Details:     "Some information may be missing for complete validation",
	}

	if req.HasChange() {
		c.Status = StatusPassed
		c.Details = "All required fields are present"
	}
	return c
}

func licenseStatus(req requests.Request, profile *profiles.Profile) Check {
	c := Check{
		ID:          CheckLicenseStatus,
		Title:       "License Status Check",
		Description: "Verify current license status and expiration dates",
		Status:      StatusPassed,
		Details:     "License appears to be active based on available data",
	}

	if req.RequestType != requests.TypeLicenseVerification {
		return c
	}

	c.Status = StatusWarning
	c.Details = "License expiration information is missing and needs investigation"
	if profile != nil && profile.License.ExpirationDate != "" {
		c.Details = fmt.Sprintf("License on file expires %s; confirm it is still active", profile.License.ExpirationDate)
	}
	return c
}

// Summary counts checks by status.
type Summary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Warning int `json:"warning"`
	Pending int `json:"pending"`
}

// Summarize counts checks by status.
func Summarize(checks []Check) Summary {
	var s Summary
	for _, c := range checks {
		switch c.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusWarning:
			s.Warning++
		case StatusPending:
			s.Pending++
		}
	}
	return s
}

// Guideline is reviewer guidance for one request type.
type Guideline struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

var guidelines = map[requests.RequestType]Guideline{
	requests.TypeSpecialtyUpdate: {
		Title: "For Specialty Updates",
		Items: []string{
			"Verify the proposed specialty exists in the approved specialties database",
			"Check if the provider has the required credentials for the specialty",
			"Ensure the change aligns with the provider's training and certifications",
		},
	},
	requests.TypeLicenseVerification: {
		Title: "For License Verification",
		Items: []string{
			"Confirm license is active and not expired",
			"Verify license matches the provider's practice location",
			"Check for any disciplinary actions or restrictions",
		},
	},
	requests.TypeAddressUpdate: {
		Title: "For Address Updates",
		Items: []string{
			"Confirm the new address with at least one external directory",
			"Verify the practice location is still in operation",
		},
	},
	requests.TypeNewProfileCreation: {
		Title: "For New Profiles",
		Items: []string{
			"Confirm provider identity against the NPI registry",
			"Check for an existing profile under a different identifier",
		},
	},
}

// Guidelines returns the guidance shown for rt.
func Guidelines(rt requests.RequestType) []Guideline {
	g, ok := guidelines[rt]
	if !ok {
		return nil
	}
	return []Guideline{g}
}
