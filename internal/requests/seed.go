package requests

import (
	"context"
	"fmt"
	"time"
)

// SeedReviewer is recorded as the decider of pre-decided seed requests.
const SeedReviewer = "seed"

type seed struct {
	cmd      CreateCommand
	decision *DecideCommand
}

func at(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &t
}

var seeds = []seed{
	{cmd: CreateCommand{
		NPI:           "1164037024",
		Description:   "Current specialty is not correct. It should be updated to 'Registered Nurse'",
		RequestType:   TypeSpecialtyUpdate,
		Priority:      PriorityHigh,
		SubmittedDate: at("2024-01-15T10:30:00Z"),
		CurrentValue:  "Medical Assistant",
		ProposedValue: "Registered Nurse",
	}},
	{cmd: CreateCommand{
		NPI:           "1164037024",
		Description:   "There is no license information present about expiration. Investigate License status if it's still active & expiration date",
		RequestType:   TypeLicenseVerification,
		Priority:      PriorityMedium,
		SubmittedDate: at("2024-01-15T10:35:00Z"),
	}},
	{
		cmd: CreateCommand{
			NPI:           "1234567890",
			Description:   "Address needs to be updated to reflect current practice location",
			RequestType:   TypeAddressUpdate,
			Priority:      PriorityLow,
			SubmittedDate: at("2024-01-14T14:20:00Z"),
			CurrentValue:  "123 Old St, City, ST 12345",
			ProposedValue: "456 New Ave, City, ST 67890",
		},
		decision: &DecideCommand{
			Status:     StatusApproved,
			FinalValue: "456 New Ave, City, ST 67890",
			DecidedBy:  SeedReviewer,
		},
	},
	{cmd: CreateCommand{
		NPI:           "1356035752",
		Description:   "License on file expires 2026-01-31. Confirm the nurse practitioner license is still valid",
		RequestType:   TypeLicenseVerification,
		Priority:      PriorityMedium,
		SubmittedDate: at("2024-01-16T09:05:00Z"),
	}},
	{cmd: CreateCommand{
		NPI:           NoProvider,
		Description:   "Newly credentialed provider has no NPI profile. Create a profile once identity is confirmed",
		RequestType:   TypeNewProfileCreation,
		Priority:      PriorityLow,
		SubmittedDate: at("2024-01-16T11:45:00Z"),
	}},
}

// Seed populates sys with the fixture requests. Pre-decided fixtures are
// created pending and then decided, like any other request.
func Seed(ctx context.Context, sys System) error {
	for _, s := range seeds {
		r, err := sys.Create(ctx, s.cmd)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.cmd.NPI, err)
		}
		if s.decision == nil {
			continue
		}
		if _, err := sys.Decide(ctx, r.ID, *s.decision); err != nil {
			return fmt.Errorf("seed decide #%d: %w", r.RequestNumber, err)
		}
	}
	return nil
}
