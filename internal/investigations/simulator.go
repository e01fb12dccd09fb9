package investigations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/steward/internal/profiles"
	"github.com/JaimeStill/steward/internal/requests"
)

// Resolver produces one result per source for an NPI and request type.
type Resolver interface {
	Run(ctx context.Context, npi string, rt requests.RequestType) (map[SourceID]Result, error)
}

// Simulator resolves sources from fixed fixtures, falling back to results
// templated from the reference profile. It performs no I/O.
type Simulator struct {
	profiles profiles.System
	fixtures map[string]fixture
}

// NewSimulator creates a Simulator that personalizes fallbacks from p.
func NewSimulator(p profiles.System) *Simulator {
	return &Simulator{
		profiles: p,
		fixtures: fixtures,
	}
}

type subject struct {
	npi       string
	rt        requests.RequestType
	profile   *profiles.Profile
	fixture   *fixture
	specialty string
}

// Run resolves every source concurrently and returns the results together.
func (s *Simulator) Run(ctx context.Context, npi string, rt requests.RequestType) (map[SourceID]Result, error) {
	npi = strings.TrimSpace(npi)
	if npi == "" {
		return nil, ErrEmptyNPI
	}

	sub, err := s.subject(ctx, npi, rt)
	if err != nil {
		return nil, err
	}

	resolved := make([]Result, len(SourceOrder))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range SourceOrder {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolved[i] = s.resolve(id, sub)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve sources: %w", err)
	}

	out := make(map[SourceID]Result, len(SourceOrder))
	for i, id := range SourceOrder {
		out[id] = resolved[i]
	}
	return out, nil
}

func (s *Simulator) subject(ctx context.Context, npi string, rt requests.RequestType) (subject, error) {
	sub := subject{npi: npi, rt: rt}

	if f, ok := s.fixtures[npi]; ok {
		sub.fixture = &f
		sub.specialty = f.registry.Specialty
	}

	p, err := s.profiles.Lookup(ctx, npi)
	switch {
	case errors.Is(err, profiles.ErrNotFound):
	case err != nil:
		return subject{}, fmt.Errorf("lookup profile %s: %w", npi, err)
	default:
		sub.profile = p
		if sub.specialty == "" {
			sub.specialty = p.Specialty
		}
	}

	return sub, nil
}

func (s *Simulator) resolve(id SourceID, sub subject) Result {
	switch id {
	case SourceNPPES:
		return registryResult(sub)
	case SourceDoximity:
		return networkResult(sub)
	case SourceWebMD:
		return directoryResult(sub)
	case SourceNursys:
		return licenseResult(sub)
	case SourceGoogle:
		return webResult(sub)
	}
	return newResult(id, StatusError, nil, fmt.Sprintf("unknown source %s", id))
}

// IsNurse reports whether specialty names a nursing specialty.
func IsNurse(specialty string) bool {
	return strings.Contains(strings.ToLower(specialty), "nurse")
}

func registryResult(sub subject) Result {
	if sub.npi == requests.NoProvider {
		return newResult(SourceNPPES, StatusNotFound, nil, "No NPI has been issued for this provider")
	}
	if sub.fixture != nil {
		return newResult(SourceNPPES, StatusFound, sub.fixture.registry, "Found active NPI record with current information")
	}
	if sub.profile != nil {
		return newResult(SourceNPPES, StatusFound, RegistryData{
			NPI:       sub.npi,
			Name:      sub.profile.FormattedName,
			Specialty: sub.profile.Specialty,
			Address:   sub.profile.Address(),
		}, "NPI record matches the profile on file")
	}
	return newResult(SourceNPPES, StatusNotFound, nil, fmt.Sprintf("No NPI record found for %s", sub.npi))
}

func networkResult(sub subject) Result {
	switch {
	case sub.fixture != nil && sub.fixture.network != nil:
		n := *sub.fixture.network
		return newResult(SourceDoximity, StatusFound, n,
			fmt.Sprintf("Professional profile confirms specialty as %s", n.Specialty))
	case sub.fixture == nil && sub.profile != nil:
		return newResult(SourceDoximity, StatusFound, NetworkData{
			Profile:   fmt.Sprintf("Profile found for %s", sub.profile.FormattedName),
			Specialty: sub.profile.Specialty,
		}, "Professional profile located by name and location")
	}
	return newResult(SourceDoximity, StatusNotFound, nil, "No professional network profile found")
}

func directoryResult(sub subject) Result {
	if sub.fixture != nil && sub.fixture.directory != nil {
		return newResult(SourceWebMD, StatusFound, *sub.fixture.directory, "Directory listing matches practice location")
	}
	return newResult(SourceWebMD, StatusNotFound, nil, "No profile found in WebMD directory")
}

func licenseResult(sub subject) Result {
	if !IsNurse(sub.specialty) {
		return newResult(SourceNursys, StatusNotFound, nil, "No nursing license on record for this provider")
	}

	var data LicenseData
	switch {
	case sub.fixture != nil:
		data = sub.fixture.license
	case sub.profile != nil:
		data = LicenseData{
			License:             sub.profile.License.StatusLabel(),
			LicenseNumber:       sub.profile.License.Number,
			ExpirationDate:      sub.profile.License.ExpirationDate,
			State:               sub.profile.License.State,
			DisciplinaryActions: "None",
		}
	}

	notes := "Current nursing license verified"
	if data.ExpirationDate != "" {
		notes = fmt.Sprintf("%s, expires %s", notes, data.ExpirationDate)
	} else if sub.rt == requests.TypeLicenseVerification {
		notes = "Nursing license located; expiration date needs investigation"
	}
	return newResult(SourceNursys, StatusFound, data, notes)
}

func webResult(sub subject) Result {
	switch {
	case sub.fixture != nil && len(sub.fixture.web) > 0:
		return newResult(SourceGoogle, StatusFound, WebSearchData{Results: sub.fixture.web},
			"Multiple sources confirm employment and credentials")
	case sub.fixture == nil && sub.profile != nil:
		return newResult(SourceGoogle, StatusFound, WebSearchData{Results: []string{
			fmt.Sprintf("%s, %s", sub.profile.FormattedName, sub.profile.City),
			fmt.Sprintf("%s practice listing", sub.profile.Specialty),
		}}, sub.rt.Focus())
	}
	return newResult(SourceGoogle, StatusNotFound, nil, "No relevant web results")
}
