package investigations_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/JaimeStill/steward/internal/investigations"
	"github.com/JaimeStill/steward/internal/profiles"
	"github.com/JaimeStill/steward/internal/requests"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSimulator() *investigations.Simulator {
	return investigations.NewSimulator(profiles.New(testLogger()))
}

func TestRunReturnsEverySource(t *testing.T) {
	results, err := newSimulator().Run(context.Background(), "1356035752", requests.TypeLicenseVerification)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(results) != len(investigations.SourceOrder) {
		t.Fatalf("results: got %d, want %d", len(results), len(investigations.SourceOrder))
	}
	for _, id := range investigations.SourceOrder {
		r, ok := results[id]
		if !ok {
			t.Errorf("missing source %s", id)
			continue
		}
		if r.Status != investigations.StatusFound && r.Data != nil {
			t.Errorf("%s: data present with status %s", id, r.Status)
		}
	}

	license, ok := results[investigations.SourceNursys].Data.(investigations.LicenseData)
	if !ok {
		t.Fatalf("nursys data: got %T", results[investigations.SourceNursys].Data)
	}
	if license.ExpirationDate != "2026-01-31" {
		t.Errorf("expiration: got %q", license.ExpirationDate)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	sim := newSimulator()
	ctx := context.Background()

	first, err := sim.Run(ctx, "1164037024", requests.TypeSpecialtyUpdate)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	for range 5 {
		next, err := sim.Run(ctx, "1164037024", requests.TypeSpecialtyUpdate)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if !reflect.DeepEqual(first, next) {
			t.Fatal("results differ between runs")
		}
	}

	if got := first[investigations.SourceNursys].Status; got != investigations.StatusFound {
		t.Errorf("nursys: got %s, want found", got)
	}
}

func TestRunFallbacks(t *testing.T) {
	table := map[string]profiles.Profile{
		"1111111111": {
			NPI:           "1111111111",
			FormattedName: "Pat Example",
			City:          "Denver",
			State:         "CO",
			Specialty:     "Family Medicine",
			ProfileStatus: "Active",
		},
		"2222222222": {
			NPI:           "2222222222",
			FormattedName: "Sam Example",
			City:          "Austin",
			Specialty:     "Licensed Practical NURSE",
			License:       profiles.License{State: "TX", Number: "P-9", Status: "A"},
		},
	}
	sim := investigations.NewSimulator(profiles.NewFromTable(table, testLogger()))

	tests := []struct {
		name         string
		npi          string
		wantRegistry investigations.Status
		wantLicense  investigations.Status
	}{
		{"profile without nursing specialty", "1111111111", investigations.StatusFound, investigations.StatusNotFound},
		{"profile with nursing specialty", "2222222222", investigations.StatusFound, investigations.StatusFound},
		{"no profile", "9999999999", investigations.StatusNotFound, investigations.StatusNotFound},
		{"no provider sentinel", requests.NoProvider, investigations.StatusNotFound, investigations.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := sim.Run(context.Background(), tt.npi, requests.TypeSpecialtyUpdate)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := results[investigations.SourceNPPES].Status; got != tt.wantRegistry {
				t.Errorf("registry: got %s, want %s", got, tt.wantRegistry)
			}
			if got := results[investigations.SourceNursys].Status; got != tt.wantLicense {
				t.Errorf("license board: got %s, want %s", got, tt.wantLicense)
			}
		})
	}
}

func TestRunEmptyNPI(t *testing.T) {
	_, err := newSimulator().Run(context.Background(), "  ", requests.TypeSpecialtyUpdate)
	if !errors.Is(err, investigations.ErrEmptyNPI) {
		t.Errorf("expected ErrEmptyNPI, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newSimulator().Run(ctx, "1164037024", requests.TypeSpecialtyUpdate); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestResultJSON(t *testing.T) {
	found := investigations.Result{
		Source: "Nursys",
		Status: investigations.StatusFound,
		Data:   investigations.LicenseData{License: "Active", LicenseNumber: "46048", State: "WY"},
	}

	raw, err := json.Marshal(found)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"kind":"license"`) {
		t.Errorf("missing kind discriminator: %s", raw)
	}

	var decoded investigations.Result
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, found) {
		t.Errorf("decoded: got %+v, want %+v", decoded, found)
	}

	notFound := investigations.Result{
		Source: "WebMD",
		Status: investigations.StatusNotFound,
		Data:   investigations.DirectoryData{Name: "ignored"},
	}
	raw, err = json.Marshal(notFound)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), `"data"`) {
		t.Errorf("data encoded for not_found result: %s", raw)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []investigations.Status
		wantFound  int
		consistent bool
	}{
		{"two found", []investigations.Status{investigations.StatusFound, investigations.StatusFound, investigations.StatusNotFound}, 2, true},
		{"one found", []investigations.Status{investigations.StatusFound, investigations.StatusError}, 1, false},
		{"none", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make(map[investigations.SourceID]investigations.Result)
			for i, s := range tt.statuses {
				results[investigations.SourceOrder[i]] = investigations.Result{Status: s}
			}

			sum := investigations.Summarize(results)
			if sum.Found != tt.wantFound {
				t.Errorf("found: got %d, want %d", sum.Found, tt.wantFound)
			}
			if got := strings.Contains(sum.Recommendation, "consistent across multiple sources"); got != tt.consistent {
				t.Errorf("recommendation: %q", sum.Recommendation)
			}
		})
	}
}

func TestSources(t *testing.T) {
	for _, rt := range requests.RequestTypes {
		for _, s := range investigations.Sources(rt) {
			want := s.ID == investigations.SourceNPPES || s.ID == investigations.SourceDoximity ||
				(s.ID == investigations.SourceNursys && rt == requests.TypeLicenseVerification)
			if s.Recommended != want {
				t.Errorf("%s/%s: recommended = %v, want %v", rt, s.ID, s.Recommended, want)
			}
		}
	}

	google, _ := investigations.Lookup(investigations.SourceGoogle)
	if google.URL != "" {
		t.Errorf("google url: got %q, want empty", google.URL)
	}
}
