package policy

import (
	"reflect"
	"testing"
	"time"
)

// Fixed reference time for all classifier tests: Dec 21, 2025 16:00 UTC.
var testNow = time.Date(2025, 12, 21, 16, 0, 0, 0, time.UTC)

// record builds an in-scope, zero-traffic version record.
func record(id string, deployedAt time.Time) VersionRecord {
	return VersionRecord{
		ID:               id,
		Project:          "acme-prod",
		Service:          "default",
		LastDeployedTime: deployedAt,
	}
}

// sameDay returns a timestamp on testNow's calendar date.
func sameDay(hour int) time.Time {
	return time.Date(2025, 12, 21, hour, 0, 0, 0, time.UTC)
}

// daysAgo returns a timestamp the given number of days before testNow.
func daysAgo(days int, hour int) time.Time {
	return time.Date(2025, 12, 21-days, hour, 0, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	basePolicy := func(keepMinimum, keepDailyAmount int) RetentionPolicy {
		return RetentionPolicy{
			Project:         "acme-prod",
			Service:         "default",
			KeepMinimum:     keepMinimum,
			KeepDailyAmount: keepDailyAmount,
		}
	}

	tests := []struct {
		name           string
		policy         RetentionPolicy
		records        []VersionRecord
		wantKept       []string
		wantCandidates []string
	}{
		{
			name:   "Day buckets keep the most recent version per day",
			policy: basePolicy(0, 2),
			records: []VersionRecord{
				record("today-early", sameDay(9)),
				record("today-late", sameDay(12)),
				record("yesterday-early", daysAgo(1, 8)),
				record("yesterday-late", daysAgo(1, 10)),
				record("too-old", daysAgo(3, 10)),
			},
			wantKept:       []string{"today-late", "yesterday-late"},
			wantCandidates: []string{"today-early", "yesterday-early", "too-old"},
		},
		{
			name:   "Same day records fall through to recency",
			policy: basePolicy(2, 1),
			records: []VersionRecord{
				record("v-0900", sameDay(9)),
				record("v-1200", sameDay(12)),
				record("v-1500", sameDay(15)),
			},
			// 15:00 takes the day bucket, 12:00 and 09:00 are saved by the
			// recency floor. Nothing is condemned just because its bucket
			// was already taken.
			wantKept:       []string{"v-1500", "v-1200", "v-0900"},
			wantCandidates: nil,
		},
		{
			name:   "Both rules disabled condemns everything in scope",
			policy: basePolicy(0, 0),
			records: []VersionRecord{
				record("v1", sameDay(9)),
				record("v2", sameDay(10)),
				record("v3", daysAgo(1, 9)),
				record("v4", daysAgo(2, 9)),
				record("v5", daysAgo(3, 9)),
			},
			wantKept:       nil,
			wantCandidates: []string{"v2", "v1", "v3", "v4", "v5"},
		},
		{
			name:   "Recency floor keeps the newest deployments regardless of date",
			policy: basePolicy(3, 0),
			records: []VersionRecord{
				record("oldest", daysAgo(40, 9)),
				record("newest", daysAgo(1, 9)),
				record("older", daysAgo(30, 9)),
				record("old", daysAgo(20, 9)),
				record("newer", daysAgo(10, 9)),
			},
			wantKept:       []string{"newest", "newer", "old"},
			wantCandidates: []string{"older", "oldest"},
		},
		{
			name:   "Day bucket survivors do not consume the recency floor",
			policy: basePolicy(1, 1),
			records: []VersionRecord{
				record("v-0900", sameDay(9)),
				record("v-1200", sameDay(12)),
				record("v-1500", sameDay(15)),
			},
			wantKept:       []string{"v-1500", "v-1200"},
			wantCandidates: []string{"v-0900"},
		},
		{
			name:   "Out of scope and serving versions appear in neither set",
			policy: basePolicy(1, 0),
			records: []VersionRecord{
				{ID: "serving", Project: "acme-prod", Service: "default", TrafficSplit: 0.5, LastDeployedTime: sameDay(15)},
				{ID: "wrong-project", Project: "other-proj", Service: "default", LastDeployedTime: sameDay(14)},
				{ID: "wrong-service", Project: "acme-prod", Service: "worker", LastDeployedTime: sameDay(13)},
				record("in-scope-new", sameDay(12)),
				record("in-scope-old", sameDay(9)),
			},
			wantKept:       []string{"in-scope-new"},
			wantCandidates: []string{"in-scope-old"},
		},
		{
			name:   "Day bucket only protects trailing days, not the future past",
			policy: basePolicy(0, 1),
			records: []VersionRecord{
				record("yesterday", daysAgo(1, 12)),
				record("today", sameDay(12)),
			},
			wantKept:       []string{"today"},
			wantCandidates: []string{"yesterday"},
		},
		{
			name:           "No records",
			policy:         basePolicy(20, 7),
			records:        nil,
			wantKept:       nil,
			wantCandidates: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(testNow, tt.records, tt.policy)

			assertIDs(t, "Kept", result.Kept, tt.wantKept)
			assertIDs(t, "CandidatesForDeletion", result.CandidatesForDeletion, tt.wantCandidates)
			assertPartition(t, tt.policy, tt.records, result)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	// Three records with identical timestamps; the stable sort must keep
	// their fetched order, so reruns produce the same partition.
	deployedAt := sameDay(12)
	records := []VersionRecord{
		record("first", deployedAt),
		record("second", deployedAt),
		record("third", deployedAt),
	}
	policy := RetentionPolicy{
		Project:     "acme-prod",
		Service:     "default",
		KeepMinimum: 1,
	}

	first := Classify(testNow, records, policy)
	second := Classify(testNow, records, policy)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification is not idempotent: %+v vs %+v", first, second)
	}
	assertIDs(t, "Kept", first.Kept, []string{"first"})
	assertIDs(t, "CandidatesForDeletion", first.CandidatesForDeletion, []string{"second", "third"})
}

func TestRetentionPolicy_Normalize(t *testing.T) {
	tests := []struct {
		name        string
		input       RetentionPolicy
		wantErr     bool
		wantService string
	}{
		{
			name:        "Happy Path",
			input:       RetentionPolicy{Project: "acme-prod", Service: "worker", KeepMinimum: 5, KeepDailyAmount: 3},
			wantService: "worker",
		},
		{
			name:        "Service defaults",
			input:       RetentionPolicy{Project: "acme-prod"},
			wantService: "default",
		},
		{
			name:    "Missing project",
			input:   RetentionPolicy{},
			wantErr: true,
		},
		{
			name:    "Negative keep minimum",
			input:   RetentionPolicy{Project: "acme-prod", KeepMinimum: -1},
			wantErr: true,
		},
		{
			name:    "Negative keep daily amount",
			input:   RetentionPolicy{Project: "acme-prod", KeepDailyAmount: -7},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := tt.input
			err := policy.Normalize()

			if (err != nil) != tt.wantErr {
				t.Errorf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && policy.Service != tt.wantService {
				t.Errorf("Service = %q, want %q", policy.Service, tt.wantService)
			}
		})
	}
}

// assertIDs compares an id slice against the expectation, treating nil and
// empty as equal.
func assertIDs(t *testing.T, label string, got, want []string) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

// assertPartition verifies the structural invariant: kept and candidates are
// disjoint and together cover exactly the in-scope zero-traffic records.
func assertPartition(t *testing.T, policy RetentionPolicy, records []VersionRecord, result Classification) {
	t.Helper()

	seen := make(map[string]int)
	for _, id := range result.Kept {
		seen[id]++
	}
	for _, id := range result.CandidatesForDeletion {
		seen[id]++
	}

	inScope := 0
	for _, record := range records {
		matches := record.Project == policy.Project &&
			record.Service == policy.Service &&
			record.TrafficSplit == 0
		if matches {
			inScope++
			if seen[record.ID] != 1 {
				t.Errorf("in-scope record %q appears %d times across both sets, want exactly 1", record.ID, seen[record.ID])
			}
		} else if seen[record.ID] != 0 {
			t.Errorf("out-of-scope record %q leaked into the partition", record.ID)
		}
	}

	if total := len(result.Kept) + len(result.CandidatesForDeletion); total != inScope {
		t.Errorf("partition covers %d records, want %d in-scope records", total, inScope)
	}
}
