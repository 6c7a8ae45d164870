package policy

import (
	"sort"
	"time"
)

// Classify partitions the given version records into versions to keep and
// versions that are candidates for deletion, according to the retention
// policy evaluated at 'now'.
//
// Behavior:
//   - Scope filter: records outside (policy.Project, policy.Service) or with
//     a nonzero traffic split are dropped entirely; they appear in neither
//     set and are therefore never deleted.
//   - Day-bucket rule: each of the KeepDailyAmount trailing calendar days
//     (day 0 = today in now's timezone) protects at most one version, the
//     most recently deployed one whose deployment date falls on that day.
//   - Recency rule: beyond that, the KeepMinimum most recently deployed
//     versions are protected regardless of date.
//
// Rule ordering matters: a record whose day bucket is already taken by a
// more recent deployment falls through to the recency check, it is not
// automatically condemned.
//
// The input slice is not modified; classification is a pure function of
// (now, records, policy) and is safe to re-run.
func Classify(now time.Time, records []VersionRecord, policy RetentionPolicy) Classification {
	// 1. Scope + traffic filter.
	inScope := make([]VersionRecord, 0, len(records))
	for _, record := range records {
		if record.Project != policy.Project || record.Service != policy.Service {
			continue
		}
		if record.TrafficSplit != 0 {
			// Serving versions cannot be deleted.
			continue
		}
		inScope = append(inScope, record)
	}

	// 2. Most recent deployment first. The sort is stable so that equal
	// timestamps keep their fetched order and reruns are deterministic.
	sort.SliceStable(inScope, func(i, j int) bool {
		return inScope[i].LastDeployedTime.After(inScope[j].LastDeployedTime)
	})

	// 3. Track one unfilled bucket per trailing calendar day.
	// bucket value "" means unfilled; otherwise it holds the survivor's id.
	buckets := make(map[string]string, policy.KeepDailyAmount)
	for day := 0; day < policy.KeepDailyAmount; day++ {
		buckets[dayKey(now.AddDate(0, 0, -day), now.Location())] = ""
	}

	// 4. Single walk over the sorted records.
	result := Classification{}
	recentKept := 0

	for _, record := range inScope {
		key := dayKey(record.LastDeployedTime, now.Location())

		if survivor, tracked := buckets[key]; tracked && survivor == "" {
			// First (i.e. most recent) deployment seen for this day.
			buckets[key] = record.ID
			result.Kept = append(result.Kept, record.ID)
			continue
		}

		if recentKept < policy.KeepMinimum {
			result.Kept = append(result.Kept, record.ID)
			recentKept++
			continue
		}

		result.CandidatesForDeletion = append(result.CandidatesForDeletion, record.ID)
	}

	return result
}

// dayKey truncates a timestamp to its calendar date in the given location.
// Both the tracked buckets and the record keys go through this, so a single
// clock basis governs the whole partition.
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}
