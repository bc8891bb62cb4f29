package service

import (
	"sort"

	"datefinder/internal/entities"
)

// DefaultRankedLimit caps the best-dates list when the caller does not ask
// for a specific length.
const DefaultRankedLimit = 10

// VoteCounts returns, for every date appearing in any participant's set,
// the number of participants whose set contains it. Dates nobody selected
// are absent from the map, so a lookup reads as count zero.
func VoteCounts(participants map[string]entities.Participant) map[entities.CalendarDate]int {
	counts := make(map[entities.CalendarDate]int)
	for _, p := range participants {
		seen := make(map[entities.CalendarDate]struct{}, len(p.Dates))
		for _, d := range p.Dates {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			counts[d]++
		}
	}
	return counts
}

// HeatBucket maps a date's vote share onto one of four ordered levels.
// Intensity is count over the participant total (at least 1); thresholds
// are closed on the upper bound, so exactly 0.25 lands in the lowest
// bucket.
func HeatBucket(count, participantCount int) entities.HeatLevel {
	total := participantCount
	if total < 1 {
		total = 1
	}
	intensity := float64(count) / float64(total)
	switch {
	case intensity <= 0.25:
		return entities.HeatNone
	case intensity <= 0.5:
		return entities.HeatLow
	case intensity <= 0.75:
		return entities.HeatMedium
	default:
		return entities.HeatHigh
	}
}

// RankedDates collects every date with at least one vote, sorted by vote
// count descending with ties broken by earliest date, truncated to limit.
// Voter and absent lists are computed by display name, so two participants
// sharing a name collapse together.
//
// The result is a pure function of the participant mapping: participants
// are walked in sorted-id order, never map iteration order.
func RankedDates(participants map[string]entities.Participant, limit int) []entities.DateTally {
	if limit <= 0 {
		limit = DefaultRankedLimit
	}

	ids := make([]string, 0, len(participants))
	for id := range participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	allNames := make([]string, 0, len(ids))
	votersByDate := make(map[entities.CalendarDate][]string)
	for _, id := range ids {
		p := participants[id]
		allNames = append(allNames, p.Name)
		seen := make(map[entities.CalendarDate]struct{}, len(p.Dates))
		for _, d := range p.Dates {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			votersByDate[d] = append(votersByDate[d], p.Name)
		}
	}

	tallies := make([]entities.DateTally, 0, len(votersByDate))
	for d, voters := range votersByDate {
		tallies = append(tallies, entities.DateTally{
			Date:        d,
			Count:       len(voters),
			VoterNames:  voters,
			AbsentNames: absentFrom(allNames, voters),
		})
	}

	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Count != tallies[j].Count {
			return tallies[i].Count > tallies[j].Count
		}
		return tallies[i].Date.Before(tallies[j].Date)
	})

	if len(tallies) > limit {
		tallies = tallies[:limit]
	}
	return tallies
}

func absentFrom(allNames, voterNames []string) []string {
	present := make(map[string]struct{}, len(voterNames))
	for _, n := range voterNames {
		present[n] = struct{}{}
	}
	absent := make([]string, 0, len(allNames))
	for _, n := range allNames {
		if _, ok := present[n]; !ok {
			absent = append(absent, n)
		}
	}
	return absent
}
