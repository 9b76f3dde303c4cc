package potluck

import "sort"

// Tally scores every entry from the ballots. Entries nobody voted for
// score zero and stay in the list. Ties keep entry order.
func Tally(entries []Entry, votes []Vote) Standings {
	scores := make(map[uint]int, len(entries))
	for _, vote := range votes {
		scores[vote.FirstPlaceEntryID] += FirstPlacePoints
		scores[vote.SecondPlaceEntryID] += SecondPlacePoints
		scores[vote.ThirdPlaceEntryID] += ThirdPlacePoints
	}

	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		results = append(results, Result{Entry: entry, Score: scores[entry.ID]})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	standings := Standings{Results: results}
	if len(results) > 0 && results[0].Score > 0 {
		winner := results[0]
		standings.Winner = &winner
	}
	return standings
}
