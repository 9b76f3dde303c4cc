package squares

import "sort"

// RankPredictions orders predictions by combined distance from the
// actual final score, lowest first. Equal distances keep their input
// order and share a rank; every prediction at the minimum distance is a
// winner. Without a complete final score nothing is ranked.
func RankPredictions(predictions []Prediction, actualHome, actualAway *int) []PredictionResult {
	results := make([]PredictionResult, 0, len(predictions))
	if actualHome == nil || actualAway == nil {
		for _, prediction := range predictions {
			results = append(results, PredictionResult{Prediction: prediction})
		}
		return results
	}

	for _, prediction := range predictions {
		diff := abs(prediction.Home-*actualHome) + abs(prediction.Away-*actualAway)
		results = append(results, PredictionResult{Prediction: prediction, Diff: &diff})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Diff < *results[j].Diff
	})

	for i := range results {
		switch {
		case i == 0:
			results[i].Rank = 1
		case *results[i].Diff == *results[i-1].Diff:
			results[i].Rank = results[i-1].Rank
		default:
			results[i].Rank = i + 1
		}
		results[i].Winner = *results[i].Diff == *results[0].Diff
	}
	return results
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
