package squares

// ResolveWinners derives the winning square for each quarter. Home
// scores map to columns and away scores to rows. A quarter with a
// missing score is undetermined; a quarter scored before the game was
// ever locked reports its digits without a position. Axis numbers that
// exist but are not permutations are an integrity error.
func ResolveWinners(scores []QuarterScore, axis AxisNumbers, squares []Square) ([]QuarterResult, error) {
	assigned := axis.Assigned()
	if assigned {
		if err := axis.Validate(); err != nil {
			return nil, err
		}
	}

	byQuarter := make(map[int]QuarterScore, len(scores))
	for _, score := range scores {
		byQuarter[score.Quarter] = score
	}
	grid := BuildGrid(squares)

	results := make([]QuarterResult, 0, Quarters)
	for quarter := 1; quarter <= Quarters; quarter++ {
		result := QuarterResult{Quarter: quarter}
		score, ok := byQuarter[quarter]
		if !ok || score.Home == nil || score.Away == nil {
			results = append(results, result)
			continue
		}

		homeDigit := lastDigit(*score.Home)
		awayDigit := lastDigit(*score.Away)
		result.HomeLastDigit = &homeDigit
		result.AwayLastDigit = &awayDigit
		if !assigned {
			results = append(results, result)
			continue
		}

		col := indexOf(axis.Cols, homeDigit)
		row := indexOf(axis.Rows, awayDigit)
		result.Row = &row
		result.Col = &col
		result.WinningSquare = grid[row][col]
		results = append(results, result)
	}
	return results, nil
}

func lastDigit(score int) int {
	return ((score % 10) + 10) % 10
}
