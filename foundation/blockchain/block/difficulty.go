package block

import "time"

// AdjustDifficulty calculates the difficulty for a block mined at newTime on
// top of a block with the last difficulty and time. A difficulty outside the
// bounds is moved back to the closest bound. A clock that went backwards is
// treated as a block that was mined too fast.
func AdjustDifficulty(lastDifficulty uint, lastTime time.Time, newTime time.Time) uint {
	switch {
	case lastDifficulty < DifficultyMin:
		return DifficultyMin
	case lastDifficulty > DifficultyMax:
		return DifficultyMax
	}

	difficulty := lastDifficulty
	if newTime.Sub(lastTime) < MineRate {
		difficulty++
	} else {
		difficulty--
	}

	return min(max(difficulty, DifficultyMin), DifficultyMax)
}

// IsValidDifficulty accepts exactly the set of difficulties AdjustDifficulty
// can produce from the last difficulty, whatever the timestamps were.
func IsValidDifficulty(lastDifficulty uint, newDifficulty uint) bool {
	switch {
	case lastDifficulty < DifficultyMin:
		return newDifficulty == DifficultyMin
	case lastDifficulty > DifficultyMax:
		return newDifficulty == DifficultyMax
	}

	if newDifficulty == lastDifficulty+1 || newDifficulty == lastDifficulty-1 {
		return newDifficulty >= DifficultyMin && newDifficulty <= DifficultyMax
	}

	if newDifficulty == DifficultyMin || newDifficulty == DifficultyMax {
		return newDifficulty == lastDifficulty
	}

	return false
}
