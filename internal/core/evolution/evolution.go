// Package evolution implements the XP and leveling math for step progression.
//
// All functions are pure. Negative inputs are clamped to zero before any
// computation; callers never receive an error for out-of-range values.
package evolution

import (
	"math"
	"strings"
)

// StepsToXPRate converts one step into XP.
const StepsToXPRate = 0.1

// DailyGoalSteps is the daily step target that triggers the one-time bonus.
const DailyGoalSteps = 10_000

// DailyGoalBonusXP is the flat XP award when the daily goal is reached.
const DailyGoalBonusXP = 500.0

// Rank is a named tier spanning ten levels.
type Rank string

// Rank tiers in ascending order.
const (
	RankStatic   Rank = "Static"
	RankCrawler  Rank = "Crawler"
	RankStroller Rank = "Stroller"
	RankWalker   Rank = "Walker"
	RankHiker    Rank = "Hiker"
	RankScout    Rank = "Scout"
	RankRanger   Rank = "Ranger"
	RankAthlete  Rank = "Athlete"
	RankMachine  Rank = "Machine"
	RankTitan    Rank = "Titan"
)

type rankBand struct {
	min  int // inclusive level
	max  int // inclusive level
	rank Rank
}

var rankBands = []rankBand{
	{1, 10, RankStatic},
	{11, 20, RankCrawler},
	{21, 30, RankStroller},
	{31, 40, RankWalker},
	{41, 50, RankHiker},
	{51, 60, RankScout},
	{61, 70, RankRanger},
	{71, 80, RankAthlete},
	{81, 90, RankMachine},
	{91, 100, RankTitan},
}

// StepsToXP converts a raw step count to XP earned from walking.
func StepsToXP(steps float64) float64 {
	if steps < 0 {
		steps = 0
	}
	return steps * StepsToXPRate
}

// IsDailyGoalReached reports whether the daily goal bonus should be granted.
// Callers must ensure the bonus is only applied once per day.
func IsDailyGoalReached(stepsToday int) bool {
	return stepsToday >= DailyGoalSteps
}

// CalculateLevel derives the level from total XP: floor(sqrt(totalXP / 100)).
func CalculateLevel(totalXP float64) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return int(math.Floor(math.Sqrt(totalXP / 100)))
}

// XPRequiredForLevel returns the total XP at the start of a level.
// Exact algebraic inverse of CalculateLevel: XP = level² × 100.
func XPRequiredForLevel(level int) float64 {
	if level < 0 {
		level = 0
	}
	return float64(level) * float64(level) * 100
}

// LevelProgress returns the fraction in [0,1] toward the next level.
func LevelProgress(totalXP float64) float64 {
	if totalXP < 0 {
		totalXP = 0
	}
	level := CalculateLevel(totalXP)
	currentFloor := XPRequiredForLevel(level)
	nextFloor := XPRequiredForLevel(level + 1)
	span := nextFloor - currentFloor
	if span <= 0 {
		return 1
	}
	return (totalXP - currentFloor) / span
}

// RankForLevel returns the rank tier containing level. The second result is
// false for levels outside every band (level 0 or above 100); that is a
// boundary condition, not an error.
func RankForLevel(level int) (Rank, bool) {
	for _, band := range rankBands {
		if level >= band.min && level <= band.max {
			return band.rank, true
		}
	}
	return "", false
}

// State is the aggregate progression snapshot derived from total XP.
type State struct {
	TotalXP       float64
	Level         int
	Rank          Rank
	Ranked        bool
	Progress      float64 // 0–1 toward next level
	XPToNextLevel float64
}

// Compute derives the full progression state for a total XP value.
func Compute(totalXP float64) State {
	if totalXP < 0 {
		totalXP = 0
	}
	level := CalculateLevel(totalXP)
	rank, ranked := RankForLevel(level)
	return State{
		TotalXP:       totalXP,
		Level:         level,
		Rank:          rank,
		Ranked:        ranked,
		Progress:      LevelProgress(totalXP),
		XPToNextLevel: math.Max(0, XPRequiredForLevel(level+1)-totalXP),
	}
}

// unrankedLabel is shown when the level falls outside every rank band.
const unrankedLabel = "—"

// terminalLabel is shown when there is no higher band to progress toward.
const terminalLabel = "MAX"

// RankProgress describes progress across the current rank band's XP span,
// feeding the "72% to HIKER" style dashboard bar.
type RankProgress struct {
	Progress  float64 // 0–1 through the band's XP range
	Rank      Rank
	Ranked    bool
	FromLabel string
	ToLabel   string
	Pct       int // rounded percentage
}

// RankProgressFor locates the band containing the level for totalXP and
// measures progress across that band's entire XP span, clamped to [0,1].
// Unranked XP values yield a degenerate zero-progress result.
func RankProgressFor(totalXP float64) RankProgress {
	if totalXP < 0 {
		totalXP = 0
	}
	level := CalculateLevel(totalXP)

	bandIndex := -1
	for i, band := range rankBands {
		if level >= band.min && level <= band.max {
			bandIndex = i
			break
		}
	}
	if bandIndex == -1 {
		return RankProgress{FromLabel: unrankedLabel, ToLabel: unrankedLabel}
	}

	band := rankBands[bandIndex]
	startXP := XPRequiredForLevel(band.min)
	endXP := XPRequiredForLevel(band.max + 1)
	span := endXP - startXP

	progress := 1.0
	if span > 0 {
		progress = math.Min(math.Max((totalXP-startXP)/span, 0), 1)
	}

	toLabel := terminalLabel
	if bandIndex+1 < len(rankBands) {
		toLabel = "PRO " + strings.ToUpper(string(rankBands[bandIndex+1].rank))
	}

	return RankProgress{
		Progress:  progress,
		Rank:      band.rank,
		Ranked:    true,
		FromLabel: strings.ToUpper(string(band.rank)),
		ToLabel:   toLabel,
		Pct:       int(math.Round(progress * 100)),
	}
}
