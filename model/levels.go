package model

// TaskType distinguishes the three earnable task categories. The string
// values double as ledger transaction labels and store key fragments.
type TaskType string

const (
	TaskVideo   TaskType = "video"
	TaskSurvey  TaskType = "survey"
	TaskWebsite TaskType = "website"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskVideo, TaskSurvey, TaskWebsite:
		return true
	}
	return false
}

const MaxLevel = 15

// LevelThresholds[i] is the minimum cumulative XP for level i+1. Each step
// grows by 50% over the previous one past level 2.
var LevelThresholds = []int{
	0, 500, 750, 1125, 1688, 2532, 3798, 5697,
	8546, 12819, 19229, 28844, 43266, 64899, 97349,
}

// LevelForXP maps cumulative XP to the highest level whose threshold is met.
// Scans top-down so ties resolve to the higher level.
func LevelForXP(xp int) int {
	for i := len(LevelThresholds) - 1; i >= 0; i-- {
		if xp >= LevelThresholds[i] {
			return i + 1
		}
	}
	return 1
}

// XPFloorForLevel returns the cumulative XP at which the given level begins.
func XPFloorForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return LevelThresholds[level-1]
}

// XPCeilingForLevel returns the XP needed for the next level, or the top
// threshold at max level.
func XPCeilingForLevel(level int) int {
	if level >= MaxLevel {
		return LevelThresholds[MaxLevel-1]
	}
	if level < 1 {
		level = 1
	}
	return LevelThresholds[level]
}

// EffectiveLevel is the working level for limits and gates: the XP-derived
// level capped by the paid level.
func EffectiveLevel(xp, paidLevel int) int {
	lvl := LevelForXP(xp)
	if paidLevel < 1 {
		paidLevel = 1
	}
	if lvl > paidLevel {
		return paidLevel
	}
	return lvl
}

// dailyQuotas holds per-level daily completion limits, indexed level-1.
var dailyQuotas = map[TaskType][MaxLevel]int{
	TaskVideo:   {1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 4, 4, 5, 6, 6},
	TaskSurvey:  {2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 8},
	TaskWebsite: {1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8},
}

// DailyLimit returns the number of tasks of the given type completable per
// day at the given effective level.
func DailyLimit(t TaskType, level int) int {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	quotas, ok := dailyQuotas[t]
	if !ok {
		return 0
	}
	return quotas[level-1]
}

// PoolCap bounds how many tasks of a type are offered at once.
func PoolCap(t TaskType) int {
	switch t {
	case TaskVideo:
		return 10
	case TaskSurvey:
		return 25
	case TaskWebsite:
		return 20
	}
	return 0
}
