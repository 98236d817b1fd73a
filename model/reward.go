package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// TaskReward is the naira amount and XP credited for completing a task.
type TaskReward struct {
	Amount decimal.Decimal `json:"amount"`
	XP     int             `json:"xp"`
}

// PairKey is the collision identity of a reward: two rewards collide when
// both amount and XP match exactly.
func (r TaskReward) PairKey() string {
	return r.Amount.String() + "|" + strconv.Itoa(r.XP)
}

// RewardCategory maps a task size band to its payout and XP ranges. Video
// bands key off duration in minutes; survey and website bands key off
// question count and dwell seconds respectively. Size ranges are half-open
// [SizeMin, SizeMax), so a size on a shared edge belongs to the upper band.
type RewardCategory struct {
	Name      string
	SizeMin   float64
	SizeMax   float64
	AmountMin decimal.Decimal
	AmountMax decimal.Decimal
	XPMin     int
	XPMax     int
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

var videoCategories = []RewardCategory{
	{Name: "Small", SizeMin: 0.5, SizeMax: 2, AmountMin: d(5), AmountMax: d(20), XPMin: 2, XPMax: 5},
	{Name: "Medium", SizeMin: 2, SizeMax: 10, AmountMin: d(15), AmountMax: d(70), XPMin: 6, XPMax: 15},
	{Name: "Large", SizeMin: 10, SizeMax: 30, AmountMin: d(50), AmountMax: d(200), XPMin: 20, XPMax: 50},
	{Name: "Very Large", SizeMin: 30, SizeMax: 180, AmountMin: d(150), AmountMax: d(400), XPMin: 80, XPMax: 150},
}

var surveyCategories = []RewardCategory{
	{Name: "Short", SizeMin: 1, SizeMax: 5, AmountMin: d(20), AmountMax: d(60), XPMin: 5, XPMax: 12},
	{Name: "Standard", SizeMin: 5, SizeMax: 10, AmountMin: d(50), AmountMax: d(120), XPMin: 10, XPMax: 25},
	{Name: "Long", SizeMin: 10, SizeMax: 25, AmountMin: d(100), AmountMax: d(250), XPMin: 20, XPMax: 60},
}

var websiteCategories = []RewardCategory{
	{Name: "Quick", SizeMin: 10, SizeMax: 30, AmountMin: d(5), AmountMax: d(15), XPMin: 2, XPMax: 5},
	{Name: "Standard", SizeMin: 30, SizeMax: 60, AmountMin: d(10), AmountMax: d(30), XPMin: 4, XPMax: 10},
	{Name: "Extended", SizeMin: 60, SizeMax: 180, AmountMin: d(25), AmountMax: d(60), XPMin: 8, XPMax: 20},
}

// RewardCategories returns the band table for the given task type.
func RewardCategories(t TaskType) []RewardCategory {
	switch t {
	case TaskVideo:
		return videoCategories
	case TaskSurvey:
		return surveyCategories
	case TaskWebsite:
		return websiteCategories
	}
	return nil
}

// AmountBounds returns the global credit bounds for the type, spanning its
// smallest band minimum to its largest band maximum.
func AmountBounds(t TaskType) (min, max decimal.Decimal) {
	cats := RewardCategories(t)
	if len(cats) == 0 {
		return decimal.Zero, decimal.Zero
	}
	min = cats[0].AmountMin
	max = cats[0].AmountMax
	for _, c := range cats[1:] {
		if c.AmountMin.LessThan(min) {
			min = c.AmountMin
		}
		if c.AmountMax.GreaterThan(max) {
			max = c.AmountMax
		}
	}
	return min, max
}

// DefaultVideoRewards is the rotation used when a video's duration is
// unknown, cycled by pool index.
var DefaultVideoRewards = []TaskReward{
	{Amount: d(50), XP: 8},
	{Amount: d(75), XP: 10},
	{Amount: d(60), XP: 9},
	{Amount: d(80), XP: 11},
	{Amount: d(70), XP: 10},
	{Amount: d(90), XP: 12},
}
