package services

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

const rewardCollisionRetries = 50

// RewardService assigns rewards to tasks. A task's reward is generated the
// first time anyone asks for it and persisted; every later ask returns the
// stored pair unchanged, so what the pool showed is what completion pays.
// Generated pairs avoid colliding exactly with any previously stored pair.
type RewardService struct {
	context.DefaultService

	storeSvc *StoreService

	mu  sync.Mutex
	rng *rand.Rand
}

const REWARD_SVC = "reward_svc"

// Id returns Service ID
func (svc RewardService) Id() string {
	return REWARD_SVC
}

func (svc *RewardService) Configure(ctx *context.Context) error {
	svc.storeSvc = ctx.Service(STORE_SVC).(*StoreService)
	if svc.rng == nil {
		svc.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *RewardService) Start() error {
	return nil
}

func rewardAmtKey(t model.TaskType, taskID string) string {
	return shared.KeyRewardAmtPrefix + string(t) + "_" + taskID
}

func rewardXPKey(t model.TaskType, taskID string) string {
	return shared.KeyRewardXPPrefix + string(t) + "_" + taskID
}

// Resolve returns the reward for a task, generating and persisting it on
// first touch. size is the task's magnitude: minutes for videos, question
// count for surveys, dwell seconds for websites. A size of 0 means unknown
// and falls back to the default rotation, cycled by poolIndex.
func (svc *RewardService) Resolve(t model.TaskType, taskID string, size float64, poolIndex int) model.TaskReward {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if stored, ok := svc.stored(t, taskID); ok {
		return stored
	}

	reward := svc.generate(t, size, poolIndex)

	svc.storeSvc.SetDecimal(rewardAmtKey(t, taskID), reward.Amount)
	svc.storeSvc.SetInt(rewardXPKey(t, taskID), reward.XP)
	metricRewardsAssigned.Inc()

	return reward
}

// Reassign drops the stored reward and regenerates it from a newly learned
// size. Callers must ensure the task has not been completed yet.
func (svc *RewardService) Reassign(t model.TaskType, taskID string, size float64, poolIndex int) model.TaskReward {
	svc.mu.Lock()
	svc.storeSvc.Delete(rewardAmtKey(t, taskID))
	svc.storeSvc.Delete(rewardXPKey(t, taskID))
	svc.mu.Unlock()

	return svc.Resolve(t, taskID, size, poolIndex)
}

func (svc *RewardService) stored(t model.TaskType, taskID string) (model.TaskReward, bool) {
	raw, ok := svc.storeSvc.Get(rewardAmtKey(t, taskID))
	if !ok {
		return model.TaskReward{}, false
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		log.WithField("task_id", taskID).Warn("unparseable stored reward, regenerating")
		return model.TaskReward{}, false
	}
	xp := svc.storeSvc.GetInt(rewardXPKey(t, taskID), 0)
	return model.TaskReward{Amount: amount, XP: xp}, true
}

// usedPairs collects the collision identities of every stored reward.
func (svc *RewardService) usedPairs() map[string]bool {
	used := make(map[string]bool)
	for _, key := range svc.storeSvc.KeysWithPrefix(shared.KeyRewardAmtPrefix) {
		raw, ok := svc.storeSvc.Get(key)
		if !ok {
			continue
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		xpKey := shared.KeyRewardXPPrefix + strings.TrimPrefix(key, shared.KeyRewardAmtPrefix)
		xp := svc.storeSvc.GetInt(xpKey, 0)
		used[model.TaskReward{Amount: amount, XP: xp}.PairKey()] = true
	}
	return used
}

func (svc *RewardService) generate(t model.TaskType, size float64, poolIndex int) model.TaskReward {
	used := svc.usedPairs()

	var candidate model.TaskReward
	for attempt := 0; attempt <= rewardCollisionRetries; attempt++ {
		candidate = svc.candidate(t, size, poolIndex)
		if !used[candidate.PairKey()] {
			return candidate
		}
	}

	log.WithFields(log.Fields{
		"type":   t,
		"amount": candidate.Amount.String(),
		"xp":     candidate.XP,
	}).Warn("reward collision retries exhausted, accepting duplicate pair")
	metricRewardCollisions.Inc()

	return candidate
}

func (svc *RewardService) candidate(t model.TaskType, size float64, poolIndex int) model.TaskReward {
	if t == model.TaskVideo && size <= 0 {
		// unknown duration: the fixed rotation pair, as-is
		return model.DefaultVideoRewards[poolIndex%len(model.DefaultVideoRewards)]
	}

	cat := categoryFor(t, size)
	frac := 0.5
	if cat.SizeMax > cat.SizeMin {
		frac = (size - cat.SizeMin) / (cat.SizeMax - cat.SizeMin)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
	}

	span := cat.AmountMax.Sub(cat.AmountMin)
	amount := cat.AmountMin.Add(span.Mul(decimal.NewFromFloat(frac)))
	xp := float64(cat.XPMin) + frac*float64(cat.XPMax-cat.XPMin)

	return svc.jitter(t, model.TaskReward{Amount: amount, XP: int(xp + 0.5)},
		cat.AmountMin, cat.AmountMax, cat.XPMin, cat.XPMax)
}

// jitter nudges amount by up to one naira either way and xp by half a
// point, then clamps back into the band and rounds.
func (svc *RewardService) jitter(t model.TaskType, base model.TaskReward, amtMin, amtMax decimal.Decimal, xpMin, xpMax int) model.TaskReward {
	amount := base.Amount.Add(decimal.NewFromFloat(svc.rng.Float64()*2 - 1))
	if amount.LessThan(amtMin) {
		amount = amtMin
	}
	if amount.GreaterThan(amtMax) {
		amount = amtMax
	}

	places := int32(2)
	if t == model.TaskVideo {
		places = 1
	}
	amount = amount.Round(places)

	xp := base.XP
	if svc.rng.Float64() < 0.5 {
		xp += svc.rng.Intn(2)
	} else {
		xp -= svc.rng.Intn(2)
	}
	if xp < xpMin {
		xp = xpMin
	}
	if xp > xpMax {
		xp = xpMax
	}

	return model.TaskReward{Amount: amount, XP: xp}
}

// categoryFor picks the band whose half-open size range [min, max)
// contains size, so a size on a shared edge lands in the upper band.
// Sizes outside every range clamp to the nearest band.
func categoryFor(t model.TaskType, size float64) model.RewardCategory {
	cats := model.RewardCategories(t)
	for _, c := range cats {
		if size >= c.SizeMin && size < c.SizeMax {
			return c
		}
	}
	if size < cats[0].SizeMin {
		return cats[0]
	}
	return cats[len(cats)-1]
}
