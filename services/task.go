package services

import (
	"os"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/Chucky-Funds/earnova/dto"
	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

// TaskService owns the task catalogs, the daily pools and the completion
// flow. A completion runs: gate checks, reward resolution, ledger credit,
// completion mark, quota increment. The credit happens before the mark so
// a crash in between can only under-count, never double-pay.
type TaskService struct {
	context.DefaultService

	storeSvc       *StoreService
	quotaSvc       *QuotaService
	rewardSvc      *RewardService
	ledgerSvc      *LedgerService
	progressionSvc *ProgressionService
	configSvc      *ConfigService

	mu       sync.Mutex
	videos   []model.VideoTask
	surveys  []model.SurveyTask
	websites []model.WebsiteTask

	// user-reported lengths for videos the catalog lists without one
	durations map[string]float64

	now func() time.Time
}

const TASK_SVC = "task_svc"

// Id returns Service ID
func (svc TaskService) Id() string {
	return TASK_SVC
}

func (svc *TaskService) Configure(ctx *context.Context) error {
	svc.storeSvc = ctx.Service(STORE_SVC).(*StoreService)
	svc.quotaSvc = ctx.Service(QUOTA_SVC).(*QuotaService)
	svc.rewardSvc = ctx.Service(REWARD_SVC).(*RewardService)
	svc.ledgerSvc = ctx.Service(LEDGER_SVC).(*LedgerService)
	svc.progressionSvc = ctx.Service(PROGRESSION_SVC).(*ProgressionService)
	svc.configSvc = ctx.Service(CONFIG_SVC).(*ConfigService)

	svc.durations = make(map[string]float64)
	if svc.now == nil {
		svc.now = time.Now
	}

	svc.quotaSvc.OnMidnight(svc.clearPools)

	return svc.DefaultService.Configure(ctx)
}

func (svc *TaskService) Start() error {
	cfg := svc.configSvc.Get()
	svc.videos = loadCatalog[model.VideoTask](cfg.VideoDataFile)
	svc.surveys = loadCatalog[model.SurveyTask](cfg.SurveyDataFile)
	svc.websites = loadCatalog[model.WebsiteTask](cfg.WebsiteDataFile)

	log.WithFields(log.Fields{
		"videos":   len(svc.videos),
		"surveys":  len(svc.surveys),
		"websites": len(svc.websites),
	}).Info("task catalogs loaded")

	return nil
}

// loadCatalog reads a JSON task file, degrading to an empty catalog when
// the file is missing or malformed.
func loadCatalog[T any](path string) []T {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Warn("catalog unavailable, starting empty")
		return nil
	}

	var tasks []T
	if err := shared.JSON.Unmarshal(raw, &tasks); err != nil {
		log.WithError(err).WithField("file", path).Warn("catalog unreadable, starting empty")
		return nil
	}
	return tasks
}

// ==================== POOLS ====================

func (svc *TaskService) isCompleted(t model.TaskType, taskID string) bool {
	_, ok := svc.storeSvc.Get(shared.KeyCompletedPrefix + string(t) + "_" + taskID)
	return ok
}

func (svc *TaskService) markCompleted(t model.TaskType, taskID string) {
	svc.storeSvc.Set(shared.KeyCompletedPrefix+string(t)+"_"+taskID, "1")
}

// poolIDs computes or replays today's pool for a type. Once the daily
// limit is hit the persisted pool is replayed unchanged so the locked page
// keeps showing the same tasks.
func (svc *TaskService) poolIDs(t model.TaskType, allIDs []string, limitReached bool) []string {
	today := svc.now().Format(quotaDateLayout)
	poolKey := shared.KeyPoolPrefix + string(t)
	dateKey := shared.KeyPoolDatePrefix + string(t)

	if limitReached {
		storedDate, _ := svc.storeSvc.Get(dateKey)
		if storedDate == today {
			var ids []string
			if svc.storeSvc.GetJSON(poolKey, &ids) {
				return ids
			}
		}
	}

	max := model.PoolCap(t)
	ids := make([]string, 0, max)
	for _, id := range allIDs {
		if len(ids) >= max {
			break
		}
		if svc.isCompleted(t, id) {
			continue
		}
		ids = append(ids, id)
	}

	svc.storeSvc.SetJSON(poolKey, ids)
	svc.storeSvc.Set(dateKey, today)
	return ids
}

func (svc *TaskService) clearPools() {
	for _, t := range []model.TaskType{model.TaskVideo, model.TaskSurvey, model.TaskWebsite} {
		svc.storeSvc.Delete(shared.KeyPoolPrefix + string(t))
		svc.storeSvc.Delete(shared.KeyPoolDatePrefix + string(t))
	}
	log.Info("task pools cleared")
}

func (svc *TaskService) quotaStatus(t model.TaskType) dto.QuotaStatus {
	used := svc.quotaSvc.CurrentCount(t)
	limit := model.DailyLimit(t, svc.progressionSvc.XPLevel())
	countdown := svc.quotaSvc.ResetCountdown()

	return dto.QuotaStatus{
		Used:             used,
		Limit:            limit,
		LimitReached:     used >= limit,
		ResetsInSeconds:  countdown,
		ResetsAtMidnight: svc.now().Add(time.Duration(countdown) * time.Second).Format(time.RFC3339),
	}
}

// VideoWithReward pairs a catalog entry with its assigned reward.
type VideoWithReward struct {
	model.VideoTask
	Reward model.TaskReward `json:"reward"`
}

type SurveyWithReward struct {
	model.SurveyTask
	Reward model.TaskReward `json:"reward"`
}

type WebsiteWithReward struct {
	model.WebsiteTask
	Reward model.TaskReward `json:"reward"`
}

func (svc *TaskService) VideoPool() dto.TaskPoolResponse {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	quota := svc.quotaStatus(model.TaskVideo)

	allIDs := make([]string, len(svc.videos))
	byID := make(map[string]model.VideoTask, len(svc.videos))
	for i, v := range svc.videos {
		allIDs[i] = v.ID
		byID[v.ID] = v
	}

	ids := svc.poolIDs(model.TaskVideo, allIDs, quota.LimitReached)

	tasks := make([]VideoWithReward, 0, len(ids))
	completed := []string{}
	for i, id := range ids {
		v, ok := byID[id]
		if !ok {
			continue
		}
		reward := svc.rewardSvc.Resolve(model.TaskVideo, id, svc.videoSize(v), i)
		tasks = append(tasks, VideoWithReward{VideoTask: v, Reward: reward})
		if svc.isCompleted(model.TaskVideo, id) {
			completed = append(completed, id)
		}
	}

	return dto.TaskPoolResponse{
		Type:         string(model.TaskVideo),
		Tasks:        tasks,
		CompletedIDs: completed,
		Quota:        quota,
	}
}

func (svc *TaskService) SurveyPool() dto.TaskPoolResponse {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	quota := svc.quotaStatus(model.TaskSurvey)

	allIDs := make([]string, len(svc.surveys))
	byID := make(map[string]model.SurveyTask, len(svc.surveys))
	for i, s := range svc.surveys {
		allIDs[i] = s.ID
		byID[s.ID] = s
	}

	ids := svc.poolIDs(model.TaskSurvey, allIDs, quota.LimitReached)

	tasks := make([]SurveyWithReward, 0, len(ids))
	completed := []string{}
	for i, id := range ids {
		s, ok := byID[id]
		if !ok {
			continue
		}
		reward := svc.rewardSvc.Resolve(model.TaskSurvey, id, float64(len(s.Questions)), i)
		tasks = append(tasks, SurveyWithReward{SurveyTask: s, Reward: reward})
		if svc.isCompleted(model.TaskSurvey, id) {
			completed = append(completed, id)
		}
	}

	return dto.TaskPoolResponse{
		Type:         string(model.TaskSurvey),
		Tasks:        tasks,
		CompletedIDs: completed,
		Quota:        quota,
	}
}

func (svc *TaskService) WebsitePool() dto.TaskPoolResponse {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	quota := svc.quotaStatus(model.TaskWebsite)

	allIDs := make([]string, len(svc.websites))
	byID := make(map[string]model.WebsiteTask, len(svc.websites))
	for i, w := range svc.websites {
		allIDs[i] = w.ID
		byID[w.ID] = w
	}

	ids := svc.poolIDs(model.TaskWebsite, allIDs, quota.LimitReached)

	tasks := make([]WebsiteWithReward, 0, len(ids))
	completed := []string{}
	for i, id := range ids {
		w, ok := byID[id]
		if !ok {
			continue
		}
		reward := svc.rewardSvc.Resolve(model.TaskWebsite, id, float64(w.RequiredSeconds), i)
		tasks = append(tasks, WebsiteWithReward{WebsiteTask: w, Reward: reward})
		if svc.isCompleted(model.TaskWebsite, id) {
			completed = append(completed, id)
		}
	}

	return dto.TaskPoolResponse{
		Type:         string(model.TaskWebsite),
		Tasks:        tasks,
		CompletedIDs: completed,
		Quota:        quota,
	}
}

// ==================== VIDEO ====================

func (svc *TaskService) videoSize(v model.VideoTask) float64 {
	if v.DurationMinutes > 0 {
		return v.DurationMinutes
	}
	return svc.durations[v.ID]
}

func (svc *TaskService) findVideo(taskID string) (model.VideoTask, int, bool) {
	for i, v := range svc.videos {
		if v.ID == taskID {
			return v, i, true
		}
	}
	return model.VideoTask{}, 0, false
}

// ReportVideoDuration records a player-measured length for a video the
// catalog lists without one, and reassigns its reward from the real
// duration while the task is still incomplete.
func (svc *TaskService) ReportVideoDuration(taskID string, minutes float64) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	video, idx, ok := svc.findVideo(taskID)
	if !ok {
		return shared.NewNotFoundError(nil, "video not found")
	}
	if minutes <= 0 {
		return shared.NewBadRequestError(nil, "duration must be positive")
	}
	if video.DurationMinutes > 0 {
		return shared.NewBadRequestError(nil, "video already has a known duration")
	}

	svc.durations[taskID] = minutes
	if !svc.isCompleted(model.TaskVideo, taskID) {
		svc.rewardSvc.Reassign(model.TaskVideo, taskID, minutes, idx)
	}
	return nil
}

func (svc *TaskService) CompleteVideo(taskID string) (*dto.CompletionResponse, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	video, idx, ok := svc.findVideo(taskID)
	if !ok {
		return nil, shared.NewNotFoundError(nil, "video not found")
	}

	return svc.complete(model.TaskVideo, taskID, video.Title, svc.videoSize(video), idx)
}

// ==================== SURVEY ====================

func (svc *TaskService) findSurvey(taskID string) (model.SurveyTask, int, bool) {
	for i, s := range svc.surveys {
		if s.ID == taskID {
			return s, i, true
		}
	}
	return model.SurveyTask{}, 0, false
}

func (svc *TaskService) CompleteSurvey(taskID string, answers map[string]string) (*dto.CompletionResponse, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	survey, idx, ok := svc.findSurvey(taskID)
	if !ok {
		return nil, shared.NewNotFoundError(nil, "survey not found")
	}

	for _, q := range survey.Questions {
		if answers[q.ID] == "" {
			return nil, shared.NewBadRequestError(nil, "all questions must be answered")
		}
	}

	return svc.complete(model.TaskSurvey, taskID, survey.Title, float64(len(survey.Questions)), idx)
}

// ==================== WEBSITE ====================

func (svc *TaskService) findWebsite(taskID string) (model.WebsiteTask, int, bool) {
	for i, w := range svc.websites {
		if w.ID == taskID {
			return w, i, true
		}
	}
	return model.WebsiteTask{}, 0, false
}

// StartWebsiteVisit opens a dwell timer for a website task. Only one visit
// may be in flight at a time.
func (svc *TaskService) StartWebsiteVisit(taskID string) (*dto.VisitStatusResponse, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	website, _, ok := svc.findWebsite(taskID)
	if !ok {
		return nil, shared.NewNotFoundError(nil, "website not found")
	}
	if svc.isCompleted(model.TaskWebsite, taskID) {
		return nil, shared.NewBadRequestError(nil, "task already completed")
	}
	if svc.quotaSvc.IsLimitReached(model.TaskWebsite, svc.progressionSvc.XPLevel()) {
		return nil, shared.NewBadRequestError(nil, "daily limit reached for this task type")
	}

	var active model.WebsiteVisit
	if svc.storeSvc.GetJSON(shared.KeyActiveVisit, &active) {
		return nil, shared.NewConflictError(nil, "another visit is already in progress")
	}

	visit := model.WebsiteVisit{
		TaskID:          taskID,
		URL:             website.URL,
		StartedAt:       svc.now(),
		RequiredSeconds: website.RequiredSeconds,
	}
	if err := svc.storeSvc.SetJSON(shared.KeyActiveVisit, visit); err != nil {
		return nil, shared.NewInternalError(err, "could not save visit")
	}

	return &dto.VisitStatusResponse{
		TaskID:           taskID,
		URL:              website.URL,
		RequiredSeconds:  website.RequiredSeconds,
		ElapsedSeconds:   0,
		RemainingSeconds: website.RequiredSeconds,
	}, nil
}

// FinishWebsiteVisit closes the active visit. A finish before the dwell
// time has elapsed counts as a failed attempt: no credit, and the visit
// is cleared so the user starts over.
func (svc *TaskService) FinishWebsiteVisit() (*dto.CompletionResponse, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	var visit model.WebsiteVisit
	if !svc.storeSvc.GetJSON(shared.KeyActiveVisit, &visit) {
		return nil, shared.NewNotFoundError(nil, "no visit in progress")
	}

	elapsed := int(svc.now().Sub(visit.StartedAt).Seconds())
	if elapsed < visit.RequiredSeconds {
		svc.storeSvc.Delete(shared.KeyActiveVisit)
		return nil, shared.NewBadRequestError(nil, "visit too short").WithData(dto.VisitStatusResponse{
			TaskID:           visit.TaskID,
			URL:              visit.URL,
			RequiredSeconds:  visit.RequiredSeconds,
			ElapsedSeconds:   elapsed,
			RemainingSeconds: visit.RequiredSeconds - elapsed,
		})
	}

	website, idx, ok := svc.findWebsite(visit.TaskID)
	if !ok {
		svc.storeSvc.Delete(shared.KeyActiveVisit)
		return nil, shared.NewNotFoundError(nil, "website not found")
	}

	resp, err := svc.complete(model.TaskWebsite, visit.TaskID, website.Title, float64(website.RequiredSeconds), idx)
	if err != nil {
		return nil, err
	}

	svc.storeSvc.Delete(shared.KeyActiveVisit)
	return resp, nil
}

// CancelWebsiteVisit abandons the active visit without credit.
func (svc *TaskService) CancelWebsiteVisit() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	var visit model.WebsiteVisit
	if !svc.storeSvc.GetJSON(shared.KeyActiveVisit, &visit) {
		return shared.NewNotFoundError(nil, "no visit in progress")
	}
	return svc.storeSvc.Delete(shared.KeyActiveVisit)
}

// ==================== COMPLETION CORE ====================

func (svc *TaskService) complete(t model.TaskType, taskID, title string, size float64, poolIndex int) (*dto.CompletionResponse, error) {
	if svc.isCompleted(t, taskID) {
		return nil, shared.NewBadRequestError(nil, "task already completed")
	}
	if svc.quotaSvc.IsLimitReached(t, svc.progressionSvc.XPLevel()) {
		return nil, shared.NewBadRequestError(nil, "daily limit reached for this task type")
	}

	reward := svc.rewardSvc.Resolve(t, taskID, size, poolIndex)

	if _, err := svc.ledgerSvc.CreditReward(t, title, reward); err != nil {
		return nil, err
	}

	svc.markCompleted(t, taskID)
	svc.quotaSvc.Increment(t)

	snap := svc.progressionSvc.Snapshot()
	return &dto.CompletionResponse{
		TaskID:     taskID,
		Reward:     reward,
		NewBalance: svc.ledgerSvc.Balance().String(),
		XP:         snap.XP,
		Level:      snap.EffectiveLevel,
	}, nil
}
