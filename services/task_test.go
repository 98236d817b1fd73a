package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

type taskFixture struct {
	task        *TaskService
	quota       *QuotaService
	ledger      *LedgerService
	progression *ProgressionService
	store       *StoreService
	clock       time.Time
}

func newTaskFixture(t *testing.T) *taskFixture {
	store := newTestStore(t)
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	progression := &ProgressionService{storeSvc: store}
	quota := &QuotaService{storeSvc: store, now: fixedClock(clock)}
	reward := &RewardService{storeSvc: store, rng: rand.New(rand.NewSource(1))}
	ledger := &LedgerService{storeSvc: store, progressionSvc: progression, now: fixedClock(clock)}

	task := &TaskService{
		storeSvc:       store,
		quotaSvc:       quota,
		rewardSvc:      reward,
		ledgerSvc:      ledger,
		progressionSvc: progression,
		durations:      make(map[string]float64),
		now:            fixedClock(clock),
		videos: []model.VideoTask{
			{ID: "vid_1", Title: "Short Clip", URL: "https://example.com/1", DurationMinutes: 1.5},
			{ID: "vid_2", Title: "Long Watch", URL: "https://example.com/2", DurationMinutes: 20},
			{ID: "vid_3", Title: "Mystery Stream", URL: "https://example.com/3"},
		},
		surveys: []model.SurveyTask{
			{ID: "srv_1", Title: "Quick Poll", Questions: []model.SurveyQuestion{
				{ID: "q1", Text: "A?", Options: []string{"yes", "no"}},
				{ID: "q2", Text: "B?", Options: []string{"yes", "no"}},
			}},
		},
		websites: []model.WebsiteTask{
			{ID: "web_1", Title: "News Site", URL: "https://news.example.com", RequiredSeconds: 30},
			{ID: "web_2", Title: "Blog", URL: "https://blog.example.com", RequiredSeconds: 60},
		},
	}

	return &taskFixture{task: task, quota: quota, ledger: ledger, progression: progression, store: store, clock: clock}
}

// setLevel gives the fixture enough XP and paid level to act at the level.
func (f *taskFixture) setLevel(level int) {
	f.store.SetInt(shared.KeyXP, model.XPFloorForLevel(level))
	f.store.SetInt(shared.KeyPaidLevel, level)
}

func TestVideoPoolExcludesCompleted(t *testing.T) {
	f := newTaskFixture(t)
	f.setLevel(4)

	pool := f.task.VideoPool()
	tasks := pool.Tasks.([]VideoWithReward)
	if len(tasks) != 3 {
		t.Fatalf("pool size = %d", len(tasks))
	}

	if _, err := f.task.CompleteVideo("vid_1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	pool = f.task.VideoPool()
	tasks = pool.Tasks.([]VideoWithReward)
	for _, v := range tasks {
		if v.ID == "vid_1" {
			t.Error("completed video still offered")
		}
	}
	if len(tasks) != 2 {
		t.Errorf("pool size after completion = %d", len(tasks))
	}
}

func TestPoolStableWhenLimitReached(t *testing.T) {
	f := newTaskFixture(t)
	// level 1: one video per day

	before := f.task.VideoPool()
	if _, err := f.task.CompleteVideo("vid_1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	after := f.task.VideoPool()
	if !after.Quota.LimitReached {
		t.Fatal("limit not reached")
	}

	// the locked page shows the same tasks the open page did
	beforeTasks := before.Tasks.([]VideoWithReward)
	afterTasks := after.Tasks.([]VideoWithReward)
	if len(beforeTasks) != len(afterTasks) {
		t.Fatalf("pool changed size: %d vs %d", len(beforeTasks), len(afterTasks))
	}
	for i := range beforeTasks {
		if beforeTasks[i].ID != afterTasks[i].ID {
			t.Errorf("pool entry %d changed: %s vs %s", i, beforeTasks[i].ID, afterTasks[i].ID)
		}
	}
	// the completed one is flagged, not hidden
	found := false
	for _, id := range after.CompletedIDs {
		if id == "vid_1" {
			found = true
		}
	}
	if !found {
		t.Error("completed video not flagged in locked pool")
	}
}

func TestCompleteVideoCreditsOnce(t *testing.T) {
	f := newTaskFixture(t)
	f.setLevel(4)

	resp, err := f.task.CompleteVideo("vid_1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Reward.Amount.IsZero() {
		t.Error("zero reward")
	}
	if !f.ledger.Balance().Equal(resp.Reward.Amount) {
		t.Errorf("balance = %s, want %s", f.ledger.Balance(), resp.Reward.Amount)
	}
	if f.progression.XP() != resp.Reward.XP {
		t.Errorf("xp = %d, want %d", f.progression.XP(), resp.Reward.XP)
	}

	// doing it again pays nothing
	if _, err := f.task.CompleteVideo("vid_1"); err == nil {
		t.Fatal("double completion allowed")
	}
	if !f.ledger.Balance().Equal(resp.Reward.Amount) {
		t.Errorf("balance changed by refused completion")
	}
}

func TestCompleteVideoRespectsDailyLimit(t *testing.T) {
	f := newTaskFixture(t)
	// level 1 allows one video

	if _, err := f.task.CompleteVideo("vid_1"); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := f.task.CompleteVideo("vid_2"); err == nil {
		t.Fatal("second video allowed past daily limit")
	}
}

func TestDailyLimitKeysOffRawXP(t *testing.T) {
	f := newTaskFixture(t)
	// level 5 by XP, paid level still 1: quotas follow the XP level
	f.store.SetInt(shared.KeyXP, 1688)

	pool := f.task.VideoPool()
	if pool.Quota.Limit != 2 {
		t.Fatalf("video limit = %d, want 2", pool.Quota.Limit)
	}

	if _, err := f.task.CompleteVideo("vid_1"); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := f.task.CompleteVideo("vid_2"); err != nil {
		t.Fatalf("second: %v", err)
	}
	if _, err := f.task.CompleteVideo("vid_3"); err == nil {
		t.Fatal("third video allowed past limit")
	}
}

func TestStartVisitQuotaKeysOffRawXP(t *testing.T) {
	f := newTaskFixture(t)
	// level 2 by XP, paid level 1: two website visits allowed
	f.store.SetInt(shared.KeyXP, 500)

	if _, err := f.task.StartWebsiteVisit("web_1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.task.now = fixedClock(f.clock.Add(31 * time.Second))
	if _, err := f.task.FinishWebsiteVisit(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	if _, err := f.task.StartWebsiteVisit("web_2"); err != nil {
		t.Fatalf("second visit within quota: %v", err)
	}
}

func TestCompleteUnknownVideo(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.task.CompleteVideo("vid_nope")
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 404 {
		t.Fatalf("err = %v", err)
	}
}

func TestPoolMatchesCompletionReward(t *testing.T) {
	f := newTaskFixture(t)
	f.setLevel(4)

	pool := f.task.VideoPool()
	shown := pool.Tasks.([]VideoWithReward)[0]

	resp, err := f.task.CompleteVideo(shown.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !resp.Reward.Amount.Equal(shown.Reward.Amount) || resp.Reward.XP != shown.Reward.XP {
		t.Fatalf("completion paid %s/%d but pool showed %s/%d",
			resp.Reward.Amount, resp.Reward.XP, shown.Reward.Amount, shown.Reward.XP)
	}
}

func TestReportVideoDuration(t *testing.T) {
	f := newTaskFixture(t)

	if err := f.task.ReportVideoDuration("vid_3", 12); err != nil {
		t.Fatalf("report: %v", err)
	}
	if err := f.task.ReportVideoDuration("vid_3", -1); err == nil {
		t.Fatal("negative duration accepted")
	}
	if err := f.task.ReportVideoDuration("vid_nope", 5); err == nil {
		t.Fatal("unknown video accepted")
	}

	// reward for the formerly unknown video now comes from the 12 minute band
	resp, err := f.task.CompleteVideo("vid_3")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Reward.XP < 20 || resp.Reward.XP > 50 {
		t.Errorf("xp %d not in the large band", resp.Reward.XP)
	}
}

func TestCompleteSurveyNeedsAllAnswers(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.task.CompleteSurvey("srv_1", map[string]string{"q1": "yes"})
	if err == nil {
		t.Fatal("incomplete answers accepted")
	}

	resp, err := f.task.CompleteSurvey("srv_1", map[string]string{"q1": "yes", "q2": "no"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !f.ledger.Balance().Equal(resp.Reward.Amount) {
		t.Errorf("balance = %s", f.ledger.Balance())
	}
}

func TestWebsiteVisitFlow(t *testing.T) {
	f := newTaskFixture(t)

	status, err := f.task.StartWebsiteVisit("web_1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if status.RequiredSeconds != 30 {
		t.Fatalf("required = %d", status.RequiredSeconds)
	}

	// a second visit while one is open is refused
	if _, err := f.task.StartWebsiteVisit("web_2"); err == nil {
		t.Fatal("second concurrent visit allowed")
	}

	// finishing early is a failed attempt: no credit, visit cleared
	f.task.now = fixedClock(f.clock.Add(10 * time.Second))
	if _, err := f.task.FinishWebsiteVisit(); err == nil {
		t.Fatal("early finish accepted")
	}
	if !f.ledger.Balance().IsZero() {
		t.Error("early finish paid out")
	}
	if _, err := f.task.FinishWebsiteVisit(); err == nil {
		t.Fatal("finish after failed attempt accepted")
	}

	// start over and sit out the full dwell this time
	if _, err := f.task.StartWebsiteVisit("web_1"); err != nil {
		t.Fatalf("restart after failed attempt: %v", err)
	}
	f.task.now = fixedClock(f.clock.Add(41 * time.Second))
	resp, err := f.task.FinishWebsiteVisit()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !f.ledger.Balance().Equal(resp.Reward.Amount) {
		t.Errorf("balance = %s", f.ledger.Balance())
	}

	// visit is closed now
	if _, err := f.task.FinishWebsiteVisit(); err == nil {
		t.Fatal("finish with no open visit accepted")
	}
}

func TestWebsiteVisitCancel(t *testing.T) {
	f := newTaskFixture(t)

	if err := f.task.CancelWebsiteVisit(); err == nil {
		t.Fatal("cancel with no open visit accepted")
	}

	if _, err := f.task.StartWebsiteVisit("web_1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.task.CancelWebsiteVisit(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !f.ledger.Balance().IsZero() {
		t.Error("cancelled visit paid out")
	}

	// cancelled task can be started again
	if _, err := f.task.StartWebsiteVisit("web_1"); err != nil {
		t.Fatalf("restart after cancel: %v", err)
	}
}

func TestStartVisitGates(t *testing.T) {
	f := newTaskFixture(t)

	// complete web_1 (dwell satisfied)
	f.task.StartWebsiteVisit("web_1")
	f.task.now = fixedClock(f.clock.Add(31 * time.Second))
	if _, err := f.task.FinishWebsiteVisit(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	// already completed
	if _, err := f.task.StartWebsiteVisit("web_1"); err == nil {
		t.Fatal("visit of completed task allowed")
	}

	// level 1 website limit is 1, so web_2 hits the quota gate
	if _, err := f.task.StartWebsiteVisit("web_2"); err == nil {
		t.Fatal("visit past daily limit allowed")
	}
}

func TestClearPoolsDropsPersistedPool(t *testing.T) {
	f := newTaskFixture(t)

	f.task.VideoPool()
	if _, ok := f.store.Get(shared.KeyPoolPrefix + string(model.TaskVideo)); !ok {
		t.Fatal("pool not persisted")
	}

	f.task.clearPools()
	if _, ok := f.store.Get(shared.KeyPoolPrefix + string(model.TaskVideo)); ok {
		t.Fatal("pool survived clear")
	}
}
