package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

const quotaDateLayout = "2006-01-02"

// QuotaService tracks per-type daily completion counts. Counts reset at
// local midnight two ways: lazily on read when the stored date is stale,
// and eagerly by a once-a-second watcher that also notifies listeners.
type QuotaService struct {
	context.DefaultService

	storeSvc *StoreService

	mu        sync.Mutex
	listeners []func()
	stop      chan struct{}

	// bumped on every midnight reset so pollers can detect a rollover
	generation atomic.Int64

	now func() time.Time
}

const QUOTA_SVC = "quota_svc"

// Id returns Service ID
func (svc QuotaService) Id() string {
	return QUOTA_SVC
}

func (svc *QuotaService) Configure(ctx *context.Context) error {
	svc.storeSvc = ctx.Service(STORE_SVC).(*StoreService)
	svc.stop = make(chan struct{})
	if svc.now == nil {
		svc.now = time.Now
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *QuotaService) Start() error {
	go svc.watchMidnight()
	return nil
}

func (svc *QuotaService) Shutdown() {
	close(svc.stop)
}

func (svc *QuotaService) today() string {
	return svc.now().Format(quotaDateLayout)
}

// CurrentCount returns today's completion count for the type, resetting
// the stored count first if it belongs to an earlier day.
func (svc *QuotaService) CurrentCount(t model.TaskType) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.currentCountLocked(t)
}

func (svc *QuotaService) currentCountLocked(t model.TaskType) int {
	today := svc.today()
	storedDate, _ := svc.storeSvc.Get(shared.KeyQuotaDatePrefix + string(t))
	if storedDate != today {
		svc.storeSvc.SetInt(shared.KeyQuotaCountPrefix+string(t), 0)
		svc.storeSvc.Set(shared.KeyQuotaDatePrefix+string(t), today)
		return 0
	}
	return svc.storeSvc.GetInt(shared.KeyQuotaCountPrefix+string(t), 0)
}

// Increment bumps today's count and returns the new value.
func (svc *QuotaService) Increment(t model.TaskType) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	count := svc.currentCountLocked(t) + 1
	svc.storeSvc.SetInt(shared.KeyQuotaCountPrefix+string(t), count)
	svc.storeSvc.Set(shared.KeyQuotaDatePrefix+string(t), svc.today())
	return count
}

// IsLimitReached reports whether the daily limit for the type is used up
// at the given effective level.
func (svc *QuotaService) IsLimitReached(t model.TaskType, level int) bool {
	return svc.CurrentCount(t) >= model.DailyLimit(t, level)
}

// ForceResetAll zeroes every type's count for today.
func (svc *QuotaService) ForceResetAll() {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	today := svc.today()
	for _, t := range []model.TaskType{model.TaskVideo, model.TaskSurvey, model.TaskWebsite} {
		svc.storeSvc.SetInt(shared.KeyQuotaCountPrefix+string(t), 0)
		svc.storeSvc.Set(shared.KeyQuotaDatePrefix+string(t), today)
	}
	svc.generation.Add(1)
}

// OnMidnight registers a callback fired when the watcher crosses into a
// new day. Register before Start.
func (svc *QuotaService) OnMidnight(fn func()) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.listeners = append(svc.listeners, fn)
}

// Generation increments whenever the daily counters roll over, so a
// poller can compare values to detect a reset without watching the clock.
func (svc *QuotaService) Generation() int64 {
	return svc.generation.Load()
}

// ResetCountdown returns seconds until the next local midnight.
func (svc *QuotaService) ResetCountdown() int {
	now := svc.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return int(next.Sub(now).Seconds())
}

func (svc *QuotaService) watchMidnight() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	last := svc.today()
	for {
		select {
		case <-svc.stop:
			return
		case <-ticker.C:
			today := svc.today()
			if today == last {
				continue
			}
			last = today

			log.WithField("date", today).Info("daily quota reset")
			svc.ForceResetAll()

			svc.mu.Lock()
			listeners := append([]func(){}, svc.listeners...)
			svc.mu.Unlock()
			for _, fn := range listeners {
				fn()
			}
		}
	}
}
