package services

import (
	"sync"

	"github.com/alphabatem/common/context"

	"github.com/Chucky-Funds/earnova/shared"
)

// SessionService is the volatile in-process store. Everything here is lost
// on restart, which is the point: payment intents and login sessions must
// not outlive the process.
type SessionService struct {
	context.DefaultService

	mu     sync.RWMutex
	values map[string]interface{}
}

const SESSION_SVC = "session_svc"

// Id returns Service ID
func (svc SessionService) Id() string {
	return SESSION_SVC
}

func (svc *SessionService) Configure(ctx *context.Context) error {
	svc.values = make(map[string]interface{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *SessionService) Start() error {
	return nil
}

func (svc *SessionService) Get(key string) (interface{}, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	v, ok := svc.values[key]
	return v, ok
}

func (svc *SessionService) Set(key string, value interface{}) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.values[key] = value
}

func (svc *SessionService) Delete(key string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.values, key)
}

// Take removes and returns the value in one step, for consume-once records.
func (svc *SessionService) Take(key string) (interface{}, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	v, ok := svc.values[key]
	if ok {
		delete(svc.values, key)
	}
	return v, ok
}

// CurrentUser returns the email of the signed-in user, if any.
func (svc *SessionService) CurrentUser() (string, bool) {
	v, ok := svc.Get(shared.SessionKeyCurrentUser)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func (svc *SessionService) SetCurrentUser(email string) {
	svc.Set(shared.SessionKeyCurrentUser, email)
}

func (svc *SessionService) ClearCurrentUser() {
	svc.Delete(shared.SessionKeyCurrentUser)
}
