package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrorTooManySessions = errors.New("too many sessions")
)

// SessionCleaner - узкий интерфейс к хранилищу, регистру нужна только зачистка
type SessionCleaner interface {
	DeleteBySession(ctx context.Context, sessionID string) int
}

// sessionEntry - текущий таймер сессии и поколение его взвода.
// Поколение сквозное на весь регистр: сработавший таймер старого
// поколения никогда не совпадет с перевзведенной или пересозданной сессией
type sessionEntry struct {
	timer *time.Timer
	gen   uint64
}

// Registry держит по одному таймеру простоя на сессию.
// Каждая операция сессии перевзводит таймер; по срабатыванию
// все списки сессии удаляются из хранилища
type Registry struct {
	store       SessionCleaner
	logger      *zap.Logger
	timeout     time.Duration
	maxSessions int

	mu      sync.Mutex
	lastGen uint64
	timers  map[string]*sessionEntry
}

func NewRegistry(store SessionCleaner, logger *zap.Logger, timeout time.Duration, maxSessions int) *Registry {
	return &Registry{
		store:       store,
		logger:      logger,
		timeout:     timeout,
		maxSessions: maxSessions,
		timers:      make(map[string]*sessionEntry),
	}
}

// Touch регистрирует активность сессии. Старый таймер гасим,
// новый взводим - дубликаты не накапливаются
func (r *Registry) Touch(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, known := r.timers[sessionID]
	if !known {
		if r.maxSessions > 0 && len(r.timers) >= r.maxSessions {
			return ErrorTooManySessions
		}
		entry = &sessionEntry{}
		r.timers[sessionID] = entry
		r.logger.Info("Session started", zap.String("session_id", sessionID))
	} else {
		entry.timer.Stop()
	}

	// Замыкание захватывает поколение по значению, никаких общих переменных
	r.lastGen++
	gen := r.lastGen
	entry.gen = gen
	entry.timer = time.AfterFunc(r.timeout, func() {
		r.expire(sessionID, gen)
	})
	return nil
}

func (r *Registry) expire(sessionID string, gen uint64) {
	r.mu.Lock()
	entry, ok := r.timers[sessionID]
	if !ok || entry.gen != gen {
		r.mu.Unlock()
		return // сессию уже перевзвели, пересоздали или снесли явным Evict
	}
	delete(r.timers, sessionID)

	// Зачистка хранилища под той же блокировкой: между снятием сессии
	// и удалением ее списков не может вклиниться Touch с тем же id
	removed := r.store.DeleteBySession(context.Background(), sessionID)
	r.mu.Unlock()

	r.logger.Info("Session timed out",
		zap.String("session_id", sessionID),
		zap.Int("removed", removed),
	)
}

// Evict - явный снос сессии. Для отсутствующей сессии это no-op
func (r *Registry) Evict(sessionID string) bool {
	r.mu.Lock()
	entry, ok := r.timers[sessionID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	entry.timer.Stop()
	delete(r.timers, sessionID)

	removed := r.store.DeleteBySession(context.Background(), sessionID)
	r.mu.Unlock()

	r.logger.Info("Session evicted",
		zap.String("session_id", sessionID),
		zap.Int("removed", removed),
	)
	return true
}

func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.timers))
	for id := range r.timers {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Shutdown гасит все таймеры. Данные не трогаем - процесс все равно умирает
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.timers {
		entry.timer.Stop()
		delete(r.timers, id)
	}
}
