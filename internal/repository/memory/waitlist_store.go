package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/contract"
)

type WaitlistStore struct {
	mu      sync.Mutex
	entries []*entity.WaitlistEntry
	nextNum int
}

var _ contract.WaitlistRepository = &WaitlistStore{}

func NewWaitlistStore() *WaitlistStore {
	return &WaitlistStore{nextNum: 1}
}

func (w *WaitlistStore) Create(_ context.Context, entry *entity.WaitlistEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if entry.Id == "" {
		entry.Id = fmt.Sprintf("WL-%04d", w.nextNum)
		w.nextNum++
	}
	entry.Position = w.countByDoctorLocked(entry.DoctorId) + 1
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	cp := *entry
	w.entries = append(w.entries, &cp)
	return nil
}

func (w *WaitlistStore) CountByDoctor(_ context.Context, doctorId string) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return int64(w.countByDoctorLocked(doctorId)), nil
}

func (w *WaitlistStore) countByDoctorLocked(doctorId string) int {
	count := 0
	for _, entry := range w.entries {
		if entry.DoctorId == doctorId {
			count++
		}
	}
	return count
}
