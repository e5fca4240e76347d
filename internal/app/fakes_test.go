package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"hadith_master/internal/domain/hadith"
	"hadith_master/internal/domain/schedule"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

var errDown = errors.New("connection refused")

type fakeHadithRepo struct {
	byID  map[string]*hadith.Hadith
	err   error
	calls int
}

func newFakeHadithRepo(hs ...*hadith.Hadith) *fakeHadithRepo {
	r := &fakeHadithRepo{byID: map[string]*hadith.Hadith{}}
	for _, h := range hs {
		r.byID[h.ID] = h
	}
	return r
}

func (r *fakeHadithRepo) Create(_ context.Context, h *hadith.Hadith) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.byID[h.ID] = h
	return nil
}

func (r *fakeHadithRepo) GetByID(_ context.Context, id string) (*hadith.Hadith, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	h, ok := r.byID[id]
	if !ok {
		return nil, hadith.ErrNotFound
	}
	return h, nil
}

func (r *fakeHadithRepo) ListActive(_ context.Context, limit int) ([]*hadith.Hadith, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*hadith.Hadith, 0)
	for _, h := range r.byID {
		if h.IsActive {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeScheduleRepo struct {
	rows      []*schedule.Schedule
	err       error
	createErr error
	calls     int
	nextID    int
}

func (r *fakeScheduleRepo) GetByDate(_ context.Context, date string) (*schedule.Schedule, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.rows {
		if s.Date == date {
			return s, nil
		}
	}
	return nil, schedule.ErrNotFound
}

func (r *fakeScheduleRepo) Create(_ context.Context, s *schedule.Schedule) error {
	r.calls++
	if r.createErr != nil {
		return r.createErr
	}
	if r.err != nil {
		return r.err
	}
	r.nextID++
	if s.ID == "" {
		s.ID = fmt.Sprintf("s%d", r.nextID)
	}
	r.rows = append(r.rows, s)
	return nil
}

func (r *fakeScheduleRepo) MarkSent(_ context.Context, id string) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	for _, s := range r.rows {
		if s.ID == id {
			s.Sent = true
			return nil
		}
	}
	return schedule.ErrNotFound
}

type memCache struct {
	values map[string]string
	setErr error
	// failSet, when set, decides per key whether a write fails.
	failSet func(key string) error
}

func newMemCache() *memCache { return &memCache{values: map[string]string{}} }

func (c *memCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key, value string) error {
	if c.setErr != nil {
		return c.setErr
	}
	if c.failSet != nil {
		if err := c.failSet(key); err != nil {
			return err
		}
	}
	c.values[key] = value
	return nil
}

// batchCache is a memCache that also writes atomically.
type batchCache struct {
	*memCache
	batches int
}

func (c *batchCache) SetMany(_ context.Context, values map[string]string) error {
	c.batches++
	if c.setErr != nil {
		return c.setErr
	}
	for k, v := range values {
		c.values[k] = v
	}
	return nil
}

func (c *memCache) Remove(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeTelegram struct {
	sent []sentMessage
	err  error
}

func (f *fakeTelegram) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func firstIndex(int) int { return 0 }
