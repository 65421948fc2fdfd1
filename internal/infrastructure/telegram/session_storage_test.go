package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/session"

	"github.com/royak47/autofor/internal/domain"
)

type failingStorage struct{ err error }

func (f failingStorage) LoadSession(context.Context) ([]byte, error) { return nil, f.err }
func (f failingStorage) StoreSession(context.Context, []byte) error { return f.err }

func TestSessionStorage_Load(t *testing.T) {
	ctx := context.Background()

	empty := sessionStorage{storage: domain.NewMemorySession(nil)}
	if _, err := empty.LoadSession(ctx); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("empty storage error = %v, want session.ErrNotFound", err)
	}

	seeded := sessionStorage{storage: domain.NewMemorySession([]byte(`{"Version":1}`))}
	data, err := seeded.LoadSession(ctx)
	if err != nil || string(data) != `{"Version":1}` {
		t.Errorf("LoadSession() = (%s, %v)", data, err)
	}

	boom := errors.New("db down")
	failing := sessionStorage{storage: failingStorage{err: boom}}
	if _, err := failing.LoadSession(ctx); !errors.Is(err, boom) {
		t.Errorf("LoadSession() error = %v, want %v", err, boom)
	}
}

func TestSessionStorage_Store(t *testing.T) {
	mem := domain.NewMemorySession(nil)
	s := sessionStorage{storage: mem}

	if err := s.StoreSession(context.Background(), []byte("blob")); err != nil {
		t.Fatalf("StoreSession() error = %v", err)
	}
	if string(mem.Bytes()) != "blob" {
		t.Errorf("stored = %q, want blob", mem.Bytes())
	}
}
