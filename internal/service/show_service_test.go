package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olegsm/cinema-tickets/internal/model"
	"github.com/olegsm/cinema-tickets/internal/repository"
	"github.com/olegsm/cinema-tickets/internal/service"
)

// fakeShowStore is an in-memory ShowStore. DeleteByID drops the show's
// tickets from the paired ticket store, mirroring the repository cascade.
type fakeShowStore struct {
	seq     uint64
	byID    map[uint64]model.Show
	tickets *fakeTicketStore
}

func newFakeShowStore(tickets *fakeTicketStore) *fakeShowStore {
	return &fakeShowStore{byID: make(map[uint64]model.Show), tickets: tickets}
}

func (f *fakeShowStore) FindAll(_ context.Context) ([]model.Show, error) {
	var out []model.Show
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeShowStore) FindByID(_ context.Context, id uint64) (model.Show, error) {
	s, ok := f.byID[id]
	if !ok {
		return model.Show{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeShowStore) Create(_ context.Context, s *model.Show) error {
	f.seq++
	s.ID = f.seq
	f.byID[s.ID] = *s
	return nil
}

func (f *fakeShowStore) Update(_ context.Context, s *model.Show) error {
	if _, ok := f.byID[s.ID]; !ok {
		return repository.ErrNotFound
	}
	f.byID[s.ID] = *s
	return nil
}

func (f *fakeShowStore) DeleteByID(_ context.Context, id uint64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	for tid, t := range f.tickets.byID {
		if t.ShowID == id {
			delete(f.tickets.byID, tid)
		}
	}
	delete(f.byID, id)
	return nil
}

func TestShowService_Lifecycle(t *testing.T) {
	tickets := newFakeTicketStore()
	store := newFakeShowStore(tickets)
	svc := service.NewShowService(store)
	ctx := context.Background()

	sh := model.Show{Title: "Dune", StartsAt: time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC), HallID: 2}
	if err := svc.Create(ctx, &sh); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sh.ID == 0 {
		t.Fatal("expected generated show ID")
	}

	got, err := svc.FindByID(ctx, sh.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Title != "Dune" {
		t.Fatalf("expected title Dune, got %s", got.Title)
	}

	sh.Title = "Dune: Part Two"
	if err := svc.Update(ctx, &sh); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = svc.FindByID(ctx, sh.ID)
	if got.Title != "Dune: Part Two" {
		t.Fatalf("update not applied, got %s", got.Title)
	}
}

func TestShowService_NotFound(t *testing.T) {
	svc := service.NewShowService(newFakeShowStore(newFakeTicketStore()))
	ctx := context.Background()

	if _, err := svc.FindByID(ctx, 42); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("FindByID: expected ErrNotFound, got %v", err)
	}
	if err := svc.Update(ctx, &model.Show{ID: 42, Title: "x"}); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteByID(ctx, 42); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("DeleteByID: expected ErrNotFound, got %v", err)
	}
}

func TestShowService_DeleteCascadesTickets(t *testing.T) {
	tickets := newFakeTicketStore()
	store := newFakeShowStore(tickets)
	svc := service.NewShowService(store)
	ctx := context.Background()

	sh := model.Show{Title: "Dune", HallID: 1}
	if err := svc.Create(ctx, &sh); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for cell := uint32(1); cell <= 3; cell++ {
		tk := model.Ticket{ShowID: sh.ID, PosRow: 1, Cell: cell, UserID: 7}
		if err := tickets.Create(ctx, &tk); err != nil {
			t.Fatalf("seed ticket: %v", err)
		}
	}

	if err := svc.DeleteByID(ctx, sh.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := svc.FindByID(ctx, sh.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected show gone, got %v", err)
	}
	if len(tickets.byID) != 0 {
		t.Fatalf("expected tickets cascaded away, %d left", len(tickets.byID))
	}
}
