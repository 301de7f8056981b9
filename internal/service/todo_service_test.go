package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"todo_webapp/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	todos []domain.Todo
	err   error
	calls int
}

func (f *fakeStore) List(ctx context.Context) ([]domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Todo(nil), f.todos...), nil
}

func (f *fakeStore) Create(ctx context.Context, title string) (*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	t := domain.Todo{ID: uuid.New(), Title: title, CreatedAt: time.Now().UTC()}
	f.todos = append([]domain.Todo{t}, f.todos...)
	return &t, nil
}

func (f *fakeStore) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i].Completed = completed
			t := f.todos[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type recordingPublisher struct {
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev domain.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

func TestTodoService_Create_EmptyTitleSkipsStore(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{}
	svc := NewTodoService(store, pub)

	_, err := svc.Create(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, store.calls)
	assert.Empty(t, pub.events)
}

func TestTodoService_Create_PublishesEvent(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{}
	svc := NewTodoService(store, pub)

	todo, err := svc.Create(context.Background(), "buy milk")
	require.NoError(t, err)
	assert.False(t, todo.Completed)
	assert.Equal(t, 1, store.calls)

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventTodoCreated, pub.events[0].Type)
	assert.Equal(t, todo.ID, pub.events[0].ID)
}

func TestTodoService_PublishFailureDoesNotFailOperation(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{err: errors.New("redis down")}
	svc := NewTodoService(store, pub)

	_, err := svc.Create(context.Background(), "x")
	assert.NoError(t, err)
}

func TestTodoService_Update(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{}
	svc := NewTodoService(store, pub)
	ctx := context.Background()

	todo, err := svc.Create(ctx, "walk dog")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, todo.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, todo.Title, updated.Title)
	assert.Equal(t, todo.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.Len(t, pub.events, 2)
	assert.Equal(t, domain.EventTodoUpdated, pub.events[1].Type)
}

func TestTodoService_Delete(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{}
	svc := NewTodoService(store, pub)
	ctx := context.Background()

	todo, err := svc.Create(ctx, "drop me")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, todo.ID))
	assert.ErrorIs(t, svc.Delete(ctx, todo.ID), domain.ErrNotFound)

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, domain.EventTodoDeleted, last.Type)
	assert.Nil(t, last.Todo)
	assert.Equal(t, todo.ID, last.ID)
}

func TestTodoService_StoreErrorIsWrapped(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewTodoService(&fakeStore{err: storeErr}, nil)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}
