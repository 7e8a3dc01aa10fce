package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/EvanMworia/client/internal/dto"
)

var errBackend = errors.New("backend unavailable")

type backendMock struct {
	ItemsFunc          func(ctx context.Context) ([]dto.CartItem, error)
	AddFunc            func(ctx context.Context, productID string, quantity int) (*dto.CartItem, error)
	UpdateQuantityFunc func(ctx context.Context, cartItemID string, quantity int) error
	RemoveFunc         func(ctx context.Context, cartItemID string) error
	ClearFunc          func(ctx context.Context) error

	mu    sync.Mutex
	calls []string
}

func (b *backendMock) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

func (b *backendMock) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *backendMock) Items(ctx context.Context) ([]dto.CartItem, error) {
	b.record("items")
	if b.ItemsFunc == nil {
		return nil, nil
	}
	return b.ItemsFunc(ctx)
}

func (b *backendMock) Add(ctx context.Context, productID string, quantity int) (*dto.CartItem, error) {
	b.record(fmt.Sprintf("add %s %d", productID, quantity))
	if b.AddFunc == nil {
		return nil, nil
	}
	return b.AddFunc(ctx, productID, quantity)
}

func (b *backendMock) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) error {
	b.record(fmt.Sprintf("update %s %d", cartItemID, quantity))
	if b.UpdateQuantityFunc == nil {
		return nil
	}
	return b.UpdateQuantityFunc(ctx, cartItemID, quantity)
}

func (b *backendMock) Remove(ctx context.Context, cartItemID string) error {
	b.record(fmt.Sprintf("remove %s", cartItemID))
	if b.RemoveFunc == nil {
		return nil
	}
	return b.RemoveFunc(ctx, cartItemID)
}

func (b *backendMock) Clear(ctx context.Context) error {
	b.record("clear")
	if b.ClearFunc == nil {
		return nil
	}
	return b.ClearFunc(ctx)
}

type notifySpy struct {
	mu   sync.Mutex
	errs []string
	oks  []string
}

func (s *notifySpy) Success(msg string) {
	s.mu.Lock()
	s.oks = append(s.oks, msg)
	s.mu.Unlock()
}

func (s *notifySpy) Error(msg string) {
	s.mu.Lock()
	s.errs = append(s.errs, msg)
	s.mu.Unlock()
}

func (s *notifySpy) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errs...)
}

func line(id, productID string, qty int, price int64) dto.CartItem {
	return dto.CartItem{
		CartItemId: id,
		ProductId:  productID,
		Quantity:   qty,
		Price:      decimal.NewFromInt(price),
	}
}

func TestFetchReplacesLocalState(t *testing.T) {
	backend := &backendMock{ItemsFunc: func(context.Context) ([]dto.CartItem, error) {
		return []dto.CartItem{line("l1", "p1", 2, 10)}, nil
	}}
	m := NewManager(backend, &notifySpy{})

	require.NoError(t, m.Fetch(context.Background()))
	require.Len(t, m.Lines(), 1)
	require.Equal(t, 2, m.TotalCount())
}

func TestCancelledFetchDoesNotOverwrite(t *testing.T) {
	release := make(chan struct{})
	backend := &backendMock{ItemsFunc: func(ctx context.Context) ([]dto.CartItem, error) {
		<-release
		return []dto.CartItem{line("stale", "p9", 9, 1)}, nil
	}}
	m := NewManager(backend, &notifySpy{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Fetch(ctx) }()

	cancel()
	close(release)
	<-done

	require.Empty(t, m.Lines())
}

func TestLosingFetchDoesNotOverwriteWinner(t *testing.T) {
	// First fetch resolves after the second one already replaced state.
	slow := make(chan struct{})
	var calls int
	var mu sync.Mutex
	backend := &backendMock{ItemsFunc: func(ctx context.Context) ([]dto.CartItem, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			<-slow
			return []dto.CartItem{line("old", "p1", 1, 1)}, nil
		}
		return []dto.CartItem{line("new", "p2", 2, 2)}, nil
	}}
	m := NewManager(backend, &notifySpy{})

	done := make(chan error, 1)
	go func() { done <- m.Fetch(context.Background()) }()

	// Make sure the slow fetch is in flight before starting the fast one.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, m.Fetch(context.Background()))
	close(slow)
	<-done

	lines := m.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "new", lines[0].CartItemId)
}

func TestAddNewInsertsTempThenServerLine(t *testing.T) {
	backend := &backendMock{AddFunc: func(ctx context.Context, productID string, qty int) (*dto.CartItem, error) {
		return &dto.CartItem{CartItemId: "srv-1", ProductId: productID, Quantity: qty, Price: decimal.NewFromInt(10)}, nil
	}}
	m := NewManager(backend, &notifySpy{})

	require.NoError(t, m.Add(context.Background(), "p7", 2, DisplayMeta{Price: decimal.NewFromInt(10)}))

	lines := m.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "srv-1", lines[0].CartItemId)
	require.False(t, IsTempLine(lines[0]))
	require.Equal(t, 2, lines[0].Quantity)
}

func TestAddNewWithoutServerEchoRefetches(t *testing.T) {
	backend := &backendMock{
		AddFunc: func(context.Context, string, int) (*dto.CartItem, error) { return nil, nil },
		ItemsFunc: func(context.Context) ([]dto.CartItem, error) {
			return []dto.CartItem{line("srv-9", "p7", 1, 10)}, nil
		},
	}
	m := NewManager(backend, &notifySpy{})

	require.NoError(t, m.Add(context.Background(), "p7", 1, DisplayMeta{}))

	lines := m.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "srv-9", lines[0].CartItemId)
	require.Contains(t, backend.Calls(), "items")
}

func TestAddNewFailureRemovesTempLine(t *testing.T) {
	backend := &backendMock{AddFunc: func(context.Context, string, int) (*dto.CartItem, error) {
		return nil, errBackend
	}}
	spy := &notifySpy{}
	m := NewManager(backend, spy)

	err := m.Add(context.Background(), "p7", 1, DisplayMeta{})
	require.ErrorIs(t, err, errBackend)
	require.Empty(t, m.Lines())
	require.Contains(t, spy.Errors(), "Failed to add to cart")
}

func TestAddExistingIncrementsSingleLine(t *testing.T) {
	backend := &backendMock{AddFunc: func(ctx context.Context, productID string, qty int) (*dto.CartItem, error) {
		return &dto.CartItem{CartItemId: "srv-1", ProductId: productID, Quantity: qty}, nil
	}}
	m := NewManager(backend, &notifySpy{})
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "p7", 2, DisplayMeta{}))
	require.NoError(t, m.Add(ctx, "p7", 3, DisplayMeta{}))

	lines := m.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 5, lines[0].Quantity)
	require.Equal(t, 5, m.TotalCount())
}

func TestAddExistingFailureRollsBack(t *testing.T) {
	backend := &backendMock{AddFunc: func(context.Context, string, int) (*dto.CartItem, error) {
		return nil, errBackend
	}}
	m := NewManager(backend, &notifySpy{})
	seed(m, line("l1", "p7", 2, 10))

	err := m.Add(context.Background(), "p7", 3, DisplayMeta{})
	require.ErrorIs(t, err, errBackend)

	lines := m.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
}

func TestAddExistingFailureRollbackFloorsAtOne(t *testing.T) {
	backend := &backendMock{AddFunc: func(context.Context, string, int) (*dto.CartItem, error) {
		return nil, errBackend
	}}
	m := NewManager(backend, &notifySpy{})
	seed(m, line("l1", "p7", 1, 10))

	_ = m.Add(context.Background(), "p7", 1, DisplayMeta{})

	require.Equal(t, 1, m.Lines()[0].Quantity)
}

func TestRemoveUnknownLineIsNoOp(t *testing.T) {
	backend := &backendMock{}
	m := NewManager(backend, &notifySpy{})
	seed(m, line("l1", "p1", 1, 10))

	require.NoError(t, m.Remove(context.Background(), "does-not-exist"))
	require.Len(t, m.Lines(), 1)
	require.Empty(t, backend.Calls())
}

func TestRemoveFailureReinsertsAtSamePosition(t *testing.T) {
	backend := &backendMock{RemoveFunc: func(context.Context, string) error { return errBackend }}
	m := NewManager(backend, &notifySpy{})
	seed(m,
		line("l1", "p1", 1, 10),
		line("l2", "p2", 1, 20),
		line("l3", "p3", 1, 30),
	)

	err := m.Remove(context.Background(), "l2")
	require.ErrorIs(t, err, errBackend)

	lines := m.Lines()
	require.Len(t, lines, 3)
	require.Equal(t, "l2", lines[1].CartItemId)
}

func TestRemoveByProductID(t *testing.T) {
	backend := &backendMock{}
	m := NewManager(backend, &notifySpy{})
	seed(m, line("l1", "p1", 1, 10))

	require.NoError(t, m.Remove(context.Background(), "p1"))
	require.Empty(t, m.Lines())
	// The call goes out with the line id, not the product id.
	require.Equal(t, []string{"remove l1"}, backend.Calls())
}

func TestUpdateQuantityNeverBelowOne(t *testing.T) {
	backend := &backendMock{}
	m := NewManager(backend, &notifySpy{})
	seed(m, line("l1", "p1", 3, 10))

	require.NoError(t, m.UpdateQuantity(context.Background(), "l1", 0))
	require.Equal(t, 1, m.Lines()[0].Quantity)
	require.Equal(t, []string{"update l1 1"}, backend.Calls())
}

func TestUpdateQuantityFailureRestoresPrevious(t *testing.T) {
	backend := &backendMock{UpdateQuantityFunc: func(context.Context, string, int) error { return errBackend }}
	m := NewManager(backend, &notifySpy{})
	seed(m, line("l1", "p1", 3, 10), line("l2", "p2", 4, 20))

	err := m.UpdateQuantity(context.Background(), "l1", 9)
	require.ErrorIs(t, err, errBackend)

	lines := m.Lines()
	require.Equal(t, 3, lines[0].Quantity)
	// Unrelated line untouched.
	require.Equal(t, 4, lines[1].Quantity)
}

func TestUpdateUnknownLineIsNoOp(t *testing.T) {
	backend := &backendMock{}
	m := NewManager(backend, &notifySpy{})

	require.NoError(t, m.UpdateQuantity(context.Background(), "ghost", 5))
	require.Empty(t, backend.Calls())
}

func TestClearFailureRestoresFullList(t *testing.T) {
	backend := &backendMock{ClearFunc: func(context.Context) error { return errBackend }}
	m := NewManager(backend, &notifySpy{})
	seed(m, line("l1", "p1", 1, 10), line("l2", "p2", 2, 20))

	err := m.Clear(context.Background())
	require.ErrorIs(t, err, errBackend)
	require.Len(t, m.Lines(), 2)
	require.Equal(t, 3, m.TotalCount())
}

func TestClearEmptiesImmediately(t *testing.T) {
	backend := &backendMock{}
	m := NewManager(backend, &notifySpy{})
	seed(m, line("l1", "p1", 1, 10))

	require.NoError(t, m.Clear(context.Background()))
	require.Empty(t, m.Lines())
	require.Zero(t, m.TotalCount())
}

func TestSubtotal(t *testing.T) {
	m := NewManager(&backendMock{}, &notifySpy{})
	seed(m, line("l1", "p1", 2, 10), line("l2", "p2", 1, 5))

	require.True(t, m.Subtotal().Equal(decimal.NewFromInt(25)))
}

func TestConcurrentIncrementsOnSameLineSerialize(t *testing.T) {
	backend := &backendMock{AddFunc: func(ctx context.Context, productID string, qty int) (*dto.CartItem, error) {
		time.Sleep(5 * time.Millisecond) // widen the confirm window
		return &dto.CartItem{CartItemId: "srv-1", ProductId: productID, Quantity: qty}, nil
	}}
	m := NewManager(backend, &notifySpy{})
	seed(m, line("srv-1", "p7", 1, 10))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Add(context.Background(), "p7", 1, DisplayMeta{})
		}()
	}
	wg.Wait()

	lines := m.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 11, lines[0].Quantity)
}

func TestClearWaitsForInFlightLineMutation(t *testing.T) {
	release := make(chan struct{})
	var clearCalls int32
	backend := &backendMock{
		UpdateQuantityFunc: func(context.Context, string, int) error {
			<-release
			return nil
		},
		ClearFunc: func(context.Context) error {
			atomic.AddInt32(&clearCalls, 1)
			return nil
		},
	}
	m := NewManager(backend, &notifySpy{})
	seed(m, line("l1", "p1", 3, 10))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = m.UpdateQuantity(context.Background(), "l1", 9)
	}()
	require.Eventually(t, func() bool {
		for _, c := range backend.Calls() {
			if c == "update l1 9" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)

	go func() {
		defer wg.Done()
		_ = m.Clear(context.Background())
	}()

	// The clear must not reach the backend while the update is mid-flight.
	require.Never(t, func() bool { return atomic.LoadInt32(&clearCalls) > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&clearCalls))
	require.Empty(t, m.Lines())
}

// All-success sequences leave local state equal to what the backend was told.
func TestSuccessfulSequenceConvergesWithServer(t *testing.T) {
	srv := newFakeServer()
	m := NewManager(srv, &notifySpy{})
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "p1", 2, DisplayMeta{Price: decimal.NewFromInt(10)}))
	require.NoError(t, m.Add(ctx, "p2", 1, DisplayMeta{Price: decimal.NewFromInt(4)}))
	require.NoError(t, m.Add(ctx, "p1", 1, DisplayMeta{}))
	require.NoError(t, m.UpdateQuantity(ctx, srv.lineID("p2"), 5))
	require.NoError(t, m.Remove(ctx, srv.lineID("p1")))

	require.Equal(t, srv.snapshot(), m.Lines())
}

func seed(m *Manager, lines ...dto.CartItem) {
	m.mu.Lock()
	m.lines = append([]dto.CartItem(nil), lines...)
	m.mu.Unlock()
}

// fakeServer is a stateful Backend that behaves like the real cart API.
type fakeServer struct {
	mu    sync.Mutex
	next  int
	lines []dto.CartItem
}

func newFakeServer() *fakeServer { return &fakeServer{} }

func (s *fakeServer) Items(context.Context) ([]dto.CartItem, error) {
	return s.snapshot(), nil
}

func (s *fakeServer) Add(ctx context.Context, productID string, qty int) (*dto.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductId == productID {
			s.lines[i].Quantity += qty
			l := s.lines[i]
			return &l, nil
		}
	}
	s.next++
	l := dto.CartItem{CartItemId: fmt.Sprintf("srv-%d", s.next), ProductId: productID, Quantity: qty}
	s.lines = append([]dto.CartItem{l}, s.lines...)
	return &l, nil
}

func (s *fakeServer) UpdateQuantity(ctx context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].CartItemId == id {
			s.lines[i].Quantity = qty
			return nil
		}
	}
	return errors.New("no such line")
}

func (s *fakeServer) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.CartItemId != id {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	return nil
}

func (s *fakeServer) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	return nil
}

func (s *fakeServer) snapshot() []dto.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.CartItem, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *fakeServer) lineID(productID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		if l.ProductId == productID {
			return l.CartItemId
		}
	}
	return ""
}
