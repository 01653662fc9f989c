package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TLP-LaunchService/internal/domain"
	slotRepo "github.com/m04kA/TLP-LaunchService/internal/infra/storage/slot"
	"github.com/m04kA/TLP-LaunchService/internal/integrations/productservice"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// --- фейки ---

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time { return p.now }

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeProductClient struct {
	products map[int64]*productservice.Product
}

func (c *fakeProductClient) GetProduct(_ context.Context, productID int64) (*productservice.Product, error) {
	p, ok := c.products[productID]
	if !ok {
		return nil, productservice.ErrProductNotFound
	}
	return p, nil
}

// fakeSlotStore in-memory реализация SlotRepository с теми же предикатами и
// sentinel-ошибками, что и у Postgres-репозитория. Мутации атомарны под mutex,
// что позволяет гонять конкурентные сценарии
type fakeSlotStore struct {
	mu       sync.Mutex
	slots    map[types.DateString]*domain.LaunchSlot
	byProd   map[int64]*domain.SlotBooking
	nextID   int64
	inserted int
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{
		slots:  make(map[types.DateString]*domain.LaunchSlot),
		byProd: make(map[int64]*domain.SlotBooking),
	}
}

func (s *fakeSlotStore) FindBookingByProduct(_ context.Context, productID int64) (*domain.SlotBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byProd[productID]
	if !ok {
		return nil, slotRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *fakeSlotStore) GetRange(_ context.Context, from, to types.DateString) ([]*domain.LaunchSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.LaunchSlot
	for d, slot := range s.slots {
		if !d.IsBefore(from) && !d.IsAfter(to) {
			copied := *slot
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *fakeSlotStore) InsertBooking(_ context.Context, date types.DateString, policy domain.SlotPolicy, booking *domain.SlotBooking) (*domain.SlotBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byProd[booking.ProductID]; ok {
		return nil, slotRepo.ErrDuplicateProduct
	}

	slot, ok := s.slots[date]
	if !ok {
		slot = &domain.LaunchSlot{Date: date, Capacity: policy.Capacity}
		s.slots[date] = slot
	}

	if slot.IsFull() {
		return nil, slotRepo.ErrSlotFull
	}
	if !booking.IsPremium && !policy.AllowNonPremiumOverflow &&
		slot.RemainingNonPremium(policy.NonPremiumCap) == 0 {
		return nil, slotRepo.ErrQuotaExceeded
	}

	s.nextID++
	created := *booking
	created.ID = s.nextID
	created.SlotDate = date
	created.Position = slot.BookingCount
	created.BookedAt = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	slot.BookingCount++
	if !booking.IsPremium {
		slot.NonPremiumCount++
	}
	s.byProd[booking.ProductID] = &created
	s.inserted++

	result := created
	return &result, nil
}

// fillDate занимает дату указанным числом premium/non-premium бронирований
func (s *fakeSlotStore) fillDate(t *testing.T, date types.DateString, policy domain.SlotPolicy, premium, nonPremium int) {
	t.Helper()
	for i := 0; i < premium; i++ {
		s.nextID++
		_, err := s.InsertBooking(context.Background(), date, policy,
			&domain.SlotBooking{ProductID: 100000 + s.nextID, UserID: 1, IsPremium: true})
		require.NoError(t, err)
	}
	for i := 0; i < nonPremium; i++ {
		s.nextID++
		_, err := s.InsertBooking(context.Background(), date, policy,
			&domain.SlotBooking{ProductID: 100000 + s.nextID, UserID: 1, IsPremium: false})
		require.NoError(t, err)
	}
}

// --- обвязка ---

var testNow = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

func newTestUseCase(store *fakeSlotStore, products map[int64]*productservice.Product, policy domain.SlotPolicy) *UseCase {
	uc := NewUseCase(store, &fakeProductClient{products: products}, fakeTxManager{}, policy, noopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return uc
}

func defaultProducts() map[int64]*productservice.Product {
	return map[int64]*productservice.Product{
		1: {ID: 1, OwnerID: 10, Name: "CodeRadar", IsPremium: false, Published: true},
		2: {ID: 2, OwnerID: 20, Name: "ShipFast Pro", IsPremium: true, Published: true},
		3: {ID: 3, OwnerID: 30, Name: "InboxZero", IsPremium: false, Published: true},
	}
}

func mustDate(t *testing.T, s string) types.DateString {
	t.Helper()
	d, err := types.NewDateStringFromString(s)
	require.NoError(t, err)
	return d
}

// --- тесты ---

func TestExecute_ExplicitDate_Success(t *testing.T) {
	store := newFakeSlotStore()
	uc := newTestUseCase(store, defaultProducts(), domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1})

	date := mustDate(t, "2026-09-05")
	resp, err := uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 10, Date: date})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ProductID)
	assert.Equal(t, date, resp.Date)
	assert.Equal(t, 0, resp.Position)
	assert.Equal(t, "CodeRadar", resp.ProductName)
	assert.False(t, resp.IsPremium)
}

func TestExecute_ExplicitDate_SlotFull(t *testing.T) {
	policy := domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1}.Normalize()
	store := newFakeSlotStore()
	date := mustDate(t, "2026-09-05")
	store.fillDate(t, date, policy, 3, 0)

	uc := newTestUseCase(store, defaultProducts(), policy)

	_, err := uc.Execute(context.Background(), &Request{ProductID: 2, UserID: 20, Date: date})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_ExplicitDate_QuotaExceeded(t *testing.T) {
	// Одно non-premium место уже занято: свободная ёмкость есть, но квота
	// закрывает дату для non-premium и оставляет открытой для premium
	policy := domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1}.Normalize()
	store := newFakeSlotStore()
	date := mustDate(t, "2026-09-05")
	store.fillDate(t, date, policy, 1, 1)

	uc := newTestUseCase(store, defaultProducts(), policy)

	_, err := uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 10, Date: date})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	resp, err := uc.Execute(context.Background(), &Request{ProductID: 2, UserID: 20, Date: date})
	require.NoError(t, err)
	assert.Equal(t, date, resp.Date)
	assert.True(t, resp.IsPremium)
}

func TestExecute_ExplicitDate_InPast(t *testing.T) {
	store := newFakeSlotStore()
	uc := newTestUseCase(store, defaultProducts(), domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1})

	_, err := uc.Execute(context.Background(), &Request{
		ProductID: 1, UserID: 10, Date: mustDate(t, "2026-08-28"),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_ExplicitDate_BeyondHorizon(t *testing.T) {
	store := newFakeSlotStore()
	uc := newTestUseCase(store, defaultProducts(), domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1, HorizonDays: 60})

	_, err := uc.Execute(context.Background(), &Request{
		ProductID: 1, UserID: 10, Date: mustDate(t, "2027-01-01"),
	})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_AutoAssign_EarliestDate(t *testing.T) {
	store := newFakeSlotStore()
	uc := newTestUseCase(store, defaultProducts(), domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1})

	resp, err := uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 10})

	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2026-08-29"), resp.Date)
}

func TestExecute_AutoAssign_SkipsFilledDays(t *testing.T) {
	policy := domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1}.Normalize()
	store := newFakeSlotStore()

	// Первые пять дней закрыты: ёмкость либо квота исчерпаны
	for i, day := range []string{"2026-08-29", "2026-08-30", "2026-08-31", "2026-09-01", "2026-09-02"} {
		if i%2 == 0 {
			store.fillDate(t, mustDate(t, day), policy, 3, 0)
		} else {
			store.fillDate(t, mustDate(t, day), policy, 0, 1)
		}
	}

	uc := newTestUseCase(store, defaultProducts(), policy)

	resp, err := uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 10})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2026-09-03"), resp.Date)
}

func TestExecute_AutoAssign_QuotaClosedDayOpenForPremium(t *testing.T) {
	policy := domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1}.Normalize()
	store := newFakeSlotStore()
	store.fillDate(t, mustDate(t, "2026-08-29"), policy, 0, 1)

	uc := newTestUseCase(store, defaultProducts(), policy)

	// Non-premium продукт уходит на следующий день
	resp, err := uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 10})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2026-08-30"), resp.Date)

	// Premium продукт занимает сегодняшний
	resp, err = uc.Execute(context.Background(), &Request{ProductID: 2, UserID: 20})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2026-08-29"), resp.Date)
}

func TestExecute_AutoAssign_HorizonExhausted(t *testing.T) {
	policy := domain.SlotPolicy{Capacity: 1, NonPremiumCap: 1, HorizonDays: 3}.Normalize()
	store := newFakeSlotStore()

	day := mustDate(t, "2026-08-29")
	for i := 0; i < 3; i++ {
		store.fillDate(t, day, policy, 1, 0)
		next, err := day.AddDays(1)
		require.NoError(t, err)
		day = next
	}

	uc := newTestUseCase(store, defaultProducts(), policy)

	_, err := uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 10})
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestExecute_ProductNotFound(t *testing.T) {
	uc := newTestUseCase(newFakeSlotStore(), defaultProducts(), domain.SlotPolicy{})

	_, err := uc.Execute(context.Background(), &Request{ProductID: 999, UserID: 10})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestExecute_AccessDenied(t *testing.T) {
	uc := newTestUseCase(newFakeSlotStore(), defaultProducts(), domain.SlotPolicy{})

	_, err := uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 42})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_DuplicateBooking(t *testing.T) {
	store := newFakeSlotStore()
	uc := newTestUseCase(store, defaultProducts(), domain.SlotPolicy{})

	_, err := uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 10})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 10})
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(newFakeSlotStore(), defaultProducts(), domain.SlotPolicy{})

	_, err := uc.Execute(context.Background(), &Request{ProductID: 0, UserID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_MinLeadDays(t *testing.T) {
	store := newFakeSlotStore()
	uc := newTestUseCase(store, defaultProducts(), domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1, MinLeadDays: 2})

	// Сегодня и завтра недоступны
	_, err := uc.Execute(context.Background(), &Request{ProductID: 1, UserID: 10, Date: mustDate(t, "2026-08-30")})
	assert.ErrorIs(t, err, ErrInvalidDate)

	resp, err := uc.Execute(context.Background(), &Request{ProductID: 3, UserID: 30})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2026-08-31"), resp.Date)
}

// Конкурентные non-premium бронирования одной даты: проходит ровно столько,
// сколько допускает квота, остальные получают отказ
func TestExecute_ConcurrentNonPremium_QuotaHolds(t *testing.T) {
	const workers = 16

	policy := domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1}
	store := newFakeSlotStore()

	products := make(map[int64]*productservice.Product, workers)
	for i := int64(1); i <= workers; i++ {
		products[i] = &productservice.Product{ID: i, OwnerID: i, Name: "Tool", Published: true}
	}

	uc := newTestUseCase(store, products, policy)
	date := mustDate(t, "2026-09-05")

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), &Request{
				ProductID: int64(i + 1),
				UserID:    int64(i + 1),
				Date:      date,
			})
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, store.inserted)
}

// Автоподбор под конкуренцией: каждый продукт получает уникальную дату,
// переполнения квоты нет
func TestExecute_ConcurrentAutoAssign_NoOverbooking(t *testing.T) {
	const workers = 8

	policy := domain.SlotPolicy{Capacity: 3, NonPremiumCap: 1}.Normalize()
	store := newFakeSlotStore()

	products := make(map[int64]*productservice.Product, workers)
	for i := int64(1); i <= workers; i++ {
		products[i] = &productservice.Product{ID: i, OwnerID: i, Name: "Tool", Published: true}
	}

	uc := newTestUseCase(store, products, policy)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), &Request{
				ProductID: int64(i + 1),
				UserID:    int64(i + 1),
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// Все non-premium: на каждой дате не больше одного бронирования
	for date, slot := range store.slots {
		assert.LessOrEqual(t, slot.NonPremiumCount, policy.NonPremiumCap, "date %s", date)
		assert.LessOrEqual(t, slot.BookingCount, slot.Capacity, "date %s", date)
	}
	assert.Equal(t, workers, store.inserted)
}
