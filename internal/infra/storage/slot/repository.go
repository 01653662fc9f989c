package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TLP-LaunchService/internal/domain"
	"github.com/m04kA/TLP-LaunchService/pkg/dbmetrics"
	"github.com/m04kA/TLP-LaunchService/pkg/psqlbuilder"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// pgUniqueViolation код ошибки PostgreSQL unique_violation
const pgUniqueViolation = "23505"

// Repository репозиторий для работы со слотами запуска и их бронированиями
//
// Инварианты слота (booking_count <= capacity, non_premium_count == числу
// non-premium бронирований, глобальная уникальность product_id) держатся
// на том, что каждая мутация выполняется одним атомарным переходом:
// блокировка строки слота FOR UPDATE, проверка предиката под блокировкой,
// запись и обновление счётчиков в той же транзакции. Уникальность product_id
// дополнительно закреплена UNIQUE-ограничением таблицы slot_bookings -
// страховка от гонок независимо от логики аллокатора.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDate получает слот на дату вместе с бронированиями в порядке отображения
func (r *Repository) GetByDate(ctx context.Context, date types.DateString) (*domain.LaunchSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slot, err := r.getSlotRow(ctx, executor, date, false)
	if err != nil {
		return nil, err
	}

	bookings, err := r.getBookingsForDate(ctx, executor, date)
	if err != nil {
		return nil, err
	}
	slot.Bookings = bookings

	return slot, nil
}

// GetRange получает строки слотов за период [from, to] без бронирований
// Даты без слота в выдачу не попадают - их трактует вызывающая сторона
func (r *Repository) GetRange(ctx context.Context, from, to types.DateString) ([]*domain.LaunchSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"date",
		"capacity",
		"booking_count",
		"non_premium_count",
		"created_at",
		"updated_at",
	).
		From("launch_slots").
		Where(squirrel.GtOrEq{"date": from.String()}).
		Where(squirrel.LtOrEq{"date": to.String()}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.LaunchSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRange - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// FindBookingByProduct находит бронирование продукта по его ID
// Глобальный индекс по product_id делает поиск независимым от даты
func (r *Repository) FindBookingByProduct(ctx context.Context, productID int64) (*domain.SlotBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := bookingSelect().
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindBookingByProduct - build select query: %v", ErrBuildQuery, err)
	}

	var booking domain.SlotBooking
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.SlotDate,
		&booking.ProductID,
		&booking.UserID,
		&booking.ProductName,
		&booking.IsPremium,
		&booking.Position,
		&booking.BookedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindBookingByProduct - scan booking: %v", ErrScanRow, err)
	}

	return &booking, nil
}

// GetBookingsByUser получает все бронирования пользователя, новые даты первыми
func (r *Repository) GetBookingsByUser(ctx context.Context, userID int64) ([]*domain.SlotBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := bookingSelect().
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("slot_date DESC, position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingsByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingsByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CreateIfAbsent создает строку слота на дату, если её ещё нет
// Используется фоновой задачей поддержания окна слотов
func (r *Repository) CreateIfAbsent(ctx context.Context, date types.DateString, capacity int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	return r.ensureSlotRow(ctx, executor, date, capacity)
}

// InsertBooking атомарно добавляет бронирование в слот на дату
//
// Должен вызываться внутри транзакции (txmanager.DoSerializable): строка слота
// блокируется FOR UPDATE, предикат ёмкости/квоты проверяется под блокировкой,
// вставка бронирования и инкремент счётчиков фиксируются вместе. Два
// конкурентных вызова на одну дату не могут оба пройти предикат при одном
// свободном месте.
//
// Возвращает:
// - ErrSlotFull, если все места заняты
// - ErrQuotaExceeded, если non-premium квота исчерпана (при выключенном overflow)
// - ErrDuplicateProduct, если продукт уже занимает слот (UNIQUE по product_id)
func (r *Repository) InsertBooking(
	ctx context.Context,
	date types.DateString,
	policy domain.SlotPolicy,
	booking *domain.SlotBooking,
) (*domain.SlotBooking, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, fmt.Errorf("%w: InsertBooking", ErrNoTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Создаем строку слота, если дата бронируется впервые
	if err := r.ensureSlotRow(ctx, executor, date, policy.Capacity); err != nil {
		return nil, err
	}

	// Блокируем строку слота и проверяем предикат под блокировкой
	slot, err := r.getSlotRow(ctx, executor, date, true)
	if err != nil {
		return nil, fmt.Errorf("InsertBooking: %w", err)
	}

	if slot.IsFull() {
		return nil, ErrSlotFull
	}
	if !booking.IsPremium && !policy.AllowNonPremiumOverflow &&
		slot.RemainingNonPremium(policy.NonPremiumCap) == 0 {
		return nil, ErrQuotaExceeded
	}

	position, err := r.nextPosition(ctx, executor, date)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("slot_bookings").
		Columns(
			"slot_date",
			"product_id",
			"user_id",
			"product_name",
			"is_premium",
			"position",
		).
		Values(
			date.String(),
			booking.ProductID,
			booking.UserID,
			booking.ProductName,
			booking.IsPremium,
			position,
		).
		Suffix("RETURNING id, booked_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: InsertBooking - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &booking.BookedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateProduct
		}
		return nil, fmt.Errorf("%w: InsertBooking - execute insert: %v", ErrExecQuery, err)
	}

	booking.SlotDate = date
	booking.Position = position

	if err := r.applyCounterDelta(ctx, executor, date, +1, booking.IsPremium); err != nil {
		return nil, err
	}

	return booking, nil
}

// RemoveBooking атомарно удаляет бронирование продукта и декрементирует счётчики
//
// Должен вызываться внутри транзакции. Возвращает удалённое бронирование
// или ErrBookingNotFound, если продукт не занимает ни одного слота
func (r *Repository) RemoveBooking(ctx context.Context, productID int64) (*domain.SlotBooking, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, fmt.Errorf("%w: RemoveBooking", ErrNoTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	booking, err := r.FindBookingByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Блокируем строку слота: конкурентные cancel + book на одну дату
	// не должны разойтись со счётчиками
	if _, err := r.getSlotRow(ctx, executor, booking.SlotDate, true); err != nil {
		return nil, fmt.Errorf("RemoveBooking: %w", err)
	}

	query, args, err := psqlbuilder.Delete("slot_bookings").
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: RemoveBooking - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: RemoveBooking - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: RemoveBooking - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrBookingNotFound
	}

	if err := r.applyCounterDelta(ctx, executor, booking.SlotDate, -1, booking.IsPremium); err != nil {
		return nil, err
	}

	return booking, nil
}

// Вспомогательные методы

// ensureSlotRow создает строку слота, если её нет (идемпотентно)
func (r *Repository) ensureSlotRow(ctx context.Context, executor DBExecutor, date types.DateString, capacity int) error {
	query, args, err := psqlbuilder.Insert("launch_slots").
		Columns("date", "capacity").
		Values(date.String(), capacity).
		Suffix("ON CONFLICT (date) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ensureSlotRow - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ensureSlotRow - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// getSlotRow получает строку слота, опционально блокируя её FOR UPDATE
func (r *Repository) getSlotRow(ctx context.Context, executor DBExecutor, date types.DateString, forUpdate bool) (*domain.LaunchSlot, error) {
	selectBuilder := psqlbuilder.Select(
		"date",
		"capacity",
		"booking_count",
		"non_premium_count",
		"created_at",
		"updated_at",
	).
		From("launch_slots").
		Where(squirrel.Eq{"date": date.String()})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getSlotRow - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}

	return slot, nil
}

// nextPosition возвращает позицию для нового бронирования на дату
// max(position)+1 вместо booking_count: после отмен в середине дня
// booking_count может совпасть с позицией живого бронирования
func (r *Repository) nextPosition(ctx context.Context, executor DBExecutor, date types.DateString) (int, error) {
	query, args, err := psqlbuilder.Select("COALESCE(MAX(position) + 1, 0)").
		From("slot_bookings").
		Where(squirrel.Eq{"slot_date": date.String()}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: nextPosition - build select query: %v", ErrBuildQuery, err)
	}

	var position int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&position); err != nil {
		return 0, fmt.Errorf("%w: nextPosition - scan position: %v", ErrScanRow, err)
	}

	return position, nil
}

// applyCounterDelta сдвигает счётчики слота на delta (+1 при вставке, -1 при удалении)
func (r *Repository) applyCounterDelta(ctx context.Context, executor DBExecutor, date types.DateString, delta int, isPremium bool) error {
	nonPremiumDelta := 0
	if !isPremium {
		nonPremiumDelta = delta
	}

	query, args, err := psqlbuilder.Update("launch_slots").
		Set("booking_count", squirrel.Expr("booking_count + ?", delta)).
		Set("non_premium_count", squirrel.Expr("non_premium_count + ?", nonPremiumDelta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"date": date.String()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: applyCounterDelta - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: applyCounterDelta - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// getBookingsForDate получает бронирования на дату в порядке отображения
func (r *Repository) getBookingsForDate(ctx context.Context, executor DBExecutor, date types.DateString) ([]*domain.SlotBooking, error) {
	query, args, err := bookingSelect().
		Where(squirrel.Eq{"slot_date": date.String()}).
		OrderBy("position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getBookingsForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getBookingsForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// bookingSelect общий SELECT-билдер для колонок бронирования
func bookingSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"slot_date",
		"product_id",
		"user_id",
		"product_name",
		"is_premium",
		"position",
		"booked_at",
	).From("slot_bookings")
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSlot сканирует строку слота
func scanSlot(row rowScanner) (*domain.LaunchSlot, error) {
	var slot domain.LaunchSlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.Date,
		&slot.Capacity,
		&slot.BookingCount,
		&slot.NonPremiumCount,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanSlot - scan row: %v", ErrScanRow, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.SlotBooking, error) {
	bookings := make([]*domain.SlotBooking, 0)

	for rows.Next() {
		var booking domain.SlotBooking

		err := rows.Scan(
			&booking.ID,
			&booking.SlotDate,
			&booking.ProductID,
			&booking.UserID,
			&booking.ProductName,
			&booking.IsPremium,
			&booking.Position,
			&booking.BookedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// isUniqueViolation распознает нарушение UNIQUE-ограничения PostgreSQL
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	return false
}
