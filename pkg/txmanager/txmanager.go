package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/TLP-LaunchService/pkg/dbmetrics"
)

// maxRetries максимальное число повторов транзакции при serialization failure
const maxRetries = 3

var (
	// ErrSerialization возвращается, когда транзакция не зафиксировалась
	// из-за конфликта сериализации после всех повторов
	ErrSerialization = errors.New("txmanager: serialization conflict")

	// ErrTransaction возвращается при прочих ошибках управления транзакцией
	ErrTransaction = errors.New("txmanager: transaction error")
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции в сериализуемых транзакциях
// с автоматическим повтором при конфликтах сериализации
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый transaction manager
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn в транзакции с уровнем изоляции SERIALIZABLE
// Транзакция кладется в контекст, репозитории достают её через dbmetrics.GetExecutor.
// При serialization failure (40001) или deadlock (40P01) транзакция
// повторяется целиком, не более maxRetries раз
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := m.do(ctx, fn)
		if err == nil {
			return nil
		}

		if !isSerializationError(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("%w: giving up after %d retries: %v", ErrSerialization, maxRetries, lastErr)
}

func (m *TransactionManager) do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w: rollback after %v: %v", ErrTransaction, err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		// Конфликт сериализации чаще всего всплывает именно на commit -
		// отдаем ошибку как есть, чтобы сработал повтор
		if isSerializationError(err) {
			return err
		}
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}

	return nil
}

// isSerializationError распознает ошибки PostgreSQL, при которых транзакцию имеет смысл повторить:
// 40001 - serialization_failure, 40P01 - deadlock_detected
func isSerializationError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
