package testfixtures

import "context"

// TxManager выполняет функцию без транзакции и считает вызовы
type TxManager struct {
	Calls int
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}
