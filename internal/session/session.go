// Package session хранит состояние пользователя между вызовами инструментов:
// список досрочных платежей и набор сохраненных сценариев.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/metrics"
	"github.com/google/uuid"
)

// ErrNotFound сессия не найдена или истекла
var ErrNotFound = errors.New("сессия не найдена")

// State состояние одной сессии
type State struct {
	Prepayments []calculations.Prepayment `json:"prepayments"`
	Scenarios   calculations.ScenarioSet  `json:"scenarios"`
}

// Store хранилище состояний сессий
type Store interface {
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID новый идентификатор сессии
func NewID() string {
	return uuid.NewString()
}

// ValidID проверяет, что строка является UUID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// LoadOrEmpty загружает состояние; отсутствующая сессия дает пустое состояние
func LoadOrEmpty(ctx context.Context, store Store, id string) (State, error) {
	state, err := store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return State{}, nil
	}
	return state, err
}

func encode(state State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (State, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return state, nil
}

// observe учитывает операцию с хранилищем в метриках
func observe(backend, op string, err error) {
	status := "success"
	switch {
	case errors.Is(err, ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	metrics.SessionStoreOps.WithLabelValues(backend, op, status).Inc()
}
