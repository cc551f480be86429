package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	// Попытка изменить id через patch
	ErrIDNotPatchable = errors.New("player id cannot be modified")

	// Ошибки операций (оборачивают ошибки хранилища)
	ErrPlayerCreationFailed = errors.New("failed to create player")
	ErrPlayerUpdateFailed   = errors.New("failed to update player")
	ErrPlayerDeleteFailed   = errors.New("failed to delete player")
)

// PlayerNotFoundError возвращается, когда игрок с данным id отсутствует.
type PlayerNotFoundError struct {
	ID int
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("Player with id %d not found.", e.ID)
}

// UnknownFieldError возвращается, когда patch ссылается на несуществующее поле.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown player field %q", e.Field)
}

// InvalidFieldValueError возвращается, когда значение поля в patch
// не приводится к типу атрибута.
type InvalidFieldValueError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldValueError) Error() string {
	return fmt.Sprintf("invalid value for field %q: %s", e.Field, e.Reason)
}
