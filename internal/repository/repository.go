package repository

import "github.com/google/uuid"

type GenericRepository[T any] interface {
	Create(entity *T) error
	FindByID(id uuid.UUID) (*T, error)
	FindAll() ([]T, error)
	Update(entity *T) error
	Delete(id uuid.UUID) error
}
