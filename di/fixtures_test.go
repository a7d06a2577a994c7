package di

import (
	"sync/atomic"
)

type Service interface {
	Name() string
}

type ServiceImpl struct{ id int64 }

func (s *ServiceImpl) Name() string { return "service" }

var serviceSeq atomic.Int64

func NewServiceImpl() *ServiceImpl {
	return &ServiceImpl{id: serviceSeq.Add(1)}
}

type Controller interface {
	Service() Service
}

type ControllerImpl struct {
	service Service
}

func (c *ControllerImpl) Service() Service { return c.service }

func NewControllerImpl(service Service) *ControllerImpl {
	return &ControllerImpl{service: service}
}

type Repository interface {
	Find(id int) string
}

type memoryRepository struct{ prefix string }

func (r *memoryRepository) Find(id int) string { return r.prefix }

// counter returns a factory that counts its invocations.
func counter[T any](calls *atomic.Int64, build func() T) func(Resolver) (T, error) {
	return func(Resolver) (T, error) {
		calls.Add(1)
		return build(), nil
	}
}
