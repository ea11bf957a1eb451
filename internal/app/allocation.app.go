package app

import (
	"time"

	"streamalloc/internal/domain"
	l3_service "streamalloc/internal/service/l3"
)

// AllocationHandler is the engine facade the API and CLI talk to. It owns no
// state beyond the wired services; every call is a pure function of its
// inputs plus the static lookup tables.
type AllocationHandler struct {
	Optimizer   l3_service.OptimizerService
	Validator   l3_service.ValidatorService
	Projections l3_service.ProjectionService
}

func (h AllocationHandler) AllocateStreams(in l3_service.AllocateStreamsInput) (*domain.AllocationResult, error) {
	if in.Now.IsZero() {
		in.Now = time.Now().UTC()
	}
	return h.Optimizer.AllocateStreams(in)
}

func (h AllocationHandler) ValidateAllocations(in l3_service.ValidateAllocationsInput) domain.ValidationResult {
	return h.Validator.ValidateAllocations(in)
}

func (h AllocationHandler) CalculateProjections(in l3_service.CalculateProjectionsInput) domain.ProjectionTotals {
	return h.Projections.CalculateProjections(in)
}
