package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"wasl/internal/batch"
	"wasl/internal/lifecycle"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
	"wasl/pkg/platform/audit"
	"wasl/pkg/platform/sentinel"
)

type CreateBatchInput struct {
	Code      string
	CampusID  id.CampusID
	TradeID   id.TradeID
	Capacity  int
	StartDate time.Time
	EndDate   time.Time
}

func (s *Service) CreateBatch(ctx context.Context, in CreateBatchInput) (*batch.Batch, error) {
	b, err := batch.New(id.BatchID(uuid.New()), in.Code, in.CampusID, in.TradeID, in.Capacity, in.StartDate, in.EndDate, s.now())
	if err != nil {
		return nil, err
	}
	err = s.tx.RunInTx(WithTxKey(ctx, "batch:"+b.ID.String()), func(ctx context.Context, store lifecycle.Store) error {
		if err := store.CreateBatch(ctx, b); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Newf(dErrors.CodeConflict, "batch code %s already exists", b.Code)
			}
			return translate(err, "batch")
		}
		return s.emit(ctx, nil, audit.EventBatchCreated, func(e *audit.Event) {
			e.Subject = b.Code
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "batch created", "batch_id", b.ID.String(), "code", b.Code, "capacity", b.Capacity)
	return b, nil
}

func (s *Service) GetBatch(ctx context.Context, batchID id.BatchID) (*batch.Batch, error) {
	b, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, translate(err, "batch")
	}
	return b, nil
}

func (s *Service) ListBatches(ctx context.Context) ([]batch.Batch, error) {
	out, err := s.store.ListBatches(ctx)
	if err != nil {
		return nil, translate(err, "batch")
	}
	return out, nil
}

// ResizeBatch changes capacity. It cannot drop below current enrollment.
func (s *Service) ResizeBatch(ctx context.Context, batchID id.BatchID, capacity int) (*batch.Batch, error) {
	if capacity <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "capacity must be positive")
	}
	var out *batch.Batch
	err := s.tx.RunInTx(WithTxKey(ctx, "batch:"+batchID.String()), func(ctx context.Context, store lifecycle.Store) error {
		b, err := store.ResizeBatch(ctx, batchID, capacity, s.now())
		if errors.Is(err, sentinel.ErrInvalidState) {
			return dErrors.New(dErrors.CodeInvariantViolation, "capacity cannot be lower than current enrollment")
		}
		if err != nil {
			return translate(err, "batch")
		}
		out = b
		return s.emit(ctx, nil, audit.EventBatchResized, func(e *audit.Event) {
			e.Subject = b.Code
			e.Decision = "capacity=" + strconv.Itoa(b.Capacity)
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
