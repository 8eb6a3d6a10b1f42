// Package service holds the stock ledger, authentication and user administration logic.
package service

import (
	"context"
	"errors"
	"strings"

	"socks_stock/internal/domain"
	"socks_stock/internal/errs"
	"socks_stock/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Validation messages, checked in this order.
const (
	msgColorRequired     = "Color is required and cannot be empty."
	msgCottonPartInvalid = "CottonPart is required and must be between 0 and 100."
	msgCottonPartRange   = "CottonPart must be between 0 and 100."
	msgQuantityInvalid   = "Quantity must be greater than 0."
	msgOutOfStock        = "These socks are out of stock."
)

// StockRequest is one income or outcome of socks. Nil pointers mean the field was absent.
type StockRequest struct {
	Color      string `json:"color"`
	CottonPart *int   `json:"cottonPart"`
	Quantity   *int64 `json:"quantity"`
}

// QuantityCache stores quantity totals between mutations. Entries are scoped to a
// generation that Invalidate advances; a total must be stored under the generation
// read before it was computed.
type QuantityCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, color, op string, cottonPart int) (int64, bool, error)
	Set(ctx context.Context, gen int64, color, op string, cottonPart int, total int64) error
	Invalidate(ctx context.Context) error
}

// StockService is the stock ledger.
type StockService struct {
	repo    domain.BatchRepository
	cache   QuantityCache
	metrics *metrics.Stock
}

// NewStockService wires the ledger. cache and m may be nil.
func NewStockService(repo domain.BatchRepository, cache QuantityCache, m *metrics.Stock) *StockService {
	return &StockService{repo: repo, cache: cache, metrics: m}
}

// Income adds socks to the batch for (color, cotton part), creating it when absent.
func (s *StockService) Income(ctx context.Context, req StockRequest) (*domain.Batch, error) {
	if err := validateRequest(req); err != nil {
		s.metrics.Observe("income", 0, err)
		return nil, err
	}
	batch, err := s.repo.Increase(ctx, req.Color, *req.CottonPart, *req.Quantity)
	s.metrics.Observe("income", *req.Quantity, err)
	if errors.Is(err, errs.ErrOverflow) {
		return nil, errs.Newf(errs.KindValidation,
			"Quantity exceeds the maximum stock for color: %s and cotton part: %d", req.Color, *req.CottonPart)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"color":       req.Color,
			"cotton_part": *req.CottonPart,
			"quantity":    *req.Quantity,
			"error":       err.Error(),
		}).Error("Income failed")
		return nil, errs.Wrap(errs.KindInternal, "Income failed", err)
	}
	s.invalidate(ctx)
	logrus.WithFields(logrus.Fields{
		"color":       batch.Color,
		"cotton_part": batch.CottonPart,
		"added":       *req.Quantity,
		"quantity":    batch.Quantity,
	}).Info("Socks income")
	return batch, nil
}

// Outcome removes socks from an existing batch. The stored quantity never drops below zero.
func (s *StockService) Outcome(ctx context.Context, req StockRequest) (*domain.Batch, error) {
	if err := validateRequest(req); err != nil {
		s.metrics.Observe("outcome", 0, err)
		return nil, err
	}
	batch, err := s.repo.Decrease(ctx, req.Color, *req.CottonPart, *req.Quantity)
	s.metrics.Observe("outcome", *req.Quantity, err)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return nil, errs.New(errs.KindBatchNotFound, msgOutOfStock)
	case errors.Is(err, errs.ErrInsufficient):
		return nil, errs.Newf(errs.KindInsufficientQuantity,
			"Not enough socks with color: %s and cotton part: %d", req.Color, *req.CottonPart)
	case err != nil:
		logrus.WithFields(logrus.Fields{
			"color":       req.Color,
			"cotton_part": *req.CottonPart,
			"quantity":    *req.Quantity,
			"error":       err.Error(),
		}).Error("Outcome failed")
		return nil, errs.Wrap(errs.KindInternal, "Outcome failed", err)
	}
	s.invalidate(ctx)
	logrus.WithFields(logrus.Fields{
		"color":       batch.Color,
		"cotton_part": batch.CottonPart,
		"removed":     *req.Quantity,
		"quantity":    batch.Quantity,
	}).Info("Socks outcome")
	return batch, nil
}

// Quantity totals socks of a color whose cotton part compares to cottonPart per op.
func (s *StockService) Quantity(ctx context.Context, color string, op domain.Operation, cottonPart *int) (int64, error) {
	if strings.TrimSpace(color) == "" {
		return 0, errs.New(errs.KindValidation, msgColorRequired)
	}
	if cottonPart == nil || *cottonPart < 0 || *cottonPart > 100 {
		return 0, errs.New(errs.KindValidation, msgCottonPartRange)
	}
	if _, ok := domain.ParseOperation(string(op)); !ok {
		return 0, errs.Newf(errs.KindValidation, "Unknown operation: %s", op)
	}

	// The generation is read before summing so a concurrent mutation orphans our write
	gen, cached := int64(0), s.cache != nil
	if cached {
		var err error
		if gen, err = s.cache.Generation(ctx); err != nil {
			logrus.WithError(err).Warn("Quantity cache generation read failed")
			cached = false
		}
	}
	if cached {
		total, found, err := s.cache.Get(ctx, gen, color, string(op), *cottonPart)
		if err != nil {
			logrus.WithError(err).Warn("Quantity cache read failed")
		} else if found {
			return total, nil
		}
	}

	total, err := s.repo.SumQuantity(ctx, color, op, *cottonPart)
	if err != nil {
		return 0, errs.Wrap(errs.KindInternal, "Quantity lookup failed", err)
	}
	if cached {
		if err := s.cache.Set(ctx, gen, color, string(op), *cottonPart, total); err != nil {
			logrus.WithError(err).Warn("Quantity cache write failed")
		}
	}
	return total, nil
}

// DeleteAll clears every batch.
func (s *StockService) DeleteAll(ctx context.Context) error {
	err := s.repo.DeleteAll(ctx)
	s.metrics.Observe("delete_all", 0, err)
	if err != nil {
		logrus.WithError(err).Error("Delete all socks failed")
		return errs.Wrap(errs.KindInternal, "Delete failed", err)
	}
	s.invalidate(ctx)
	logrus.Warn("All socks deleted")
	return nil
}

func (s *StockService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logrus.WithError(err).Warn("Quantity cache invalidation failed")
	}
}

// validateRequest applies the field checks in order; the first violation wins.
func validateRequest(req StockRequest) error {
	if strings.TrimSpace(req.Color) == "" {
		return errs.New(errs.KindValidation, msgColorRequired)
	}
	if req.CottonPart == nil || *req.CottonPart < 0 || *req.CottonPart > 100 {
		return errs.New(errs.KindValidation, msgCottonPartInvalid)
	}
	if req.Quantity == nil || *req.Quantity <= 0 {
		return errs.New(errs.KindValidation, msgQuantityInvalid)
	}
	return nil
}
