package db

import (
	"context" // Context for queries
	"fmt"     // Error formatting
	"math"    // Quantity bounds

	"socks_stock/internal/domain" // Importing domain models
	"socks_stock/internal/errs"   // Repository sentinels

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Upsert clause
)

// SocksRepo is the GORM-backed stock ledger
type SocksRepo struct {
	db *gorm.DB
}

// NewSocksRepo creates a SocksRepo
func NewSocksRepo(db *gorm.DB) *SocksRepo {
	return &SocksRepo{db: db}
}

// FindByColorAndCottonPart returns the batch matching the exact pair
func (r *SocksRepo) FindByColorAndCottonPart(ctx context.Context, color string, cottonPart int) (*domain.Batch, error) {
	var batch domain.Batch
	if err := r.db.WithContext(ctx).Where("color = ? AND cotton_part = ?", color, cottonPart).First(&batch).Error; err != nil {
		return nil, notFound(err)
	}
	return &batch, nil
}

// Increase adds quantity to the batch in one upsert, creating it on first income.
// errs.ErrOverflow when the stored total would pass math.MaxInt64.
func (r *SocksRepo) Increase(ctx context.Context, color string, cottonPart int, quantity int64) (*domain.Batch, error) {
	var batch domain.Batch
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Batch
		res := tx.Where("color = ? AND cotton_part = ?", color, cottonPart).Limit(1).Find(&current)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 && quantity > math.MaxInt64-current.Quantity {
			return errs.ErrOverflow // Checked up front, drivers disagree on how the sum fails
		}
		row := domain.Batch{Color: color, CottonPart: cottonPart, Quantity: quantity}
		// Insert, or add to the stored counter when the pair already exists
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "color"}, {Name: "cotton_part"}},
			DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("socks.quantity + ?", quantity)}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("color = ? AND cotton_part = ?", color, cottonPart).First(&batch).Error
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// Decrease subtracts quantity only when enough stock is present
func (r *SocksRepo) Decrease(ctx context.Context, color string, cottonPart int, quantity int64) (*domain.Batch, error) {
	var batch domain.Batch
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional update: never drives the counter below zero
		res := tx.Model(&domain.Batch{}).
			Where("color = ? AND cotton_part = ? AND quantity >= ?", color, cottonPart, quantity).
			Update("quantity", gorm.Expr("quantity - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Where("color = ? AND cotton_part = ?", color, cottonPart).First(&batch).Error; err != nil {
			return notFound(err)
		}
		if res.RowsAffected == 0 {
			return errs.ErrInsufficient
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// SumQuantity totals the quantity of one color filtered by cotton part
func (r *SocksRepo) SumQuantity(ctx context.Context, color string, op domain.Operation, cottonPart int) (int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Batch{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("color = ?", color)
	switch op {
	case domain.OpMoreThan:
		query = query.Where("cotton_part > ?", cottonPart)
	case domain.OpLessThan:
		query = query.Where("cotton_part < ?", cottonPart)
	case domain.OpEqual:
		query = query.Where("cotton_part = ?", cottonPart)
	default:
		return 0, fmt.Errorf("unsupported operation %q", op)
	}
	var total int64
	if err := query.Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// DeleteAll removes every batch
func (r *SocksRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.Batch{}).Error
}
