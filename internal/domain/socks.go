package domain

import "context" // Context for repository calls

// Batch Model: one stock record per (color, cotton part) pair
type Batch struct {
	ID         uint   `gorm:"primaryKey" json:"-"`                                               // Primary key
	Color      string `gorm:"size:255;not null;uniqueIndex:idx_socks_color_cotton" json:"color"` // Sock color
	CottonPart int    `gorm:"not null;uniqueIndex:idx_socks_color_cotton" json:"cottonPart"`     // Cotton percentage, 0-100
	Quantity   int64  `gorm:"not null;default:0" json:"quantity"`                                // Pairs in stock, never negative
}

// TableName keeps the table name stable across drivers
func (Batch) TableName() string {
	return "socks"
}

// Operation compares stored cotton parts against a requested value
type Operation string

// Supported comparison operations
const (
	OpMoreThan Operation = "moreThan"
	OpLessThan Operation = "lessThan"
	OpEqual    Operation = "equal"
)

// ParseOperation validates an operation name
func ParseOperation(s string) (Operation, bool) {
	switch op := Operation(s); op {
	case OpMoreThan, OpLessThan, OpEqual:
		return op, true
	}
	return "", false
}

// BatchRepository is the stock ledger store
type BatchRepository interface {
	// FindByColorAndCottonPart returns errs.ErrNotFound when no batch matches exactly
	FindByColorAndCottonPart(ctx context.Context, color string, cottonPart int) (*Batch, error)
	// Increase adds quantity, creating the batch on first income
	Increase(ctx context.Context, color string, cottonPart int, quantity int64) (*Batch, error)
	// Decrease subtracts quantity; errs.ErrNotFound or errs.ErrInsufficient leave the store unchanged
	Decrease(ctx context.Context, color string, cottonPart int, quantity int64) (*Batch, error)
	// SumQuantity totals quantities of one color whose cotton part satisfies op; 0 when nothing matches
	SumQuantity(ctx context.Context, color string, op Operation, cottonPart int) (int64, error)
	DeleteAll(ctx context.Context) error
}
