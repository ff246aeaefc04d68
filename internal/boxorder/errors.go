package boxorder

import (
	"errors"
	"fmt"
)

// 校验错误哨兵，配合 errors.Is 使用
var (
	ErrTooManyBoxes    = errors.New("too many boxes")
	ErrTooManyItems    = errors.New("too many items in box")
	ErrEmptyBox        = errors.New("box has no items")
	ErrInvalidQuantity = errors.New("invalid item quantity")
	ErrInvalidProduct  = errors.New("product not available")
	ErrInvalidVariant  = errors.New("variation not available")
	ErrMissingVariant  = errors.New("variation required")
	ErrNoValidBoxes    = errors.New("no valid boxes")
	ErrDuplicateBox    = errors.New("duplicate box label")
)

// ErrorCode 校验错误码
type ErrorCode string

const (
	CodeTooManyBoxes    ErrorCode = "too_many_boxes"
	CodeTooManyItems    ErrorCode = "too_many_items"
	CodeEmptyBox        ErrorCode = "empty_box"
	CodeInvalidQuantity ErrorCode = "invalid_quantity"
	CodeInvalidProduct  ErrorCode = "invalid_product"
	CodeInvalidVariant  ErrorCode = "invalid_variation"
	CodeMissingVariant  ErrorCode = "missing_variation"
	CodeNoValidBoxes    ErrorCode = "no_valid_boxes"
	CodeDuplicateBox    ErrorCode = "duplicate_box"
)

// ValidationError 箱子校验失败（首个错误）
type ValidationError struct {
	Code        ErrorCode `json:"code"`
	BoxLabel    string    `json:"box,omitempty"`
	ProductID   uint      `json:"product_id,omitempty"`
	VariantID   uint      `json:"variation_id,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
	Limit       int       `json:"limit,omitempty"`
	err         error
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeTooManyBoxes:
		return fmt.Sprintf("Maximum %d boxes allowed.", e.Limit)
	case CodeTooManyItems:
		return fmt.Sprintf("Box %q has too many items (maximum %d).", e.BoxLabel, e.Limit)
	case CodeEmptyBox:
		return fmt.Sprintf("Box %q has no items.", e.BoxLabel)
	case CodeInvalidQuantity:
		return fmt.Sprintf("Box %q contains an item with an invalid quantity.", e.BoxLabel)
	case CodeInvalidProduct:
		return fmt.Sprintf("Product ID %d is not available for purchase.", e.ProductID)
	case CodeInvalidVariant:
		return fmt.Sprintf("Variation ID %d is not available for purchase.", e.VariantID)
	case CodeMissingVariant:
		return fmt.Sprintf("Please select a variation for %q.", e.ProductName)
	case CodeNoValidBoxes:
		return "No valid boxes found."
	case CodeDuplicateBox:
		return fmt.Sprintf("Box label %q is used more than once.", e.BoxLabel)
	}
	if e.err != nil {
		return e.err.Error()
	}
	return string(e.Code)
}

// Unwrap 返回哨兵错误
func (e *ValidationError) Unwrap() error {
	return e.err
}

func tooManyBoxes(limit int) error {
	return &ValidationError{Code: CodeTooManyBoxes, Limit: limit, err: ErrTooManyBoxes}
}

func tooManyItems(label string, limit int) error {
	return &ValidationError{Code: CodeTooManyItems, BoxLabel: label, Limit: limit, err: ErrTooManyItems}
}

func emptyBox(label string) error {
	return &ValidationError{Code: CodeEmptyBox, BoxLabel: label, err: ErrEmptyBox}
}

func invalidQuantity(label string, productID uint) error {
	return &ValidationError{Code: CodeInvalidQuantity, BoxLabel: label, ProductID: productID, err: ErrInvalidQuantity}
}

func invalidProduct(label string, productID uint) error {
	return &ValidationError{Code: CodeInvalidProduct, BoxLabel: label, ProductID: productID, err: ErrInvalidProduct}
}

func invalidVariant(label string, productID, variantID uint) error {
	return &ValidationError{Code: CodeInvalidVariant, BoxLabel: label, ProductID: productID, VariantID: variantID, err: ErrInvalidVariant}
}

func missingVariant(label string, productID uint, productName string) error {
	return &ValidationError{Code: CodeMissingVariant, BoxLabel: label, ProductID: productID, ProductName: productName, err: ErrMissingVariant}
}

func noValidBoxes() error {
	return &ValidationError{Code: CodeNoValidBoxes, err: ErrNoValidBoxes}
}

func duplicateBox(label string) error {
	return &ValidationError{Code: CodeDuplicateBox, BoxLabel: label, err: ErrDuplicateBox}
}

// AsValidationError 提取校验错误
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
