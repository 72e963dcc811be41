package service

import (
	"errors"

	"github.com/hoanghieund/sale-project-sub002/internal/catalog"
)

const (
	MinQuantity = 1
	MaxQuantity = 99
)

var (
	ErrMissingUser     = errors.New("user id is required")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 99")
	ErrProductNotFound = catalog.ErrProductNotFound
)
