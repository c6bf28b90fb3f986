package orm

import "github.com/coderi421/bow/orm/internal/errs"

// 将内部的 sentinel error 暴露出去，使用 errors.Is 判断
var (
	ErrInvalidArgument  = errs.ErrInvalidArgument
	ErrUnknownParameter = errs.ErrUnknownParameter
	ErrMissingKey       = errs.ErrMissingKey
	ErrPointerOnly      = errs.ErrPointerOnly
	ErrDuplicateField   = errs.ErrDuplicateField
)
