package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrPointerOnly 只支持一级指针作为输入
	// 看到这个 error 说明你输入了其它的东西
	// 我们并不希望用户能够直接使用 err == ErrPointerOnly
	// 所以放在我们的 internal 包里
	ErrPointerOnly = errors.New("orm: 只支持一级指针作为输入，例如 *User")

	// ErrInvalidArgument 必填的输入缺失，例如查询语句为空
	ErrInvalidArgument = errors.New("orm: invalid argument")

	// ErrUnknownParameter 查询语句中的占位符在参数里找不到
	ErrUnknownParameter = errors.New("orm: unknown parameter")

	// ErrMissingKey fill 的时候，关联数据的 key 找不到主数据
	ErrMissingKey = errors.New("orm: missing key")

	ErrDuplicateField    = errors.New("orm: duplicate field")
	ErrInvalidTagContent = errors.New("orm: invalid tag content")
	ErrUnknownField      = errors.New("orm: unknown field")
)

// NewErrInvalidArgument wraps ErrInvalidArgument with the name of the missing input.
func NewErrInvalidArgument(name string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, name)
}

// NewErrUnknownParameter 返回代表未知参数的错误
func NewErrUnknownParameter(name string) error {
	return fmt.Errorf("%w: @%s", ErrUnknownParameter, name)
}

func NewErrMissingKey(key any) error {
	return fmt.Errorf("%w: %v", ErrMissingKey, key)
}

// NewErrDuplicateField 大小写不敏感的情况下，字段名重复
func NewErrDuplicateField(name string) error {
	return fmt.Errorf("%w: %s", ErrDuplicateField, name)
}

func NewErrInvalidTagContent(pair string) error {
	return fmt.Errorf("%w: %s", ErrInvalidTagContent, pair)
}

// NewErrUnknownField 返回代表未知字段的错误
func NewErrUnknownField(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}
