package processor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidThreshold 缺失答案阈值为负数
	ErrInvalidThreshold = errors.New("max absent per subject must be non-negative")
	// ErrScoreOutOfRange 得分超出uint8范围
	ErrScoreOutOfRange = errors.New("score out of range [0,255]")
)

// NotFoundError 数据文件在构造时不存在
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %s does not exist", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError 数据文件内容不是JSON记录列表
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotLoadedError 在Load成功之前调用了分析操作
type NotLoadedError struct {
	Op string
}

func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("%s: dataset not loaded", e.Op)
}

// MissingColumnError 操作所需的列不存在
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}
