package domain

import "errors"

// 引擎的错误分类，边界层据此决定响应方式
var (
	ErrInvalidInput = errors.New("输入不合法")
	ErrNotFound     = errors.New("记录不存在")
	ErrInvalidState = errors.New("状态不允许该操作")
)
