package xfile

import "errors"

// 路径校验错误。
var (
	// ErrEmptyPath 路径为空。
	ErrEmptyPath = errors.New("xfile: path is required")
	// ErrNullByte 路径包含空字节。
	ErrNullByte = errors.New("xfile: path contains null byte")
	// ErrInvalidPath 路径格式无效（目录路径、无文件名等）。
	ErrInvalidPath = errors.New("xfile: invalid path")
	// ErrPathTraversal 路径包含 ".." 穿越段。
	ErrPathTraversal = errors.New("xfile: path traversal in path")
	// ErrInvalidPerm 目录权限缺少所有者执行位。
	ErrInvalidPerm = errors.New("xfile: invalid directory permission")
)
