package service

import "errors"

// 业务哨兵错误，handler 层据此映射 HTTP 状态码.
var (
	ErrVersionNotFound     = errors.New("version not found")
	ErrDuplicateVersion    = errors.New("version already exists")
	ErrCannotDeleteLatest  = errors.New("cannot delete the latest version")
	ErrCannotDeleteCurrent = errors.New("cannot delete the current launcher build")
	ErrLauncherNotFound    = errors.New("launcher build not found")
	ErrFileNotFound        = errors.New("file not found")
	ErrPackageNotFound     = errors.New("update package not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrDeviceNotFound      = errors.New("device not found")
	ErrMissingIdentifier   = errors.New("at least one device identifier is required")
	ErrConfirmRequired     = errors.New("explicit confirmation required")
)
