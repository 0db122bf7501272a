package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrAccountNotFound    = errors.New("账号不存在")
	ErrAccountNoUsername  = errors.New("账号缺少用户名，无法同步")
	ErrInsightNotFound    = errors.New("洞察不存在")
	ErrRetentionNotFound  = errors.New("保留策略不存在")
	UnauthorizedError     = errors.New("权限不足")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:      BadRequest,
	ErrAccountNotFound:   NotFound,
	ErrAccountNoUsername: BadRequest,
	ErrInsightNotFound:   NotFound,
	ErrRetentionNotFound: NotFound,
	UnauthorizedError:    Unauthorized,
	UnExpectedError:      InternalServerError,
}
