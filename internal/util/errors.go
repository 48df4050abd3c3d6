package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUsernameTaken      = errors.New("该用户名已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionCompleted   = errors.New("session already completed")
	ErrSessionNoContent   = errors.New("session has no content")
	ErrStatsNotFound      = errors.New("statistics not found")
)

// GenerationError 模型输出无法规整/解析为目标游戏内容时的失败，
// 保留游戏类型与底层解析错误，便于区分模型输出问题与调用方输入问题
type GenerationError struct {
	GameType string
	Err      error
}

func (e *GenerationError) Error() string {
	return "generate " + e.GameType + " content: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
