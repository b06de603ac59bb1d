package util

import "errors"

// 输入类错误：立即返回调用方，不重试，不产生任何写入
var (
	ErrEmptyQuestionSet = errors.New("empty question set")
	ErrUnknownLevel     = errors.New("level not in ladder")
	ErrInvalidAnswer    = errors.New("malformed answer payload")
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrQuestionNotFound = errors.New("question not found")
)

// 状态冲突类错误：调用方预期并据此分支的正常控制流，而不是事故
var (
	ErrDuplicateActiveSession = errors.New("an unexpired session is already in progress for this skill")
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionAlreadyComplete = errors.New("session already complete")
	ErrSessionExpired         = errors.New("session expired")
	ErrNoEligibilityRecord    = errors.New("session produced no weak topics, retest gate does not apply")
	ErrLevelLocked            = errors.New("level not yet unlocked")
	ErrWeakTopicNotFound      = errors.New("weak topic not found")
	ErrPermissionDenied       = errors.New("permission denied")
)
