package engine

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrProfileNotFound      = errors.New("候选人档案不存在")
	ErrNoJobsAvailable      = errors.New("没有可匹配的岗位")
	ErrExternalSignal       = errors.New("外部信号不可用")
	ErrScoringFailure       = errors.New("单岗位打分失败")
	ErrMatchingEngineFailed = errors.New("匹配引擎执行失败")
)

// MatchError 包含详细上下文的自定义错误
type MatchError struct {
	CandidateID string
	Op          string
	BaseErr     error
	Detail      string
}

func (e *MatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 候选人:%s): %s", e.BaseErr, e.Op, e.CandidateID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 候选人:%s)", e.BaseErr, e.Op, e.CandidateID)
}

func (e *MatchError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *MatchError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewProfileNotFoundError(candidateID, detail string) error {
	return &MatchError{
		CandidateID: candidateID,
		Op:          "profile",
		BaseErr:     ErrProfileNotFound,
		Detail:      detail,
	}
}

func NewNoJobsError(candidateID, detail string) error {
	return &MatchError{
		CandidateID: candidateID,
		Op:          "jobs",
		BaseErr:     ErrNoJobsAvailable,
		Detail:      detail,
	}
}

func NewExternalSignalError(candidateID, op, detail string) error {
	return &MatchError{
		CandidateID: candidateID,
		Op:          op,
		BaseErr:     ErrExternalSignal,
		Detail:      detail,
	}
}

func NewEngineError(candidateID, op, detail string) error {
	return &MatchError{
		CandidateID: candidateID,
		Op:          op,
		BaseErr:     ErrMatchingEngineFailed,
		Detail:      detail,
	}
}
