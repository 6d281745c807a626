package contract

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrModelInvoke    = errors.New("model invoke failed")
	ErrNotConfigured  = errors.New("capability is not configured")
	ErrPromptMissing  = errors.New("required prompt is missing")
	ErrBankUnusable   = errors.New("question bank cannot build a question")
	ErrNoUsableAnswer = errors.New("no usable answer from tool endpoint")
)
