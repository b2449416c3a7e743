package apperrors

import "errors"

var (
	ErrInputFormat           = errors.New("no text column could be identified in input")
	ErrNoRows                = errors.New("input contains no usable rows")
	ErrClassifierUnavailable = errors.New("sentiment classifier unavailable")
	ErrDuplicateTheme        = errors.New("duplicate theme name")
	ErrEmptyIncludes         = errors.New("theme has no include patterns")
	ErrUnknownParent         = errors.New("subtheme references unknown parent theme")
	ErrDuplicateCategory     = errors.New("duplicate solution category")
	ErrEmptyKeywords         = errors.New("solution category has no keywords")
)
