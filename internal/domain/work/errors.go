package work

import (
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

var (
	// ErrWorkNotFound 作品不存在
	ErrWorkNotFound = apperrors.New(apperrors.ErrCodeWorkNotFound, "Work not found.")

	// ErrMissingFields 作品条目缺少id或title
	ErrMissingFields = apperrors.New(apperrors.ErrCodeMissingFields, "Missing fields")
)
