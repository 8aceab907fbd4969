package author

import (
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

var (
	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "Author not found.")

	// ErrMissingFields 作者条目缺少id或name
	ErrMissingFields = apperrors.New(apperrors.ErrCodeMissingFields, "Missing fields")
)
