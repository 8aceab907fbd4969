package book

import (
	"fmt"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found.")

	// ErrDuplicateBook 图书已存在(批量导入中按跳过处理)
	ErrDuplicateBook = apperrors.New(apperrors.ErrCodeDuplicateBook, "Book already in the database")

	// ErrMissingFields 载荷缺少必填结构(作者列表、作品列表、id、标题等)
	ErrMissingFields = apperrors.New(apperrors.ErrCodeMissingFields, "Missing fields")

	// ErrInvalidPages 页数为负
	ErrInvalidPages = apperrors.New(apperrors.ErrCodeInvalidPages, "number_of_pages must be a non-negative integer")
)

// DuplicateBookError 带图书ID的重复错误,errors.Is(err, ErrDuplicateBook)成立
func DuplicateBookError(id string) error {
	return apperrors.WithMessage(ErrDuplicateBook, fmt.Sprintf("Book %s already in the database", id))
}
