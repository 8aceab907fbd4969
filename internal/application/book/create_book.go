package book

import (
	"context"
	"fmt"
)

// CreateBookUseCase 直接录入一本书
// 与OpenLibrary导入共用ImportBookUseCase,区别只在ID取自id字段
type CreateBookUseCase struct {
	importer *ImportBookUseCase
}

// NewCreateBookUseCase 创建录入用例
func NewCreateBookUseCase(importer *ImportBookUseCase) *CreateBookUseCase {
	return &CreateBookUseCase{importer: importer}
}

// CreateBookRequest 录入请求DTO
// Authors/Works为nil表示请求里缺少该字段
type CreateBookRequest struct {
	ID            string
	Title         string
	NumberOfPages *int
	Authors       []RawAuthor
	Works         []RawWork
}

// CreateBookResponse 录入响应DTO
type CreateBookResponse struct {
	ID      string `json:"id"`
	Message string `json:"success"`
}

// Execute 执行录入
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*CreateBookResponse, error) {
	id, err := uc.importer.Execute(ctx, RawBook{
		ID:            req.ID,
		Title:         req.Title,
		NumberOfPages: req.NumberOfPages,
		Authors:       req.Authors,
		Works:         req.Works,
	}, SourceDirect)
	if err != nil {
		return nil, err
	}

	return &CreateBookResponse{
		ID:      id,
		Message: fmt.Sprintf("Book %s was inserted successfully.", id),
	}, nil
}
