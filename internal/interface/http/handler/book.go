package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// 对外错误提示
const (
	msgInvalidCodes  = "Invalid code list provided."
	msgNoQueryParams = "At least one query parameter is required."
	msgMissingFields = "Missing required fields in the request data."
	msgInvalidPages  = "min_pages must be a non-negative integer."
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	storeOpenLibBooksUseCase *appbook.StoreOpenLibBooksUseCase
	listBooksUseCase         *appbook.ListBooksUseCase
	searchBooksUseCase       *appbook.SearchBooksUseCase
	createBookUseCase        *appbook.CreateBookUseCase
	deleteBookUseCase        *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	storeOpenLibBooksUseCase *appbook.StoreOpenLibBooksUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	searchBooksUseCase *appbook.SearchBooksUseCase,
	createBookUseCase *appbook.CreateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		storeOpenLibBooksUseCase: storeOpenLibBooksUseCase,
		listBooksUseCase:         listBooksUseCase,
		searchBooksUseCase:       searchBooksUseCase,
		createBookUseCase:        createBookUseCase,
		deleteBookUseCase:        deleteBookUseCase,
	}
}

// StoreOpenLibBooks 从OpenLibrary批量导入
// @Summary      批量导入OpenLibrary图书
// @Description  逐个抓取版本编号并入库,失败的编号记入skipped_books,请求本身总是成功
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.StoreOpenLibBooksRequest true "OpenLibrary版本编号"
// @Success      200 {object} response.Response{data=dto.StoreOpenLibBooksResponse}
// @Failure      400 {object} response.Response "编号列表无效"
// @Router       /store_openlib_books [post]
func (h *BookHandler) StoreOpenLibBooks(c *gin.Context) {
	var req dto.StoreOpenLibBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, msgInvalidCodes)
		return
	}

	result := h.storeOpenLibBooksUseCase.Execute(c.Request.Context(), appbook.StoreOpenLibBooksRequest{
		Codes: req.Codes,
	})

	response.Success(c, dto.NewStoreOpenLibBooksResponse(result))
}

// ListBooks 查询全部图书
// @Summary      图书列表
// @Description  返回所有图书及其完整的作者、作品列表
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=dto.BookListResponse}
// @Failure      500 {object} response.Response "存储错误"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	result, err := h.listBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookListResponse(result.Books))
}

// SearchBooks 条件查询
// @Summary      条件查询图书
// @Description  author/work为不区分大小写的子串匹配,min_pages为页数下限(含),条件之间为AND
// @Tags         图书
// @Produce      json
// @Param        author    query string false "作者名子串"
// @Param        work      query string false "作品标题子串"
// @Param        min_pages query int    false "最少页数"
// @Success      200 {object} response.Response{data=dto.BookListResponse}
// @Failure      400 {object} response.Response "缺少查询参数或参数非法"
// @Failure      500 {object} response.Response "存储错误"
// @Router       /books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	var req dto.SearchBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidPages, msgInvalidPages)
		return
	}
	if req.IsEmpty() {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, msgNoQueryParams)
		return
	}

	result, err := h.searchBooksUseCase.Execute(c.Request.Context(), appbook.SearchBooksRequest{
		Author:   req.Author,
		Work:     req.Work,
		MinPages: req.MinPages,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookListResponse(result.Books))
}

// CreateBook 直接录入一本书
// @Summary      录入图书
// @Description  作者/作品按ID解析,已存在的沿用库中记录
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.CreateBookResponse}
// @Failure      400 {object} response.Response "缺少必填字段"
// @Failure      409 {object} response.Response "图书已存在"
// @Failure      500 {object} response.Response "存储错误"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeMissingFields, msgMissingFields)
		return
	}

	result, err := h.createBookUseCase.Execute(c.Request.Context(), req.ToUseCase())
	if err != nil {
		if errors.Is(err, book.ErrMissingFields) {
			response.ErrorWithCode(c, apperrors.ErrCodeMissingFields, msgMissingFields)
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CreateBookResponse{
		ID:      result.ID,
		Success: result.Message,
	})
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  删除图书及其边,不再关联任何图书的作者和作品一并删除
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.DeleteBookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      500 {object} response.Response "存储错误"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	result, err := h.deleteBookUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.DeleteBookResponse{
		ID:                 result.ID,
		Success:            result.Message,
		CollectedAuthorIDs: result.CollectedAuthorIDs,
		CollectedWorkIDs:   result.CollectedWorkIDs,
	})
}
