package dto

import (
	"github.com/samber/lo"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// StoreOpenLibBooksRequest 批量导入请求
// codes缺失或不是字符串数组时绑定失败;空数组合法,返回空结果
type StoreOpenLibBooksRequest struct {
	Codes []string `json:"codes" binding:"required" example:"OL7353617M,OL26331930M"`
}

// StoreOpenLibBooksResponse 批量导入响应
// skipped_books每一项是 {编号: 原因}
type StoreOpenLibBooksResponse struct {
	AddedBooks   []string            `json:"added_books"`
	SkippedBooks []map[string]string `json:"skipped_books"`
}

// NewStoreOpenLibBooksResponse 应用层结果 → HTTP响应
func NewStoreOpenLibBooksResponse(result *appbook.StoreOpenLibBooksResponse) *StoreOpenLibBooksResponse {
	return &StoreOpenLibBooksResponse{
		AddedBooks: result.Added,
		SkippedBooks: lo.Map(result.Skipped, func(s appbook.SkippedBook, _ int) map[string]string {
			return map[string]string{s.Code: s.Reason}
		}),
	}
}

// AuthorPayload 录入请求中的作者
type AuthorPayload struct {
	ID   string `json:"id" example:"OL23919A"`
	Name string `json:"name" example:"J. K. Rowling"`
}

// WorkPayload 录入请求中的作品
type WorkPayload struct {
	ID    string `json:"id" example:"OL82563W"`
	Title string `json:"title" example:"Harry Potter and the Philosopher's Stone"`
}

// CreateBookRequest 直接录入请求
// authors/works字段缺失与空数组不同:缺失是错误,空数组合法
// 必填校验放在应用层,两种导入来源共用同一套规则
type CreateBookRequest struct {
	ID            string          `json:"id" example:"OL7353617M"`
	Title         string          `json:"title" example:"Fantastic Mr. Fox"`
	NumberOfPages *int            `json:"number_of_pages" example:"96"`
	Authors       []AuthorPayload `json:"authors"`
	Works         []WorkPayload   `json:"works"`
}

// ToUseCase HTTP请求 → 应用层请求
func (r *CreateBookRequest) ToUseCase() appbook.CreateBookRequest {
	req := appbook.CreateBookRequest{
		ID:            r.ID,
		Title:         r.Title,
		NumberOfPages: r.NumberOfPages,
	}
	if r.Authors != nil {
		req.Authors = lo.Map(r.Authors, func(a AuthorPayload, _ int) appbook.RawAuthor {
			return appbook.RawAuthor{ID: a.ID, Name: a.Name}
		})
	}
	if r.Works != nil {
		req.Works = lo.Map(r.Works, func(w WorkPayload, _ int) appbook.RawWork {
			return appbook.RawWork{ID: w.ID, Title: w.Title}
		})
	}
	return req
}

// CreateBookResponse 录入响应
type CreateBookResponse struct {
	ID      string `json:"id" example:"OL7353617M"`
	Success string `json:"success" example:"Book OL7353617M was inserted successfully."`
}

// SearchBooksRequest 条件查询参数,至少需要一个
type SearchBooksRequest struct {
	Author   string `form:"author" example:"rowling"`
	Work     string `form:"work" example:"potter"`
	MinPages *int   `form:"min_pages" binding:"omitempty,min=0" example:"100"`
}

// IsEmpty 没有任何查询参数
func (r *SearchBooksRequest) IsEmpty() bool {
	return r.Author == "" && r.Work == "" && r.MinPages == nil
}

// AuthorItem 图书视图中的作者
type AuthorItem struct {
	ID   string `json:"id" example:"OL23919A"`
	Name string `json:"name" example:"J. K. Rowling"`
}

// WorkItem 图书视图中的作品
type WorkItem struct {
	ID    string `json:"id" example:"OL82563W"`
	Title string `json:"title" example:"Harry Potter and the Philosopher's Stone"`
}

// BookItem 图书视图
// 页数未知时不输出number_of_pages
type BookItem struct {
	ID            string       `json:"id" example:"OL7353617M"`
	Title         string       `json:"title" example:"Fantastic Mr. Fox"`
	Authors       []AuthorItem `json:"authors"`
	Works         []WorkItem   `json:"works"`
	NumberOfPages *int         `json:"number_of_pages,omitempty" example:"96"`
}

// BookListResponse 列表/查询响应
type BookListResponse struct {
	Books []BookItem `json:"books"`
}

// NewBookListResponse 领域视图 → HTTP响应,结果为空时books为[]而不是null
func NewBookListResponse(views []book.View) *BookListResponse {
	return &BookListResponse{
		Books: lo.Map(views, func(v book.View, _ int) BookItem {
			return BookItem{
				ID:    v.ID,
				Title: v.Title,
				Authors: lo.Map(v.Authors, func(a book.AuthorRef, _ int) AuthorItem {
					return AuthorItem{ID: a.ID, Name: a.Name}
				}),
				Works: lo.Map(v.Works, func(w book.WorkRef, _ int) WorkItem {
					return WorkItem{ID: w.ID, Title: w.Title}
				}),
				NumberOfPages: v.NumberOfPages,
			}
		}),
	}
}

// DeleteBookResponse 删除响应
type DeleteBookResponse struct {
	ID                 string   `json:"id" example:"OL7353617M"`
	Success            string   `json:"success" example:"Book OL7353617M was deleted successfully."`
	CollectedAuthorIDs []string `json:"collected_author_ids"`
	CollectedWorkIDs   []string `json:"collected_work_ids"`
}
