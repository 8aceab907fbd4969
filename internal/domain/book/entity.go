package book

import (
	"strings"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ID来自外部书目服务(如OL7353617M)或调用方,全局唯一
// 2. NumberOfPages为可选字段:nil表示"未知",与0页是两回事
// 3. 与作者/作品的多对多关系不放在实体里,由仓储的边表API维护
// 4. 标量字段创建后不可变
type Book struct {
	ID            string
	Title         string
	NumberOfPages *int
}

// NewBook 创建新图书(工厂方法)
// 业务规则:
// - id、title必填
// - 页数存在时必须>=0
func NewBook(id, title string, numberOfPages *int) (*Book, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(title) == "" {
		return nil, ErrMissingFields
	}
	if numberOfPages != nil && *numberOfPages < 0 {
		return nil, ErrInvalidPages
	}
	return &Book{
		ID:            id,
		Title:         title,
		NumberOfPages: numberOfPages,
	}, nil
}

// AuthorRef 视图中的作者条目
type AuthorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkRef 视图中的作品条目
type WorkRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// View 图书读模型
// Authors/Works总是完整列表,不是只包含命中查询条件的那部分
// number_of_pages为nil时不输出该字段
type View struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Authors       []AuthorRef `json:"authors"`
	Works         []WorkRef   `json:"works"`
	NumberOfPages *int        `json:"number_of_pages,omitempty"`
}

// Query 图书查询条件(各条件之间为AND)
// - AuthorName: 作者名子串,不区分大小写,空串表示不过滤
// - WorkTitle: 作品标题子串,不区分大小写,空串表示不过滤
// - MinPages: 页数下限(含),页数未知的图书永远不匹配
type Query struct {
	AuthorName string
	WorkTitle  string
	MinPages   *int
}

// IsEmpty 没有任何过滤条件
func (q Query) IsEmpty() bool {
	return q.AuthorName == "" && q.WorkTitle == "" && q.MinPages == nil
}
