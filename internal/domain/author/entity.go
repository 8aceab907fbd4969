package author

import (
	"strings"
)

// Author 作者实体
// ID是自然键(外部书目服务的作者编号,如OL23919A)
// 名称创建后不可变:再次导入同一作者时沿用已有记录
type Author struct {
	ID   string
	Name string
}

// NewAuthor 创建作者,id和name必填
func NewAuthor(id, name string) (*Author, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" {
		return nil, ErrMissingFields
	}
	return &Author{ID: id, Name: name}, nil
}
