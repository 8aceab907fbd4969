package work

import (
	"strings"
)

// Work 作品实体(一部作品可以有多个版本,即多本Book)
type Work struct {
	ID    string
	Title string
}

// NewWork 创建作品,id和title必填
func NewWork(id, title string) (*Work, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(title) == "" {
		return nil, ErrMissingFields
	}
	return &Work{ID: id, Title: title}, nil
}
