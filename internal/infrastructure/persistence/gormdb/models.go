package gormdb

// BookModel GORM图书模型
// 设计说明:
// 1. 主键是外部编号(字符串),不使用自增ID
// 2. NumberOfPages可为NULL,NULL表示页数未知
type BookModel struct {
	ID            string `gorm:"primaryKey;size:64;comment:图书编号"`
	Title         string `gorm:"size:500;not null;comment:书名"`
	NumberOfPages *int   `gorm:"index;comment:页数"`
}

func (BookModel) TableName() string {
	return "books"
}

// AuthorModel GORM作者模型
// NameFolded 保存Unicode大小写折叠后的作者名,模糊查询只比较这一列
type AuthorModel struct {
	ID         string `gorm:"primaryKey;size:64;comment:作者编号"`
	Name       string `gorm:"size:300;not null;comment:作者名"`
	NameFolded string `gorm:"size:600;not null;default:'';comment:折叠后的作者名"`
}

func (AuthorModel) TableName() string {
	return "authors"
}

// WorkModel GORM作品模型
type WorkModel struct {
	ID          string `gorm:"primaryKey;size:64;comment:作品编号"`
	Title       string `gorm:"size:500;not null;comment:作品标题"`
	TitleFolded string `gorm:"size:1000;not null;default:'';comment:折叠后的作品标题"`
}

func (WorkModel) TableName() string {
	return "works"
}

// BookAuthorModel 图书-作者边
// 复合主键保证同一条边只存一份,author_id单独建索引用于孤儿判定
type BookAuthorModel struct {
	BookID   string `gorm:"primaryKey;size:64"`
	AuthorID string `gorm:"primaryKey;size:64;index"`
}

func (BookAuthorModel) TableName() string {
	return "book_authors"
}

// BookWorkModel 图书-作品边
type BookWorkModel struct {
	BookID string `gorm:"primaryKey;size:64"`
	WorkID string `gorm:"primaryKey;size:64;index"`
}

func (BookWorkModel) TableName() string {
	return "book_works"
}
