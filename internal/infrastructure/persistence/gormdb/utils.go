package gormdb

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// 开启TranslateError后三种方言都会返回gorm.ErrDuplicatedKey,
// 字符串匹配兜底:
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// foldCase Unicode大小写折叠,写入折叠列和构造查询模式共用同一实现,
// 不依赖数据库LOWER()对非ASCII字符的支持
// Caser有内部状态,每次调用新建
func foldCase(s string) string {
	return cases.Fold().String(s)
}

// likePattern 把用户输入转成LIKE子串模式,用'!'转义通配符
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(foldCase(s)) + "%"
}
