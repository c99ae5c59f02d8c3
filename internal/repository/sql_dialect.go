package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// likeEscape LIKE 模式中的转义字符。
const likeEscape = "\\"

// escapeLike 转义用户输入中的 LIKE 通配符，使其按字面匹配。
func escapeLike(input string) string {
	replacer := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return replacer.Replace(input)
}

// buildLikeCondition 构建多列 OR LIKE 条件；json 列统一转为文本比较。
func buildLikeCondition(dialect string, plainColumns, jsonColumns []string) (string, int) {
	operator := likeOperatorByDialect(dialect)
	parts := make([]string, 0, len(plainColumns)+len(jsonColumns))
	for _, column := range plainColumns {
		if column = strings.TrimSpace(column); column != "" {
			parts = append(parts, fmt.Sprintf("%s %s ? ESCAPE '%s'", column, operator, likeEscape))
		}
	}
	for _, column := range jsonColumns {
		if column = strings.TrimSpace(column); column != "" {
			parts = append(parts, fmt.Sprintf("CAST(%s AS TEXT) %s ? ESCAPE '%s'", column, operator, likeEscape))
		}
	}
	if len(parts) == 0 {
		return "", 0
	}
	return "(" + strings.Join(parts, " OR ") + ")", len(parts)
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}

// IsUniqueViolation 判断是否唯一约束冲突（兼容 sqlite 与 postgres 的原始错误）。
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
