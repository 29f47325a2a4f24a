package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const maxListPageSize = 100

const sqliteTimeLayout = "2006-01-02 15:04:05.000"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// findPage 先统计总数，再按排序取当前页
// pageSize <= 0 时返回全部
func findPage(query *gorm.DB, page, pageSize int, order string, dest interface{}) (int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	if pageSize > 0 {
		if pageSize > maxListPageSize {
			pageSize = maxListPageSize
		}
		if page < 1 {
			page = 1
		}
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}
	if order != "" {
		query = query.Order(order)
	}
	return total, query.Find(dest).Error
}

// keywordFilter 多列模糊匹配，postgres 下忽略大小写
// 关键字中的 % _ 按字面匹配
func keywordFilter(query *gorm.DB, keyword string, columns ...string) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(columns) == 0 {
		return query
	}
	operator := "LIKE"
	if isPostgres(query) {
		operator = "ILIKE"
	}
	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, column+" "+operator+` ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return query.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func isPostgres(db *gorm.DB) bool {
	if db == nil || db.Dialector == nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(db.Dialector.Name()), "postgres")
}

// timeBound 按时刻比较时间列，op 取 >= > <= <
// sqlite 将时间存为带偏移的文本，需经 julianday 归一后比较
func timeBound(query *gorm.DB, column, op string, at time.Time) *gorm.DB {
	if isPostgres(query) {
		return query.Where(column+" "+op+" ?", at.UTC())
	}
	return query.Where("julianday("+column+") "+op+" julianday(?)", at.UTC().Format(sqliteTimeLayout))
}

// timeWindow 半开区间 [start, end)
func timeWindow(query *gorm.DB, column string, start, end time.Time) *gorm.DB {
	return timeBound(timeBound(query, column, ">=", start), column, "<", end)
}
