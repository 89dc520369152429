package persistence

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// nextDocumentNumber generates prefix + zero-padded suffix, one past the
// highest suffix already stored for that prefix. Counting rows instead would
// reissue a number after a delete and trip the unique index on the number
// column; that same index backstops concurrent generators.
func nextDocumentNumber(query *gorm.DB, column, prefix string) (string, error) {
	var last sql.NullString
	if err := query.Where(column+" LIKE ?", prefix+"%").
		Select("MAX(" + column + ")").
		Scan(&last).Error; err != nil {
		return "", err
	}

	seq := 0
	if last.Valid {
		if n, err := strconv.Atoi(strings.TrimPrefix(last.String, prefix)); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}
