package kafka

import (
	"fmt"
	"strconv"
)

// Canal 事件类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// CanalMessage Canal 推送到 Kafka 的 flat message
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`

	// Data 变更后的行
	Data []map[string]interface{} `json:"data"`

	// Old 变更前的字段
	Old []map[string]interface{} `json:"old"`
}

// rowUint64 读取行内数字列，canal 默认以字符串输出
func rowUint64(row map[string]interface{}, column string) (uint64, error) {
	switch v := row[column].(type) {
	case string:
		return strconv.ParseUint(v, 10, 64)
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("column %s is negative", column)
		}
		return uint64(v), nil
	case nil:
		return 0, fmt.Errorf("column %s missing", column)
	default:
		return 0, fmt.Errorf("column %s has unexpected type %T", column, v)
	}
}
