package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/liuzl/gocc"
)

var (
	t2sOnce sync.Once
	t2s     *gocc.OpenCC
)

// NormalizeHashtag 统一话题写法：去掉 #、转小写、繁体转简体
func NormalizeHashtag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimLeft(tag, "#")
	tag = strings.Trim(tag, ".,，。!?！？")
	tag = strings.ToLower(tag)
	if tag == "" {
		return ""
	}

	t2sOnce.Do(func() {
		cc, err := gocc.New("t2s")
		if err == nil {
			t2s = cc
		}
	})
	if t2s == nil {
		return tag
	}
	out, err := t2s.Convert(tag)
	if err != nil {
		return tag
	}
	return out
}

// FormatDuration 秒数转 m:ss
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// HashIP 对客户端 IP 加盐哈希，日志与风控只保存哈希值
func HashIP(ip, salt string) string {
	sum := sha256.Sum256([]byte(salt + "|" + ip))
	return hex.EncodeToString(sum[:])
}

// StrSliceToUInt64Slice 字符串切片转 uint64 切片
func StrSliceToUInt64Slice(strs []string) ([]uint64, error) {
	out := make([]uint64, 0, len(strs))
	for _, s := range strs {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FormatUint uint64 转十进制字符串
func FormatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
