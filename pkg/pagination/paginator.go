// Package pagination 将有序结果集切分为固定大小的页。
//
// 数据源只需提供总数与窗口查询，分页时不会加载完整结果集。
package pagination

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Source 有序结果集
type Source[T any] interface {
	Count(ctx context.Context) (int64, error)
	Slice(ctx context.Context, offset, limit int) ([]T, error)
}

// Page 一页数据及分页元信息
type Page[T any] struct {
	Items       []T   `json:"items"`
	Number      int   `json:"page_number"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ParsePageNumber 解析 page 参数：缺省、非数字或小于 1 时返回 1；
// 溢出 int 的正数返回 math.MaxInt。
// 超出末页的情况需要知道总数，由 Paginate 处理。
func ParsePageNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return math.MaxInt
	}
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TotalPages 至少为 1，空结果集也有一页
func TotalPages(count int64, pageSize int) int {
	if count <= 0 {
		return 1
	}
	return int((count + int64(pageSize) - 1) / int64(pageSize))
}

// Paginate 取第 rawPage 页；页码超过末页时返回末页
func Paginate[T any](ctx context.Context, src Source[T], pageSize int, rawPage string) (*Page[T], error) {
	if pageSize < 1 {
		pageSize = 1
	}
	count, err := src.Count(ctx)
	if err != nil {
		return nil, err
	}
	total := TotalPages(count, pageSize)
	number := ParsePageNumber(rawPage)
	if number > total {
		number = total
	}

	items := []T{}
	if count > 0 {
		items, err = src.Slice(ctx, (number-1)*pageSize, pageSize)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
	}

	return &Page[T]{
		Items:       items,
		Number:      number,
		TotalPages:  total,
		TotalCount:  count,
		HasNext:     number < total,
		HasPrevious: number > 1,
	}, nil
}

// SliceSource 将内存中已排序的切片适配为 Source
type SliceSource[T any] []T

func (s SliceSource[T]) Count(context.Context) (int64, error) { return int64(len(s)), nil }

func (s SliceSource[T]) Slice(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	return s[offset:end], nil
}
