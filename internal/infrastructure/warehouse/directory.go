// Package warehouse 仓库目录
// 仓库元数据由其他服务维护,这里只根据配置判断仓库ID是否有效
package warehouse

import (
	"context"
	"strings"

	"github.com/xiebiao/stockledger/internal/infrastructure/config"
)

// StaticDirectory 基于配置列表的仓库目录
// 列表为空时接受任意非空仓库ID
type StaticDirectory struct {
	ids map[string]struct{}
}

// NewStaticDirectory 创建仓库目录
func NewStaticDirectory(ids []string) *StaticDirectory {
	d := &StaticDirectory{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			d.ids[id] = struct{}{}
		}
	}
	return d
}

// NewDirectory 从配置创建
func NewDirectory(cfg *config.Config) *StaticDirectory {
	return NewStaticDirectory(cfg.Ledger.Warehouses)
}

// Exists 实现stock.WarehouseDirectory
func (d *StaticDirectory) Exists(_ context.Context, warehouseID string) (bool, error) {
	if warehouseID == "" {
		return false, nil
	}
	if len(d.ids) == 0 {
		return true, nil
	}
	_, ok := d.ids[warehouseID]
	return ok, nil
}
