package backup

import (
	"encoding/json"
	"os"
	"sort"
)

// 目录账本：备份目录旁的JSON数组文件，每次备份尝试追加一条记录（无论成败）。
// 账本是全部备份尝试的权威历史；保留策略清理只删除产物，不修剪账本，
// 因此账本是"当前可恢复备份"的超集——被清理的备份仍会出现在列表里。

// appendRecords 追加记录到账本
func (m *Manager) appendRecords(records []Record) error {
	existing, err := m.readCatalog()
	if err != nil {
		return err
	}

	existing = append(existing, records...)

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.catalogPath, data, 0644)
}

// readCatalog 读取账本全部记录
func (m *Manager) readCatalog() ([]Record, error) {
	data, err := os.ReadFile(m.catalogPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListBackups 列出全部备份记录，按时间倒序
// 完全来源于账本文件，不扫描目录
func (m *Manager) ListBackups() ([]Record, error) {
	records, err := m.readCatalog()
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}
