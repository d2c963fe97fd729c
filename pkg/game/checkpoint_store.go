package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Checkpoint 运行检查点
// 每波开始时保存，重启后可以从该波继续
type Checkpoint struct {
	Level int     `yaml:"level"`
	Score int     `yaml:"score"`
	Lives int     `yaml:"lives"`
	Seed  int64   `yaml:"seed"`
	Armor float64 `yaml:"armor"`
}

// 存储路径常量
const (
	checkpointObject   = "run"
	checkpointProperty = "checkpoint"
)

// CheckpointStore 检查点存储
// gdataManager 为 nil 时进入降级模式：只在内存中保留最近一次检查点
type CheckpointStore struct {
	gdataManager *gdata.Manager
	last         *Checkpoint
}

// NewCheckpointStore 创建检查点存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil
func NewCheckpointStore(gdataManager *gdata.Manager) *CheckpointStore {
	return &CheckpointStore{gdataManager: gdataManager}
}

// OpenCheckpointStore 以应用名打开 gdata 存储
// 打开失败时返回降级模式的存储和错误，调用方可以只记录日志继续运行
func OpenCheckpointStore(appName string) (*CheckpointStore, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewCheckpointStore(nil), fmt.Errorf("failed to open checkpoint storage: %w", err)
	}
	return NewCheckpointStore(manager), nil
}

// Save 保存检查点
func (cs *CheckpointStore) Save(cp Checkpoint) error {
	saved := cp
	cs.last = &saved

	// 降级模式：无法持久化，但不报错
	if cs.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(&cp)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	if err := cs.gdataManager.SaveObjectProp(checkpointObject, checkpointProperty, data); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	log.Printf("[CheckpointStore] Saved checkpoint: level=%d score=%d lives=%d", cp.Level, cp.Score, cp.Lives)
	return nil
}

// Load 读取检查点
// 不存在时返回 (nil, nil)
func (cs *CheckpointStore) Load() (*Checkpoint, error) {
	if cs.gdataManager == nil {
		if cs.last == nil {
			return nil, nil
		}
		cp := *cs.last
		return &cp, nil
	}

	if !cs.gdataManager.ObjectPropExists(checkpointObject, checkpointProperty) {
		return nil, nil
	}

	data, err := cs.gdataManager.LoadObjectProp(checkpointObject, checkpointProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := yaml.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	return &cp, nil
}

// Clear 删除检查点（游戏结束后调用）
func (cs *CheckpointStore) Clear() error {
	cs.last = nil
	if cs.gdataManager == nil {
		return nil
	}
	if !cs.gdataManager.ObjectPropExists(checkpointObject, checkpointProperty) {
		return nil
	}
	if err := cs.gdataManager.DeleteObjectProp(checkpointObject, checkpointProperty); err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}
