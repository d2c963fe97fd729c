package game

import (
	"container/heap"
	"fmt"
)

// defaultRepollMs 暂停时到期任务的重新检查间隔
const defaultRepollMs = 50

// OwnerKind 任务归属类别
type OwnerKind int

const (
	// OwnerKindWave 波次刷怪任务
	OwnerKindWave OwnerKind = iota
	// OwnerKindEffect 技能/效果持续时间任务
	OwnerKindEffect
	// OwnerKindHazard 区域危害过期任务
	OwnerKindHazard
	// OwnerKindSystem 其他系统任务
	OwnerKindSystem
)

// Owner 任务归属键，用于批量取消
type Owner struct {
	Kind OwnerKind
	ID   uint64
}

// String 便于日志输出
func (o Owner) String() string {
	switch o.Kind {
	case OwnerKindWave:
		return fmt.Sprintf("wave#%d", o.ID)
	case OwnerKindEffect:
		return fmt.Sprintf("effect#%d", o.ID)
	case OwnerKindHazard:
		return fmt.Sprintf("hazard#%d", o.ID)
	default:
		return fmt.Sprintf("system#%d", o.ID)
	}
}

// OwnerWave 波次归属
func OwnerWave(id uint64) Owner { return Owner{Kind: OwnerKindWave, ID: id} }

// OwnerEffect 效果归属
func OwnerEffect(id uint64) Owner { return Owner{Kind: OwnerKindEffect, ID: id} }

// OwnerHazard 危害归属
func OwnerHazard(id uint64) Owner { return Owner{Kind: OwnerKindHazard, ID: id} }

// TaskID 任务标识
type TaskID uint64

// task 定时任务
type task struct {
	id       TaskID
	owner    Owner
	due      float64 // 到期时间（毫秒）
	seq      uint64  // 同时到期时按注册顺序执行
	fn       func()
	canceled bool
	index    int
}

// taskHeap 按 (due, seq) 排序的最小堆
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Scheduler 可取消的定时任务调度器
//
// 所有延迟刷怪、效果持续时间、危害过期都通过它注册。
// 每个到期任务在执行前检查共享的暂停标志：暂停时任务不执行，
// 只是把自己推迟 repollMs 后再检查，因此反复暂停/恢复不会重复执行或丢失任务。
//
// 单线程使用，不加锁。
type Scheduler struct {
	now      float64
	nextID   TaskID
	seq      uint64
	queue    taskHeap
	byID     map[TaskID]*task
	paused   func() bool
	repollMs float64
}

// NewScheduler 创建调度器
// 参数:
//
//	paused - 共享暂停标志，可为 nil（永不暂停）
func NewScheduler(paused func() bool) *Scheduler {
	return &Scheduler{
		nextID:   1,
		byID:     make(map[TaskID]*task),
		paused:   paused,
		repollMs: defaultRepollMs,
	}
}

// SetRepollInterval 设置暂停时的重新检查间隔（毫秒）
func (s *Scheduler) SetRepollInterval(ms float64) {
	if ms > 0 {
		s.repollMs = ms
	}
}

// Now 调度器当前时间（毫秒）
func (s *Scheduler) Now() float64 {
	return s.now
}

// Schedule 注册一个 delayMs 后执行的任务
// delayMs <= 0 的任务在下一次 Advance 中执行
func (s *Scheduler) Schedule(owner Owner, delayMs float64, fn func()) TaskID {
	if delayMs < 0 {
		delayMs = 0
	}
	id := s.nextID
	s.nextID++
	s.seq++
	t := &task{id: id, owner: owner, due: s.now + delayMs, seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	s.byID[id] = t
	return id
}

// Cancel 取消单个任务
// 任务已执行或已取消时返回 false
func (s *Scheduler) Cancel(id TaskID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	t.canceled = true
	delete(s.byID, id)
	return true
}

// CancelOwner 取消某个归属下的全部任务
// 返回被取消的任务数
func (s *Scheduler) CancelOwner(owner Owner) int {
	n := 0
	for id, t := range s.byID {
		if t.owner == owner {
			t.canceled = true
			delete(s.byID, id)
			n++
		}
	}
	return n
}

// CancelAll 取消全部任务（波次重置、游戏结束）
func (s *Scheduler) CancelAll() int {
	n := len(s.byID)
	for _, t := range s.byID {
		t.canceled = true
	}
	s.byID = make(map[TaskID]*task)
	s.queue = s.queue[:0]
	return n
}

// Pending 未执行且未取消的任务数
func (s *Scheduler) Pending() int {
	return len(s.byID)
}

// PendingOwner 某个归属下的待执行任务数
func (s *Scheduler) PendingOwner(owner Owner) int {
	n := 0
	for _, t := range s.byID {
		if t.owner == owner {
			n++
		}
	}
	return n
}

// Advance 推进时间并执行所有到期任务
// 任务内部可以注册新任务；delay 为 0 的新任务在本次 Advance 中执行
func (s *Scheduler) Advance(dtMs float64) {
	if dtMs > 0 {
		s.now += dtMs
	}
	for s.queue.Len() > 0 {
		t := s.queue[0]
		if t.due > s.now {
			return
		}
		heap.Pop(&s.queue)
		if t.canceled {
			continue
		}
		if s.paused != nil && s.paused() {
			// 暂停：推迟自身，不推进状态
			s.seq++
			t.due = s.now + s.repollMs
			t.seq = s.seq
			heap.Push(&s.queue, t)
			continue
		}
		delete(s.byID, t.id)
		t.fn()
	}
}
