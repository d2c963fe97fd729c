package game

import "testing"

func TestSchedulerRunsInOrder(t *testing.T) {
	s := NewScheduler(nil)
	var order []int

	s.Schedule(OwnerWave(1), 300, func() { order = append(order, 3) })
	s.Schedule(OwnerWave(1), 100, func() { order = append(order, 1) })
	s.Schedule(OwnerWave(1), 200, func() { order = append(order, 2) })
	// 同时到期按注册顺序
	s.Schedule(OwnerWave(1), 200, func() { order = append(order, 22) })

	s.Advance(150)
	if len(order) != 1 || order[0] != 1 {
		t.Fatalf("after 150ms expected [1], got %v", order)
	}
	s.Advance(200)
	expected := []int{1, 2, 22, 3}
	if len(order) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("order[%d]: expected %d, got %d", i, expected[i], order[i])
		}
	}
	if s.Pending() != 0 {
		t.Errorf("Pending: expected 0, got %d", s.Pending())
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler(nil)
	fired := false
	id := s.Schedule(OwnerEffect(1), 100, func() { fired = true })

	if !s.Cancel(id) {
		t.Fatal("Cancel should succeed for pending task")
	}
	if s.Cancel(id) {
		t.Error("second Cancel should be a no-op")
	}
	s.Advance(500)
	if fired {
		t.Error("canceled task should not run")
	}
}

func TestSchedulerCancelOwner(t *testing.T) {
	s := NewScheduler(nil)
	count := map[Owner]int{}

	for i := 0; i < 5; i++ {
		s.Schedule(OwnerWave(1), float64(i*10), func() { count[OwnerWave(1)]++ })
		s.Schedule(OwnerWave(2), float64(i*10), func() { count[OwnerWave(2)]++ })
	}

	if n := s.CancelOwner(OwnerWave(1)); n != 5 {
		t.Errorf("CancelOwner: expected 5 canceled, got %d", n)
	}
	if s.PendingOwner(OwnerWave(2)) != 5 {
		t.Errorf("PendingOwner(wave#2): expected 5, got %d", s.PendingOwner(OwnerWave(2)))
	}
	s.Advance(100)

	if count[OwnerWave(1)] != 0 {
		t.Errorf("wave#1 tasks should be canceled, %d ran", count[OwnerWave(1)])
	}
	if count[OwnerWave(2)] != 5 {
		t.Errorf("wave#2 tasks should all run, %d ran", count[OwnerWave(2)])
	}
}

func TestSchedulerCancelAll(t *testing.T) {
	s := NewScheduler(nil)
	ran := 0
	s.Schedule(OwnerWave(1), 10, func() { ran++ })
	s.Schedule(OwnerEffect(3), 10, func() { ran++ })
	s.Schedule(OwnerHazard(9), 10, func() { ran++ })

	if n := s.CancelAll(); n != 3 {
		t.Errorf("CancelAll: expected 3, got %d", n)
	}
	s.Advance(100)
	if ran != 0 {
		t.Errorf("no task should run after CancelAll, %d ran", ran)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending: expected 0, got %d", s.Pending())
	}
}

// TestSchedulerPauseReschedules 测试暂停时任务推迟而不是执行
func TestSchedulerPauseReschedules(t *testing.T) {
	paused := false
	s := NewScheduler(func() bool { return paused })
	s.SetRepollInterval(20)

	ran := 0
	s.Schedule(OwnerWave(1), 100, func() { ran++ })

	paused = true
	s.Advance(150)
	if ran != 0 {
		t.Fatal("task ran while paused")
	}
	if s.Pending() != 1 {
		t.Fatalf("paused task should remain pending, got %d", s.Pending())
	}

	// 快速切换暂停状态，任务只执行一次
	for i := 0; i < 10; i++ {
		paused = i%2 == 0
		s.Advance(5)
	}
	paused = false
	s.Advance(100)
	s.Advance(100)

	if ran != 1 {
		t.Errorf("task should run exactly once after resume, ran %d times", ran)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending: expected 0, got %d", s.Pending())
	}
}

func TestSchedulerNestedSchedule(t *testing.T) {
	s := NewScheduler(nil)
	var order []string

	s.Schedule(testSystemOwner(), 10, func() {
		order = append(order, "outer")
		s.Schedule(testSystemOwner(), 0, func() { order = append(order, "inner") })
	})
	s.Advance(10)

	if len(order) != 2 || order[1] != "inner" {
		t.Errorf("zero-delay task scheduled from a task should run in the same Advance, got %v", order)
	}
}

// testSystemOwner 测试用系统归属
func testSystemOwner() Owner {
	return Owner{Kind: OwnerKindSystem, ID: 1}
}
