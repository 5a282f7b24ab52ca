package level

import "testing"

func TestTimersFireInTriggerOrderRegardlessOfScheduleOrder(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)

	var order []int
	lvl.scheduleTimer(30, 0, 0, func(l *Level, c *LevelCell) { order = append(order, 3) })
	lvl.scheduleTimer(10, 0, 0, func(l *Level, c *LevelCell) { order = append(order, 1) })
	lvl.scheduleTimer(20, 0, 0, func(l *Level, c *LevelCell) { order = append(order, 2) })

	lvl.ticks = 30
	lvl.runDueTimers()

	if len(order) != 3 {
		t.Fatalf("expected all three timers to fire, got %v", order)
	}
	for i, v := range order {
		if v != i+1 {
			t.Fatalf("expected timers to fire in trigger-tick order, got %v", order)
		}
	}
}

func TestTimersDoNotFireBeforeTheirTriggerTick(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)

	fired := false
	lvl.scheduleTimer(5, 0, 0, func(l *Level, c *LevelCell) { fired = true })

	lvl.ticks = 4
	lvl.runDueTimers()
	if fired {
		t.Fatal("timer fired one tick early")
	}

	lvl.ticks = 5
	lvl.runDueTimers()
	if !fired {
		t.Fatal("expected timer to fire once its trigger tick is reached")
	}
}

func TestTimerReceivesNilCellOutOfBounds(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)

	var gotCell *LevelCell
	var called bool
	lvl.scheduleTimer(1, -1, -1, func(l *Level, c *LevelCell) {
		called = true
		gotCell = c
	})

	lvl.ticks = 1
	lvl.runDueTimers()

	if !called {
		t.Fatal("expected out-of-bounds timer callback to still run")
	}
	if gotCell != nil {
		t.Error("expected nil cell for an out-of-bounds timer coordinate")
	}
}
