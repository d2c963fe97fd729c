package game

import "testing"

type recordingListener struct {
	events []Event
}

func (r *recordingListener) OnEvent(e Event) {
	r.events = append(r.events, e)
}

func TestDispatcherSubscribeAndDispatch(t *testing.T) {
	d := NewDispatcher()
	deaths := &recordingListener{}
	scores := &recordingListener{}

	d.Subscribe(EventEnemyDeath, deaths)
	d.Subscribe(EventScoreDelta, scores)

	d.Dispatch(Event{Type: EventEnemyDeath, Data: EnemyDeath{EnemyID: 7, KilledByPlayer: true, Cause: CauseFire}})
	d.Dispatch(Event{Type: EventScoreDelta, Data: ScoreDelta{Amount: 10}})
	d.Dispatch(Event{Type: EventNarrative, Data: Narrative{Text: "Level 2"}})

	if len(deaths.events) != 1 {
		t.Fatalf("expected 1 death event, got %d", len(deaths.events))
	}
	death := deaths.events[0].Data.(EnemyDeath)
	if death.EnemyID != 7 || !death.KilledByPlayer {
		t.Errorf("unexpected death payload %+v", death)
	}
	if len(scores.events) != 1 {
		t.Errorf("expected 1 score event, got %d", len(scores.events))
	}
}

func TestDispatcherUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	l := &recordingListener{}
	d.Subscribe(EventLootRoll, l)
	d.Unsubscribe(EventLootRoll, l)
	d.Dispatch(Event{Type: EventLootRoll})

	if len(l.events) != 0 {
		t.Errorf("unsubscribed listener received %d events", len(l.events))
	}

	// 未订阅过的类型取消订阅为空操作
	d.Unsubscribe(EventGameOver, l)
}

func TestDispatcherSubscribeFunc(t *testing.T) {
	d := NewDispatcher()
	got := 0
	d.SubscribeFunc(EventWavePlanned, func(e Event) { got++ })
	d.Dispatch(Event{Type: EventWavePlanned})
	d.Dispatch(Event{Type: EventWavePlanned})
	if got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}
