package db

import "github.com/seckatie/urlrota/internal/logger"

// ------------------------------
// Event System
// ------------------------------
//
// The DB emits typed events when URLs are added, deleted or cleared and when
// an open is recorded. Register listeners to react to these changes.
//
// Example usage:
//
//	db.RegisterEventListener(db.OnHistoryRecordedEvent, func(event db.Event) error {
//	    ev := event.(db.HistoryRecordedEvent)
//	    log.Printf("url %d opened", ev.Entry.URLID)
//	    return nil
//	})
//
// Event is the common interface for all database events.
type Event interface {
	Kind() EventKind
}

// EventKind represents all the kinds of events that can be emitted by the DB.
type EventKind int

const (
	// OnURLAddedEvent is emitted when a URL row is inserted.
	OnURLAddedEvent EventKind = iota
	// OnURLDeletedEvent is emitted when a single URL is deleted.
	OnURLDeletedEvent
	// OnURLsClearedEvent is emitted when all URLs are deleted.
	OnURLsClearedEvent
	// OnHistoryRecordedEvent is emitted when an open is appended to the history.
	OnHistoryRecordedEvent
)

func (k EventKind) String() string {
	switch k {
	case OnURLAddedEvent:
		return "url_added"
	case OnURLDeletedEvent:
		return "url_deleted"
	case OnURLsClearedEvent:
		return "urls_cleared"
	case OnHistoryRecordedEvent:
		return "history_recorded"
	default:
		return "unknown"
	}
}

// URLAddedEvent is emitted after a new URL is inserted.
type URLAddedEvent struct {
	URL URLRecord
}

func (e URLAddedEvent) Kind() EventKind { return OnURLAddedEvent }

// URLDeletedEvent is emitted after a URL is deleted.
type URLDeletedEvent struct {
	ID int64
}

func (e URLDeletedEvent) Kind() EventKind { return OnURLDeletedEvent }

// URLsClearedEvent is emitted after every URL has been deleted.
type URLsClearedEvent struct {
	Count int64
}

func (e URLsClearedEvent) Kind() EventKind { return OnURLsClearedEvent }

// HistoryRecordedEvent is emitted after an open-history row is written.
type HistoryRecordedEvent struct {
	Entry HistoryEntry
}

func (e HistoryRecordedEvent) Kind() EventKind { return OnHistoryRecordedEvent }

// EventListener is a callback that handles events of a specific kind.
type EventListener func(event Event) error

// RegisterEventListener adds a listener for a specific event kind.
// Listeners are called synchronously in registration order after the DB operation succeeds.
// Register listeners before the DB is shared with other goroutines.
func (db *DB) RegisterEventListener(eventKind EventKind, listener EventListener) {
	if db.eventListeners == nil {
		db.eventListeners = make(map[EventKind][]EventListener)
	}
	db.eventListeners[eventKind] = append(db.eventListeners[eventKind], listener)
}

// emit dispatches an event to all registered listeners for that event kind.
func (db *DB) emit(event Event) {
	for _, listener := range db.eventListeners[event.Kind()] {
		if err := listener(event); err != nil {
			db.log.Warn("event listener failed",
				logger.String("event", event.Kind().String()),
				logger.Error(err))
		}
	}
}
