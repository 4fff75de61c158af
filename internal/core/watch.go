package core

import (
	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/seckatie/urlrota/internal/logger"
)

// WatchStore registers listeners that log every store change and count it
// in urlrota_store_events_total. Call it before the store is shared.
func WatchStore(store *db.DB, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	listener := func(event db.Event) error {
		storeEventsTotal.WithLabelValues(event.Kind().String()).Inc()

		switch ev := event.(type) {
		case db.URLAddedEvent:
			log.Debug("url added",
				logger.Int64("url_id", ev.URL.ID),
				logger.String("url", ev.URL.URL),
				logger.String("domain", ev.URL.Domain))
		case db.URLDeletedEvent:
			log.Info("url deleted", logger.Int64("url_id", ev.ID))
		case db.URLsClearedEvent:
			log.Info("urls cleared", logger.Int64("count", ev.Count))
		case db.HistoryRecordedEvent:
			log.Debug("open recorded",
				logger.Int64("url_id", ev.Entry.URLID),
				logger.Int64("browser_id", ev.Entry.BrowserID),
				logger.String("opened_at", ev.Entry.OpenedAt))
		}
		return nil
	}

	for _, kind := range []db.EventKind{
		db.OnURLAddedEvent,
		db.OnURLDeletedEvent,
		db.OnURLsClearedEvent,
		db.OnHistoryRecordedEvent,
	} {
		store.RegisterEventListener(kind, listener)
	}
}
