package docstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// subscriberHub tracks live snapshot subscriptions per collection. Writes
// notify it, and it re-runs each affected query to deliver a complete
// replacement snapshot (never a delta).
type subscriberHub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	id    int
	query Query
	fn    SnapshotFunc

	mu       sync.Mutex // serializes delivery against disposal
	disposed bool
}

func newSubscriberHub() *subscriberHub {
	return &subscriberHub{subs: make(map[int]*subscription)}
}

// subscribe registers a listener and synchronously delivers the initial
// snapshot. The returned disposer unregisters exactly once; no delivery
// happens after Dispose returns.
func (h *subscriberHub) subscribe(store *SQLStore, q Query, fn SnapshotFunc) (Disposer, error) {
	h.mu.Lock()
	h.nextID++
	sub := &subscription{id: h.nextID, query: q, fn: fn}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	h.deliver(store, sub)

	d := &disposer{hub: h, sub: sub}
	return d, nil
}

// notify re-queries and redelivers every subscription watching a collection.
func (h *subscriberHub) notify(store *SQLStore, collection string) {
	h.mu.RLock()
	affected := make([]*subscription, 0)
	for _, sub := range h.subs {
		if sub.query.Collection == collection {
			affected = append(affected, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range affected {
		h.deliver(store, sub)
	}
}

// deliver runs one subscription's query and invokes its callback while the
// subscription is still registered. A failed requery surfaces as
// ErrFetchFailed with a nil document set; the consumer keeps its prior data.
func (h *subscriberHub) deliver(store *SQLStore, sub *subscription) {
	docs, err := store.Query(context.Background(), sub.query)

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.disposed {
		return
	}

	if err != nil {
		sub.fn(nil, err)
		return
	}
	sub.fn(docs, nil)
}

type disposer struct {
	hub  *subscriberHub
	sub  *subscription
	once sync.Once
}

// Dispose must not be called from inside the subscription callback.
func (d *disposer) Dispose() {
	d.once.Do(func() {
		d.sub.mu.Lock()
		d.sub.disposed = true
		d.sub.mu.Unlock()

		d.hub.mu.Lock()
		delete(d.hub.subs, d.sub.id)
		d.hub.mu.Unlock()
	})
}

// matches evaluates a query's predicates against one document.
func matches(doc Document, q Query) bool {
	for _, f := range q.Equals {
		if doc.Fields[f.Field] != f.Value {
			return false
		}
	}

	if q.TimeField != "" && (q.After != nil || q.Before != nil) {
		ts, ok := documentTime(doc, q.TimeField)
		if !ok {
			return false
		}
		if q.After != nil && ts.Before(*q.After) {
			return false
		}
		if q.Before != nil && ts.After(*q.Before) {
			return false
		}
	}

	return true
}

// sortDocuments orders a snapshot on the query's time field. Documents keep
// their creation order when no explicit order is requested.
func sortDocuments(docs []Document, q Query) {
	if q.Order == OrderNone || q.TimeField == "" {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		ti, _ := documentTime(docs[i], q.TimeField)
		tj, _ := documentTime(docs[j], q.TimeField)
		if q.Order == OrderDesc {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})
}

// documentTime extracts an instant from a schemaless field, accepting the
// representations JSON round-trips produce.
func documentTime(doc Document, field string) (time.Time, bool) {
	switch v := doc.Fields[field].(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	case float64:
		if v <= 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(v), 0), true
	default:
		return time.Time{}, false
	}
}
