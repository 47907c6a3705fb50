package store

import (
	"context"

	"pricetrack/internal/alerting"
	"pricetrack/internal/catalog"
)

// Alerts returns a deep copy of every alert in insertion order.
func (s *Store) Alerts() []catalog.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Alert, len(s.data.Alerts))
	for i, a := range s.data.Alerts {
		out[i] = a.Clone()
	}
	return out
}

// Alert returns a copy of one alert.
func (s *Store) Alert(id string) (catalog.Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.Alert(id)
	if !ok {
		return catalog.Alert{}, false
	}
	return a.Clone(), true
}

// UnreadAlertCount counts alerts not yet marked read.
func (s *Store) UnreadAlertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.data.Alerts {
		if !a.Read {
			n++
		}
	}
	return n
}

// AddAlert stores an alert as given, generating an id and defaulting the
// date to today when empty.
func (s *Store) AddAlert(ctx context.Context, in catalog.Alert) (catalog.Alert, error) {
	s.mu.Lock()
	alert, events, err := s.addAlert(ctx, in)
	s.mu.Unlock()

	s.notify(ctx, events)
	return alert, err
}

func (s *Store) addAlert(ctx context.Context, in catalog.Alert) (catalog.Alert, []alerting.Event, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return catalog.Alert{}, nil, err
	}
	if err := s.check(alertInput{Type: in.Type, ProductID: in.ProductID, SupplierID: in.SupplierID}); err != nil {
		return catalog.Alert{}, nil, err
	}
	if err := s.checkAlertRefs(in); err != nil {
		return catalog.Alert{}, nil, err
	}
	if in.ID != "" && s.alertIndex(in.ID) >= 0 {
		return catalog.Alert{}, nil, invalid("alert %s already exists", in.ID)
	}

	alert := s.appendAlert(in)
	s.logger.Debug().Str("alert_id", alert.ID).Msg("alert added")
	events := []alerting.Event{s.eventFor(alert)}
	return alert.Clone(), events, s.commit(ctx, "add_alert")
}

// appendAlert assigns id and date if missing and appends the alert.
func (s *Store) appendAlert(a catalog.Alert) catalog.Alert {
	a = a.Clone()
	if a.ID == "" {
		a.ID = s.generateID(AlertPrefix, func(id string) bool { return s.alertIndex(id) >= 0 })
	}
	if a.Date.IsZero() {
		a.Date = s.today()
	}
	s.data.Alerts = append(s.data.Alerts, a)
	return a
}

// MarkAlertAsRead sets the read flag.
func (s *Store) MarkAlertAsRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	idx := s.alertIndex(id)
	if idx < 0 {
		return notFound("alert", id)
	}
	s.data.Alerts[idx].Read = true

	s.logger.Debug().Str("alert_id", id).Msg("alert marked read")
	return s.commit(ctx, "mark_alert_read")
}

// DeleteAlert removes one alert.
func (s *Store) DeleteAlert(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	idx := s.alertIndex(id)
	if idx < 0 {
		return notFound("alert", id)
	}
	s.data.Alerts = append(s.data.Alerts[:idx], s.data.Alerts[idx+1:]...)

	s.logger.Debug().Str("alert_id", id).Msg("alert deleted")
	return s.commit(ctx, "delete_alert")
}

func (s *Store) alertIndex(id string) int {
	for i := range s.data.Alerts {
		if s.data.Alerts[i].ID == id {
			return i
		}
	}
	return -1
}
