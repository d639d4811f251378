// Package session holds the admin's explicit login session. A session is
// created by Login, carried by the client as a signed bearer token and ended
// by Logout; every authenticated request resolves it through Validate.
//
// Each session owns its own label vocabularies, so suggestions learned in one
// session never leak into another.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/satheeshds/autodealer/reconcile"
)

// LabelKind selects one of the session vocabularies.
type LabelKind string

const (
	KindExpense  LabelKind = "expense"
	KindDocument LabelKind = "document"
)

// ParseLabelKind accepts "expense" or "document" in any case.
func ParseLabelKind(s string) (LabelKind, bool) {
	switch k := LabelKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindExpense, KindDocument:
		return k, true
	}
	return "", false
}

// Session is one logged-in admin.
type Session struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	mu        sync.Mutex
	expenses  *reconcile.LabelSet
	documents *reconcile.LabelSet
}

func newSession(id, user string, created, expires time.Time) *Session {
	return &Session{
		ID:        id,
		User:      user,
		CreatedAt: created,
		ExpiresAt: expires,
		expenses:  reconcile.NewLabelSet(reconcile.DefaultExpenseLabels...),
		documents: reconcile.NewLabelSet(reconcile.DefaultDocumentLabels...),
	}
}

func (s *Session) set(kind LabelKind) *reconcile.LabelSet {
	if kind == KindDocument {
		return s.documents
	}
	return s.expenses
}

// Labels returns the vocabulary for kind in insertion order.
func (s *Session) Labels(kind LabelKind) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(kind).Labels()
}

// Suggest returns labels of kind that contain query.
func (s *Session) Suggest(kind LabelKind, query string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(kind).Suggest(query)
}

// AddLabel records label in the vocabulary for kind and reports whether it
// was new.
func (s *Session) AddLabel(kind LabelKind, label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(kind).Add(label)
}
