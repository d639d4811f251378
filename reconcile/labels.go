package reconcile

import "strings"

// DefaultExpenseLabels seeds the expense vocabulary.
var DefaultExpenseLabels = []string{
	"RC Transfer",
	"RTO Change",
	"Insurance",
	"Repair",
	"Detailing",
	"Commission",
}

// DefaultDocumentLabels seeds the document vocabulary.
var DefaultDocumentLabels = []string{
	"RC Book",
	"Insurance Copy",
	"PUC Certificate",
	"Sale Agreement",
	"Form 29",
	"Form 30",
	"NOC",
}

// LabelSet is an insertion-ordered vocabulary of labels that ignores case when
// checking for duplicates. The zero value is empty and ready to use.
type LabelSet struct {
	labels []string
	seen   map[string]struct{}
}

// NewLabelSet returns a set seeded with labels.
func NewLabelSet(labels ...string) *LabelSet {
	s := &LabelSet{}
	for _, l := range labels {
		s.Add(l)
	}
	return s
}

// Add trims label and appends it unless it is blank or already present in any
// casing. It reports whether the label was added.
func (s *LabelSet) Add(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	key := strings.ToLower(label)
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	s.labels = append(s.labels, label)
	return true
}

// Contains reports whether label is present, ignoring case and surrounding space.
func (s *LabelSet) Contains(label string) bool {
	_, ok := s.seen[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// Labels returns a copy of the labels in insertion order.
func (s *LabelSet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Suggest returns the labels containing query (case-insensitive), in order.
func (s *LabelSet) Suggest(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []string{}
	for _, l := range s.labels {
		if strings.Contains(strings.ToLower(l), query) {
			out = append(out, l)
		}
	}
	return out
}

// Len returns the number of labels.
func (s *LabelSet) Len() int {
	return len(s.labels)
}
