package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelSet_CaseInsensitiveDedup(t *testing.T) {
	s := NewLabelSet(DefaultExpenseLabels...)
	n := s.Len()

	assert.False(t, s.Add("rc transfer"))
	assert.False(t, s.Add("  INSURANCE  "))
	assert.False(t, s.Add("   "))
	assert.True(t, s.Add(" Fastag Recharge "))
	assert.False(t, s.Add("fastag recharge"))

	assert.Equal(t, n+1, s.Len())
	assert.Equal(t, "Fastag Recharge", s.Labels()[n])
	assert.True(t, s.Contains("FASTAG RECHARGE"))
}

func TestLabelSet_ZeroValue(t *testing.T) {
	var s LabelSet
	assert.False(t, s.Contains("x"))
	assert.True(t, s.Add("x"))
	assert.Equal(t, []string{"x"}, s.Labels())
}

func TestLabelSet_Suggest(t *testing.T) {
	s := NewLabelSet("RC Transfer", "RTO Change", "Insurance")
	assert.Equal(t, []string{"RC Transfer"}, s.Suggest("tr"))
	assert.Equal(t, []string{"RC Transfer", "RTO Change", "Insurance"}, s.Suggest(""))
	assert.Equal(t, []string{"Insurance"}, s.Suggest("SUR"))
	assert.Equal(t, []string{}, s.Suggest("zzz"))
}

func TestLabelSet_LabelsIsCopy(t *testing.T) {
	s := NewLabelSet("A")
	got := s.Labels()
	got[0] = "B"
	assert.Equal(t, []string{"A"}, s.Labels())
}
