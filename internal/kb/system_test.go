package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semithue/kbrw/internal/word"
)

func newSystem(t *testing.T, alphabet string, opts ...Option) *System {
	t.Helper()
	a, err := word.NewAlphabet(alphabet)
	require.NoError(t, err)
	return New(a, opts...)
}

func addRules(t *testing.T, s *System, relations [][2]string) {
	t.Helper()
	for _, rel := range relations {
		require.NoError(t, s.AddRule(rel[0], rel[1]))
	}
}

func TestAddRule_OrientsByShortlex(t *testing.T) {
	s := newSystem(t, "ab")
	require.NoError(t, s.AddRule("a", "aa"))

	rules := s.ActiveRules()
	require.Len(t, rules, 1)
	assert.Equal(t, [2]string{"aa", "a"}, rules[0], "longer side becomes the left-hand side")
}

func TestAddRule_TrivialRelationRejected(t *testing.T) {
	s := newSystem(t, "ab")
	err := s.AddRule("ab", "ab")
	require.Error(t, err)
	assert.True(t, IsTrivialRuleError(err))
	assert.Equal(t, 0, s.NumberOfActiveRules())
}

func TestAddRule_RedundantRelationDroppedSilently(t *testing.T) {
	s := newSystem(t, "ab")
	require.NoError(t, s.AddRule("aa", "a"))

	// aaa and aa both reduce to a: redundant, not an error.
	require.NoError(t, s.AddRule("aaa", "aa"))
	assert.Equal(t, 1, s.NumberOfActiveRules())
}

func TestAddRule_UnknownLetter(t *testing.T) {
	s := newSystem(t, "ab")
	err := s.AddRule("ax", "a")
	require.Error(t, err)

	var le *word.LetterError
	assert.ErrorAs(t, err, &le)
	assert.Equal(t, 0, s.NumberOfActiveRules())
}

func TestAddRule_InterreducesExistingRules(t *testing.T) {
	s := newSystem(t, "ab")
	require.NoError(t, s.AddRule("bab", "b"))

	// b -> a makes bab reducible; the old rule must be regenerated in
	// terms of the new one, never left with a reducible left side.
	require.NoError(t, s.AddRule("b", "a"))

	for _, r := range s.ActiveRules() {
		reduced, err := s.Rewrite(r[1])
		require.NoError(t, err)
		assert.Equal(t, r[1], reduced, "right sides stay irreducible")
	}
	got, err := s.Rewrite("bab")
	require.NoError(t, err)
	want, err := s.Rewrite("b")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestActiveRules_SortedByReductionOrder(t *testing.T) {
	s := newSystem(t, "ab")
	addRules(t, s, [][2]string{{"bb", "b"}, {"aa", "a"}})

	rules := s.ActiveRules()
	require.Len(t, rules, 2)
	assert.Equal(t, [2]string{"aa", "a"}, rules[0])
	assert.Equal(t, [2]string{"bb", "b"}, rules[1])
}

func TestOrderInvariant_LhsAlwaysGreater(t *testing.T) {
	s := newSystem(t, "ab")
	addRules(t, s, [][2]string{
		{"aaa", "a"}, {"bbbbb", "b"}, {"abbbabb", "bba"},
	})

	for _, h := range s.store.active {
		r := s.store.rule(h)
		assert.Equal(t, 1, word.Compare(r.lhs, r.rhs),
			"active rule %q -> %q violates the reduction order",
			s.alphabet.Decode(r.lhs), s.alphabet.Decode(r.rhs))
	}
}

func TestRuleStore_RecycleReassignsIds(t *testing.T) {
	var store ruleStore
	h1 := store.create(word.Word{0, 0}, word.Word{0})
	id1 := store.rule(h1).id
	require.NotZero(t, id1)

	store.activate(h1)
	store.deactivate(h1)
	store.recycle(h1)

	h2 := store.create(word.Word{1, 1}, word.Word{1})
	assert.Equal(t, h1, h2, "freed slot is reused")
	assert.Greater(t, store.rule(h2).id, id1, "reused slot gets a fresh, larger id")
}

func TestRuleStore_DeactivateReportsPosition(t *testing.T) {
	var store ruleStore
	h1 := store.create(word.Word{0, 0}, word.Word{0})
	h2 := store.create(word.Word{1, 1}, word.Word{1})
	store.activate(h1)
	store.activate(h2)

	assert.Equal(t, 0, store.deactivate(h1))
	assert.Equal(t, []handle{h2}, store.active)
	assert.Equal(t, 0, store.deactivate(h2))
}

func TestStats_CountWork(t *testing.T) {
	s := newSystem(t, "ab")
	addRules(t, s, [][2]string{{"aa", "a"}, {"bb", "b"}})

	st := s.Stats()
	assert.GreaterOrEqual(t, st.RulesCreated, 2)
	assert.GreaterOrEqual(t, st.StackPops, 2)
}
