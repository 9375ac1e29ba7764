package kb

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/semithue/kbrw/internal/word"
)

// Unlimited disables a limit when passed to WithMaxRules,
// WithMaxOverlap or WithCheckConfluenceInterval.
const Unlimited = math.MaxInt

// Defaults for the completion driver. The confluence-check interval
// matches the throttle the exhaustive pairwise check needs to stay off
// the hot path; the report interval matches the progress cadence of
// the completion loop's log lines.
const (
	DefaultCheckConfluenceInterval = 4096
	DefaultReportInterval          = 1000
)

// System is a string rewriting system for a finitely presented
// semigroup or monoid, together with the state of its Knuth-Bendix
// completion.
//
// Single-writer discipline: AddRule, Run, RunUntil, RunByOverlapLength
// and EqualTo mutate the rule set and must never run concurrently with
// anything else; Rewrite and the query methods are read-only and may be
// called from the same goroutine between mutations.
type System struct {
	alphabet *word.Alphabet
	store    ruleStore
	index    suffixIndex
	stack    pendingStack

	// minLHS caches the shortest active left-hand-side length so the
	// rewriting engine can skip windows that cannot possibly match.
	// It is tightened whenever a shorter rule activates and recomputed
	// only when the active set empties.
	minLHS int

	policy         OverlapPolicy
	maxRules       int
	maxOverlap     int
	checkInterval  int
	reportInterval int

	tokens TokenGenerator
	logger *slog.Logger

	confluenceKnown bool
	isConfluent     bool

	// Sweep cursor into store.active; valid only while sweeping.
	// Deactivations re-point it, see deactivate.
	cursor   int
	sweeping bool

	stats Stats
}

// Stats counts work done by completion, for reporting.
type Stats struct {
	RulesCreated int // rules ever created, including recycled slots
	StackPops    int // pending candidates processed
	Overlaps     int // overlap positions considered
}

// Option configures a System.
type Option func(*System)

// WithOverlapPolicy selects how overlap cost is measured when bounding
// the search with WithMaxOverlap. Default PolicyABC.
func WithOverlapPolicy(p OverlapPolicy) Option {
	return func(s *System) { s.policy = p }
}

// WithMaxRules stops completion once the active rule count reaches n.
// The system stays usable for rewriting, it is just not confluent.
func WithMaxRules(n int) Option {
	return func(s *System) { s.maxRules = n }
}

// WithMaxOverlap skips overlaps whose cost under the configured policy
// exceeds n. RunByOverlapLength manages this setting itself.
func WithMaxOverlap(n int) Option {
	return func(s *System) { s.maxOverlap = n }
}

// WithCheckConfluenceInterval runs the confluence check every n
// processed overlaps during the sweep, stopping early when it passes.
func WithCheckConfluenceInterval(n int) Option {
	return func(s *System) { s.checkInterval = n }
}

// WithReportInterval logs completion progress every n stack pops.
func WithReportInterval(n int) Option {
	return func(s *System) { s.reportInterval = n }
}

// WithTokenGenerator replaces the run-token source. The CLI and tests
// use FixedTokens.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *System) { s.tokens = g }
}

// WithLogger replaces the slog logger used for progress reporting.
func WithLogger(l *slog.Logger) Option {
	return func(s *System) { s.logger = l }
}

// New creates an empty rewriting system over the given alphabet.
func New(alphabet *word.Alphabet, opts ...Option) *System {
	s := &System{
		alphabet:       alphabet,
		minLHS:         Unlimited,
		policy:         PolicyABC,
		maxRules:       Unlimited,
		maxOverlap:     Unlimited,
		checkInterval:  DefaultCheckConfluenceInterval,
		reportInterval: DefaultReportInterval,
		tokens:         UUIDTokens,
		logger:         slog.Default(),
	}
	s.index.store = &s.store
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Alphabet returns the system's alphabet.
func (s *System) Alphabet() *word.Alphabet {
	return s.alphabet
}

// AddRule inserts a defining relation u = v. Both sides are reduced
// against the current rules and the result goes through interreduction
// before joining the active set, so the rule actually activated may
// differ from (u, v).
//
// Returns a *word.LetterError for letters outside the alphabet and a
// *TrivialRuleError when the two sides are the same word; in both
// cases the rule set is unchanged. A relation whose sides merely
// reduce to the same normal form is redundant and dropped silently.
func (s *System) AddRule(u, v string) error {
	wu, err := s.alphabet.Encode(u)
	if err != nil {
		return fmt.Errorf("left side %q: %w", u, err)
	}
	wv, err := s.alphabet.Encode(v)
	if err != nil {
		return fmt.Errorf("right side %q: %w", v, err)
	}
	if word.Equal(wu, wv) {
		return &TrivialRuleError{Word: s.alphabet.Decode(wu)}
	}
	// A relation that only *reduces* to equal sides is redundant, not
	// wrong: it is dropped silently during the drain below.
	s.stack.push(wu, wv)
	// Drain immediately so the active set is never left with an
	// unprocessed candidate between AddRule calls. Draining cannot be
	// cancelled here; a single relation is cheap to interreduce.
	s.clearStack(neverStop)
	return nil
}

// activate inserts the rule into the suffix index and the active list
// as one step, so no other component can observe it in one but not the
// other. Returns false when the index refuses the entry (an active left
// side is suffix-related to this one); the rule stays inactive and the
// caller requeues it.
func (s *System) activate(h handle) bool {
	if !s.index.insert(h) {
		return false
	}
	s.store.activate(h)
	if n := len(s.store.rule(h).lhs); n < s.minLHS {
		s.minLHS = n
	}
	s.confluenceKnown = false
	return true
}

// deactivate removes the rule from the index and the active list as one
// step and re-points the sweep cursor if the removal was behind it.
func (s *System) deactivate(h handle) {
	s.index.remove(h)
	pos := s.store.deactivate(h)
	if s.sweeping && pos < s.cursor {
		s.cursor--
	}
	if s.store.numActive() == 0 {
		s.minLHS = Unlimited
	}
	s.confluenceKnown = false
}

// NumberOfActiveRules returns the number of rules in the current
// system.
func (s *System) NumberOfActiveRules() int {
	if s.store.numActive() != s.index.size() {
		panic("active rule list and suffix index disagree")
	}
	return s.store.numActive()
}

// ActiveRules returns the current rules as external word pairs, sorted
// by the reduction order on the left side and then the right, so the
// listing is deterministic regardless of insertion order.
func (s *System) ActiveRules() [][2]string {
	type pair struct{ lhs, rhs word.Word }
	pairs := make([]pair, 0, s.store.numActive())
	for _, h := range s.store.active {
		r := s.store.rule(h)
		pairs = append(pairs, pair{lhs: r.lhs, rhs: r.rhs})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if c := word.Compare(pairs[i].lhs, pairs[j].lhs); c != 0 {
			return c < 0
		}
		return word.Less(pairs[i].rhs, pairs[j].rhs)
	})
	out := make([][2]string, len(pairs))
	for i, p := range pairs {
		out[i] = [2]string{s.alphabet.Decode(p.lhs), s.alphabet.Decode(p.rhs)}
	}
	return out
}

// Stats returns counters describing the work completion has done.
func (s *System) Stats() Stats {
	st := s.stats
	st.RulesCreated = s.store.created
	return st
}
