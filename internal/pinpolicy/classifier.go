package pinpolicy

import "time"

// Classifier evaluates PINs. It is immutable after construction and safe for
// concurrent use.
type Classifier struct {
	now             func() time.Time
	maxSequenceStep int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithClock sets the clock used to resolve two-digit year centuries.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMaxSequenceStep sets the widest step treated as a sequence. Values are
// clamped to [0, 5]; 5 accepts every modular progression.
func WithMaxSequenceStep(step int) Option {
	return func(c *Classifier) {
		c.maxSequenceStep = min(max(step, 0), 5)
	}
}

// NewClassifier builds a Classifier using the system clock and
// DefaultMaxSequenceStep unless overridden.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		now:             time.Now,
		maxSequenceStep: DefaultMaxSequenceStep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxSequenceStep returns the configured sequence stride limit.
func (c *Classifier) MaxSequenceStep() int {
	return c.maxSequenceStep
}

// Detect runs the structural detectors. It returns zero Signals for PINs that
// fail the format gate.
func (c *Classifier) Detect(pin string) Signals {
	if !ValidFormat(pin) {
		return Signals{}
	}
	return Signals{
		Sequence:   IsSequence(pin, c.maxSequenceStep),
		Repetition: IsRepetition(pin),
		Palindrome: IsPalindrome(pin),
		Keypad:     IsKeypadPattern(pin),
	}
}

// Classify returns the verdict for pin given the optional personal dates.
// Malformed PINs are STRONG with no reasons: they are unusable, not guessable.
func (c *Classifier) Classify(pin string, dates Dates) Verdict {
	verdict, _ := c.Evaluate(pin, dates)
	return verdict
}

// Evaluate is Classify plus the structural signals that produced the verdict.
func (c *Classifier) Evaluate(pin string, dates Dates) (Verdict, Signals) {
	if !ValidFormat(pin) {
		return strongVerdict(), Signals{}
	}

	reasons := make([]Reason, 0, 4)
	signals := c.Detect(pin)
	if signals.Any() {
		reasons = append(reasons, ReasonCommonlyUsed)
	}

	now := c.now()
	for _, entry := range dates.byRole() {
		if entry.date == nil || !entry.date.IsValid() {
			continue
		}
		if _, ok := ProjectDate(*entry.date, now)[pin]; ok {
			reasons = append(reasons, entry.role.Reason())
		}
	}

	if len(reasons) == 0 {
		return strongVerdict(), signals
	}
	return Verdict{Strength: StrengthWeak, Reasons: reasons}, signals
}

var defaultClassifier = NewClassifier()

// Validate classifies pin with the default classifier.
func Validate(pin string, dates Dates) Verdict {
	return defaultClassifier.Classify(pin, dates)
}
