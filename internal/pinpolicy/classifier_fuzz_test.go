package pinpolicy

import (
	"testing"
	"time"
)

// FuzzClassify checks that classification is total and keeps the
// reason/strength coupling for arbitrary PINs and dates.
func FuzzClassify(f *testing.F) {
	f.Add("1234", 2012, 3, 4)
	f.Add("", 0, 0, 0)
	f.Add("2902", 1999, 2, 29)
	f.Add("020198", 1998, 1, 2)
	f.Add("12a4", -5, 13, 40)
	f.Add("\x00\x01\x02\x03", 1<<30, -1, 31)

	c := NewClassifier(WithClock(func() time.Time { return fixedNow }))

	f.Fuzz(func(t *testing.T, pin string, year, month, day int) {
		d := &CalendarDate{Year: year, Month: month, Day: day}
		v := c.Classify(pin, Dates{Self: d, Spouse: d, Anniversary: d})

		if v.Reasons == nil {
			t.Fatal("reasons must never be nil")
		}
		if (len(v.Reasons) > 0) != (v.Strength == StrengthWeak) {
			t.Fatalf("strength %s inconsistent with reasons %v", v.Strength, v.Reasons)
		}
		if !ValidFormat(pin) && v.Strength != StrengthStrong {
			t.Fatalf("malformed pin %q classified %s", pin, v.Strength)
		}
		if !d.IsValid() {
			for _, r := range v.Reasons {
				if r != ReasonCommonlyUsed {
					t.Fatalf("invalid date produced %s", r)
				}
			}
		}
		seen := map[Reason]bool{}
		for _, r := range v.Reasons {
			if !r.IsValid() || seen[r] {
				t.Fatalf("unexpected reason list %v", v.Reasons)
			}
			seen[r] = true
		}
	})
}
