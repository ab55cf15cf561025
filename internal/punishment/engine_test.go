package punishment

import "testing"

func TestCompute_TotalAndNonNegative(t *testing.T) {
	t.Parallel()

	inputs := append(Violations(), "", "unknown_violation", "TASK_FAILED", "  task_failed  ")
	tiers := append(Tiers(), Tier(-1), Tier(99))

	for _, vt := range inputs {
		for _, tier := range tiers {
			h := Compute(vt, tier)
			if h < 0 {
				t.Fatalf("Compute(%q, %v) = %d, want >= 0", vt, tier, h)
			}
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	t.Parallel()

	for _, vt := range Violations() {
		for _, tier := range Tiers() {
			a := Compute(vt, tier)
			b := Compute(vt, tier)
			if a != b {
				t.Fatalf("Compute(%q, %v) not deterministic: %d then %d", vt, tier, a, b)
			}
		}
	}
}

func TestCompute_MonotonicAcrossTiers(t *testing.T) {
	t.Parallel()

	tiers := Tiers()
	for _, vt := range Violations() {
		for i := 1; i < len(tiers); i++ {
			lo := Compute(vt, tiers[i-1])
			hi := Compute(vt, tiers[i])
			if hi < lo {
				t.Fatalf("Compute(%q) decreases from %v (%dh) to %v (%dh)", vt, tiers[i-1], lo, tiers[i], hi)
			}
		}
	}
}

func TestCompute_UnknownInputsFallBack(t *testing.T) {
	t.Parallel()

	want := Compute(DefaultViolation, TierNewbie)
	if got := Compute("no_such_violation", TierNewbie); got != want {
		t.Fatalf("unknown violation: got %dh, want default %dh", got, want)
	}
	if got := Compute("no_such_violation", Tier(-7)); got != want {
		t.Fatalf("unknown violation and tier: got %dh, want default %dh", got, want)
	}
}

func TestCompute_TaskFailedNewbieIsTwoHours(t *testing.T) {
	t.Parallel()

	if got := Compute(ViolationTaskFailed, TierNewbie); got != 2 {
		t.Fatalf("task_failed at NEWBIE = %dh, want 2", got)
	}
}

func TestPreview_MatchesCompute(t *testing.T) {
	t.Parallel()

	for _, vt := range Violations() {
		for _, tier := range Tiers() {
			if Preview(vt, tier) != Compute(vt, tier) {
				t.Fatalf("Preview(%q, %v) != Compute", vt, tier)
			}
		}
	}
}

func TestParseTier(t *testing.T) {
	t.Parallel()

	cases := map[string]Tier{
		"NEWBIE":       TierNewbie,
		"newbie":       TierNewbie,
		"Intermediate": TierIntermediate,
		" advanced ":   TierAdvanced,
		"HARDCORE":     TierHardcore,
		"":             TierNewbie,
		"champion":     TierNewbie,
	}
	for in, want := range cases {
		if got := ParseTier(in); got != want {
			t.Fatalf("ParseTier(%q) = %v, want %v", in, got, want)
		}
	}
}
