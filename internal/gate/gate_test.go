package gate

import "testing"

func TestEvaluate_Scenarios(t *testing.T) {
	t.Parallel()

	onboarded := &ProfileState{OnboardingCompleted: true}
	fresh := &ProfileState{OnboardingCompleted: false}

	cases := []struct {
		name string
		snap Snapshot
		want Decision
	}{
		{
			name: "unauthenticated requesting protected route",
			snap: Snapshot{Authenticated: false, Route: RouteApp},
			want: Decision{Action: Redirect, Target: TargetLogin},
		},
		{
			name: "unauthenticated requesting login",
			snap: Snapshot{Authenticated: false, Route: RouteLogin},
			want: Decision{Action: Allow},
		},
		{
			name: "unauthenticated requesting root",
			snap: Snapshot{Authenticated: false, Route: RouteRoot},
			want: Decision{Action: Allow},
		},
		{
			name: "unauthenticated and locked still goes to login, not locked screen",
			snap: Snapshot{Authenticated: false, Locked: true, Route: RouteApp},
			want: Decision{Action: Redirect, Target: TargetLogin},
		},
		{
			name: "profile resolving never redirects",
			snap: Snapshot{Authenticated: true, Profile: nil, Route: RouteApp},
			want: Decision{Action: Allow},
		},
		{
			name: "not onboarded requesting settings",
			snap: Snapshot{Authenticated: true, Profile: fresh, Route: RouteApp},
			want: Decision{Action: Redirect, Target: TargetOnboardingEntry},
		},
		{
			name: "not onboarded requesting onboarding",
			snap: Snapshot{Authenticated: true, Profile: fresh, Route: RouteOnboarding},
			want: Decision{Action: Allow},
		},
		{
			name: "onboarded requesting login bounces home",
			snap: Snapshot{Authenticated: true, Profile: onboarded, Route: RouteLogin},
			want: Decision{Action: Redirect, Target: TargetHome},
		},
		{
			name: "onboarded requesting app route",
			snap: Snapshot{Authenticated: true, Profile: onboarded, Route: RouteApp},
			want: Decision{Action: Allow},
		},
		{
			name: "locked requesting tasks",
			snap: Snapshot{Authenticated: true, Profile: onboarded, Locked: true, Route: RouteApp},
			want: Decision{Action: Redirect, Target: TargetLockedScreen},
		},
		{
			name: "locked may view locked screen",
			snap: Snapshot{Authenticated: true, Profile: onboarded, Locked: true, Route: RouteLocked},
			want: Decision{Action: Allow},
		},
		{
			name: "locked may view appeal screen",
			snap: Snapshot{Authenticated: true, Profile: onboarded, Locked: true, Route: RouteAppeal},
			want: Decision{Action: Allow},
		},
		{
			name: "locked overrides onboarding redirect",
			snap: Snapshot{Authenticated: true, Profile: fresh, Locked: true, Route: RouteApp},
			want: Decision{Action: Redirect, Target: TargetLockedScreen},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Evaluate(tc.snap); got != tc.want {
				t.Fatalf("Evaluate(%+v) = %+v, want %+v", tc.snap, got, tc.want)
			}
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	t.Parallel()

	snap := Snapshot{Authenticated: true, Profile: &ProfileState{OnboardingCompleted: true}, Route: RouteSignup}
	first := Evaluate(snap)
	second := Evaluate(snap)
	if first != second {
		t.Fatalf("repeated evaluation differs: %+v then %+v", first, second)
	}
}

func TestParseRoute(t *testing.T) {
	t.Parallel()

	cases := map[string]RouteClass{
		"":              RouteRoot,
		"root":          RouteRoot,
		"login":         RouteLogin,
		"signup":        RouteSignup,
		"auth-callback": RouteAuthCallback,
		"onboarding":    RouteOnboarding,
		"locked-screen": RouteLocked,
		"appeal":        RouteAppeal,
		"status":        RouteAppeal,
		"tasks":         RouteApp,
		"settings":      RouteApp,
	}
	for in, want := range cases {
		if got := ParseRoute(in); got != want {
			t.Fatalf("ParseRoute(%q) = %v, want %v", in, got, want)
		}
	}
}
