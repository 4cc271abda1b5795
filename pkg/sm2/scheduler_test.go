package sm2

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestNewProgress(t *testing.T) {
	p := NewProgress(t0)
	assertFloat(t, "Easiness", p.Easiness, InitialEasiness)
	if p.Repetitions != 0 || p.IntervalDays != 0 {
		t.Errorf("fresh progress should have zero repetitions/interval, got %d/%d", p.Repetitions, p.IntervalDays)
	}
	if p.State != StateNew {
		t.Errorf("State = %v, want %v", p.State, StateNew)
	}
	if !p.NextReviewAt.Equal(t0) {
		t.Errorf("NextReviewAt = %v, want %v", p.NextReviewAt, t0)
	}
}

func TestAdvanceGoodProgression(t *testing.T) {
	// Walk a card through five perfect reviews and check each tier.
	steps := []struct {
		wantEasiness float64
		wantReps     int32
		wantInterval int32
		wantState    State
	}{
		{2.6, 1, 1, StateLearning},
		{2.7, 2, 6, StateLearning},
		{2.8, 3, 16, StateLearning},  // floor(6*2.8)
		{2.9, 4, 46, StateMastered},  // floor(16*2.9)
		{3.0, 5, 138, StateMature},   // floor(46*3.0)
	}

	p := NewProgress(t0)
	for i, step := range steps {
		p = Advance(p, QualityGood, t0)
		assertFloat(t, "Easiness", p.Easiness, step.wantEasiness)
		if p.Repetitions != step.wantReps {
			t.Fatalf("step %d: Repetitions = %d, want %d", i, p.Repetitions, step.wantReps)
		}
		if p.IntervalDays != step.wantInterval {
			t.Fatalf("step %d: IntervalDays = %d, want %d", i, p.IntervalDays, step.wantInterval)
		}
		if p.State != step.wantState {
			t.Fatalf("step %d: State = %v, want %v", i, p.State, step.wantState)
		}
		if want := t0.AddDate(0, 0, int(step.wantInterval)); !p.NextReviewAt.Equal(want) {
			t.Fatalf("step %d: NextReviewAt = %v, want %v", i, p.NextReviewAt, want)
		}
	}
}

func TestAdvanceForgotResets(t *testing.T) {
	priors := []Progress{
		NewProgress(t0),
		{Easiness: 2.8, Repetitions: 5, IntervalDays: 80, State: StateMature},
		{Easiness: 2.5, Repetitions: 2, IntervalDays: 6, State: StateLearning},
		{Easiness: 1.3, Repetitions: 9, IntervalDays: 300, State: StateMature},
	}
	for _, prior := range priors {
		got := Advance(prior, QualityForgot, t0)
		if got.Repetitions != 0 {
			t.Errorf("prior %+v: Repetitions = %d, want 0", prior, got.Repetitions)
		}
		if got.IntervalDays != 1 {
			t.Errorf("prior %+v: IntervalDays = %d, want 1", prior, got.IntervalDays)
		}
		if got.State != StateLearning {
			t.Errorf("prior %+v: State = %v, want %v", prior, got.State, StateLearning)
		}
		if want := t0.AddDate(0, 0, 1); !got.NextReviewAt.Equal(want) {
			t.Errorf("prior %+v: NextReviewAt = %v, want %v", prior, got.NextReviewAt, want)
		}
	}
}

func TestAdvanceEasinessFloor(t *testing.T) {
	prior := Progress{Easiness: 1.3, Repetitions: 4, IntervalDays: 30, State: StateMastered}
	for _, q := range []Quality{QualityForgot, QualityHard, QualityGood} {
		got := Advance(prior, q, t0)
		if got.Easiness < MinEasiness {
			t.Errorf("quality %v: Easiness = %v below floor %v", q, got.Easiness, MinEasiness)
		}
	}
}

func TestAdvanceHardShortensInterval(t *testing.T) {
	prior := Progress{Easiness: 2.5, Repetitions: 2, IntervalDays: 6, State: StateLearning}
	got := Advance(prior, QualityHard, t0)
	// easiness 2.5-0.14=2.36, base floor(6*2.36)=14, reduced floor(14*0.7)=9.
	assertFloat(t, "Easiness", got.Easiness, 2.36)
	if got.IntervalDays != 9 {
		t.Errorf("IntervalDays = %d, want 9", got.IntervalDays)
	}
	if got.State != StateLearning {
		t.Errorf("State = %v, want %v", got.State, StateLearning)
	}
}

func TestAdvanceHardIntervalNeverBelowOne(t *testing.T) {
	got := Advance(NewProgress(t0), QualityHard, t0)
	if got.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", got.IntervalDays)
	}
	if got.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", got.Repetitions)
	}
}

func TestAdvanceStateFollowsReducedInterval(t *testing.T) {
	// A partial recall that would have crossed the mature threshold before
	// the reduction must be classified by the interval actually scheduled.
	prior := Progress{Easiness: 3.0, Repetitions: 3, IntervalDays: 30, State: StateMastered}
	got := Advance(prior, QualityHard, t0)
	// easiness 2.86, base floor(30*2.86)=85, reduced floor(85*0.7)=59.
	if got.IntervalDays != 59 {
		t.Fatalf("IntervalDays = %d, want 59", got.IntervalDays)
	}
	if got.State != StateMastered {
		t.Errorf("State = %v, want %v (interval 59 is below the mature threshold)", got.State, StateMastered)
	}
}

func TestAdvanceMatureAtThreshold(t *testing.T) {
	prior := Progress{Easiness: 2.9, Repetitions: 3, IntervalDays: 20, State: StateLearning}
	got := Advance(prior, QualityGood, t0)
	// easiness 3.0, floor(20*3.0)=60: exactly at the mature threshold.
	if got.IntervalDays != 60 {
		t.Fatalf("IntervalDays = %d, want 60", got.IntervalDays)
	}
	if got.State != StateMature {
		t.Errorf("State = %v, want %v", got.State, StateMature)
	}
}

func TestAdvanceDeterministic(t *testing.T) {
	prior := Progress{Easiness: 2.2, Repetitions: 3, IntervalDays: 17, State: StateLearning}
	a := Advance(prior, QualityGood, t0)
	b := Advance(prior, QualityGood, t0)
	if a.Easiness != b.Easiness || a.Repetitions != b.Repetitions ||
		a.IntervalDays != b.IntervalDays || a.State != b.State ||
		!a.NextReviewAt.Equal(b.NextReviewAt) {
		t.Errorf("Advance is not deterministic: %+v vs %+v", a, b)
	}
	if prior.Easiness != 2.2 || prior.Repetitions != 3 || prior.IntervalDays != 17 {
		t.Errorf("Advance mutated its input: %+v", prior)
	}
}

func TestStateForInterval(t *testing.T) {
	cases := []struct {
		days int32
		want State
	}{
		{0, StateLearning},
		{1, StateLearning},
		{20, StateLearning},
		{21, StateMastered},
		{59, StateMastered},
		{60, StateMature},
		{365, StateMature},
	}
	for _, tc := range cases {
		if got := StateForInterval(tc.days); got != tc.want {
			t.Errorf("StateForInterval(%d) = %v, want %v", tc.days, got, tc.want)
		}
	}
}

// TestAdvanceInvariants sweeps random priors and checks the properties
// that must hold for every input.
func TestAdvanceInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	qualities := []Quality{QualityForgot, QualityHard, QualityGood}

	for i := 0; i < 10000; i++ {
		prior := Progress{
			Easiness:     MinEasiness + rng.Float64()*2.2,
			Repetitions:  int32(rng.Intn(12)),
			IntervalDays: int32(rng.Intn(400)),
			State:        State(rng.Intn(4) + 1),
		}
		q := qualities[rng.Intn(len(qualities))]
		got := Advance(prior, q, t0)

		if got.Easiness < MinEasiness {
			t.Fatalf("easiness %v below floor for prior %+v quality %v", got.Easiness, prior, q)
		}
		if q == QualityForgot {
			if got.Repetitions != 0 || got.IntervalDays != 1 || got.State != StateLearning {
				t.Fatalf("forgot did not reset: %+v", got)
			}
		} else {
			if got.Repetitions != prior.Repetitions+1 {
				t.Fatalf("repetitions %d, want %d", got.Repetitions, prior.Repetitions+1)
			}
			if got.State != StateForInterval(got.IntervalDays) {
				t.Fatalf("state %v inconsistent with interval %d", got.State, got.IntervalDays)
			}
			if got.IntervalDays < 0 {
				t.Fatalf("negative interval %d", got.IntervalDays)
			}
		}
		if want := t0.AddDate(0, 0, int(got.IntervalDays)); !got.NextReviewAt.Equal(want) {
			t.Fatalf("NextReviewAt %v, want %v", got.NextReviewAt, want)
		}
	}
}

func BenchmarkAdvance(b *testing.B) {
	p := NewProgress(t0)
	now := t0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p = Advance(p, QualityGood, now)
		now = now.AddDate(0, 0, 1)
		if p.IntervalDays > 10000 {
			p = NewProgress(now)
		}
	}
}
