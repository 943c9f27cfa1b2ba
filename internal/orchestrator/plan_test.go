package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkloadValidate(t *testing.T) {
	valid := Workload{Ideas: 80, IdeaProducers: 2, Packages: 4000, PackageProducers: 6, Students: 6}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(w *Workload)
		wantErr string
	}{
		{name: "zero ideas", mutate: func(w *Workload) { w.Ideas = 0 }, wantErr: "ideas must be >= 1"},
		{name: "negative packages", mutate: func(w *Workload) { w.Packages = -1 }, wantErr: "packages must be >= 0"},
		{name: "zero students", mutate: func(w *Workload) { w.Students = 0 }, wantErr: "students must be >= 1"},
		{name: "zero idea producers", mutate: func(w *Workload) { w.IdeaProducers = 0 }, wantErr: "idea producers"},
		{name: "zero package producers", mutate: func(w *Workload) { w.PackageProducers = 0 }, wantErr: "package producers"},
		{name: "more idea producers than ideas", mutate: func(w *Workload) { w.IdeaProducers = 81 }, wantErr: "cannot share 80 ideas"},
		{name: "fewer students than idea producers", mutate: func(w *Workload) { w.Students = 1 }, wantErr: "1 students cannot receive termination signals from 2 idea producers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := valid
			tt.mutate(&w)
			err := w.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("students equal to idea producers is allowed", func(t *testing.T) {
		w := valid
		w.Students = w.IdeaProducers
		assert.NoError(t, w.Validate())
	})

	t.Run("zero packages is allowed", func(t *testing.T) {
		w := valid
		w.Packages = 0
		assert.NoError(t, w.Validate())
	})
}

func TestNewPlan(t *testing.T) {
	plan, err := NewPlan(Workload{Ideas: 80, IdeaProducers: 2, Packages: 4000, PackageProducers: 6, Students: 6})
	require.NoError(t, err)

	assert.Equal(t, []IdeaAssignment{
		{Offset: 0, Ideas: 40, Packages: 2000, Students: 3},
		{Offset: 40, Ideas: 40, Packages: 2000, Students: 3},
	}, plan.IdeaProducers)

	assert.Equal(t, []PackageAssignment{
		{Offset: 0, Packages: 667},
		{Offset: 667, Packages: 667},
		{Offset: 1334, Packages: 667},
		{Offset: 2001, Packages: 667},
		{Offset: 2668, Packages: 666},
		{Offset: 3334, Packages: 666},
	}, plan.PackageProducers)

	assert.Equal(t, 6, plan.TerminationSignals())
	assert.Equal(t, 80+4000+6, plan.ExpectedEvents())
}

func TestNewPlan_Conservation(t *testing.T) {
	for ideaProducers := 1; ideaProducers <= 7; ideaProducers++ {
		for students := ideaProducers; students <= 9; students++ {
			w := Workload{Ideas: 23, IdeaProducers: ideaProducers, Packages: 101, PackageProducers: 4, Students: students}
			plan, err := NewPlan(w)
			require.NoError(t, err)

			ideas, packages, next := 0, 0, 0
			for _, a := range plan.IdeaProducers {
				require.Equal(t, next, a.Offset, "idea slices are contiguous")
				require.GreaterOrEqual(t, a.Ideas, 1)
				next += a.Ideas
				ideas += a.Ideas
				packages += a.Packages
			}
			assert.Equal(t, w.Ideas, ideas)
			assert.Equal(t, w.Packages, packages, "required packages match supplied packages")
			assert.Equal(t, w.Students, plan.TerminationSignals())
			for _, a := range plan.IdeaProducers {
				assert.GreaterOrEqual(t, a.Students, 1, "every idea producer terminates someone")
			}

			supplied := 0
			for _, a := range plan.PackageProducers {
				supplied += a.Packages
			}
			assert.Equal(t, w.Packages, supplied)
		}
	}
}

func TestNewPlan_Invalid(t *testing.T) {
	_, err := NewPlan(Workload{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
