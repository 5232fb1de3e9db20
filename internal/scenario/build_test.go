package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/robotsim/internal/config"
	_ "github.com/vovakirdan/robotsim/internal/elements"
	"github.com/vovakirdan/robotsim/internal/engine"
	_ "github.com/vovakirdan/robotsim/internal/robot"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

func TestBuildDefaultScenario(t *testing.T) {
	sc := config.DefaultScenario()

	e, err := Build(sc)
	require.NoError(t, err)
	assert.Equal(t, 3, e.RobotCount())
	assert.Equal(t, 3, e.Environment().Len())
	assert.Equal(t, 0.0, e.Time())
}

func TestRunDefaultScenario(t *testing.T) {
	sc := config.DefaultScenario()
	e, err := Build(sc)
	require.NoError(t, err)

	var merges, collisions int
	e.RegisterObserver(&engine.ObserverFuncs{
		Collision: func(engine.CollisionEvent) { collisions++ },
		Merge:     func(engine.MergeEvent) { merges++ },
	})

	require.NoError(t, Run(e, sc.Steps, sc.DT, nil))
	assert.InDelta(t, 10.0, e.Time(), 1e-9)
	assert.Positive(t, merges, "the cruising robot passes the merge zone")
	assert.Positive(t, collisions, "the cruising robot enters the box")
}

func TestBuildIsDeterministic(t *testing.T) {
	sc := config.DefaultScenario()
	a, err := Build(sc)
	require.NoError(t, err)
	b, err := Build(sc)
	require.NoError(t, err)

	require.NoError(t, Run(a, sc.Steps, sc.DT, nil))
	require.NoError(t, Run(b, sc.Steps, sc.DT, nil))
	assert.Equal(t, a.State().Serialize(), b.State().Serialize())
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		sc      config.Scenario
		wantMsg string
	}{
		{
			name:    "unknown robot",
			sc:      config.Scenario{DT: 0.1, Robots: []config.EntitySpec{{Kind: "tank"}}},
			wantMsg: "robots[0]",
		},
		{
			name:    "unknown element",
			sc:      config.Scenario{DT: 0.1, Environment: []config.EntitySpec{{Kind: "box"}, {Kind: "lava"}}},
			wantMsg: "environment[1]",
		},
		{
			name:    "bad params",
			sc:      config.Scenario{DT: 0.1, Robots: []config.EntitySpec{{Kind: "point", Params: map[string]float64{"mass": 1}}}},
			wantMsg: `unknown parameter "mass"`,
		},
		{
			name:    "invalid dt",
			sc:      config.Scenario{DT: 0},
			wantMsg: "dt must be positive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.sc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestRestoreIntoRebuiltScenario(t *testing.T) {
	sc := config.DefaultScenario()
	a, err := Build(sc)
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		require.NoError(t, a.Step(sc.DT))
	}

	var saved snapshot.SystemState
	require.NoError(t, saved.Deserialize(a.State().Serialize()))

	b, err := Build(sc)
	require.NoError(t, err)
	require.NoError(t, b.LoadState(&saved))

	for i := 0; i < 30; i++ {
		require.NoError(t, a.Step(sc.DT))
		require.NoError(t, b.Step(sc.DT))
	}
	assert.Equal(t, a.State().Serialize(), b.State().Serialize())
}

func TestBuildReportsEveryUnknownKind(t *testing.T) {
	sc := config.Scenario{
		Name:        "typos",
		DT:          0.1,
		Robots:      []config.EntitySpec{{Kind: "point"}, {Kind: "tank"}},
		Environment: []config.EntitySpec{{Kind: "lava"}, {Kind: "box"}, {Kind: "wall"}},
	}

	_, err := Build(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `robots[1]: unknown robot kind "tank"`)
	assert.Contains(t, err.Error(), `environment[0]: unknown element kind "lava"`)
	assert.Contains(t, err.Error(), `environment[2]: unknown element kind "wall"`)
	assert.NotContains(t, err.Error(), "robots[0]")
}

func TestRunCallsAfterEachStep(t *testing.T) {
	e, err := Build(config.DefaultScenario())
	require.NoError(t, err)

	var steps []int
	var times []float64
	require.NoError(t, Run(e, 3, 0.5, func(step int) {
		steps = append(steps, step)
		times = append(times, e.Time())
	}))
	assert.Equal(t, []int{1, 2, 3}, steps)
	assert.Equal(t, []float64{0.5, 1, 1.5}, times)

	err = Run(e, 2, -1, func(int) { t.Error("after must not run for a failed step") })
	require.ErrorIs(t, err, engine.ErrInvalidStep)
	assert.Contains(t, err.Error(), "step 1")
	assert.Equal(t, 1.5, e.Time())
}
