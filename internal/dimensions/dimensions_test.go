package dimensions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFamilies_HaveFiveDimensions(t *testing.T) {
	for _, f := range Families() {
		dims := f.Dimensions()
		require.Len(t, dims, 5, f)
		for _, d := range dims {
			require.Equal(t, f, d.Family())
		}
	}
}

func TestDimensionIDs(t *testing.T) {
	ids := func(f Family) []string {
		var out []string
		for _, d := range f.Dimensions() {
			out = append(out, d.ID())
		}
		return out
	}
	require.Equal(t, []string{
		"completeness", "technical_accuracy", "access_pattern_coverage",
		"scalability_considerations", "cost_optimization",
	}, ids(Design))
	require.Equal(t, []string{
		"requirements_engineering", "access_pattern_analysis", "methodology_adherence",
		"technical_reasoning", "process_documentation",
	}, ids(Process))
}

func TestRubrics_CarryAllBands(t *testing.T) {
	for _, f := range Families() {
		for _, d := range f.Dimensions() {
			for _, band := range []string{"9-10", "7-8", "5-6", "3-4", "1-2"} {
				require.Truef(t, strings.Contains(d.Rubric(), "Score "+band),
					"%s rubric missing band %s", d, band)
			}
		}
	}
}

func TestDimensions_ReturnsCopy(t *testing.T) {
	dims := Design.Dimensions()
	dims[0] = Dimension{}
	require.Equal(t, Completeness, Design.Dimensions()[0])
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("cost_optimization")
	require.True(t, ok)
	require.Equal(t, CostOptimization, d)
	require.Equal(t, "cost_optimization_score", d.OutputField())

	_, ok = Lookup("nope")
	require.False(t, ok)
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("process")
	require.NoError(t, err)
	require.Equal(t, Process, f)

	_, err = ParseFamily("Design")
	require.Error(t, err)
}

func TestOutputs_ScoresThenJustifications(t *testing.T) {
	out := Process.Outputs()
	require.Len(t, out, 9)
	require.Equal(t, "requirements_engineering_score", out[0].Name)
	require.Equal(t, "overall_session_assessment", out[len(out)-1].Name)

	keys := map[string]bool{}
	for _, j := range Design.Justifications() {
		keys[j.Key] = true
	}
	require.Equal(t, map[string]bool{"completeness": true, "technical": true, "overall": true}, keys)
}

func TestInputs(t *testing.T) {
	require.Equal(t, FieldGuidance, Design.Inputs()[1].Name)
	require.Equal(t, FieldSession, Process.Inputs()[1].Name)
	require.Equal(t, FieldRequirements, Process.Inputs()[0].Name)
}
