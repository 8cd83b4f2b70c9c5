package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one scenario run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one dimension family evaluation.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

// JUnitFailure marks an evaluation that scored below the gate.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError marks an evaluation the judge could not complete.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks an evaluation that never ran.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit maps each report to a suite with one test case per
// dimension family. A positive minScore fails every family whose overall
// score falls below it.
func ConvertToJUnit(name string, reports []*models.Report, minScore float64) *JUnitTestSuites {
	out := &JUnitTestSuites{Name: name}

	for _, r := range reports {
		suite := convertReport(r, minScore)
		out.Tests += suite.Tests
		out.Failures += suite.Failures
		out.Errors += suite.Errors
		out.Skipped += suite.Skipped
		out.Time += suite.Time
		out.TestSuites = append(out.TestSuites, suite)
	}

	return out
}

func convertReport(r *models.Report, minScore float64) JUnitTestSuite {
	suite := JUnitTestSuite{
		Name:      r.Scenario,
		Time:      r.PerformanceMetadata.TotalDuration,
		Timestamp: r.Timestamp,
		Properties: []JUnitProperty{
			{Name: "run_id", Value: r.RunID},
			{Name: "model", Value: r.ModelUsed},
			{Name: "status", Value: string(r.Status)},
			{Name: "rubric_version", Value: r.RubricVersion},
		},
	}

	for _, f := range dimensions.Families() {
		tc := convertFamily(r, f, minScore)
		suite.Tests++
		switch {
		case tc.Failure != nil:
			suite.Failures++
		case tc.Error != nil:
			suite.Errors++
		case tc.Skipped != nil:
			suite.Skipped++
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	return suite
}

func convertFamily(r *models.Report, f dimensions.Family, minScore float64) JUnitTestCase {
	tc := JUnitTestCase{
		Name:      f.Title(),
		Classname: "ddbeval." + f.String(),
	}

	switch f {
	case dimensions.Design:
		tc.Time = r.PerformanceMetadata.ModelEvaluationDuration
	case dimensions.Process:
		tc.Time = r.PerformanceMetadata.SessionEvaluationDuration
	}

	if msg, ok := r.Errors[f.String()]; ok {
		tc.Error = &JUnitError{Message: msg, Type: "EngineInvocationError"}
		return tc
	}

	res := r.Evaluation(f)
	if res == nil {
		msg := r.Message
		if msg == "" {
			msg = "not evaluated"
		}
		tc.Skipped = &JUnitSkipped{Message: msg}
		return tc
	}

	tc.SystemOut = formatScores(f, res)
	if minScore > 0 && res.OverallScore < minScore {
		tc.Failure = &JUnitFailure{
			Message: fmt.Sprintf("%s: score=%.2f below %.2f", f.Title(), res.OverallScore, minScore),
			Type:    "QualityGate",
			Body:    tc.SystemOut,
		}
	}
	return tc
}

func formatScores(f dimensions.Family, res *models.EvaluationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "overall=%.2f (%s)\n", res.OverallScore, res.QualityLevel)
	for _, d := range f.Dimensions() {
		score, _ := res.Score(d)
		fmt.Fprintf(&b, "%s=%.1f\n", d.ID(), score)
	}
	return b.String()
}

func writeJUnit(w io.Writer, suites *JUnitTestSuites) error {
	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
