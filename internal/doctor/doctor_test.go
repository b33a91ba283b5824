package doctor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheck struct {
	name   string
	result CheckResult
}

func (s stubCheck) Name() string     { return s.name }
func (s stubCheck) Category() string { return "test" }
func (s stubCheck) Run() *CheckResult {
	r := s.result
	return &r
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []Severity
		wantSummary  Summary
		wantErrors   bool
		wantWarnings bool
	}{
		{
			name:        "empty runner",
			wantSummary: Summary{},
		},
		{
			name:        "all pass",
			statuses:    []Severity{SeverityPass, SeverityPass},
			wantSummary: Summary{Passed: 2},
		},
		{
			name:         "mixed",
			statuses:     []Severity{SeverityPass, SeverityInfo, SeverityWarning, SeverityError, SeverityError},
			wantSummary:  Summary{Passed: 1, Info: 1, Warnings: 1, Errors: 2},
			wantErrors:   true,
			wantWarnings: true,
		},
		{
			name:         "warnings only",
			statuses:     []Severity{SeverityWarning},
			wantSummary:  Summary{Warnings: 1},
			wantWarnings: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			for i, s := range tt.statuses {
				r.AddCheck(stubCheck{name: string(rune('a' + i)), result: CheckResult{Status: s}})
			}

			report := r.Run()
			assert.Len(t, report.Results, len(tt.statuses))
			assert.Equal(t, tt.wantSummary, report.Summary)
			assert.Equal(t, tt.wantErrors, report.HasErrors())
			assert.Equal(t, tt.wantWarnings, report.HasWarnings())
		})
	}
}

func TestRunner_FillsNameAndCategory(t *testing.T) {
	r := NewRunner()
	r.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	r.AddCheck(stubCheck{name: "first"})
	r.AddCheck(stubCheck{name: "second", result: CheckResult{Name: "custom", Category: "own"}})

	report := r.Run()
	require.Len(t, report.Results, 2)
	assert.Equal(t, "first", report.Results[0].Name)
	assert.Equal(t, "test", report.Results[0].Category)
	assert.Equal(t, "custom", report.Results[1].Name)
	assert.Equal(t, "own", report.Results[1].Category)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), report.Timestamp)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "pass", SeverityPass.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "x", Status: SeverityWarning})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"warning"`)
}
