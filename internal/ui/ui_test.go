package ui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	// Setenv restores the variable afterwards; the test itself needs it unset.
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	saved := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = saved })

	got := Command.Sprint("wifi home secret")
	if strings.Contains(got, "`") {
		t.Errorf("Command.Sprint() = %q, want no backticks with colour", got)
	}
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("Command.Sprint() = %q, want ANSI escapes", got)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Command adds backticks", Command, "reload", "`reload`"},
		{"Path has no decoration", Path, "/config/pagerterm.yaml", "/config/pagerterm.yaml"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Warning has no decoration", Warning, "⚠", "⚠"},
		{"Info has no decoration", Info, "→", "→"},
		{"Highlight adds quotes", Highlight, "home-wifi", "'home-wifi'"},
		{"Muted adds parentheses", Muted, "unset", "(unset)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.formatter.Sprint(tt.input); got != tt.want {
				t.Errorf("Sprint(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if got := Highlight.Sprintf("%s-%d", "lab", 2); got != "'lab-2'" {
		t.Errorf("Sprintf() = %q", got)
	}
}

func TestHeaderKeepsParamOrder(t *testing.T) {
	out := NewHeader("Device configuration", "pagerterm config show",
		Field{Key: "Root", Value: "/data"},
		Field{Key: "Document", Value: "/config/pagerterm.yaml"},
	).SetWidth(80).Render()

	for _, want := range []string{"DEVICE CONFIGURATION", "pagerterm config show", "Root:", "/config/pagerterm.yaml"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Root:") > strings.Index(out, "Document:") {
		t.Error("params rendered out of order")
	}
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Settings reset", Field{Key: "Networks", Value: "1"}),
			want:   []string{"SUCCESS", "Settings reset", "Networks:"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Connect failed", errors.New("refused"), "Check the gateway is running"),
			want:   []string{"FAILED", "Error: refused", "Troubleshooting:", "Check the gateway"},
		},
		{
			name:   "warning",
			result: NewWarningResult("Diagnostics").AddDetail("wifi.ssid", "missing"),
			want:   []string{"WARNING", "wifi.ssid:", "missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("result missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestConfirmDangerousOperation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "exact phrase", input: "RESET\n", want: true},
		{name: "phrase without newline", input: "RESET", want: true},
		{name: "wrong phrase", input: "reset\n", want: false},
		{name: "empty input", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmDangerousOperation(strings.NewReader(tt.input), &out,
				"SETTINGS RESET", []string{"All settings return to factory values"}, "RESET")
			if got != tt.want {
				t.Errorf("ConfirmDangerousOperation() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "factory values") {
				t.Errorf("warning not printed:\n%s", out.String())
			}
		})
	}
}

func TestReadSecretFromPipe(t *testing.T) {
	var out bytes.Buffer
	got, err := ReadSecret(strings.NewReader("s3cret pass\r\n"), &out, "Password: ")
	if err != nil {
		t.Fatalf("ReadSecret() error = %v", err)
	}
	if got != "s3cret pass" {
		t.Errorf("ReadSecret() = %q", got)
	}
	if out.String() != "Password: " {
		t.Errorf("prompt = %q", out.String())
	}

	if _, err := ReadSecret(strings.NewReader(""), &out, "Password: "); err == nil {
		t.Error("ReadSecret() on empty input succeeded")
	}
}
