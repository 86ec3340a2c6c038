package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestNewRootCmd_RegistersSubcommands(t *testing.T) {
	root := NewRootCmd()
	want := map[string]bool{"analyze": false, "fix": false, "classify": false, "validate": false, "history": false, "init": false}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %q subcommand registered on root command", name)
		}
	}
}

func TestBuildCommandTree_AllCommandsHaveRunE(t *testing.T) {
	root := NewRootCmd()
	for _, sub := range root.Commands() {
		c := sub
		t.Run(c.Name(), func(t *testing.T) {
			if c.RunE == nil {
				t.Errorf("command %q has nil RunE; must wire RunE for error visibility", c.Name())
			}
		})
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"config", "verbose", "quiet"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent --%s flag", name)
		}
	}
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	out, _, err := runCmd(NewRootCmd())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "dxr") {
		t.Errorf("expected help output to contain \"dxr\", got: %s", out)
	}
}

func TestRootCmd_ConfigFlagReachesSubcommand(t *testing.T) {
	root := NewRootCmd()
	pio := newMockProjectIO(nil)
	var classify *cobra.Command
	for _, sub := range root.Commands() {
		if sub.Name() == "classify" {
			classify = sub
		}
	}
	root.RemoveCommand(classify)
	root.AddCommand(NewClassifyCmd(pio))
	if _, _, err := runCmd(root, "--config", "site", "classify", "GLOSSARY.md"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pio.loadedDir != "site" {
		t.Errorf("config loaded from %q, want site", pio.loadedDir)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		debug     bool
		info      bool
		errorsOut bool
	}{
		{"default", nil, false, true, true},
		{"verbose", []string{"--verbose"}, true, true, true},
		{"quiet", []string{"--quiet"}, false, false, true},
		{"quiet wins", []string{"--verbose", "--quiet"}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cobra.Command{Use: "x"}
			c.Flags().Bool("verbose", false, "")
			c.Flags().Bool("quiet", false, "")
			if err := c.Flags().Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			c.SetErr(new(bytes.Buffer))
			log := newLogger(c)
			ctx := context.Background()
			if got := log.Enabled(ctx, slog.LevelDebug); got != tt.debug {
				t.Errorf("debug enabled = %v", got)
			}
			if got := log.Enabled(ctx, slog.LevelInfo); got != tt.info {
				t.Errorf("info enabled = %v", got)
			}
			if got := log.Enabled(ctx, slog.LevelError); got != tt.errorsOut {
				t.Errorf("error enabled = %v", got)
			}
		})
	}
}

func TestPrintDiagnostics(t *testing.T) {
	c := &cobra.Command{Use: "x"}
	errOut := new(bytes.Buffer)
	c.SetErr(errOut)
	printDiagnostics(c, []Diagnostic{
		{Severity: SeverityError, Code: CodeRead, Message: "boom", Path: "docs/\x1b[2JA.md"},
		{Severity: SeverityWarning, Code: CodeHistory, Message: "not recorded"},
	})
	want := "error: docs/?[2JA.md: boom (XRFE003)\nwarning: not recorded (XRFW002)\n"
	if errOut.String() != want {
		t.Errorf("got %q, want %q", errOut.String(), want)
	}
}

func TestHasDiagnosticError(t *testing.T) {
	if hasDiagnosticError([]Diagnostic{{Severity: SeverityWarning}}) {
		t.Error("warnings alone are not errors")
	}
	if !hasDiagnosticError([]Diagnostic{{Severity: SeverityWarning}, {Severity: SeverityError}}) {
		t.Error("expected error to be detected")
	}
}
