package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	if cmd == nil {
		t.Fatal("Root command should not be nil")
	}

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--help returned error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "vtoggle") {
		t.Errorf("Help text should contain 'vtoggle', got: %s", output)
	}
	if !strings.Contains(output, "end checkout v(2.1.0)") {
		t.Errorf("Help text should show the tag format, got: %s", output)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "vtoggle" {
		t.Errorf("Expected Use to be 'vtoggle', got '%s'", cmd.Use)
	}

	want := map[string]bool{"run": false, "check": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected subcommand %q", name)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	saved := Version
	Version = "1.2.3"
	defer func() { Version = saved }()

	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--version returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "1.2.3") {
		t.Errorf("Expected version in output, got: %s", buf.String())
	}
}
