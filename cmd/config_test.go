package cmd

import (
	"strings"
	"testing"
)

func TestConfigCommand(t *testing.T) {
	env := newTestEnv(t, nil)

	out, err := env.run(t, "config", "get")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if !strings.Contains(out, "context-depth = 4") || !strings.Contains(out, "auto-connect = true") {
		t.Errorf("config get output = %q, want defaults", out)
	}

	steps := []struct {
		args []string
		key  string
		want string
	}{
		{args: []string{"config", "set", "context-depth", "6"}, key: "context-depth", want: "6"},
		{args: []string{"config", "set", "context-depth", "99"}, key: "context-depth", want: "8"},
		{args: []string{"config", "set", "context-depth", "1"}, key: "context-depth", want: "2"},
		{args: []string{"config", "set", "auto-connect", "false"}, key: "auto-connect", want: "false"},
	}

	for _, step := range steps {
		if _, err := env.run(t, step.args...); err != nil {
			t.Fatalf("%v failed: %v", step.args, err)
		}
		out, err := env.run(t, "config", "get", step.key)
		if err != nil {
			t.Fatalf("config get %s failed: %v", step.key, err)
		}
		if got := strings.TrimSpace(out); got != step.want {
			t.Errorf("after %v: %s = %q, want %q", step.args, step.key, got, step.want)
		}
	}
}

func TestConfigCommand_Errors(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown key", args: []string{"config", "set", "color", "blue"}},
		{name: "bad depth", args: []string{"config", "set", "context-depth", "many"}},
		{name: "bad bool", args: []string{"config", "set", "auto-connect", "sometimes"}},
		{name: "unknown get key", args: []string{"config", "get", "color"}},
		{name: "missing value", args: []string{"config", "set", "context-depth"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.run(t, tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}
