package main

import "testing"

// TestCommands_Wiring is a smoke test for the command table main() wires
// into the CLI: it doesn't invoke main (which calls os.Exit), but it
// verifies the commands list itself is well-formed, the way a test of a
// hand-built switch statement would, without spawning a subprocess.
func TestCommands_Wiring(t *testing.T) {
	want := []string{"asm", "exec", "disasm"}

	if len(commands) != len(want) {
		t.Fatalf("want %d commands, got %d", len(want), len(commands))
	}

	seen := make(map[string]bool, len(commands))

	for i, cmd := range commands {
		name := cmd.FlagSet().Name()

		if name != want[i] {
			t.Errorf("command %d: want name %q, got %q", i, want[i], name)
		}

		if seen[name] {
			t.Errorf("duplicate command name %q", name)
		}

		seen[name] = true

		if cmd.Description() == "" {
			t.Errorf("command %q has no description", name)
		}
	}
}
