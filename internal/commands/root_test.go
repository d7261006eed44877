package commands

import "testing"

func TestRootHasSubcommands(t *testing.T) {
	want := map[string]bool{"chat": false, "config": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"output", "file", "image", "version"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("missing persistent flag --verbose")
	}
}

func TestConfigHasSubcommands(t *testing.T) {
	want := map[string]bool{"show": false, "set": false}
	for _, cmd := range configCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing config subcommand %q", name)
		}
	}
}
