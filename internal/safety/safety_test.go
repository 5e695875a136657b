package safety

import "testing"

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		command   string
		dangerous bool
	}{
		{"recursive rm under sudo", "sudo rm -rf /tmp/x", true},
		{"world writable etc file", "chmod 777 /etc/passwd", true},
		{"raw disk write", "dd if=/dev/zero of=/dev/sda", true},
		{"plain listing", "ls -la /home", false},
		{"sudo move compound", "sudo mv file1 file2", true},
		{"plain rm", "rm notes.txt", true},
		{"rm after pipe", "find . -name '*.tmp' | rm", true},
		{"fork bomb", ":(){ :|:& };:", true},
		{"redirect into etc", "echo x > /etc/hosts", true},
		{"shutdown", "shutdown -h now", true},
		{"uppercase still matches", "SUDO RM -RF /", true},
		{"grep is fine", "grep -r TODO src/", false},
		{"word containing rm prefix", "du -sh /var", false},
		{"cat a file", "cat /etc/hostname", false},
		{"empty command", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.command)
			if got.Dangerous != tt.dangerous {
				t.Errorf("Check(%q).Dangerous = %v, want %v (matched %v)",
					tt.command, got.Dangerous, tt.dangerous, got.Matched)
			}
			if got.Dangerous && len(got.Matched) == 0 {
				t.Errorf("Check(%q) dangerous but no matched rules", tt.command)
			}
		})
	}
}

func TestCheckReportsAllMatches(t *testing.T) {
	got := Check("sudo rm -rf /")
	if len(got.Matched) < 2 {
		t.Fatalf("expected multiple matched rules, got %v", got.Matched)
	}

	want := map[string]bool{"command:rm": false, "command:sudo": false, "sudo+rm": false}
	for _, m := range got.Matched {
		if _, ok := want[m]; ok {
			want[m] = true
		}
	}
	for rule, seen := range want {
		if !seen {
			t.Errorf("expected rule %q to fire, matched = %v", rule, got.Matched)
		}
	}
}

func TestCheckSudoCompound(t *testing.T) {
	// mv alone is not destructive; sudo plus mv is.
	if Check("mv a b").Dangerous {
		t.Fatal("plain mv should not be flagged")
	}
	got := Check("sudo mv a b")
	if !got.Dangerous {
		t.Fatal("sudo mv should be flagged")
	}
	found := false
	for _, m := range got.Matched {
		if m == "sudo+mv" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected sudo+mv in matched rules, got %v", got.Matched)
	}
}
