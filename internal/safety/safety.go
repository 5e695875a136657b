// Package safety flags commands likely to cause irreversible or destructive
// effects. Classification is pure and deterministic: no remote calls, no
// side effects, so it can run before every execution attempt and inside
// simulation. The rule set is plain ordered data so it stays independently
// testable and extensible.
package safety

import "strings"

// destructiveCommands match when the name appears at the start of the
// command, immediately after a pipe, or immediately after "sudo ".
var destructiveCommands = []string{
	// File deletion
	"rm", "rmdir", "unlink", "shred",
	// System control
	"shutdown", "reboot", "poweroff", "halt", "init",
	// Disk/filesystem
	"mkfs", "fdisk", "parted", "dd", "format", "mkswap",
	// Package management removals
	"apt-get remove", "apt remove", "apt-get purge", "apt purge",
	"yum remove", "dnf remove", "pacman -r",
	// Permission/ownership
	"chmod 777", "chmod -r", "chown -r", "chgrp -r",
	// Network
	"iptables -f", "ufw disable",
	// Process control
	"kill -9", "killall", "pkill",
	// Fork bomb
	":(){",
	// User management
	"userdel", "deluser", "passwd",
	// Elevated privileges
	"sudo",
}

// destructivePatterns match anywhere in the command.
var destructivePatterns = []string{
	"> /dev/", ">/dev/",
	"> /etc/", ">/etc/",
	"> /boot/", ">/boot/",
	"| rm", "|rm",
	"| dd", "|dd",
	"rf /", "rf ~/", "rf ~", "rf .",
	"mv /* ", "mv / ",
	"> /",
	"| tee /", "|tee /",
	"chmod 000",
	":(){ :",
	"/dev/null >",
	"/dev/zero",
	"/dev/random",
}

// sudoVerbs trigger the compound rule: sudo anywhere plus any of these
// anywhere, independent of position.
var sudoVerbs = []string{"rm", "dd", "mkfs", "chmod", "chown", "mv", "cp"}

// Verdict is the classification result. Matched holds the identifiers of
// the rules that fired; callers use them only for logging and UI.
type Verdict struct {
	Dangerous bool
	Matched   []string
}

// Check classifies a command. The input is lowercased first; both rule
// families are evaluated and every match is reported.
func Check(command string) Verdict {
	lower := strings.ToLower(command)
	var matched []string

	for _, name := range destructiveCommands {
		if strings.HasPrefix(lower, name) ||
			strings.Contains(lower, "| "+name) ||
			strings.Contains(lower, "|"+name) ||
			strings.Contains(lower, "sudo "+name) {
			matched = append(matched, "command:"+name)
		}
	}

	for _, pattern := range destructivePatterns {
		if strings.Contains(lower, pattern) {
			matched = append(matched, "pattern:"+pattern)
		}
	}

	if strings.Contains(lower, "sudo") {
		for _, verb := range sudoVerbs {
			if strings.Contains(lower, verb) {
				matched = append(matched, "sudo+"+verb)
			}
		}
	}

	return Verdict{Dangerous: len(matched) > 0, Matched: matched}
}
