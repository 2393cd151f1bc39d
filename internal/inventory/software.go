package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tonhe/sysglance/internal/runner"
)

// packageManagers are probed in order; the first that runs cleanly wins.
var packageManagers = []struct {
	name string
	args []string
}{
	{"dpkg", []string{"-l"}},
	{"rpm", []string{"-qa"}},
	{"pacman", []string{"-Q"}},
}

var (
	gccVersionRe    = regexp.MustCompile(`gcc.*?(\d+\.\d+\.\d+)`)
	gitVersionRe    = regexp.MustCompile(`git version ([\d.]+)`)
	dockerVersionRe = regexp.MustCompile(`Docker version ([\d.]+)`)
)

type toolProbe struct {
	title string
	cmd   string
	parse func(string) (string, bool)
}

var toolProbes = []toolProbe{
	{"Python", "python3", ParsePythonVersion},
	{"Node.js", "node", ParseNodeVersion},
	{"GCC", "gcc", regexVersion(gccVersionRe, true)},
	{"Git", "git", regexVersion(gitVersionRe, false)},
	{"Docker", "docker", regexVersion(dockerVersionRe, false)},
}

// SoftwareProbe reports installed package counts, the login shell and the
// versions of common developer tools.
type SoftwareProbe struct {
	runner runner.Runner
	getenv func(string) string
}

// NewSoftwareProbe creates a SoftwareProbe reading the environment of the
// current process.
func NewSoftwareProbe(r runner.Runner) *SoftwareProbe {
	return &SoftwareProbe{runner: r, getenv: os.Getenv}
}

// CountPackages counts installed packages in a package manager listing.
// dpkg lists every known package, so only "ii" rows are installed.
func CountPackages(manager, text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if manager == "dpkg" {
			if strings.HasPrefix(line, "ii") {
				count++
			}
			continue
		}
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// ParsePythonVersion parses `python3 --version`.
func ParsePythonVersion(out string) (string, bool) {
	v := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "Python "))
	return v, v != ""
}

// ParseNodeVersion parses `node --version`.
func ParseNodeVersion(out string) (string, bool) {
	v := strings.TrimPrefix(strings.TrimSpace(out), "v")
	return v, v != ""
}

func regexVersion(re *regexp.Regexp, firstLineOnly bool) func(string) (string, bool) {
	return func(out string) (string, bool) {
		if firstLineOnly {
			out, _, _ = strings.Cut(out, "\n")
		}
		m := re.FindStringSubmatch(out)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

// Rows returns the software rows. Missing tools are left out.
func (p *SoftwareProbe) Rows(ctx context.Context) []Row {
	var rows []Row

	for _, pm := range packageManagers {
		out, err := p.runner.Run(ctx, pm.name, pm.args...)
		if err != nil || out.Failed() {
			continue
		}
		count := CountPackages(pm.name, out.Stdout)
		rows = append(rows, Row{
			Title:    "Packages",
			Subtitle: fmt.Sprintf("%d (%s)", count, pm.name),
			Icon:     "package",
			Category: Software,
		})
		break
	}

	if shell := strings.TrimSpace(p.getenv("SHELL")); shell != "" {
		rows = append(rows, Row{Title: "Shell", Subtitle: filepath.Base(shell), Icon: "utilities-terminal", Category: Software})
	}

	for _, tool := range toolProbes {
		out, err := p.runner.Run(ctx, tool.cmd, "--version")
		if err != nil || out.Failed() {
			continue
		}
		if v, ok := tool.parse(out.Stdout); ok {
			rows = append(rows, Row{Title: tool.title, Subtitle: v, Icon: "application-x-executable", Category: Software})
		}
	}
	return rows
}
