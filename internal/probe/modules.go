package probe

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TopModuleCount is the number of modules published by TopModules.
const TopModuleCount = 10

// ParseModules parses `lsmod` output. The header line and rows that do not
// have a name, numeric size and numeric use count are skipped.
func ParseModules(text string) []ModuleRecord {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	var mods []ModuleRecord
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		size, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		used, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}

		mod := ModuleRecord{
			Name:      fields[0],
			SizeBytes: size,
			UseCount:  used,
		}
		if len(fields) > 3 {
			for _, dep := range strings.Split(strings.Join(fields[3:], ","), ",") {
				if dep != "" && dep != "-" {
					mod.UsedBy = append(mod.UsedBy, dep)
				}
			}
		}
		mods = append(mods, mod)
	}
	return mods
}

// RankModules returns up to n modules ordered by use count, highest first.
// Modules with equal use counts keep their input order.
func RankModules(mods []ModuleRecord, n int) []ModuleRecord {
	ranked := make([]ModuleRecord, len(mods))
	copy(ranked, mods)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].UseCount > ranked[j].UseCount
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopModules returns the most referenced loaded modules with best-effort
// versions.
func (r *Resolver) TopModules(ctx context.Context) ([]ModuleRecord, error) {
	out, ok := r.run(ctx, "lsmod")
	if !ok {
		return nil, fmt.Errorf("list modules: lsmod: %w", ErrUnavailable)
	}

	mods := RankModules(ParseModules(out), TopModuleCount)
	for i := range mods {
		mods[i].Version, mods[i].HasVersion = r.ModuleVersion(ctx, mods[i].Name)
	}
	return mods, nil
}
