package ramjet

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"

	"github.com/tfkr-ae/ramjet/domain"
)

// siteRule is a compiled siteFlags entry.
type siteRule struct {
	Pattern *regexp.Regexp // Matched against the full address
	Flags   domain.Flags   // Flags the site overrides
}

// compileSites compiles the siteFlags patterns in ascending key order.
func compileSites(siteFlags map[string]domain.Flags) ([]siteRule, error) {
	patterns := make([]string, 0, len(siteFlags))
	for pattern := range siteFlags {
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns)

	rules := make([]siteRule, 0, len(patterns))
	for _, pattern := range patterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling site pattern %s : %w", pattern, err)
		}
		rules = append(rules, siteRule{
			Pattern: compiled,
			Flags:   siteFlags[pattern],
		})
	}
	return rules, nil
}

// FlagEnabled reports whether flag is on for u. The first site pattern (in ascending order)
// that matches u and sets flag decides; otherwise defaultFlags does. A nil u uses defaultFlags.
func (c *Controller) FlagEnabled(flag string, u *url.URL) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if u != nil {
		target := u.String()
		for _, rule := range c.sites {
			value, ok := rule.Flags[flag]
			if !ok {
				continue
			}
			if rule.Pattern.MatchString(target) {
				return value
			}
		}
	}
	return c.config.DefaultFlags.Enabled(flag)
}
