// Package distro identifies the running Linux distribution so that rules
// gated on a distros list can be filtered up front.
package distro

import (
	"os"
	"strings"
)

const osReleasePath = "/etc/os-release"

// Distro holds the ID and ID_LIKE fields from os-release.
type Distro struct {
	ID     string
	IDLike []string
}

// Detect reads /etc/os-release. A missing or unreadable file yields a zero
// Distro, which matches only rules without a distros list.
func Detect() Distro {
	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return Distro{}
	}
	return Parse(string(data))
}

// Parse extracts ID and ID_LIKE from os-release content.
func Parse(content string) Distro {
	var d Distro
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		switch key {
		case "ID":
			d.ID = value
		case "ID_LIKE":
			d.IDLike = strings.Fields(value)
		}
	}
	return d
}

// Identifiers returns the lowercase identifiers for rule matching, the
// distro's own ID first.
func (d Distro) Identifiers() []string {
	ids := make([]string, 0, 1+len(d.IDLike))
	if d.ID != "" {
		ids = append(ids, strings.ToLower(d.ID))
	}
	for _, like := range d.IDLike {
		ids = append(ids, strings.ToLower(like))
	}
	return ids
}
