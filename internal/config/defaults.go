package config

// GetDefault returns the built-in rule set used when no config file exists.
func GetDefault() *Config {
	return &Config{
		Version: 1,
		Rules: []Rule{
			{
				ID:               "thumbnail-cache",
				Label:            "Thumbnail cache",
				Description:      "Image thumbnails regenerated on demand",
				Kind:             KindPaths,
				Paths:            []string{"~/.cache/thumbnails", "~/.thumbnails"},
				EnabledByDefault: true,
			},
			{
				ID:          "user-cache",
				Label:       "User cache",
				Description: "Application caches under ~/.cache",
				Kind:        KindPaths,
				Paths:       []string{"~/.cache"},
				ExcludeGlobs: []string{
					// Removing these forces full re-downloads rather than
					// freeing meaningfully stale data.
					"go-build",
					"pip",
				},
			},
			{
				ID:          "trash",
				Label:       "Trash",
				Description: "Files already moved to the freedesktop trash",
				Kind:        KindPaths,
				Paths: []string{
					"~/.local/share/Trash/files",
					"~/.local/share/Trash/info",
				},
			},
			{
				ID:               "downloads",
				Label:            "Downloads archives",
				Description:      "Archives with an already-extracted folder next to them",
				Kind:             KindDownloads,
				Paths:            []string{"~/Downloads"},
				EnabledByDefault: true,
			},
			{
				ID:               "user-logs",
				Label:            "User logs",
				Description:      "Old session and application logs in the home directory",
				Kind:             KindLogs,
				Paths:            []string{"~/.local/share/xorg", "~/.local/share/sddm"},
				OlderThanDays:    14,
				EnabledByDefault: true,
			},
			{
				ID:            "system-logs",
				Label:         "System logs",
				Description:   "Rotated logs under /var/log",
				Kind:          KindLogs,
				Paths:         []string{"/var/log"},
				OlderThanDays: 30,
				RequiresSudo:  true,
			},
			{
				ID:           "pacman-cache",
				Label:        "Pacman package cache",
				Kind:         KindPaths,
				Paths:        []string{"/var/cache/pacman/pkg"},
				RequiresSudo: true,
				Distros:      []string{"arch", "manjaro"},
			},
			{
				ID:           "apt-cache",
				Label:        "APT package cache",
				Kind:         KindPaths,
				Paths:        []string{"/var/cache/apt/archives"},
				ExcludeGlobs: []string{"lock", "partial"},
				RequiresSudo: true,
				Distros:      []string{"debian", "ubuntu"},
			},
			{
				ID:           "dnf-cache",
				Label:        "DNF package cache",
				Kind:         KindPaths,
				Paths:        []string{"/var/cache/dnf"},
				RequiresSudo: true,
				Distros:      []string{"fedora", "rhel"},
			},
		},
	}
}
