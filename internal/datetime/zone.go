package datetime

import (
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"
)

// zoneDirs are the zoneinfo trees searched for case-insensitive matches,
// in the order the time package searches them.
var zoneDirs = []string{
	"/usr/share/zoneinfo/",
	"/usr/share/lib/zoneinfo/",
	"/usr/lib/locale/TZ/",
	"/etc/zoneinfo/",
}

// LoadZone resolves an IANA zone name ignoring case, so "utc" and
// "europe/berlin" find UTC and Europe/Berlin. The empty name and "Local"
// are refused because time.LoadLocation maps them to the host zone.
func LoadZone(name string) (*time.Location, bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "Local") {
		return nil, false
	}
	if strings.EqualFold(name, "UTC") {
		return time.UTC, true
	}

	candidates := []string{name, canonicalZoneName(name), strings.ToUpper(name)}
	if canonical, ok := zoneIndex()[strings.ToLower(name)]; ok {
		candidates = append(candidates, canonical)
	}
	for _, candidate := range candidates {
		if loc, err := time.LoadLocation(candidate); err == nil {
			return loc, true
		}
	}
	return nil, false
}

// canonicalZoneName capitalises each word of a zone name the way most IANA
// names are written: "america/new_york" becomes "America/New_York".
func canonicalZoneName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if upper {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
		upper = r == '/' || r == '_' || r == '-'
	}
	return b.String()
}

// zoneIndex maps lowercased zone names found in the local zoneinfo trees to
// their spelling on disk. It covers names canonicalZoneName gets wrong,
// such as America/Port-au-Prince. The index is empty on hosts without a
// zoneinfo tree; the embedded database still serves exact names.
var zoneIndex = sync.OnceValue(func() map[string]string {
	index := map[string]string{}
	dirs := zoneDirs
	if dir := os.Getenv("ZONEINFO"); dir != "" {
		dirs = append([]string{dir}, dirs...)
	}
	for _, dir := range dirs {
		_ = fs.WalkDir(os.DirFS(dir), ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path == "posix" || path == "right" {
					return fs.SkipDir
				}
				return nil
			}
			// Zone files start with an upper-case letter; zone.tab and
			// friends do not.
			if !unicode.IsUpper(rune(d.Name()[0])) {
				return nil
			}
			key := strings.ToLower(path)
			if _, seen := index[key]; !seen {
				index[key] = path
			}
			return nil
		})
	}
	return index
})
