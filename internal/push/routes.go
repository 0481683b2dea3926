package push

import (
	"path"
	"sort"
	"strings"

	"backline.dev/launcher/internal/configloader"
)

// Route sends archive members under SrcPrefix to the absolute VM directory
// DstRoot instead of the default remote root.
type Route struct {
	SrcPrefix string
	DstRoot   string
}

// BuildRoutes converts the file_map configuration entries, dropping
// incomplete ones. Longer prefixes sort first so they are matched before
// the prefixes they contain.
func BuildRoutes(entries []configloader.FileMapEntry) (routes []Route) {
	for _, entry := range entries {
		srcPrefix := strings.Trim(NormalizeArcPath(entry.From), "/")
		dstRoot := strings.TrimSpace(entry.To)
		if srcPrefix == "" || dstRoot == "" {
			continue
		}
		routes = append(routes, Route{SrcPrefix: srcPrefix, DstRoot: dstRoot})
	}
	sort.SliceStable(routes, func(left, right int) bool {
		return len(routes[left].SrcPrefix) > len(routes[right].SrcPrefix)
	})
	return
}

// ResolveDestination returns the remote directory and the member path
// inside it for relPath: the first matching route wins, everything else
// lands under defaultRoot.
func ResolveDestination(relPath string, routes []Route, defaultRoot string) (remoteDir string, tail string) {
	normalized := NormalizeArcPath(relPath)
	for _, route := range routes {
		if normalized == route.SrcPrefix || strings.HasPrefix(normalized, route.SrcPrefix+"/") {
			return route.DstRoot, strings.TrimPrefix(strings.TrimPrefix(normalized, route.SrcPrefix), "/")
		}
	}
	return defaultRoot, normalized
}

// NormalizeArcPath turns an archive member name into a clean relative posix
// path: backslashes become slashes, leading `/` and `./` and doubled
// slashes are dropped.
func NormalizeArcPath(memberName string) string {
	normalized := strings.ReplaceAll(memberName, "\\", "/")
	for strings.HasPrefix(normalized, "/") || strings.HasPrefix(normalized, "./") {
		normalized = strings.TrimPrefix(strings.TrimPrefix(normalized, "/"), "./")
	}
	for strings.Contains(normalized, "//") {
		normalized = strings.ReplaceAll(normalized, "//", "/")
	}
	return normalized
}

// SafeJoin joins rel under root and reports whether the result stays inside
// root. Members whose path escapes the destination are skipped.
func SafeJoin(root string, rel string) (joined string, safe bool) {
	joined = path.Join(root, rel)
	safe = joined == root || strings.HasPrefix(joined, strings.TrimSuffix(root, "/")+"/")
	return
}

// FirstTopLevel returns the single top level directory shared by every
// member name, or the empty string when there is none.
func FirstTopLevel(names []string) string {
	top := ""
	for _, name := range names {
		currentTop := NormalizeArcPath(name)
		if slashIndex := strings.Index(currentTop, "/"); slashIndex >= 0 {
			currentTop = currentTop[:slashIndex]
		}
		if currentTop == "" {
			continue
		}
		if top == "" {
			top = currentTop
		} else if top != currentTop {
			return ""
		}
	}
	return top
}

// StripTop removes the shared top level directory from rel, returning the
// empty string when nothing remains.
func StripTop(rel string, top string) string {
	if top == "" {
		return rel
	}
	if rel == top {
		return ""
	}
	if strings.HasPrefix(rel, top+"/") {
		return rel[len(top)+1:]
	}
	return rel
}
