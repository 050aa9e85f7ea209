package corpus

import (
	"regexp"
	"sort"
	"strings"
)

// classMarkers are the declaration patterns whose first group is a class-like
// identifier, per file extension.
var classMarkers = map[string][]*regexp.Regexp{
	"java": {regexp.MustCompile(`\bclass\s+(\w+)`)},
	"kt":   {regexp.MustCompile(`\bclass\s+(\w+)`), regexp.MustCompile(`\bobject\s+(\w+)`)},
	"scala": {
		regexp.MustCompile(`\bclass\s+(\w+)`),
		regexp.MustCompile(`\bobject\s+(\w+)`),
		regexp.MustCompile(`\btrait\s+(\w+)`),
	},
	"cs":  {regexp.MustCompile(`\bclass\s+(\w+)`)},
	"cpp": {regexp.MustCompile(`\bclass\s+(\w+)`), regexp.MustCompile(`\bstruct\s+(\w+)`)},
	"py":  {regexp.MustCompile(`(?m)^\s*class\s+(\w+)`)},
	"js":  {regexp.MustCompile(`\bclass\s+(\w+)`)},
	"ts":  {regexp.MustCompile(`\bclass\s+(\w+)`), regexp.MustCompile(`\binterface\s+(\w+)`)},
	"go":  {regexp.MustCompile(`\btype\s+(\w+)\s+(?:struct|interface)\b`)},
	"rs":  {regexp.MustCompile(`\bstruct\s+(\w+)`), regexp.MustCompile(`\btrait\s+(\w+)`)},
}

var extensionAliases = map[string]string{
	"jsx": "js",
	"tsx": "ts",
	"kts": "kt",
	"cc":  "cpp",
	"cxx": "cpp",
	"hpp": "cpp",
	"h":   "cpp",
}

// ClassNames returns the class-like identifiers declared in content, in
// order of appearance. Repeated declarations are kept: the result feeds a
// term frequency weighting.
func ClassNames(ext, content string) []string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if alias, ok := extensionAliases[ext]; ok {
		ext = alias
	}
	markers, ok := classMarkers[ext]
	if !ok {
		return nil
	}

	type match struct {
		pos  int
		name string
	}
	var matches []match
	for _, re := range markers {
		for _, loc := range re.FindAllStringSubmatchIndex(content, -1) {
			matches = append(matches, match{pos: loc[2], name: content[loc[2]:loc[3]]})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

// ClassCorpus joins the class names of content into a single text.
func ClassCorpus(ext, content string) string {
	return strings.Join(ClassNames(ext, content), " ")
}
