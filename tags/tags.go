// Package tags finds tag markers embedded in test names and activity titles.
package tags

import "regexp"

// word is a run of letters and digits, optionally joined by single underscores,
// so a trailing underscore is not part of the tag (test_@smoke_#regression).
const word = `([[:alnum:]]+(?:_[[:alnum:]]+)*)`

var patterns = []string{
	`(?i)@` + word,
	`(?i)#` + word,
	`(?i)\[` + word + `\]`,
	`(?i)tag:` + word,
}

var expressions = compile(patterns)

func compile(patterns []string) []*regexp.Regexp {
	var expressions []*regexp.Regexp
	for _, pattern := range patterns {
		exp, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		expressions = append(expressions, exp)
	}
	return expressions
}

// Extract returns every tag found in text.
// Tags are ordered by pattern (@word, #word, [word], tag:word) and then by position,
// duplicates are kept.
func Extract(text string) []string {
	return extract(expressions, text)
}

func extract(expressions []*regexp.Regexp, text string) []string {
	var tags []string
	for _, exp := range expressions {
		for _, match := range exp.FindAllStringSubmatch(text, -1) {
			if len(match) < 2 || match[1] == "" {
				continue
			}
			tags = append(tags, match[1])
		}
	}
	return tags
}
