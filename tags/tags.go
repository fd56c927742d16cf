/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tags

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/suparena/resourcekit/errors"
)

// EscapeFunc renders a value for the target of the expanded template.
type EscapeFunc func(value any) string

var tagPattern = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// Names returns the distinct tag names of a template in order of appearance.
func Names(template string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range tagPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Expand replaces every {{key}} tag of template by the escaped value of key.
// A tag without value fails the whole expansion with errors.KindSupernumerousTag;
// a partially expanded template is never returned.
func Expand(template string, values map[string]any, escape EscapeFunc) (string, error) {
	if escape == nil {
		escape = Plain
	}
	var missing []string
	expanded := tagPattern.ReplaceAllStringFunc(template, func(tag string) string {
		key := tagPattern.FindStringSubmatch(tag)[1]
		val, ok := values[key]
		if !ok {
			missing = append(missing, key)
			return tag
		}
		return escape(val)
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", errors.New(errors.KindSupernumerousTag, "tags.Expand", "no value for %s", strings.Join(missing, ", "))
	}
	return expanded, nil
}

// Plain renders values with their default format.
func Plain(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
