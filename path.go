// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// StepKind discriminates path steps.
type StepKind uint8

const (
	// StepKey addresses an object property by name.
	StepKey StepKind = iota
	// StepIndex addresses an array element by position.
	StepIndex
	// StepVariant addresses one alternative of a oneOf/anyOf combinator.
	StepVariant
)

// Step is one element of a Path.
type Step struct {
	// Key is the property name for StepKey and the combinator keyword for StepVariant.
	Key string
	// Index is the element position for StepIndex and the alternative position for StepVariant.
	Index int
	Kind  StepKind
}

// Path addresses a location inside a schema tree.
// The zero value is the root path. Path values are immutable: every
// extending method returns a new Path sharing no backing storage.
type Path struct {
	steps []Step
}

// RootPath returns the empty path.
func RootPath() Path {
	return Path{}
}

// Key returns path extended with a property step.
func (path Path) Key(name string) Path {
	return path.with(Step{Kind: StepKey, Key: name})
}

// Index returns path extended with an array index step.
func (path Path) Index(index int) Path {
	return path.with(Step{Kind: StepIndex, Index: index})
}

// Variant returns path extended with a combinator discriminator step.
func (path Path) Variant(keyword string, index int) Path {
	return path.with(Step{Kind: StepVariant, Key: keyword, Index: index})
}

func (path Path) with(step Step) Path {
	steps := make([]Step, len(path.steps), len(path.steps)+1)
	copy(steps, path.steps)
	return Path{steps: append(steps, step)}
}

// Steps returns a copy of the path steps.
func (path Path) Steps() []Step {
	return slices.Clone(path.steps)
}

// Len returns number of steps.
func (path Path) Len() int {
	return len(path.steps)
}

// IsRoot reports whether path has no steps.
func (path Path) IsRoot() bool {
	return len(path.steps) == 0
}

// Last returns final step; ok is false for the root path.
func (path Path) Last() (Step, bool) {
	if len(path.steps) == 0 {
		return Step{}, false
	}

	return path.steps[len(path.steps)-1], true
}

// Parent returns path without its final step. Parent of root is root.
func (path Path) Parent() Path {
	if len(path.steps) == 0 {
		return path
	}

	return Path{steps: slices.Clone(path.steps[:len(path.steps)-1])}
}

// Equal reports whether both paths have identical step sequences.
func (path Path) Equal(other Path) bool {
	return slices.Equal(path.steps, other.steps)
}

// HasPrefix reports whether prefix is an ancestor of path or equal to it.
func (path Path) HasPrefix(prefix Path) bool {
	if len(prefix.steps) > len(path.steps) {
		return false
	}

	return slices.Equal(path.steps[:len(prefix.steps)], prefix.steps)
}

// HasVariant reports whether any step is a combinator discriminator.
func (path Path) HasVariant() bool {
	return slices.ContainsFunc(path.steps, func(step Step) bool {
		return step.Kind == StepVariant
	})
}

// WithoutVariants drops discriminator steps, mapping a variant path onto
// the location it shares with the primary projection.
func (path Path) WithoutVariants() Path {
	out := make([]Step, 0, len(path.steps))
	for _, step := range path.steps {
		if step.Kind == StepVariant {
			continue
		}

		out = append(out, step)
	}

	return Path{steps: out}
}

// String returns canonical form, e.g. "service.ports[0].name" or "auth.oneOf[1].token".
func (path Path) String() string {
	var out strings.Builder
	for i, step := range path.steps {
		switch step.Kind {
		case StepIndex:
			out.WriteByte('[')
			out.WriteString(strconv.Itoa(step.Index))
			out.WriteByte(']')
		case StepVariant:
			if i > 0 {
				out.WriteByte('.')
			}

			out.WriteString(step.Key)
			out.WriteByte('[')
			out.WriteString(strconv.Itoa(step.Index))
			out.WriteByte(']')
		default:
			if i > 0 {
				out.WriteByte('.')
			}

			out.WriteString(quotePathKey(step.Key))
		}
	}

	return out.String()
}

// combinatorKeywords lists keywords used by variant discriminator steps.
var combinatorKeywords = []string{"oneOf", "anyOf", "allOf"}

// quotePathKey wraps keys that would be ambiguous in canonical form into single quotes.
func quotePathKey(key string) string {
	if key != "" && !strings.ContainsAny(key, ".[]' \t") && !slices.Contains(combinatorKeywords, key) {
		return key
	}

	return "'" + strings.ReplaceAll(strings.ReplaceAll(key, `\`, `\\`), "'", `\'`) + "'"
}

// ParsePath parses canonical path form produced by Path.String.
func ParsePath(text string) (Path, error) {
	path := Path{}
	pos := 0

	for pos < len(text) {
		if pos > 0 {
			switch text[pos] {
			case '.':
				pos++
			case '[':
			default:
				return Path{}, fmt.Errorf("%w %q: unexpected %q at %d", ErrParsePath, text, text[pos], pos)
			}
		}

		if pos >= len(text) {
			return Path{}, fmt.Errorf("%w %q: trailing separator", ErrParsePath, text)
		}

		switch text[pos] {
		case '[':
			index, next, err := parsePathIndex(text, pos)
			if err != nil {
				return Path{}, err
			}

			path.steps = append(path.steps, Step{Kind: StepIndex, Index: index})
			pos = next
		case '\'':
			key, next, err := parseQuotedPathKey(text, pos)
			if err != nil {
				return Path{}, err
			}

			path.steps = append(path.steps, Step{Kind: StepKey, Key: key})
			pos = next
		default:
			end := pos
			for end < len(text) && text[end] != '.' && text[end] != '[' {
				end++
			}

			key := text[pos:end]
			pos = end

			if slices.Contains(combinatorKeywords, key) && pos < len(text) && text[pos] == '[' {
				index, next, err := parsePathIndex(text, pos)
				if err != nil {
					return Path{}, err
				}

				path.steps = append(path.steps, Step{Kind: StepVariant, Key: key, Index: index})
				pos = next
				continue
			}

			path.steps = append(path.steps, Step{Kind: StepKey, Key: key})
		}
	}

	return path, nil
}

// parsePathIndex parses "[n]" starting at pos and returns index and next position.
func parsePathIndex(text string, pos int) (int, int, error) {
	end := strings.IndexByte(text[pos:], ']')
	if end < 0 {
		return 0, 0, fmt.Errorf("%w %q: unclosed index at %d", ErrParsePath, text, pos)
	}

	raw := text[pos+1 : pos+end]
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, 0, fmt.Errorf("%w %q: bad index %q", ErrParsePath, text, raw)
	}

	return index, pos + end + 1, nil
}

// parseQuotedPathKey parses "'key'" with backslash escapes starting at pos.
func parseQuotedPathKey(text string, pos int) (string, int, error) {
	var key strings.Builder
	for i := pos + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			if i+1 >= len(text) {
				return "", 0, fmt.Errorf("%w %q: dangling escape", ErrParsePath, text)
			}

			i++
			key.WriteByte(text[i])
		case '\'':
			return key.String(), i + 1, nil
		default:
			key.WriteByte(text[i])
		}
	}

	return "", 0, fmt.Errorf("%w %q: unclosed quote at %d", ErrParsePath, text, pos)
}
