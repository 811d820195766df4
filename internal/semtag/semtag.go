// Package semtag parses and increments release tags of the form
// <prefix><major>.<minor>.<patch> (default prefix "v").
package semtag

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPrefix is the conventional tag prefix.
const DefaultPrefix = "v"

var (
	// ErrNoTag is returned when there is no tag to parse.
	ErrNoTag = errors.New("no tag found")

	// ErrInvalidTag is returned when a tag does not carry three numeric components.
	ErrInvalidTag = errors.New("tag is not of the form <prefix>MAJOR.MINOR.PATCH")
)

// Tag is a parsed semantic-version tag.
type Tag struct {
	Prefix string
	Major  int
	Minor  int
	Patch  int
}

// Parse parses raw as a tag with the given prefix. Text after the patch
// component (a pre-release or build suffix) is ignored. All three numeric
// components are required; "v1.2" is rejected.
func Parse(raw, prefix string) (Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Tag{}, ErrNoTag
	}

	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\d+)\.(\d+)\.(\d+)`)
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return Tag{}, fmt.Errorf("%w: %q", ErrInvalidTag, raw)
	}

	var nums [3]int
	for i := range nums {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Tag{}, fmt.Errorf("%w: %q: %v", ErrInvalidTag, raw, err)
		}
		nums[i] = n
	}

	return Tag{Prefix: prefix, Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// NextPatch returns the tag with its patch component incremented by one.
// Major and minor are unchanged.
func (t Tag) NextPatch() Tag {
	t.Patch++
	return t
}

// String formats the tag as <prefix><major>.<minor>.<patch>.
func (t Tag) String() string {
	return fmt.Sprintf("%s%d.%d.%d", t.Prefix, t.Major, t.Minor, t.Patch)
}

// Latest returns the last non-empty line of a newline separated tag
// listing, which is the newest tag when the listing is sorted ascending.
func Latest(listing string) string {
	lines := strings.Split(strings.TrimSpace(listing), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
