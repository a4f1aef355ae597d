package common

import (
	"errors"
	"path"
	"regexp"
	"strings"
)

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

// SlugifyPath turns a wiki file path into a note slug. The root directory
// and the markdown extension are dropped, nested folders are kept:
// "wiki/Team/On-boarding.md" with root "wiki" becomes "team/on-boarding".
func SlugifyPath(filePath, root string) (string, error) {
	p := strings.TrimPrefix(path.Clean("/"+filePath), path.Clean("/"+root))
	p = strings.TrimSuffix(p, path.Ext(p))

	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if s := slugify(seg); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", ErrEmptySlug
	}
	return strings.Join(parts, "/"), nil
}

func slugify(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}
