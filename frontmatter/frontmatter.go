// Package frontmatter parses and renders the YAML metadata block at the top
// of a markdown document.
//
// Block format:
//
//	---
//	title: "Post Title"
//	category: Backend
//	tags:
//	  - java
//	  - spring-boot
//	description: "Description"
//	coverImage: "https://..."
//	publishedAt: 2024-01-01T10:00:00
//	---
//
//	# Markdown content starts here...
package frontmatter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var blockPattern = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n?`)

// Accepted publishedAt formats, tried in order. First success wins.
var dateFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Record holds the recognized frontmatter fields. Every field is
// independently optional; a nil pointer means the key was absent, which is
// distinct from a present-but-empty string.
type Record struct {
	Title       *string
	Category    *string
	Tags        []string
	Description *string
	CoverImage  *string
	PublishedAt *time.Time
}

// HasMetadataBlock reports whether text starts with a delimiter line and a
// second delimiter occurs later.
func HasMetadataBlock(text string) bool {
	if !strings.HasPrefix(text, "---") {
		return false
	}
	return strings.Contains(text[3:], "---")
}

// Parse extracts and decodes the metadata block. It returns nil (never an
// error) when no block exists or the block is not valid YAML; a broken block
// is logged and treated as absent.
func Parse(text string) *Record {
	match := blockPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	var data map[string]any
	if err := yaml.Unmarshal([]byte(match[1]), &data); err != nil {
		log.Warn().Err(err).Msg("discarding unparseable frontmatter block")
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	return &Record{
		Title:       getString(data, "title"),
		Category:    getString(data, "category"),
		Tags:        getStringList(data, "tags"),
		Description: getString(data, "description"),
		CoverImage:  getString(data, "coverImage"),
		PublishedAt: getTime(data, "publishedAt"),
	}
}

// StripMetadataBlock returns the document body after the closing delimiter,
// trimmed. Text without a block is returned unchanged.
func StripMetadataBlock(text string) string {
	if !blockPattern.MatchString(text) {
		return text
	}
	return strings.TrimSpace(blockPattern.ReplaceAllString(text, ""))
}

// Serialize renders the record as the YAML lines between the delimiters.
// Rendering is deterministic: fixed key order, quoted scalars, tags emitted
// only when non-empty, coverImage always emitted, publishedAt rendered as
// the literal null when unset.
func Serialize(r *Record) string {
	if r == nil {
		return ""
	}

	var b strings.Builder

	if r.Title != nil {
		fmt.Fprintf(&b, "title: %q\n", *r.Title)
	}
	if r.Category != nil {
		fmt.Fprintf(&b, "category: %q\n", *r.Category)
	}
	if len(r.Tags) > 0 {
		b.WriteString("tags:\n")
		for _, tag := range r.Tags {
			fmt.Fprintf(&b, "  - %s\n", tag)
		}
	}
	if r.Description != nil {
		fmt.Fprintf(&b, "description: %q\n", *r.Description)
	}
	if r.CoverImage != nil && *r.CoverImage != "" {
		fmt.Fprintf(&b, "coverImage: %q\n", *r.CoverImage)
	} else {
		b.WriteString("coverImage: \"\"\n")
	}
	if r.PublishedAt != nil {
		fmt.Fprintf(&b, "publishedAt: %s\n", r.PublishedAt.Format(dateFormats[0]))
	} else {
		b.WriteString("publishedAt: null\n")
	}

	return b.String()
}

// Replace swaps the metadata block of text for the serialized record,
// keeping the body intact: StripMetadataBlock(Replace(text, r)) equals
// StripMetadataBlock(text) for any r.
func Replace(text string, r *Record) string {
	body := StripMetadataBlock(text)
	return "---\n" + Serialize(r) + "---\n\n" + body
}

func getString(data map[string]any, key string) *string {
	value, ok := data[key]
	if !ok || value == nil {
		return nil
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", value))
	return &s
}

func getStringList(data map[string]any, key string) []string {
	value, ok := data[key]
	if !ok || value == nil {
		return nil
	}

	if list, ok := value.([]any); ok {
		result := make([]string, 0, len(list))
		for _, item := range list {
			if item != nil {
				result = append(result, strings.TrimSpace(fmt.Sprintf("%v", item)))
			}
		}
		return result
	}

	// Scalar where a sequence was expected: coerce to one element.
	return []string{strings.TrimSpace(fmt.Sprintf("%v", value))}
}

func getTime(data map[string]any, key string) *time.Time {
	value, ok := data[key]
	if !ok || value == nil {
		return nil
	}

	// yaml.v3 resolves timestamp-shaped scalars to time.Time on its own.
	if t, ok := value.(time.Time); ok {
		return &t
	}

	s := strings.TrimSpace(fmt.Sprintf("%v", value))
	if strings.EqualFold(s, "null") {
		return nil
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return &t
		}
	}

	log.Warn().Str("value", s).Msg("could not parse publishedAt date")
	return nil
}
