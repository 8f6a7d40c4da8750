package api

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// createPostRequest names the mirror document to create a post from. All
// metadata fields are optional overrides of the frontmatter/generated values.
type createPostRequest struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	CoverImage  string   `json:"coverImage"`
}

func (r createPostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug, validation.Required, validation.Length(1, 200), validation.Match(slugPattern)),
		validation.Field(&r.Title, validation.Length(0, 300)),
	)
}

// updatePostRequest carries partial updates; absent fields stay untouched.
type updatePostRequest struct {
	Title       *string    `json:"title"`
	Category    *string    `json:"category"`
	Tags        []string   `json:"tags"`
	Description *string    `json:"description"`
	CoverImage  *string    `json:"coverImage"`
	SeriesID    *uuid.UUID `json:"seriesId"`
}

func (r updatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 300)),
	)
}

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (r categoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Color, validation.Match(colorPattern)),
	)
}

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (r tagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Color, validation.Match(colorPattern)),
	)
}

type seriesRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImage"`
	Color       string  `json:"color"`
}

func (r seriesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Color, validation.Match(colorPattern)),
	)
}
