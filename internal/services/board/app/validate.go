package app

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/louisbranch/liftboard/internal/platform/password"
)

// Input limits, in runes unless noted.
const (
	MaxNameLength        = 64
	MaxBioLength         = 280
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
	MaxLiftLength        = 64
	MaxWeight            = 2000
	MaxCommentLength     = 1000
	// DefaultMaxThumbnailBytes is the upload cap when none is configured.
	DefaultMaxThumbnailBytes = 10 << 20
)

var thumbnailTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type profileFields struct {
	Name string
	Bio  string
}

func normalizeProfile(name string, bio string) (profileFields, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return profileFields{}, invalid("name", "missing name")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return profileFields{}, invalid("name", "name must be at most %d characters", MaxNameLength)
	}
	bio = strings.TrimSpace(bio)
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return profileFields{}, invalid("bio", "bio must be at most %d characters", MaxBioLength)
	}
	return profileFields{Name: name, Bio: bio}, nil
}

func validatePassword(plain string) error {
	if plain == "" {
		return invalid("password", "missing password")
	}
	if len(plain) < password.MinLength {
		return invalid("password", "password must be at least %d characters", password.MinLength)
	}
	return nil
}

type postFields struct {
	Title       string
	Description string
	Lift        string
	Weight      int
}

func normalizePost(input PostInput) (postFields, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return postFields{}, invalid("title", "missing title")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return postFields{}, invalid("title", "title must be at most %d characters", MaxTitleLength)
	}
	description := strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return postFields{}, invalid("description", "description must be at most %d characters", MaxDescriptionLength)
	}
	lift := strings.TrimSpace(input.Lift)
	if lift == "" {
		return postFields{}, invalid("lift", "missing lift")
	}
	if utf8.RuneCountInString(lift) > MaxLiftLength {
		return postFields{}, invalid("lift", "lift must be at most %d characters", MaxLiftLength)
	}
	weight, err := strconv.Atoi(strings.TrimSpace(input.Weight))
	if err != nil || weight < 0 || weight > MaxWeight {
		return postFields{}, invalid("weight", "weight must be a whole number between 0 and %d", MaxWeight)
	}
	return postFields{Title: title, Description: description, Lift: lift, Weight: weight}, nil
}

func normalizeComment(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", invalid("body", "missing comment")
	}
	if utf8.RuneCountInString(body) > MaxCommentLength {
		return "", invalid("body", "comment must be at most %d characters", MaxCommentLength)
	}
	return body, nil
}

// sniffThumbnail returns the detected image type for data.
func sniffThumbnail(data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", invalid("thumbnail", "Insert an image")
	}
	if int64(len(data)) > maxBytes {
		return "", invalid("thumbnail", "image must be at most %d bytes", maxBytes)
	}
	contentType := http.DetectContentType(data)
	if !thumbnailTypes[contentType] {
		return "", invalid("thumbnail", "image must be a JPEG, PNG, GIF or WebP file")
	}
	return contentType, nil
}
