package book

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CreateInput is the payload for creating a book.
type CreateInput struct {
	Title  string   `json:"title" validate:"required,max=200"`
	Author string   `json:"author" validate:"required,max=100"`
	Tags   []string `json:"tags" validate:"omitempty,dive,max=30"`
	Status Status   `json:"status" validate:"omitempty,oneof=want-to-read reading completed"`
	Notes  string   `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateInput is the payload for a partial update. Title, author and status
// only overwrite when non-empty; tags and notes overwrite whenever the
// pointer is set, so an explicit empty value clears the field.
type UpdateInput struct {
	Title  string    `json:"title" validate:"omitempty,max=200"`
	Author string    `json:"author" validate:"omitempty,max=100"`
	Tags   *[]string `json:"tags" validate:"omitempty,dive,max=30"`
	Status Status    `json:"status" validate:"omitempty,oneof=want-to-read reading completed"`
	Notes  *string   `json:"notes" validate:"omitempty,max=1000"`
}

// FieldError describes a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field of a create/update payload,
// never a partial list.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "validation failed: " + strings.Join(names, ", ")
}

// ValidateCreate checks every field constraint and returns a normalized
// book (trimmed title/author, defaulted status) on success.
func ValidateCreate(in CreateInput) (Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)

	if err := checkStruct(in); err != nil {
		return Book{}, err
	}

	status := in.Status
	if status == "" {
		status = StatusWantToRead
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	return Book{
		Title:  in.Title,
		Author: in.Author,
		Tags:   tags,
		Status: status,
		Notes:  in.Notes,
	}, nil
}

// ValidateUpdate checks the same per-field rules, but only for fields that
// were supplied. It returns the input with title/author trimmed.
func ValidateUpdate(in UpdateInput) (UpdateInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)

	if err := checkStruct(in); err != nil {
		return UpdateInput{}, err
	}
	return in, nil
}

// Merge applies a validated partial update onto the stored book. The two
// helpers are intentionally separate: text fields need a non-empty value to
// overwrite, optional fields overwrite whenever they were supplied.
func Merge(current Book, in UpdateInput) Book {
	current.Title = mergeText(current.Title, in.Title)
	current.Author = mergeText(current.Author, in.Author)
	current.Status = Status(mergeText(string(current.Status), string(in.Status)))
	current.Tags = mergeOptional(current.Tags, in.Tags)
	current.Notes = mergeOptional(current.Notes, in.Notes)
	return current
}

// mergeText keeps the current value unless the supplied one is non-empty.
func mergeText(current, supplied string) string {
	if supplied == "" {
		return current
	}
	return supplied
}

// mergeOptional keeps the current value unless the field was supplied at
// all, so an explicit empty slice or string does overwrite.
func mergeOptional[T any](current T, supplied *T) T {
	if supplied == nil {
		return current
	}
	return *supplied
}

// ApplyStatusTransition returns a copy of b with the status changed. The
// completion date is derived once: it is set when the book first reaches
// completed, and moving away from completed does not clear it.
func ApplyStatusTransition(b Book, status Status, now time.Time) Book {
	b.Status = status
	if status == StatusCompleted && b.DateCompleted == nil {
		completed := now
		b.DateCompleted = &completed
	}
	return b
}

func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verr := &ValidationError{}
	for _, fe := range err.(validator.ValidationErrors) {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   fieldName(fe),
			Message: fieldMessage(fe),
		})
	}
	return verr
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	// dive errors come through as Tags[0]; report the base field
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: want-to-read, reading, completed", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
