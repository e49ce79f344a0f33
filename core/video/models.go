package video

import (
	"bytes"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/tableview"
)

const (
	VisibilityPublic   = "public"
	VisibilityPrivate  = "private"
	VisibilityUnlisted = "unlisted"
)

var (
	Visibilities = []string{VisibilityPublic, VisibilityPrivate, VisibilityUnlisted}
	Languages    = []string{"English", "Bangla", "Spanish", "Hindi", "Urdu"}
	Categories   = []string{"Education", "Technology", "Travel", "Others"}

	// AllowedContentTypes are the detected types an upload may have.
	AllowedContentTypes = []string{"video/mp4", "video/x-matroska"}
)

// RecordingDateLayout is the layout of NewVideo.RecordingDate.
const RecordingDateLayout = "2006-01-02"

// Sortable fields of a Video; FilterField is the one the search box matches.
const (
	FieldTitle         = "title"
	FieldVisibility    = "visibility"
	FieldLanguage      = "language"
	FieldCategory      = "category"
	FieldRecordingDate = "recording_date"
	FieldSize          = "size"
	FieldCreatedAt     = "created_at"

	// FieldFile is the multipart field holding the video.
	FieldFile = "video"

	FilterField = FieldTitle
)

var DefaultSort = tableview.SortState{OrderBy: FieldCreatedAt, Order: tableview.Descending}

// upload errors
const (
	fileRequiredText = "Video file is required"
	fileTooLargeText = "Video file size should be less than 50MB"
	fileTypeText     = "Video file type should be .mp4 or .mkv"
)

// sniffLen is the number of leading bytes read to detect the content type.
const sniffLen = 3072

type Video struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Visibility    string    `json:"visibility" db:"visibility"`
	ThumbnailURL  string    `json:"thumbnail_url" db:"thumbnail_url"`
	Language      string    `json:"language" db:"language"`
	RecordingDate time.Time `json:"recording_date" db:"recording_date"`
	Category      string    `json:"category" db:"category"`
	FileName      string    `json:"file_name" db:"file_name"`
	ContentType   string    `json:"content_type" db:"content_type"`
	Size          int64     `json:"size" db:"size"`
	StoragePath   string    `json:"-" db:"storage_path"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
}

var _ tableview.Row = Video{}

func (v Video) RowID() string { return v.ID }

func (v Video) FieldValue(field string) (interface{}, bool) {
	switch field {
	case FieldTitle:
		return v.Title, true
	case FieldVisibility:
		return v.Visibility, true
	case FieldLanguage:
		return v.Language, true
	case FieldCategory:
		return v.Category, true
	case FieldRecordingDate:
		return v.RecordingDate, true
	case FieldSize:
		return v.Size, true
	case FieldCreatedAt:
		return v.CreatedAt, true
	}
	return nil, false
}

// NewVideo holds the metadata fields of an upload form.
type NewVideo struct {
	Title         string `json:"title" form:"title" validate:"required,max=200"`
	Description   string `json:"description" form:"description" validate:"required"`
	Visibility    string `json:"visibility" form:"visibility" validate:"required,visibility"`
	ThumbnailURL  string `json:"thumbnail_url" form:"thumbnailUrl" validate:"required,url"`
	Language      string `json:"language" form:"language" validate:"required,language"`
	RecordingDate string `json:"recording_date" form:"recordingDate" validate:"required"`
	Category      string `json:"category" form:"category" validate:"required,category"`

	recordingDate time.Time
}

func (nv *NewVideo) Validate(validate *validator.Validate) error {
	nv.Title = core.CleanString(nv.Title)
	nv.Description = core.CleanString(nv.Description)
	nv.Visibility = core.CleanString(nv.Visibility, true /* lower */)
	nv.ThumbnailURL = core.CleanString(nv.ThumbnailURL)
	nv.Language = core.CleanString(nv.Language)
	nv.RecordingDate = core.CleanString(nv.RecordingDate)
	nv.Category = core.CleanString(nv.Category)

	if err := validate.Struct(nv); err != nil {
		return err
	}

	date, err := time.Parse(RecordingDateLayout, nv.RecordingDate)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "recording_date", Error: "invalid date, use YYYY-MM-DD"})
	}
	nv.recordingDate = date
	return nil
}

// File is an uploaded video file.
type File struct {
	Name    string
	Size    int64
	Content io.Reader

	contentType string
}

// Validate checks that the file is present, small enough and a supported video.
// The detected content type is kept for storage; Content still yields the whole file.
func (f *File) Validate(maxSize int64) error {
	if f == nil || f.Content == nil || f.Size == 0 {
		return fileError(fileRequiredText)
	}
	if f.Size > maxSize {
		return fileError(fileTooLargeText)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f.Content, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	head = head[:n]
	f.Content = io.MultiReader(bytes.NewReader(head), f.Content)

	mt := mimetype.Detect(head)
	for _, allowed := range AllowedContentTypes {
		if mt.Is(allowed) {
			f.contentType = allowed
			return nil
		}
	}
	return fileError(fileTypeText)
}

// ContentType returns the type detected by Validate.
func (f *File) ContentType() string { return f.contentType }

func fileError(msg string) error {
	return core.NewValidationError(nil, core.FieldError{Field: FieldFile, Error: msg})
}

var (
	visibilityTag  = "visibility"
	visibilityText = "invalid visibility"

	languageTag  = "language"
	languageText = "unsupported language"

	categoryTag  = "category"
	categoryText = "invalid category"
)

// InitValidators registers the validators of this package.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterOneOf(validate, translator, visibilityTag, visibilityText, Visibilities)
	core.RegisterOneOf(validate, translator, languageTag, languageText, Languages)
	core.RegisterOneOf(validate, translator, categoryTag, categoryText, Categories)
}
