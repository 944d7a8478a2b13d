package media

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"

	"rentals/internal/errors"
)

const (
	// MaxImages is the number of images a single listing may carry.
	MaxImages = 5
	// MaxImageBytes caps the size of a single image.
	MaxImageBytes = 25 << 20

	jpegContentType = "image/jpeg"
)

// Payload is an image submitted with a listing.
type Payload struct {
	Filename    string
	ContentType string
	Body        []byte
}

// IsJPEG reports whether the declared media type is one of the JPEG variants.
func IsJPEG(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "image/jpeg" || mediaType == "image/jpg"
}

// StorageKey builds a collision-free object key from a fresh UUID and the base filename.
func StorageKey(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "image.jpg"
	}
	return uuid.New().String() + "-" + name
}

// FromMultipart reads uploaded files into payloads, enforcing MaxImages and MaxImageBytes.
func FromMultipart(files []*multipart.FileHeader) ([]Payload, error) {
	if len(files) > MaxImages {
		return nil, errors.ErrTooManyImages
	}
	payloads := make([]Payload, 0, len(files))
	for _, fh := range files {
		if fh.Size > MaxImageBytes {
			return nil, errors.ErrImageTooLarge
		}
		body, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, Payload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        body,
		})
	}
	return payloads, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if len(body) > MaxImageBytes {
		return nil, errors.ErrImageTooLarge
	}
	return body, nil
}
