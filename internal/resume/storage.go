// Persist uploaded base résumés under a per-user directory and pull the
// raw text out so the tailoring prompt can embed it.

package resume

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

type Storage struct {
	dataDir string
}

func NewStorage(dataDir string) *Storage {
	return &Storage{dataDir: dataDir}
}

// Save writes the uploaded file to {dataDir}/resumes/{userID}/base_resume{ext}
// (extension preserved) and returns the stored path plus the extracted text.
func (s *Storage) Save(userID uint, header *multipart.FileHeader) (path string, content string, err error) {
	file, err := header.Open()
	if err != nil {
		return "", "", errors.Wrap(err, "failed to open uploaded résumé")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to read uploaded résumé")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	dir := filepath.Join(s.dataDir, "resumes", fmt.Sprint(userID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", errors.Wrap(err, "failed to create résumé directory")
	}

	path = filepath.Join(dir, "base_resume"+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", "", errors.Wrap(err, "failed to store résumé file")
	}

	content, err = ExtractText(data, ext)
	if err != nil {
		return "", "", err
	}
	return path, content, nil
}

// ExtractText converts the stored bytes into plain text. PDFs go through a
// text extractor; everything else is treated as text already.
func ExtractText(data []byte, ext string) (string, error) {
	if ext != ".pdf" {
		return string(data), nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "failed to read PDF résumé")
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return "", errors.New("no text could be extracted from PDF résumé")
	}
	return sb.String(), nil
}
