package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"rental-manager-server/models"
	"rental-manager-server/storage"
)

// Budgets for inline documents when object storage is not configured. The
// whole state blob has to fit the snapshot quota, so attachments are capped
// per file and in total.
const (
	localDocSingleFileLimit = 700 * 1024
	localDocTotalLimit      = 3 * 1024 * 1024
)

var ErrDocumentTooLarge = errors.New("attached document exceeds the local storage budget")

// DocumentUpload is one attachment submitted with a tenant form, as a named
// data URL.
type DocumentUpload struct {
	Name    string `json:"name" validate:"required"`
	DataURL string `json:"dataUrl" validate:"required"`
}

// PrepareDocuments turns uploads into stored documents. With object storage
// configured, files are decoded and uploaded under rowID/tenantID and only
// the path and public URL are kept. Otherwise files stay inline, subject to
// the per-file and total budgets (existingBytes counts attachments the
// tenant already holds).
func PrepareDocuments(rowID, tenantID string, uploads []DocumentUpload, existingBytes int) ([]models.Document, error) {
	documents := []models.Document{}
	totalBytes := existingBytes

	for _, upload := range uploads {
		if storage.ObjectStorageConfigured() {
			contentType, data, err := decodeDataURL(upload.DataURL)
			if err != nil {
				return nil, fmt.Errorf("document %q: %w", upload.Name, err)
			}
			path := storage.DocumentPath(rowID, tenantID, upload.Name)
			url, err := storage.UploadDocument(path, data, contentType)
			if err != nil {
				return nil, fmt.Errorf("document %q: %w", upload.Name, err)
			}
			documents = append(documents, models.Document{Name: upload.Name, Path: path, URL: url})
			continue
		}

		doc := models.Document{Name: upload.Name, DataURL: upload.DataURL}
		size := doc.ApproxBytes()
		if size > localDocSingleFileLimit {
			return nil, ErrDocumentTooLarge
		}
		totalBytes += size
		if totalBytes > localDocTotalLimit {
			return nil, ErrDocumentTooLarge
		}
		documents = append(documents, doc)
	}

	return documents, nil
}

// StoredDocumentBytes sums the approximate inline size of a tenant's
// current attachments.
func StoredDocumentBytes(documents []models.Document) int {
	total := 0
	for _, doc := range documents {
		total += doc.ApproxBytes()
	}
	return total
}

// DeleteTenantDocuments removes remote attachments best-effort. Failures
// are logged, never propagated; the state save that dropped the references
// does not wait for them.
func DeleteTenantDocuments(documents []models.Document) {
	for _, doc := range documents {
		if !doc.Remote() {
			continue
		}
		if err := storage.DeleteDocument(doc.Path); err != nil {
			log.Printf("best-effort delete of document %s failed: %v", doc.Path, err)
		}
	}
}

// decodeDataURL splits "data:<type>;base64,<payload>" into its content type
// and raw bytes. A bare base64 string is accepted too.
func decodeDataURL(dataURL string) (string, []byte, error) {
	payload := dataURL
	contentType := "application/octet-stream"
	if i := strings.Index(dataURL, ","); i != -1 {
		header := dataURL[:i]
		payload = dataURL[i+1:]
		header = strings.TrimPrefix(header, "data:")
		if j := strings.Index(header, ";"); j != -1 {
			header = header[:j]
		}
		if header != "" {
			contentType = header
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return contentType, data, nil
}
