package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

// Tenant document storage over a Supabase-style object REST API.
// Configuration via environment variables:
// DOC_STORAGE_URL, DOC_STORAGE_KEY, DOC_STORAGE_BUCKET (optional).

const defaultDocBucket = "tenant-documents"

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

var (
	docStorageURL    string
	docStorageKey    string
	docStorageBucket string
)

func InitializeObjectStorage() {
	docStorageURL = strings.TrimRight(strings.TrimSpace(os.Getenv("DOC_STORAGE_URL")), "/")
	docStorageKey = strings.TrimSpace(os.Getenv("DOC_STORAGE_KEY"))
	docStorageBucket = strings.TrimSpace(os.Getenv("DOC_STORAGE_BUCKET"))
	if docStorageBucket == "" {
		docStorageBucket = defaultDocBucket
	}
	if ObjectStorageConfigured() {
		fmt.Printf("Document storage configured - bucket: %s\n", docStorageBucket)
	}
}

func ObjectStorageConfigured() bool {
	return docStorageURL != "" && docStorageKey != ""
}

// SanitizeFileName strips characters that are unsafe in an object path.
func SanitizeFileName(name string) string {
	cleaned := unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
	if cleaned == "" {
		cleaned = "document"
	}
	return cleaned
}

// DocumentPath namespaces an object under the shared row and owning tenant.
func DocumentPath(rowID, tenantID, fileName string) string {
	return fmt.Sprintf("%s/%s/%d-%s", rowID, tenantID, time.Now().UnixMilli(), SanitizeFileName(fileName))
}

// UploadDocument uploads file bytes and returns the public URL of the
// stored object.
func UploadDocument(path string, data []byte, contentType string) (string, error) {
	if !ObjectStorageConfigured() {
		return "", fmt.Errorf("document storage is not configured")
	}

	endpoint := docStorageURL + "/storage/v1/object/" + docStorageBucket + "/" + path
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+docStorageKey)
	req.Header.Set("x-upsert", "true")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("document upload failed with status %d: %s", res.StatusCode, string(body))
	}

	return PublicDocumentURL(path), nil
}

// PublicDocumentURL returns the unauthenticated read URL for a stored path.
func PublicDocumentURL(path string) string {
	return docStorageURL + "/storage/v1/object/public/" + docStorageBucket + "/" + path
}

// DeleteDocument removes one stored object. Deletion is best-effort; callers
// log the error and move on.
func DeleteDocument(path string) error {
	if !ObjectStorageConfigured() || path == "" {
		return nil
	}

	endpoint := docStorageURL + "/storage/v1/object/" + docStorageBucket + "/" + path
	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+docStorageKey)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("document delete failed with status %d: %s", res.StatusCode, string(body))
	}
	return nil
}
