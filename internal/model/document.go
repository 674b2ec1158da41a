package model

import (
	"fmt"
	"time"
)

// AccessLevel is the visibility scope of a document.
type AccessLevel string

const (
	// AccessPrivate restricts a document to its uploader (and tenant admins).
	AccessPrivate AccessLevel = "private"
	// AccessTenant makes a document visible to every member of its tenant.
	AccessTenant AccessLevel = "tenant"
)

// Valid reports whether l is one of the known access levels.
func (l AccessLevel) Valid() bool {
	switch l {
	case AccessPrivate, AccessTenant:
		return true
	}
	return false
}

// ParseAccessLevel maps the wire value to an AccessLevel. The empty string
// defaults to private.
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch s {
	case "", string(AccessPrivate):
		return AccessPrivate, nil
	case string(AccessTenant):
		return AccessTenant, nil
	}
	return "", fmt.Errorf("unknown access level %q", s)
}

// Document is the metadata record of a stored file. The blob itself lives in
// the storage layer under StorageFilename, which is derived solely from the
// document id plus the original extension so attacker-controlled filenames
// never reach the filesystem. TenantID always equals the uploader's tenant.
type Document struct {
	ID              string      `json:"id"`
	TenantID        string      `json:"tenant_id"`
	Filename        string      `json:"filename"`
	StorageFilename string      `json:"storage_filename"`
	UploadedBy      string      `json:"uploaded_by"`
	UploadDate      time.Time   `json:"upload_date"`
	AccessLevel     AccessLevel `json:"access_level"`
	ContentType     string      `json:"content_type"`
	Size            int64       `json:"size"`
}

// StorageKey is the blob address of the document: one directory per tenant,
// file named after the document id.
func (d Document) StorageKey() string {
	return d.TenantID + "/" + d.StorageFilename
}
