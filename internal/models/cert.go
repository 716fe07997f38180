package models

import (
	"time"
)

// CertRecord caches a certificate lookup response
type CertRecord struct {
	CertNumber   string    `json:"cert_number" gorm:"primaryKey"`
	Grade        string    `json:"grade"`
	SerialNumber string    `json:"serial_number"`
	CardName     string    `json:"card_name"`
	Raw          string    `json:"raw,omitempty"` // response body as returned by the API
	FetchedAt    time.Time `json:"fetched_at" gorm:"index"`
}

// CertLookupResult is the outcome of one lookup in a batch
type CertLookupResult struct {
	CertNumber string      `json:"cert_number"`
	Record     *CertRecord `json:"record,omitempty"`
	StatusCode int         `json:"status_code,omitempty"`
	Error      string      `json:"error,omitempty"`
	Cached     bool        `json:"cached"`
}

// OK reports whether the lookup produced a record
func (r CertLookupResult) OK() bool {
	return r.Record != nil && r.Error == ""
}

// CertBatchResponse is the JSON preview of a workbook lookup
type CertBatchResponse struct {
	Found     int                 `json:"found"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Results   []CertLookupResult  `json:"results"`
	Header    []string            `json:"header"`
	Rows      []map[string]string `json:"rows"`
}
