package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/tcg-catalog/internal/metrics"
	"github.com/codyseavey/tcg-catalog/internal/models"
)

const (
	psaDefaultBaseURL = "https://api.psacard.com/publicapi"
	psaDefaultTimeout = 10 * time.Second
)

// ErrCertLookupDisabled is returned when no API token is configured
var ErrCertLookupDisabled = errors.New("cert lookup is not configured")

// CertLookupError is a failed lookup of one certificate. StatusCode is the
// HTTP status the API answered with, or 0 when no response arrived.
type CertLookupError struct {
	CertNumber string
	StatusCode int
	Err        error
}

func (e *CertLookupError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("cert %s: API returned status %d", e.CertNumber, e.StatusCode)
	}
	return fmt.Sprintf("cert %s: %v", e.CertNumber, e.Err)
}

func (e *CertLookupError) Unwrap() error { return e.Err }

// psaCertResponse accepts both the flat shape and the nested PSACert shape
type psaCertResponse struct {
	Grade        string `json:"grade"`
	SerialNumber string `json:"serialNumber"`
	CardName     string `json:"cardName"`
	PSACert      *struct {
		CertNumber string `json:"CertNumber"`
		CardGrade  string `json:"CardGrade"`
		Subject    string `json:"Subject"`
	} `json:"PSACert"`
}

// CertLookupService resolves PSA certificate numbers, caching results in SQLite
type CertLookupService struct {
	client  *resty.Client
	baseURL string
	token   string
	limiter *rate.Limiter
	db      *gorm.DB
	ttl     time.Duration
}

// NewCertLookupService creates the PSA client. A nil db disables caching.
func NewCertLookupService(baseURL, token string, requestsPerSecond float64, db *gorm.DB, ttl time.Duration) *CertLookupService {
	if baseURL == "" {
		baseURL = psaDefaultBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}

	client := resty.New()
	client.SetTimeout(psaDefaultTimeout)
	client.SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetAuthScheme("Bearer")
		client.SetAuthToken(token)
	}

	return &CertLookupService{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		db:      db,
		ttl:     ttl,
	}
}

// Enabled reports whether an API token is configured
func (s *CertLookupService) Enabled() bool {
	return s.token != ""
}

// Lookup returns the record for one cert and whether it came from the cache
func (s *CertLookupService) Lookup(ctx context.Context, certNumber string) (*models.CertRecord, bool, error) {
	certNumber = strings.TrimSpace(certNumber)
	if certNumber == "" {
		return nil, false, &CertLookupError{CertNumber: certNumber, StatusCode: http.StatusBadRequest}
	}

	if rec := s.cached(certNumber); rec != nil {
		metrics.CertLookupsTotal.WithLabelValues("cache").Inc()
		return rec, true, nil
	}

	if !s.Enabled() {
		return nil, false, ErrCertLookupDisabled
	}

	rec, err := s.fetch(ctx, certNumber)
	if err != nil {
		metrics.CertLookupsTotal.WithLabelValues("failed").Inc()
		return nil, false, err
	}
	metrics.CertLookupsTotal.WithLabelValues("success").Inc()
	s.save(rec)
	return rec, false, nil
}

// LookupBatch looks up each cert independently; one failure does not stop the rest
func (s *CertLookupService) LookupBatch(ctx context.Context, certNumbers []string) []models.CertLookupResult {
	results := make([]models.CertLookupResult, 0, len(certNumbers))
	for _, cert := range certNumbers {
		result := models.CertLookupResult{CertNumber: cert}
		rec, cached, err := s.Lookup(ctx, cert)
		if err != nil {
			result.Error = err.Error()
			var lookupErr *CertLookupError
			if errors.As(err, &lookupErr) {
				result.StatusCode = lookupErr.StatusCode
			}
			log.Printf("Cert lookup: %v", err)
		} else {
			result.Record = rec
			result.Cached = cached
		}
		results = append(results, result)
	}
	return results
}

func (s *CertLookupService) fetch(ctx context.Context, certNumber string) (*models.CertRecord, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &CertLookupError{CertNumber: certNumber, Err: err}
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.baseURL + "/cert/GetByCertNumber/" + url.PathEscape(certNumber))
	metrics.CertAPILatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &CertLookupError{CertNumber: certNumber, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &CertLookupError{CertNumber: certNumber, StatusCode: resp.StatusCode()}
	}

	var body psaCertResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &CertLookupError{CertNumber: certNumber, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	rec := &models.CertRecord{
		CertNumber:   certNumber,
		Grade:        body.Grade,
		SerialNumber: body.SerialNumber,
		CardName:     body.CardName,
		Raw:          string(resp.Body()),
		FetchedAt:    time.Now(),
	}
	if body.PSACert != nil {
		if rec.Grade == "" {
			rec.Grade = body.PSACert.CardGrade
		}
		if rec.CardName == "" {
			rec.CardName = body.PSACert.Subject
		}
	}
	return rec, nil
}

func (s *CertLookupService) cached(certNumber string) *models.CertRecord {
	if s.db == nil {
		return nil
	}
	var rec models.CertRecord
	if err := s.db.Where("cert_number = ?", certNumber).First(&rec).Error; err != nil {
		return nil
	}
	if !s.isFresh(rec.FetchedAt) {
		return nil
	}
	return &rec
}

func (s *CertLookupService) save(rec *models.CertRecord) {
	if s.db == nil {
		return
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cert_number"}},
		UpdateAll: true,
	}).Create(rec).Error
	if err != nil {
		log.Printf("Cert lookup: failed to cache cert %s: %v", rec.CertNumber, err)
	}
}

// isFresh checks if a fetch time is within the cache TTL. A TTL of 0 never expires.
func (s *CertLookupService) isFresh(fetchedAt time.Time) bool {
	if fetchedAt.IsZero() {
		return false
	}
	return s.ttl <= 0 || time.Since(fetchedAt) < s.ttl
}
